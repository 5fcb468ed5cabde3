package runway

import (
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
)

func TestOppositeDesignator(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"11R", "29L"},
		{"29L", "11R"},
		{"18C", "36C"},
		{"36", "18"},
		{"09", "27"},
		{"01L", "19R"},
	}
	for _, c := range cases {
		got, err := OppositeDesignator(c.in)
		if err != nil {
			t.Fatalf("OppositeDesignator(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("OppositeDesignator(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPairMatchesBothEnds(t *testing.T) {
	ends := []End{
		{Designator: "11R", Center: geo.Position{-73, 40}, LengthFeet: 10000, HeadingTrue: 110},
		{Designator: "29L", Center: geo.Position{-73, 40}, LengthFeet: 10000, HeadingTrue: 290},
	}
	runways := Pair(ends)
	if len(runways) != 1 {
		t.Fatalf("Pair() returned %d runways, want 1", len(runways))
	}
	rw := runways[0]
	if rw.PrimaryEnd.Designator != "11R" || rw.SecondaryEnd.Designator != "29L" {
		t.Errorf("unexpected pairing: primary=%s secondary=%s", rw.PrimaryEnd.Designator, rw.SecondaryEnd.Designator)
	}
	if rw.PrimaryEnd.Closed || rw.SecondaryEnd.Closed {
		t.Error("both real ends should not be closed")
	}
}

func TestPairSynthesizesStubWhenOppositeMissing(t *testing.T) {
	ends := []End{
		{Designator: "13", Center: geo.Position{-73, 40}, LengthFeet: 8000, HeadingTrue: 130},
	}
	runways := Pair(ends)
	if len(runways) != 1 {
		t.Fatalf("Pair() returned %d runways, want 1", len(runways))
	}
	rw := runways[0]
	if rw.SecondaryEnd.Designator != "31" {
		t.Errorf("SecondaryEnd.Designator = %q, want 31", rw.SecondaryEnd.Designator)
	}
	if !rw.SecondaryEnd.Closed {
		t.Error("synthesized stub should be closed")
	}
	if rw.SecondaryEnd.ILSIdent != "" {
		t.Error("synthesized stub should have no ILS")
	}
	if diff := geo.CourseDifference(rw.SecondaryEnd.HeadingTrue, geo.OppositeCourse(130)); diff > 0.01 {
		t.Errorf("SecondaryEnd.HeadingTrue = %v, want opposite of 130", rw.SecondaryEnd.HeadingTrue)
	}
}

func TestAirportBoundingRectIsAtLeast100MetersAndContainsRunways(t *testing.T) {
	ref := geo.Position{-73, 40}
	ends := []End{
		{Designator: "11R", Center: ref, LengthFeet: 12000, HeadingTrue: 110},
		{Designator: "29L", Center: ref, LengthFeet: 12000, HeadingTrue: 290},
	}
	runways := Pair(ends)
	rect := AirportBoundingRect(ref, runways)

	if rect.WidthMeters() < 100 || rect.HeightMeters() < 100 {
		t.Errorf("bounding rect too small: %vx%v meters", rect.WidthMeters(), rect.HeightMeters())
	}
	if !rect.Contains(runways[0].PrimaryEnd.Threshold) || !rect.Contains(runways[0].SecondaryEnd.Threshold) {
		t.Error("bounding rect does not contain both runway ends")
	}
}
