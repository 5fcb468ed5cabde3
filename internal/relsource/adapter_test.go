package relsource

import (
	"testing"

	"github.com/flightdata/navdbc/internal/navdata"
)

func TestAltitudeDescriptionFromColumn(t *testing.T) {
	cases := map[string]navdata.AltitudeDescription{
		"+": navdata.AltitudeAtOrAbove,
		"-": navdata.AltitudeAtOrBelow,
		"B": navdata.AltitudeBetween,
		"@": navdata.AltitudeAt,
		"":  navdata.AltitudeNone,
	}
	for in, want := range cases {
		if got := altitudeDescriptionFromColumn(in); got != want {
			t.Errorf("altitudeDescriptionFromColumn(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestProcedureInputFromRowPreservesRecommandedSpelling(t *testing.T) {
	r := procedureRow{
		AirportIdentifier: "KXYZ",
		ProcedureIdentifier: "ILS13",
		Seqno: 1,
		FixIdentifier: "ALPHA",
		RecommandedNavaid: "VOR1",
		AltitudeDescription: "+",
		Altitude1: 3000,
	}
	in := procedureInputFromRow(r, navdata.ProcedureApproach)
	if in.RecommendedNavaid != "VOR1" {
		t.Errorf("RecommendedNavaid = %q, want VOR1", in.RecommendedNavaid)
	}
	if in.AltDescription != navdata.AltitudeAtOrAbove {
		t.Errorf("AltDescription = %v, want AltitudeAtOrAbove", in.AltDescription)
	}
	if in.Altitude1 != 3000 {
		t.Errorf("Altitude1 = %d, want 3000", in.Altitude1)
	}
}
