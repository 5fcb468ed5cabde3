// Package runway implements the runway-pairing and airport-geometry
// derivation pass of spec §4.5: given the single-end runway records one
// airport's adapters produced, it pairs geometric opposites into
// two-ended runways and grows the airport's bounding rectangle around
// them. Grounded on mmp-vice/pkg/aviation/db.go's Runway/parsing of
// fixed-column "RW11R"-style identifiers and on
// mmp-vice/pkg/math/geom.go's bounding-rect accumulation pattern, reused
// here via internal/geo.Rect.
package runway

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

// End is one single-ended runway record as produced by a source adapter,
// before pairing.
type End struct {
	Designator    string // "11R", "29", "36C", etc.
	Center        geo.Position
	LengthFeet    float32
	WidthFeet     float32
	HeadingTrue   float32
	HeadingMag    float32
	Surface       string
	AltitudeFeet  int
	DisplacedNM   float32
	ILSIdent      string
	Closed        bool
}

// OppositeDesignator returns the canonical opposite of a runway
// designator per spec §4.5 step 1: numeric (n+18) mod 36, remapping 0 to
// 36, and swapping the side letter L<->R (C and empty are unchanged).
func OppositeDesignator(d string) (string, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return "", fmt.Errorf("empty runway designator")
	}
	numEnd := len(d)
	for numEnd > 0 && (d[numEnd-1] < '0' || d[numEnd-1] > '9') {
		numEnd--
	}
	numStr, side := d[:numEnd], d[numEnd:]
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return "", fmt.Errorf("%s: invalid runway number: %w", d, err)
	}
	opp := (n + 18) % 36
	if opp == 0 {
		opp = 36
	}

	var oppSide string
	switch side {
	case "L":
		oppSide = "R"
	case "R":
		oppSide = "L"
	case "C", "":
		oppSide = side
	default:
		return "", fmt.Errorf("%s: unrecognized runway side letter %q", d, side)
	}
	return fmt.Sprintf("%02d%s", opp, oppSide), nil
}

// Pair pairs every End in ends into two-ended navdata.Runway records,
// synthesizing a closed stub for any end whose opposite is missing from
// the set, per spec §4.5 steps 2-3.
func Pair(ends []End) []navdata.Runway {
	byDesignator := make(map[string]End, len(ends))
	for _, e := range ends {
		byDesignator[normalizeDesignator(e.Designator)] = e
	}

	consumed := make(map[string]bool, len(ends))
	var runways []navdata.Runway

	for _, e := range ends {
		d := normalizeDesignator(e.Designator)
		if consumed[d] {
			continue
		}
		oppD, err := OppositeDesignator(d)
		if err != nil {
			continue
		}
		var secondary End
		if opp, ok := byDesignator[oppD]; ok && !consumed[oppD] {
			secondary = opp
			consumed[oppD] = true
		} else {
			secondary = synthesizeStub(e, oppD)
		}
		consumed[d] = true
		runways = append(runways, buildRunway(e, secondary))
	}
	return runways
}

func normalizeDesignator(d string) string {
	d = strings.TrimSpace(strings.ToUpper(d))
	d = strings.TrimPrefix(d, "RW")
	if len(d) == 1 || (len(d) == 2 && (d[1] < '0' || d[1] > '9')) {
		d = "0" + d
	}
	return d
}

// synthesizeStub builds the closed placeholder end described in spec
// §4.5 step 3: a copy of the known end's geometry with the opposite
// identifier, zeroed displaced threshold, no ILS, and the opposed true
// course, marked closed.
func synthesizeStub(known End, oppositeDesignator string) End {
	return End{
		Designator:   oppositeDesignator,
		Center:       known.Center,
		LengthFeet:   known.LengthFeet,
		WidthFeet:    known.WidthFeet,
		HeadingTrue:  geo.OppositeCourse(known.HeadingTrue),
		HeadingMag:   geo.OppositeCourse(known.HeadingMag),
		Surface:      known.Surface,
		AltitudeFeet: known.AltitudeFeet,
		DisplacedNM:  0,
		ILSIdent:     "",
		Closed:       true,
	}
}

// buildRunway assembles a two-ended navdata.Runway. Per spec §4.5, each
// end's threshold position is computed from the shared runway center as
// endpoint(center, length/2, heading); the "primary" end of the pair is,
// by convention of the source, the one supplied first.
func buildRunway(primary, secondary End) navdata.Runway {
	center := primary.Center
	nmPerLon := geo.NMPerLongitudeDegree(center.Latitude())
	halfLengthNM := (primary.LengthFeet / 2) * geo.FeetToMeter * geo.MeterToNauticalMiles

	primaryThreshold := geo.Endpoint(center, geo.OppositeCourse(primary.HeadingTrue), halfLengthNM, nmPerLon)
	secondaryThreshold := geo.Endpoint(center, primary.HeadingTrue, halfLengthNM, nmPerLon)

	return navdata.Runway{
		PrimaryEnd:   toRunwayEnd(primary, primaryThreshold),
		SecondaryEnd: toRunwayEnd(secondary, secondaryThreshold),
		LengthFeet:   primary.LengthFeet,
		WidthFeet:    primary.WidthFeet,
		HeadingTrue:  primary.HeadingTrue,
		Center:       center,
		Surface:      primary.Surface,
		AltitudeFeet: primary.AltitudeFeet,
	}
}

func toRunwayEnd(e End, threshold geo.Position) navdata.RunwayEnd {
	return navdata.RunwayEnd{
		Designator:               e.Designator,
		Threshold:                threshold,
		HeadingTrue:              e.HeadingTrue,
		HeadingMagnetic:          e.HeadingMag,
		DisplacedThresholdDistNM: e.DisplacedNM,
		ILSIdent:                 e.ILSIdent,
		CanLand:                  !e.Closed,
		CanTakeoff:               !e.Closed,
		Closed:                   e.Closed,
	}
}

// AirportBoundingRect computes an airport's bounding rectangle per spec
// §4.5: it starts as a >=100m square around the reference point, then is
// extended by every runway's endpoints (invariant 5).
func AirportBoundingRect(reference geo.Position, runways []navdata.Runway) geo.Rect {
	r := geo.RectAround(reference, 100)
	for _, rw := range runways {
		r = r.Union(rw.PrimaryEnd.Threshold)
		r = r.Union(rw.SecondaryEnd.Threshold)
	}
	return r
}
