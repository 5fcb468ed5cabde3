// Package airspace reads airspace boundary polygons (Class B/C/D and
// similar controlled-airspace volumes) into navdata.AirspaceBoundary
// records. Grounded directly on mmp-vice/misc/airspace.go, which
// extracts the same classes from a GeoJSON feature collection using
// github.com/paulmach/orb's geojson and simplify packages; that tool
// writes its own ad hoc per-class JSON files, whereas this package
// feeds the orchestrator's output store, so ring simplification and
// classification are kept but the two name-keyed output maps are
// replaced with a flat slice of boundary records carrying their own
// name and type.
package airspace

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

// simplifyRingVertexThreshold matches the teacher's tool: rings denser than
// this many vertices are run through Douglas-Peucker simplification
// before being stored.
const simplifyRingVertexThreshold = 100

// simplifyEpsilon is the teacher's tool's tolerance, in degrees.
const simplifyEpsilon = 0.00001

func getProp[T any](m map[string]interface{}, name string) (T, bool) {
	p, ok := m[name]
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := p.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return v, true
}

// classify reports the airspace class ("B", "C", "D") a feature's NAME
// property suffix identifies, and the name with that suffix stripped.
func classify(name string) (class, trimmedName string, ok bool) {
	for _, c := range []string{"B", "C", "D"} {
		suffix := " CLASS " + c
		if strings.HasSuffix(name, suffix) {
			return c, strings.TrimSuffix(name, suffix), true
		}
	}
	return "", name, false
}

// ParseGeoJSON decodes a FeatureCollection of airspace polygons, per the
// teacher's tool, into navdata.AirspaceBoundary records. Features whose
// NAME does not carry a recognized class suffix are skipped; features
// missing LOWER_VAL/UPPER_VAL properties are reported via onError and
// skipped rather than aborting the whole file.
func ParseGeoJSON(data []byte, onError func(name string, err error)) ([]navdata.AirspaceBoundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("airspace: decoding GeoJSON: %w", err)
	}

	var boundaries []navdata.AirspaceBoundary
	for _, f := range fc.Features {
		name, _ := getProp[string](f.Properties, "NAME")
		class, trimmedName, ok := classify(name)
		if !ok {
			continue
		}

		poly, ok := f.Geometry.(orb.Polygon)
		if !ok {
			if onError != nil {
				onError(name, fmt.Errorf("unexpected geometry type %T", f.Geometry))
			}
			continue
		}

		low, lowOK := getProp[float64](f.Properties, "LOWER_VAL")
		high, highOK := getProp[float64](f.Properties, "UPPER_VAL")
		if !lowOK || !highOK {
			if onError != nil {
				onError(name, fmt.Errorf("missing LOWER_VAL/UPPER_VAL"))
			}
			continue
		}

		region, _ := getProp[string](f.Properties, "REGION")

		boundaries = append(boundaries, navdata.AirspaceBoundary{
			Type:        class,
			Name:        trimmedName,
			Region:      region,
			FloorFeet:   int(low),
			CeilingFeet: int(high),
			Polygon:     outerRingPositions(poly),
		})
	}
	return boundaries, nil
}

// outerRingPositions returns the polygon's outer ring as []geo.Position,
// simplified via Douglas-Peucker when it is denser than the teacher's
// threshold. Holes are dropped: navdata.AirspaceBoundary models a single
// closed boundary, matching what the output schema's airspace table
// stores (spec §3 has no hole geometry for this entity).
func outerRingPositions(poly orb.Polygon) []geo.Position {
	if len(poly) == 0 {
		return nil
	}
	ring := poly[0]
	if len(ring) > simplifyRingVertexThreshold {
		if simplified, ok := simplify.DouglasPeucker(simplifyEpsilon).Simplify(ring).(orb.Ring); ok {
			ring = simplified
		}
	}

	positions := make([]geo.Position, len(ring))
	for i, pt := range ring {
		positions[i] = geo.Position{float32(pt[0]), float32(pt[1])}
	}
	return positions
}
