// Package ils derives the localizer feather polygon described in spec
// §4.7. No library in the example pack models this bearing/distance
// projection directly (paulmach/orb represents static polygons, not the
// trigonometry that builds one), so this pass is built the same way the
// teacher computes runway thresholds and waypoint offsets -- plain
// trigonometry over internal/geo primitives; see DESIGN.md's stdlib-only
// justification for internal/ils.
package ils

import "github.com/flightdata/navdbc/internal/geo"

// DefaultFeatherLengthNM is the feather's nominal length when a source
// does not specify one.
const DefaultFeatherLengthNM = 18

// Feather computes the three-point localizer feather polygon for an ILS
// whose origin, true heading, and full angular beam width (degrees) are
// known, per spec §4.7:
//  1. reverse the heading so the feather points away from the runway
//     into the approach cone;
//  2. project two corners from the origin along the reversed heading,
//     offset by +-width/2;
//  3. project a midpoint along the reversed heading for
//     length - featherWidth/2, where featherWidth is the great-circle
//     distance between the two corners.
func Feather(origin geo.Position, headingTrue, widthDegrees, lengthNM float32) [3]geo.Position {
	nmPerLon := geo.NMPerLongitudeDegree(origin.Latitude())
	reversed := geo.OppositeCourse(headingTrue)

	left := geo.Endpoint(origin, geo.NormalizeCourse(reversed-widthDegrees/2), lengthNM, nmPerLon)
	right := geo.Endpoint(origin, geo.NormalizeCourse(reversed+widthDegrees/2), lengthNM, nmPerLon)

	featherWidthNM := geo.DistanceNM(left, right)
	midLengthNM := lengthNM - featherWidthNM/2
	mid := geo.Endpoint(origin, reversed, midLengthNM, nmPerLon)

	return [3]geo.Position{left, mid, right}
}
