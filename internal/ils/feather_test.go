package ils

import (
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
)

func TestFeatherIsSymmetricAboutReversedHeading(t *testing.T) {
	origin := geo.Position{-73, 40}
	pts := Feather(origin, 90, 6, DefaultFeatherLengthNM)

	left, mid, right := pts[0], pts[1], pts[2]
	dLeft := geo.DistanceNM(origin, left)
	dRight := geo.DistanceNM(origin, right)
	if diff := dLeft - dRight; diff > 0.05 || diff < -0.05 {
		t.Errorf("corners not equidistant from origin: left=%v right=%v", dLeft, dRight)
	}

	dMid := geo.DistanceNM(origin, mid)
	if dMid >= dLeft {
		t.Errorf("midpoint (%v) should be closer to origin than corners (%v)", dMid, dLeft)
	}
}

func TestFeatherPointsAwayFromRunwayHeading(t *testing.T) {
	origin := geo.Position{-73, 40}
	pts := Feather(origin, 0, 6, 10)
	mid := pts[1]
	// Heading 0 (north) means the approach cone, and therefore the
	// feather, points south: the midpoint's latitude should decrease.
	if mid.Latitude() >= origin.Latitude() {
		t.Errorf("midpoint latitude %v should be south of origin %v", mid.Latitude(), origin.Latitude())
	}
}
