package airspace

import (
	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

// Contains reports whether position falls within boundary's outer ring,
// via the standard even-odd ray-casting test: cast a ray east from the
// point and count ring edges it crosses. paulmach/orb's own API surface
// at the version this module pins has no stable point-in-polygon helper
// to ground this on, so the test is hand-rolled rather than guessed at.
func Contains(boundary navdata.AirspaceBoundary, position geo.Position) bool {
	return ringContains(boundary.Polygon, position)
}

func ringContains(ring []geo.Position, p geo.Position) bool {
	if len(ring) < 3 {
		return false
	}
	inside := false
	px, py := p.Longitude(), p.Latitude()
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Longitude(), ring[i].Latitude()
		xj, yj := ring[j].Longitude(), ring[j].Latitude()
		if (yi > py) != (yj > py) {
			slopeX := xi + (py-yi)/(yj-yi)*(xj-xi)
			if px < slopeX {
				inside = !inside
			}
		}
	}
	return inside
}
