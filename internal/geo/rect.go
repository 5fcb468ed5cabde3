// rect.go
// Adapted from mmp-vice/pkg/math/geom.go's Extent2D: renamed Rect and
// specialized to Position corners since every bounding rectangle in the
// output schema is stored as (top-left lon/lat, bottom-right lon/lat)
// per spec §6. Rendering-oriented helpers (ray/segment intersection,
// convex hull, polygon triangulation) that geom.go carries for the
// simulator's scope renderer are dropped; they have no caller here.
package geo

// Rect is an axis-aligned bounding rectangle over positions. TopLeft is
// the minimum-longitude/maximum-latitude corner; BottomRight is the
// maximum-longitude/minimum-latitude corner, matching the output store's
// four bounding-rectangle columns.
type Rect struct {
	TopLeft, BottomRight Position
}

// EmptyRect returns a degenerate rectangle suitable as the seed for a
// sequence of Union calls.
func EmptyRect() Rect {
	return Rect{
		TopLeft:     Position{1e30, -1e30},
		BottomRight: Position{-1e30, 1e30},
	}
}

// RectFromPositions returns the smallest rectangle containing all of the
// given positions.
func RectFromPositions(pts []Position) Rect {
	r := EmptyRect()
	for _, p := range pts {
		r = r.Union(p)
	}
	return r
}

// RectAround returns a square rectangle centered on p, sideMeters wide,
// used to seed an airport's bounding rectangle per invariant 5 (must be
// at least 100m even before any runway is unioned in).
func RectAround(p Position, sideMeters float32) Rect {
	halfNM := (sideMeters * MeterToNauticalMiles) / 2
	nmPerLon := NMPerLongitudeDegree(p.Latitude())
	dLon := halfNM / nmPerLon
	dLat := halfNM / NMPerLatitudeDegree
	return Rect{
		TopLeft:     Position{p[0] - dLon, p[1] + dLat},
		BottomRight: Position{p[0] + dLon, p[1] - dLat},
	}
}

// Union returns the rectangle extended to include p.
func (r Rect) Union(p Position) Rect {
	return Rect{
		TopLeft:     Position{Min(r.TopLeft[0], p[0]), Max(r.TopLeft[1], p[1])},
		BottomRight: Position{Max(r.BottomRight[0], p[0]), Min(r.BottomRight[1], p[1])},
	}
}

// UnionRect returns the rectangle extended to include another rectangle.
func (r Rect) UnionRect(o Rect) Rect {
	return r.Union(o.TopLeft).Union(o.BottomRight)
}

// Expand grows the rectangle by distMeters in every direction.
func (r Rect) Expand(distMeters float32) Rect {
	distNM := distMeters * MeterToNauticalMiles
	center := r.Center()
	nmPerLon := NMPerLongitudeDegree(center.Latitude())
	dLon := distNM / nmPerLon
	dLat := distNM / NMPerLatitudeDegree
	return Rect{
		TopLeft:     Position{r.TopLeft[0] - dLon, r.TopLeft[1] + dLat},
		BottomRight: Position{r.BottomRight[0] + dLon, r.BottomRight[1] - dLat},
	}
}

func (r Rect) Center() Position {
	return Position{(r.TopLeft[0] + r.BottomRight[0]) / 2, (r.TopLeft[1] + r.BottomRight[1]) / 2}
}

// Contains reports whether p lies within the rectangle (inclusive).
func (r Rect) Contains(p Position) bool {
	return p[0] >= r.TopLeft[0] && p[0] <= r.BottomRight[0] &&
		p[1] <= r.TopLeft[1] && p[1] >= r.BottomRight[1]
}

// Overlaps reports whether the two rectangles share any area.
func Overlaps(a, b Rect) bool {
	x := a.BottomRight[0] >= b.TopLeft[0] && a.TopLeft[0] <= b.BottomRight[0]
	y := a.TopLeft[1] >= b.BottomRight[1] && a.BottomRight[1] <= b.TopLeft[1]
	return x && y
}

// WidthMeters and HeightMeters report the rectangle's extent converted to
// meters at its own center latitude.
func (r Rect) WidthMeters() float32 {
	nmPerLon := NMPerLongitudeDegree(r.Center().Latitude())
	return (r.BottomRight[0] - r.TopLeft[0]) * nmPerLon * NauticalMilesToMeter
}

func (r Rect) HeightMeters() float32 {
	return (r.TopLeft[1] - r.BottomRight[1]) * NMPerLatitudeDegree * NauticalMilesToMeter
}
