package airspace

import (
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

func TestContainsInsideAndOutsideSquare(t *testing.T) {
	boundary := navdata.AirspaceBoundary{
		Polygon: []geo.Position{
			{-122.5, 37.5}, {-122.5, 37.6}, {-122.4, 37.6}, {-122.4, 37.5}, {-122.5, 37.5},
		},
	}

	if !Contains(boundary, geo.Position{-122.45, 37.55}) {
		t.Error("expected point inside the square to be contained")
	}
	if Contains(boundary, geo.Position{-123.0, 37.55}) {
		t.Error("expected point outside the square to not be contained")
	}
}

func TestContainsDegenerateRing(t *testing.T) {
	boundary := navdata.AirspaceBoundary{Polygon: []geo.Position{{0, 0}, {1, 1}}}
	if Contains(boundary, geo.Position{0.5, 0.5}) {
		t.Error("a two-point ring cannot contain anything")
	}
}
