package orchestrator

import (
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
)

func TestNavaidResolverByIdentRegionType(t *testing.T) {
	r := newNavaidResolver([]navaidPos{
		{Ident: "ABC", Region: "K6", Position: geo.Position{-75, 40}},
	})
	pos, ok := r.ByIdentRegionType("ABC", "K6")
	if !ok || pos != (geo.Position{-75, 40}) {
		t.Fatalf("ByIdentRegionType = %v, %v", pos, ok)
	}
	if _, ok := r.ByIdentRegionType("ABC", "EU"); ok {
		t.Error("expected no match for wrong region")
	}
}

func TestNavaidResolverNearestByIdent(t *testing.T) {
	r := newNavaidResolver([]navaidPos{
		{Ident: "XYZ", Region: "K6", Position: geo.Position{-75, 40}},
		{Ident: "XYZ", Region: "K7", Position: geo.Position{10, 10}},
	})
	pos, ok := r.NearestByIdent("XYZ", geo.Position{-74.9, 40.1})
	if !ok {
		t.Fatal("expected a match")
	}
	if pos != (geo.Position{-75, 40}) {
		t.Errorf("nearest = %v, want the close candidate", pos)
	}
	if _, ok := r.NearestByIdent("NOPE", geo.Position{}); ok {
		t.Error("expected no match for unknown ident")
	}
}

func TestNavaidResolverSynthesize(t *testing.T) {
	r := newNavaidResolver(nil)
	at := geo.Position{1, 2}
	if got := r.Synthesize("ANY", at); got != at {
		t.Errorf("Synthesize = %v, want %v unchanged", got, at)
	}
}
