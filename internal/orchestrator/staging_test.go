package orchestrator

import (
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/runway"
)

func TestStagingAddAirportStampsInsertionOrder(t *testing.T) {
	s := newStaging()
	s.addAirport(navdata.Airport{Ident: "A"}, navdata.PriorityBase)
	s.addAirport(navdata.Airport{Ident: "B"}, navdata.PriorityCommunity)

	if s.airports[0].InsertionOrder != 0 || s.airports[1].InsertionOrder != 1 {
		t.Fatalf("unexpected insertion order: %+v", s.airports)
	}
	if s.airports[1].Source != navdata.PriorityCommunity {
		t.Errorf("expected stamped source priority, got %v", s.airports[1].Source)
	}
}

func TestStagingNavaidPositions(t *testing.T) {
	s := newStaging()
	s.addNavaid(navdata.Navaid{Ident: "X", Region: "K1", Position: geo.Position{1, 2}}, navdata.PriorityBase)

	positions := s.navaidPositions()
	if len(positions) != 1 || positions[0].Ident != "X" || positions[0].Region != "K1" {
		t.Fatalf("unexpected navaid positions: %+v", positions)
	}
}

func TestStagingAddRunwayEndGroupsByAirport(t *testing.T) {
	s := newStaging()
	s.addRunwayEnd("KJFK", runway.End{Designator: "13L"})

	if len(s.runwaysByAirport["KJFK"]) != 1 {
		t.Fatalf("expected 1 runway end staged for KJFK, got %d", len(s.runwaysByAirport["KJFK"]))
	}
}
