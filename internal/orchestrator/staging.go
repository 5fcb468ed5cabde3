package orchestrator

import (
	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/runway"
)

// staging is the in-memory accumulator every load path fills before the
// derive/write phases run, per spec §4.2's "adapter output is inserted
// into staging tables, not the final schema, so downstream cross-
// reference passes treat all adapters uniformly."
type staging struct {
	airports      []navdata.Airport
	navaids       []navdata.Navaid
	airways       []navdata.AirwaySegment
	procedures    []navdata.Procedure
	boundaries    []navdata.AirspaceBoundary
	ils           []navdata.ILS
	runwaysByAirport map[string][]runway.End
	insertionOrder  int
	derived         *derived
}

func newStaging() *staging {
	return &staging{runwaysByAirport: make(map[string][]runway.End)}
}

// addAirport stamps the next insertion order and the given source
// priority before appending, per invariant 7.
func (s *staging) addAirport(a navdata.Airport, priority navdata.SourcePriority) {
	a.Source = priority
	a.InsertionOrder = s.insertionOrder
	s.insertionOrder++
	s.airports = append(s.airports, a)
}

func (s *staging) addNavaid(n navdata.Navaid, priority navdata.SourcePriority) {
	n.Source = priority
	s.navaids = append(s.navaids, n)
}

func (s *staging) addRunwayEnd(airportIdent string, end runway.End) {
	s.runwaysByAirport[airportIdent] = append(s.runwaysByAirport[airportIdent], end)
}

// navaidPositions returns every staged navaid's identifier, region, and
// position, for the fix resolver built ahead of the derive phase.
func (s *staging) navaidPositions() []navaidPos {
	out := make([]navaidPos, 0, len(s.navaids))
	for _, n := range s.navaids {
		out = append(out, navaidPos{Ident: n.Ident, Region: n.Region, Position: n.Position})
	}
	return out
}

type navaidPos struct {
	Ident, Region string
	Position      geo.Position
}
