package orchestrator

import (
	"context"
	"fmt"

	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/store"
)

// writeFacts persists every staged and derived row into the output
// store, per spec §4.12 step 3's write-back half: airports first (every
// later table references airports.id), then their runways (needs the
// derive phase's paired navdata.Runway values), then navaids, ILS,
// airways, procedures, and airspace boundaries. It returns the ident ->
// RowID maps later phases (procedures, routing tables) need.
func (p *Pipeline) writeFacts(ctx context.Context, stg *staging) (map[string]navdata.RowID, map[store.NavaidKey]navdata.RowID, error) {
	airportIDs, err := p.Store.InsertAirports(ctx, stg.airports)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: writing airports: %w", err)
	}

	if stg.derived != nil {
		for ident, runways := range stg.derived.runwaysByAirport {
			airportID, ok := airportIDs[ident]
			if !ok {
				p.Log.Warnf("skipping runways for unknown airport %s", ident)
				continue
			}
			if _, err := p.Store.InsertRunways(ctx, airportID, runways); err != nil {
				return airportIDs, nil, fmt.Errorf("orchestrator: writing runways for %s: %w", ident, err)
			}
		}
	}

	navaidIDs, err := p.Store.InsertNavaids(ctx, stg.navaids)
	if err != nil {
		return airportIDs, navaidIDs, fmt.Errorf("orchestrator: writing navaids: %w", err)
	}

	if _, err := p.Store.InsertILS(ctx, stg.ils); err != nil {
		return airportIDs, navaidIDs, fmt.Errorf("orchestrator: writing ils: %w", err)
	}

	if err := p.Store.InsertAirways(ctx, stg.airways); err != nil {
		return airportIDs, navaidIDs, fmt.Errorf("orchestrator: writing airways: %w", err)
	}

	if err := p.Store.InsertProcedures(ctx, stg.procedures, airportIDs); err != nil {
		return airportIDs, navaidIDs, fmt.Errorf("orchestrator: writing procedures: %w", err)
	}

	if err := p.Store.InsertAirspaceBoundaries(ctx, stg.boundaries); err != nil {
		return airportIDs, navaidIDs, fmt.Errorf("orchestrator: writing airspace boundaries: %w", err)
	}

	return airportIDs, navaidIDs, nil
}
