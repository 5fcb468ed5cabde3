package store

import (
	"context"
	"database/sql"
	"fmt"
)

// crossRefStmts are run in order after every fact table is loaded, per
// spec §4.12 step 8: "update navaid IDs on waypoints, runway-end IDs on
// approaches, ILS<->runway-end linkage, ILS counts on airports." Each
// resolves one foreign key by joining on the identifier columns the
// load phase left behind; airway endpoints disambiguate multiple
// same-ident navaids by distance to the segment's own bounding
// rectangle center, the nearest-candidate tie-break spec §4.6 uses for
// fix resolution.
//
// Step 8's remaining two operations -- "airport IDs on navaids" and
// "assign regions to airports by nearest-navaid heuristic" -- are
// proximity/distance heuristics rather than exact-ident joins, so they
// live in region.go's AssignNavaidAirportIDs and
// AssignAirportRegionsByNearestNavaid, computed in Go for the same
// reason routing.go's segment lengths are: this build carries no SQL
// trigonometric extension. RunCrossReference's caller (orchestrator.go)
// runs all three in the same cross_reference phase.
var crossRefStmts = []string{
	`UPDATE airways SET from_id = (
		SELECT n.id FROM navaids n WHERE n.ident = airways.from_waypoint
		ORDER BY (n.lon - (airways.rect_tl_lon + airways.rect_br_lon) / 2) * (n.lon - (airways.rect_tl_lon + airways.rect_br_lon) / 2)
		       + (n.lat - (airways.rect_tl_lat + airways.rect_br_lat) / 2) * (n.lat - (airways.rect_tl_lat + airways.rect_br_lat) / 2)
		LIMIT 1
	) WHERE from_id IS NULL OR from_id = 0`,
	`UPDATE airways SET to_id = (
		SELECT n.id FROM navaids n WHERE n.ident = airways.to_waypoint
		ORDER BY (n.lon - (airways.rect_tl_lon + airways.rect_br_lon) / 2) * (n.lon - (airways.rect_tl_lon + airways.rect_br_lon) / 2)
		       + (n.lat - (airways.rect_tl_lat + airways.rect_br_lat) / 2) * (n.lat - (airways.rect_tl_lat + airways.rect_br_lat) / 2)
		LIMIT 1
	) WHERE to_id IS NULL OR to_id = 0`,
	// runway-end <-> ILS linkage, by matching the end's recorded
	// ils_ident against the ils table's ident.
	`UPDATE runway_ends SET ils_id = (
		SELECT i.id FROM ils i WHERE i.ident = runway_ends.ils_ident LIMIT 1
	) WHERE ils_ident IS NOT NULL AND ils_ident != '' AND (ils_id IS NULL OR ils_id = 0)`,
	`UPDATE ils SET runway_end_id = (
		SELECT re.id FROM runway_ends re WHERE re.ils_id = ils.id LIMIT 1
	) WHERE runway_end_id IS NULL OR runway_end_id = 0`,
	`UPDATE ils SET airport_id = (
		SELECT r.airport_id FROM runway_ends re JOIN runways r ON r.id = re.runway_id WHERE re.id = ils.runway_end_id
	) WHERE runway_end_id IS NOT NULL AND (airport_id IS NULL OR airport_id = 0)`,
	// derived facility counts on airports, matching v_airport_facility_counts' shape
	`UPDATE airports SET num_runways = (SELECT COUNT(*) FROM runways r WHERE r.airport_id = airports.id)`,
	`UPDATE airports SET num_approaches = (SELECT COUNT(*) FROM procedures p WHERE p.airport_id = airports.id AND p.type = 2)`,
	`UPDATE airports SET num_ils = (SELECT COUNT(*) FROM ils i WHERE i.airport_id = airports.id)`,
}

// RunCrossReference executes every crossRefStmts entry inside one
// transaction, per spec §4.12 step 8.
func (s *Store) RunCrossReference(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range crossRefStmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("store: cross-reference: %w", err)
			}
		}
		return nil
	})
}
