package store

import (
	"context"
	"database/sql"
	"fmt"
)

// postLoadIndexes are created right after the load phase, per spec
// §4.12 step 4: indexes the cross-reference and dedup passes' own
// lookups need, before any of those passes run.
var postLoadIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_navaids_ident ON navaids(ident)`,
	`CREATE INDEX IF NOT EXISTS idx_navaids_ident_region ON navaids(ident, region)`,
	`CREATE INDEX IF NOT EXISTS idx_airports_ident ON airports(ident)`,
	`CREATE INDEX IF NOT EXISTS idx_ils_ident ON ils(ident)`,
	`CREATE INDEX IF NOT EXISTS idx_runway_ends_ils_ident ON runway_ends(ils_ident)`,
}

// finalIndexes are created last, per spec §4.12 step 10: the lookups a
// reader of the finished output database performs (by-airport joins,
// spatial bounding-box scans), not needed by the compiler itself.
var finalIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_runways_airport ON runways(airport_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runway_ends_runway ON runway_ends(runway_id)`,
	`CREATE INDEX IF NOT EXISTS idx_procedures_airport ON procedures(airport_id)`,
	`CREATE INDEX IF NOT EXISTS idx_procedure_transitions_procedure ON procedure_transitions(procedure_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ils_airport ON ils(airport_id)`,
	`CREATE INDEX IF NOT EXISTS idx_airways_name ON airways(name)`,
	`CREATE INDEX IF NOT EXISTS idx_airways_rect ON airways(rect_tl_lon, rect_tl_lat, rect_br_lon, rect_br_lat)`,
	`CREATE INDEX IF NOT EXISTS idx_airports_rect ON airports(rect_tl_lon, rect_tl_lat, rect_br_lon, rect_br_lat)`,
	`CREATE INDEX IF NOT EXISTS idx_route_nodes_navaid ON route_nodes(navaid_id)`,
	`CREATE INDEX IF NOT EXISTS idx_route_edges_from ON route_edges(from_node_id)`,
	`CREATE INDEX IF NOT EXISTS idx_route_edges_to ON route_edges(to_node_id)`,
}

func (s *Store) runIndexSet(ctx context.Context, stmts []string) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("store: creating index: %w", err)
			}
		}
		return nil
	})
}

// CreatePostLoadIndexes runs postLoadIndexes.
func (s *Store) CreatePostLoadIndexes(ctx context.Context) error {
	return s.runIndexSet(ctx, postLoadIndexes)
}

// CreateFinalIndexes runs finalIndexes.
func (s *Store) CreateFinalIndexes(ctx context.Context) error {
	return s.runIndexSet(ctx, finalIndexes)
}

// Vacuum rebuilds the database file, per spec §4.12 step 11.
func (s *Store) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("store: vacuum: %w", err)
	}
	return nil
}

// Analyze refreshes the query planner's statistics, per spec §4.12 step 11.
func (s *Store) Analyze(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("store: analyze: %w", err)
	}
	return nil
}

// TableCounts returns the row count of every table schemaTables names,
// for the metadata summary and the basic-validation pass (spec §4.12
// step 11: "row counts look sane").
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(schemaTables))
	for _, t := range schemaTables {
		if t == "metadata" || t == "metadata_files" || t == "metadata_table_counts" {
			continue
		}
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			return nil, fmt.Errorf("store: counting %s: %w", t, err)
		}
		counts[t] = n
	}
	return counts, nil
}
