package store

import (
	"context"
	"database/sql"
	"fmt"
)

// dedupRules names, per table, the identifier columns that define a
// duplicate and the tie-break order to keep exactly one row, per
// invariant 7: "source priority, then insertion order" -- higher
// source_priority wins; among equal priority, the later-loaded
// (insertion_order/rowid) row wins, matching the original's
// last-write-wins semantics for community/add-on overrides of base data.
type dedupRule struct {
	table      string
	identCols  []string // columns identifying a duplicate group
	priorityCol string
	tiebreakCol string // defaults to "id" if empty
}

var dedupRules = []dedupRule{
	{table: "airports", identCols: []string{"ident"}, priorityCol: "source_priority", tiebreakCol: "insertion_order"},
	{table: "navaids", identCols: []string{"ident", "region", "type"}, priorityCol: "source_priority"},
}

// RunDedup deletes every row in each dedupRule's table that is not the
// winning row of its identifier group, per spec §4.12 step 5 ("optional
// dedup") -- the orchestrator only calls this when config.Policy.Dedup
// is set, since a single-source run has nothing to deduplicate and the
// pass is pure overhead.
func (s *Store) RunDedup(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, rule := range dedupRules {
			tiebreak := rule.tiebreakCol
			if tiebreak == "" {
				tiebreak = "id"
			}
			partition := ""
			for i, c := range rule.identCols {
				if i > 0 {
					partition += ", "
				}
				partition += c
			}
			stmt := fmt.Sprintf(`DELETE FROM %s WHERE id NOT IN (
				SELECT id FROM (
					SELECT id, ROW_NUMBER() OVER (
						PARTITION BY %s ORDER BY %s DESC, %s DESC
					) AS rn
					FROM %s
				) WHERE rn = 1
			)`, rule.table, partition, rule.priorityCol, tiebreak, rule.table)
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("store: dedup %s: %w", rule.table, err)
			}
		}
		return nil
	})
}
