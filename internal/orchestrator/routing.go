package orchestrator

import "context"

// buildRoutingTables populates the optional route_nodes/route_edges
// tables of spec §4.12 step 9. The work is pure SQL over already-
// committed, already-cross-referenced data, so it lives on the store
// rather than needing anything further from staging.
func (p *Pipeline) buildRoutingTables(ctx context.Context, stg *staging) error {
	_ = stg
	return p.Store.BuildRoutingTables(ctx)
}
