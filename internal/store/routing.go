package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flightdata/navdbc/internal/geo"
)

// BuildRoutingTables populates the optional route_nodes/route_edges
// tables of spec §4.12 step 9, from the already-resolved airway
// endpoints (step 8 must have run first): one route_node per distinct
// navaid referenced as an airway endpoint, and one route_edge per
// resolved airway segment, carrying the segment's great-circle
// distance. The distance is computed in Go via geo.DistanceNM rather
// than in SQL, since the plain build of modernc.org/sqlite this package
// uses does not carry the trigonometric math-function extension.
func (s *Store) BuildRoutingTables(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM route_edges`); err != nil {
			return fmt.Errorf("store: clearing route_edges: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM route_nodes`); err != nil {
			return fmt.Errorf("store: clearing route_nodes: %w", err)
		}

		type endpointNavaid struct {
			id       int64
			kind     int
			lon, lat float64
		}
		navaidRows, err := tx.QueryContext(ctx, `
			SELECT DISTINCT n.id, n.type, n.lon, n.lat
			FROM navaids n
			WHERE n.id IN (SELECT from_id FROM airways WHERE from_id IS NOT NULL)
			   OR n.id IN (SELECT to_id FROM airways WHERE to_id IS NOT NULL)`)
		if err != nil {
			return fmt.Errorf("store: selecting route endpoints: %w", err)
		}
		var navaids []endpointNavaid
		for navaidRows.Next() {
			var n endpointNavaid
			if err := navaidRows.Scan(&n.id, &n.kind, &n.lon, &n.lat); err != nil {
				navaidRows.Close()
				return fmt.Errorf("store: scanning route endpoint: %w", err)
			}
			navaids = append(navaids, n)
		}
		if err := navaidRows.Err(); err != nil {
			navaidRows.Close()
			return err
		}
		navaidRows.Close()

		nodeStmt, err := tx.PrepareContext(ctx, `INSERT INTO route_nodes (navaid_id, kind) VALUES (?,?)`)
		if err != nil {
			return err
		}
		nodeIDByNavaid := make(map[int64]int64, len(navaids))
		positionByNavaid := make(map[int64]geo.Position, len(navaids))
		for _, n := range navaids {
			res, err := nodeStmt.ExecContext(ctx, n.id, n.kind)
			if err != nil {
				nodeStmt.Close()
				return fmt.Errorf("store: inserting route_node for navaid %d: %w", n.id, err)
			}
			nodeID, err := res.LastInsertId()
			if err != nil {
				nodeStmt.Close()
				return err
			}
			nodeIDByNavaid[n.id] = nodeID
			positionByNavaid[n.id] = geo.Position{float32(n.lon), float32(n.lat)}
		}
		nodeStmt.Close()

		type edgeRow struct {
			id             int64
			fromID, toID   int64
		}
		edgeRows, err := tx.QueryContext(ctx, `SELECT id, from_id, to_id FROM airways WHERE from_id IS NOT NULL AND to_id IS NOT NULL`)
		if err != nil {
			return fmt.Errorf("store: selecting resolved airways: %w", err)
		}
		var edges []edgeRow
		for edgeRows.Next() {
			var e edgeRow
			if err := edgeRows.Scan(&e.id, &e.fromID, &e.toID); err != nil {
				edgeRows.Close()
				return fmt.Errorf("store: scanning airway: %w", err)
			}
			edges = append(edges, e)
		}
		if err := edgeRows.Err(); err != nil {
			edgeRows.Close()
			return err
		}
		edgeRows.Close()

		edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO route_edges (from_node_id, to_node_id, airway_id, distance_nm) VALUES (?,?,?,?)`)
		if err != nil {
			return err
		}
		defer edgeStmt.Close()
		for _, e := range edges {
			fromNode, ok := nodeIDByNavaid[e.fromID]
			if !ok {
				continue
			}
			toNode, ok := nodeIDByNavaid[e.toID]
			if !ok {
				continue
			}
			distanceNM := geo.DistanceNM(positionByNavaid[e.fromID], positionByNavaid[e.toID])
			if _, err := edgeStmt.ExecContext(ctx, fromNode, toNode, e.id, distanceNM); err != nil {
				return fmt.Errorf("store: inserting route_edge for airway %d: %w", e.id, err)
			}
		}
		return nil
	})
}
