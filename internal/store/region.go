package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/flightdata/navdbc/internal/geo"
)

// AssignNavaidAirportIDs implements the "set airport IDs on navaids"
// half of spec §4.12 step 8: a navaid with no airport_id is associated
// with the nearest airport, provided that airport lies within
// proximityNM -- most navaids (enroute VORs, airway fixes) are not sited
// on any airfield at all, so an unconditional nearest-airport match
// would be wrong. proximityNM <= 0 disables the pass, matching the
// Policy.MaxAirwaySegmentNM "0 disables" convention. Distance is
// computed in Go via geo.DistanceNM for the same reason routing.go
// does: the plain modernc.org/sqlite build here carries no trigonometric
// math-function extension.
func (s *Store) AssignNavaidAirportIDs(ctx context.Context, proximityNM float32) error {
	if proximityNM <= 0 {
		return nil
	}
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		type airport struct {
			id       int64
			lon, lat float64
		}
		airportRows, err := tx.QueryContext(ctx, `SELECT id, lon, lat FROM airports`)
		if err != nil {
			return fmt.Errorf("store: selecting airports: %w", err)
		}
		var airports []airport
		for airportRows.Next() {
			var a airport
			if err := airportRows.Scan(&a.id, &a.lon, &a.lat); err != nil {
				airportRows.Close()
				return fmt.Errorf("store: scanning airport: %w", err)
			}
			airports = append(airports, a)
		}
		if err := airportRows.Err(); err != nil {
			airportRows.Close()
			return err
		}
		airportRows.Close()
		if len(airports) == 0 {
			return nil
		}

		navaidRows, err := tx.QueryContext(ctx, `SELECT id, lon, lat FROM navaids WHERE airport_id IS NULL OR airport_id = 0`)
		if err != nil {
			return fmt.Errorf("store: selecting unassigned navaids: %w", err)
		}
		type navaid struct {
			id       int64
			lon, lat float64
		}
		var navaids []navaid
		for navaidRows.Next() {
			var n navaid
			if err := navaidRows.Scan(&n.id, &n.lon, &n.lat); err != nil {
				navaidRows.Close()
				return fmt.Errorf("store: scanning navaid: %w", err)
			}
			navaids = append(navaids, n)
		}
		if err := navaidRows.Err(); err != nil {
			navaidRows.Close()
			return err
		}
		navaidRows.Close()

		stmt, err := tx.PrepareContext(ctx, `UPDATE navaids SET airport_id = ? WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, n := range navaids {
			navaidPos := geo.Position{float32(n.lon), float32(n.lat)}
			bestID := int64(0)
			bestDistance := float32(0)
			for _, a := range airports {
				d := geo.DistanceNM(navaidPos, geo.Position{float32(a.lon), float32(a.lat)})
				if bestID == 0 || d < bestDistance {
					bestID, bestDistance = a.id, d
				}
			}
			if bestID == 0 || bestDistance > proximityNM {
				continue
			}
			if _, err := stmt.ExecContext(ctx, bestID, n.id); err != nil {
				return fmt.Errorf("store: assigning airport_id for navaid %d: %w", n.id, err)
			}
		}
		return nil
	})
}

// AssignAirportRegionsByNearestNavaid implements the "region by nearest
// navaid" heuristic, per spec §4.12 step 8 / §9's Open Question: an
// airport left with a blank region by its source adapter adopts the
// region of its nearest navaid that carries one. Ties (equal distance)
// break on the navaid identifier, ascending, so the result is
// deterministic regardless of the navaid table's row order -- the Open
// Question's resolution (spec.md's closing note: "lock this by sorting
// deterministically before the lookup").
func (s *Store) AssignAirportRegionsByNearestNavaid(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		type airport struct {
			id       int64
			lon, lat float64
		}
		airportRows, err := tx.QueryContext(ctx, `SELECT id, lon, lat FROM airports WHERE region IS NULL OR region = ''`)
		if err != nil {
			return fmt.Errorf("store: selecting regionless airports: %w", err)
		}
		var airports []airport
		for airportRows.Next() {
			var a airport
			if err := airportRows.Scan(&a.id, &a.lon, &a.lat); err != nil {
				airportRows.Close()
				return fmt.Errorf("store: scanning airport: %w", err)
			}
			airports = append(airports, a)
		}
		if err := airportRows.Err(); err != nil {
			airportRows.Close()
			return err
		}
		airportRows.Close()
		if len(airports) == 0 {
			return nil
		}

		type regionedNavaid struct {
			ident    string
			region   string
			lon, lat float64
		}
		navaidRows, err := tx.QueryContext(ctx, `SELECT ident, region, lon, lat FROM navaids WHERE region IS NOT NULL AND region != ''`)
		if err != nil {
			return fmt.Errorf("store: selecting regioned navaids: %w", err)
		}
		var navaids []regionedNavaid
		for navaidRows.Next() {
			var n regionedNavaid
			if err := navaidRows.Scan(&n.ident, &n.region, &n.lon, &n.lat); err != nil {
				navaidRows.Close()
				return fmt.Errorf("store: scanning navaid: %w", err)
			}
			navaids = append(navaids, n)
		}
		if err := navaidRows.Err(); err != nil {
			navaidRows.Close()
			return err
		}
		navaidRows.Close()
		if len(navaids) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, `UPDATE airports SET region = ? WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		type candidate struct {
			navaid   regionedNavaid
			distance float32
		}
		for _, a := range airports {
			airportPos := geo.Position{float32(a.lon), float32(a.lat)}
			candidates := make([]candidate, len(navaids))
			for i, n := range navaids {
				candidates[i] = candidate{navaid: n, distance: geo.DistanceNM(airportPos, geo.Position{float32(n.lon), float32(n.lat)})}
			}
			sort.Slice(candidates, func(i, j int) bool {
				if candidates[i].distance != candidates[j].distance {
					return candidates[i].distance < candidates[j].distance
				}
				return candidates[i].navaid.ident < candidates[j].navaid.ident
			})

			if _, err := stmt.ExecContext(ctx, candidates[0].navaid.region, a.id); err != nil {
				return fmt.Errorf("store: assigning region for airport %d: %w", a.id, err)
			}
		}
		return nil
	})
}
