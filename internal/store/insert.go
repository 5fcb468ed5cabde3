package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/flightdata/navdbc/internal/meta"
	"github.com/flightdata/navdbc/internal/navdata"
)

// AirportKey identifies an airport for the deterministic duplicate
// resolution of invariant 7 ("source priority, then insertion order").
type AirportKey struct {
	Ident string
}

// InsertAirports loads a's rows into the airports table in one
// transaction, stamping InsertionOrder from each row's position in the
// slice if the caller left it zero, and returns the ident -> assigned
// RowID mapping later passes use for by-ident lookups.
func (s *Store) InsertAirports(ctx context.Context, rows []navdata.Airport) (map[string]navdata.RowID, error) {
	ids := make(map[string]navdata.RowID, len(rows))
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO airports
			(ident, name, lon, lat, altitude_feet, rect_tl_lon, rect_tl_lat, rect_br_lon, rect_br_lat,
			 country, region, mag_var, num_runways, num_approaches, num_ils, rating, military, closed,
			 source_priority, insertion_order)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, a := range rows {
			order := a.InsertionOrder
			if order == 0 {
				order = i
			}
			res, err := stmt.ExecContext(ctx, a.Ident, a.Name, a.Position.Longitude(), a.Position.Latitude(), a.AltitudeFeet,
				a.BoundingRect.TopLeft.Longitude(), a.BoundingRect.TopLeft.Latitude(),
				a.BoundingRect.BottomRight.Longitude(), a.BoundingRect.BottomRight.Latitude(),
				a.Country, a.Region, a.MagneticVar, a.NumRunways, a.NumApproaches, a.NumILS, a.Rating,
				boolToInt(a.Military), boolToInt(a.Closed), int(a.Source), order)
			if err != nil {
				return fmt.Errorf("store: inserting airport %s: %w", a.Ident, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			if _, exists := ids[a.Ident]; !exists {
				ids[a.Ident] = navdata.RowID(id)
			}
		}
		return nil
	})
	return ids, err
}

// InsertAirspaceBoundaries loads boundary polygons, per spec §3's
// AirspaceBoundary entity.
func (s *Store) InsertAirspaceBoundaries(ctx context.Context, rows []navdata.AirspaceBoundary) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO airspace_boundaries
			(type, name, region, floor_feet, ceiling_feet, polygon_json, com_frequencies_json) VALUES (?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, b := range rows {
			polyJSON, err := json.Marshal(b.Polygon)
			if err != nil {
				return err
			}
			comJSON, err := json.Marshal(b.COMFrequencies)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, b.Type, b.Name, b.Region, b.FloorFeet, b.CeilingFeet, string(polyJSON), string(comJSON)); err != nil {
				return fmt.Errorf("store: inserting airspace boundary %s: %w", b.Name, err)
			}
		}
		return nil
	})
}

// NavaidKey deduplicates navaids by identifier+region, per invariant 7.
type NavaidKey struct {
	Ident, Region string
}

// InsertNavaids loads waypoint/VOR/NDB/marker/ILS-locator rows and
// returns the (ident, region) -> RowID map the cross-reference phase
// uses to resolve by-ident references (spec §4.12 step 8).
func (s *Store) InsertNavaids(ctx context.Context, rows []navdata.Navaid) (map[NavaidKey]navdata.RowID, error) {
	ids := make(map[NavaidKey]navdata.RowID, len(rows))
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO navaids
			(ident, region, type, lon, lat, frequency_hz, channel, mag_var, airport_id, synthesized, source_priority)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, n := range rows {
			var airportID any
			if n.AirportID != 0 {
				airportID = int64(n.AirportID)
			}
			res, err := stmt.ExecContext(ctx, n.Ident, n.Region, int(n.Type), n.Position.Longitude(), n.Position.Latitude(),
				n.FrequencyHz, n.Channel, n.MagneticVar, airportID, boolToInt(n.Synthesized), int(n.Source))
			if err != nil {
				return fmt.Errorf("store: inserting navaid %s: %w", n.Ident, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			key := NavaidKey{Ident: n.Ident, Region: n.Region}
			if _, exists := ids[key]; !exists {
				ids[key] = navdata.RowID(id)
			}
		}
		return nil
	})
	return ids, err
}

// InsertAirways loads directed airway segments, per spec §3/§4.6.
// FromID/ToID are left unresolved here; the cross-reference phase fills
// them in by joining FromWaypoint/ToWaypoint against the navaids table.
func (s *Store) InsertAirways(ctx context.Context, rows []navdata.AirwaySegment) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO airways
			(name, fragment, sequence, level, from_waypoint, to_waypoint, direction,
			 min_altitude, max_altitude, rect_tl_lon, rect_tl_lat, rect_br_lon, rect_br_lat)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, a := range rows {
			if _, err := stmt.ExecContext(ctx, a.Name, a.Fragment, a.Sequence, int(a.Level), a.FromWaypoint, a.ToWaypoint,
				int(a.Direction), a.MinAltitude, a.MaxAltitude,
				a.BoundingRect.TopLeft.Longitude(), a.BoundingRect.TopLeft.Latitude(),
				a.BoundingRect.BottomRight.Longitude(), a.BoundingRect.BottomRight.Latitude()); err != nil {
				return fmt.Errorf("store: inserting airway %s fragment %d seq %d: %w", a.Name, a.Fragment, a.Sequence, err)
			}
		}
		return nil
	})
}

// InsertRunways loads two-ended runways for one airport, already known
// by its assigned RowID, and returns the designator -> RunwayEndID map
// the ILS cross-reference pass needs (spec §4.12 step 8's "update ILS
// <-> runway-end linkage").
func (s *Store) InsertRunways(ctx context.Context, airportID navdata.RowID, rows []navdata.Runway) (map[string]navdata.RowID, error) {
	endIDs := make(map[string]navdata.RowID, len(rows)*2)
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		rwStmt, err := tx.PrepareContext(ctx, `INSERT INTO runways
			(airport_id, length_feet, width_feet, heading_true, center_lon, center_lat, surface, altitude_feet)
			VALUES (?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer rwStmt.Close()

		endStmt, err := tx.PrepareContext(ctx, `INSERT INTO runway_ends
			(runway_id, is_primary, designator, threshold_lon, threshold_lat, heading_true, heading_magnetic,
			 displaced_threshold_nm, ils_ident, can_land, can_takeoff, closed)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer endStmt.Close()

		for _, rw := range rows {
			res, err := rwStmt.ExecContext(ctx, int64(airportID), rw.LengthFeet, rw.WidthFeet, rw.HeadingTrue,
				rw.Center.Longitude(), rw.Center.Latitude(), rw.Surface, rw.AltitudeFeet)
			if err != nil {
				return fmt.Errorf("store: inserting runway for airport %d: %w", airportID, err)
			}
			runwayID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for _, end := range []struct {
				e         navdata.RunwayEnd
				isPrimary bool
			}{{rw.PrimaryEnd, true}, {rw.SecondaryEnd, false}} {
				r, err := endStmt.ExecContext(ctx, runwayID, boolToInt(end.isPrimary), end.e.Designator,
					end.e.Threshold.Longitude(), end.e.Threshold.Latitude(), end.e.HeadingTrue, end.e.HeadingMagnetic,
					end.e.DisplacedThresholdDistNM, end.e.ILSIdent, boolToInt(end.e.CanLand), boolToInt(end.e.CanTakeoff),
					boolToInt(end.e.Closed))
				if err != nil {
					return fmt.Errorf("store: inserting runway end %s: %w", end.e.Designator, err)
				}
				endID, err := r.LastInsertId()
				if err != nil {
					return err
				}
				endIDs[end.e.Designator] = navdata.RowID(endID)
			}
		}
		return nil
	})
	return endIDs, err
}

// InsertILS loads localizer/feather records and returns the ident ->
// RowID map the runway-end linkage pass uses.
func (s *Store) InsertILS(ctx context.Context, rows []navdata.ILS) (map[string]navdata.RowID, error) {
	ids := make(map[string]navdata.RowID, len(rows))
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO ils
			(ident, region, lon, lat, heading_true, frequency_hz, width_degrees, feather_json, mag_var)
			VALUES (?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, i := range rows {
			featherJSON, err := json.Marshal(i.Feather)
			if err != nil {
				return err
			}
			res, err := stmt.ExecContext(ctx, i.Ident, i.Region, i.Origin.Longitude(), i.Origin.Latitude(),
				i.HeadingTrue, i.FrequencyHz, i.WidthDegrees, string(featherJSON), i.MagneticVar)
			if err != nil {
				return fmt.Errorf("store: inserting ILS %s: %w", i.Ident, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids[i.Ident] = navdata.RowID(id)
		}
		return nil
	})
	return ids, err
}

// InsertProcedures loads procedures and their transitions, per spec
// §3/§4.10. Legs are stored as JSON -- the output store's "transactional
// relational store" contract covers attach/detach and indexing, not a
// fully normalized leg table, and a leg's field set (22+ columns, half
// of them optional per path-termination code) gains nothing from
// normalization that the cross-reference/validation passes actually use
// (they read legs back whole, never by individual leg column).
func (s *Store) InsertProcedures(ctx context.Context, rows []navdata.Procedure, airportIDs map[string]navdata.RowID) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		procStmt, err := tx.PrepareContext(ctx, `INSERT INTO procedures
			(airport_id, airport_ident, type, ident, suffix_alpha, runway_end, legs_json) VALUES (?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer procStmt.Close()

		transStmt, err := tx.PrepareContext(ctx, `INSERT INTO procedure_transitions
			(procedure_id, ident, kind, legs_json) VALUES (?,?,?,?)`)
		if err != nil {
			return err
		}
		defer transStmt.Close()

		for _, p := range rows {
			legsJSON, err := json.Marshal(p.Legs)
			if err != nil {
				return err
			}
			var airportID any
			if id, ok := airportIDs[p.AirportIdent]; ok {
				airportID = int64(id)
			}
			res, err := procStmt.ExecContext(ctx, airportID, p.AirportIdent, int(p.Type), p.Ident, p.SuffixAlpha, p.RunwayEnd, string(legsJSON))
			if err != nil {
				return fmt.Errorf("store: inserting procedure %s: %w", p.Ident, err)
			}
			procID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for _, t := range p.Transitions {
				tLegsJSON, err := json.Marshal(t.Legs)
				if err != nil {
					return err
				}
				if _, err := transStmt.ExecContext(ctx, procID, t.Ident, int(t.Kind), string(tLegsJSON)); err != nil {
					return fmt.Errorf("store: inserting transition %s for procedure %s: %w", t.Ident, p.Ident, err)
				}
			}
		}
		return nil
	})
}

// WriteMetadata persists the run's meta.Summary, per spec §4.12 step 2.
func (s *Store) WriteMetadata(ctx context.Context, summary meta.Summary) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		info := summary.Info
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata
			(run_id, schema_version, compiler_version, compiled_at, source_airac_cycle, source_type) VALUES (?,?,?,?,?,?)`,
			info.RunID.String(), info.SchemaVersion, info.CompilerVersion, info.CompiledAt.Format("2006-01-02T15:04:05Z07:00"),
			info.SourceAIRACCycle, info.SourceType); err != nil {
			return fmt.Errorf("store: writing metadata: %w", err)
		}

		fileStmt, err := tx.PrepareContext(ctx, `INSERT INTO metadata_files (area_id, area_name, path, layer, number) VALUES (?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer fileStmt.Close()
		for _, f := range summary.Files {
			if _, err := fileStmt.ExecContext(ctx, f.AreaID.String(), f.AreaName, f.Path, f.Layer, f.Number); err != nil {
				return fmt.Errorf("store: writing file descriptor %s: %w", f.AreaName, err)
			}
		}

		countStmt, err := tx.PrepareContext(ctx, `INSERT INTO metadata_table_counts (table_name, row_count) VALUES (?,?)
			ON CONFLICT(table_name) DO UPDATE SET row_count = excluded.row_count`)
		if err != nil {
			return err
		}
		defer countStmt.Close()
		for _, c := range summary.TableCounts {
			if _, err := countStmt.ExecContext(ctx, c.Table, c.Rows); err != nil {
				return fmt.Errorf("store: writing table count for %s: %w", c.Table, err)
			}
		}
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
