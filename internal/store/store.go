// Package store is the output database of spec §6: "a transactional
// relational store supporting attach/detach of secondary files and a
// spatial/geo index." Backed concretely by modernc.org/sqlite (pure Go,
// no cgo), whose ATTACH DATABASE/DETACH DATABASE statements satisfy the
// "attach/detach of secondary files" requirement exactly. Grounded on
// plane-watch-acars-parser/internal/storage/sqlite.go's Open/schema/
// Insert/Query shape -- a *sql.DB wrapped in a small struct, one method
// per concern, raw SQL with placeholder args -- generalized from one
// flat message table to the compiler's full output schema (spec §3).
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/flightdata/navdbc/internal/logx"
)

// Store wraps the output database connection for one compile run.
type Store struct {
	db  *sql.DB
	log *logx.Logger
}

// Open opens or creates the output SQLite database at path and enables
// WAL mode and foreign keys, per plane-watch-acars-parser's Open.
func Open(path string, log *logx.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying connection for callers (the orchestrator's
// cross-reference phase) that need to compose ad hoc queries this
// package does not wrap.
func (s *Store) DB() *sql.DB { return s.db }

// AttachSource attaches a sibling source database under a logical name,
// per spec §4.3's "a sibling source database (attached by logical
// name)" and spec §6's attach/detach contract.
func (s *Store) AttachSource(ctx context.Context, path, logicalName string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("ATTACH DATABASE ? AS %s", quoteIdent(logicalName)), path)
	if err != nil {
		return fmt.Errorf("store: attaching %s as %s: %w", path, logicalName, err)
	}
	return nil
}

// DetachSource detaches a previously attached source, per spec §9's
// design note: "model as an explicit resource object with scoped
// acquisition" -- the orchestrator defers this call right after attach.
func (s *Store) DetachSource(ctx context.Context, logicalName string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DETACH DATABASE %s", quoteIdent(logicalName)))
	if err != nil {
		return fmt.Errorf("store: detaching %s: %w", logicalName, err)
	}
	return nil
}

// quoteIdent wraps a logical database name in double quotes; callers
// control these names (they come from config, not untrusted input), but
// quoting avoids surprises from names containing spaces or hyphens.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic, matching spec §4.12's "every phase commits;
// abort at any step rolls back the entire run" contract at the
// per-phase granularity the orchestrator calls this at.
func (s *Store) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// schemaTables lists every table DropSchema/CreateSchema manage, in
// drop order (children before parents) per spec §4.12 step 1: "drop
// views, routing, search, nav aids, airport facilities, approaches,
// airports, metadata."
var schemaTables = []string{
	"route_edges", "route_nodes",
	"procedure_transitions", "procedures",
	"ils", "runway_ends", "runways",
	"airways", "navaids", "airspace_boundaries",
	"airports",
	"metadata_table_counts", "metadata_files", "metadata",
}

var schemaViews = []string{"v_airport_facility_counts"}

// DropSchema drops every schema object this package owns, per spec
// §4.12 step 1's "a fresh run drops then recreates them." Safe to call
// on a database that has never been initialized.
func (s *Store) DropSchema(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, v := range schemaViews {
			if _, err := tx.ExecContext(ctx, "DROP VIEW IF EXISTS "+v); err != nil {
				return fmt.Errorf("store: dropping view %s: %w", v, err)
			}
		}
		for _, t := range schemaTables {
			if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+t); err != nil {
				return fmt.Errorf("store: dropping table %s: %w", t, err)
			}
		}
		return nil
	})
}

// CreateSchema creates every table and view fresh, per spec §4.12 step
// 1's "create fresh boundary, nav, airport, route, meta schemas; create
// views." Bounding rectangles are stored as the four columns spec §6
// describes (top-left lon/lat, bottom-right lon/lat); positions as
// (longitude, latitude) float columns; altitudes in feet.
func (s *Store) CreateSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE metadata (
			run_id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			compiler_version TEXT NOT NULL,
			compiled_at TEXT NOT NULL,
			source_airac_cycle TEXT,
			source_type TEXT NOT NULL
		)`,
		`CREATE TABLE metadata_files (
			area_id TEXT PRIMARY KEY,
			area_name TEXT NOT NULL,
			path TEXT NOT NULL,
			layer INTEGER NOT NULL,
			number INTEGER NOT NULL
		)`,
		`CREATE TABLE metadata_table_counts (
			table_name TEXT PRIMARY KEY,
			row_count INTEGER NOT NULL
		)`,
		`CREATE TABLE airports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ident TEXT NOT NULL,
			name TEXT,
			lon REAL NOT NULL,
			lat REAL NOT NULL,
			altitude_feet INTEGER,
			rect_tl_lon REAL, rect_tl_lat REAL, rect_br_lon REAL, rect_br_lat REAL,
			country TEXT,
			region TEXT,
			mag_var REAL,
			num_runways INTEGER DEFAULT 0,
			num_approaches INTEGER DEFAULT 0,
			num_ils INTEGER DEFAULT 0,
			rating INTEGER DEFAULT 0,
			military INTEGER DEFAULT 0,
			closed INTEGER DEFAULT 0,
			source_priority INTEGER DEFAULT 0,
			insertion_order INTEGER
		)`,
		`CREATE TABLE airspace_boundaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			region TEXT,
			floor_feet INTEGER,
			ceiling_feet INTEGER,
			polygon_json TEXT NOT NULL,
			com_frequencies_json TEXT
		)`,
		`CREATE TABLE navaids (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ident TEXT NOT NULL,
			region TEXT,
			type INTEGER NOT NULL,
			lon REAL NOT NULL,
			lat REAL NOT NULL,
			frequency_hz INTEGER,
			channel TEXT,
			mag_var REAL,
			airport_id INTEGER REFERENCES airports(id),
			synthesized INTEGER DEFAULT 0,
			source_priority INTEGER DEFAULT 0
		)`,
		`CREATE TABLE airways (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			fragment INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			level INTEGER NOT NULL,
			from_waypoint TEXT NOT NULL,
			to_waypoint TEXT NOT NULL,
			from_id INTEGER REFERENCES navaids(id),
			to_id INTEGER REFERENCES navaids(id),
			direction INTEGER NOT NULL,
			min_altitude INTEGER,
			max_altitude INTEGER,
			rect_tl_lon REAL, rect_tl_lat REAL, rect_br_lon REAL, rect_br_lat REAL
		)`,
		`CREATE TABLE runways (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			airport_id INTEGER NOT NULL REFERENCES airports(id),
			length_feet REAL,
			width_feet REAL,
			heading_true REAL,
			center_lon REAL,
			center_lat REAL,
			surface TEXT,
			altitude_feet INTEGER
		)`,
		`CREATE TABLE runway_ends (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			runway_id INTEGER NOT NULL REFERENCES runways(id),
			is_primary INTEGER NOT NULL,
			designator TEXT NOT NULL,
			threshold_lon REAL,
			threshold_lat REAL,
			heading_true REAL,
			heading_magnetic REAL,
			displaced_threshold_nm REAL,
			ils_ident TEXT,
			ils_id INTEGER REFERENCES ils(id),
			can_land INTEGER DEFAULT 1,
			can_takeoff INTEGER DEFAULT 1,
			closed INTEGER DEFAULT 0
		)`,
		`CREATE TABLE ils (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ident TEXT NOT NULL,
			region TEXT,
			lon REAL NOT NULL,
			lat REAL NOT NULL,
			heading_true REAL,
			frequency_hz INTEGER,
			width_degrees REAL,
			runway_end_id INTEGER REFERENCES runway_ends(id),
			airport_id INTEGER REFERENCES airports(id),
			feather_json TEXT,
			mag_var REAL
		)`,
		`CREATE TABLE procedures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			airport_id INTEGER REFERENCES airports(id),
			airport_ident TEXT NOT NULL,
			type INTEGER NOT NULL,
			ident TEXT NOT NULL,
			suffix_alpha TEXT,
			runway_end TEXT,
			legs_json TEXT NOT NULL
		)`,
		`CREATE TABLE procedure_transitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			procedure_id INTEGER NOT NULL REFERENCES procedures(id),
			ident TEXT NOT NULL,
			kind INTEGER NOT NULL,
			legs_json TEXT NOT NULL
		)`,
		`CREATE TABLE route_nodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			navaid_id INTEGER NOT NULL REFERENCES navaids(id),
			kind INTEGER NOT NULL
		)`,
		`CREATE TABLE route_edges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			from_node_id INTEGER NOT NULL REFERENCES route_nodes(id),
			to_node_id INTEGER NOT NULL REFERENCES route_nodes(id),
			airway_id INTEGER REFERENCES airways(id),
			distance_nm REAL
		)`,
		`CREATE VIEW v_airport_facility_counts AS
			SELECT a.id AS airport_id, a.ident,
			       (SELECT COUNT(*) FROM runways r WHERE r.airport_id = a.id) AS runway_count,
			       (SELECT COUNT(*) FROM procedures p WHERE p.airport_id = a.id) AS procedure_count,
			       (SELECT COUNT(*) FROM ils i WHERE i.airport_id = a.id) AS ils_count
			FROM airports a`,
	}

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("store: creating schema: %w", err)
			}
		}
		return nil
	})
}
