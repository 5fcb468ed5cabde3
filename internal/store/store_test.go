package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/meta"
	"github.com/flightdata/navdbc/internal/navdata"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	return s
}

func TestCreateAndDropSchemaIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.DropSchema(ctx); err != nil {
		t.Fatalf("DropSchema: %v", err)
	}
	if err := s.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema after drop: %v", err)
	}
}

func TestInsertAirportsAssignsRowIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rows := []navdata.Airport{
		{Ident: "KJFK", Name: "John F Kennedy Intl", Position: geo.Position{-73.7781, 40.6413}, Source: navdata.PriorityBase},
		{Ident: "KLGA", Name: "LaGuardia", Position: geo.Position{-73.8726, 40.7769}, Source: navdata.PriorityBase},
	}
	ids, err := s.InsertAirports(ctx, rows)
	if err != nil {
		t.Fatalf("InsertAirports: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 airport ids, got %d", len(ids))
	}
	if ids["KJFK"] == 0 || ids["KLGA"] == 0 {
		t.Fatalf("expected non-zero ids, got %+v", ids)
	}

	counts, err := s.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts: %v", err)
	}
	if counts["airports"] != 2 {
		t.Fatalf("expected 2 airports, got %d", counts["airports"])
	}
}

func TestInsertNavaidsAndCrossReferenceAirways(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.InsertNavaids(ctx, []navdata.Navaid{
		{Ident: "ALPHA", Region: "K1", Type: navdata.NavaidWaypoint, Position: geo.Position{-74.0, 40.0}},
		{Ident: "BRAVO", Region: "K1", Type: navdata.NavaidWaypoint, Position: geo.Position{-73.0, 41.0}},
	})
	if err != nil {
		t.Fatalf("InsertNavaids: %v", err)
	}

	err = s.InsertAirways(ctx, []navdata.AirwaySegment{
		{
			Name: "J121", Fragment: 1, Sequence: 1,
			FromWaypoint: "ALPHA", ToWaypoint: "BRAVO",
			BoundingRect: geo.Rect{TopLeft: geo.Position{-74.0, 41.0}, BottomRight: geo.Position{-73.0, 40.0}},
		},
	})
	if err != nil {
		t.Fatalf("InsertAirways: %v", err)
	}
	if err := s.CreatePostLoadIndexes(ctx); err != nil {
		t.Fatalf("CreatePostLoadIndexes: %v", err)
	}
	if err := s.RunCrossReference(ctx); err != nil {
		t.Fatalf("RunCrossReference: %v", err)
	}

	var fromID, toID int64
	row := s.DB().QueryRowContext(ctx, "SELECT from_id, to_id FROM airways WHERE name = 'J121'")
	if err := row.Scan(&fromID, &toID); err != nil {
		t.Fatalf("scanning airway: %v", err)
	}
	if fromID == 0 || toID == 0 {
		t.Fatalf("expected resolved airway endpoints, got from=%d to=%d", fromID, toID)
	}
}

func TestRunDedupKeepsHighestPriority(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.InsertAirports(ctx, []navdata.Airport{
		{Ident: "KJFK", Name: "base copy", Source: navdata.PriorityBase, InsertionOrder: 1},
		{Ident: "KJFK", Name: "addon copy", Source: navdata.PriorityAddon, InsertionOrder: 2},
	})
	if err != nil {
		t.Fatalf("InsertAirports: %v", err)
	}

	if err := s.RunDedup(ctx); err != nil {
		t.Fatalf("RunDedup: %v", err)
	}

	var name string
	row := s.DB().QueryRowContext(ctx, "SELECT name FROM airports WHERE ident = 'KJFK'")
	if err := row.Scan(&name); err != nil {
		t.Fatalf("scanning deduped airport: %v", err)
	}
	if name != "addon copy" {
		t.Fatalf("expected the higher-priority row to survive, got %q", name)
	}

	counts, err := s.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts: %v", err)
	}
	if counts["airports"] != 1 {
		t.Fatalf("expected dedup to leave exactly 1 airport, got %d", counts["airports"])
	}
}

func TestInsertProceduresRoundTripsLegsJSON(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	airportIDs, err := s.InsertAirports(ctx, []navdata.Airport{{Ident: "KJFK"}})
	if err != nil {
		t.Fatalf("InsertAirports: %v", err)
	}

	procs := []navdata.Procedure{
		{
			AirportIdent: "KJFK",
			Type:         navdata.ProcedureApproach,
			Ident:        "ILS13L",
			RunwayEnd:    "13L",
			Legs: []navdata.Leg{
				{Sequence: 1, PathTermination: "IF", FixIdent: "WAYPT"},
				{Sequence: 2, PathTermination: "CF", FixIdent: "13L"},
			},
			Transitions: []navdata.Transition{
				{Ident: "ENTRY", Kind: navdata.TransitionApproach, Legs: []navdata.Leg{{Sequence: 1, FixIdent: "ENTRY"}}},
			},
		},
	}
	if err := s.InsertProcedures(ctx, procs, airportIDs); err != nil {
		t.Fatalf("InsertProcedures: %v", err)
	}

	counts, err := s.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts: %v", err)
	}
	if counts["procedures"] != 1 || counts["procedure_transitions"] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestBuildRoutingTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.InsertNavaids(ctx, []navdata.Navaid{
		{Ident: "ALPHA", Region: "K1", Type: navdata.NavaidWaypoint, Position: geo.Position{-74.0, 40.0}},
		{Ident: "BRAVO", Region: "K1", Type: navdata.NavaidWaypoint, Position: geo.Position{-73.0, 41.0}},
	})
	if err != nil {
		t.Fatalf("InsertNavaids: %v", err)
	}
	if err := s.InsertAirways(ctx, []navdata.AirwaySegment{
		{Name: "J121", Fragment: 1, Sequence: 1, FromWaypoint: "ALPHA", ToWaypoint: "BRAVO"},
	}); err != nil {
		t.Fatalf("InsertAirways: %v", err)
	}
	if err := s.CreatePostLoadIndexes(ctx); err != nil {
		t.Fatalf("CreatePostLoadIndexes: %v", err)
	}
	if err := s.RunCrossReference(ctx); err != nil {
		t.Fatalf("RunCrossReference: %v", err)
	}
	if err := s.BuildRoutingTables(ctx); err != nil {
		t.Fatalf("BuildRoutingTables: %v", err)
	}

	counts, err := s.TableCounts(ctx)
	if err != nil {
		t.Fatalf("TableCounts: %v", err)
	}
	if counts["route_nodes"] != 2 {
		t.Fatalf("expected 2 route_nodes, got %d", counts["route_nodes"])
	}
	if counts["route_edges"] != 1 {
		t.Fatalf("expected 1 route_edge, got %d", counts["route_edges"])
	}

	var distanceNM float64
	row := s.DB().QueryRowContext(ctx, "SELECT distance_nm FROM route_edges")
	if err := row.Scan(&distanceNM); err != nil {
		t.Fatalf("scanning distance_nm: %v", err)
	}
	if distanceNM <= 0 {
		t.Fatalf("expected a positive distance, got %f", distanceNM)
	}
}

func TestWriteMetadata(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	summary := meta.Summary{
		Info:        meta.New("relational", "2508"),
		Files:       []meta.FileDescriptor{{AreaName: "base", Path: "/data/base.db", Layer: 0, Number: 1}},
		TableCounts: []meta.TableCount{{Table: "airports", Rows: 2}},
	}
	if err := s.WriteMetadata(ctx, summary); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}

	var sourceType string
	row := s.DB().QueryRowContext(ctx, "SELECT source_type FROM metadata WHERE run_id = ?", summary.Info.RunID.String())
	if err := row.Scan(&sourceType); err != nil {
		t.Fatalf("scanning metadata: %v", err)
	}
	if sourceType != "relational" {
		t.Fatalf("expected source_type 'relational', got %q", sourceType)
	}
}

func TestInsertAirspaceBoundariesPersistsRegion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boundaries := []navdata.AirspaceBoundary{{
		Type:      "B",
		Name:      "TEST",
		Region:    "K1",
		FloorFeet: 0, CeilingFeet: 10000,
		Polygon: []geo.Position{{-122.5, 37.5}, {-122.5, 37.6}, {-122.4, 37.5}},
	}}
	if err := s.InsertAirspaceBoundaries(ctx, boundaries); err != nil {
		t.Fatalf("InsertAirspaceBoundaries: %v", err)
	}

	var region string
	row := s.DB().QueryRowContext(ctx, "SELECT region FROM airspace_boundaries WHERE name = 'TEST'")
	if err := row.Scan(&region); err != nil {
		t.Fatalf("scanning region: %v", err)
	}
	if region != "K1" {
		t.Fatalf("region = %q, want K1", region)
	}
}

func TestAssignNavaidAirportIDsWithinProximityOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	airportIDs, err := s.InsertAirports(ctx, []navdata.Airport{
		{Ident: "KJFK", Position: geo.Position{-73.7781, 40.6413}, Source: navdata.PriorityBase},
	})
	if err != nil {
		t.Fatalf("InsertAirports: %v", err)
	}

	// ON sits essentially on the field; FAR is hundreds of NM away and
	// must not be assigned despite being the only other candidate.
	if _, err := s.InsertNavaids(ctx, []navdata.Navaid{
		{Ident: "ON", Region: "K1", Type: navdata.NavaidVOR, Position: geo.Position{-73.7780, 40.6412}},
		{Ident: "FAR", Region: "K1", Type: navdata.NavaidVOR, Position: geo.Position{-122.0, 37.0}},
	}); err != nil {
		t.Fatalf("InsertNavaids: %v", err)
	}

	if err := s.AssignNavaidAirportIDs(ctx, 1.5); err != nil {
		t.Fatalf("AssignNavaidAirportIDs: %v", err)
	}

	rows, err := s.DB().QueryContext(ctx, "SELECT ident, airport_id FROM navaids ORDER BY ident")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	got := map[string]int64{}
	for rows.Next() {
		var ident string
		var airportID sql.NullInt64
		if err := rows.Scan(&ident, &airportID); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got[ident] = airportID.Int64
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}

	if got["ON"] != int64(airportIDs["KJFK"]) {
		t.Fatalf("ON airport_id = %d, want %d", got["ON"], airportIDs["KJFK"])
	}
	if got["FAR"] != 0 {
		t.Fatalf("FAR airport_id = %d, want 0 (outside proximity)", got["FAR"])
	}
}

func TestAssignNavaidAirportIDsDisabledWhenProximityNonPositive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertAirports(ctx, []navdata.Airport{
		{Ident: "KJFK", Position: geo.Position{-73.7781, 40.6413}, Source: navdata.PriorityBase},
	}); err != nil {
		t.Fatalf("InsertAirports: %v", err)
	}
	if _, err := s.InsertNavaids(ctx, []navdata.Navaid{
		{Ident: "ON", Region: "K1", Type: navdata.NavaidVOR, Position: geo.Position{-73.7780, 40.6412}},
	}); err != nil {
		t.Fatalf("InsertNavaids: %v", err)
	}

	if err := s.AssignNavaidAirportIDs(ctx, 0); err != nil {
		t.Fatalf("AssignNavaidAirportIDs: %v", err)
	}

	var airportID sql.NullInt64
	row := s.DB().QueryRowContext(ctx, "SELECT airport_id FROM navaids WHERE ident = 'ON'")
	if err := row.Scan(&airportID); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if airportID.Valid && airportID.Int64 != 0 {
		t.Fatalf("expected airport_id left unassigned with proximityNM<=0, got %d", airportID.Int64)
	}
}

func TestAssignAirportRegionsByNearestNavaidBreaksTiesByIdent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Airport has no region; two navaids sit at equal distance from it
	// but carry different regions -- the lower ident ("AAA") must win.
	airportIDs, err := s.InsertAirports(ctx, []navdata.Airport{
		{Ident: "KXXX", Position: geo.Position{0, 0}, Source: navdata.PriorityBase},
	})
	if err != nil {
		t.Fatalf("InsertAirports: %v", err)
	}
	if _, err := s.InsertNavaids(ctx, []navdata.Navaid{
		{Ident: "ZZZ", Region: "RZ", Type: navdata.NavaidVOR, Position: geo.Position{1, 0}},
		{Ident: "AAA", Region: "RA", Type: navdata.NavaidVOR, Position: geo.Position{-1, 0}},
	}); err != nil {
		t.Fatalf("InsertNavaids: %v", err)
	}

	if err := s.AssignAirportRegionsByNearestNavaid(ctx); err != nil {
		t.Fatalf("AssignAirportRegionsByNearestNavaid: %v", err)
	}

	var region string
	row := s.DB().QueryRowContext(ctx, "SELECT region FROM airports WHERE id = ?", int64(airportIDs["KXXX"]))
	if err := row.Scan(&region); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if region != "RA" {
		t.Fatalf("region = %q, want RA (tie-break on lower ident)", region)
	}
}

func TestAssignAirportRegionsByNearestNavaidLeavesExistingRegionAlone(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	airportIDs, err := s.InsertAirports(ctx, []navdata.Airport{
		{Ident: "KXXX", Region: "RK", Position: geo.Position{0, 0}, Source: navdata.PriorityBase},
	})
	if err != nil {
		t.Fatalf("InsertAirports: %v", err)
	}
	if _, err := s.InsertNavaids(ctx, []navdata.Navaid{
		{Ident: "ZZZ", Region: "RZ", Type: navdata.NavaidVOR, Position: geo.Position{1, 0}},
	}); err != nil {
		t.Fatalf("InsertNavaids: %v", err)
	}

	if err := s.AssignAirportRegionsByNearestNavaid(ctx); err != nil {
		t.Fatalf("AssignAirportRegionsByNearestNavaid: %v", err)
	}

	var region string
	row := s.DB().QueryRowContext(ctx, "SELECT region FROM airports WHERE id = ?", int64(airportIDs["KXXX"]))
	if err := row.Scan(&region); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if region != "RK" {
		t.Fatalf("region = %q, want unchanged RK", region)
	}
}
