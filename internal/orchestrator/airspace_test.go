package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/navdata"
)

func writeAirspaceFixture(t *testing.T, region string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "boundaries.geojson")
	fc := map[string]interface{}{
		"type": "FeatureCollection",
		"features": []interface{}{
			map[string]interface{}{
				"type": "Feature",
				"properties": map[string]interface{}{
					"NAME":      "TEST CLASS B",
					"LOWER_VAL": 0,
					"UPPER_VAL": 10000,
					"REGION":    region,
				},
				"geometry": map[string]interface{}{
					"type": "Polygon",
					"coordinates": [][][2]float64{{
						{-122.5, 37.5}, {-122.5, 37.6}, {-122.4, 37.6}, {-122.4, 37.5}, {-122.5, 37.5},
					}},
				},
			},
		},
	}
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAirspaceBoundariesPopulatesStaging(t *testing.T) {
	p := testPipeline()
	p.Config.Source.AirspaceFiles = []string{writeAirspaceFixture(t, "K1")}

	stg := newStaging()
	if err := p.loadAirspaceBoundaries(stg); err != nil {
		t.Fatalf("loadAirspaceBoundaries: %v", err)
	}
	if len(stg.boundaries) != 1 {
		t.Fatalf("boundaries = %d, want 1", len(stg.boundaries))
	}
	if stg.boundaries[0].Region != "K1" {
		t.Errorf("Region = %q, want K1", stg.boundaries[0].Region)
	}
}

func TestAssignAirportRegionsFromAirspacePrefersEnclosingBoundary(t *testing.T) {
	p := testPipeline()
	p.Config.Policy.PreferAirspaceRegion = true
	p.Config.Source.AirspaceFiles = []string{writeAirspaceFixture(t, "K1")}

	stg := newStaging()
	stg.addAirport(navdata.Airport{Ident: "KSFO", Region: "OLD", Position: geo.Position{-122.45, 37.55}}, navdata.PriorityBase)
	if err := p.loadAirspaceBoundaries(stg); err != nil {
		t.Fatal(err)
	}

	p.assignAirportRegionsFromAirspace(stg)
	if stg.airports[0].Region != "K1" {
		t.Errorf("Region = %q, want K1 from the enclosing boundary", stg.airports[0].Region)
	}
}

func TestAssignAirportRegionsFromAirspaceDisabledByDefault(t *testing.T) {
	p := testPipeline()
	p.Config.Source.AirspaceFiles = []string{writeAirspaceFixture(t, "K1")}

	stg := newStaging()
	stg.addAirport(navdata.Airport{Ident: "KSFO", Region: "OLD", Position: geo.Position{-122.45, 37.55}}, navdata.PriorityBase)
	if err := p.loadAirspaceBoundaries(stg); err != nil {
		t.Fatal(err)
	}

	p.assignAirportRegionsFromAirspace(stg)
	if stg.airports[0].Region != "OLD" {
		t.Errorf("Region = %q, want unchanged OLD since the policy knob defaults off", stg.airports[0].Region)
	}
}
