package orchestrator

import (
	"testing"

	"github.com/flightdata/navdbc/internal/config"
	"github.com/flightdata/navdbc/internal/navdata"
)

func TestResultString(t *testing.T) {
	cases := map[Result]string{
		ResultOK:                  "ok",
		ResultAborted:             "aborted",
		ResultBasicValidationError: "basic_validation_error",
		ResultNavigraphFound:      "navigraph_found",
		Result(99):                "unknown",
	}
	for result, want := range cases {
		if got := result.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", result, got, want)
		}
	}
}

func TestTacanTypeCode(t *testing.T) {
	if got := tacanTypeCode(navdata.NavaidDME); got != "TC" {
		t.Errorf("DME type code = %q, want TC", got)
	}
	if got := tacanTypeCode(navdata.NavaidVOR); got != "VTOR" {
		t.Errorf("VOR type code = %q, want VTOR", got)
	}
	if got := tacanTypeCode(navdata.NavaidWaypoint); got != "" {
		t.Errorf("waypoint type code = %q, want empty", got)
	}
}

func TestValidateRowCounts(t *testing.T) {
	if err := validateRowCounts(map[string]int{"airports": 0}); err == nil {
		t.Error("expected error for zero airports")
	}
	if err := validateRowCounts(map[string]int{"airports": 1, "runways": 1000}); err == nil {
		t.Error("expected error for implausible runway count")
	}
	if err := validateRowCounts(map[string]int{"airports": 10, "runways": 20}); err != nil {
		t.Errorf("unexpected error for plausible counts: %v", err)
	}
}

func TestPriorityFromString(t *testing.T) {
	cases := map[string]navdata.SourcePriority{
		"community": navdata.PriorityCommunity,
		"addon":     navdata.PriorityAddon,
		"override":  navdata.PriorityOverride,
		"base":      navdata.PriorityBase,
		"":          navdata.PriorityBase,
	}
	for in, want := range cases {
		if got := priorityFromString(in); got != want {
			t.Errorf("priorityFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestActiveAreasByLayerOrdering(t *testing.T) {
	cfg := config.SceneryConfig{Areas: []config.SceneryArea{
		{Number: 2, Layer: 1, Path: "b", Active: true},
		{Number: 1, Layer: 1, Path: "a", Active: true},
		{Number: 1, Layer: 0, Path: "base", Active: true},
		{Number: 5, Layer: 0, Path: "disabled", Active: false},
	}}
	areas := cfg.ActiveAreasByLayer()
	if len(areas) != 3 {
		t.Fatalf("got %d active areas, want 3", len(areas))
	}
	want := []string{"base", "a", "b"}
	for i, w := range want {
		if areas[i].Path != w {
			t.Errorf("area %d = %s, want %s", i, areas[i].Path, w)
		}
	}
}
