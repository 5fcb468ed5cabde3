package airspace

import (
	"encoding/json"
	"testing"
)

func featureCollection(t *testing.T, name string, lower, upper float64, ring [][2]float64) []byte {
	t.Helper()
	fc := map[string]interface{}{
		"type": "FeatureCollection",
		"features": []interface{}{
			map[string]interface{}{
				"type": "Feature",
				"properties": map[string]interface{}{
					"NAME":      name,
					"LOWER_VAL": lower,
					"UPPER_VAL": upper,
				},
				"geometry": map[string]interface{}{
					"type":        "Polygon",
					"coordinates": [][][2]float64{ring},
				},
			},
		},
	}
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func squareRing() [][2]float64 {
	return [][2]float64{{-122.5, 37.5}, {-122.5, 37.6}, {-122.4, 37.6}, {-122.4, 37.5}, {-122.5, 37.5}}
}

func TestParseGeoJSONClassifiesBySuffix(t *testing.T) {
	data := featureCollection(t, "SAN FRANCISCO CLASS B", 0, 10000, squareRing())
	boundaries, err := ParseGeoJSON(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(boundaries) != 1 {
		t.Fatalf("boundaries = %d, want 1", len(boundaries))
	}
	b := boundaries[0]
	if b.Type != "B" {
		t.Errorf("Type = %q, want B", b.Type)
	}
	if b.Name != "SAN FRANCISCO" {
		t.Errorf("Name = %q, want trimmed of class suffix", b.Name)
	}
	if b.FloorFeet != 0 || b.CeilingFeet != 10000 {
		t.Errorf("Floor/Ceiling = %d/%d, want 0/10000", b.FloorFeet, b.CeilingFeet)
	}
	if len(b.Polygon) != 5 {
		t.Errorf("Polygon has %d points, want 5", len(b.Polygon))
	}
}

func TestParseGeoJSONSkipsFeaturesWithoutClassSuffix(t *testing.T) {
	data := featureCollection(t, "UNCLASSIFIED AREA", 0, 10000, squareRing())
	boundaries, err := ParseGeoJSON(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(boundaries) != 0 {
		t.Errorf("boundaries = %v, want none for an unrecognized NAME suffix", boundaries)
	}
}

func TestParseGeoJSONReportsMissingAltitudeBounds(t *testing.T) {
	fc := map[string]interface{}{
		"type": "FeatureCollection",
		"features": []interface{}{
			map[string]interface{}{
				"type": "Feature",
				"properties": map[string]interface{}{
					"NAME": "OAKLAND CLASS C",
				},
				"geometry": map[string]interface{}{
					"type":        "Polygon",
					"coordinates": [][][2]float64{squareRing()},
				},
			},
		},
	}
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}

	var reported string
	boundaries, err := ParseGeoJSON(data, func(name string, _ error) { reported = name })
	if err != nil {
		t.Fatal(err)
	}
	if len(boundaries) != 0 {
		t.Errorf("boundaries = %v, want none", boundaries)
	}
	if reported != "OAKLAND CLASS C" {
		t.Errorf("onError called with %q, want OAKLAND CLASS C", reported)
	}
}

func TestClassifyRecognizesAllThreeClasses(t *testing.T) {
	cases := map[string]string{
		"FOO CLASS B": "B",
		"FOO CLASS C": "C",
		"FOO CLASS D": "D",
		"FOO CLASS E": "",
	}
	for name, want := range cases {
		class, _, ok := classify(name)
		if want == "" {
			if ok {
				t.Errorf("classify(%q) unexpectedly matched class %q", name, class)
			}
			continue
		}
		if !ok || class != want {
			t.Errorf("classify(%q) = %q, %v, want %q, true", name, class, ok, want)
		}
	}
}
