package orchestrator

import (
	"os"

	"github.com/flightdata/navdbc/internal/airspace"
)

// loadAirspaceBoundaries merges every configured GeoJSON airspace file
// into staging, independent of the primary source adapter, per the
// supplemented §7 component: binary scenery and text adapters carry no
// airspace-boundary records of their own, so this is the only path that
// populates stg.boundaries today.
func (p *Pipeline) loadAirspaceBoundaries(stg *staging) error {
	for _, path := range p.Config.Source.AirspaceFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			p.Log.Warnf("airspace: reading %s: %v", path, err)
			continue
		}
		boundaries, err := airspace.ParseGeoJSON(data, func(name string, err error) {
			p.Log.Warnf("airspace: %s: feature %s: %v", path, name, err)
		})
		if err != nil {
			p.Log.Warnf("airspace: parsing %s: %v", path, err)
			continue
		}
		stg.boundaries = append(stg.boundaries, boundaries...)
	}
	return nil
}

// assignAirportRegionsFromAirspace implements the §7 Open Question
// resolution: when enabled, an airport's region is overwritten by the
// first staged boundary whose polygon encloses it and carries a
// non-blank declared region, taking priority over whatever the
// nearest-navaid heuristic already assigned. Boundaries with no REGION
// property in their source GeoJSON (the common case for FAA Class
// B/C/D extracts) leave the existing assignment untouched.
func (p *Pipeline) assignAirportRegionsFromAirspace(stg *staging) {
	if !p.Config.Policy.PreferAirspaceRegion || len(stg.boundaries) == 0 {
		return
	}
	for i := range stg.airports {
		for _, b := range stg.boundaries {
			if b.Region == "" {
				continue
			}
			if airspace.Contains(b, stg.airports[i].Position) {
				stg.airports[i].Region = b.Region
				break
			}
		}
	}
}
