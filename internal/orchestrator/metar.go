package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/flightdata/navdbc/internal/geo"
	"github.com/flightdata/navdbc/internal/metar"
)

// loadMetarSources merges every configured METAR source file into the
// pipeline's spatial index, per spec §4.11, and installs a fetch
// callback backed by the airports already committed to the store. Run
// after dedup and cross-reference (orchestrator.go sequences it there)
// so the idents/positions it reads back are the final, deduplicated
// set -- stg.airports still holds every source's raw, undeduplicated
// rows (dedup only ever deletes from the SQL store, never from stg),
// so closing over it here would let an overlapping-area duplicate's
// losing copy win station siting.
func (p *Pipeline) loadMetarSources(ctx context.Context) error {
	if p.Metar == nil {
		return nil
	}

	positions, err := p.Store.AirportPositions(ctx)
	if err != nil {
		return fmt.Errorf("orchestrator: metar: %w", err)
	}
	p.Metar.SetFetchAirportCoords(func(ident string) (geo.Position, bool) {
		pos, ok := positions[ident]
		return pos, ok
	})

	sources := []struct {
		files  []string
		format metar.Format
	}{
		{p.Config.Metar.NOAAFiles, metar.FormatNOAA},
		{p.Config.Metar.FlatFiles, metar.FormatFlat},
		{p.Config.Metar.JSONFiles, metar.FormatJSON},
	}
	for _, src := range sources {
		for _, path := range src.files {
			if err := p.mergeMetarFile(path, src.format); err != nil {
				p.Log.Warnf("metar: %v", err)
			}
		}
	}
	return nil
}

func (p *Pipeline) mergeMetarFile(path string, format metar.Format) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n, err := p.Metar.Read(f, format, path, true)
	if err != nil {
		return err
	}
	p.Log.Infof("metar: merged %d records from %s", n, path)
	return nil
}
