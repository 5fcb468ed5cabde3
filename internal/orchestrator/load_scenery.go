package orchestrator

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/flightdata/navdbc/internal/config"
	"github.com/flightdata/navdbc/internal/meta"
	"github.com/flightdata/navdbc/internal/metrics"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/sceneryadapter"
)

func priorityFromString(s string) navdata.SourcePriority {
	switch s {
	case "community":
		return navdata.PriorityCommunity
	case "addon":
		return navdata.PriorityAddon
	case "override":
		return navdata.PriorityOverride
	default:
		return navdata.PriorityBase
	}
}

type areaResult struct {
	area    config.SceneryArea
	results []sceneryadapter.AirportResult
	err     error
}

// loadScenery reads every active scenery area's archive, per spec §4.2/
// §4.12 step 3's "multi-area iteration (binary scenery), with
// layer/priority ordering." Per spec §5, file reads across areas may run
// concurrently (golang.org/x/sync/errgroup), but every area's results are
// merged into the shared staging table serially and in layer order, so
// higher-priority layers always land after (and therefore, per invariant
// 7, win over) lower ones regardless of which file finished reading
// first.
func (p *Pipeline) loadScenery(ctx context.Context, stg *staging, errSink metrics.ErrorSink) ([]meta.FileDescriptor, error) {
	areas := p.Config.Scenery.ActiveAreasByLayer()
	outcomes := make([]areaResult, len(areas))

	g, gctx := errgroup.WithContext(ctx)
	for i, area := range areas {
		i, area := i, area
		g.Go(func() error {
			data, err := os.ReadFile(area.Path)
			if err != nil {
				outcomes[i] = areaResult{area: area, err: fmt.Errorf("reading %s: %w", area.Path, err)}
				return nil
			}
			policy := sceneryadapter.AreaPolicy{Legacy: area.Legacy}
			results, err := sceneryadapter.ReadArchive(data, policy, p.Log)
			outcomes[i] = areaResult{area: area, results: results, err: err}
			_ = gctx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var files []meta.FileDescriptor
	for _, outcome := range outcomes {
		if outcome.err != nil {
			if errSink != nil {
				errSink(outcome.area.Path, outcome.area.Path, outcome.err.Error())
			}
			if p.Config.Policy.Strict {
				return files, outcome.err
			}
			p.Log.Warnf("scenery area %s: %v", outcome.area.Path, outcome.err)
			continue
		}

		priority := priorityFromString(outcome.area.Priority)
		for _, res := range outcome.results {
			stg.addAirport(res.Airport, priority)
			for _, end := range res.RunwayEnds {
				stg.addRunwayEnd(res.Airport.Ident, end)
			}
			stg.procedures = append(stg.procedures, res.Procedures()...)
		}
		files = append(files, meta.FileDescriptor{
			AreaID:   outcome.area.ID,
			AreaName: outcome.area.Path,
			Path:     outcome.area.Path,
			Layer:    outcome.area.Layer,
			Number:   outcome.area.Number,
		})
	}
	return files, nil
}
