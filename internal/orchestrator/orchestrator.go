// Package orchestrator implements the pipeline orchestrator of spec
// §4.12: the phase-sequenced driver that selects a source adapter, loads
// its rows into the output store, and runs the derived-value, cross-
// reference, dedup, and finalization passes in the documented order.
// Grounded on mmp-vice/cmd/dat2vice/main.go's run() shape -- load, derive,
// write, report -- generalized from one fixed pipeline to the
// config-selected, multi-phase sequence spec §4.12 describes, with
// per-phase transactional commit/rollback (internal/store.WithTx) instead
// of the teacher's single in-memory conversion.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/flightdata/navdbc/internal/config"
	"github.com/flightdata/navdbc/internal/logx"
	"github.com/flightdata/navdbc/internal/metar"
	"github.com/flightdata/navdbc/internal/meta"
	"github.com/flightdata/navdbc/internal/metrics"
	"github.com/flightdata/navdbc/internal/navdata"
	"github.com/flightdata/navdbc/internal/store"
)

// Result is the compile run's outcome code, per spec §6.
type Result int

const (
	ResultOK Result = iota
	ResultAborted
	ResultBasicValidationError
	ResultNavigraphFound
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultAborted:
		return "aborted"
	case ResultBasicValidationError:
		return "basic_validation_error"
	case ResultNavigraphFound:
		return "navigraph_found"
	default:
		return "unknown"
	}
}

// Pipeline wires together the config, output store, logger, and metrics
// registry one compile run needs.
type Pipeline struct {
	Config  *config.Config
	Store   *store.Store
	Log     *logx.Logger
	Metrics *metrics.Registry
	Metar   *metar.Index
}

func New(cfg *config.Config, st *store.Store, log *logx.Logger, reg *metrics.Registry) *Pipeline {
	return &Pipeline{Config: cfg, Store: st, Log: log, Metrics: reg, Metar: metar.New()}
}

// phase wraps one compile phase with logging, metrics, and a
// cancellation check at its boundary, per spec §4.12/§5: "the run checks
// for cancellation at each phase boundary."
func (p *Pipeline) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("orchestrator: cancelled before phase %s: %w", name, err)
	}
	start := time.Now()
	if p.Metrics != nil {
		p.Metrics.ActivePhase.Set(1)
		defer p.Metrics.ActivePhase.Set(0)
	}
	p.Log.Infof("phase %s starting", name)
	err := fn(ctx)
	elapsed := time.Since(start)
	if p.Metrics != nil {
		p.Metrics.PhaseDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	}
	if err != nil {
		p.Log.Errorf("phase %s failed after %s: %v", name, elapsed, err)
		return err
	}
	p.Log.Infof("phase %s completed in %s", name, elapsed)
	return nil
}

// Compile runs the full pipeline, per spec §4.12's numbered phase list.
// progress and errSink may be nil.
func (p *Pipeline) Compile(ctx context.Context, progress metrics.Progress, errSink metrics.ErrorSink) (Result, error) {
	report := func(phaseIdx, totalPhases int, message string) bool {
		if progress == nil {
			return true
		}
		return progress(phaseIdx, totalPhases, message)
	}

	const totalPhases = 11
	stg := newStaging()

	// 1. drop/create schema
	if err := p.phase(ctx, "schema", func(ctx context.Context) error {
		if p.Config.Store.FreshRun {
			if err := p.Store.DropSchema(ctx); err != nil {
				return err
			}
		}
		return p.Store.CreateSchema(ctx)
	}); err != nil {
		return ResultAborted, err
	}
	if !report(1, totalPhases, "schema created") {
		return ResultAborted, nil
	}

	// 2. metadata
	info := meta.New(p.Config.Source.Type, "")
	var files []meta.FileDescriptor

	// 3. load
	if err := p.phase(ctx, "load", func(ctx context.Context) error {
		var err error
		switch p.Config.Source.Type {
		case "relational":
			err = p.loadRelational(ctx, stg, errSink)
		case "arinc424":
			files, err = p.loadARINC424(ctx, stg, errSink)
		case "scenery":
			files, err = p.loadScenery(ctx, stg, errSink)
		default:
			err = fmt.Errorf("orchestrator: unknown source type %q", p.Config.Source.Type)
		}
		return err
	}); err != nil {
		if p.Config.Policy.Strict {
			return ResultAborted, err
		}
		p.Log.Warnf("load phase reported errors (continuing, strict mode off): %v", err)
	}
	if err := p.loadAirspaceBoundaries(stg); err != nil {
		return ResultAborted, err
	}
	if !report(3, totalPhases, fmt.Sprintf("loaded %d airports, %d navaids", len(stg.airports), len(stg.navaids))) {
		return ResultAborted, nil
	}

	// derived-value passes run before writing to the store, since they
	// mutate in-memory rows (magvar, tacan, ils feather, runway pairing);
	// procedures were already emitted during load.
	if err := p.phase(ctx, "derive", func(ctx context.Context) error {
		return p.derive(ctx, stg)
	}); err != nil {
		return ResultAborted, err
	}

	// write everything into the store
	airportIDs, navaidIDs, err := p.writeFacts(ctx, stg)
	if err != nil {
		return ResultAborted, err
	}
	_ = navaidIDs
	if !report(4, totalPhases, "facts written") {
		return ResultAborted, nil
	}

	// 4. post-load indexes
	if err := p.phase(ctx, "post_load_indexes", p.Store.CreatePostLoadIndexes); err != nil {
		return ResultAborted, err
	}

	// 5. optional dedup
	if p.Config.Policy.Dedup {
		if err := p.phase(ctx, "dedup", p.Store.RunDedup); err != nil {
			return ResultAborted, err
		}
	}

	// 8. cross-reference (airway endpoints, ILS<->runway-end linkage,
	// airport facility counts, navaid->airport_id, region-by-nearest-
	// navaid). Run after dedup per the Open Question decision recorded
	// in DESIGN.md.
	if err := p.phase(ctx, "cross_reference", func(ctx context.Context) error {
		if err := p.Store.RunCrossReference(ctx); err != nil {
			return err
		}
		if err := p.Store.AssignNavaidAirportIDs(ctx, p.Config.Policy.NavaidAirportProximityNM); err != nil {
			return err
		}
		return p.Store.AssignAirportRegionsByNearestNavaid(ctx)
	}); err != nil {
		return ResultAborted, err
	}
	if !report(8, totalPhases, "cross-reference complete") {
		return ResultAborted, nil
	}

	// metar: merge configured source files into the spatial index now
	// that dedup and region cross-reference have produced the final
	// airport set -- reads idents/positions back from the store rather
	// than stg.airports, which still holds every source's raw,
	// undeduplicated rows.
	if err := p.phase(ctx, "metar", func(ctx context.Context) error {
		return p.loadMetarSources(ctx)
	}); err != nil {
		return ResultAborted, err
	}

	// 9. optional routing tables
	if p.Config.Policy.EnableRoutingTables {
		if err := p.phase(ctx, "routing_tables", func(ctx context.Context) error {
			return p.buildRoutingTables(ctx, stg)
		}); err != nil {
			return ResultAborted, err
		}
	}

	// 10. final indexes
	if err := p.phase(ctx, "final_indexes", p.Store.CreateFinalIndexes); err != nil {
		return ResultAborted, err
	}

	// metadata write (step 2 content, written once row counts are known)
	counts, err := p.Store.TableCounts(ctx)
	if err != nil {
		return ResultAborted, err
	}
	summary := meta.Summary{Info: info, Files: files}
	for table, n := range counts {
		summary.TableCounts = append(summary.TableCounts, meta.TableCount{Table: table, Rows: n})
	}
	if err := p.phase(ctx, "metadata", func(ctx context.Context) error {
		return p.Store.WriteMetadata(ctx, summary)
	}); err != nil {
		return ResultAborted, err
	}

	// 11. optional validation/vacuum/analyze
	result := ResultOK
	if p.Config.Policy.Validate {
		if err := p.phase(ctx, "validate", func(ctx context.Context) error {
			return validateRowCounts(counts)
		}); err != nil {
			p.Log.Warnf("basic validation failed: %v", err)
			result = ResultBasicValidationError
		}
	}
	if p.Config.Policy.Vacuum {
		if err := p.phase(ctx, "vacuum", p.Store.Vacuum); err != nil {
			return ResultAborted, err
		}
	}
	if p.Config.Policy.Analyze {
		if err := p.phase(ctx, "analyze", p.Store.Analyze); err != nil {
			return ResultAborted, err
		}
	}

	if p.Metrics != nil {
		p.Metrics.CompileRunsTotal.WithLabelValues(result.String()).Inc()
	}
	_ = airportIDs
	report(11, totalPhases, "compile complete")
	return result, nil
}

// validateRowCounts implements spec §4.12 step 11's basic sanity check:
// every run must produce at least one airport, and the runway table
// must not outnumber the airports by more than 64 to 1 (a symptom of a
// cross-reference pass gone wrong). No other table is checked.
func validateRowCounts(counts map[string]int) error {
	if counts["airports"] == 0 {
		return fmt.Errorf("orchestrator: validation: zero airports loaded")
	}
	if counts["runways"] > counts["airports"]*64 {
		return fmt.Errorf("orchestrator: validation: runway count %d implausible for %d airports", counts["runways"], counts["airports"])
	}
	return nil
}

// tacanTypeCode reports whether a navdata.Navaid's Type qualifies as a
// TACAN-channel candidate per internal/tacan.Channel's typeCode
// contract, synthesizing the type-code string from the enum since no
// adapter preserves the source's raw two-letter type column.
func tacanTypeCode(t navdata.NavaidType) string {
	switch t {
	case navdata.NavaidDME:
		return "TC"
	case navdata.NavaidVOR:
		return "VTOR"
	default:
		return ""
	}
}
