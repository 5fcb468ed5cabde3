// Package metrics exposes the phase/row counters spec §5's progress
// callback reports and, optionally, a Prometheus registry for the same
// numbers -- ambient observability the distilled spec is silent on but
// the teacher and the rest of the pack carry throughout. Grounded on
// infinite-experiment-politburo/internal/metrics/metrics.go: one
// promauto-constructed metric per concern, a single registry struct
// the caller threads through the component it instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every Prometheus metric the compiler publishes.
type Registry struct {
	PhaseDuration   prometheus.HistogramVec
	PhaseRows       prometheus.CounterVec
	AdapterErrors   prometheus.CounterVec
	ActivePhase     prometheus.Gauge
	CompileRunsTotal prometheus.CounterVec
}

// NewRegistry constructs a Registry. Safe to call once per process;
// promauto panics on duplicate registration, matching the teacher's
// single-call-site convention.
func NewRegistry() *Registry {
	return &Registry{
		PhaseDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "navdbc_phase_duration_seconds",
				Help:    "Wall-clock duration of each compile phase",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"phase"},
		),
		PhaseRows: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navdbc_phase_rows_total",
				Help: "Rows produced or touched by each compile phase",
			},
			[]string{"phase", "table"},
		),
		AdapterErrors: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navdbc_adapter_errors_total",
				Help: "Non-fatal per-record errors reported by source adapters",
			},
			[]string{"adapter", "scenery_area"},
		),
		ActivePhase: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "navdbc_active_phase",
				Help: "1 while a compile phase is running, 0 otherwise",
			},
		),
		CompileRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navdbc_compile_runs_total",
				Help: "Completed compile runs by result code",
			},
			[]string{"result"},
		),
	}
}

// Progress is the synchronous callback shape of spec §6:
// "progress(current, total, message) -> ContinueOrAbort". Returning
// false aborts the run cooperatively at the next phase boundary or
// cancellation check, per spec §5.
type Progress func(current, total int, message string) bool

// ErrorSink is spec §6's "error_sink(scenery_area, file, message) for
// non-fatal per-file errors."
type ErrorSink func(sceneryArea, file, message string)
