package orchestrator

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the pipeline's prometheus instrumentation. Grounded on
// the teacher's component-level counters (processor/ast-indexer/component.go's
// entitiesIndexed/errors fields), replaced here with real prometheus
// metric types instead of plain int64 fields since sveltecheck exposes
// them over --metrics-addr rather than logging them ad hoc.
type Metrics struct {
	FilesChecked     prometheus.Counter
	DiagnosticsFound *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// NewMetrics registers sveltecheck's pipeline metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sveltecheck_files_checked_total",
			Help: "Total component files processed across all runs.",
		}),
		DiagnosticsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sveltecheck_diagnostics_total",
			Help: "Diagnostics emitted, partitioned by severity.",
		}, []string{"severity"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sveltecheck_run_duration_seconds",
			Help:    "Wall-clock duration of a full pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sveltecheck_cache_hits_total",
			Help: "Transform cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sveltecheck_cache_misses_total",
			Help: "Transform cache misses.",
		}),
	}
	reg.MustRegister(m.FilesChecked, m.DiagnosticsFound, m.RunDuration, m.CacheHits, m.CacheMisses)
	return m
}
