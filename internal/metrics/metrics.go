// Package metrics holds the Prometheus counters of the engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Parse results.
const (
	ParseOK      = "ok"
	ParseInvalid = "invalid"
	ParseSyntax  = "syntax"
)

// Run outcomes.
const (
	RunHalted    = "halted"
	RunLimit     = "step_limit"
	RunCancelled = "cancelled"
)

// Metrics groups the engine counters. The zero value is not usable; a nil
// *Metrics records nothing.
type Metrics struct {
	Parses     *prometheus.CounterVec
	SpecErrors *prometheus.CounterVec
	Steps      prometheus.Counter
	Runs       *prometheus.CounterVec
	Transforms *prometheus.CounterVec
	CacheHits  prometheus.Counter
}

// New creates the counters and registers them on reg. A nil reg leaves them
// unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turing_parse_total",
			Help: "Machine documents parsed, by result",
		}, []string{"result"}),
		SpecErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turing_spec_errors_total",
			Help: "Specification errors, by reason",
		}, []string{"reason"}),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Machine steps executed",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turing_runs_total",
			Help: "Machine runs, by outcome",
		}, []string{"outcome"}),
		Transforms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turing_transforms_total",
			Help: "Transformations, by kind and result",
		}, []string{"kind", "result"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_cache_hits_total",
			Help: "Transformations served from the cache",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Parses, m.SpecErrors, m.Steps, m.Runs, m.Transforms, m.CacheHits)
	}
	return m
}

// Parse records a parse result and, for invalid documents, the reason.
func (m *Metrics) Parse(result, reason string) {
	if m == nil {
		return
	}
	m.Parses.WithLabelValues(result).Inc()
	if reason != "" {
		m.SpecErrors.WithLabelValues(reason).Inc()
	}
}

// Run records a finished run.
func (m *Metrics) Run(outcome string, steps int) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.Steps.Add(float64(steps))
}

// Transform records a transformation attempt.
func (m *Metrics) Transform(kind string, err error, cached bool) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Transforms.WithLabelValues(kind, result).Inc()
	if cached {
		m.CacheHits.Inc()
	}
}
