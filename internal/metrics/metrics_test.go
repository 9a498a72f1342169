package metrics_test

import (
	"errors"
	"testing"

	"github.com/aretw0/turing/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Parse(metrics.ParseOK, "")
	m.Parse(metrics.ParseInvalid, "Undeclared state")
	m.Run(metrics.RunHalted, 8)
	m.Run(metrics.RunLimit, 100)
	m.Transform("binary", nil, false)
	m.Transform("binary", nil, true)
	m.Transform("universal", errors.New("x"), false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Parses.WithLabelValues(metrics.ParseOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpecErrors.WithLabelValues("Undeclared state")))
	assert.Equal(t, 108.0, testutil.ToFloat64(m.Steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(metrics.RunLimit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transforms.WithLabelValues("binary", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transforms.WithLabelValues("universal", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Positive(t, n)
}

func TestMetrics_Nil(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Parse(metrics.ParseOK, "")
		m.Run(metrics.RunHalted, 1)
		m.Transform("binary", nil, true)
	})
}
