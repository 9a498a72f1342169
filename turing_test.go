package turing_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/transform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const increment = `
blank: ' '
start state: right
input: '1011'
table:
  right:
    1,0: R
    ' ': {L: carry}
  carry:
    1: {write: 0, L: carry}
    '0, ': {write: 1, L: done}
  done:
`

const loop = `
blank: ' '
start state: a
table:
  a:
    ' ': R
`

func TestEngine_ParseAndRun(t *testing.T) {
	eng := turing.New()
	ctx := context.Background()

	spec, err := eng.Parse(ctx, []byte(increment), false)
	require.NoError(t, err)

	rep, err := eng.Run(ctx, spec, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, rep.ID)
	assert.True(t, rep.Halted)
	assert.Equal(t, "done", rep.State)
	assert.Equal(t, 8, rep.Steps)
	require.Len(t, rep.Tapes, 1)
	assert.Equal(t, "1100", rep.Tapes[0].Contents)
	assert.Equal(t, 0, rep.Tapes[0].Position)
}

func TestEngine_StepLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng := turing.New(turing.WithRegisterer(reg), turing.WithMaxSteps(50))
	ctx := context.Background()

	spec, err := eng.Parse(ctx, []byte(loop), false)
	require.NoError(t, err)

	rep, err := eng.Run(ctx, spec, 0)
	require.NoError(t, err)
	assert.False(t, rep.Halted)
	assert.Equal(t, 50, rep.Steps)

	rep, err = eng.Run(ctx, spec, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, rep.Steps)

	assert.Equal(t, 2.0, sum(t, reg, "turing_runs_total"))
	assert.Equal(t, 60.0, sum(t, reg, "turing_steps_total"))
}

func TestEngine_RunCancelled(t *testing.T) {
	eng := turing.New()
	spec, err := eng.Parse(context.Background(), []byte(loop), false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := eng.Run(ctx, spec, -1)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.False(t, rep.Halted)
}

func TestEngine_ParseErrorLogged(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	eng := turing.New(
		turing.WithLogger(logging.New(slog.LevelDebug, logging.WithOutput(&buf))),
		turing.WithRegisterer(reg),
	)

	_, err := eng.Parse(context.Background(), []byte("blank: ' '\nstart state: b\ntable:\n  a:\n"), false)
	se, ok := domain.AsSpecError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonStartStateUndeclared, se.Reason)
	assert.Contains(t, buf.String(), "invalid spec")

	_, err = eng.Parse(context.Background(), []byte("blank: [\n"), false)
	require.Error(t, err)
	_, ok = domain.AsSpecError(err)
	assert.False(t, ok, "syntax errors are not spec errors")
	assert.Contains(t, buf.String(), "malformed document")

	assert.Equal(t, 2.0, sum(t, reg, "turing_parse_total"))
}

func TestEngine_TransformCached(t *testing.T) {
	cache := memory.NewCache()
	reg := prometheus.NewRegistry()
	eng := turing.New(turing.WithCache(cache), turing.WithRegisterer(reg))
	ctx := context.Background()

	spec, err := eng.Parse(ctx, []byte(increment), false)
	require.NoError(t, err)

	first, err := eng.Transform(ctx, transform.KindBinary, spec)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	second, err := eng.Transform(ctx, transform.KindBinary, spec)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1.0, sum(t, reg, "turing_cache_hits_total"))

	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Codes, second.Codes)
	assert.Equal(t, first.Spec.Table.States(), second.Spec.Table.States())
	assert.Equal(t, first.Spec.Input, second.Spec.Input)

	// the cached machine still runs to the same result
	a, err := eng.Run(ctx, first.Spec, 0)
	require.NoError(t, err)
	b, err := eng.Run(ctx, second.Spec, 0)
	require.NoError(t, err)
	assert.Equal(t, a.Tapes[0].Cells, b.Tapes[0].Cells)
	assert.Equal(t, a.State, b.State)
}

const numeric = `
blank: ' '
start state: 1
input: ab
table:
  1:
    a: {R: 2}
  2:
    b: {write: a, R: 3}
  3:
`

func TestEngine_TransformUnwritableSkipsCache(t *testing.T) {
	var buf bytes.Buffer
	cache := memory.NewCache()
	eng := turing.New(
		turing.WithCache(cache),
		turing.WithLogger(logging.New(slog.LevelDebug, logging.WithOutput(&buf))),
	)
	ctx := context.Background()

	spec, err := eng.Parse(ctx, []byte(numeric), false)
	require.NoError(t, err)

	for range 2 {
		res, err := eng.Transform(ctx, transform.KindBinary, spec)
		require.NoError(t, err)
		rep, err := eng.Run(ctx, res.Spec, 0)
		require.NoError(t, err)
		assert.Equal(t, "3", rep.State)
	}
	assert.Equal(t, 0, cache.Len())
	assert.Contains(t, buf.String(), "transform cache write failed")
}

func TestEngine_TransformUniversalCached(t *testing.T) {
	eng := turing.New()
	ctx := context.Background()
	spec, err := eng.Parse(ctx, []byte(increment), false)
	require.NoError(t, err)

	_, err = eng.Transform(ctx, transform.KindUniversal, spec)
	require.NoError(t, err)
	res, err := eng.Transform(ctx, transform.KindUniversal, spec)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Spec.Tapes)

	rep, err := eng.Run(ctx, res.Spec, 5_000_000)
	require.NoError(t, err)
	require.True(t, rep.Halted)

	got, err := res.Decode(rep.Tapes[2].Cells)
	require.NoError(t, err)
	assert.Contains(t, got, "1100")
}

func TestEngine_TransformErrors(t *testing.T) {
	eng := turing.New(turing.WithCache(nil))
	ctx := context.Background()
	spec, err := eng.Parse(ctx, []byte(loop), false)
	require.NoError(t, err)

	_, err = eng.Transform(ctx, "ternary", spec)
	assert.ErrorIs(t, err, domain.ErrUnknownTransform)

	_, err = eng.Transform(ctx, transform.KindBinary, spec)
	se, ok := domain.AsSpecError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonTransformAlphabet, se.Reason)
}

func TestEngine_Hooks(t *testing.T) {
	var events []domain.EventType
	eng := turing.New(turing.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunStart:  func(_ context.Context, e *domain.RunEvent) { events = append(events, e.Type) },
		OnRunEnd:    func(_ context.Context, e *domain.RunEvent) { events = append(events, e.Type) },
		OnTransform: func(_ context.Context, e *domain.TransformEvent) { events = append(events, e.Type) },
	}))
	ctx := context.Background()
	spec, err := eng.Parse(ctx, []byte(increment), false)
	require.NoError(t, err)

	_, err = eng.Run(ctx, spec, 0)
	require.NoError(t, err)
	_, err = eng.Transform(ctx, transform.KindBinary, spec)
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{domain.EventRunStart, domain.EventRunEnd, domain.EventTransform}, events)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*domain.TransformEntry, error) {
	return nil, errors.New("down")
}
func (failingCache) Put(context.Context, string, *domain.TransformEntry) error { return errors.New("down") }
func (failingCache) Delete(context.Context, string) error                      { return nil }

func TestEngine_CacheFailureIsNotFatal(t *testing.T) {
	eng := turing.New(turing.WithCache(failingCache{}))
	ctx := context.Background()
	spec, err := eng.Parse(ctx, []byte(increment), false)
	require.NoError(t, err)

	res, err := eng.Transform(ctx, transform.KindBinary, spec)
	require.NoError(t, err)
	assert.Equal(t, transform.KindBinary, res.Kind)
}

// sum adds up every series of the named counter family.
func sum(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
