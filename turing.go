package turing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/metrics"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/parser"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/aretw0/turing/pkg/transform"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Engine is the high-level entry point of the library. It wraps the parser,
// the machine runner and the transformations with logging, metrics and a
// transformation cache. An Engine is safe for concurrent use as long as its
// cache is.
type Engine struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	cache    ports.TransformCache
	hooks    domain.LifecycleHooks
	maxSteps int
	stepHook runner.StepHook
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegisterer registers the engine counters on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = metrics.New(reg)
	}
}

// WithCache replaces the default in-memory transformation cache. A nil
// cache disables caching.
func WithCache(cache ports.TransformCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithMaxSteps sets the default step limit of Run. A negative value removes
// the limit.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStepHook registers a callback invoked after every step of every run.
func WithStepHook(hook runner.StepHook) Option {
	return func(e *Engine) {
		e.stepHook = hook
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		cache:    memory.NewCache(),
		maxSteps: runner.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	return eng
}

// Parse validates a machine document. Semantic problems are returned as
// *domain.SpecError; YAML syntax errors are returned unchanged.
func (e *Engine) Parse(ctx context.Context, data []byte, allowMultiTape bool) (*domain.Spec, error) {
	spec, err := parser.ParseBytes(data, allowMultiTape)
	if err == nil {
		e.metrics.Parse(metrics.ParseOK, "")
		e.logger.Debug("spec parsed", "start", spec.StartState, "states", spec.Table.Len(), "tapes", spec.TapeCount())
		return spec, nil
	}

	if se, ok := domain.AsSpecError(err); ok {
		e.metrics.Parse(metrics.ParseInvalid, se.Reason)
		e.logger.Warn("invalid spec", "reason", se.Reason, "line", se.Details.Line, "error", err)
	} else {
		e.metrics.Parse(metrics.ParseSyntax, "")
		e.logger.Warn("malformed document", "error", err)
	}
	return nil, err
}

// Run executes spec until it halts, maxSteps is reached or ctx is done.
// Zero maxSteps uses the engine default. The report is returned together
// with ctx.Err() when the run is interrupted.
func (e *Engine) Run(ctx context.Context, spec *domain.Spec, maxSteps int) (*domain.RunReport, error) {
	if maxSteps == 0 {
		maxSteps = e.maxSteps
	}
	id := uuid.NewString()
	logger := e.logger.With("run_id", id)

	m := machine.FromSpec(spec)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunStart, RunID: id},
			State:     m.State(),
		})
	}
	logger.Info("run started", "start", m.State(), "tapes", spec.TapeCount(), "max_steps", maxSteps)

	opts := []runner.Option{runner.WithLogger(logger), runner.WithMaxSteps(maxSteps)}
	if e.stepHook != nil {
		opts = append(opts, runner.WithStepHook(e.stepHook))
	}
	res, err := runner.Run(ctx, m, opts...)

	outcome := metrics.RunHalted
	switch {
	case err != nil:
		outcome = metrics.RunCancelled
	case !res.Halted:
		outcome = metrics.RunLimit
	}
	e.metrics.Run(outcome, res.Steps)
	logger.Info("run finished", "outcome", outcome, "steps", res.Steps, "state", res.State)

	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunEnd, RunID: id},
			State:     res.State,
			Steps:     res.Steps,
			Halted:    res.Halted,
			Err:       err,
		})
	}
	return Report(id, res, m), err
}

// Report describes the outcome of a run and the final tapes of m.
func Report(id string, res runner.Result, m *machine.Machine) *domain.RunReport {
	rep := &domain.RunReport{
		ID:     id,
		Steps:  res.Steps,
		Halted: res.Halted,
		State:  res.State,
	}
	for _, t := range m.Tapes() {
		tp, ok := t.(*tape.Tape)
		if !ok {
			continue
		}
		rep.Tapes = append(rep.Tapes, domain.TapeReport{
			Cells:    tp.String(),
			Offset:   tp.Offset(),
			Position: tp.Position(),
			Contents: tp.Contents(),
		})
	}
	return rep
}

// Transform rewrites spec with the transformation registered as kind.
// Results are cached by kind and document; a cached result is re-parsed
// from its stored document.
func (e *Engine) Transform(ctx context.Context, kind string, spec *domain.Spec) (*transform.Result, error) {
	fn, err := transform.Get(kind)
	if err != nil {
		return nil, err
	}

	key, kerr := cacheKey(kind, spec)
	if kerr != nil {
		e.logger.Debug("transform not cacheable", "kind", kind, "error", kerr)
	}

	if e.cache != nil && kerr == nil {
		res, err := e.cached(ctx, key)
		switch {
		case err == nil:
			e.finishTransform(ctx, kind, res, nil, true)
			return res, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			e.logger.Warn("transform cache read failed", "kind", kind, "error", err)
		}
	}

	res, err := fn(spec, parser.ParseBytes)
	if err != nil {
		e.finishTransform(ctx, kind, nil, err, false)
		return nil, err
	}

	if e.cache != nil && kerr == nil {
		if err := e.store(ctx, key, res); err != nil {
			e.logger.Warn("transform cache write failed", "kind", kind, "error", err)
		}
	}
	e.finishTransform(ctx, kind, res, nil, false)
	return res, nil
}

// Kinds returns the available transformation names.
func (e *Engine) Kinds() []string {
	return transform.Kinds()
}

func (e *Engine) finishTransform(ctx context.Context, kind string, res *transform.Result, err error, cached bool) {
	e.metrics.Transform(kind, err, cached)
	states := 0
	if res != nil {
		states = res.Spec.Table.Len()
		e.logger.Info("transform done", "kind", kind, "cached", cached, "states", states)
	} else {
		e.logger.Warn("transform failed", "kind", kind, "error", err)
	}
	if e.hooks.OnTransform != nil {
		e.hooks.OnTransform(ctx, &domain.TransformEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransform},
			Kind:      kind,
			Cached:    cached,
			States:    states,
			Err:       err,
		})
	}
}

func (e *Engine) cached(ctx context.Context, key string) (*transform.Result, error) {
	entry, err := e.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	spec, err := parser.ParseBytes([]byte(entry.Document), true)
	if err != nil {
		return nil, fmt.Errorf("cached document is invalid: %w", err)
	}
	return &transform.Result{
		Kind:       entry.Kind,
		Spec:       spec,
		Source:     entry.Source,
		Codes:      entry.Codes,
		StateCodes: entry.StateCodes,
		Width:      entry.Width,
	}, nil
}

func (e *Engine) store(ctx context.Context, key string, res *transform.Result) error {
	doc, err := parser.Format(res.Spec)
	if err != nil {
		return err
	}
	return e.cache.Put(ctx, key, &domain.TransformEntry{
		Kind:       res.Kind,
		Document:   string(doc),
		Source:     res.Source,
		Codes:      res.Codes,
		StateCodes: res.StateCodes,
		Width:      res.Width,
	})
}

// cacheKey identifies a transformation by its kind and the normalized
// document of the input machine.
func cacheKey(kind string, spec *domain.Spec) (string, error) {
	doc, err := parser.Format(spec)
	if err != nil {
		return "", err
	}
	sum := sha256.New()
	sum.Write([]byte(kind))
	sum.Write([]byte{0})
	sum.Write(doc)
	return hex.EncodeToString(sum.Sum(nil)), nil
}
