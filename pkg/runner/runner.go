package runner

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/turing/pkg/machine"
)

// DefaultMaxSteps bounds a run when no limit is configured.
const DefaultMaxSteps = 1_000_000

// MaxRequestSteps is the largest step limit a remote caller may ask for.
const MaxRequestSteps = 10_000_000

// checkEvery is how many steps run between context checks.
const checkEvery = 1024

// StepHook is called after every successful step with the step count so far.
type StepHook func(step int, m *machine.Machine)

// Runner drives a machine until it halts, a step limit is reached or the
// context is cancelled.
type Runner struct {
	// Logger is used for run and step logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// MaxSteps bounds the run. Zero means DefaultMaxSteps; negative means
	// no limit.
	MaxSteps int

	Hooks []StepHook
}

// Result describes how a run ended.
type Result struct {
	Steps int `json:"steps"`
	// Halted is false when the run stopped at the step limit.
	Halted bool   `json:"halted"`
	State  string `json:"state"`
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run is shorthand for NewRunner(opts...).Run(ctx, m).
func Run(ctx context.Context, m *machine.Machine, opts ...Option) (Result, error) {
	return NewRunner(opts...).Run(ctx, m)
}

// Run steps m. A cancelled context stops the run and is returned as the
// error together with the partial result.
func (r *Runner) Run(ctx context.Context, m *machine.Machine) (Result, error) {
	limit := r.MaxSteps
	if limit == 0 {
		limit = DefaultMaxSteps
	}

	res := Result{State: m.State()}
	for {
		if limit > 0 && res.Steps >= limit {
			res.Halted = m.IsHalted()
			break
		}
		if res.Steps%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				res.State = m.State()
				r.Logger.Warn("run interrupted", "steps", res.Steps, "state", res.State, "error", err)
				return res, err
			}
		}

		from := m.State()
		if !m.Step() {
			res.Halted = true
			break
		}
		res.Steps++
		r.Logger.Debug("step", "n", res.Steps, "from", from, "to", m.State())
		for _, hook := range r.Hooks {
			hook(res.Steps, m)
		}
	}

	res.State = m.State()
	if res.Halted {
		r.Logger.Debug("machine halted", "steps", res.Steps, "state", res.State)
	} else {
		r.Logger.Warn("step limit reached", "steps", res.Steps, "state", res.State)
	}
	return res, nil
}
