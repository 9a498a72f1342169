package runner

import "log/slog"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithMaxSteps bounds the number of steps. A negative value removes the bound.
func WithMaxSteps(n int) Option {
	return func(r *Runner) {
		r.MaxSteps = n
	}
}

// WithStepHook registers a callback invoked after every step.
func WithStepHook(hook StepHook) Option {
	return func(r *Runner) {
		r.Hooks = append(r.Hooks, hook)
	}
}
