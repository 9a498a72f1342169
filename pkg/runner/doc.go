/*
Package runner implements the host loop that drives a machine to completion.

The machine itself has no notion of time or cancellation: a step either
applies a transition or reports that the machine is halted. The runner
calls Step repeatedly, enforces a step limit, honours context cancellation
and reports progress through step hooks and structured logs.

# Usage

	m := machine.FromSpec(spec)

	res, err := runner.Run(ctx, m,
		runner.WithMaxSteps(10_000),
		runner.WithLogger(logger),
	)
	if err != nil {
		return err // context cancelled
	}
	if !res.Halted {
		// step limit reached
	}

The CLI wires a SignalManager context so Ctrl+C stops long runs.
*/
package runner
