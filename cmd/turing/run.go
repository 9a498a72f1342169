package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a machine until it halts",
	Long: `Runs the machine described by FILE from its declared input and prints
the final tapes. The run stops at the step limit or on Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		multiTape, _ := cmd.Flags().GetBool("multi-tape")
		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		trace, _ := cmd.Flags().GetBool("trace")
		jsonOut, _ := cmd.Flags().GetBool("json")
		banner, _ := cmd.Flags().GetBool("banner")

		data, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}

		var opts []turing.Option
		if trace {
			opts = append(opts, turing.WithStepHook(func(step int, m *machine.Machine) {
				fmt.Fprintf(os.Stderr, "%6d  %-12s %q\n", step, m.State(), m.Symbols())
			}))
		}
		engine := newEngine(opts...)

		spec, err := engine.Parse(cmd.Context(), data, multiTape)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		// Handle Ctrl+C so that the partial result is still printed.
		sm := runner.NewSignalManager(cmd.Context())
		defer sm.Stop()

		rep, err := engine.Run(sm.Context(), spec, maxSteps)
		interrupted := err != nil
		if interrupted && !errors.Is(err, sm.Context().Err()) {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			if err := writeJSON(out, rep); err != nil {
				return err
			}
		} else {
			if banner && tui.IsTerminal(out) {
				tui.PrintBanner(out)
			}
			tui.PrintReport(out, spec, rep)
		}
		if interrupted {
			return fmt.Errorf("run interrupted after %d steps", rep.Steps)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("multi-tape", false, "Allow the tapes key and the multi-tape instruction grammar")
	runCmd.Flags().Int("max-steps", 0, "Step limit (0 uses the configured default, negative disables it)")
	runCmd.Flags().Bool("trace", false, "Print every step to stderr")
	runCmd.Flags().Bool("json", false, "Print the run report as JSON")
	runCmd.Flags().Bool("banner", false, "Print the banner before the result")
}
