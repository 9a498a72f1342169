package main

import (
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph FILE",
	Short: "Export the state diagram",
	Long: `Outputs a Mermaid diagram (graph LR) of the transition table. With --run
the machine is run first and the visited and final states are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		multiTape, _ := cmd.Flags().GetBool("multi-tape")
		run, _ := cmd.Flags().GetBool("run")

		data, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}

		var visited []string
		seen := make(map[string]bool)
		engine := newEngine(turing.WithStepHook(func(step int, m *machine.Machine) {
			if !seen[m.State()] {
				seen[m.State()] = true
				visited = append(visited, m.State())
			}
		}))

		spec, err := engine.Parse(cmd.Context(), data, multiTape)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		var overlay *graph.Overlay
		if run {
			rep, err := engine.Run(cmd.Context(), spec, 0)
			if err != nil {
				return err
			}
			overlay = &graph.Overlay{
				VisitedStates: append([]string{spec.StartState}, visited...),
				CurrentState:  rep.State,
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(spec, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("multi-tape", false, "Allow the tapes key and the multi-tape instruction grammar")
	graphCmd.Flags().Bool("run", false, "Run the machine and highlight the states it went through")
}
