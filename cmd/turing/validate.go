package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a machine document",
	Long:  `Parses the document and reports the first problem found, with its line when known. Use "-" to read stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		multiTape, _ := cmd.Flags().GetBool("multi-tape")

		data, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		spec, err := newEngine().Parse(cmd.Context(), data, multiTape)
		if err != nil {
			if se, ok := domain.AsSpecError(err); ok && se.Details.Line > 0 {
				return fmt.Errorf("%s:%d: %w", args[0], se.Details.Line, err)
			}
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ %s is a valid machine\n", args[0])
		fmt.Fprintf(out, "  start state: %s\n", spec.StartState)
		fmt.Fprintf(out, "  states:      %s\n", strings.Join(spec.Table.States(), ", "))
		if halting := spec.HaltingStates(); len(halting) > 0 {
			fmt.Fprintf(out, "  halting:     %s\n", strings.Join(halting, ", "))
		}
		fmt.Fprintf(out, "  tapes:       %d\n", spec.TapeCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("multi-tape", false, "Allow the tapes key and the multi-tape instruction grammar")
}
