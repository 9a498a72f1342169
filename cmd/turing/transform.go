package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/parser"
	"github.com/aretw0/turing/pkg/transform"
	"github.com/spf13/cobra"
)

var transformCmd = &cobra.Command{
	Use:   "transform FILE",
	Short: "Rewrite a machine as a universal program or over a binary alphabet",
	Long: `Rewrites the single-tape machine described by FILE and prints the
generated machine document. Kinds: ` + strings.Join(transform.Kinds(), ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		output, _ := cmd.Flags().GetString("output")
		showSource, _ := cmd.Flags().GetBool("source")
		run, _ := cmd.Flags().GetBool("run")

		data, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		engine := newEngine()
		spec, err := engine.Parse(cmd.Context(), data, false)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		res, err := engine.Transform(cmd.Context(), kind, spec)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showSource {
			if err := printSource(cmd, kind, res.Source); err != nil {
				return err
			}
		} else {
			doc, err := parser.Format(res.Spec)
			if err != nil {
				return fmt.Errorf("failed to format result: %w", err)
			}
			if output != "" {
				if err := os.WriteFile(output, doc, 0o644); err != nil {
					return fmt.Errorf("failed to write result: %w", err)
				}
				app.logger.Info("transformed machine written", "kind", kind, "path", output)
			} else {
				out.Write(doc)
			}
		}

		if !run {
			return nil
		}
		rep, err := engine.Run(cmd.Context(), res.Spec, 0)
		if err != nil {
			return err
		}
		tui.PrintReport(cmd.ErrOrStderr(), res.Spec, rep)
		decoded, err := decodeReport(res, rep)
		if err != nil {
			app.logger.Warn("could not decode the final tape", "error", err)
			return nil
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "decoded: %q\n", decoded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringP("kind", "k", transform.KindUniversal, "Transformation: "+strings.Join(transform.Kinds(), ", "))
	transformCmd.Flags().StringP("output", "o", "", "Write the generated document to this file")
	transformCmd.Flags().Bool("source", false, "Print the annotated listing instead of the document")
	transformCmd.Flags().Bool("run", false, "Run the generated machine and decode its data tape")
}

// printSource renders the listing with glamour when stdout is a terminal.
func printSource(cmd *cobra.Command, kind, source string) error {
	out := cmd.OutOrStdout()
	if !tui.IsTerminal(out) {
		_, err := fmt.Fprint(out, source)
		return err
	}
	render, err := tui.NewRenderer()
	if err != nil {
		return err
	}
	text, err := render(tui.SourceMarkdown(kind, source))
	if err != nil {
		return fmt.Errorf("failed to render listing: %w", err)
	}
	_, err = fmt.Fprint(out, text)
	return err
}

// decodeReport translates the data tape of a finished generated machine back
// into the original alphabet.
func decodeReport(res *transform.Result, rep *domain.RunReport) (string, error) {
	if len(rep.Tapes) == 0 {
		return "", fmt.Errorf("no tapes")
	}
	if res.Kind == transform.KindUniversal {
		return res.Decode(rep.Tapes[len(rep.Tapes)-1].Cells)
	}

	// Realign on a code boundary: position 0 starts a code.
	tr := rep.Tapes[0]
	lead := -tr.Offset
	pad := (res.Width - lead%res.Width) % res.Width
	return res.Decode(strings.Repeat(res.Spec.Blank, pad) + tr.Cells)
}
