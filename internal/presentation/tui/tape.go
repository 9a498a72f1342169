package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

var visColors = map[string]string{
	"green": "#22c55e",
	"blue":  "#3b82f6",
	"red":   "#ef4444",
}

// Highlight returns the color of every cell a visualization rule marks,
// keyed by cell index. A "row" rule marks the run of cells from the head
// whose symbols are in the rule's chars. A "find" rule marks every cell from
// the head up to the (skip+1)-th cell holding one of the chars.
func Highlight(cells []string, head int, rule domain.VisRule) map[int]string {
	out := make(map[int]string)
	step := 1
	if rule.Dir == "<-" {
		step = -1
	}
	skip := rule.Skip
	for i := head; i >= 0 && i < len(cells); i += step {
		match := strings.Contains(rule.Chars, cells[i])
		switch rule.Mode {
		case "row":
			if !match {
				return out
			}
			out[i] = rule.Color
		case "find":
			out[i] = rule.Color
			if match {
				if skip == 0 {
					return out
				}
				skip--
			}
		default:
			return out
		}
	}
	return out
}

// RenderTape draws one tape with the head cell bracketed. When rule is not
// nil the cells it marks are colored.
func RenderTape(p termenv.Profile, tr domain.TapeReport, blank string, rule *domain.VisRule) string {
	var cells []string
	for _, r := range tr.Cells {
		cells = append(cells, string(r))
	}
	head := tr.Position - tr.Offset

	var marks map[int]string
	if rule != nil {
		marks = Highlight(cells, head, *rule)
	}

	var sb strings.Builder
	for i, c := range cells {
		text := c
		if c == blank || c == " " {
			text = "·"
		}
		if i == head {
			text = "[" + text + "]"
		} else {
			text = " " + text + " "
		}
		s := p.String(text)
		if color, ok := marks[i]; ok {
			s = s.Foreground(p.Color(visColors[color]))
		}
		if i == head {
			s = s.Bold()
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// PrintReport writes the outcome of a run and every final tape to w.
func PrintReport(w io.Writer, spec *domain.Spec, rep *domain.RunReport) {
	p := Profile(w)

	outcome := fmt.Sprintf("halted in state %s after %d steps", rep.State, rep.Steps)
	if !rep.Halted {
		outcome = fmt.Sprintf("stopped in state %s at the step limit (%d steps)", rep.State, rep.Steps)
	}
	fmt.Fprintln(w, p.String(outcome).Foreground(p.Color("#a78bfa")).Bold())

	if spec.Vis != nil {
		if title, ok := spec.Vis.Titles[rep.State]; ok {
			fmt.Fprintln(w, title)
		}
		if info, ok := spec.Vis.Info[rep.State]; ok {
			fmt.Fprintln(w, p.String(info).Faint())
		}
	}

	for i, tr := range rep.Tapes {
		var rule *domain.VisRule
		if spec.Vis != nil && i < len(spec.Vis.Tapes) {
			if r, ok := spec.Vis.Tapes[i][rep.State]; ok {
				rule = &r
			}
		}
		fmt.Fprintf(w, "tape %d: %s\n", i+1, RenderTape(p, tr, spec.Blank, rule))
	}
}
