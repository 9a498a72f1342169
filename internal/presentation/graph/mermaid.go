package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// visibleBlank replaces the space in edge labels.
const visibleBlank = "␣"

// Overlay contains run data to visualize on the diagram.
type Overlay struct {
	VisitedStates []string
	CurrentState  string
}

type edge struct {
	from, to string
	labels   []string
}

// GenerateMermaid produces a Mermaid flowchart of the transition table.
// It applies semantic styling:
// - Start state: ((Circle))
// - Halting state: (((Double circle)))
// - Default: [Rectangle]
// Transitions between the same pair of states share one edge whose label
// lists `read→write,move` for each of them. Overlay styles (visited and
// current states) are applied if provided.
func GenerateMermaid(spec *domain.Spec, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := make(map[string]string)
	for i, st := range spec.Table.States() {
		ids[st] = fmt.Sprintf("s%d", i)
	}

	for _, st := range spec.Table.States() {
		opener, closer := "[", "]"
		switch {
		case st == spec.StartState:
			opener, closer = "((", "))"
		case spec.Table.IsHalting(st):
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", ids[st], opener, escape(st), closer)
	}

	var edges []*edge
	index := make(map[[2]string]*edge)
	for _, tr := range spec.Table.Transitions() {
		to := tr.Instruction.NextOr(tr.State)
		k := [2]string{tr.State, to}
		e, ok := index[k]
		if !ok {
			e = &edge{from: tr.State, to: to}
			index[k] = e
			edges = append(edges, e)
		}
		e.labels = append(e.labels, label(tr, spec.Blank))
	}
	for _, e := range edges {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", ids[e.from], escape(strings.Join(e.labels, "<br/>")), ids[e.to])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, st := range overlay.VisitedStates {
			id, ok := ids[st]
			if ok && !seen[id] && st != overlay.CurrentState {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if id, ok := ids[overlay.CurrentState]; ok {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

// label renders one transition as read→write,move with one entry per tape.
func label(tr domain.Transition, blank string) string {
	ins := tr.Instruction
	read := []rune(tr.Symbol)
	parts := make([]string, ins.Tapes())
	for i := range parts {
		sym := ""
		if i < len(read) {
			sym = string(read[i])
		}
		write := ins.WriteOr(i, sym)
		parts[i] = fmt.Sprintf("%s→%s,%s", visible(sym, blank), visible(write, blank), ins.Move(i))
	}
	return strings.Join(parts, " ")
}

func visible(sym, blank string) string {
	if sym == blank || sym == " " {
		return visibleBlank
	}
	return sym
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
