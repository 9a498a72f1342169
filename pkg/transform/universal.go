package transform

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

//go:embed templates/universal.yaml
var universalTemplate []byte

// UniversalTemplate returns the bundled three-tape interpreter document.
func UniversalTemplate() []byte {
	out := make([]byte, len(universalTemplate))
	copy(out, universalTemplate)
	return out
}

var moveCodes = map[domain.Direction]string{
	domain.Right: "3",
	domain.Left:  "33",
	domain.Stay:  "333",
}

// haltCode marks a transition into a halting state.
const haltCode = "3333"

// visibleSpace stands for the space symbol in rendered tables.
const visibleSpace = "⎵"

// Universal encodes a single-tape machine as the input of the bundled
// universal machine. Symbols are coded as runs of 1 (the blank is "1"),
// states as runs of 2 (the start state is "2") and moves as runs of 3.
//
// The three tapes of the result hold the program, the current state and
// the simulated tape. Once the universal machine halts, Result.Decode
// recovers the simulated tape from its third tape.
func Universal(spec *domain.Spec, parse ParseFunc) (*Result, error) {
	if err := requireSingleTape(spec); err != nil {
		return nil, err
	}
	if parse == nil {
		return nil, fmt.Errorf("universal encoding requires a parser")
	}
	uni, err := parse(universalTemplate, true)
	if err != nil {
		return nil, fmt.Errorf("failed to parse universal template: %w", err)
	}

	symbols := Symbols(spec)
	sort.Strings(symbols)
	symCodes := AssignCodes(symbols, spec.Blank, '1')
	stateCodes := AssignCodes(States(spec), spec.StartState, '2')

	var (
		program strings.Builder
		raw     [][]string
		encoded [][]string
	)
	program.WriteString(">")
	for _, tr := range spec.Table.Transitions() {
		ins := tr.Instruction
		write := ins.WriteOr(0, tr.Symbol)
		next := ins.NextOr(tr.State)
		move := moveCodes[ins.Move(0)]
		if target, ok := ins.Next(); ok && spec.Table.IsHalting(target) {
			move = haltCode
		}
		rec := []string{symCodes[tr.Symbol], stateCodes[tr.State], symCodes[write], stateCodes[next], move}
		for _, part := range rec {
			program.WriteString(part)
		}
		raw = append(raw, []string{visible(tr.Symbol), tr.State, visible(write), next, ins.Move(0).String()})
		encoded = append(encoded, rec)
	}

	cells := []string{}
	for _, r := range spec.InputFor(0) {
		cells = append(cells, symCodes[string(r)])
	}
	if len(cells) == 0 {
		cells = append(cells, symCodes[spec.Blank])
	}

	uni.Input = []string{
		program.String(),
		">" + stateCodes[spec.StartState],
		">;" + strings.Join(cells, ";") + ";",
	}

	return &Result{
		Kind:       KindUniversal,
		Spec:       uni,
		Source:     renderUniversal(uni.Input, symCodes, stateCodes, raw, encoded),
		Codes:      symCodes,
		StateCodes: stateCodes,
	}, nil
}

// renderUniversal replaces the input block of the template with the
// generated tapes and the legends of the encoding.
func renderUniversal(input []string, symCodes, stateCodes map[string]string, raw, encoded [][]string) string {
	lines := strings.Split(string(universalTemplate), "\n")
	at := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "input:") {
			at = i
			break
		}
	}
	if at < 0 || at+1+len(input) > len(lines) {
		return string(universalTemplate)
	}

	var block []string
	for _, in := range input {
		block = append(block, fmt.Sprintf("  - '%s'", in))
	}
	for _, sym := range byCode(symCodes) {
		block = append(block, fmt.Sprintf("    # %s = %s", visible(sym), symCodes[sym]))
	}
	block = append(block, "    #")
	width := 0
	for st := range stateCodes {
		width = max(width, len([]rune(st)))
	}
	for _, st := range byCode(stateCodes) {
		block = append(block, fmt.Sprintf("    # %s = %s", padLeft(st, width), stateCodes[st]))
	}
	block = append(block, "    #")
	for _, row := range padTable(raw) {
		block = append(block, "    # "+strings.Join(row, " "))
	}
	block = append(block, "    #")
	for _, row := range padTable(encoded) {
		block = append(block, "    # "+strings.Join(row, " "))
	}

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:at+1]...)
	out = append(out, block...)
	out = append(out, lines[at+1+len(input):]...)
	return strings.Join(out, "\n")
}

func visible(s string) string {
	return strings.ReplaceAll(s, " ", visibleSpace)
}

func decodeUniversal(tape string, codes map[string]string) (string, error) {
	inv := invert(codes)
	body := strings.TrimSpace(tape)
	body = strings.TrimPrefix(body, ">")

	var sb strings.Builder
	for _, cell := range strings.Split(body, ";") {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		code := strings.Repeat("1", strings.Count(cell, "1"))
		sym, ok := inv[code]
		if !ok {
			return "", fmt.Errorf("no symbol has code %q", code)
		}
		sb.WriteString(sym)
	}
	return sb.String(), nil
}
