package transform

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

// AssignCodes gives every item a unary code made of digit: first gets a
// single digit and the remaining items, in order, get one more digit each.
// first is coded even when it is not in items.
func AssignCodes(items []string, first string, digit byte) map[string]string {
	codes := map[string]string{first: string(digit)}
	n := 1
	for _, it := range items {
		if _, done := codes[it]; done {
			continue
		}
		n++
		codes[it] = strings.Repeat(string(digit), n)
	}
	return codes
}

// BinaryCodes gives every symbol a fixed-width binary code in the given
// order, starting from zero. The width is the number of bits needed for
// len(symbols) distinct codes.
func BinaryCodes(symbols []string) (map[string]string, int) {
	size := 0
	for (1 << size) < len(symbols) {
		size++
	}
	codes := make(map[string]string, len(symbols))
	for i, sym := range symbols {
		var sb strings.Builder
		for bit := size - 1; bit >= 0; bit-- {
			if i&(1<<bit) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		codes[sym] = sb.String()
	}
	return codes, size
}

// Symbols collects the alphabet of a spec: every symbol read or written by
// the table in declaration order, then the blank and the input symbols.
func Symbols(spec *domain.Spec) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, tr := range spec.Table.Transitions() {
		add(tr.Symbol)
		for n := 0; n < tr.Instruction.Tapes(); n++ {
			if w, ok := tr.Instruction.Write(n); ok {
				add(w)
			}
		}
	}
	add(spec.Blank)
	for i := 0; i < spec.TapeCount(); i++ {
		for _, r := range spec.InputFor(i) {
			add(string(r))
		}
	}
	return out
}

// States collects the declared states in order, followed by any instruction
// target not yet seen.
func States(spec *domain.Spec) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, st := range spec.Table.States() {
		add(st)
	}
	for _, tr := range spec.Table.Transitions() {
		if next, ok := tr.Instruction.Next(); ok {
			add(next)
		}
	}
	return out
}

// byCode returns the keys of codes ordered by code length, then by code.
func byCode(codes map[string]string) []string {
	keys := make([]string, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := codes[keys[i]], codes[keys[j]]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

// padTable pads every column to the width of its widest cell.
func padTable(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	out := make([][]string, len(rows))
	for r, row := range rows {
		out[r] = make([]string, len(row))
		for i, cell := range row {
			out[r][i] = padRight(cell, widths[i])
		}
	}
	return out
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func requireSingleTape(spec *domain.Spec) error {
	if spec.TapeCount() != 1 {
		return domain.NewSpecError(domain.ReasonTransformTapes, domain.Details{
			Info: "The machine has " + strconv.Itoa(spec.TapeCount()) + " tapes",
		})
	}
	return nil
}
