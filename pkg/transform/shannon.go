package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// EndMarker is coded right after the blank by the binary encodings.
const EndMarker = "∂"

// minBinaryAlphabet is the smallest alphabet worth re-encoding in binary.
const minBinaryAlphabet = 3

// visibleBlank stands for the space symbol in the binary legend.
const visibleBlank = "␣"

// Binary re-encodes a single-tape machine over the alphabet {0, 1}. Every
// symbol becomes a fixed-width bit string; the blank is coded as all zeros,
// so the generated machine uses 0 as its blank.
func Binary(spec *domain.Spec) (*Result, error) {
	return shannon(spec, KindBinary, "0")
}

// BinaryBlank is Binary with the space as blank. Cells never written by the
// generated machine read as the space, which no transition accepts.
func BinaryBlank(spec *domain.Spec) (*Result, error) {
	return shannon(spec, KindBinaryBlank, " ")
}

// binaryRow is one generated transition, kept in generation order for rendering.
type binaryRow struct {
	from, read, write, to string
	move                  domain.Direction
}

type shannonBuilder struct {
	table *domain.Table
	rows  []*binaryRow
	err   error
}

// add defines (from, read) unless it already exists. Clusters that share a
// prefix reach the same (state, symbol) pairs with the same instruction; a
// different instruction for an existing pair is recorded as a conflict.
func (b *shannonBuilder) add(from, read, to, write string, move domain.Direction) {
	ins := domain.NewInstruction([]string{write}, []domain.Direction{move}, to, true)
	if existing, ok := b.table.Lookup(from, read); ok {
		if !existing.Equal(ins) && b.err == nil {
			b.err = domain.NewSpecError(domain.ReasonTransformConflict, domain.Details{
				State:  from,
				Symbol: read,
			})
		}
		return
	}
	b.table.Add(from, read, ins)
	b.rows = append(b.rows, &binaryRow{from: from, read: read, write: write, to: to, move: move})
}

// separate ends a cluster in the rendered listing.
func (b *shannonBuilder) separate() {
	if n := len(b.rows); n > 0 && b.rows[n-1] != nil {
		b.rows = append(b.rows, nil)
	}
}

// stateName is the name of an original state in the generated machine.
// Underscores are doubled, so a single underscore always starts the suffix
// of a generated sub-state and no original name can take the form
// stateName(x) + "_" + suffix.
func stateName(state string) string {
	return strings.ReplaceAll(state, subSep, subSep+subSep)
}

// subSep separates an original state from the suffix of its sub-states.
// Suffixes never contain it: reading states end in bits, writing states in
// a direction and bits, moving states in a direction, "move" and a count.
const subSep = "_"

func shannon(spec *domain.Spec, kind, blank string) (*Result, error) {
	if err := requireSingleTape(spec); err != nil {
		return nil, err
	}
	symbols := Symbols(spec)
	if len(symbols) < minBinaryAlphabet {
		return nil, domain.NewSpecError(domain.ReasonTransformAlphabet, domain.Details{
			ProblemValue: strconv.Itoa(len(symbols)),
			Info:         "Binary encoding needs at least 3 distinct symbols",
		})
	}
	codes, size := BinaryCodes(binaryOrder(symbols, spec.Blank))

	b := &shannonBuilder{table: domain.NewTable()}
	var renamed map[string]string
	for _, st := range spec.Table.States() {
		name := stateName(st)
		if name != st {
			if renamed == nil {
				renamed = make(map[string]string)
			}
			renamed[st] = name
		}
		if spec.Table.IsHalting(st) {
			b.table.DeclareHalting(name)
		} else {
			b.table.Declare(name)
		}
	}

	for _, tr := range spec.Table.Transitions() {
		from := stateName(tr.State)
		ins := tr.Instruction
		sym := codes[tr.Symbol]
		to := stateName(ins.NextOr(tr.State))
		wr := codes[ins.WriteOr(0, tr.Symbol)]
		mv := ins.Move(0)
		bit := func(s string, i int) string { return s[i : i+1] }
		reading := func(bits string) string { return from + subSep + bits }
		dest := to + subSep + mv.String()
		writing := func(bits string) string { return dest + bits }
		moving := func(i int) string { return dest + "move" + strconv.Itoa(i) }

		// Read the code left to right.
		b.add(from, bit(sym, 0), reading(sym[:1]), bit(sym, 0), domain.Right)
		for i := 1; i < size-1; i++ {
			b.add(reading(sym[:i]), bit(sym, i), reading(sym[:i+1]), bit(sym, i), domain.Right)
		}
		b.add(reading(sym[:size-1]), bit(sym, size-1), reading(sym), bit(sym, size-1), domain.Stay)
		b.add(reading(sym), bit(sym, size-1), writing(wr), bit(sym, size-1), domain.Stay)

		// Write the new code right to left.
		for i := size - 1; i > 0; i-- {
			b.add(writing(wr[:i+1]), bit(sym, i), writing(wr[:i]), bit(wr, i), domain.Left)
		}
		b.add(writing(wr[:1]), bit(sym, 0), dest, bit(wr, 0), domain.Stay)

		// Move by a whole code.
		switch mv {
		case domain.Right:
			b.add(dest, bit(wr, 0), moving(size), bit(wr, 0), domain.Stay)
			for i := size; i > 1; i-- {
				b.add(moving(i), bit(wr, size-i), moving(i-1), bit(wr, size-i), domain.Right)
			}
			b.add(moving(1), bit(wr, size-1), to, bit(wr, size-1), domain.Right)
		case domain.Left:
			b.add(dest, bit(wr, 0), moving(size), bit(wr, 0), domain.Stay)
			b.add(moving(size), bit(wr, 0), moving(size-1), bit(wr, 0), domain.Left)
			for i := size - 1; i > 1; i-- {
				for _, d := range []string{"0", "1"} {
					b.add(moving(i), d, moving(i-1), d, domain.Left)
				}
			}
			for _, d := range []string{"0", "1"} {
				b.add(moving(1), d, to, d, domain.Left)
			}
		default:
			b.add(dest, bit(wr, 0), to, bit(wr, 0), domain.Stay)
		}
		b.separate()
	}
	if b.err != nil {
		return nil, b.err
	}

	var input strings.Builder
	for _, r := range spec.InputFor(0) {
		input.WriteString(codes[string(r)])
	}

	out := &domain.Spec{
		Blank:      blank,
		Tapes:      1,
		StartState: stateName(spec.StartState),
		Table:      b.table,
		Vis:        domain.NewVis(1),
		Input:      []string{input.String()},
	}
	return &Result{
		Kind:       kind,
		Spec:       out,
		Source:     renderBinary(codes, b.rows),
		Codes:      codes,
		StateCodes: renamed,
		Width:      size,
	}, nil
}

// binaryOrder sorts the alphabet and moves the end marker, then the blank,
// to the front so the blank gets the all-zero code.
func binaryOrder(symbols []string, blank string) []string {
	rest := make([]string, 0, len(symbols))
	hasEnd := false
	for _, s := range symbols {
		switch s {
		case blank:
		case EndMarker:
			hasEnd = true
		default:
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	out := []string{blank}
	if hasEnd {
		out = append(out, EndMarker)
	}
	return append(out, rest...)
}

func renderBinary(codes map[string]string, rows []*binaryRow) string {
	var sb strings.Builder
	syms := make([]string, 0, len(codes))
	for s := range codes {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return codes[syms[i]] < codes[syms[j]] })
	for _, s := range syms {
		fmt.Fprintf(&sb, "# %s = %s\n", strings.ReplaceAll(s, " ", visibleBlank), codes[s])
	}
	sb.WriteString("\n")

	width := 0
	for _, r := range rows {
		if r != nil {
			width = max(width, len([]rune(r.from)))
		}
	}
	for _, r := range rows {
		if r == nil {
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "%s %s -> %s %s %s\n", padRight(r.from, width), r.read, r.write, r.move, r.to)
	}
	return sb.String()
}

func decodeBinary(bits string, codes map[string]string, width int) (string, error) {
	if width <= 0 {
		return "", fmt.Errorf("invalid code width %d", width)
	}
	inv := invert(codes)
	var sb strings.Builder
	for i := 0; i+width <= len(bits); i += width {
		chunk := bits[i : i+width]
		sym, ok := inv[chunk]
		if !ok {
			return "", fmt.Errorf("no symbol has code %q", chunk)
		}
		sb.WriteString(sym)
	}
	return sb.String(), nil
}
