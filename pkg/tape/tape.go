// Package tape provides a growable, doubly infinite tape for running machines.
package tape

import "strings"

// Tape is a sequence of single-character symbols with a head. Cells outside
// the visited range read as the blank.
type Tape struct {
	blank string
	cells []string
	// origin is the index in cells of position 0.
	origin int
	head   int
}

// New creates a tape holding contents from position 0, with the head on it.
func New(blank, contents string) *Tape {
	t := &Tape{blank: blank}
	for _, r := range contents {
		t.cells = append(t.cells, string(r))
	}
	if len(t.cells) == 0 {
		t.cells = []string{blank}
	}
	return t
}

// Blank returns the blank symbol.
func (t *Tape) Blank() string { return t.blank }

// Read returns the symbol under the head.
func (t *Tape) Read() string {
	return t.cells[t.head]
}

// Write replaces the symbol under the head.
func (t *Tape) Write(symbol string) {
	t.cells[t.head] = symbol
}

// HeadLeft moves the head one cell to the left, growing the tape if needed.
func (t *Tape) HeadLeft() {
	if t.head == 0 {
		t.cells = append([]string{t.blank}, t.cells...)
		t.origin++
		return
	}
	t.head--
}

// HeadRight moves the head one cell to the right, growing the tape if needed.
func (t *Tape) HeadRight() {
	t.head++
	if t.head == len(t.cells) {
		t.cells = append(t.cells, t.blank)
	}
}

// Position returns the head position relative to the first input cell.
func (t *Tape) Position() int {
	return t.head - t.origin
}

// Offset returns the position of the leftmost visited cell.
func (t *Tape) Offset() int {
	return -t.origin
}

// String returns every visited cell, leftmost first.
func (t *Tape) String() string {
	return strings.Join(t.cells, "")
}

// Cells returns a copy of the visited cells, leftmost first.
func (t *Tape) Cells() []string {
	out := make([]string, len(t.cells))
	copy(out, t.cells)
	return out
}

// Contents returns the visited cells with leading and trailing blanks removed.
func (t *Tape) Contents() string {
	lo, hi := 0, len(t.cells)
	for lo < hi && t.cells[lo] == t.blank {
		lo++
	}
	for hi > lo && t.cells[hi-1] == t.blank {
		hi--
	}
	return strings.Join(t.cells[lo:hi], "")
}
