package domain

import "fmt"

// Direction is a tape head movement.
type Direction byte

const (
	Left  Direction = 'L'
	Right Direction = 'R'
	Stay  Direction = 'H'
)

func (d Direction) String() string {
	return string(rune(d))
}

// Valid reports whether d is one of Left, Right or Stay.
func (d Direction) Valid() bool {
	return d == Left || d == Right || d == Stay
}

// ParseDirection converts "L", "R" or "H" into a Direction.
func ParseDirection(s string) (Direction, error) {
	if len(s) == 1 {
		if d := Direction(s[0]); d.Valid() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("not a valid tape movement: %q", s)
}

// Instruction is the result of a transition: what to write and where to move
// on every tape, and which state to enter. The zero value is not usable;
// build instructions with NewInstruction or NewMove.
//
// Instructions are immutable; none of the accessors expose internal slices.
type Instruction struct {
	write   []string
	move    []Direction
	next    string
	hasNext bool
}

// NewInstruction builds an instruction for len(move) tapes. An empty write
// entry leaves that tape's cell unchanged. When hasNext is false the machine
// stays in its current state.
func NewInstruction(write []string, move []Direction, next string, hasNext bool) Instruction {
	w := make([]string, len(move))
	copy(w, write)
	m := make([]Direction, len(move))
	copy(m, move)
	return Instruction{write: w, move: m, next: next, hasNext: hasNext}
}

// NewMove builds a single-tape instruction. An empty write leaves the cell
// unchanged and an empty next keeps the current state.
func NewMove(write string, move Direction, next string) Instruction {
	return NewInstruction([]string{write}, []Direction{move}, next, next != "")
}

// Tapes returns the number of tapes the instruction drives.
func (i Instruction) Tapes() int {
	return len(i.move)
}

// Write returns the symbol written to tape n, if any.
func (i Instruction) Write(n int) (string, bool) {
	if n < 0 || n >= len(i.write) || i.write[n] == "" {
		return "", false
	}
	return i.write[n], true
}

// Move returns the movement of tape n.
func (i Instruction) Move(n int) Direction {
	return i.move[n]
}

// Next returns the state entered after the transition, if it changes.
func (i Instruction) Next() (string, bool) {
	return i.next, i.hasNext
}

// NextOr returns the next state, or current when the instruction keeps it.
func (i Instruction) NextOr(current string) string {
	if i.hasNext {
		return i.next
	}
	return current
}

// WriteOr returns the symbol written to tape n, or read when nothing is written.
func (i Instruction) WriteOr(n int, read string) string {
	if w, ok := i.Write(n); ok {
		return w
	}
	return read
}

// Equal reports whether both instructions have the same effect.
func (i Instruction) Equal(o Instruction) bool {
	if len(i.move) != len(o.move) || i.hasNext != o.hasNext || i.next != o.next {
		return false
	}
	for n := range i.move {
		if i.move[n] != o.move[n] || i.write[n] != o.write[n] {
			return false
		}
	}
	return true
}

func (i Instruction) String() string {
	s := ""
	for n := range i.move {
		if n > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d%s", n+1, i.move[n])
		if w, ok := i.Write(n); ok {
			s += w
		}
	}
	if next, ok := i.Next(); ok {
		if s == "" {
			return next
		}
		return next + " " + s
	}
	return s
}
