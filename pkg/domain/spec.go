package domain

// MaxTapes is the largest tape count a multi-tape specification may declare.
const MaxTapes = 9

// Spec is the validated description of a Turing machine. It is built once by
// the parser (or a transformation) and is not modified afterwards.
type Spec struct {
	Blank string
	// Tapes is 0 for the implicit single tape of a classic machine, or the
	// declared count (1-9) of a multi-tape machine.
	Tapes      int
	StartState string
	Table      *Table
	// Synonyms is nil when the document declares none.
	Synonyms map[string]Instruction
	Vis      *Vis
	// Input holds the initial contents of each tape, if given.
	Input []string
}

// TapeCount returns the number of physical tapes the machine runs on.
func (s *Spec) TapeCount() int {
	if s.Tapes == 0 {
		return 1
	}
	return s.Tapes
}

// MultiTape reports whether instructions use the multi-tape grammar.
func (s *Spec) MultiTape() bool {
	return s.Tapes > 0
}

// InputFor returns the initial contents of tape n, or "" if none was given.
func (s *Spec) InputFor(n int) string {
	if n < 0 || n >= len(s.Input) {
		return ""
	}
	return s.Input[n]
}

// HaltingStates returns the states declared with the halting marker, in
// declaration order.
func (s *Spec) HaltingStates() []string {
	var out []string
	for _, st := range s.Table.States() {
		if s.Table.IsHalting(st) {
			out = append(out, st)
		}
	}
	return out
}
