package domain

// SplitSymbolKey expands a table key into the symbols it denotes. A key may
// list several symbols separated by commas; two consecutive commas (or a key
// that is a lone comma) stand for the comma symbol itself.
func SplitSymbolKey(key string) []string {
	var acc []string
	start := 0
	for i := 0; i <= len(key); i++ {
		if i < len(key) && key[i] != ',' {
			continue
		}
		part := key[start:i]
		if part == "" && len(acc) > 0 && acc[len(acc)-1] == "" {
			acc[len(acc)-1] = ","
		} else {
			acc = append(acc, part)
		}
		start = i + 1
	}
	return acc
}

// Cell is one row of a state's transitions: a raw symbol key and the
// instruction shared by every symbol it denotes.
type Cell struct {
	Key         string
	Symbols     []string
	Instruction Instruction
}

// Entry holds the transitions of a single state. A halting entry has no cells.
type Entry struct {
	State   string
	Halting bool
	Cells   []Cell
	index   map[string]int
}

// Lookup returns the instruction for symbol, if the state defines one.
func (e *Entry) Lookup(symbol string) (Instruction, bool) {
	if e == nil || e.Halting {
		return Instruction{}, false
	}
	i, ok := e.index[symbol]
	if !ok {
		return Instruction{}, false
	}
	return e.Cells[i].Instruction, true
}

// Table maps states to their entries and remembers declaration order.
// It is built once by a parser or a transformation and read-only afterwards.
type Table struct {
	order   []string
	entries map[string]*Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Declare adds a state with no transitions yet. Declaring an existing state
// returns its entry unchanged.
func (t *Table) Declare(state string) *Entry {
	if e, ok := t.entries[state]; ok {
		return e
	}
	e := &Entry{State: state, index: make(map[string]int)}
	t.entries[state] = e
	t.order = append(t.order, state)
	return e
}

// DeclareHalting adds a state whose entry is the halting marker.
func (t *Table) DeclareHalting(state string) *Entry {
	e := t.Declare(state)
	e.Halting = true
	return e
}

// Add appends a cell to state, declaring the state if needed. Symbols that
// already have an instruction in that state keep their first definition.
func (t *Table) Add(state, key string, ins Instruction) {
	e := t.Declare(state)
	symbols := SplitSymbolKey(key)
	e.Cells = append(e.Cells, Cell{Key: key, Symbols: symbols, Instruction: ins})
	for _, sym := range symbols {
		if _, dup := e.index[sym]; !dup {
			e.index[sym] = len(e.Cells) - 1
		}
	}
}

// Has reports whether state is declared.
func (t *Table) Has(state string) bool {
	_, ok := t.entries[state]
	return ok
}

// Defines reports whether state already has an instruction for symbol.
func (t *Table) Defines(state, symbol string) bool {
	e, ok := t.entries[state]
	if !ok {
		return false
	}
	_, ok = e.index[symbol]
	return ok
}

// Entry returns the entry of state.
func (t *Table) Entry(state string) (*Entry, bool) {
	e, ok := t.entries[state]
	return e, ok
}

// States returns the declared states in declaration order.
func (t *Table) States() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of declared states.
func (t *Table) Len() int {
	return len(t.order)
}

// IsHalting reports whether state is declared with the halting marker.
func (t *Table) IsHalting(state string) bool {
	e, ok := t.entries[state]
	return ok && e.Halting
}

// Lookup returns the instruction for (state, symbol).
func (t *Table) Lookup(state, symbol string) (Instruction, bool) {
	e, ok := t.entries[state]
	if !ok {
		return Instruction{}, false
	}
	return e.Lookup(symbol)
}

// Transition is one flattened (state, symbol, instruction) triple.
type Transition struct {
	State       string
	Symbol      string
	Instruction Instruction
}

// Transitions flattens the table in declaration order, expanding symbol
// sets. The returned slice is fresh on every call.
func (t *Table) Transitions() []Transition {
	var out []Transition
	for _, state := range t.order {
		e := t.entries[state]
		for _, c := range e.Cells {
			for _, sym := range c.Symbols {
				out = append(out, Transition{State: state, Symbol: sym, Instruction: c.Instruction})
			}
		}
	}
	return out
}
