// Package machine implements the deterministic step function of a Turing
// machine over one or more tapes.
package machine

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Tape is the storage a machine reads and writes.
type Tape interface {
	Read() string
	Write(symbol string)
	HeadLeft()
	HeadRight()
}

// TransitionFunc returns the instruction for a state and the symbols under
// every head, concatenated in tape order.
type TransitionFunc func(state, symbols string) (domain.Instruction, bool)

// Observer is notified after every successful step.
type Observer func(from, to string)

// Option configures a Machine.
type Option func(*Machine)

// WithObserver registers a callback invoked after each successful step.
func WithObserver(fn Observer) Option {
	return func(m *Machine) {
		m.observers = append(m.observers, fn)
	}
}

// Machine holds the current state and the tapes. It is not safe for
// concurrent use.
type Machine struct {
	transition TransitionFunc
	state      string
	tapes      []Tape
	observers  []Observer
}

// New creates a machine. It panics if no tape is given.
func New(fn TransitionFunc, start string, tapes []Tape, opts ...Option) *Machine {
	if len(tapes) == 0 {
		panic("machine: at least one tape is required")
	}
	m := &Machine{
		transition: fn,
		state:      start,
		tapes:      tapes,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FromSpec builds a machine for spec, with one tape per declared tape
// initialised from the spec's input.
func FromSpec(spec *domain.Spec, opts ...Option) *Machine {
	tapes := make([]Tape, spec.TapeCount())
	for i := range tapes {
		tapes[i] = tape.New(spec.Blank, spec.InputFor(i))
	}
	return New(TableFunc(spec.Table), spec.StartState, tapes, opts...)
}

// TableFunc adapts a transition table to a TransitionFunc.
func TableFunc(t *domain.Table) TransitionFunc {
	return func(state, symbols string) (domain.Instruction, bool) {
		return t.Lookup(state, symbols)
	}
}

// State returns the current state.
func (m *Machine) State() string { return m.state }

// SetState moves the machine to state without stepping.
func (m *Machine) SetState(state string) { m.state = state }

// Tapes returns the machine's tapes in order.
func (m *Machine) Tapes() []Tape { return m.tapes }

// Symbols returns the symbols under every head, concatenated in tape order.
func (m *Machine) Symbols() string {
	if len(m.tapes) == 1 {
		return m.tapes[0].Read()
	}
	var sb strings.Builder
	for _, t := range m.tapes {
		sb.WriteString(t.Read())
	}
	return sb.String()
}

func (m *Machine) lookup() (domain.Instruction, bool) {
	return m.transition(m.state, m.Symbols())
}

// IsHalted reports whether no transition exists for the current state and
// symbols. It is evaluated on every call.
func (m *Machine) IsHalted() bool {
	_, ok := m.lookup()
	return !ok
}

// Step applies one transition. It returns false, leaving the machine
// unchanged, when the machine is halted.
func (m *Machine) Step() bool {
	ins, ok := m.lookup()
	if !ok {
		return false
	}
	if ins.Tapes() != len(m.tapes) {
		panic(fmt.Sprintf("machine: instruction drives %d tapes, machine has %d", ins.Tapes(), len(m.tapes)))
	}
	for i, t := range m.tapes {
		if w, ok := ins.Write(i); ok {
			t.Write(w)
		}
		switch d := ins.Move(i); d {
		case domain.Left:
			t.HeadLeft()
		case domain.Right:
			t.HeadRight()
		case domain.Stay:
		default:
			panic(fmt.Sprintf("machine: invalid direction %q", d.String()))
		}
	}
	from := m.state
	m.state = ins.NextOr(from)
	for _, fn := range m.observers {
		fn(from, m.state)
	}
	return true
}
