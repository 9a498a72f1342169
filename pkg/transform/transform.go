package transform

import (
	"fmt"
	"sort"

	"github.com/aretw0/turing/pkg/domain"
)

// Transformation kinds.
const (
	KindUniversal   = "universal"
	KindBinary      = "binary"
	KindBinaryBlank = "binary-blank"
)

// ParseFunc parses a machine document. parser.ParseBytes satisfies it.
type ParseFunc func(data []byte, allowMultiTape bool) (*domain.Spec, error)

// Result is a generated machine together with its annotated source.
type Result struct {
	Kind string
	Spec *domain.Spec
	// Source is the generated machine as a commented document, for reading.
	Source string
	// Codes maps every original symbol to its encoding.
	Codes map[string]string
	// StateCodes maps original states to their names in the generated
	// machine. The universal encoding lists every state; binary encodings
	// list only the states they had to rename, and leave it nil otherwise.
	StateCodes map[string]string
	// Width is the number of cells per encoded symbol for binary encodings.
	Width int
}

// Func rewrites spec into an equivalent machine.
type Func func(spec *domain.Spec, parse ParseFunc) (*Result, error)

var kinds = map[string]Func{
	KindUniversal:   Universal,
	KindBinary:      func(spec *domain.Spec, _ ParseFunc) (*Result, error) { return Binary(spec) },
	KindBinaryBlank: func(spec *domain.Spec, _ ParseFunc) (*Result, error) { return BinaryBlank(spec) },
}

// Kinds returns the registered transformation names, sorted.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns the transformation registered as kind.
func Get(kind string) (Func, error) {
	fn, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransform, kind)
	}
	return fn, nil
}

// Decode translates the contents of the generated machine's data tape back
// into the original alphabet.
func (r *Result) Decode(tape string) (string, error) {
	switch r.Kind {
	case KindUniversal:
		return decodeUniversal(tape, r.Codes)
	case KindBinary, KindBinaryBlank:
		return decodeBinary(tape, r.Codes, r.Width)
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownTransform, r.Kind)
}

func invert(codes map[string]string) map[string]string {
	inv := make(map[string]string, len(codes))
	for k, v := range codes {
		inv[v] = k
	}
	return inv
}
