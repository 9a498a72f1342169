package domain

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnknownTransform is returned when a transformation kind is not registered.
var ErrUnknownTransform = errors.New("unknown transformation")

// ErrCacheMiss is returned by transform caches when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// Reason codes carried by SpecError. They describe the class of problem and
// never embed runtime values; those go into Details.
const (
	ReasonEmptyDocument        = "The document is empty"
	ReasonNotMapping           = "The document must be a mapping"
	ReasonMissingBlank         = "No blank symbol was specified"
	ReasonBlankLength          = "The blank symbol must be a string of length 1"
	ReasonTapesNotInteger      = "The number of tapes must be an integer"
	ReasonTooManyTapes         = "Why would you need more than 9 tapes?"
	ReasonNegativeTapes        = "The number of tapes cannot be negative"
	ReasonSingleTape           = "This Turing machine has only 1 tape"
	ReasonMissingStartState    = "No start state was specified"
	ReasonMissingTable         = "Missing transition table"
	ReasonTableType            = "Transition table has an invalid type"
	ReasonStateEntryType       = "State entry has an invalid type"
	ReasonSynonymsType         = "Synonyms table has an invalid type"
	ReasonInstructionType      = "Invalid instruction type"
	ReasonMultiTapeString      = "Multitape TM only supports string instructions"
	ReasonUnrecognizedString   = "Unrecognized string"
	ReasonMissingInstruction   = "Missing instruction"
	ReasonUnrecognizedKey      = "Unrecognized key"
	ReasonConflictingMoves     = "Conflicting tape movements"
	ReasonMissingMove          = "Missing movement direction"
	ReasonWriteLength          = "Write requires a string of length 1"
	ReasonTapeNumberZero       = "Tape numbers start from 1"
	ReasonTapeNumberTooBig     = "Tape number is bigger than the number of tapes"
	ReasonDuplicateTape        = "Two instructions for the same tape"
	ReasonDuplicateKey         = "The same key appears twice in one mapping"
	ReasonUndeclaredState      = "Undeclared state"
	ReasonVisState             = "Visualization state must be on the state table"
	ReasonVisTapeList          = "Visualization table requires comma-separated tape numbers"
	ReasonVisRuleType          = "Visualization rule must be a mapping"
	ReasonVisSkip              = `"skip" must be an integer`
	ReasonVisMode              = "mode has incorrect value"
	ReasonVisDir               = "dir has incorrect value"
	ReasonVisColor             = "color has incorrect value"
	ReasonInputType            = "Input must be a string or a list of strings"
	ReasonStartStateUndeclared = "The start state has to be declared in the transition table"

	ReasonTransformTapes    = "This transformation requires a single-tape machine"
	ReasonTransformAlphabet = "It seems like you have too few symbols to apply Shannon's second theorem"
	ReasonTransformConflict = "The generated machine has two different instructions for the same state and symbol"
	ReasonStateNotWritable  = "This state name cannot be written in the multi-tape instruction grammar"
)

// Details gives the context of a SpecError. Empty fields are omitted when
// the error is rendered.
type Details struct {
	ProblemValue string `json:"problem_value,omitempty"`
	State        string `json:"state,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
	Synonym      string `json:"synonym,omitempty"`
	Info         string `json:"info,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`
	// Line is the 1-based line of the offending document node, 0 if unknown.
	Line int `json:"line,omitempty"`
}

// SpecError is returned for documents that are well-formed but do not
// describe a valid machine, and for failed transformation preconditions.
type SpecError struct {
	Reason  string  `json:"reason"`
	Details Details `json:"details"`
}

// NewSpecError creates a SpecError with the given reason and details.
func NewSpecError(reason string, details Details) *SpecError {
	return &SpecError{Reason: reason, Details: details}
}

func (e *SpecError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Reason)
	if e.Details.ProblemValue != "" {
		sb.WriteString(" ")
		sb.WriteString(quote(e.Details.ProblemValue))
	}
	sb.WriteString(e.Location())

	sentences := []string{sb.String()}
	for _, s := range []string{e.Details.Info, e.Details.Suggestion} {
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	for i, s := range sentences {
		if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") {
			sentences[i] = s + "."
		}
	}
	return strings.Join(sentences, " ")
}

// Location describes where the problem was found, or "" if no location is known.
func (e *SpecError) Location() string {
	d := e.Details
	var loc string
	switch {
	case d.State != "" && d.Symbol != "":
		loc = " in the transition from state " + quote(d.State) + " and symbol " + quote(d.Symbol)
	case d.State != "":
		loc = " for state " + quote(d.State)
	case d.Synonym != "":
		loc = " in the definition of synonym " + quote(d.Synonym)
	}
	if d.Line > 0 && loc != "" {
		loc += " (line " + strconv.Itoa(d.Line) + ")"
	}
	return loc
}

// AsSpecError reports whether err wraps a SpecError and returns it.
func AsSpecError(err error) (*SpecError, bool) {
	var se *SpecError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func quote(s string) string {
	return "`" + s + "`"
}
