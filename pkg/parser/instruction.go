package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// blankPlaceholder stands for the blank symbol in the write position of a
// multi-tape clause.
const blankPlaceholder = "_"

const (
	moveLeft  = "L"
	moveRight = "R"
	keyWrite  = "write"
)

type instructionParser struct {
	tapes    int
	blank    string
	synonyms map[string]domain.Instruction
	// declared holds every state key of the document's table.
	declared map[string]bool
}

func (p *instructionParser) parseSynonyms(n *yaml.Node) (map[string]domain.Instruction, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, domain.NewSpecError(domain.ReasonSynonymsType, domain.Details{
			ProblemValue: typeName(n),
			Info:         "Synonyms should be a mapping from string abbreviations to instructions (e.g. `accept: {R: accept}`)",
			Line:         n.Line,
		})
	}
	out := make(map[string]domain.Instruction)
	for _, kv := range pairs(n) {
		ins, err := p.parseInstruction(kv.Value)
		if err != nil {
			if se, ok := domain.AsSpecError(err); ok {
				se.Details.Synonym = kv.Key
				if se.Reason == domain.ReasonUnrecognizedString {
					se.Details.Info = "Note that a synonym cannot be defined using another synonym"
				}
				annotateLine(se, kv.Value, kv.KNode)
			}
			return nil, err
		}
		out[kv.Key] = ins
	}
	return out, nil
}

func (p *instructionParser) parseTable(n *yaml.Node) (*domain.Table, error) {
	table := domain.NewTable()
	for _, st := range pairs(n) {
		if isNull(st.Value) {
			table.DeclareHalting(st.Key)
			continue
		}
		if st.Value.Kind != yaml.MappingNode {
			return nil, domain.NewSpecError(domain.ReasonStateEntryType, domain.Details{
				ProblemValue: typeName(st.Value),
				State:        st.Key,
				Info:         "Each state should map symbols to instructions. An empty map signifies a halting state",
				Line:         st.Value.Line,
			})
		}
		table.Declare(st.Key)
		for _, cell := range pairs(st.Value) {
			ins, err := p.parseInstruction(cell.Value)
			if err != nil {
				if se, ok := domain.AsSpecError(err); ok {
					se.Details.State = st.Key
					se.Details.Symbol = cell.Key
					annotateLine(se, cell.Value, cell.KNode)
				}
				return nil, err
			}
			table.Add(st.Key, cell.Key, ins)
		}
	}
	return table, nil
}

func annotateLine(se *domain.SpecError, nodes ...*yaml.Node) {
	if se.Details.Line > 0 {
		return
	}
	for _, n := range nodes {
		if l := line(n); l > 0 {
			se.Details.Line = l
			return
		}
	}
}

func (p *instructionParser) parseInstruction(n *yaml.Node) (domain.Instruction, error) {
	ins, err := p.parseInstructionValue(n)
	if err != nil {
		return domain.Instruction{}, err
	}
	return ins, p.checkTarget(ins)
}

func (p *instructionParser) checkTarget(ins domain.Instruction) error {
	next, ok := ins.Next()
	if ok && !p.declared[next] {
		return domain.NewSpecError(domain.ReasonUndeclaredState, domain.Details{
			ProblemValue: next,
			Suggestion:   "Make sure to list all states in the transition table and define their transitions (if any)",
		})
	}
	return nil
}

func (p *instructionParser) parseInstructionValue(n *yaml.Node) (domain.Instruction, error) {
	if isNull(n) {
		if p.tapes > 0 {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonMultiTapeString, domain.Details{})
		}
		return domain.Instruction{}, domain.NewSpecError(domain.ReasonMissingInstruction, domain.Details{})
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			return p.parseString(n.Value)
		}
	case yaml.MappingNode:
		if p.tapes > 0 {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonMultiTapeString, domain.Details{Line: n.Line})
		}
		return p.parseObject(n)
	}
	return domain.Instruction{}, domain.NewSpecError(domain.ReasonInstructionType, domain.Details{
		ProblemValue: typeName(n),
		Info: "An instruction can be a string (a direction `L`/`R` or a synonym)" +
			" or a mapping (examples: `{R: accept}`, `{write: ' ', L: start}`)",
		Line: n.Line,
	})
}

func (p *instructionParser) parseString(val string) (domain.Instruction, error) {
	if p.tapes > 0 {
		if ins, ok := p.synonyms[val]; ok {
			return ins, nil
		}
		return parseClauses(val, p.tapes, p.blank)
	}
	// L and R are matched before synonyms so a synonym cannot redefine them.
	switch val {
	case moveLeft:
		return domain.NewInstruction(nil, []domain.Direction{domain.Left}, "", false), nil
	case moveRight:
		return domain.NewInstruction(nil, []domain.Direction{domain.Right}, "", false), nil
	}
	if ins, ok := p.synonyms[val]; ok {
		return ins, nil
	}
	return domain.Instruction{}, domain.NewSpecError(domain.ReasonUnrecognizedString, domain.Details{
		ProblemValue: val,
		Info:         "An instruction can be a string if it's a synonym or a direction",
	})
}

func (p *instructionParser) parseObject(n *yaml.Node) (domain.Instruction, error) {
	kvs := pairs(n)
	for _, kv := range kvs {
		if kv.Key != moveLeft && kv.Key != moveRight && kv.Key != keyWrite {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonUnrecognizedKey, domain.Details{
				ProblemValue: kv.Key,
				Info:         "An instruction always has a tape movement `L` or `R`, and optionally can `write` a symbol",
				Line:         line(kv.KNode),
			})
		}
	}

	left, hasLeft := lookup(n, moveLeft)
	right, hasRight := lookup(n, moveRight)
	var (
		dir    domain.Direction
		target *yaml.Node
	)
	switch {
	case hasLeft && hasRight:
		return domain.Instruction{}, domain.NewSpecError(domain.ReasonConflictingMoves, domain.Details{
			Info: "Each instruction needs exactly one movement direction, but two were found",
			Line: n.Line,
		})
	case hasLeft:
		dir, target = domain.Left, left
	case hasRight:
		dir, target = domain.Right, right
	default:
		return domain.Instruction{}, domain.NewSpecError(domain.ReasonMissingMove, domain.Details{Line: n.Line})
	}

	next, hasNext := "", false
	if !isNull(target) {
		if target.Kind != yaml.ScalarNode {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonInstructionType, domain.Details{
				ProblemValue: typeName(target),
				Info:         "The state after a movement must be a state name",
				Line:         target.Line,
			})
		}
		next, hasNext = target.Value, true
	}

	var write []string
	if w, ok := lookup(n, keyWrite); ok {
		if isNull(w) || w.Kind != yaml.ScalarNode || utf8.RuneCountInString(w.Value) != 1 {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonWriteLength, domain.Details{Line: line(w)})
		}
		write = []string{w.Value}
	}
	return domain.NewInstruction(write, []domain.Direction{dir}, next, hasNext), nil
}

// ParseInstruction parses a multi-tape instruction string for a machine with
// the given number of tapes. It accepts what FormatInstruction produces.
func ParseInstruction(val string, tapes int, blank string) (domain.Instruction, error) {
	return parseClauses(val, tapes, blank)
}

// parseClauses reads an optional leading state name followed by
// `<tape><direction?><write?>` clauses.
func parseClauses(val string, tapes int, blank string) (domain.Instruction, error) {
	fields := strings.Fields(val)
	next, hasNext := "", false
	if len(fields) > 0 && !startsWithDigit(fields[0]) {
		next, hasNext = fields[0], true
		fields = fields[1:]
	}

	move := make([]domain.Direction, tapes)
	for i := range move {
		move[i] = domain.Stay
	}
	write := make([]string, tapes)
	seen := make(map[int]bool)

	for i, clause := range fields {
		rest := strings.Join(fields[i:], " ")
		tape, dir, sym, ok := splitClause(clause)
		if !ok {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonUnrecognizedString, domain.Details{
				ProblemValue: rest,
				Info: "An instruction can be a synonym or a state with instructions for tapes." +
					" Examples: `state2 1R 2R0`, `2Lx 3R`",
			})
		}
		if tape == 0 {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonTapeNumberZero, domain.Details{ProblemValue: rest})
		}
		if tape > tapes {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonTapeNumberTooBig, domain.Details{
				ProblemValue: rest,
				Info:         fmt.Sprintf("Your machine has only %d tapes", tapes),
			})
		}
		tape--
		if seen[tape] {
			return domain.Instruction{}, domain.NewSpecError(domain.ReasonDuplicateTape, domain.Details{
				ProblemValue: rest,
				Info:         fmt.Sprintf("Tape %d appears twice", tape+1),
			})
		}
		seen[tape] = true
		if dir != 0 {
			move[tape] = dir
		}
		if sym == blankPlaceholder {
			sym = blank
		}
		write[tape] = sym
	}
	return domain.NewInstruction(write, move, next, hasNext), nil
}

// WritableState reports whether state can lead a multi-tape instruction
// string and be read back as the same state.
func WritableState(state string) bool {
	return state != "" && !startsWithDigit(state) && !strings.ContainsFunc(state, unicode.IsSpace)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// splitClause breaks a clause such as "2Lx" into its tape number, optional
// direction and optional write symbol.
func splitClause(clause string) (tape int, dir domain.Direction, sym string, ok bool) {
	if !startsWithDigit(clause) {
		return 0, 0, "", false
	}
	tape = int(clause[0] - '0')
	rest := clause[1:]
	if rest != "" {
		if d := domain.Direction(rest[0]); d.Valid() {
			dir = d
			rest = rest[1:]
		}
	}
	if utf8.RuneCountInString(rest) > 1 {
		return 0, 0, "", false
	}
	return tape, dir, rest, true
}

// FormatInstruction renders an instruction in the multi-tape string grammar.
// Every tape gets an explicit direction; writes of the blank use the
// underscore placeholder. The result reads back as ins only when the next
// state, if any, satisfies WritableState.
func FormatInstruction(ins domain.Instruction, blank string) string {
	var parts []string
	if next, ok := ins.Next(); ok {
		parts = append(parts, next)
	}
	for n := 0; n < ins.Tapes(); n++ {
		clause := fmt.Sprintf("%d%s", n+1, ins.Move(n))
		if w, ok := ins.Write(n); ok {
			if w == blank {
				w = blankPlaceholder
			}
			clause += w
		}
		parts = append(parts, clause)
	}
	return strings.Join(parts, " ")
}
