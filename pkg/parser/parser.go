package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

const (
	keyBlank      = "blank"
	keyTapes      = "tapes"
	keyStartState = "start state"
	keyTable      = "table"
	keySynonyms   = "synonyms"
	keyVis        = "vis"
	keyInput      = "input"
)

// ParseBytes decodes YAML text and parses it with Parse. YAML syntax errors
// are returned as produced by yaml.v3.
func ParseBytes(data []byte, allowMultiTape bool) (*domain.Spec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return Parse(&doc, allowMultiTape)
}

// IsSyntaxError reports whether err was returned by ParseBytes because the
// text is not well-formed YAML.
func IsSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := domain.AsSpecError(err); ok {
		return false
	}
	return strings.HasPrefix(err.Error(), "yaml: ")
}

// Parse validates a decoded document and builds the machine it describes.
// Parsing stops at the first problem, which is returned as a *domain.SpecError.
func Parse(doc *yaml.Node, allowMultiTape bool) (*domain.Spec, error) {
	root := resolve(doc)
	if isNull(root) {
		return nil, domain.NewSpecError(domain.ReasonEmptyDocument, domain.Details{
			Info: "Every Turing machine requires a `blank` tape symbol, a `start state`, and a transition `table`",
		})
	}
	if root.Kind != yaml.MappingNode {
		return nil, domain.NewSpecError(domain.ReasonNotMapping, domain.Details{
			ProblemValue: typeName(root),
			Line:         root.Line,
		})
	}
	if err := checkKeys(root); err != nil {
		return nil, err
	}

	spec := &domain.Spec{}

	blank, err := parseBlank(root)
	if err != nil {
		return nil, err
	}
	spec.Blank = blank

	if spec.Tapes, err = parseTapes(root, allowMultiTape); err != nil {
		return nil, err
	}

	start, ok := lookup(root, keyStartState)
	if !ok || isNull(start) {
		return nil, domain.NewSpecError(domain.ReasonMissingStartState, domain.Details{
			Suggestion: "Assign one using `start state: `",
		})
	}
	spec.StartState = start.Value

	table, ok := lookup(root, keyTable)
	if !ok || isNull(table) {
		return nil, domain.NewSpecError(domain.ReasonMissingTable, domain.Details{
			Suggestion: "Specify one using `table:`",
		})
	}
	if table.Kind != yaml.MappingNode {
		return nil, domain.NewSpecError(domain.ReasonTableType, domain.Details{
			ProblemValue: typeName(table),
			Info:         "The transition table should be a nested mapping from states to symbols to instructions",
			Line:         table.Line,
		})
	}

	p := &instructionParser{
		tapes:    spec.Tapes,
		blank:    spec.Blank,
		declared: make(map[string]bool),
	}
	for _, kv := range pairs(table) {
		p.declared[kv.Key] = true
	}

	synonyms, _ := lookup(root, keySynonyms)
	if spec.Synonyms, err = p.parseSynonyms(synonyms); err != nil {
		return nil, err
	}
	p.synonyms = spec.Synonyms

	if spec.Table, err = p.parseTable(table); err != nil {
		return nil, err
	}

	vis, _ := lookup(root, keyVis)
	if spec.Vis, err = parseVis(vis, spec.Table, spec.TapeCount()); err != nil {
		return nil, err
	}

	input, _ := lookup(root, keyInput)
	if spec.Input, err = parseInput(input); err != nil {
		return nil, err
	}

	if !spec.Table.Has(spec.StartState) {
		return nil, domain.NewSpecError(domain.ReasonStartStateUndeclared, domain.Details{
			ProblemValue: spec.StartState,
			Line:         start.Line,
		})
	}
	return spec, nil
}

func parseBlank(root *yaml.Node) (string, error) {
	details := domain.Details{Suggestion: "Examples: `blank: ' '`, `blank: '0'`"}
	n, ok := lookup(root, keyBlank)
	if !ok || isNull(n) {
		return "", domain.NewSpecError(domain.ReasonMissingBlank, details)
	}
	if n.Kind != yaml.ScalarNode || utf8.RuneCountInString(n.Value) != 1 {
		details.Line = n.Line
		return "", domain.NewSpecError(domain.ReasonBlankLength, details)
	}
	return n.Value, nil
}

// parseTapes returns the declared tape count, or 0 for a classic
// single-tape machine.
func parseTapes(root *yaml.Node, allowMultiTape bool) (int, error) {
	n, ok := lookup(root, keyTapes)
	if !ok {
		return 0, nil
	}
	if !allowMultiTape {
		if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!int" && n.Value == "1" {
			return 0, nil
		}
		return 0, domain.NewSpecError(domain.ReasonSingleTape, domain.Details{Line: line(n)})
	}
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		return 0, domain.NewSpecError(domain.ReasonTapesNotInteger, domain.Details{
			ProblemValue: typeName(n),
			Line:         line(n),
		})
	}
	count, err := strconv.Atoi(n.Value)
	if err != nil {
		var v int
		if derr := n.Decode(&v); derr != nil {
			return 0, domain.NewSpecError(domain.ReasonTapesNotInteger, domain.Details{
				ProblemValue: n.Value,
				Line:         n.Line,
			})
		}
		count = v
	}
	switch {
	case count > domain.MaxTapes:
		return 0, domain.NewSpecError(domain.ReasonTooManyTapes, domain.Details{Line: n.Line})
	case count < 0:
		return 0, domain.NewSpecError(domain.ReasonNegativeTapes, domain.Details{
			ProblemValue: n.Value,
			Line:         n.Line,
		})
	}
	return count, nil
}

func parseInput(n *yaml.Node) ([]string, error) {
	if isNull(n) {
		return nil, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if isNull(item) {
				out = append(out, "")
				continue
			}
			if item.Kind != yaml.ScalarNode {
				return nil, domain.NewSpecError(domain.ReasonInputType, domain.Details{
					ProblemValue: typeName(item),
					Line:         item.Line,
				})
			}
			out = append(out, item.Value)
		}
		return out, nil
	}
	return nil, domain.NewSpecError(domain.ReasonInputType, domain.Details{
		ProblemValue: typeName(n),
		Line:         n.Line,
	})
}
