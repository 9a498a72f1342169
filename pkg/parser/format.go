package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format serializes a spec back into the document shape Parse accepts.
// States and symbol keys keep their declaration order. Table cells are
// written with their resolved instructions, so synonyms are kept only as
// definitions.
func Format(spec *domain.Spec) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		root.Content = append(root.Content, str(key), value)
	}

	add(keyBlank, str(spec.Blank))
	if spec.Tapes > 0 {
		add(keyTapes, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(spec.Tapes)})
	}
	add(keyStartState, str(spec.StartState))

	if len(spec.Input) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, in := range spec.Input {
			seq.Content = append(seq.Content, str(in))
		}
		add(keyInput, seq)
	}

	f := formatter{spec: spec}
	if len(spec.Synonyms) > 0 {
		names := make([]string, 0, len(spec.Synonyms))
		for name := range spec.Synonyms {
			names = append(names, name)
		}
		sort.Strings(names)
		syn := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range names {
			v, err := f.instruction(spec.Synonyms[name])
			if err != nil {
				return nil, fmt.Errorf("synonym %q: %w", name, err)
			}
			syn.Content = append(syn.Content, str(name), v)
		}
		add(keySynonyms, syn)
	}

	table := &yaml.Node{Kind: yaml.MappingNode}
	for _, state := range spec.Table.States() {
		entry, _ := spec.Table.Entry(state)
		if entry.Halting {
			table.Content = append(table.Content, str(state), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"})
			continue
		}
		cells := &yaml.Node{Kind: yaml.MappingNode, Style: flowIfEmpty(len(entry.Cells))}
		for _, c := range entry.Cells {
			v, err := f.instruction(c.Instruction)
			if err != nil {
				return nil, fmt.Errorf("state %q, symbol %q: %w", state, c.Key, err)
			}
			cells.Content = append(cells.Content, str(c.Key), v)
		}
		table.Content = append(table.Content, str(state), cells)
	}
	add(keyTable, table)

	if vis := formatVis(spec); vis != nil {
		add(keyVis, vis)
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

type formatter struct {
	spec *domain.Spec
}

func (f formatter) instruction(ins domain.Instruction) (*yaml.Node, error) {
	if f.spec.MultiTape() {
		if next, ok := ins.Next(); ok && !WritableState(next) {
			return nil, domain.NewSpecError(domain.ReasonStateNotWritable, domain.Details{
				ProblemValue: next,
				Info:         "A target state must be non-empty, must not start with a digit and must not contain spaces",
			})
		}
		text := FormatInstruction(ins, f.spec.Blank)
		if syn, ok := f.spec.Synonyms[text]; ok && !syn.Equal(ins) {
			return nil, domain.NewSpecError(domain.ReasonStateNotWritable, domain.Details{
				ProblemValue: text,
				Info:         "The instruction would read back as the synonym of the same name",
			})
		}
		return str(text), nil
	}
	if ins.Tapes() != 1 {
		return nil, fmt.Errorf("single-tape instruction drives %d tapes", ins.Tapes())
	}
	key := ""
	switch ins.Move(0) {
	case domain.Left:
		key = moveLeft
	case domain.Right:
		key = moveRight
	default:
		return nil, fmt.Errorf("movement %s cannot be expressed on a single-tape machine", ins.Move(0))
	}

	next, hasNext := ins.Next()
	w, hasWrite := ins.Write(0)
	if !hasWrite && !hasNext {
		return str(key), nil
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	if hasWrite {
		m.Content = append(m.Content, str(keyWrite), str(w))
	}
	target := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	if hasNext {
		target = str(next)
	}
	m.Content = append(m.Content, str(key), target)
	return m, nil
}

func formatVis(spec *domain.Spec) *yaml.Node {
	v := spec.Vis
	if v == nil {
		return nil
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, state := range spec.Table.States() {
		rules := &yaml.Node{Kind: yaml.MappingNode}
		if t, ok := v.Titles[state]; ok {
			rules.Content = append(rules.Content, str(visTitle), str(t))
		}
		if t, ok := v.Info[state]; ok {
			rules.Content = append(rules.Content, str(visInfo), str(t))
		}
		if t, ok := v.Colors[state]; ok {
			rules.Content = append(rules.Content, str(visColor), str(t))
		}
		for n, tape := range v.Tapes {
			r, ok := tape[state]
			if !ok {
				continue
			}
			rule := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
			rule.Content = append(rule.Content,
				str("mode"), str(r.Mode),
				str("dir"), str(r.Dir),
				str("color"), str(r.Color),
				str("chars"), str(r.Chars),
			)
			if r.Skip != 0 {
				rule.Content = append(rule.Content, str("skip"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(r.Skip)})
			}
			rules.Content = append(rules.Content, str(strconv.Itoa(n+1)), rule)
		}
		if len(rules.Content) > 0 {
			root.Content = append(root.Content, str(state), rules)
		}
	}
	if len(root.Content) == 0 {
		return nil
	}
	return root
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func flowIfEmpty(n int) yaml.Style {
	if n == 0 {
		return yaml.FlowStyle
	}
	return 0
}
