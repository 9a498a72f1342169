package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	visTitle = "title"
	visInfo  = "info"
	visColor = "color"
)

// parseVis validates the visualization table against the final transition table.
func parseVis(n *yaml.Node, table *domain.Table, tapes int) (*domain.Vis, error) {
	vis := domain.NewVis(tapes)
	if isNull(n) {
		return vis, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, domain.NewSpecError(domain.ReasonVisRuleType, domain.Details{
			ProblemValue: typeName(n),
			Line:         n.Line,
		})
	}
	for _, st := range pairs(n) {
		if !table.Has(st.Key) {
			return nil, domain.NewSpecError(domain.ReasonVisState, domain.Details{
				ProblemValue: st.Key,
				Line:         line(st.KNode),
			})
		}
		if isNull(st.Value) {
			continue
		}
		if st.Value.Kind != yaml.MappingNode {
			return nil, domain.NewSpecError(domain.ReasonVisRuleType, domain.Details{
				ProblemValue: typeName(st.Value),
				State:        st.Key,
				Line:         st.Value.Line,
			})
		}
		for _, kv := range pairs(st.Value) {
			switch kv.Key {
			case visTitle:
				vis.Titles[st.Key] = scalarText(kv.Value)
				continue
			case visInfo:
				vis.Info[st.Key] = scalarText(kv.Value)
				continue
			case visColor:
				vis.Colors[st.Key] = scalarText(kv.Value)
				continue
			}
			targets, serr := visTapes(kv.Key, st.Key, tapes)
			if serr != nil {
				annotateLine(serr, kv.KNode)
				return nil, serr
			}
			rule, err := parseVisRule(kv.Value, st.Key, kv.Key)
			if err != nil {
				return nil, err
			}
			for _, t := range targets {
				vis.Tapes[t][st.Key] = rule
			}
		}
	}
	return vis, nil
}

func visTapes(key, state string, tapes int) ([]int, *domain.SpecError) {
	var out []int
	for _, part := range strings.Split(key, ",") {
		t, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, domain.NewSpecError(domain.ReasonVisTapeList, domain.Details{ProblemValue: key, State: state})
		}
		t--
		if t < 0 {
			return nil, domain.NewSpecError(domain.ReasonTapeNumberZero, domain.Details{ProblemValue: key, State: state})
		}
		if t >= tapes {
			return nil, domain.NewSpecError(domain.ReasonTapeNumberTooBig, domain.Details{
				ProblemValue: key,
				State:        state,
				Info:         fmt.Sprintf("Your machine has only %d tapes", tapes),
			})
		}
		out = append(out, t)
	}
	return out, nil
}

func parseVisRule(n *yaml.Node, state, tapes string) (domain.VisRule, error) {
	var rule domain.VisRule
	if isNull(n) || n.Kind != yaml.MappingNode {
		return rule, domain.NewSpecError(domain.ReasonVisRuleType, domain.Details{
			ProblemValue: typeName(n),
			State:        state,
			Symbol:       tapes,
			Line:         line(n),
		})
	}

	raw := make(map[string]any)
	for _, kv := range pairs(n) {
		if kv.Key == "skip" && !isNull(kv.Value) && (kv.Value.Kind != yaml.ScalarNode || kv.Value.ShortTag() != "!!int") {
			return rule, domain.NewSpecError(domain.ReasonVisSkip, domain.Details{
				ProblemValue: scalarText(kv.Value),
				State:        state,
				Line:         kv.Value.Line,
			})
		}
		if kv.Value != nil && kv.Value.Kind == yaml.ScalarNode && !isNull(kv.Value) {
			raw[kv.Key] = kv.Value.Value
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rule,
	})
	if err != nil {
		return rule, err
	}
	if err := dec.Decode(raw); err != nil {
		return rule, domain.NewSpecError(domain.ReasonVisRuleType, domain.Details{
			State:  state,
			Symbol: tapes,
			Info:   err.Error(),
			Line:   n.Line,
		})
	}

	checks := []struct {
		reason, value string
		allowed       []string
	}{
		{domain.ReasonVisMode, rule.Mode, domain.VisModes},
		{domain.ReasonVisDir, rule.Dir, domain.VisDirs},
		{domain.ReasonVisColor, rule.Color, domain.VisColors},
	}
	for _, c := range checks {
		if !slices.Contains(c.allowed, c.value) {
			return rule, domain.NewSpecError(c.reason, domain.Details{
				ProblemValue: c.value,
				State:        state,
				Symbol:       tapes,
				Info:         "Possible values are: " + strings.Join(c.allowed, ", "),
				Line:         n.Line,
			})
		}
	}
	return rule, nil
}

func scalarText(n *yaml.Node) string {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}
