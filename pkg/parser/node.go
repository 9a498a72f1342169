package parser

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// resolve follows document wrappers and aliases down to the value node.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case 0:
			// yaml.Unmarshal leaves the node zero for empty input.
			return nil
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	n = resolve(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// pair is one key/value entry of a mapping node.
type pair struct {
	Key   string
	KNode *yaml.Node
	Value *yaml.Node
}

// pairs returns the entries of a mapping node in document order.
func pairs(n *yaml.Node) []pair {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolve(n.Content[i])
		key := ""
		if k != nil {
			key = k.Value
		}
		out = append(out, pair{Key: key, KNode: k, Value: resolve(n.Content[i+1])})
	}
	return out
}

// checkKeys rejects any mapping under n that repeats a key. Aliases are not
// followed, so a shared anchor is checked once where it is defined.
func checkKeys(n *yaml.Node) error {
	if n == nil || n.Kind == yaml.AliasNode {
		return nil
	}
	if n.Kind == yaml.MappingNode {
		seen := make(map[string]*yaml.Node, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := resolve(n.Content[i])
			if k == nil || k.ShortTag() == "!!merge" {
				continue
			}
			if first, dup := seen[k.Value]; dup {
				return domain.NewSpecError(domain.ReasonDuplicateKey, domain.Details{
					ProblemValue: k.Value,
					Info:         fmt.Sprintf("It was first defined on line %d", first.Line),
					Line:         k.Line,
				})
			}
			seen[k.Value] = k
		}
	}
	for _, c := range n.Content {
		if err := checkKeys(c); err != nil {
			return err
		}
	}
	return nil
}

// lookup returns the value of key in a mapping node. Parse has already
// rejected repeated keys, so there is at most one occurrence.
func lookup(n *yaml.Node, key string) (*yaml.Node, bool) {
	for _, p := range pairs(n) {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// typeName describes the kind of a node the way error messages refer to it.
func typeName(n *yaml.Node) string {
	n = resolve(n)
	if n == nil {
		return "null"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	}
	switch n.ShortTag() {
	case "!!null":
		return "null"
	case "!!bool":
		return "boolean"
	case "!!int", "!!float":
		return "number"
	}
	return "string"
}

func line(n *yaml.Node) int {
	if n == nil {
		return 0
	}
	return n.Line
}
