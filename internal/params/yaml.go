package params

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping into the Set, keeping document order. A scalar is a
// single value, a sequence holds several values and a mapping is a nested Set. A null
// registers the name without values.
func (s *Set) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	*s = Set{index: make(map[string]int)}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if !ValidName(key.Value) {
			return fmt.Errorf("line %d: invalid parameter name %q", key.Line, key.Value)
		}
		values, err := yamlValues(val)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", key.Value, err)
		}
		s.Add(key.Value, values...)
	}
	return nil
}

func yamlValues(node *yaml.Node) ([]any, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil, nil
		}
		return []any{node.Value}, nil
	case yaml.MappingNode:
		child := New()
		if err := child.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return []any{child}, nil
	case yaml.SequenceNode:
		values := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.SequenceNode {
				return nil, fmt.Errorf("line %d: nested sequences are not supported", item.Line)
			}
			v, err := yamlValues(item)
			if err != nil {
				return nil, err
			}
			values = append(values, v...)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node", node.Line)
	}
}

// MarshalYAML encodes the Set as a mapping in insertion order.
func (s *Set) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range s.entriesOrNil() {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.name})
		switch len(e.values) {
		case 0:
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"})
		case 1:
			v, err := yamlValue(e.values[0])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, v)
		default:
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, value := range e.values {
				v, err := yamlValue(value)
				if err != nil {
					return nil, err
				}
				seq.Content = append(seq.Content, v)
			}
			node.Content = append(node.Content, seq)
		}
	}
	return node, nil
}

func yamlValue(v any) (*yaml.Node, error) {
	if sub, ok := v.(*Set); ok {
		out, err := sub.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return out.(*yaml.Node), nil
	}
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: formatValue(v)}
	if _, ok := v.(string); ok {
		n.Tag = "!!str"
	}
	return n, nil
}
