package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"metatree/internal/diagnostic"
)

// SchemaFile is the top-level structure of a YAML schema file.
type SchemaFile struct {
	Version string `yaml:"version"`
	// MaxDepth bounds reconstruction recursion; zero keeps the default.
	MaxDepth int `yaml:"max_depth,omitempty"`
	// Aliases extend the engine's shortcut table.
	Aliases map[string]string `yaml:"aliases,omitempty"`
	Schemas NamedSchemas      `yaml:"schemas"`
}

// NamedSchemas is an ordered list of named schemas.
// Syntax errors inside entries are collected rather than failing the decode.
type NamedSchemas struct {
	List  []*Schema
	diags diagnostic.Diagnostics
}

// Lookup returns the schema with the given name.
func (n *NamedSchemas) Lookup(name string) (*Schema, bool) {
	for _, s := range n.List {
		if s.name == name {
			return s, true
		}
	}

	return nil, false
}

// Names returns the schema names in file order.
func (n *NamedSchemas) Names() []string {
	names := make([]string, len(n.List))
	for i, s := range n.List {
		names[i] = s.name
	}

	return names
}

// Diagnostics returns the errors collected while decoding.
func (n *NamedSchemas) Diagnostics() *diagnostic.Diagnostics {
	return &n.diags
}

// UnmarshalYAML implements custom YAML unmarshaling for NamedSchemas.
// Accepts a mapping of schema name to schema body.
func (n *NamedSchemas) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			name := node.Content[i].Value
			body := resolveAlias(node.Content[i+1])

			if _, dup := n.Lookup(name); dup {
				n.diags.AddError(diagnostic.CodeDuplicateSchema, "duplicate schema name", name, "")
				continue
			}

			s := NewNamed(name)

			if body.Kind != yaml.MappingNode && !isNull(body) {
				n.diags.AddError(diagnostic.CodeTargetSyntax,
					fmt.Sprintf("schema body must be a mapping, got %s", nodeKind(body)), name, "")
			} else {
				s.decodeNode(body, &n.diags)
			}

			n.List = append(n.List, s)
		}

		return nil

	default:
		if isNull(node) {
			return nil
		}

		return fmt.Errorf("expected mapping of schemas, got %s", nodeKind(node))
	}
}

// MarshalYAML implements custom YAML marshaling for NamedSchemas.
func (n NamedSchemas) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}

	for _, s := range n.List {
		body, err := s.toNode()
		if err != nil {
			return nil, err
		}

		out.Content = append(out.Content, scalarNode(s.name), body)
	}

	return out, nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Schema.
// Accepts a mapping whose values are a target string, a list of target
// strings or a nested mapping. Key order is preserved.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if isNull(node) {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected schema mapping, got %s", nodeKind(node))
	}

	var d diagnostic.Diagnostics

	s.decodeNode(node, &d)

	return d.Error()
}

// MarshalYAML implements custom YAML marshaling for Schema.
// A single-target chain is written as a string, longer chains as a list.
func (s *Schema) MarshalYAML() (any, error) {
	return s.toNode()
}

func (s *Schema) decodeNode(node *yaml.Node, d *diagnostic.Diagnostics) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := resolveAlias(node.Content[i+1])

		var spec any

		switch value.Kind {
		case yaml.ScalarNode:
			if isNull(value) {
				d.AddError(diagnostic.CodeTargetSyntax, "missing target", s.name, key)
				continue
			}

			spec = value.Value

		case yaml.SequenceNode:
			var targets []string

			if err := value.Decode(&targets); err != nil {
				d.AddError(diagnostic.CodeTargetSyntax, "target list must hold strings only", s.name, key)
				continue
			}

			spec = targets

		case yaml.MappingNode:
			child := NewNamed(childName(s.name, key))
			child.decodeNode(value, d)
			spec = child

		default:
			d.AddError(diagnostic.CodeTargetSyntax,
				fmt.Sprintf("unexpected %s", nodeKind(value)), s.name, key)

			continue
		}

		if err := s.Set(key, spec); err != nil {
			code := diagnostic.CodeTargetSyntax
			if errors.Is(err, ErrInvalidPath) {
				code = diagnostic.CodePathSyntax
			}

			d.AddError(code, err.Error(), s.name, key)
		}
	}
}

func (s *Schema) toNode() (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}

	for _, key := range s.order {
		e := s.entries[key]

		var value *yaml.Node

		switch {
		case e.IsNested():
			nested, err := e.Nested.toNode()
			if err != nil {
				return nil, err
			}

			value = nested

		case len(e.Chain) == 1:
			value = scalarNode(e.Chain[0].String())

		default:
			value = &yaml.Node{Kind: yaml.SequenceNode}
			for _, t := range e.Chain {
				value.Content = append(value.Content, scalarNode(t.String()))
			}
		}

		out.Content = append(out.Content, scalarNode(key), value)
	}

	return out, nil
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("node kind %d", node.Kind)
	}
}
