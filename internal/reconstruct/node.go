package reconstruct

import (
	"maps"
	"slices"
)

// TypeKey is the field name under which a row's layout tag is exposed
// when the tree is converted to plain values.
const TypeKey = "__type"

// Node is a reconstructed value: a Scalar, a *Row or a List.
type Node interface {
	node()
}

// Scalar is a leaf value, possibly a decoded structure that is not a group.
type Scalar struct {
	Value any
}

// Row is a set of fields with an optional layout tag.
type Row struct {
	Type   string
	Fields map[string]Node
}

// List is an ordered group of rows. Rows need not share fields.
type List []*Row

func (Scalar) node() {}
func (*Row) node()   {}
func (List) node()   {}

// NewRow returns an empty row with the given layout tag.
func NewRow(typ string) *Row {
	return &Row{Type: typ, Fields: make(map[string]Node)}
}

// Keys returns the field names in lexicographic order.
func (r *Row) Keys() []string {
	return slices.Sorted(maps.Keys(r.Fields))
}

// Get returns the node stored under key.
func (r *Row) Get(key string) (Node, bool) {
	n, ok := r.Fields[key]
	return n, ok
}

// Value returns the field as a value suitable for mapping: scalars are
// unwrapped, groups are returned as nodes.
func (r *Row) Value(key string) (any, bool) {
	n, ok := r.Fields[key]
	if !ok {
		return nil, false
	}

	return Unwrap(n), true
}

// Unwrap returns the value of a Scalar and any other node unchanged.
func Unwrap(n Node) any {
	if s, ok := n.(Scalar); ok {
		return s.Value
	}

	return n
}

// ToValue converts a node into plain Go values: rows become maps (with the
// layout tag under TypeKey when present) and lists become []any.
func ToValue(n Node) any {
	switch node := n.(type) {
	case Scalar:
		return node.Value
	case *Row:
		if node == nil {
			return nil
		}

		m := make(map[string]any, len(node.Fields)+1)
		for key, child := range node.Fields {
			m[key] = ToValue(child)
		}

		if node.Type != "" {
			m[TypeKey] = node.Type
		}

		return m
	case List:
		items := make([]any, len(node))
		for i, row := range node {
			items[i] = ToValue(row)
		}

		return items
	default:
		return nil
	}
}

func asNode(v any) Node {
	if n, ok := v.(Node); ok {
		return n
	}

	return Scalar{Value: v}
}

func valueOf(v any) any {
	if s, ok := v.(Scalar); ok {
		return s.Value
	}

	return v
}
