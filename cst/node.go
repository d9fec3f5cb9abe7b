package cst

import (
	"strconv"
	"strings"
)

// Node is a single node of the concrete syntax tree.  Leaves carry the exact
// source text of their token, inner nodes carry an ordered list of children
// each optionally bound to a field name.  Nodes are immutable once built
// (see Builder).
type Node struct {
	kind     string
	named    bool
	leaf     bool
	text     string
	span     Span
	children []*Node
	fields   []string // parallel to children, "" when the child has no field
}

// Field is a child bound to a field name.
type Field struct {
	Name string
	Node *Node
}

// NewLeaf creates a leaf node for a single token.  Anonymous leaves (named ==
// false) are punctuation and keywords and use their text as the kind.
func NewLeaf(kind string, named bool, text string, span Span) *Node {
	if !named && kind == "" {
		kind = text
	}
	return &Node{kind: kind, named: named, leaf: true, text: text, span: span}
}

func (n *Node) Kind() string  { return n.kind }
func (n *Node) IsNamed() bool { return n.named }
func (n *Node) IsLeaf() bool  { return n.leaf }
func (n *Node) IsError() bool { return n.kind == KindError }
func (n *Node) Span() Span    { return n.span }

// Pos returns the starting byte offset of the node.
func (n *Node) Pos() int { return n.span.Start.Offset }

// End returns the byte offset just past the node.
func (n *Node) End() int { return n.span.End.Offset }

// Text returns the source text of a leaf.  Inner nodes have no text of their
// own, use Span().Slice on the source instead.
func (n *Node) Text() string { return n.text }

func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i'th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// FieldNameForChild returns the field the i'th child is bound to, or "".
func (n *Node) FieldNameForChild(i int) string {
	if i < 0 || i >= len(n.fields) {
		return ""
	}
	return n.fields[i]
}

// ChildByFieldName returns the first child bound to name.
func (n *Node) ChildByFieldName(name string) *Node {
	for i, f := range n.fields {
		if f == name {
			return n.children[i]
		}
	}
	return nil
}

// ChildrenByFieldName returns every child bound to name, in order.
func (n *Node) ChildrenByFieldName(name string) (out []*Node) {
	for i, f := range n.fields {
		if f == name {
			out = append(out, n.children[i])
		}
	}
	return
}

// Fields returns the children that are bound to a field, in source order.
func (n *Node) Fields() (out []Field) {
	for i, f := range n.fields {
		if f != "" {
			out = append(out, Field{Name: f, Node: n.children[i]})
		}
	}
	return
}

// UnnamedChildren returns the children not bound to any field.  For most
// kinds this is the structural punctuation; for lists (blocks, argument
// lists, bodies) it also holds the list elements.
func (n *Node) UnnamedChildren() (out []*Node) {
	for i, f := range n.fields {
		if f == "" {
			out = append(out, n.children[i])
		}
	}
	return
}

// NamedChildren returns the children whose kind is a named grammar rule.
func (n *Node) NamedChildren() (out []*Node) {
	for _, c := range n.children {
		if c.named {
			out = append(out, c)
		}
	}
	return
}

// HasError reports whether this node or any descendant is an ERROR node.
func (n *Node) HasError() bool {
	if n.IsError() {
		return true
	}
	for _, c := range n.children {
		if c.HasError() {
			return true
		}
	}
	return false
}

// String renders the shape of the tree as an S-expression in the style of
// tree-sitter: named nodes in parentheses, field bound children prefixed by
// their field name, anonymous children only when bound to a field.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeSexp(&sb)
	return sb.String()
}

func (n *Node) writeSexp(sb *strings.Builder) {
	sb.WriteByte('(')
	sb.WriteString(n.kind)
	for i, c := range n.children {
		field := n.fields[i]
		if !c.named && field == "" {
			continue
		}
		sb.WriteByte(' ')
		if field != "" {
			sb.WriteString(field)
			sb.WriteString(": ")
		}
		if !c.named {
			sb.WriteString(strconv.Quote(c.text))
			continue
		}
		c.writeSexp(sb)
	}
	sb.WriteByte(')')
}
