package cst

// Builder assembles an inner node.  Children are appended in source order;
// the resulting node's span covers its first to its last child unless set
// explicitly.
type Builder struct {
	kind     string
	children []*Node
	fields   []string
	span     *Span
}

func NewBuilder(kind string) *Builder {
	return &Builder{kind: kind}
}

// Add appends a child that is not bound to a field.  nil children are
// ignored so optional parts can be passed straight through.
func (b *Builder) Add(child *Node) *Builder {
	return b.AddField("", child)
}

// AddField appends a child bound to the given field name.
func (b *Builder) AddField(name string, child *Node) *Builder {
	if child == nil {
		return b
	}
	b.children = append(b.children, child)
	b.fields = append(b.fields, name)
	return b
}

// Len returns the number of children added so far.
func (b *Builder) Len() int {
	return len(b.children)
}

// SetSpan overrides the computed span.  Used for the root and for empty
// nodes which have no children to derive a span from.
func (b *Builder) SetSpan(s Span) *Builder {
	b.span = &s
	return b
}

// Build creates the node.  The builder may keep being used afterwards
// without affecting the returned node.
func (b *Builder) Build() *Node {
	n := &Node{
		kind:     b.kind,
		named:    true,
		children: append([]*Node(nil), b.children...),
		fields:   append([]string(nil), b.fields...),
	}
	switch {
	case b.span != nil:
		n.span = *b.span
	case len(n.children) > 0:
		n.span = Span{Start: n.children[0].span.Start, End: n.children[len(n.children)-1].span.End}
	}
	return n
}
