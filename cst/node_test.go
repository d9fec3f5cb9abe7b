package cst

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func pos(offset, line, col int) Position {
	return Position{Offset: offset, Line: line, Column: col}
}

func span(start, end int) Span {
	return Span{Start: pos(start, 1, start+1), End: pos(end, 1, end+1)}
}

// buildSum builds the tree for "a + 1" by hand.
func buildSum() *Node {
	left := NewLeaf(KindIdentifier, true, "a", span(0, 1))
	op := NewLeaf("", false, "+", span(2, 3))
	right := NewLeaf(KindIntegerLiteral, true, "1", span(4, 5))
	return NewBuilder(KindBinaryExpression).
		AddField("left", left).
		AddField("operator", op).
		AddField("right", right).
		Build()
}

func TestBuilderComputesSpan(t *testing.T) {
	n := buildSum()
	assert.Equal(t, n.Span(), span(0, 5))
	assert.Equal(t, n.Pos(), 0)
	assert.Equal(t, n.End(), 5)
	assert.Assert(t, n.IsNamed())
	assert.Assert(t, !n.IsLeaf())
}

func TestBuilderIgnoresNilAndCopies(t *testing.T) {
	b := NewBuilder(KindBlock)
	b.Add(nil)
	assert.Equal(t, b.Len(), 0)

	b.Add(NewLeaf("", false, "{", span(0, 1)))
	first := b.Build()
	b.Add(NewLeaf("", false, "}", span(1, 2)))
	second := b.Build()
	assert.Equal(t, first.ChildCount(), 1)
	assert.Equal(t, second.ChildCount(), 2)

	empty := NewBuilder(KindError).SetSpan(PointSpan(pos(3, 1, 4))).Build()
	assert.Assert(t, empty.Span().IsEmpty())
	assert.Equal(t, empty.Span().Start.Offset, 3)
}

func TestFieldAccessors(t *testing.T) {
	n := buildSum()
	assert.Equal(t, n.ChildByFieldName("left").Text(), "a")
	assert.Equal(t, n.ChildByFieldName("operator").Kind(), "+")
	assert.Assert(t, n.ChildByFieldName("missing") == nil)
	assert.Equal(t, n.FieldNameForChild(2), "right")
	assert.Equal(t, n.FieldNameForChild(7), "")
	assert.Assert(t, n.Child(3) == nil)

	fields := n.Fields()
	assert.Assert(t, is.Len(fields, 3))
	assert.Equal(t, fields[0].Name, "left")
	assert.Assert(t, is.Len(n.UnnamedChildren(), 0))
	assert.Assert(t, is.Len(n.NamedChildren(), 2))
}

func TestListChildren(t *testing.T) {
	b := NewBuilder(KindArgumentList).
		Add(NewLeaf("", false, "(", span(0, 1))).
		Add(NewLeaf(KindIdentifier, true, "x", span(1, 2))).
		Add(NewLeaf("", false, ",", span(2, 3))).
		Add(NewLeaf(KindIdentifier, true, "y", span(4, 5))).
		Add(NewLeaf("", false, ")", span(5, 6)))
	n := b.Build()
	assert.Assert(t, is.Len(n.UnnamedChildren(), 5))
	assert.Assert(t, is.Len(n.NamedChildren(), 2))
	assert.Equal(t, n.String(), "(argument_list (identifier) (identifier))")
}

func TestSexpShape(t *testing.T) {
	n := buildSum()
	assert.Equal(t, n.String(), `(binary_expression left: (identifier) operator: "+" right: (integer_literal))`)
}

func TestHasErrorAndFind(t *testing.T) {
	bad := NewBuilder(KindError).Add(NewLeaf("", false, ")", span(6, 7))).Build()
	root := NewBuilder(KindSourceFile).Add(buildSum()).Add(bad).Build()
	assert.Assert(t, root.HasError())
	assert.Assert(t, !buildSum().HasError())
	assert.Assert(t, is.Len(Errors(root), 1))
	assert.Assert(t, is.Len(FindAll(root, KindIdentifier), 1))
	assert.Equal(t, FindFirst(root, KindIntegerLiteral).Text(), "1")
	assert.Assert(t, FindFirst(root, KindBlock) == nil)
	assert.Assert(t, is.Len(Leaves(root), 4))
}

func TestWalkSkipsChildren(t *testing.T) {
	root := NewBuilder(KindSourceFile).Add(buildSum()).Build()
	var kinds []string
	Walk(root, func(n *Node, depth int) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindBinaryExpression
	})
	assert.DeepEqual(t, kinds, []string{KindSourceFile, KindBinaryExpression})
}

func TestReconstructMergesTrivia(t *testing.T) {
	root := NewBuilder(KindSourceFile).Add(buildSum()).Build()
	trivia := []Trivia{
		{Text: " ", Span: span(1, 2)},
		{Text: " ", Span: span(3, 4)},
		{Text: "\n", Span: span(5, 6)},
	}
	assert.Equal(t, Reconstruct(root, trivia), "a + 1\n")
}

func TestDump(t *testing.T) {
	out := Dump(NewBuilder(KindExpressionStatement).Add(buildSum()).Build())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Assert(t, is.Len(lines, 5))
	assert.Equal(t, lines[0], "expression_statement 1:1-1:6")
	assert.Equal(t, lines[1], "  binary_expression 1:1-1:6")
	assert.Equal(t, lines[2], `    left: identifier "a" 1:1-1:2`)
	assert.Equal(t, lines[3], `    operator: "+" 1:3-1:4`)
}

func TestCodePrinterIndents(t *testing.T) {
	cp := NewCodePrinter()
	cp.Println("a")
	WithIndent(2, cp, func(cp CodePrinter) {
		cp.Printf("b%d\nc\n", 1)
	})
	cp.Print("d")
	assert.Equal(t, cp.String(), "a\n    b1\n    c\nd")
}

func TestCompositeKind(t *testing.T) {
	lb := NewLeaf("", false, "{", span(0, 1))
	rb := NewLeaf("", false, "}", span(2, 3))
	empty := NewBuilder(KindCompositeLiteral).Add(lb).Add(rb).Build()
	assert.Equal(t, CompositeKind(empty), EmptyLiteral)

	entry := NewBuilder(KindMapEntry).AddField("key", NewLeaf(KindIntegerLiteral, true, "1", span(1, 2))).Build()
	m := NewBuilder(KindCompositeLiteral).Add(lb).Add(entry).Add(rb).Build()
	assert.Equal(t, CompositeKind(m), MapLiteral)
	assert.Equal(t, CompositeKind(entry), NotALiteral)
	assert.Equal(t, MapLiteral.String(), "Map")
}

func TestSpanHelpers(t *testing.T) {
	s := span(2, 5)
	assert.Equal(t, s.Len(), 3)
	assert.Assert(t, s.Contains(2))
	assert.Assert(t, !s.Contains(5))
	assert.Equal(t, s.Union(span(0, 3)), span(0, 5))
	assert.Equal(t, string(s.Slice([]byte("abcdefg"))), "cde")
	assert.Equal(t, string(span(4, 50).Slice([]byte("abcdefg"))), "efg")
	assert.Equal(t, s.String(), "1:3-1:6")
	assert.Assert(t, StartPosition.IsValid())
	assert.Assert(t, !Position{}.IsValid())
}
