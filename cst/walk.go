package cst

// Walk visits n and its descendants depth first in source order.  When fn
// returns false the children of that node are skipped.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Leaves returns every leaf under n in source order.
func Leaves(n *Node) (out []*Node) {
	Walk(n, func(c *Node, _ int) bool {
		if c.leaf {
			out = append(out, c)
		}
		return true
	})
	return
}

// FindAll returns every node of the given kind under (and including) n.
func FindAll(n *Node, kind string) (out []*Node) {
	Walk(n, func(c *Node, _ int) bool {
		if c.kind == kind {
			out = append(out, c)
		}
		return true
	})
	return
}

// FindFirst returns the first node of the given kind in a pre-order walk.
func FindFirst(n *Node, kind string) (found *Node) {
	Walk(n, func(c *Node, _ int) bool {
		if found != nil {
			return false
		}
		if c.kind == kind {
			found = c
			return false
		}
		return true
	})
	return
}

// Errors returns every ERROR node in the tree.
func Errors(n *Node) []*Node {
	return FindAll(n, KindError)
}

// Reconstruct rebuilds source text from the leaves of a tree plus the
// trivia that sits between them.  trivia must be sorted by start offset and
// must not overlap any leaf.  For a tree parsed without errors this yields
// the original input.
func Reconstruct(root *Node, trivia []Trivia) string {
	leaves := Leaves(root)
	var out []byte
	i, j := 0, 0
	for i < len(leaves) || j < len(trivia) {
		if j >= len(trivia) || (i < len(leaves) && leaves[i].span.Start.Offset < trivia[j].Span.Start.Offset) {
			out = append(out, leaves[i].text...)
			i++
			continue
		}
		out = append(out, trivia[j].Text...)
		j++
	}
	return string(out)
}

// Trivia is a piece of source text (whitespace or comment) that is not part
// of the tree.
type Trivia struct {
	Text string
	Span Span
}
