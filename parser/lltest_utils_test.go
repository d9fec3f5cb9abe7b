package parser

import (
	"testing"

	"github.com/panyam/ferret/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(input string) *LLParser {
	return NewLLParser(NewLexer("test", []byte(input)))
}

// parseFragment runs one of the parser's entry points over input and
// checks that all of the input was consumed.
func parseFragment(t *testing.T, input string, parseFunc func(p *LLParser) (*cst.Node, error)) (*cst.Node, error) {
	t.Helper()
	p := newTestParser(input)
	node, err := parseFunc(p)
	if err == nil {
		tok := p.PeekToken()
		assert.Equal(t, EOF, tok.Kind, "input %q not fully consumed, next token %s", input, tok)
	}
	return node, err
}

// mustParse parses a full source file and fails the test on any
// diagnostic.
func mustParse(t *testing.T, input string) *File {
	t.Helper()
	f := ParseString("test", input)
	require.Empty(t, f.Diagnostics.Strings(), "unexpected diagnostics for %q", input)
	require.False(t, f.Root.HasError(), "unexpected ERROR node for %q: %s", input, f.Root)
	return f
}

// firstStmt returns the first statement of a parsed file.
func firstStmt(t *testing.T, f *File) *cst.Node {
	t.Helper()
	stmts := f.Root.NamedChildren()
	require.NotEmpty(t, stmts, "no statements in %q", f.Source)
	return stmts[0]
}

// exprOf returns the expression of a single expression statement.
func exprOf(t *testing.T, input string) *cst.Node {
	t.Helper()
	stmt := firstStmt(t, mustParse(t, input))
	require.Equal(t, cst.KindExpressionStatement, stmt.Kind())
	return stmt.NamedChildren()[0]
}

// assertError checks that parsing failed with a message containing want.
func assertError(t *testing.T, err error, want string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), want)
}

// leafTexts returns the text of every leaf below n.
func leafTexts(n *cst.Node) (out []string) {
	for _, l := range cst.Leaves(n) {
		out = append(out, l.Text())
	}
	return
}
