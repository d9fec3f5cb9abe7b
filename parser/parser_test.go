package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/panyam/ferret/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProgram = `// shapes and friends
import "std/io" as io;
import "std/math";

type Point struct {
	.x: f64,
	.y: f64,
};

type Shape enum { Circle, Square, };

type Drawer interface {
	draw(p: &Point) -> io::Error ! bool;
};

const origin: Point := { .x = 0.0, .y = 0.0 } as Point;

/* a method
   with a receiver */
fn (p: &Point) dist(o: Point) -> f64 {
	let dx := p.x - o.x;
	let dy := p.y - o.y;
	return math::sqrt(dx * dx + dy * dy);
}

fn main() -> io::Error ! i32 {
	let names: map[str]i32 := { "a" => 1, "b" => 2, };
	let grid: [3][3]u8 := [[1, 2, 3], [4, 5, 6], [7, 8, 9]];
	let maybe: Point? := none;
	for let i in 0..10 {
		if i % 2 == 0 && !done { skip(i); } else if i > 5 { stop(); } else { }
	}
	while ready() { tick(); }
	let v := read() catch err { log(err); } 0;
	let name := maybe ?? origin;
	print('x', "tab\t", 1.5, true);
	return 0;
}
`

func TestSampleProgramParsesCleanly(t *testing.T) {
	f := mustParse(t, sampleProgram)
	assert.False(t, f.Aborted)
	assert.Equal(t, f.Root.Span().End.Offset, len(sampleProgram))

	kinds := []string{}
	for _, stmt := range f.Root.NamedChildren() {
		kinds = append(kinds, stmt.Kind())
	}
	assert.Equal(t, []string{
		cst.KindImportDeclaration,
		cst.KindImportDeclaration,
		cst.KindTypeDeclaration,
		cst.KindTypeDeclaration,
		cst.KindTypeDeclaration,
		cst.KindConstantDeclaration,
		cst.KindFunctionDeclaration,
		cst.KindFunctionDeclaration,
	}, kinds)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		sampleProgram,
		"",
		"   \n\t",
		"// only a comment",
		"let x := 1; // trailing",
		"let s := \"héllo\\n\";\n",
		"/* a */ let /* b */ x /* c */ := /* d */ 1 /* e */ ; /* f */",
		"fn f() {\r\n\treturn;\r\n}\r\n",
	}
	for _, input := range inputs {
		f := ParseString("test", input)
		require.Empty(t, f.Diagnostics, "input %q", input)
		assert.Equal(t, input, f.Reconstruct())
		assert.Equal(t, input, cst.Reconstruct(f.Root, f.Trivia()))
	}
}

func TestRoundTripWithErrors(t *testing.T) {
	inputs := []string{
		"let x := ; let y := 1;",
		"fn f( { } }",
		"let a := @ 1;",
		"let s := \"never closed\nlet y := 2;",
		"x /* never closed",
		"if { else }",
	}
	for _, input := range inputs {
		f := ParseString("test", input)
		require.NotEmpty(t, f.Diagnostics, "input %q", input)
		assert.Equal(t, input, f.Reconstruct())
	}
}

func TestReparseIsIdempotent(t *testing.T) {
	for _, input := range []string{sampleProgram, "let x := ; let y := 1;", "x; } y;"} {
		first := ParseString("test", input)
		second := ParseString("test", first.Reconstruct())
		assert.Equal(t, first.Root.String(), second.Root.String())
		assert.Equal(t, first.Diagnostics.Strings(), second.Diagnostics.Strings())
	}
}

func TestFatalLexicalErrorAborts(t *testing.T) {
	f := ParseString("test", "let a := 1;\nlet s := \"abc;\nlet y := 1;")
	assert.True(t, f.Aborted)
	require.Len(t, f.Diagnostics, 1)
	d := f.Diagnostics[0]
	assert.Equal(t, LexicalError, d.Kind)
	assert.Equal(t, "unterminated string literal", d.Message)
	assert.Equal(t, 2, d.Span.Start.Line)
	assert.Equal(t, 10, d.Span.Start.Column)

	stmts := f.Root.NamedChildren()
	require.Len(t, stmts, 3)
	assert.Equal(t, cst.KindVariableDeclaration, stmts[0].Kind())
	assert.Equal(t, cst.KindError, stmts[1].Kind())
	last := stmts[2]
	assert.Equal(t, cst.KindError, last.Kind())
	assert.Equal(t, []string{"\"abc;\nlet y := 1;"}, leafTexts(last))
}

func TestUnterminatedBlockComment(t *testing.T) {
	f := ParseString("test", "let a := 1; /* oops")
	assert.True(t, f.Aborted)
	require.Len(t, f.Diagnostics, 1)
	assert.Equal(t, "unterminated block comment", f.Diagnostics[0].Message)
	stmts := f.Root.NamedChildren()
	require.Len(t, stmts, 2)
	assert.Equal(t, cst.KindError, stmts[1].Kind())
}

func TestNonFatalLexicalErrors(t *testing.T) {
	f := ParseString("test", "let a := 1 $ 2;\nlet b := '';")
	assert.False(t, f.Aborted)
	lex := f.Diagnostics.OfKind(LexicalError)
	require.Len(t, lex, 2)
	assert.Equal(t, `unexpected character '$'`, lex[0].Message)
	assert.Equal(t, "empty byte literal", lex[1].Message)
}

func TestDiagnosticFormatting(t *testing.T) {
	f := ParseString("main.fer", "let x := 1;\nlet := 2;")
	require.Len(t, f.Diagnostics, 1)
	assert.Equal(t, "main.fer:2:5: syntax error: expected identifier, found ':='", f.Diagnostics[0].Error())
	assert.Equal(t, f.Diagnostics[0].Error(), f.Err().Error())

	d := &Diagnostic{Kind: StructuralAmbiguityError, Span: cst.PointSpan(cst.Position{Offset: 3, Line: 1, Column: 4}), Message: "m"}
	assert.Equal(t, "1:4: structural ambiguity: m", d.Error())

	clean := ParseString("ok.fer", "let x := 1;")
	assert.NoError(t, clean.Err())
	assert.False(t, clean.HasErrors())
}

func TestDiagnosticsSortedByPosition(t *testing.T) {
	f := ParseString("test", "let := 1;\nlet a := 1;#")
	require.Len(t, f.Diagnostics, 2)
	assert.Equal(t, 1, f.Diagnostics[0].Span.Start.Line)
	assert.Equal(t, 2, f.Diagnostics[1].Span.Start.Line)

	var buf bytes.Buffer
	ec := ErrorCollector{Errors: f.Diagnostics}
	ec.PrintErrors(&buf)
	assert.Equal(t, "test:1:5: syntax error: expected identifier, found ':='\n"+
		"test:2:12: lexical error: unexpected character '#'\n", buf.String())
	assert.Contains(t, f.Diagnostics.Error(), "(and 1 more errors)")

	at := func(offset int, msg string) *Diagnostic {
		return &Diagnostic{Span: cst.PointSpan(cst.Position{Offset: offset, Line: 1, Column: offset + 1}), Message: msg}
	}
	list := ErrorList{at(9, "c"), at(2, "a"), at(9, "d"), at(4, "b")}
	list.Sort()
	msgs := []string{}
	for _, d := range list {
		msgs = append(msgs, d.Message)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, msgs)
}

func TestErrorCollectorTruncation(t *testing.T) {
	ec := ErrorCollector{MaxErrors: 1}
	assert.True(t, ec.Add(&Diagnostic{Message: "a"}))
	assert.False(t, ec.Add(&Diagnostic{Message: "b"}))
	assert.True(t, ec.Truncated)
	assert.Len(t, ec.Errors, 1)

	var buf bytes.Buffer
	ec.PrintErrors(&buf)
	assert.Contains(t, buf.String(), "too many errors, only the first 1 shown")
}

func TestComments(t *testing.T) {
	f := mustParse(t, "// one\nlet x := 1; /* two */\n")
	comments := f.Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, LINE_COMMENT, comments[0].Kind)
	assert.Equal(t, "// one", comments[0].Text)
	assert.Equal(t, BLOCK_COMMENT, comments[1].Kind)
	assert.Equal(t, 2, comments[1].Span.Start.Line)
}

func TestFileText(t *testing.T) {
	f := mustParse(t, "fn f() {\n  return 1 + 2;\n}")
	ret := cst.FindFirst(f.Root, cst.KindReturnStatement)
	require.NotNil(t, ret)
	assert.Equal(t, "return 1 + 2;", f.Text(ret))
	assert.Equal(t, "1 + 2", f.Text(ret.ChildByFieldName("value")))
	assert.Equal(t, "f", f.Text(cst.FindFirst(f.Root, cst.KindIdentifier)))
}

func TestSpansAreConsistent(t *testing.T) {
	f := mustParse(t, sampleProgram)
	cst.Walk(f.Root, func(n *cst.Node, _ int) bool {
		span := n.Span()
		assert.LessOrEqual(t, span.Start.Offset, span.End.Offset, "node %s", n.Kind())
		for _, c := range n.Children() {
			inside := c.Span().Start.Offset >= span.Start.Offset && c.Span().End.Offset <= span.End.Offset
			assert.True(t, inside, "%s %s does not contain %s %s", n.Kind(), span, c.Kind(), c.Span())
		}
		if n.IsLeaf() {
			assert.Equal(t, n.Text(), string(span.Slice(f.Source)))
		}
		return true
	})
}

func TestExampleFiles(t *testing.T) {
	paths, err := filepath.Glob("../examples/*.fer")
	require.NoError(t, err)
	more, err := filepath.Glob("../examples/*/*.fer")
	require.NoError(t, err)
	paths = append(paths, more...)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			require.NoError(t, err)
			f := Parse(path, src)
			require.Empty(t, f.Diagnostics.Strings())
			assert.False(t, f.Root.HasError())
			assert.Equal(t, string(src), f.Reconstruct())
			assert.Equal(t, string(src), cst.Reconstruct(f.Root, f.Trivia()))
		})
	}
}
