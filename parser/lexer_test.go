package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper struct for expected token properties
type expectedToken struct {
	kind      TokenKind
	text      string
	startPos  int
	endPos    int
	startLine int
	startCol  int
}

// lexAll returns every token up to (not including) EOF.
func lexAll(input string) ([]Token, *Lexer) {
	l := NewLexer("test", []byte(input))
	var out []Token
	for {
		tok := l.NextToken()
		if tok.Kind == EOF {
			return out, l
		}
		out = append(out, tok)
	}
}

// significant drops trivia.
func significant(toks []Token) (out []Token) {
	for _, t := range toks {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return
}

func runLexerTest(t *testing.T, input string, expected []expectedToken) {
	t.Helper()
	toks, l := lexAll(input)
	toks = significant(toks)
	require.Len(t, toks, len(expected), "token count for %q: %v", input, toks)
	for i, exp := range expected {
		tok := toks[i]
		assert.Equal(t, exp.kind, tok.Kind, "Test %d: kind mismatch, got %s", i, tok)
		assert.Equal(t, exp.text, tok.Text, "Test %d: text mismatch", i)
		assert.Equal(t, exp.startPos, tok.Span.Start.Offset, "Test %d: start offset", i)
		assert.Equal(t, exp.endPos, tok.Span.End.Offset, "Test %d: end offset", i)
		assert.Equal(t, exp.startLine, tok.Span.Start.Line, "Test %d: start line", i)
		assert.Equal(t, exp.startCol, tok.Span.Start.Column, "Test %d: start column", i)
	}
	assert.Empty(t, l.Diagnostics(), "unexpected lexer diagnostics")
}

func TestLexerBasic(t *testing.T) {
	runLexerTest(t, "let x := 42;", []expectedToken{
		{LET, "let", 0, 3, 1, 1},
		{IDENTIFIER, "x", 4, 5, 1, 5},
		{LET_ASSIGN, ":=", 6, 8, 1, 7},
		{INT_LITERAL, "42", 9, 11, 1, 10},
		{SEMICOLON, ";", 11, 12, 1, 12},
	})
}

func TestLexerIdentifiers(t *testing.T) {
	runLexerTest(t, "foo _bar Baz9 true none lets", []expectedToken{
		{IDENTIFIER, "foo", 0, 3, 1, 1},
		{IDENTIFIER, "_bar", 4, 8, 1, 5},
		{TYPE_IDENTIFIER, "Baz9", 9, 13, 1, 10},
		{BOOL_LITERAL, "true", 14, 18, 1, 15},
		{NONE_LITERAL, "none", 19, 23, 1, 20},
		{IDENTIFIER, "lets", 24, 28, 1, 25},
	})
}

func TestLexerKeywords(t *testing.T) {
	for word, kind := range keywords {
		toks, _ := lexAll(word)
		require.Len(t, toks, 1, word)
		assert.Equal(t, kind, toks[0].Kind, word)
	}
}

func TestLexerNumbers(t *testing.T) {
	runLexerTest(t, "1..5 3.14 7.", []expectedToken{
		{INT_LITERAL, "1", 0, 1, 1, 1},
		{DOTDOT, "..", 1, 3, 1, 2},
		{INT_LITERAL, "5", 3, 4, 1, 4},
		{FLOAT_LITERAL, "3.14", 5, 9, 1, 6},
		{INT_LITERAL, "7", 10, 11, 1, 11},
		{DOT, ".", 11, 12, 1, 12},
	})
}

func TestLexerOperators(t *testing.T) {
	input := "( ) { } [ ] ; , . .. : :: := = -> => ? ?? & ! || && == != < > <= >= + - * / % **"
	want := []TokenKind{
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, SEMICOLON, COMMA, DOT, DOTDOT,
		COLON, COLONCOLON, LET_ASSIGN, ASSIGN, ARROW, FAT_ARROW, QUESTION, COALESCE, AMP, NOT,
		OR, AND, EQ, NEQ, LT, GT, LTE, GTE, PLUS, MINUS, MUL, DIV, MOD, POW,
	}
	toks, l := lexAll(input)
	toks = significant(toks)
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "operator %d (%q)", i, toks[i].Text)
	}
	assert.Empty(t, l.Diagnostics())
}

func TestLexerStringsAndBytes(t *testing.T) {
	runLexerTest(t, `"a\n\"b\"" 'x' '\t' '\x41' "\u{1F600}"`, []expectedToken{
		{STRING_LITERAL, `"a\n\"b\""`, 0, 10, 1, 1},
		{BYTE_LITERAL, `'x'`, 11, 14, 1, 12},
		{BYTE_LITERAL, `'\t'`, 15, 19, 1, 16},
		{BYTE_LITERAL, `'\x41'`, 20, 26, 1, 21},
		{STRING_LITERAL, `"\u{1F600}"`, 27, 38, 1, 28},
	})
}

func TestLexerQuoteEscapesAndRawNewlineByte(t *testing.T) {
	runLexerTest(t, "'\\'' '\\\"' '\n' x \"\\\"\"", []expectedToken{
		{BYTE_LITERAL, `'\''`, 0, 4, 1, 1},
		{BYTE_LITERAL, `'\"'`, 5, 9, 1, 6},
		{BYTE_LITERAL, "'\n'", 10, 13, 1, 11},
		{IDENTIFIER, "x", 14, 15, 2, 3},
		{STRING_LITERAL, `"\""`, 16, 20, 2, 5},
	})

	r, err := UnquoteByte("'\n'")
	require.NoError(t, err)
	assert.Equal(t, '\n', r)
}

func TestLexerLineColumnTracking(t *testing.T) {
	// columns count runes, offsets count bytes
	runLexerTest(t, "a\n  /*é*/ b\n\tc", []expectedToken{
		{IDENTIFIER, "a", 0, 1, 1, 1},
		{IDENTIFIER, "b", 11, 12, 2, 9},
		{IDENTIFIER, "c", 14, 15, 3, 2},
	})
}

func TestLexerTriviaIsLossless(t *testing.T) {
	inputs := []string{
		"let x := 1; // trailing\n/* block\n comment */ fn f() {}\n",
		"  \t\r\n",
		`"unterminated`,
		"'a 'bc' @ $ /* open",
		"é\x00\xff",
	}
	for _, input := range inputs {
		toks, _ := lexAll(input)
		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(tok.Text)
		}
		assert.Equal(t, input, sb.String())
		// offsets are contiguous
		at := 0
		for _, tok := range toks {
			assert.Equal(t, at, tok.Span.Start.Offset, "gap before %s", tok)
			at = tok.Span.End.Offset
		}
		assert.Equal(t, len(input), at)
	}
}

func TestLexerComments(t *testing.T) {
	toks, l := lexAll("a // one\n/* two */b")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{IDENTIFIER, WHITESPACE, LINE_COMMENT, WHITESPACE, BLOCK_COMMENT, IDENTIFIER}, kinds)
	assert.Equal(t, "// one", toks[2].Text)
	assert.Equal(t, "/* two */", toks[4].Text)
	assert.Empty(t, l.Diagnostics())
}

func TestLexerBlockCommentsDoNotNest(t *testing.T) {
	toks, _ := lexAll("/* a /* b */ c */")
	toks = significant(toks)
	require.Len(t, toks, 3)
	assert.Equal(t, IDENTIFIER, toks[0].Kind)
	assert.Equal(t, MUL, toks[1].Kind)
	assert.Equal(t, DIV, toks[2].Kind)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    TokenKind
		fatal   bool
		message string
		col     int
	}{
		{"unterminated string", `x "abc`, ILLEGAL, true, "unterminated string literal", 3},
		{"unterminated comment", "x /* abc", ILLEGAL, true, "unterminated block comment", 3},
		{"invalid escape", `x "a\qb"`, STRING_LITERAL, false, "invalid escape sequence", 3},
		{"short hex escape", `x "\x4"`, STRING_LITERAL, false, "invalid escape sequence", 3},
		{"empty unicode escape", `x "\u{}"`, STRING_LITERAL, false, "invalid escape sequence", 3},
		{"unterminated byte", "x 'ab'", ILLEGAL, false, "unterminated byte literal", 3},
		{"empty byte", "x ''", ILLEGAL, false, "empty byte literal", 3},
		{"stray character", "x @", ILLEGAL, false, "unexpected character '@'", 3},
		{"single pipe", "x |", ILLEGAL, false, "unexpected character '|'", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, l := lexAll(tt.input)
			toks = significant(toks)
			require.GreaterOrEqual(t, len(toks), 2)
			assert.Equal(t, tt.kind, toks[1].Kind)
			assert.Equal(t, tt.fatal, toks[1].Fatal)
			diags := l.Diagnostics()
			require.NotEmpty(t, diags)
			assert.Equal(t, LexicalError, diags[0].Kind)
			assert.Contains(t, diags[0].Message, tt.message)
			assert.Equal(t, tt.col, diags[0].Span.Start.Column)
		})
	}
}

func TestLexerFatalConsumesRest(t *testing.T) {
	toks, _ := lexAll("let s := \"abc;\nlet y := 2;")
	last := toks[len(toks)-1]
	assert.True(t, last.Fatal)
	assert.Equal(t, "\"abc;\nlet y := 2;", last.Text)
}

func TestLexerKeepsReturningEOF(t *testing.T) {
	l := NewLexer("test", []byte("a"))
	assert.Equal(t, IDENTIFIER, l.NextToken().Kind)
	for i := 0; i < 3; i++ {
		tok := l.NextToken()
		assert.Equal(t, EOF, tok.Kind)
		assert.Equal(t, 1, tok.Span.Start.Offset)
	}
}

func TestUnquote(t *testing.T) {
	s, err := UnquoteString(`"a\tb\x41\u{e9}\\"`)
	require.NoError(t, err)
	assert.Equal(t, "a\tbAé\\", s)

	s, err = UnquoteString(`"plain"`)
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	_, err = UnquoteString(`"bad\q"`)
	assert.Error(t, err)
	_, err = UnquoteString(`plain`)
	assert.Error(t, err)

	r, err := UnquoteByte(`'\n'`)
	require.NoError(t, err)
	assert.Equal(t, '\n', r)
	r, err = UnquoteByte(`'é'`)
	require.NoError(t, err)
	assert.Equal(t, 'é', r)
	_, err = UnquoteByte(`'ab'`)
	assert.Error(t, err)
}
