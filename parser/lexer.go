package parser

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/panyam/ferret/cst"
)

const eof = -1

// Lexer turns a source buffer into tokens, trivia included.  It never
// fails: malformed input becomes ILLEGAL tokens plus a diagnostic.
type Lexer struct {
	name string
	src  []byte

	// Current position in the input
	pos  int
	line int
	col  int

	// Where the token being scanned started
	tokenStart cst.Position

	diags ErrorList
}

func NewLexer(name string, src []byte) *Lexer {
	return &Lexer{name: name, src: src, line: 1, col: 1}
}

// Diagnostics returns the lexical errors seen so far.
func (l *Lexer) Diagnostics() ErrorList {
	return l.diags
}

// Position returns the position the next token will start at.
func (l *Lexer) Position() cst.Position {
	return cst.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) errorAt(at cst.Position, format string, args ...any) {
	l.diags = append(l.diags, &Diagnostic{
		Kind:     LexicalError,
		Filename: l.name,
		Span:     cst.Span{Start: at, End: l.Position()},
		Message:  fmt.Sprintf(format, args...),
	})
}

// --- Rune reading helpers (with line/col tracking) ---

func (l *Lexer) peek() rune {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) rune {
	off := l.pos
	for ; n > 0; n-- {
		if off >= len(l.src) {
			return eof
		}
		_, width := utf8.DecodeRune(l.src[off:])
		off += width
	}
	if off >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(l.src[off:])
	return r
}

func (l *Lexer) read() rune {
	if l.pos >= len(l.src) {
		return eof
	}
	r, width := utf8.DecodeRune(l.src[l.pos:])
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) hasPrefix(prefix string) bool {
	return bytes.HasPrefix(l.src[l.pos:], []byte(prefix))
}

// skip consumes n runes.
func (l *Lexer) skip(n int) {
	for ; n > 0; n-- {
		l.read()
	}
}

func (l *Lexer) emit(kind TokenKind) Token {
	return Token{
		Kind: kind,
		Text: string(l.src[l.tokenStart.Offset:l.pos]),
		Span: cst.Span{Start: l.tokenStart, End: l.Position()},
	}
}

// NextToken scans the next token.  Once the input is exhausted it keeps
// returning EOF.
func (l *Lexer) NextToken() Token {
	l.tokenStart = l.Position()
	ch := l.peek()
	switch {
	case ch == eof:
		return l.emit(EOF)
	case unicode.IsSpace(ch):
		for unicode.IsSpace(l.peek()) {
			l.read()
		}
		return l.emit(WHITESPACE)
	case l.hasPrefix("//"):
		for c := l.peek(); c != eof && c != '\n'; c = l.peek() {
			l.read()
		}
		return l.emit(LINE_COMMENT)
	case l.hasPrefix("/*"):
		return l.scanBlockComment()
	case isIdentStart(ch):
		return l.scanIdentifierOrKeyword()
	case isDigit(ch):
		return l.scanNumber()
	case ch == '"':
		return l.scanString()
	case ch == '\'':
		return l.scanByte()
	}
	return l.scanOperator()
}

func (l *Lexer) scanBlockComment() Token {
	l.skip(2)
	for {
		if l.peek() == eof {
			l.errorAt(l.tokenStart, "unterminated block comment")
			return l.fatal()
		}
		if l.hasPrefix("*/") {
			l.skip(2)
			return l.emit(BLOCK_COMMENT)
		}
		l.read()
	}
}

// fatal emits the rest of the input as one ILLEGAL token.
func (l *Lexer) fatal() Token {
	for l.read() != eof {
	}
	tok := l.emit(ILLEGAL)
	tok.Fatal = true
	return tok
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	first := l.read()
	for isIdentPart(l.peek()) {
		l.read()
	}
	tok := l.emit(IDENTIFIER)
	if kw, ok := keywords[tok.Text]; ok {
		tok.Kind = kw
	} else if first >= 'A' && first <= 'Z' {
		tok.Kind = TYPE_IDENTIFIER
	}
	return tok
}

// scanNumber reads an integer, or a float when the dot is followed by a
// digit, so that "1..5" stays a range.
func (l *Lexer) scanNumber() Token {
	for isDigit(l.peek()) {
		l.read()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.read()
		for isDigit(l.peek()) {
			l.read()
		}
		return l.emit(FLOAT_LITERAL)
	}
	return l.emit(INT_LITERAL)
}

func (l *Lexer) scanString() Token {
	l.read() // opening quote
	badEscape := false
	for {
		switch l.peek() {
		case eof:
			l.errorAt(l.tokenStart, "unterminated string literal")
			return l.fatal()
		case '"':
			l.read()
			return l.emit(STRING_LITERAL)
		case '\\':
			if !l.scanEscape() && !badEscape {
				badEscape = true
				l.errorAt(l.tokenStart, "invalid escape sequence in string literal")
			}
		default:
			l.read()
		}
	}
}

// scanByte reads a byte literal: exactly one character or escape between
// single quotes.
func (l *Lexer) scanByte() Token {
	l.read() // opening quote
	switch l.peek() {
	case eof:
		l.errorAt(l.tokenStart, "unterminated byte literal")
		return l.emit(ILLEGAL)
	case '\'':
		l.read()
		l.errorAt(l.tokenStart, "empty byte literal")
		return l.emit(ILLEGAL)
	case '\\':
		if !l.scanEscape() {
			l.errorAt(l.tokenStart, "invalid escape sequence in byte literal")
		}
	default:
		l.read()
	}
	if l.peek() != '\'' {
		l.errorAt(l.tokenStart, "unterminated byte literal")
		return l.emit(ILLEGAL)
	}
	l.read()
	return l.emit(BYTE_LITERAL)
}

// scanEscape consumes an escape sequence starting at the backslash and
// reports whether it was well formed.  A malformed escape consumes as
// much as belongs to it without running past a closing quote.
func (l *Lexer) scanEscape() bool {
	l.read() // backslash
	switch l.peek() {
	case 'n', 'r', 't', '\'', '"', '\\':
		l.read()
		return true
	case 'x':
		l.read()
		for i := 0; i < 2; i++ {
			if !isHexDigit(l.peek()) {
				return false
			}
			l.read()
		}
		return true
	case 'u':
		l.read()
		if l.peek() != '{' {
			return false
		}
		l.read()
		digits := 0
		for isHexDigit(l.peek()) {
			l.read()
			digits++
		}
		if l.peek() != '}' || digits == 0 {
			return false
		}
		l.read()
		return true
	case eof, '\n':
		return false
	}
	l.read()
	return false
}

func (l *Lexer) scanOperator() Token {
	ch := l.read()
	kind := ILLEGAL
	switch ch {
	case '(':
		kind = LPAREN
	case ')':
		kind = RPAREN
	case '{':
		kind = LBRACE
	case '}':
		kind = RBRACE
	case '[':
		kind = LBRACKET
	case ']':
		kind = RBRACKET
	case ';':
		kind = SEMICOLON
	case ',':
		kind = COMMA
	case '+':
		kind = PLUS
	case '/':
		kind = DIV
	case '%':
		kind = MOD
	case '<':
		kind = l.pick('=', LTE, LT)
	case '>':
		kind = l.pick('=', GTE, GT)
	case '*':
		kind = l.pick('*', POW, MUL)
	case '.':
		kind = l.pick('.', DOTDOT, DOT)
	case '?':
		kind = l.pick('?', COALESCE, QUESTION)
	case '&':
		kind = l.pick('&', AND, AMP)
	case '-':
		kind = l.pick('>', ARROW, MINUS)
	case '!':
		kind = l.pick('=', NEQ, NOT)
	case ':':
		if l.peek() == ':' {
			l.read()
			kind = COLONCOLON
		} else {
			kind = l.pick('=', LET_ASSIGN, COLON)
		}
	case '=':
		if l.peek() == '>' {
			l.read()
			kind = FAT_ARROW
		} else {
			kind = l.pick('=', EQ, ASSIGN)
		}
	case '|':
		if l.peek() == '|' {
			l.read()
			kind = OR
		}
	}
	if kind == ILLEGAL {
		l.errorAt(l.tokenStart, "unexpected character %q", ch)
	}
	return l.emit(kind)
}

// pick consumes next and returns yes if it is the upcoming rune, else no.
func (l *Lexer) pick(next rune, yes, no TokenKind) TokenKind {
	if l.peek() == next {
		l.read()
		return yes
	}
	return no
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
