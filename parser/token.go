package parser

import (
	"fmt"

	"github.com/panyam/ferret/cst"
)

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	// Trivia
	WHITESPACE
	LINE_COMMENT
	BLOCK_COMMENT

	IDENTIFIER
	TYPE_IDENTIFIER
	INT_LITERAL
	FLOAT_LITERAL
	STRING_LITERAL
	BYTE_LITERAL
	BOOL_LITERAL
	NONE_LITERAL

	// Keywords
	IMPORT
	AS
	LET
	CONST
	TYPE
	FN
	IF
	ELSE
	WHILE
	FOR
	IN
	RETURN
	CATCH
	STRUCT
	ENUM
	INTERFACE

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMICOLON
	COMMA
	DOT
	DOTDOT
	COLON
	COLONCOLON
	LET_ASSIGN // :=
	ASSIGN     // =
	ARROW      // ->
	FAT_ARROW  // =>
	QUESTION
	COALESCE // ??
	AMP
	NOT

	// Binary operators
	OR
	AND
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	PLUS
	MINUS
	MUL
	DIV
	MOD
	POW
)

var tokenNames = map[TokenKind]string{
	EOF:             "EOF",
	ILLEGAL:         "ILLEGAL",
	WHITESPACE:      "WHITESPACE",
	LINE_COMMENT:    "LINE_COMMENT",
	BLOCK_COMMENT:   "BLOCK_COMMENT",
	IDENTIFIER:      "IDENTIFIER",
	TYPE_IDENTIFIER: "TYPE_IDENTIFIER",
	INT_LITERAL:     "INT_LITERAL",
	FLOAT_LITERAL:   "FLOAT_LITERAL",
	STRING_LITERAL:  "STRING_LITERAL",
	BYTE_LITERAL:    "BYTE_LITERAL",
	BOOL_LITERAL:    "BOOL_LITERAL",
	NONE_LITERAL:    "NONE_LITERAL",
	IMPORT:          "IMPORT",
	AS:              "AS",
	LET:             "LET",
	CONST:           "CONST",
	TYPE:            "TYPE",
	FN:              "FN",
	IF:              "IF",
	ELSE:            "ELSE",
	WHILE:           "WHILE",
	FOR:             "FOR",
	IN:              "IN",
	RETURN:          "RETURN",
	CATCH:           "CATCH",
	STRUCT:          "STRUCT",
	ENUM:            "ENUM",
	INTERFACE:       "INTERFACE",
	LPAREN:          "LPAREN",
	RPAREN:          "RPAREN",
	LBRACE:          "LBRACE",
	RBRACE:          "RBRACE",
	LBRACKET:        "LBRACKET",
	RBRACKET:        "RBRACKET",
	SEMICOLON:       "SEMICOLON",
	COMMA:           "COMMA",
	DOT:             "DOT",
	DOTDOT:          "DOTDOT",
	COLON:           "COLON",
	COLONCOLON:      "COLONCOLON",
	LET_ASSIGN:      "LET_ASSIGN",
	ASSIGN:          "ASSIGN",
	ARROW:           "ARROW",
	FAT_ARROW:       "FAT_ARROW",
	QUESTION:        "QUESTION",
	COALESCE:        "COALESCE",
	AMP:             "AMP",
	NOT:             "NOT",
	OR:              "OR",
	AND:             "AND",
	EQ:              "EQ",
	NEQ:             "NEQ",
	LT:              "LT",
	GT:              "GT",
	LTE:             "LTE",
	GTE:             "GTE",
	PLUS:            "PLUS",
	MINUS:           "MINUS",
	MUL:             "MUL",
	DIV:             "DIV",
	MOD:             "MOD",
	POW:             "POW",
}

// Source spelling of the fixed tokens, used in error messages.
var tokenSpellings = map[TokenKind]string{
	IMPORT: "import", AS: "as", LET: "let", CONST: "const", TYPE: "type", FN: "fn",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", IN: "in", RETURN: "return",
	CATCH: "catch", STRUCT: "struct", ENUM: "enum", INTERFACE: "interface",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	SEMICOLON: ";", COMMA: ",", DOT: ".", DOTDOT: "..", COLON: ":", COLONCOLON: "::",
	LET_ASSIGN: ":=", ASSIGN: "=", ARROW: "->", FAT_ARROW: "=>", QUESTION: "?",
	COALESCE: "??", AMP: "&", NOT: "!", OR: "||", AND: "&&", EQ: "==", NEQ: "!=",
	LT: "<", GT: ">", LTE: "<=", GTE: ">=", PLUS: "+", MINUS: "-", MUL: "*",
	DIV: "/", MOD: "%", POW: "**",
}

var keywords = map[string]TokenKind{
	"import":    IMPORT,
	"as":        AS,
	"let":       LET,
	"const":     CONST,
	"type":      TYPE,
	"fn":        FN,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"for":       FOR,
	"in":        IN,
	"return":    RETURN,
	"catch":     CATCH,
	"struct":    STRUCT,
	"enum":      ENUM,
	"interface": INTERFACE,
	"true":      BOOL_LITERAL,
	"false":     BOOL_LITERAL,
	"none":      NONE_LITERAL,
}

// TokenString returns the name of a token kind, eg "LBRACE".
func TokenString(k TokenKind) string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

func (k TokenKind) String() string {
	return TokenString(k)
}

// Describe returns how a token kind reads in messages: the quoted spelling
// for fixed tokens and a lower case name otherwise.
func (k TokenKind) Describe() string {
	if s, ok := tokenSpellings[k]; ok {
		return "'" + s + "'"
	}
	switch k {
	case EOF:
		return "end of input"
	case IDENTIFIER:
		return "identifier"
	case TYPE_IDENTIFIER:
		return "type name"
	case STRING_LITERAL:
		return "string literal"
	case INT_LITERAL:
		return "integer literal"
	}
	return TokenString(k)
}

// IsTrivia reports whether tokens of this kind are skipped by the parser.
func (k TokenKind) IsTrivia() bool {
	return k == WHITESPACE || k == LINE_COMMENT || k == BLOCK_COMMENT
}

// IsKeyword reports whether k is one of the reserved words.
func (k TokenKind) IsKeyword() bool {
	return k >= IMPORT && k <= INTERFACE
}

// Token is a single lexeme.  Text is the exact source slice so concatenating
// the Text of every token of a buffer reproduces the buffer.
type Token struct {
	Kind TokenKind
	Text string
	Span cst.Span

	// Fatal is set on the ILLEGAL token produced for an unterminated string
	// or block comment, which swallows the rest of the input.
	Fatal bool
}

func (t Token) IsTrivia() bool {
	return t.Kind.IsTrivia()
}

// Describe returns the token as it should read in a diagnostic.
func (t Token) Describe() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t.Text)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", TokenString(t.Kind), t.Text, t.Span.Start)
}
