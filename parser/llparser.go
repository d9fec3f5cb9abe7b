package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/panyam/ferret/cst"
	gfn "github.com/panyam/goutils/fn"
)

// LLParser is a hand written recursive descent parser over the token
// stream of a Lexer.  Trivia is filtered out before the grammar sees it but
// every token pulled from the lexer is kept so the source can be rebuilt.
type LLParser struct {
	lexer *Lexer
	name  string

	// all tokens pulled from the lexer, trivia included
	tokens []Token

	// significant tokens peeked but not consumed yet
	lookahead []Token

	// significant tokens consumed so far, used to build ERROR nodes
	consumed []Token

	// set when a "{" must end an expression instead of opening a literal
	// (if/while conditions and for ranges)
	noCompositeLit bool

	// depth of nested expressions, types and blocks being parsed
	nesting int

	// fatal is the ILLEGAL token that swallowed the rest of the input
	fatal   *Token
	aborted bool

	Precedencer  Precedencer
	PanicOnError bool
	Errors       ErrorCollector
}

func NewLLParser(lexer *Lexer) *LLParser {
	return &LLParser{lexer: lexer, name: lexer.name, Precedencer: DefaultPrecedencer}
}

// Tokens returns every token pulled from the lexer so far.
func (p *LLParser) Tokens() []Token {
	return p.tokens
}

// Aborted reports whether a fatal lexical error stopped the parse.
func (p *LLParser) Aborted() bool {
	return p.aborted
}

// fill makes sure at least n+1 significant tokens are buffered.
func (p *LLParser) fill(n int) {
	for len(p.lookahead) <= n {
		if p.aborted {
			p.lookahead = append(p.lookahead, Token{Kind: EOF, Span: cst.PointSpan(p.lexer.Position())})
			continue
		}
		tok := p.lexer.NextToken()
		if tok.Kind == EOF {
			p.lookahead = append(p.lookahead, tok)
			continue
		}
		p.tokens = append(p.tokens, tok)
		switch {
		case tok.IsTrivia():
		case tok.Kind == ILLEGAL && tok.Fatal:
			p.fatal = &tok
			p.aborted = true
		case tok.Kind == ILLEGAL:
			// already reported by the lexer
		default:
			p.lookahead = append(p.lookahead, tok)
		}
	}
}

// PeekToken returns the next significant token without consuming it.
func (p *LLParser) PeekToken() Token {
	p.fill(0)
	return p.lookahead[0]
}

// PeekN returns the significant token n positions ahead (0 is the next).
func (p *LLParser) PeekN(n int) Token {
	p.fill(n)
	return p.lookahead[n]
}

// Advance consumes and returns the next significant token.  EOF is never
// consumed.
func (p *LLParser) Advance() Token {
	tok := p.PeekToken()
	if tok.Kind == EOF {
		return tok
	}
	p.lookahead = p.lookahead[1:]
	p.consumed = append(p.consumed, tok)
	return tok
}

// MaxNesting bounds how deeply expressions, types and blocks may nest.
// Deeper input fails the enclosing statement instead of exhausting the
// stack.
const MaxNesting = 1000

// enter descends one nesting level.  Callers that get a nil error must
// call leave on the way out.
func (p *LLParser) enter() error {
	if p.nesting >= MaxNesting {
		return p.Errorf(p.PeekToken(), "nesting too deep (more than %d levels)", MaxNesting)
	}
	p.nesting++
	return nil
}

func (p *LLParser) leave() {
	p.nesting--
}

// Errorf records a syntax error anchored at tok and returns it.
func (p *LLParser) Errorf(tok Token, format string, args ...any) error {
	return p.report(SyntaxError, tok.Span, fmt.Sprintf(format, args...))
}

func (p *LLParser) report(kind DiagnosticKind, span cst.Span, msg string) error {
	d := &Diagnostic{Kind: kind, Filename: p.name, Span: span, Message: msg}
	// After a fatal lexical error nothing that follows is meaningful.
	if !p.aborted {
		p.Errors.Add(d)
	}
	if p.PanicOnError {
		panic(d)
	}
	return d
}

// Expect checks that the next token is one of the given kinds.  It does NOT
// advance.
func (p *LLParser) Expect(kinds ...TokenKind) (Token, error) {
	tok := p.PeekToken()
	if slices.Contains(kinds, tok.Kind) {
		return tok, nil
	}
	if len(kinds) == 1 {
		return tok, p.Errorf(tok, "expected %s, found %s", kinds[0].Describe(), tok.Describe())
	}
	expected := gfn.Map(kinds, func(k TokenKind) string { return k.Describe() })
	return tok, p.Errorf(tok, "expected one of [%s], found %s", strings.Join(expected, ", "), tok.Describe())
}

// AdvanceIf expects one of the given kinds and consumes it.
func (p *LLParser) AdvanceIf(kinds ...TokenKind) (Token, error) {
	if _, err := p.Expect(kinds...); err != nil {
		return Token{}, err
	}
	return p.Advance(), nil
}

// expectAfter consumes a token of the given kind, naming the construct it
// terminates in the error.
func (p *LLParser) expectAfter(kind TokenKind, what string) (Token, error) {
	tok := p.PeekToken()
	if tok.Kind != kind {
		return tok, p.Errorf(tok, "expected %s after %s, found %s", kind.Describe(), what, tok.Describe())
	}
	return p.Advance(), nil
}

// leaf turns a token into a CST leaf.
func (p *LLParser) leaf(tok Token) *cst.Node {
	switch tok.Kind {
	case IDENTIFIER:
		return cst.NewLeaf(cst.KindIdentifier, true, tok.Text, tok.Span)
	case TYPE_IDENTIFIER:
		return cst.NewLeaf(cst.KindTypeIdentifier, true, tok.Text, tok.Span)
	case INT_LITERAL:
		return cst.NewLeaf(cst.KindIntegerLiteral, true, tok.Text, tok.Span)
	case FLOAT_LITERAL:
		return cst.NewLeaf(cst.KindFloatLiteral, true, tok.Text, tok.Span)
	case STRING_LITERAL:
		return cst.NewLeaf(cst.KindStringLiteral, true, tok.Text, tok.Span)
	case BYTE_LITERAL:
		return cst.NewLeaf(cst.KindByteLiteral, true, tok.Text, tok.Span)
	case BOOL_LITERAL:
		return cst.NewLeaf(cst.KindBooleanLiteral, true, tok.Text, tok.Span)
	case NONE_LITERAL:
		return cst.NewLeaf(cst.KindNoneLiteral, true, tok.Text, tok.Span)
	case ILLEGAL:
		return cst.NewLeaf(cst.KindError, true, tok.Text, tok.Span)
	}
	return cst.NewLeaf("", false, tok.Text, tok.Span)
}

// leafAs turns a token into a named leaf of the given kind.  Used where
// the grammar relabels a token, eg field_identifier or primitive_type.
func (p *LLParser) leafAs(kind string, tok Token) *cst.Node {
	return cst.NewLeaf(kind, true, tok.Text, tok.Span)
}

// anonLeaf turns a token into an anonymous leaf whatever its kind, for
// contextual keywords such as `map`.
func (p *LLParser) anonLeaf(tok Token) *cst.Node {
	return cst.NewLeaf("", false, tok.Text, tok.Span)
}

// Tokens that begin a statement; resynchronisation stops in front of them.
var statementStarts = map[TokenKind]bool{
	IMPORT: true,
	LET:    true,
	CONST:  true,
	TYPE:   true,
	FN:     true,
	IF:     true,
	WHILE:  true,
	FOR:    true,
	RETURN: true,
}

// synchronize skips to the next statement boundary after a syntax error
// and returns an ERROR node holding every token consumed since mark.  It
// stops after a `;`, before a `}` closing the current block or before a
// statement keyword at the same brace depth, and always makes progress.
func (p *LLParser) synchronize(mark int) *cst.Node {
	// braces the failed statement opened are still ours to skip
	depth := 0
	for _, tok := range p.consumed[mark:] {
		switch tok.Kind {
		case LBRACE:
			depth++
		case RBRACE:
			depth--
		}
	}
	depth = max(depth, 0)
	for {
		tok := p.PeekToken()
		if tok.Kind == EOF {
			break
		}
		if depth == 0 {
			if tok.Kind == RBRACE {
				break
			}
			if tok.Kind == SEMICOLON {
				p.Advance()
				break
			}
			if statementStarts[tok.Kind] && len(p.consumed) > mark && !p.afterSelector() {
				break
			}
		}
		switch tok.Kind {
		case LBRACE:
			depth++
		case RBRACE:
			depth--
		}
		p.Advance()
	}

	return p.errorNodeSince(mark)
}

// afterSelector reports whether the last consumed token was a `.` or `::`,
// making a following keyword a misspelt name rather than a new statement.
func (p *LLParser) afterSelector() bool {
	if len(p.consumed) == 0 {
		return false
	}
	last := p.consumed[len(p.consumed)-1].Kind
	return last == DOT || last == COLONCOLON
}

// ParseStmtList parses statements into b until one of the closing kinds
// or EOF.  The closing token is not consumed.  A statement that fails to
// parse is replaced by an ERROR node and parsing carries on after it.
// Stray semicolons between statements are kept as plain leaves.
func (p *LLParser) ParseStmtList(b *cst.Builder, closers ...TokenKind) {
	for {
		tok := p.PeekToken()
		if tok.Kind == EOF || slices.Contains(closers, tok.Kind) {
			return
		}
		if tok.Kind == SEMICOLON {
			b.Add(p.leaf(p.Advance()))
			continue
		}
		if tok.Kind == RBRACE {
			// only reachable at the top level
			p.Errorf(tok, "unmatched '}'")
			mark := len(p.consumed)
			p.Advance()
			b.Add(p.errorNodeSince(mark))
			continue
		}
		mark := len(p.consumed)
		stmt, err := p.ParseStmt()
		if err != nil {
			b.Add(p.synchronize(mark))
			continue
		}
		b.Add(stmt)
	}
}

// errorNodeSince wraps every token consumed since mark in an ERROR node.
func (p *LLParser) errorNodeSince(mark int) *cst.Node {
	b := cst.NewBuilder(cst.KindError)
	for _, tok := range p.consumed[mark:] {
		b.Add(p.leaf(tok))
	}
	if b.Len() == 0 {
		b.SetSpan(cst.PointSpan(p.PeekToken().Span.Start))
	}
	return b.Build()
}

// ParseSourceFile parses a whole compilation unit.  It never fails: errors
// are recorded in p.Errors and show up as ERROR nodes in the tree.
func (p *LLParser) ParseSourceFile() *cst.Node {
	b := cst.NewBuilder(cst.KindSourceFile)
	p.ParseStmtList(b)
	if p.fatal != nil {
		b.Add(cst.NewBuilder(cst.KindError).Add(p.leaf(*p.fatal)).Build())
	}
	end := p.PeekToken().Span.End
	return b.SetSpan(cst.Span{Start: cst.StartPosition, End: end}).Build()
}

// withCompositeLits runs fn with composite literals enabled or disabled,
// restoring the previous mode afterwards.
func (p *LLParser) withCompositeLits(enabled bool, fn func() (*cst.Node, error)) (*cst.Node, error) {
	saved := p.noCompositeLit
	p.noCompositeLit = !enabled
	defer func() { p.noCompositeLit = saved }()
	return fn()
}
