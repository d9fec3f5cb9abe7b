package parser

import (
	"github.com/panyam/ferret/cst"
)

type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

type PrecedenceInfo struct {
	Precedence int
	Assoc      Associativity
}

// nextMin is the minimum precedence the right operand is parsed at.  Left
// and non associative operators only admit strictly tighter operators on
// their right; right associative ones admit themselves.
func (pi PrecedenceInfo) nextMin() int {
	if pi.Assoc == AssocRight {
		return pi.Precedence
	}
	return pi.Precedence + 1
}

// Precedencer reports the binding strength of infix operators.
type Precedencer interface {
	PrecedenceFor(op TokenKind) (PrecedenceInfo, bool)
}

// Precedence levels of the expression grammar, loosest first.  Prefix
// operators bind at UnaryPrecedence, call/field/index are postfix and bind
// tighter still.
const (
	LowestPrecedence = 1
	UnaryPrecedence  = 9
	CallPrecedence   = 10
	MemberPrecedence = 11
)

type precedenceTable map[TokenKind]PrecedenceInfo

func (t precedenceTable) PrecedenceFor(op TokenKind) (PrecedenceInfo, bool) {
	info, ok := t[op]
	return info, ok
}

// DefaultPrecedencer is the operator table of the language.
var DefaultPrecedencer Precedencer = precedenceTable{
	OR:       {1, AssocLeft},
	CATCH:    {1, AssocLeft},
	AND:      {2, AssocLeft},
	DOTDOT:   {2, AssocLeft},
	EQ:       {3, AssocLeft},
	NEQ:      {3, AssocLeft},
	LT:       {4, AssocLeft},
	GT:       {4, AssocLeft},
	LTE:      {4, AssocLeft},
	GTE:      {4, AssocLeft},
	PLUS:     {5, AssocLeft},
	MINUS:    {5, AssocLeft},
	MUL:      {6, AssocLeft},
	DIV:      {6, AssocLeft},
	MOD:      {6, AssocLeft},
	POW:      {7, AssocRight},
	COALESCE: {8, AssocLeft},
}

var prefixOperators = map[TokenKind]bool{
	NOT:   true,
	MINUS: true,
	AMP:   true,
}

// ParseChainedExpr parses a sequence of operands joined by infix operators
// of at least minPrec binding strength (precedence climbing).
func (p *LLParser) ParseChainedExpr(minPrec int) (*cst.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	left, err := p.ParseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.PeekToken()
		info, ok := p.Precedencer.PrecedenceFor(tok.Kind)
		if !ok || info.Precedence < minPrec {
			return left, nil
		}
		if tok.Kind == CATCH {
			if left, err = p.parseCatchExpr(left, info); err != nil {
				return nil, err
			}
			continue
		}

		op := p.Advance()
		right, err := p.ParseChainedExpr(info.nextMin())
		if err != nil {
			return nil, err
		}
		if op.Kind == DOTDOT {
			left = cst.NewBuilder(cst.KindRangeExpression).
				AddField("start", left).
				Add(p.leaf(op)).
				AddField("end", right).
				Build()
			continue
		}
		left = cst.NewBuilder(cst.KindBinaryExpression).
			AddField("left", left).
			AddField("operator", p.leaf(op)).
			AddField("right", right).
			Build()
	}
}

// parseCatchExpr parses the part after `expr catch`:
//
//	expr catch fallback
//	expr catch err { handler } fallback
//
// The handler form needs two tokens of lookahead (an identifier followed by
// `{`) and is not available where a `{` would start a block.
func (p *LLParser) parseCatchExpr(expr *cst.Node, info PrecedenceInfo) (*cst.Node, error) {
	kw := p.Advance()
	b := cst.NewBuilder(cst.KindCatchExpression).AddField("expression", expr).Add(p.leaf(kw))
	if !p.noCompositeLit && p.PeekToken().Kind == IDENTIFIER && p.PeekN(1).Kind == LBRACE {
		name := p.Advance()
		b.AddField("error_name", p.leaf(name))
		handler, err := p.ParseBlock()
		if err != nil {
			return nil, err
		}
		b.AddField("error_handler", handler)
	}
	fallback, err := p.ParseChainedExpr(info.nextMin())
	if err != nil {
		return nil, err
	}
	return b.AddField("fallback", fallback).Build(), nil
}
