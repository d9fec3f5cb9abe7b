package parser

import (
	"github.com/panyam/ferret/cst"
)

// ParseExpression parses a full expression.
func (p *LLParser) ParseExpression() (*cst.Node, error) {
	return p.ParseChainedExpr(LowestPrecedence)
}

// parseCondition parses the expression of an if/while condition or a for
// range.  In there a `{` always opens the body, never a literal.
func (p *LLParser) parseCondition() (*cst.Node, error) {
	return p.withCompositeLits(false, p.ParseExpression)
}

// parseNestedExpression parses an expression inside brackets of some kind
// where literals are allowed again.
func (p *LLParser) parseNestedExpression() (*cst.Node, error) {
	return p.withCompositeLits(true, p.ParseExpression)
}

// ParseUnaryExpr parses prefix operators (right recursive) followed by a
// postfix expression.
func (p *LLParser) ParseUnaryExpr() (*cst.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	tok := p.PeekToken()
	if prefixOperators[tok.Kind] {
		op := p.Advance()
		operand, err := p.ParseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return cst.NewBuilder(cst.KindUnaryExpression).
			AddField("operator", p.leaf(op)).
			AddField("operand", operand).
			Build(), nil
	}
	primary, err := p.ParsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(primary)
}

// parsePostfix applies calls, field accesses and index operations to
// operand, left to right.
func (p *LLParser) parsePostfix(operand *cst.Node) (*cst.Node, error) {
	for {
		switch p.PeekToken().Kind {
		case LPAREN:
			args, err := p.ParseArgList()
			if err != nil {
				return nil, err
			}
			operand = cst.NewBuilder(cst.KindCallExpression).
				AddField("function", operand).
				AddField("arguments", args).
				Build()
		case DOT:
			dot := p.Advance()
			field, err := p.parseFieldName()
			if err != nil {
				return nil, err
			}
			operand = cst.NewBuilder(cst.KindFieldExpression).
				AddField("value", operand).
				Add(p.leaf(dot)).
				AddField("field", field).
				Build()
		case LBRACKET:
			lb := p.Advance()
			index, err := p.parseNestedExpression()
			if err != nil {
				return nil, err
			}
			rb, err := p.expectAfter(RBRACKET, "index")
			if err != nil {
				return nil, err
			}
			operand = cst.NewBuilder(cst.KindIndexExpression).
				AddField("array", operand).
				Add(p.leaf(lb)).
				AddField("index", index).
				Add(p.leaf(rb)).
				Build()
		default:
			return operand, nil
		}
	}
}

// ParseArgList parses `(a, b, ...)` with an optional trailing comma.
func (p *LLParser) ParseArgList() (*cst.Node, error) {
	lp, err := p.AdvanceIf(LPAREN)
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindArgumentList).Add(p.leaf(lp))
	if err := p.parseExprList(b, RPAREN); err != nil {
		return nil, err
	}
	rp, err := p.expectAfter(RPAREN, "arguments")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(rp)).Build(), nil
}

// parseExprList parses comma separated expressions into b up to (not
// including) closer.
func (p *LLParser) parseExprList(b *cst.Builder, closer TokenKind) error {
	for p.PeekToken().Kind != closer {
		expr, err := p.parseNestedExpression()
		if err != nil {
			return err
		}
		b.Add(expr)
		if p.PeekToken().Kind != COMMA {
			return nil
		}
		b.Add(p.leaf(p.Advance()))
	}
	return nil
}

// ParsePrimaryExpr parses an operand: names, literals and bracketed forms.
func (p *LLParser) ParsePrimaryExpr() (*cst.Node, error) {
	tok := p.PeekToken()
	switch tok.Kind {
	case IDENTIFIER, TYPE_IDENTIFIER:
		if p.PeekN(1).Kind == COLONCOLON {
			return p.parseScopedIdentifier()
		}
		if tok.Kind == TYPE_IDENTIFIER {
			return nil, p.Errorf(tok, "expected expression, found type name %s", tok.Describe())
		}
		return p.leaf(p.Advance()), nil
	case INT_LITERAL, FLOAT_LITERAL, STRING_LITERAL, BYTE_LITERAL, BOOL_LITERAL, NONE_LITERAL:
		return p.leaf(p.Advance()), nil
	case LPAREN:
		lp := p.Advance()
		inner, err := p.parseNestedExpression()
		if err != nil {
			return nil, err
		}
		rp, err := p.expectAfter(RPAREN, "expression")
		if err != nil {
			return nil, err
		}
		return cst.NewBuilder(cst.KindParenthesizedExpression).Add(p.leaf(lp)).Add(inner).Add(p.leaf(rp)).Build(), nil
	case LBRACKET:
		return p.parseArrayLiteral()
	case LBRACE:
		if !p.noCompositeLit {
			return p.ParseCompositeLiteral()
		}
	case STRUCT:
		return p.parseAnonymousStructLiteral()
	case ENUM:
		return p.parseAnonymousEnumLiteral()
	}
	return nil, p.Errorf(tok, "expected expression, found %s", tok.Describe())
}

// parseScopedIdentifier parses `scope::name`.
func (p *LLParser) parseScopedIdentifier() (*cst.Node, error) {
	scope := p.Advance()
	sep := p.Advance()
	name, err := p.AdvanceIf(IDENTIFIER, TYPE_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindScopedIdentifier).
		AddField("scope", p.leaf(scope)).
		Add(p.leaf(sep)).
		AddField("name", p.leaf(name)).
		Build(), nil
}

func (p *LLParser) parseArrayLiteral() (*cst.Node, error) {
	lb := p.Advance()
	b := cst.NewBuilder(cst.KindArrayLiteral).Add(p.leaf(lb))
	if err := p.parseExprList(b, RBRACKET); err != nil {
		return nil, err
	}
	rb, err := p.expectAfter(RBRACKET, "array elements")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(rb)).Build(), nil
}

// ParseCompositeLiteral parses a braced literal.  One token after the `{`
// decides its form:
//
//	{ }                        empty
//	{ .x = 1, .y = 2 } [as T]  struct
//	{ k => v, ... }            map
//
// An entry of the other form is reported once as an ambiguity and parsed
// anyway.
func (p *LLParser) ParseCompositeLiteral() (*cst.Node, error) {
	return p.withCompositeLits(true, func() (*cst.Node, error) {
		lb, err := p.AdvanceIf(LBRACE)
		if err != nil {
			return nil, err
		}
		b := cst.NewBuilder(cst.KindCompositeLiteral).Add(p.leaf(lb))
		isStruct := p.PeekToken().Kind == DOT
		reported := false
		for p.PeekToken().Kind != RBRACE {
			first := p.PeekToken()
			entryIsStruct := first.Kind == DOT
			if entryIsStruct != isStruct && !reported {
				reported = true
				p.report(StructuralAmbiguityError, first.Span,
					"composite literal mixes struct field initializers and map entries")
			}
			var entry *cst.Node
			if entryIsStruct {
				entry, err = p.parseStructFieldInit()
			} else {
				entry, err = p.parseMapEntry()
			}
			if err != nil {
				return nil, err
			}
			b.Add(entry)
			if p.PeekToken().Kind != COMMA {
				break
			}
			b.Add(p.leaf(p.Advance()))
		}
		rb, err := p.expectAfter(RBRACE, "composite literal")
		if err != nil {
			return nil, err
		}
		b.Add(p.leaf(rb))
		if isStruct && p.PeekToken().Kind == AS {
			b.Add(p.leaf(p.Advance()))
			typ, err := p.ParseType()
			if err != nil {
				return nil, err
			}
			b.AddField("type", typ)
		}
		return b.Build(), nil
	})
}

// parseStructFieldInit parses `.name = value`.
func (p *LLParser) parseStructFieldInit() (*cst.Node, error) {
	dot := p.Advance()
	name, err := p.parseFieldName()
	if err != nil {
		return nil, err
	}
	eq, err := p.AdvanceIf(ASSIGN)
	if err != nil {
		return nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindStructFieldInit).
		Add(p.leaf(dot)).
		AddField("name", name).
		Add(p.leaf(eq)).
		AddField("value", value).
		Build(), nil
}

// parseMapEntry parses `key => value`.
func (p *LLParser) parseMapEntry() (*cst.Node, error) {
	key, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	arrow, err := p.AdvanceIf(FAT_ARROW)
	if err != nil {
		return nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindMapEntry).
		AddField("key", key).
		Add(p.leaf(arrow)).
		AddField("value", value).
		Build(), nil
}

// parseAnonymousStructLiteral parses `struct { .x: T, ... }` in expression
// position.
func (p *LLParser) parseAnonymousStructLiteral() (*cst.Node, error) {
	kw := p.Advance()
	lb, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindAnonymousStructLiteral).Add(p.leaf(kw)).Add(p.leaf(lb))
	for p.PeekToken().Kind == DOT {
		field, err := p.parseFieldDeclaration()
		if err != nil {
			return nil, err
		}
		b.Add(field)
	}
	rb, err := p.expectAfter(RBRACE, "struct fields")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(rb)).Build(), nil
}

// parseAnonymousEnumLiteral parses `enum { A, B }` in expression position.
func (p *LLParser) parseAnonymousEnumLiteral() (*cst.Node, error) {
	kw := p.Advance()
	lb, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindAnonymousEnumLiteral).Add(p.leaf(kw)).Add(p.leaf(lb))
	for p.PeekToken().Kind != RBRACE {
		name, err := p.AdvanceIf(TYPE_IDENTIFIER)
		if err != nil {
			return nil, err
		}
		b.Add(p.leaf(name))
		if p.PeekToken().Kind != COMMA {
			break
		}
		b.Add(p.leaf(p.Advance()))
	}
	rb, err := p.expectAfter(RBRACE, "enum variants")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(rb)).Build(), nil
}
