package parser

import (
	"github.com/panyam/ferret/cst"
)

// ParseStmt parses a single statement or declaration.
func (p *LLParser) ParseStmt() (*cst.Node, error) {
	switch p.PeekToken().Kind {
	case IMPORT:
		return p.ParseImportDecl()
	case LET:
		return p.ParseVariableDecl()
	case CONST:
		return p.ParseConstantDecl()
	case TYPE:
		return p.ParseTypeDecl()
	case FN:
		return p.ParseFunctionDecl()
	case IF:
		return p.ParseIfStmt()
	case WHILE:
		return p.ParseWhileStmt()
	case FOR:
		return p.ParseForStmt()
	case RETURN:
		return p.ParseReturnStmt()
	}
	return p.ParseExpressionStmt()
}

// ParseImportDecl parses `import "path" [as alias];`.
func (p *LLParser) ParseImportDecl() (*cst.Node, error) {
	kw := p.Advance()
	b := cst.NewBuilder(cst.KindImportDeclaration).Add(p.leaf(kw))
	path, err := p.AdvanceIf(STRING_LITERAL)
	if err != nil {
		return nil, err
	}
	b.AddField("path", p.leaf(path))
	if p.PeekToken().Kind == AS {
		b.Add(p.leaf(p.Advance()))
		alias, err := p.AdvanceIf(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		b.AddField("alias", p.leaf(alias))
	}
	semi, err := p.expectAfter(SEMICOLON, "import declaration")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(semi)).Build(), nil
}

// ParseVariableDecl parses `let name [: T] (:= | =) value;`.
func (p *LLParser) ParseVariableDecl() (*cst.Node, error) {
	return p.parseBinding(cst.KindVariableDeclaration, LET_ASSIGN, ASSIGN)
}

// ParseConstantDecl parses `const name [: T] := value;`.
func (p *LLParser) ParseConstantDecl() (*cst.Node, error) {
	return p.parseBinding(cst.KindConstantDeclaration, LET_ASSIGN)
}

func (p *LLParser) parseBinding(kind string, assignOps ...TokenKind) (*cst.Node, error) {
	kw := p.Advance()
	b := cst.NewBuilder(kind).Add(p.leaf(kw))
	name, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	b.AddField("name", p.leaf(name))
	if p.PeekToken().Kind == COLON {
		b.Add(p.leaf(p.Advance()))
		typ, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		b.AddField("type", typ)
	}
	assign, err := p.AdvanceIf(assignOps...)
	if err != nil {
		return nil, err
	}
	b.Add(p.leaf(assign))
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	b.AddField("value", value)
	semi, err := p.expectAfter(SEMICOLON, kw.Text+" declaration")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(semi)).Build(), nil
}

// ParseTypeDecl parses `type Name T;`.
func (p *LLParser) ParseTypeDecl() (*cst.Node, error) {
	kw := p.Advance()
	name, err := p.AdvanceIf(TYPE_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	typ, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	semi, err := p.expectAfter(SEMICOLON, "type declaration")
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindTypeDeclaration).
		Add(p.leaf(kw)).
		AddField("name", p.leaf(name)).
		AddField("type", typ).
		Add(p.leaf(semi)).
		Build(), nil
}

// ParseFunctionDecl parses
//
//	fn [(recv: [&]T[?])] name(params) [-> R] { body }
func (p *LLParser) ParseFunctionDecl() (*cst.Node, error) {
	kw := p.Advance()
	b := cst.NewBuilder(cst.KindFunctionDeclaration).Add(p.leaf(kw))
	if p.PeekToken().Kind == LPAREN {
		recv, err := p.parseMethodReceiver()
		if err != nil {
			return nil, err
		}
		b.AddField("receiver", recv)
	}
	name, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	b.AddField("name", p.leaf(name))
	params, err := p.ParseParameterList()
	if err != nil {
		return nil, err
	}
	b.AddField("parameters", params)
	if p.PeekToken().Kind == ARROW {
		b.Add(p.leaf(p.Advance()))
		ret, err := p.ParseReturnType()
		if err != nil {
			return nil, err
		}
		b.AddField("return_type", ret)
	}
	body, err := p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return b.AddField("body", body).Build(), nil
}

// parseMethodReceiver parses `(name: [&]T[?])`.  The `&` and `?` are kept
// as their own fields instead of wrapping the type.
func (p *LLParser) parseMethodReceiver() (*cst.Node, error) {
	lp := p.Advance()
	b := cst.NewBuilder(cst.KindMethodReceiver).Add(p.leaf(lp))
	name, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	b.AddField("name", p.leaf(name))
	colon, err := p.AdvanceIf(COLON)
	if err != nil {
		return nil, err
	}
	b.Add(p.leaf(colon))
	if p.PeekToken().Kind == AMP {
		b.AddField("reference", p.leaf(p.Advance()))
	}
	typ, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	b.AddField("type", typ)
	if p.PeekToken().Kind == QUESTION {
		b.AddField("optional", p.leaf(p.Advance()))
	}
	rp, err := p.expectAfter(RPAREN, "method receiver")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(rp)).Build(), nil
}

// ParseBlock parses `{ statements }`.  Errors inside are recovered from
// statement by statement; only a missing `}` fails the block.
func (p *LLParser) ParseBlock() (*cst.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.withCompositeLits(true, func() (*cst.Node, error) {
		lb, err := p.AdvanceIf(LBRACE)
		if err != nil {
			return nil, err
		}
		b := cst.NewBuilder(cst.KindBlock).Add(p.leaf(lb))
		p.ParseStmtList(b, RBRACE)
		rb, err := p.expectAfter(RBRACE, "block")
		if err != nil {
			return nil, err
		}
		return b.Add(p.leaf(rb)).Build(), nil
	})
}

// ParseIfStmt parses `if cond { } [else (if ... | { })]`.  An else always
// binds to the nearest if.
func (p *LLParser) ParseIfStmt() (*cst.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	kw := p.Advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.ParseBlock()
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindIfStatement).
		Add(p.leaf(kw)).
		AddField("condition", cond).
		AddField("consequence", then)
	if p.PeekToken().Kind != ELSE {
		return b.Build(), nil
	}
	b.Add(p.leaf(p.Advance()))

	var alt *cst.Node
	switch tok := p.PeekToken(); tok.Kind {
	case IF:
		alt, err = p.ParseIfStmt()
	case LBRACE:
		alt, err = p.ParseBlock()
	default:
		err = p.Errorf(tok, "expected 'if' or '{' after 'else', found %s", tok.Describe())
	}
	if err != nil {
		return nil, err
	}
	return b.AddField("alternative", alt).Build(), nil
}

// ParseWhileStmt parses `while cond { }`.
func (p *LLParser) ParseWhileStmt() (*cst.Node, error) {
	kw := p.Advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindWhileStatement).
		Add(p.leaf(kw)).
		AddField("condition", cond).
		AddField("body", body).
		Build(), nil
}

// ParseForStmt parses `for let v in a..b { }`.
func (p *LLParser) ParseForStmt() (*cst.Node, error) {
	kw := p.Advance()
	let, err := p.AdvanceIf(LET)
	if err != nil {
		return nil, err
	}
	variable, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	in, err := p.AdvanceIf(IN)
	if err != nil {
		return nil, err
	}
	start := p.PeekToken()
	rng, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if rng.Kind() != cst.KindRangeExpression {
		return nil, p.Errorf(start, "expected range expression in for statement, found %s", rng.Kind())
	}
	body, err := p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindForStatement).
		Add(p.leaf(kw)).
		Add(p.leaf(let)).
		AddField("variable", p.leaf(variable)).
		Add(p.leaf(in)).
		AddField("range", rng).
		AddField("body", body).
		Build(), nil
}

// ParseReturnStmt parses `return [expr] [!];`.  A trailing `!` marks error
// propagation.
func (p *LLParser) ParseReturnStmt() (*cst.Node, error) {
	kw := p.Advance()
	b := cst.NewBuilder(cst.KindReturnStatement).Add(p.leaf(kw))
	next := p.PeekToken().Kind
	bareBang := next == NOT && p.PeekN(1).Kind == SEMICOLON
	if next != SEMICOLON && !bareBang {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		b.AddField("value", value)
	}
	if p.PeekToken().Kind == NOT {
		b.AddField("propagate", p.leaf(p.Advance()))
	}
	semi, err := p.expectAfter(SEMICOLON, "return statement")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(semi)).Build(), nil
}

// ParseExpressionStmt parses `expr;`.
func (p *LLParser) ParseExpressionStmt() (*cst.Node, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	semi, err := p.expectAfter(SEMICOLON, "expression")
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindExpressionStatement).Add(expr).Add(p.leaf(semi)).Build(), nil
}
