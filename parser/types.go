package parser

import (
	"github.com/panyam/ferret/cst"
)

// ParseType parses a type in any position other than a function return:
//
//	&T    reference, T may itself be optional
//	T?    optional
//	[N]T  []T  map[K]V
//	struct { ... }  enum { ... }  interface { ... }
//	Foo  scope::Foo  i32 ...
func (p *LLParser) ParseType() (*cst.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.PeekToken().Kind == AMP {
		return p.parseReferenceType()
	}
	return p.parseOptionalType()
}

// ParseReturnType parses a function or method return type, which may be
// a result type `E ! S`.  Results nest to the right.
func (p *LLParser) ParseReturnType() (*cst.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	errType, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	if p.PeekToken().Kind != NOT {
		return errType, nil
	}
	bang := p.Advance()
	success, err := p.ParseReturnType()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindResultType).
		AddField("error_type", errType).
		Add(p.leaf(bang)).
		AddField("success_type", success).
		Build(), nil
}

func (p *LLParser) parseReferenceType() (*cst.Node, error) {
	amp := p.Advance()
	if next := p.PeekToken(); next.Kind == AMP {
		return nil, p.Errorf(next, "reference type cannot wrap %s", cst.KindReferenceType)
	}
	inner, err := p.parseOptionalType()
	if err != nil {
		return nil, err
	}
	if !cst.ReferenceCanWrap(cst.TagForNodeKind(inner.Kind())) {
		return nil, p.Errorf(amp, "reference type cannot wrap %s", inner.Kind())
	}
	return cst.NewBuilder(cst.KindReferenceType).Add(p.leaf(amp)).AddField("type", inner).Build(), nil
}

func (p *LLParser) parseOptionalType() (*cst.Node, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	switch tok := p.PeekToken(); tok.Kind {
	case QUESTION:
		return p.wrapOptional(base)
	case COALESCE:
		// `??` lexes as one token but is two optional markers here
		return nil, p.Errorf(tok, "optional type cannot wrap %s", cst.KindOptionalType)
	}
	return base, nil
}

// wrapOptional consumes the `?` after inner.  A second `?` is an error
// since optionals do not nest.
func (p *LLParser) wrapOptional(inner *cst.Node) (*cst.Node, error) {
	q := p.Advance()
	if !cst.OptionalCanWrap(cst.TagForNodeKind(inner.Kind())) {
		return nil, p.Errorf(q, "optional type cannot wrap %s", inner.Kind())
	}
	node := cst.NewBuilder(cst.KindOptionalType).AddField("type", inner).Add(p.leaf(q)).Build()
	if next := p.PeekToken(); next.Kind == QUESTION || next.Kind == COALESCE {
		return nil, p.Errorf(next, "optional type cannot wrap %s", cst.KindOptionalType)
	}
	return node, nil
}

// parseBaseType parses a type without any reference or optional wrapper.
func (p *LLParser) parseBaseType() (*cst.Node, error) {
	tok := p.PeekToken()
	switch tok.Kind {
	case LBRACKET:
		return p.parseArrayType()
	case IDENTIFIER:
		next := p.PeekN(1).Kind
		switch {
		case tok.Text == "map" && next == LBRACKET:
			return p.parseMapType()
		case next == COLONCOLON:
			return p.parseScopedTypeIdentifier()
		case cst.IsPrimitive(tok.Text):
			return p.leafAs(cst.KindPrimitiveType, p.Advance()), nil
		}
	case TYPE_IDENTIFIER:
		if p.PeekN(1).Kind == COLONCOLON {
			return p.parseScopedTypeIdentifier()
		}
		return p.leaf(p.Advance()), nil
	case STRUCT:
		kw := p.Advance()
		body, err := p.parseStructBody()
		if err != nil {
			return nil, err
		}
		return cst.NewBuilder(cst.KindStructType).Add(p.leaf(kw)).AddField("body", body).Build(), nil
	case ENUM:
		kw := p.Advance()
		body, err := p.parseEnumBody()
		if err != nil {
			return nil, err
		}
		return cst.NewBuilder(cst.KindEnumType).Add(p.leaf(kw)).AddField("body", body).Build(), nil
	case INTERFACE:
		kw := p.Advance()
		body, err := p.parseInterfaceBody()
		if err != nil {
			return nil, err
		}
		return cst.NewBuilder(cst.KindInterfaceType).Add(p.leaf(kw)).AddField("body", body).Build(), nil
	}
	return nil, p.Errorf(tok, "expected type, found %s", tok.Describe())
}

// parseScopedTypeIdentifier parses `scope::Name`.
func (p *LLParser) parseScopedTypeIdentifier() (*cst.Node, error) {
	scope := p.Advance()
	sep := p.Advance()
	name, err := p.AdvanceIf(TYPE_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindScopedTypeIdentifier).
		AddField("scope", p.leaf(scope)).
		Add(p.leaf(sep)).
		AddField("name", p.leaf(name)).
		Build(), nil
}

// parseArrayType parses `[N]T` or `[]T`.  The element type is parsed
// greedily so `[]T?` is a slice of optionals.
func (p *LLParser) parseArrayType() (*cst.Node, error) {
	lb := p.Advance()
	kind := cst.KindDynamicArrayType
	var size *cst.Node
	if tok := p.PeekToken(); tok.Kind == INT_LITERAL {
		kind = cst.KindArrayType
		size = p.leaf(p.Advance())
	} else if tok.Kind != RBRACKET {
		return nil, p.Errorf(tok, "expected array size or ']', found %s", tok.Describe())
	}
	rb, err := p.AdvanceIf(RBRACKET)
	if err != nil {
		return nil, err
	}
	elem, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(kind).
		Add(p.leaf(lb)).
		AddField("size", size).
		Add(p.leaf(rb)).
		AddField("element_type", elem).
		Build(), nil
}

// parseMapType parses `map[K]V`.
func (p *LLParser) parseMapType() (*cst.Node, error) {
	kw := p.Advance()
	lb := p.Advance()
	key, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	rb, err := p.AdvanceIf(RBRACKET)
	if err != nil {
		return nil, err
	}
	value, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindMapType).
		Add(p.anonLeaf(kw)).
		Add(p.leaf(lb)).
		AddField("key_type", key).
		Add(p.leaf(rb)).
		AddField("value_type", value).
		Build(), nil
}

// parseStructBody parses `{ .name: T, ... }`.  The comma after the last
// field may be left out.
func (p *LLParser) parseStructBody() (*cst.Node, error) {
	lb, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindStructBody).Add(p.leaf(lb))
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

// parseFieldDeclaration parses `.name: T,` with the trailing comma only
// optional right before the closing brace.
func (p *LLParser) parseFieldDeclaration() (*cst.Node, error) {
	dot := p.Advance()
	name, err := p.parseFieldName()
	if err != nil {
		return nil, err
	}
	colon, err := p.AdvanceIf(COLON)
	if err != nil {
		return nil, err
	}
	typ, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindFieldDeclaration).
		Add(p.leaf(dot)).
		AddField("name", name).
		Add(p.leaf(colon)).
		AddField("type", typ)
	if p.PeekToken().Kind == RBRACE {
		return b.Build(), nil
	}
	comma, err := p.AdvanceIf(COMMA)
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(comma)).Build(), nil
}

// parseFieldName reads the name after a `.` and labels it a
// field_identifier.
func (p *LLParser) parseFieldName() (*cst.Node, error) {
	tok, err := p.AdvanceIf(IDENTIFIER, TYPE_IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return p.leafAs(cst.KindFieldIdentifier, tok), nil
}

// parseEnumBody parses `{ A, B, }`.
func (p *LLParser) parseEnumBody() (*cst.Node, error) {
	lb, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindEnumBody).Add(p.leaf(lb))
	for p.PeekToken().Kind != RBRACE {
		name, err := p.AdvanceIf(TYPE_IDENTIFIER)
		if err != nil {
			return nil, err
		}
		b.Add(cst.NewBuilder(cst.KindEnumVariant).AddField("name", p.leaf(name)).Build())
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

// parseInterfaceBody parses `{ name(params) [-> R]; ... }`.
func (p *LLParser) parseInterfaceBody() (*cst.Node, error) {
	lb, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindInterfaceBody).Add(p.leaf(lb))
	for p.PeekToken().Kind == IDENTIFIER {
		method, err := p.parseInterfaceMethod()
		if err != nil {
			return nil, err
		}
		b.Add(method)
	}
	rb, err := p.expectAfter(RBRACE, "interface methods")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(rb)).Build(), nil
}

func (p *LLParser) parseInterfaceMethod() (*cst.Node, error) {
	name := p.Advance()
	params, err := p.ParseParameterList()
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindInterfaceMethod).
		AddField("name", p.leaf(name)).
		AddField("parameters", params)
	if p.PeekToken().Kind == ARROW {
		b.Add(p.leaf(p.Advance()))
		ret, err := p.ParseReturnType()
		if err != nil {
			return nil, err
		}
		b.AddField("return_type", ret)
	}
	semi, err := p.expectAfter(SEMICOLON, "interface method")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(semi)).Build(), nil
}

// ParseParameterList parses `(name: T, ...)` with an optional trailing
// comma.
func (p *LLParser) ParseParameterList() (*cst.Node, error) {
	lp, err := p.AdvanceIf(LPAREN)
	if err != nil {
		return nil, err
	}
	b := cst.NewBuilder(cst.KindParameterList).Add(p.leaf(lp))
	for p.PeekToken().Kind != RPAREN {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		b.Add(param)
		if p.PeekToken().Kind != COMMA {
			break
		}
		b.Add(p.leaf(p.Advance()))
	}
	rp, err := p.expectAfter(RPAREN, "parameters")
	if err != nil {
		return nil, err
	}
	return b.Add(p.leaf(rp)).Build(), nil
}

func (p *LLParser) parseParameter() (*cst.Node, error) {
	name, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	colon, err := p.AdvanceIf(COLON)
	if err != nil {
		return nil, err
	}
	typ, err := p.ParseType()
	if err != nil {
		return nil, err
	}
	return cst.NewBuilder(cst.KindParameter).
		AddField("name", p.leaf(name)).
		Add(p.leaf(colon)).
		AddField("type", typ).
		Build(), nil
}
