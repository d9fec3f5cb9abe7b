package cst

// Node kinds.  These mirror the rule names of the ferret grammar so that
// consumers written against a tree-sitter host see the same names here.
const (
	KindSourceFile = "source_file"
	KindError      = "ERROR"

	// Declarations and statements
	KindImportDeclaration   = "import_declaration"
	KindVariableDeclaration = "variable_declaration"
	KindConstantDeclaration = "constant_declaration"
	KindTypeDeclaration     = "type_declaration"
	KindFunctionDeclaration = "function_declaration"
	KindMethodReceiver      = "method_receiver"
	KindParameterList       = "parameter_list"
	KindParameter           = "parameter"
	KindBlock               = "block"
	KindIfStatement         = "if_statement"
	KindWhileStatement      = "while_statement"
	KindForStatement        = "for_statement"
	KindReturnStatement     = "return_statement"
	KindExpressionStatement = "expression_statement"

	// Types
	KindPrimitiveType        = "primitive_type"
	KindTypeIdentifier       = "type_identifier"
	KindScopedTypeIdentifier = "scoped_type_identifier"
	KindArrayType            = "array_type"
	KindDynamicArrayType     = "dynamic_array_type"
	KindMapType              = "map_type"
	KindOptionalType         = "optional_type"
	KindReferenceType        = "reference_type"
	KindResultType           = "result_type"
	KindStructType           = "struct_type"
	KindStructBody           = "struct_body"
	KindFieldDeclaration     = "field_declaration"
	KindEnumType             = "enum_type"
	KindEnumBody             = "enum_body"
	KindEnumVariant          = "enum_variant"
	KindInterfaceType        = "interface_type"
	KindInterfaceBody        = "interface_body"
	KindInterfaceMethod      = "interface_method"

	// Expressions
	KindIdentifier              = "identifier"
	KindFieldIdentifier         = "field_identifier"
	KindScopedIdentifier        = "scoped_identifier"
	KindIntegerLiteral          = "integer_literal"
	KindFloatLiteral            = "float_literal"
	KindStringLiteral           = "string_literal"
	KindByteLiteral             = "byte_literal"
	KindBooleanLiteral          = "boolean_literal"
	KindNoneLiteral             = "none_literal"
	KindBinaryExpression        = "binary_expression"
	KindUnaryExpression         = "unary_expression"
	KindCallExpression          = "call_expression"
	KindArgumentList            = "argument_list"
	KindFieldExpression         = "field_expression"
	KindIndexExpression         = "index_expression"
	KindCatchExpression         = "catch_expression"
	KindRangeExpression         = "range_expression"
	KindParenthesizedExpression = "parenthesized_expression"
	KindCompositeLiteral        = "composite_literal"
	KindMapEntry                = "map_entry"
	KindStructFieldInit         = "struct_field_init"
	KindArrayLiteral            = "array_literal"
	KindAnonymousStructLiteral  = "anonymous_struct_literal"
	KindAnonymousEnumLiteral    = "anonymous_enum_literal"
)

var typeKinds = map[string]bool{
	KindPrimitiveType:        true,
	KindTypeIdentifier:       true,
	KindScopedTypeIdentifier: true,
	KindArrayType:            true,
	KindDynamicArrayType:     true,
	KindMapType:              true,
	KindOptionalType:         true,
	KindReferenceType:        true,
	KindResultType:           true,
	KindStructType:           true,
	KindEnumType:             true,
	KindInterfaceType:        true,
}

// IsTypeKind reports whether kind names a node produced by the type grammar.
func IsTypeKind(kind string) bool {
	return typeKinds[kind]
}

// LiteralKind classifies a composite_literal node.
type LiteralKind int

const (
	NotALiteral LiteralKind = iota
	EmptyLiteral
	StructLiteral
	MapLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case EmptyLiteral:
		return "Empty"
	case StructLiteral:
		return "Struct"
	case MapLiteral:
		return "Map"
	}
	return "NotALiteral"
}

// CompositeKind returns the sub-kind of a composite_literal, decided by its
// first entry.
func CompositeKind(n *Node) LiteralKind {
	if n == nil || n.Kind() != KindCompositeLiteral {
		return NotALiteral
	}
	for _, child := range n.children {
		switch child.Kind() {
		case KindStructFieldInit:
			return StructLiteral
		case KindMapEntry:
			return MapLiteral
		}
	}
	return EmptyLiteral
}
