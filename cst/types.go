package cst

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

type TypeTag int

const (
	TypeTagUnknown TypeTag = iota
	TypeTagPrimitive
	TypeTagNamed
	TypeTagArray
	TypeTagDynamicArray
	TypeTagMap
	TypeTagOptional
	TypeTagReference
	TypeTagResult
	TypeTagStruct
	TypeTagEnum
	TypeTagInterface
)

var typeTagNames = map[TypeTag]string{
	TypeTagUnknown:      "Unknown",
	TypeTagPrimitive:    "Primitive",
	TypeTagNamed:        "Named",
	TypeTagArray:        "Array",
	TypeTagDynamicArray: "DynamicArray",
	TypeTagMap:          "Map",
	TypeTagOptional:     "Optional",
	TypeTagReference:    "Reference",
	TypeTagResult:       "Result",
	TypeTagStruct:       "Struct",
	TypeTagEnum:         "Enum",
	TypeTagInterface:    "Interface",
}

func (t TypeTag) String() string {
	if s, ok := typeTagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TypeTag(%d)", int(t))
}

var primitiveNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "i256": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "u256": true,
	"f32": true, "f64": true, "f128": true, "f256": true,
	"str": true, "bool": true, "byte": true,
}

// IsPrimitive reports whether name is one of the builtin primitive type names.
func IsPrimitive(name string) bool {
	return primitiveNames[name]
}

// Inner types an optional may wrap.  Optionals, references and results are
// excluded.
var optionalWraps = map[TypeTag]bool{
	TypeTagPrimitive:    true,
	TypeTagNamed:        true,
	TypeTagArray:        true,
	TypeTagDynamicArray: true,
	TypeTagMap:          true,
	TypeTagStruct:       true,
	TypeTagEnum:         true,
	TypeTagInterface:    true,
}

// Inner types a reference may wrap: everything an optional may plus the
// optional itself.
var referenceWraps = map[TypeTag]bool{
	TypeTagPrimitive:    true,
	TypeTagNamed:        true,
	TypeTagArray:        true,
	TypeTagDynamicArray: true,
	TypeTagMap:          true,
	TypeTagOptional:     true,
	TypeTagStruct:       true,
	TypeTagEnum:         true,
	TypeTagInterface:    true,
}

var tagsByNodeKind = map[string]TypeTag{
	KindPrimitiveType:        TypeTagPrimitive,
	KindTypeIdentifier:       TypeTagNamed,
	KindScopedTypeIdentifier: TypeTagNamed,
	KindArrayType:            TypeTagArray,
	KindDynamicArrayType:     TypeTagDynamicArray,
	KindMapType:              TypeTagMap,
	KindOptionalType:         TypeTagOptional,
	KindReferenceType:        TypeTagReference,
	KindResultType:           TypeTagResult,
	KindStructType:           TypeTagStruct,
	KindEnumType:             TypeTagEnum,
	KindInterfaceType:        TypeTagInterface,
}

// TagForNodeKind maps a type node kind to its tag.
func TagForNodeKind(kind string) TypeTag {
	return tagsByNodeKind[kind]
}

// OptionalCanWrap reports whether `T?` is legal for a T of the given tag.
func OptionalCanWrap(tag TypeTag) bool { return optionalWraps[tag] }

// ReferenceCanWrap reports whether `&T` is legal for a T of the given tag.
func ReferenceCanWrap(tag TypeTag) bool { return referenceWraps[tag] }

// Type is the typed view of a type node.  Which fields are meaningful
// depends on Tag.
type Type struct {
	Tag TypeTag

	Name string // Primitive, Named (scoped names keep their "::")
	Size int    // Array

	Elem *Type // Array, DynamicArray, Optional, Reference

	Key   *Type // Map
	Value *Type // Map

	Error   *Type // Result
	Success *Type // Result

	Fields   []*StructField // Struct
	Variants []string       // Enum
	Methods  []*MethodSig   // Interface
}

type StructField struct {
	Name string
	Type *Type
}

type MethodSig struct {
	Name   string
	Params []*StructField
	Return *Type // nil when the method returns nothing
}

func PrimitiveType(name string) (*Type, error) {
	if !IsPrimitive(name) {
		return nil, fmt.Errorf("%q is not a primitive type", name)
	}
	return &Type{Tag: TypeTagPrimitive, Name: name}, nil
}

func NamedType(name string) *Type {
	return &Type{Tag: TypeTagNamed, Name: name}
}

func ArrayType(size int, elem *Type) *Type {
	return &Type{Tag: TypeTagArray, Size: size, Elem: elem}
}

func DynamicArrayType(elem *Type) *Type {
	return &Type{Tag: TypeTagDynamicArray, Elem: elem}
}

func MapType(key, value *Type) *Type {
	return &Type{Tag: TypeTagMap, Key: key, Value: value}
}

// NewOptional wraps inner as `inner?`.  Optionals of optionals, references
// and results are rejected.
func NewOptional(inner *Type) (*Type, error) {
	if inner == nil {
		return nil, fmt.Errorf("optional type needs an inner type")
	}
	if !OptionalCanWrap(inner.Tag) {
		return nil, fmt.Errorf("optional type cannot wrap %s", inner.Tag)
	}
	return &Type{Tag: TypeTagOptional, Elem: inner}, nil
}

// NewReference wraps inner as `&inner`.  References of references and of
// results are rejected.
func NewReference(inner *Type) (*Type, error) {
	if inner == nil {
		return nil, fmt.Errorf("reference type needs an inner type")
	}
	if !ReferenceCanWrap(inner.Tag) {
		return nil, fmt.Errorf("reference type cannot wrap %s", inner.Tag)
	}
	return &Type{Tag: TypeTagReference, Elem: inner}, nil
}

func ResultType(errType, success *Type) *Type {
	return &Type{Tag: TypeTagResult, Error: errType, Success: success}
}

func StructType(fields ...*StructField) *Type {
	return &Type{Tag: TypeTagStruct, Fields: fields}
}

func EnumType(variants ...string) *Type {
	return &Type{Tag: TypeTagEnum, Variants: variants}
}

func InterfaceType(methods ...*MethodSig) *Type {
	return &Type{Tag: TypeTagInterface, Methods: methods}
}

// Shape renders the type structurally, eg Reference(Optional(Named(Foo))).
func (t *Type) Shape() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Tag {
	case TypeTagPrimitive, TypeTagNamed:
		return fmt.Sprintf("%s(%s)", t.Tag, t.Name)
	case TypeTagArray:
		return fmt.Sprintf("Array(%d, %s)", t.Size, t.Elem.Shape())
	case TypeTagDynamicArray, TypeTagOptional, TypeTagReference:
		return fmt.Sprintf("%s(%s)", t.Tag, t.Elem.Shape())
	case TypeTagMap:
		return fmt.Sprintf("Map(%s, %s)", t.Key.Shape(), t.Value.Shape())
	case TypeTagResult:
		return fmt.Sprintf("Result(%s, %s)", t.Error.Shape(), t.Success.Shape())
	case TypeTagStruct:
		return fmt.Sprintf("Struct(%s)", strings.Join(gfn.Map(t.Fields, func(f *StructField) string {
			return f.Name + ": " + f.Type.Shape()
		}), ", "))
	case TypeTagEnum:
		return fmt.Sprintf("Enum(%s)", strings.Join(t.Variants, ", "))
	case TypeTagInterface:
		return fmt.Sprintf("Interface(%s)", strings.Join(gfn.Map(t.Methods, func(m *MethodSig) string {
			return m.Name
		}), ", "))
	}
	return "Unknown"
}

// String renders the type in source syntax.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Tag {
	case TypeTagPrimitive, TypeTagNamed:
		return t.Name
	case TypeTagArray:
		return fmt.Sprintf("[%d]%s", t.Size, t.Elem)
	case TypeTagDynamicArray:
		return "[]" + t.Elem.String()
	case TypeTagMap:
		return fmt.Sprintf("map[%s]%s", t.Key, t.Value)
	case TypeTagOptional:
		return t.Elem.String() + "?"
	case TypeTagReference:
		return "&" + t.Elem.String()
	case TypeTagResult:
		return fmt.Sprintf("%s ! %s", t.Error, t.Success)
	case TypeTagStruct:
		return fmt.Sprintf("struct { %s }", strings.Join(gfn.Map(t.Fields, func(f *StructField) string {
			return fmt.Sprintf(".%s: %s,", f.Name, f.Type)
		}), " "))
	case TypeTagEnum:
		return fmt.Sprintf("enum { %s }", strings.Join(t.Variants, ", "))
	case TypeTagInterface:
		return fmt.Sprintf("interface { %s }", strings.Join(gfn.Map(t.Methods, func(m *MethodSig) string {
			return m.String() + ";"
		}), " "))
	}
	return "<unknown>"
}

func (m *MethodSig) String() string {
	params := strings.Join(gfn.Map(m.Params, func(p *StructField) string {
		return fmt.Sprintf("%s: %s", p.Name, p.Type)
	}), ", ")
	if m.Return == nil {
		return fmt.Sprintf("%s(%s)", m.Name, params)
	}
	return fmt.Sprintf("%s(%s) -> %s", m.Name, params, m.Return)
}

// Equals compares two types structurally.
func (t *Type) Equals(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Shape() == other.Shape() && t.String() == other.String()
}

// TypeFromNode converts a type node produced by the parser into a Type.
func TypeFromNode(n *Node) (*Type, error) {
	if n == nil {
		return nil, fmt.Errorf("nil type node")
	}
	switch n.Kind() {
	case KindPrimitiveType:
		return PrimitiveType(n.Text())
	case KindTypeIdentifier:
		return NamedType(n.Text()), nil
	case KindScopedTypeIdentifier:
		scope, name := n.ChildByFieldName("scope"), n.ChildByFieldName("name")
		if scope == nil || name == nil {
			return nil, nodeError(n, "incomplete scoped type")
		}
		return NamedType(scope.Text() + "::" + name.Text()), nil
	case KindArrayType:
		sizeNode := n.ChildByFieldName("size")
		if sizeNode == nil {
			return nil, nodeError(n, "array type without size")
		}
		size, err := strconv.Atoi(sizeNode.Text())
		if err != nil {
			return nil, nodeError(sizeNode, "invalid array size %q", sizeNode.Text())
		}
		elem, err := TypeFromNode(n.ChildByFieldName("element_type"))
		if err != nil {
			return nil, err
		}
		return ArrayType(size, elem), nil
	case KindDynamicArrayType:
		elem, err := TypeFromNode(n.ChildByFieldName("element_type"))
		if err != nil {
			return nil, err
		}
		return DynamicArrayType(elem), nil
	case KindMapType:
		key, err := TypeFromNode(n.ChildByFieldName("key_type"))
		if err != nil {
			return nil, err
		}
		value, err := TypeFromNode(n.ChildByFieldName("value_type"))
		if err != nil {
			return nil, err
		}
		return MapType(key, value), nil
	case KindOptionalType, KindReferenceType:
		inner, err := TypeFromNode(n.ChildByFieldName("type"))
		if err != nil {
			return nil, err
		}
		var out *Type
		if n.Kind() == KindOptionalType {
			out, err = NewOptional(inner)
		} else {
			out, err = NewReference(inner)
		}
		if err != nil {
			return nil, nodeError(n, "%s", err)
		}
		return out, nil
	case KindResultType:
		errType, err := TypeFromNode(n.ChildByFieldName("error_type"))
		if err != nil {
			return nil, err
		}
		success, err := TypeFromNode(n.ChildByFieldName("success_type"))
		if err != nil {
			return nil, err
		}
		return ResultType(errType, success), nil
	case KindStructType:
		fields, err := fieldsFromBody(n.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return StructType(fields...), nil
	case KindEnumType:
		body := n.ChildByFieldName("body")
		if body == nil {
			return nil, nodeError(n, "enum type without body")
		}
		var variants []string
		for _, v := range body.NamedChildren() {
			if v.Kind() == KindEnumVariant {
				if name := v.ChildByFieldName("name"); name != nil {
					variants = append(variants, name.Text())
				}
			}
		}
		return EnumType(variants...), nil
	case KindInterfaceType:
		body := n.ChildByFieldName("body")
		if body == nil {
			return nil, nodeError(n, "interface type without body")
		}
		var methods []*MethodSig
		for _, m := range body.NamedChildren() {
			if m.Kind() != KindInterfaceMethod {
				continue
			}
			sig, err := methodFromNode(m)
			if err != nil {
				return nil, err
			}
			methods = append(methods, sig)
		}
		return InterfaceType(methods...), nil
	}
	return nil, nodeError(n, "%s is not a type", n.Kind())
}

func fieldsFromBody(body *Node) ([]*StructField, error) {
	if body == nil {
		return nil, fmt.Errorf("struct type without body")
	}
	var fields []*StructField
	for _, f := range body.NamedChildren() {
		if f.Kind() != KindFieldDeclaration {
			continue
		}
		ft, err := TypeFromNode(f.ChildByFieldName("type"))
		if err != nil {
			return nil, err
		}
		fields = append(fields, &StructField{Name: f.ChildByFieldName("name").Text(), Type: ft})
	}
	return fields, nil
}

func methodFromNode(m *Node) (*MethodSig, error) {
	sig := &MethodSig{Name: m.ChildByFieldName("name").Text()}
	if params := m.ChildByFieldName("parameters"); params != nil {
		for _, p := range params.NamedChildren() {
			if p.Kind() != KindParameter {
				continue
			}
			pt, err := TypeFromNode(p.ChildByFieldName("type"))
			if err != nil {
				return nil, err
			}
			sig.Params = append(sig.Params, &StructField{Name: p.ChildByFieldName("name").Text(), Type: pt})
		}
	}
	if ret := m.ChildByFieldName("return_type"); ret != nil {
		rt, err := TypeFromNode(ret)
		if err != nil {
			return nil, err
		}
		sig.Return = rt
	}
	return sig, nil
}

func nodeError(n *Node, format string, args ...any) error {
	return fmt.Errorf("%s: %s", n.Span().Start, fmt.Sprintf(format, args...))
}
