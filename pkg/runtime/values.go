package runtime

import (
	"fmt"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInteger
	KindNull
	KindVoid
	KindObject
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "int"
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	case KindObject:
		return "object"
	case KindType:
		return "type"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is any value the interpreter can hold in a variable or pass to the host.
type Value interface {
	Kind() Kind
}

// Type is the runtime view of a host type handle. The host package supplies
// the concrete implementation; runtime only needs its name.
type Type interface {
	TypeName() string
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// VoidValue is the result of a host method declared void, and of a whole
// execution.
type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

// ObjectValue wraps a host object. Identity is pointer identity.
type ObjectValue struct {
	Type Type
	Ref  any
}

func (v *ObjectValue) Kind() Kind { return KindObject }

// NewObject wraps ref as an instance of typ.
func NewObject(typ Type, ref any) *ObjectValue {
	return &ObjectValue{Type: typ, Ref: ref}
}

// TypeValue is a type used in expression position, e.g. the scope of a
// static call `Toast.makeText(...)`.
type TypeValue struct {
	Type Type
}

func (v TypeValue) Kind() Kind { return KindType }

// IsNull treats a missing value and NullValue alike.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(NullValue)
	return ok
}

// Stringify renders the textual form used by string concatenation.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case StringValue:
		return val.Val
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case NullValue:
		return "null"
	case VoidValue:
		return ""
	case *ObjectValue:
		if val == nil {
			return "null"
		}
		if s, ok := val.Ref.(fmt.Stringer); ok {
			return s.String()
		}
		if val.Type != nil {
			return val.Type.TypeName()
		}
		return "object"
	case TypeValue:
		if val.Type != nil {
			return val.Type.TypeName()
		}
		return "type"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Describe is a debugging form that keeps the kind visible.
func Describe(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<unset>"
	case StringValue:
		return strconv.Quote(val.Val)
	case *ObjectValue:
		if val != nil && val.Type != nil {
			return fmt.Sprintf("<%s %s>", val.Type.TypeName(), Stringify(val))
		}
	}
	return Stringify(v)
}

// Identical is reference equality: host objects compare by identity,
// primitives and strings by value.
func Identical(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch left := a.(type) {
	case *ObjectValue:
		right, ok := b.(*ObjectValue)
		return ok && left == right
	case TypeValue:
		right, ok := b.(TypeValue)
		return ok && left.Type != nil && right.Type != nil && left.Type.TypeName() == right.Type.TypeName()
	default:
		return a == b
	}
}
