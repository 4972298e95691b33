// Package object defines the O-script value taxonomy: the tagged variant
// that every evaluated expression produces (spec.md §3), plus the Class,
// Function, and Instance types and the per-instance history engine
// (spec.md §4.4).
package object

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type tags a Value's dynamic kind.
type Type string

const (
	NIL_OBJ      Type = "nil"
	BOOL_OBJ     Type = "bool"
	NUMBER_OBJ   Type = "number"
	STRING_OBJ   Type = "string"
	CLASS_OBJ    Type = "class"
	FUNCTION_OBJ Type = "function"
	NATIVE_OBJ   Type = "native_function"
	INSTANCE_OBJ Type = "instance"
	LIST_OBJ     Type = "list"
	DICT_OBJ     Type = "dict"
	UNDEFINED_OBJ Type = "undefined"
)

// Value is the interface every O-script runtime value implements.
type Value interface {
	Type() Type
	Inspect() string
}

// Nil is the singleton nil value.
type Nil struct{}

func (n *Nil) Type() Type      { return NIL_OBJ }
func (n *Nil) Inspect() string { return "nil" }

// NIL is the shared nil instance; there is never a need for more than one.
var NIL = &Nil{}

// Bool wraps a boolean.
type Bool struct{ Value bool }

func (b *Bool) Type() Type      { return BOOL_OBJ }
func (b *Bool) Inspect() string { return strconv.FormatBool(b.Value) }

var (
	TRUE  = &Bool{Value: true}
	FALSE = &Bool{Value: false}
)

// NativeBool returns the shared TRUE/FALSE singleton for a Go bool.
func NativeBool(v bool) *Bool {
	if v {
		return TRUE
	}
	return FALSE
}

// Number is a double-precision float; integral values print without a
// fractional part (spec.md §3).
type Number struct{ Value float64 }

func (n *Number) Type() Type { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	return FormatNumber(n.Value)
}

// FormatNumber renders a float the way O-script prints and serializes
// numbers: integral values lose their fractional part.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String wraps a string value.
type String struct{ Value string }

func (s *String) Type() Type      { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }

// Undefined is the internal sentinel meaning "this field did not exist
// before the write being recorded". It must never be user-visible as an
// ordinary value; it appears only inside Patch.Old (spec.md §9).
type Undefined struct{}

func (u *Undefined) Type() Type      { return UNDEFINED_OBJ }
func (u *Undefined) Inspect() string { return "<undefined>" }

// UNDEFINED is the shared sentinel instance.
var UNDEFINED = &Undefined{}

// List is a native list value, produced only by built-in helpers (spec.md
// §4.5 "list/dict (from native returns)").
type List struct{ Elements []Value }

func (l *List) Type() Type { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = Serialize(e)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Dict is a native string-keyed map value.
type Dict struct{ Pairs map[string]Value }

func (d *Dict) Type() Type { return DICT_OBJ }
func (d *Dict) Inspect() string {
	keys := make([]string, 0, len(d.Pairs))
	for k := range d.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q:%s", k, Serialize(d.Pairs[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// IsTruthy implements O-script's truthiness rule: only nil and false are
// false, everything else is truthy (spec.md §4.3).
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case *Nil:
		return false
	case *Bool:
		return v.Value
	default:
		return true
	}
}

// Equal implements O-script equality: structural for primitives, identity
// for classes/functions/instances (spec.md §3, §4.3).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	default:
		return a == b
	}
}

// Serialize renders a value the way the trace emitter and the `str`
// built-in do (spec.md §4.5).
func Serialize(v Value) string {
	switch v := v.(type) {
	case *Nil, nil:
		return "nil"
	case *Bool:
		return strconv.FormatBool(v.Value)
	case *Number:
		return FormatNumber(v.Value)
	case *String:
		return v.Value
	case *Instance:
		return fmt.Sprintf("<%s#%d>", v.Class.Name, v.ID)
	case *Class:
		return fmt.Sprintf("<class %s>", v.Name)
	case *Function:
		return fmt.Sprintf("<fn %s>", v.Name)
	case *Native:
		return fmt.Sprintf("<native fn %s>", v.Name)
	case *Undefined:
		return "<undefined>"
	case *List, *Dict:
		return v.Inspect()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TypeName implements the `type` built-in's naming rule (spec.md §6).
func TypeName(v Value) string {
	switch v := v.(type) {
	case *Nil:
		return "nil"
	case *Bool:
		return "bool"
	case *Number:
		return "number"
	case *String:
		return "string"
	case *Function:
		return "function"
	case *Native:
		return "native_function"
	case *Class:
		return fmt.Sprintf("class(%s)", v.Name)
	case *Instance:
		return fmt.Sprintf("instance(%s)", v.Class.Name)
	default:
		return string(v.Type())
	}
}
