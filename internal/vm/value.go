// Package vm implements the yex execution core: bytecode compiler,
// stack machine, and the runtime value model.
package vm

import (
	"math"
	"strconv"
	"strings"
)

// ValueType identifies the variant stored in a Value.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNum
	ValSym
	ValObj // Str, List, Table, Tuple, Fun, Module, Instance, Tagged
)

// Value is a stack-allocated tagged union. Small variants live in Data;
// heap variants hang off Obj. The set of variants is closed: user code
// composes these, it never adds new ones.
type Value struct {
	Type ValueType
	Data uint64
	Obj  Object
}

// Object is a heap-allocated runtime value.
type Object interface {
	TypeName() string
	Inspect() string
}

// Constructors

func NilVal() Value { return Value{Type: ValNil} }

func BoolVal(b bool) Value {
	var data uint64
	if b {
		data = 1
	}
	return Value{Type: ValBool, Data: data}
}

func NumVal(f float64) Value {
	return Value{Type: ValNum, Data: math.Float64bits(f)}
}

func SymVal(s Symbol) Value {
	return Value{Type: ValSym, Data: uint64(s)}
}

func StrVal(s string) Value         { return Value{Type: ValObj, Obj: Str(s)} }
func ListVal(l *List) Value         { return Value{Type: ValObj, Obj: l} }
func TableVal(t *Table) Value       { return Value{Type: ValObj, Obj: t} }
func TupleVal(t *Tuple) Value       { return Value{Type: ValObj, Obj: t} }
func FunVal(f *Fun) Value           { return Value{Type: ValObj, Obj: f} }
func ModuleVal(m *Module) Value     { return Value{Type: ValObj, Obj: m} }
func InstanceVal(i *Instance) Value { return Value{Type: ValObj, Obj: i} }
func TaggedVal(t *Tagged) Value     { return Value{Type: ValObj, Obj: t} }

// Accessors

func (v Value) AsBool() bool    { return v.Data == 1 }
func (v Value) AsNum() float64  { return math.Float64frombits(v.Data) }
func (v Value) AsSym() Symbol   { return Symbol(v.Data) }
func (v Value) AsStr() string   { return string(v.Obj.(Str)) }
func (v Value) AsList() *List   { return v.Obj.(*List) }
func (v Value) AsTable() *Table { return v.Obj.(*Table) }

func (v Value) IsNil() bool  { return v.Type == ValNil }
func (v Value) IsBool() bool { return v.Type == ValBool }
func (v Value) IsNum() bool  { return v.Type == ValNum }
func (v Value) IsSym() bool  { return v.Type == ValSym }

func (v Value) IsStr() bool {
	_, ok := v.Obj.(Str)
	return v.Type == ValObj && ok
}

func (v Value) IsList() bool {
	_, ok := v.Obj.(*List)
	return v.Type == ValObj && ok
}

func (v Value) IsTable() bool {
	_, ok := v.Obj.(*Table)
	return v.Type == ValObj && ok
}

func (v Value) IsFun() bool {
	_, ok := v.Obj.(*Fun)
	return v.Type == ValObj && ok
}

// Truthy reports the condition value: nil, false, 0 and "" are falsy,
// everything else (symbols included) is truthy.
func (v Value) Truthy() bool {
	switch v.Type {
	case ValNil:
		return false
	case ValBool:
		return v.Data == 1
	case ValNum:
		return v.AsNum() != 0
	case ValObj:
		if s, ok := v.Obj.(Str); ok {
			return s != ""
		}
		return true
	default:
		return true
	}
}

// Equals is structural equality. Values of different variants are never
// equal; functions, modules and instances compare by identity.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool, ValSym:
		return v.Data == other.Data
	case ValNum:
		return v.AsNum() == other.AsNum()
	case ValObj:
		return objectsEqual(v.Obj, other.Obj)
	default:
		return false
	}
}

func objectsEqual(a, b Object) bool {
	switch x := a.(type) {
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case *List:
		y, ok := b.(*List)
		if !ok {
			return false
		}
		return listsEqual(x, y)
	case *Table:
		y, ok := b.(*Table)
		if !ok {
			return false
		}
		return tablesEqual(x, y)
	case *Tuple:
		y, ok := b.(*Tuple)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !x.Items[i].Equals(y.Items[i]) {
				return false
			}
		}
		return true
	case *Tagged:
		y, ok := b.(*Tagged)
		if !ok || x.Tag != y.Tag || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !x.Items[i].Equals(y.Items[i]) {
				return false
			}
		}
		return true
	default:
		// Fun, Module, Instance: identity
		return a == b
	}
}

func listsEqual(a, b *List) bool {
	ca, cb := a.headCell(), b.headCell()
	for ca != nil && cb != nil {
		if !ca.Get().head.Equals(cb.Get().head) {
			return false
		}
		ca, cb = ca.Get().tail, cb.Get().tail
	}
	return ca == nil && cb == nil
}

func tablesEqual(a, b *Table) bool {
	if a.Len() != b.Len() {
		return false
	}
	ca, cb := a.entryCell(), b.entryCell()
	for ca != nil && cb != nil {
		if !ca.Get().key.Equals(cb.Get().key) || !ca.Get().value.Equals(cb.Get().value) {
			return false
		}
		ca, cb = ca.Get().next, cb.Get().next
	}
	return ca == nil && cb == nil
}

// TypeName names the variant as user code sees it.
func (v Value) TypeName() string {
	switch v.Type {
	case ValNil:
		return "Nil"
	case ValBool:
		return "Bool"
	case ValNum:
		return "Num"
	case ValSym:
		return "Sym"
	case ValObj:
		return v.Obj.TypeName()
	default:
		return "Nil"
	}
}

// Show renders the value for program output: strings raw, the rest as
// Inspect.
func (v Value) Show() string {
	if v.IsStr() {
		return v.AsStr()
	}
	return v.Inspect()
}

// Inspect renders the value for the REPL: strings quoted, aggregates
// recursively.
func (v Value) Inspect() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.Data == 1 {
			return "true"
		}
		return "false"
	case ValNum:
		return formatNum(v.AsNum())
	case ValSym:
		return ":" + v.AsSym().Text()
	case ValObj:
		return v.Obj.Inspect()
	default:
		return "nil"
	}
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Len returns the length of a sized value, or -1 when the variant has no
// length.
func (v Value) Len() int {
	switch o := v.Obj.(type) {
	case Str:
		return len(o)
	case *List:
		return o.Len()
	case *Table:
		return o.Len()
	case *Tuple:
		return len(o.Items)
	default:
		return -1
	}
}

func inspectJoin(items []Value, sep string) string {
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(it.Inspect())
	}
	return sb.String()
}
