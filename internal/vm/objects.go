package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Str is an immutable string value.
type Str string

func (s Str) TypeName() string { return "Str" }
func (s Str) Inspect() string  { return strconv.Quote(string(s)) }

func (l *List) TypeName() string { return "List" }

func (l *List) Inspect() string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	l.Iter(func(v Value) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(v.Inspect())
		return true
	})
	sb.WriteByte(']')
	return sb.String()
}

func (t *Table) TypeName() string { return "Table" }

func (t *Table) Inspect() string {
	var sb strings.Builder
	sb.WriteString("%{")
	first := true
	t.Iter(func(k, v Value) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		// symbol keys render bare, round-tripping the literal syntax
		if k.IsSym() {
			sb.WriteString(k.AsSym().Text())
		} else {
			sb.WriteString(k.Inspect())
		}
		sb.WriteString(": ")
		sb.WriteString(v.Inspect())
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

// Tuple is a fixed-size value group.
type Tuple struct {
	Items []Value
}

func (t *Tuple) TypeName() string { return "Tuple" }
func (t *Tuple) Inspect() string  { return "(" + inspectJoin(t.Items, ", ") + ")" }

// NativeFn is a builtin function body. It receives already-popped
// arguments in source order and may call back into the machine.
type NativeFn func(m *VM, args []Value) (Value, error)

// Fun is a callable value: either a bytecode body or a native, plus the
// arguments already applied to it. Applying fewer arguments than Arity
// yields a new Fun with a smaller Arity; the original is untouched.
// Bytecode bodies keep the unit they were compiled in, so their constant
// operands stay valid when another unit calls them.
type Fun struct {
	Name   string
	Arity  int
	Body   *Chunk
	Unit   *Unit
	Native NativeFn
	Bound  []Value
}

func (f *Fun) TypeName() string { return "Fn" }

func (f *Fun) Inspect() string {
	name := f.Name
	if name == "" {
		name = "fn"
	}
	return fmt.Sprintf("<%s/%d>", name, f.Arity)
}

// Bind returns a copy of f with args applied on top of the already-bound
// ones. The caller checks len(args) < f.Arity first.
func (f *Fun) Bind(args []Value) *Fun {
	bound := make([]Value, 0, len(f.Bound)+len(args))
	bound = append(bound, f.Bound...)
	bound = append(bound, args...)
	return &Fun{
		Name:   f.Name,
		Arity:  f.Arity - len(args),
		Body:   f.Body,
		Unit:   f.Unit,
		Native: f.Native,
		Bound:  bound,
	}
}

// FullArgs assembles the complete source-order argument vector for a
// saturating call.
func (f *Fun) FullArgs(args []Value) []Value {
	if len(f.Bound) == 0 {
		return args
	}
	full := make([]Value, 0, len(f.Bound)+len(args))
	full = append(full, f.Bound...)
	full = append(full, args...)
	return full
}

// Module is a named type with methods and an optional positional
// constructor. The builtin type modules (Num, Str, List, ...) and user
// `%Name{...}` types are both Modules.
type Module struct {
	Name   string
	Fields *EnvTable
	Params []Symbol
	Init   *Fun
}

func NewModule(name string) *Module {
	return &Module{Name: name, Fields: NewEnvTable()}
}

func (m *Module) TypeName() string { return "Module" }
func (m *Module) Inspect() string  { return "<module " + m.Name + ">" }

// Method resolves a method by symbol.
func (m *Module) Method(sym Symbol) (Value, bool) {
	return m.Fields.Get(sym)
}

// Instance is a value of a user-defined module type.
type Instance struct {
	Ty     *Module
	Fields *EnvTable
}

func (i *Instance) TypeName() string { return i.Ty.Name }

func (i *Instance) Inspect() string {
	var sb strings.Builder
	sb.WriteByte('%')
	sb.WriteString(i.Ty.Name)
	sb.WriteByte('{')
	first := true
	i.Fields.ForEach(func(k Symbol, v Value) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(k.Text())
		sb.WriteString(": ")
		sb.WriteString(v.Inspect())
	})
	sb.WriteByte('}')
	return sb.String()
}

// Tagged is a tag applied to values, the data convention behind ok/fail
// results. It carries no control-flow meaning.
type Tagged struct {
	Tag   Symbol
	Items []Value
}

func (t *Tagged) TypeName() string { return "Result" }

func (t *Tagged) Inspect() string {
	if len(t.Items) == 0 {
		return t.Tag.Text() + "()"
	}
	return t.Tag.Text() + "(" + inspectJoin(t.Items, ", ") + ")"
}
