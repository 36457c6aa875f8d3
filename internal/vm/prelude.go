package vm

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// installPrelude binds the builtin functions and type modules into the
// global table of a fresh machine.
func (m *VM) installPrelude() {
	m.defineNative("println", 1, nativePrintln)
	m.defineNative("print", 1, nativePrint)
	m.defineNative("input", 1, nativeInput)
	m.defineNative("type", 1, nativeType)
	m.defineNative("inspect", 1, nativeInspect)
	m.defineNative("num", 1, nativeNum)
	m.defineNative("exit", 1, nativeExit)
	m.defineNative("raise", 1, nativeRaise)
	m.defineNative("ok", 1, nativeOk)
	m.defineNative("fail", 1, nativeFail)
	m.defineNative("uuid", 1, nativeUUID)

	m.registerModule(listModule())
	m.registerModule(tableModule())
	m.registerModule(strModule())
	m.registerModule(numModule())
	m.registerModule(fileModule())
	m.registerModule(dbModule())
	m.registerModule(moduleModule())

	for _, name := range []string{"Bool", "Nil", "Sym", "Tuple", "Fn", "Result"} {
		m.registerModule(NewModule(name))
	}
}

func (m *VM) defineNative(name string, arity int, fn NativeFn) {
	m.globals.Set(Intern(name), FunVal(&Fun{Name: name, Arity: arity, Native: fn}))
}

// registerModule makes a module both the type of its values and a global.
func (m *VM) registerModule(mod *Module) {
	m.typeModules[mod.Name] = mod
	m.globals.Set(Intern(mod.Name), ModuleVal(mod))
}

func moduleFn(mod *Module, name string, arity int, fn NativeFn) {
	qualified := mod.Name + "." + name
	mod.Fields.Set(Intern(name), FunVal(&Fun{Name: qualified, Arity: arity, Native: fn}))
}

func okVal(v Value) Value {
	return TaggedVal(&Tagged{Tag: Intern("ok"), Items: []Value{v}})
}

func failVal(msg string) Value {
	return TaggedVal(&Tagged{Tag: Intern("fail"), Items: []Value{StrVal(msg)}})
}

func nativePrintln(m *VM, args []Value) (Value, error) {
	if _, err := m.Stdout.Write([]byte(args[0].Show() + "\n")); err != nil {
		return NilVal(), m.fault(IOFault, "println: %v", err)
	}
	return NilVal(), nil
}

func nativePrint(m *VM, args []Value) (Value, error) {
	if _, err := m.Stdout.Write([]byte(args[0].Show())); err != nil {
		return NilVal(), m.fault(IOFault, "print: %v", err)
	}
	return NilVal(), nil
}

func nativeInput(m *VM, args []Value) (Value, error) {
	if prompt := args[0]; !prompt.IsNil() {
		if _, err := m.Stdout.Write([]byte(prompt.Show())); err != nil {
			return NilVal(), m.fault(IOFault, "input: %v", err)
		}
	}
	if m.stdinBuf == nil {
		m.stdinBuf = bufio.NewReader(m.Stdin)
	}
	line, err := m.stdinBuf.ReadString('\n')
	if err != nil && line == "" {
		return NilVal(), m.fault(IOFault, "input: %v", err)
	}
	return StrVal(strings.TrimRight(line, "\r\n")), nil
}

func nativeType(m *VM, args []Value) (Value, error) {
	return ModuleVal(m.typeModuleOf(args[0])), nil
}

func nativeInspect(_ *VM, args []Value) (Value, error) {
	return StrVal(args[0].Inspect()), nil
}

func nativeNum(m *VM, args []Value) (Value, error) {
	v := args[0]
	switch {
	case v.IsNum():
		return v, nil
	case v.IsStr():
		f, err := strconv.ParseFloat(strings.TrimSpace(v.AsStr()), 64)
		if err != nil {
			return NilVal(), m.fault(TypeFault, "can't parse %q as a number", v.AsStr())
		}
		return NumVal(f), nil
	default:
		return NilVal(), m.fault(TypeFault, "can't convert a %s to a number", v.TypeName())
	}
}

func nativeExit(m *VM, args []Value) (Value, error) {
	code := 0
	if args[0].IsNum() {
		code = int(args[0].AsNum())
	}
	os.Exit(code)
	return NilVal(), nil
}

func nativeRaise(m *VM, args []Value) (Value, error) {
	return NilVal(), m.fault(TypeFault, "%s", args[0].Show())
}

func nativeOk(_ *VM, args []Value) (Value, error) {
	return okVal(args[0]), nil
}

func nativeFail(_ *VM, args []Value) (Value, error) {
	return TaggedVal(&Tagged{Tag: Intern("fail"), Items: []Value{args[0]}}), nil
}

func nativeUUID(_ *VM, _ []Value) (Value, error) {
	return StrVal(uuid.NewString()), nil
}
