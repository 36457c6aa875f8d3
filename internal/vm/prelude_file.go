package vm

import "os"

// fileModule exposes file IO. Every function returns ok(...)/fail(msg)
// rather than faulting, so scripts can branch on the outcome.
func fileModule() *Module {
	mod := NewModule("File")

	moduleFn(mod, "read", 1, func(m *VM, args []Value) (Value, error) {
		path, err := expectStr(m, args[0], "File.read")
		if err != nil {
			return NilVal(), err
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return failVal(rerr.Error()), nil
		}
		return okVal(StrVal(string(data))), nil
	})

	moduleFn(mod, "create", 1, func(m *VM, args []Value) (Value, error) {
		path, err := expectStr(m, args[0], "File.create")
		if err != nil {
			return NilVal(), err
		}
		f, cerr := os.Create(path)
		if cerr != nil {
			return failVal(cerr.Error()), nil
		}
		f.Close()
		return okVal(NilVal()), nil
	})

	moduleFn(mod, "delete", 1, func(m *VM, args []Value) (Value, error) {
		path, err := expectStr(m, args[0], "File.delete")
		if err != nil {
			return NilVal(), err
		}
		if derr := os.Remove(path); derr != nil {
			return failVal(derr.Error()), nil
		}
		return okVal(NilVal()), nil
	})

	moduleFn(mod, "write", 2, func(m *VM, args []Value) (Value, error) {
		content, err := expectStr(m, args[0], "File.write")
		if err != nil {
			return NilVal(), err
		}
		path, err := expectStr(m, args[1], "File.write")
		if err != nil {
			return NilVal(), err
		}
		if werr := os.WriteFile(path, []byte(content), 0o644); werr != nil {
			return failVal(werr.Error()), nil
		}
		return okVal(NilVal()), nil
	})

	moduleFn(mod, "append", 2, func(m *VM, args []Value) (Value, error) {
		content, err := expectStr(m, args[0], "File.append")
		if err != nil {
			return NilVal(), err
		}
		path, err := expectStr(m, args[1], "File.append")
		if err != nil {
			return NilVal(), err
		}
		f, oerr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if oerr != nil {
			return failVal(oerr.Error()), nil
		}
		defer f.Close()
		if _, werr := f.WriteString(content); werr != nil {
			return failVal(werr.Error()), nil
		}
		return okVal(NilVal()), nil
	})

	return mod
}
