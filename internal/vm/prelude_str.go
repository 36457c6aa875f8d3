package vm

import "strings"

func strModule() *Module {
	mod := NewModule("Str")

	moduleFn(mod, "len", 1, func(m *VM, args []Value) (Value, error) {
		s, err := expectStr(m, args[0], "Str.len")
		if err != nil {
			return NilVal(), err
		}
		return NumVal(float64(len(s))), nil
	})

	moduleFn(mod, "get", 2, func(m *VM, args []Value) (Value, error) {
		s, err := expectStr(m, args[1], "Str.get")
		if err != nil {
			return NilVal(), err
		}
		if !args[0].IsNum() {
			return NilVal(), m.fault(TypeFault, "Str.get takes a numeric index")
		}
		i := int(args[0].AsNum())
		if i < 0 || i >= len(s) {
			return NilVal(), nil
		}
		return StrVal(s[i : i+1]), nil
	})

	moduleFn(mod, "upper", 1, func(m *VM, args []Value) (Value, error) {
		s, err := expectStr(m, args[0], "Str.upper")
		if err != nil {
			return NilVal(), err
		}
		return StrVal(strings.ToUpper(s)), nil
	})

	moduleFn(mod, "lower", 1, func(m *VM, args []Value) (Value, error) {
		s, err := expectStr(m, args[0], "Str.lower")
		if err != nil {
			return NilVal(), err
		}
		return StrVal(strings.ToLower(s)), nil
	})

	moduleFn(mod, "trim", 1, func(m *VM, args []Value) (Value, error) {
		s, err := expectStr(m, args[0], "Str.trim")
		if err != nil {
			return NilVal(), err
		}
		return StrVal(strings.TrimSpace(s)), nil
	})

	moduleFn(mod, "contains", 2, func(m *VM, args []Value) (Value, error) {
		sub, err := expectStr(m, args[0], "Str.contains")
		if err != nil {
			return NilVal(), err
		}
		s, err := expectStr(m, args[1], "Str.contains")
		if err != nil {
			return NilVal(), err
		}
		return BoolVal(strings.Contains(s, sub)), nil
	})

	moduleFn(mod, "split", 2, func(m *VM, args []Value) (Value, error) {
		sep, err := expectStr(m, args[0], "Str.split")
		if err != nil {
			return NilVal(), err
		}
		s, err := expectStr(m, args[1], "Str.split")
		if err != nil {
			return NilVal(), err
		}
		parts := strings.Split(s, sep)
		values := make([]Value, len(parts))
		for i, p := range parts {
			values[i] = StrVal(p)
		}
		return ListVal(ListOf(values...)), nil
	})

	moduleFn(mod, "join", 2, func(m *VM, args []Value) (Value, error) {
		sep, err := expectStr(m, args[0], "Str.join")
		if err != nil {
			return NilVal(), err
		}
		xs, err := expectList(m, args[1], "Str.join")
		if err != nil {
			return NilVal(), err
		}
		var parts []string
		var typeErr error
		xs.Iter(func(v Value) bool {
			if !v.IsStr() {
				typeErr = m.fault(TypeFault, "Str.join expects a list of strings")
				return false
			}
			parts = append(parts, v.AsStr())
			return true
		})
		if typeErr != nil {
			return NilVal(), typeErr
		}
		return StrVal(strings.Join(parts, sep)), nil
	})

	return mod
}

func expectStr(m *VM, v Value, fn string) (string, error) {
	if !v.IsStr() {
		return "", m.fault(TypeFault, "%s expects a Str, got a %s", fn, v.TypeName())
	}
	return v.AsStr(), nil
}
