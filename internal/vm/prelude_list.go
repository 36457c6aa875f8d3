package vm

// listModule builds the List type module. Functions take the subject
// list as their last argument, so partial application reads naturally:
// `List.map double` is a function over lists.
func listModule() *Module {
	mod := NewModule("List")

	moduleFn(mod, "new", 1, func(_ *VM, _ []Value) (Value, error) {
		return ListVal(NewList()), nil
	})

	moduleFn(mod, "head", 1, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[0], "List.head")
		if err != nil {
			return NilVal(), err
		}
		return xs.Head(), nil
	})

	moduleFn(mod, "tail", 1, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[0], "List.tail")
		if err != nil {
			return NilVal(), err
		}
		return ListVal(xs.Tail()), nil
	})

	moduleFn(mod, "rev", 1, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[0], "List.rev")
		if err != nil {
			return NilVal(), err
		}
		return ListVal(xs.Rev()), nil
	})

	moduleFn(mod, "len", 1, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[0], "List.len")
		if err != nil {
			return NilVal(), err
		}
		return NumVal(float64(xs.Len())), nil
	})

	moduleFn(mod, "get", 2, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[1], "List.get")
		if err != nil {
			return NilVal(), err
		}
		if !args[0].IsNum() {
			return NilVal(), m.fault(TypeFault, "List.get takes a numeric index")
		}
		return xs.Index(int(args[0].AsNum())), nil
	})

	moduleFn(mod, "drop", 2, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[1], "List.drop")
		if err != nil {
			return NilVal(), err
		}
		if !args[0].IsNum() {
			return NilVal(), m.fault(TypeFault, "List.drop takes a numeric count")
		}
		for n := int(args[0].AsNum()); n > 0 && !xs.IsEmpty(); n-- {
			xs = xs.Tail()
		}
		return ListVal(xs), nil
	})

	moduleFn(mod, "map", 2, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[1], "List.map")
		if err != nil {
			return NilVal(), err
		}
		var mapped []Value
		var callErr error
		xs.Iter(func(v Value) bool {
			r, err := m.Call(args[0], []Value{v})
			if err != nil {
				callErr = err
				return false
			}
			mapped = append(mapped, r)
			return true
		})
		if callErr != nil {
			return NilVal(), callErr
		}
		return ListVal(ListOf(mapped...)), nil
	})

	moduleFn(mod, "filter", 2, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[1], "List.filter")
		if err != nil {
			return NilVal(), err
		}
		var kept []Value
		var callErr error
		xs.Iter(func(v Value) bool {
			r, err := m.Call(args[0], []Value{v})
			if err != nil {
				callErr = err
				return false
			}
			if r.Truthy() {
				kept = append(kept, v)
			}
			return true
		})
		if callErr != nil {
			return NilVal(), callErr
		}
		return ListVal(ListOf(kept...)), nil
	})

	moduleFn(mod, "fold", 3, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[2], "List.fold")
		if err != nil {
			return NilVal(), err
		}
		acc := args[0]
		var callErr error
		xs.Iter(func(v Value) bool {
			acc, callErr = m.Call(args[1], []Value{acc, v})
			return callErr == nil
		})
		if callErr != nil {
			return NilVal(), callErr
		}
		return acc, nil
	})

	moduleFn(mod, "find", 2, func(m *VM, args []Value) (Value, error) {
		xs, err := expectList(m, args[1], "List.find")
		if err != nil {
			return NilVal(), err
		}
		found := NilVal()
		var callErr error
		xs.Iter(func(v Value) bool {
			r, err := m.Call(args[0], []Value{v})
			if err != nil {
				callErr = err
				return false
			}
			if r.Truthy() {
				found = v
				return false
			}
			return true
		})
		if callErr != nil {
			return NilVal(), callErr
		}
		return found, nil
	})

	return mod
}

func expectList(m *VM, v Value, fn string) (*List, error) {
	if !v.IsList() {
		return nil, m.fault(TypeFault, "%s expects a List, got a %s", fn, v.TypeName())
	}
	return v.AsList(), nil
}
