package vm

func tableModule() *Module {
	mod := NewModule("Table")

	moduleFn(mod, "new", 1, func(_ *VM, _ []Value) (Value, error) {
		return TableVal(NewTable()), nil
	})

	moduleFn(mod, "insert", 3, func(m *VM, args []Value) (Value, error) {
		t, err := expectTable(m, args[2], "Table.insert")
		if err != nil {
			return NilVal(), err
		}
		return TableVal(t.Insert(args[0], args[1])), nil
	})

	moduleFn(mod, "get", 2, func(m *VM, args []Value) (Value, error) {
		t, err := expectTable(m, args[1], "Table.get")
		if err != nil {
			return NilVal(), err
		}
		v, _ := t.Get(args[0])
		return v, nil
	})

	moduleFn(mod, "has", 2, func(m *VM, args []Value) (Value, error) {
		t, err := expectTable(m, args[1], "Table.has")
		if err != nil {
			return NilVal(), err
		}
		_, ok := t.Get(args[0])
		return BoolVal(ok), nil
	})

	moduleFn(mod, "keys", 1, func(m *VM, args []Value) (Value, error) {
		t, err := expectTable(m, args[0], "Table.keys")
		if err != nil {
			return NilVal(), err
		}
		return ListVal(t.Keys()), nil
	})

	moduleFn(mod, "len", 1, func(m *VM, args []Value) (Value, error) {
		t, err := expectTable(m, args[0], "Table.len")
		if err != nil {
			return NilVal(), err
		}
		return NumVal(float64(t.Len())), nil
	})

	return mod
}

func expectTable(m *VM, v Value, fn string) (*Table, error) {
	if !v.IsTable() {
		return nil, m.fault(TypeFault, "%s expects a Table, got a %s", fn, v.TypeName())
	}
	return v.AsTable(), nil
}
