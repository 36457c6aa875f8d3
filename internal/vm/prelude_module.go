package vm

// moduleModule lets programs define their own types:
//
//	def Point = Module.new "Point" [:x, :y]
//	Point 1 2                  positional construction
//	%Point{x: 1, y: 2}         named construction
//	Module.fn :scale f Point   attach a method
func moduleModule() *Module {
	mod := NewModule("Module")

	moduleFn(mod, "new", 2, func(m *VM, args []Value) (Value, error) {
		name, err := expectStr(m, args[0], "Module.new")
		if err != nil {
			return NilVal(), err
		}
		params, err := expectList(m, args[1], "Module.new")
		if err != nil {
			return NilVal(), err
		}
		created := NewModule(name)
		var typeErr error
		params.Iter(func(p Value) bool {
			if !p.IsSym() {
				typeErr = m.fault(TypeFault, "Module.new expects field symbols")
				return false
			}
			created.Params = append(created.Params, p.AsSym())
			return true
		})
		if typeErr != nil {
			return NilVal(), typeErr
		}
		return ModuleVal(created), nil
	})

	moduleFn(mod, "fn", 3, func(m *VM, args []Value) (Value, error) {
		if !args[0].IsSym() {
			return NilVal(), m.fault(TypeFault, "Module.fn expects a symbol name")
		}
		if !args[1].IsFun() {
			return NilVal(), m.fault(TypeFault, "Module.fn expects a function")
		}
		target, ok := args[2].Obj.(*Module)
		if !ok {
			return NilVal(), m.fault(TypeFault, "Module.fn expects a Module, got a %s", args[2].TypeName())
		}
		target.Fields.Set(args[0].AsSym(), args[1])
		return args[2], nil
	})

	return mod
}
