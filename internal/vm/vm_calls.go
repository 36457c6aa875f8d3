package vm

// Call applies a function value to args from native code, re-entering
// the dispatch loop for bytecode bodies. Under-saturation returns a
// partial application like any other call.
func (m *VM) Call(fun Value, args []Value) (Value, error) {
	f, ok := fun.Obj.(*Fun)
	if !ok {
		return NilVal(), m.fault(TypeFault, "can't call a %s", fun.TypeName())
	}
	if len(args) > f.Arity {
		return NilVal(), m.fault(ArityFault, "%s takes %d arguments, got %d", f.Inspect(), f.Arity, len(args))
	}
	if len(args) < f.Arity {
		return FunVal(f.Bind(args)), nil
	}
	full := f.FullArgs(args)
	if f.Native != nil {
		return f.Native(m, full)
	}
	depth := m.fp
	if err := m.pushFrame(f.Body, f.Unit.Consts, full); err != nil {
		return NilVal(), err
	}
	return m.runUntil(depth)
}

// callTop pops the callee and argc arguments (source order) and applies
// the call protocol.
func (m *VM) callTop(argc int, tail bool) error {
	callee, err := m.pop()
	if err != nil {
		return err
	}
	args, err := m.popArgs(argc)
	if err != nil {
		return err
	}
	return m.callValue(callee, args, tail)
}

func (m *VM) popArgs(argc int) ([]Value, error) {
	args := make([]Value, argc)
	for i := 0; i < argc; i++ {
		v, err := m.pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (m *VM) callValue(callee Value, args []Value, tail bool) error {
	switch o := callee.Obj.(type) {
	case *Fun:
		return m.callFun(o, args, tail)
	case *Module:
		return m.callModule(o, args)
	default:
		return m.fault(TypeFault, "can't call a %s", callee.TypeName())
	}
}

// callFun implements partial application: fewer arguments than the
// remaining arity produce a new function, exactly enough run the body.
func (m *VM) callFun(f *Fun, args []Value, tail bool) error {
	if len(args) > f.Arity {
		return m.fault(ArityFault, "%s takes %d arguments, got %d", f.Inspect(), f.Arity, len(args))
	}
	if len(args) < f.Arity {
		return m.push(FunVal(f.Bind(args)))
	}

	full := f.FullArgs(args)

	if f.Native != nil {
		result, err := f.Native(m, full)
		if err != nil {
			return err
		}
		return m.push(result)
	}

	if tail {
		cur := m.frame()
		if cur.chunk == f.Body {
			// reuse the frame: rebind the argument slots, restart
			for i := range cur.slots {
				cur.slots[i] = NilVal()
			}
			copy(cur.slots, full)
			cur.ip = 0
			return nil
		}
	}
	return m.pushFrame(f.Body, f.Unit.Consts, full)
}

// callModule instantiates a type positionally: `Point 1 2` fills the
// declared fields in order. Modules with an initializer delegate to it.
func (m *VM) callModule(mod *Module, args []Value) error {
	if mod.Init != nil {
		return m.callFun(mod.Init, args, false)
	}
	if len(mod.Params) == 0 {
		return m.fault(TypeFault, "the %s module is not callable", mod.Name)
	}
	if len(args) != len(mod.Params) {
		return m.fault(ArityFault, "%s takes %d fields, got %d", mod.Name, len(mod.Params), len(args))
	}
	fields := NewEnvTable()
	for i, p := range mod.Params {
		fields.Set(p, args[i])
	}
	return m.push(InstanceVal(&Instance{Ty: mod, Fields: fields}))
}

// invoke pops the receiver and argc arguments. A module receiver is a
// plain qualified call (`List.map f xs`); any other receiver resolves
// the method on its type module and gets appended as the final argument.
func (m *VM) invoke(sym Symbol, argc int) error {
	recv, err := m.pop()
	if err != nil {
		return err
	}
	args, err := m.popArgs(argc)
	if err != nil {
		return err
	}

	if mod, ok := recv.Obj.(*Module); ok {
		method, ok := mod.Method(sym)
		if !ok {
			return m.fault(TypeFault, "%s has no function %s", mod.Name, sym.Text())
		}
		f, ok := method.Obj.(*Fun)
		if !ok {
			return m.fault(TypeFault, "%s.%s is not callable", mod.Name, sym.Text())
		}
		return m.callFun(f, args, false)
	}

	tm := m.typeModuleOf(recv)
	method, ok := tm.Method(sym)
	if !ok {
		return m.fault(TypeFault, "%s has no method %s", tm.Name, sym.Text())
	}
	f, ok := method.Obj.(*Fun)
	if !ok {
		return m.fault(TypeFault, "%s.%s is not callable", tm.Name, sym.Text())
	}
	return m.callFun(f, append(args, recv), false)
}

// instantiate builds an instance from a typed struct literal: the type
// module on top, then count (symbol, value) pairs beneath it.
func (m *VM) instantiate(count int) error {
	ty, err := m.pop()
	if err != nil {
		return err
	}
	mod, ok := ty.Obj.(*Module)
	if !ok {
		return m.fault(TypeFault, "can't instantiate a %s", ty.TypeName())
	}
	fields := NewEnvTable()
	for i := 0; i < count; i++ {
		key, err := m.pop()
		if err != nil {
			return err
		}
		val, err := m.pop()
		if err != nil {
			return err
		}
		if !key.IsSym() {
			return m.fault(TypeFault, "field names must be symbols")
		}
		fields.Set(key.AsSym(), val)
	}
	return m.push(InstanceVal(&Instance{Ty: mod, Fields: fields}))
}

// getField reads a field: instance fields first, then the type's table;
// modules expose their table directly; tables read by symbol key. A
// missing field reads as nil.
func (m *VM) getField(obj Value, sym Symbol) (Value, error) {
	switch o := obj.Obj.(type) {
	case *Instance:
		if v, ok := o.Fields.Get(sym); ok {
			return v, nil
		}
		v, _ := o.Ty.Fields.Get(sym)
		return v, nil
	case *Module:
		v, _ := o.Fields.Get(sym)
		return v, nil
	case *Table:
		v, _ := o.Get(SymVal(sym))
		return v, nil
	default:
		return NilVal(), m.fault(TypeFault, "a %s has no fields", obj.TypeName())
	}
}

// typeModuleOf maps a value to its type module. Instances answer with
// their own type.
func (m *VM) typeModuleOf(v Value) *Module {
	if inst, ok := v.Obj.(*Instance); ok {
		return inst.Ty
	}
	name := v.TypeName()
	if mod, ok := m.typeModules[name]; ok {
		return mod
	}
	// values of kinds without a registered module share an anonymous one
	mod := NewModule(name)
	m.typeModules[name] = mod
	return mod
}
