package vm

import "math"

func numModule() *Module {
	mod := NewModule("Num")

	unary := func(name string, fn func(float64) float64) {
		moduleFn(mod, name, 1, func(m *VM, args []Value) (Value, error) {
			n, err := expectNum(m, args[0], "Num."+name)
			if err != nil {
				return NilVal(), err
			}
			return NumVal(fn(n)), nil
		})
	}

	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("abs", math.Abs)
	unary("sqrt", math.Sqrt)

	moduleFn(mod, "min", 2, func(m *VM, args []Value) (Value, error) {
		a, err := expectNum(m, args[0], "Num.min")
		if err != nil {
			return NilVal(), err
		}
		b, err := expectNum(m, args[1], "Num.min")
		if err != nil {
			return NilVal(), err
		}
		return NumVal(math.Min(a, b)), nil
	})

	moduleFn(mod, "max", 2, func(m *VM, args []Value) (Value, error) {
		a, err := expectNum(m, args[0], "Num.max")
		if err != nil {
			return NilVal(), err
		}
		b, err := expectNum(m, args[1], "Num.max")
		if err != nil {
			return NilVal(), err
		}
		return NumVal(math.Max(a, b)), nil
	})

	return mod
}

func expectNum(m *VM, v Value, fn string) (float64, error) {
	if !v.IsNum() {
		return 0, m.fault(TypeFault, "%s expects a Num, got a %s", fn, v.TypeName())
	}
	return v.AsNum(), nil
}
