package vm

// EnvTable is a symbol-addressed variable table. Since symbols already
// compare by hash, a Go map keyed by Symbol gives the same
// hash-addressed semantics.
type EnvTable struct {
	vars  map[Symbol]Value
	order []Symbol
}

func NewEnvTable() *EnvTable {
	return &EnvTable{vars: make(map[Symbol]Value)}
}

func (e *EnvTable) Get(sym Symbol) (Value, bool) {
	v, ok := e.vars[sym]
	return v, ok
}

func (e *EnvTable) Set(sym Symbol, v Value) {
	if _, ok := e.vars[sym]; !ok {
		e.order = append(e.order, sym)
	}
	e.vars[sym] = v
}

func (e *EnvTable) Has(sym Symbol) bool {
	_, ok := e.vars[sym]
	return ok
}

func (e *EnvTable) Len() int {
	return len(e.vars)
}

// ForEach visits bindings in insertion order.
func (e *EnvTable) ForEach(fn func(Symbol, Value)) {
	for _, sym := range e.order {
		fn(sym, e.vars[sym])
	}
}
