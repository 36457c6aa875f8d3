package vm

// run drives the dispatch loop until the outermost frame returns or an
// opcode faults.
func (m *VM) run() (Value, error) {
	v, err := m.runUntil(0)
	if err == errHalted {
		m.sp = 0
		m.fp = 0
		return NilVal(), nil
	}
	return v, err
}

// runUntil executes one opcode per step, sequentially, until the frame
// depth drops back to base. Natives re-enter here for callbacks.
func (m *VM) runUntil(base int) (Value, error) {
	for {
		f := m.frame()
		if f.ip >= f.chunk.Len() {
			return NilVal(), m.fault(MachineFault, "%v", errTruncatedBytecode)
		}
		op := Opcode(f.chunk.Code[f.ip])
		f.ip++

		switch op {
		case OP_HALT:
			// aborts the whole run; the result is nil
			return NilVal(), errHalted

		case OP_RET:
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			m.fp--
			if m.fp == base {
				return v, nil
			}
			if err := m.push(v); err != nil {
				return NilVal(), err
			}

		case OP_PUSH:
			v, err := m.readConstant()
			if err != nil {
				return NilVal(), err
			}
			if err := m.push(v); err != nil {
				return NilVal(), err
			}

		case OP_POP:
			if _, err := m.pop(); err != nil {
				return NilVal(), err
			}

		case OP_DUP:
			if m.sp == 0 {
				return NilVal(), m.fault(MachineFault, "%v", errStackUnderflow)
			}
			if err := m.push(m.peek(0)); err != nil {
				return NilVal(), err
			}

		case OP_REV:
			if m.sp < 2 {
				return NilVal(), m.fault(MachineFault, "%v", errStackUnderflow)
			}
			m.stack[m.sp-1], m.stack[m.sp-2] = m.stack[m.sp-2], m.stack[m.sp-1]

		case OP_LOAD:
			slot, err := m.readSlot()
			if err != nil {
				return NilVal(), err
			}
			if err := m.push(m.frame().slots[slot]); err != nil {
				return NilVal(), err
			}

		case OP_SAVE:
			slot, err := m.readSlot()
			if err != nil {
				return NilVal(), err
			}
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			m.frame().slots[slot] = v

		case OP_DROP:
			slot, err := m.readSlot()
			if err != nil {
				return NilVal(), err
			}
			m.frame().slots[slot] = NilVal()

		case OP_LOADG:
			sym, err := m.readSymOperand()
			if err != nil {
				return NilVal(), err
			}
			// unknown globals read as nil, not a fault
			v, _ := m.globals.Get(sym)
			if err := m.push(v); err != nil {
				return NilVal(), err
			}

		case OP_SAVEG:
			sym, err := m.readSymOperand()
			if err != nil {
				return NilVal(), err
			}
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			m.globals.Set(sym, v)

		case OP_JMF:
			target, err := m.readU16()
			if err != nil {
				return NilVal(), err
			}
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			if !v.Truthy() {
				m.frame().ip = target
			}

		case OP_JMP:
			target, err := m.readU16()
			if err != nil {
				return NilVal(), err
			}
			m.frame().ip = target

		case OP_CALL:
			argc, err := m.readByte()
			if err != nil {
				return NilVal(), err
			}
			if err := m.callTop(int(argc), false); err != nil {
				return NilVal(), err
			}

		case OP_TCALL:
			argc, err := m.readByte()
			if err != nil {
				return NilVal(), err
			}
			if err := m.callTop(int(argc), true); err != nil {
				return NilVal(), err
			}

		case OP_INVK:
			sym, err := m.readSymOperand()
			if err != nil {
				return NilVal(), err
			}
			argc, err := m.readByte()
			if err != nil {
				return NilVal(), err
			}
			if err := m.invoke(sym, int(argc)); err != nil {
				return NilVal(), err
			}

		case OP_PREP:
			head, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			lst, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			if !lst.IsList() {
				return NilVal(), m.fault(TypeFault, "can't prepend to a %s", lst.TypeName())
			}
			if err := m.push(ListVal(lst.AsList().Prepend(head))); err != nil {
				return NilVal(), err
			}

		case OP_INSERT:
			sym, err := m.readSymOperand()
			if err != nil {
				return NilVal(), err
			}
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			tbl, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			if !tbl.IsTable() {
				return NilVal(), m.fault(TypeFault, "can't insert into a %s", tbl.TypeName())
			}
			if err := m.push(TableVal(tbl.AsTable().Insert(SymVal(sym), v))); err != nil {
				return NilVal(), err
			}

		case OP_TUP:
			count, err := m.readByte()
			if err != nil {
				return NilVal(), err
			}
			items := make([]Value, count)
			for i := int(count) - 1; i >= 0; i-- {
				v, err := m.pop()
				if err != nil {
					return NilVal(), err
				}
				items[i] = v
			}
			if err := m.push(TupleVal(&Tuple{Items: items})); err != nil {
				return NilVal(), err
			}

		case OP_NEW:
			count, err := m.readByte()
			if err != nil {
				return NilVal(), err
			}
			if err := m.instantiate(int(count)); err != nil {
				return NilVal(), err
			}

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_REM,
			OP_XOR, OP_SHR, OP_SHL, OP_BITAND, OP_BITOR,
			OP_EQ, OP_LESS, OP_LESSEQ:
			if err := m.binaryOp(op); err != nil {
				return NilVal(), err
			}

		case OP_NEG:
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			if !v.IsNum() {
				return NilVal(), m.fault(TypeFault, "can't negate a %s", v.TypeName())
			}
			if err := m.push(NumVal(-v.AsNum())); err != nil {
				return NilVal(), err
			}

		case OP_NOT:
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			if err := m.push(BoolVal(!v.Truthy())); err != nil {
				return NilVal(), err
			}

		case OP_LEN:
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			n := v.Len()
			if n < 0 {
				return NilVal(), m.fault(TypeFault, "a %s has no length", v.TypeName())
			}
			if err := m.push(NumVal(float64(n))); err != nil {
				return NilVal(), err
			}

		case OP_TYPE:
			v, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			if err := m.push(ModuleVal(m.typeModuleOf(v))); err != nil {
				return NilVal(), err
			}

		case OP_GET:
			sym, err := m.readSymOperand()
			if err != nil {
				return NilVal(), err
			}
			obj, err := m.pop()
			if err != nil {
				return NilVal(), err
			}
			v, err := m.getField(obj, sym)
			if err != nil {
				return NilVal(), err
			}
			if err := m.push(v); err != nil {
				return NilVal(), err
			}

		default:
			return NilVal(), m.fault(MachineFault, "unknown opcode %d", op)
		}
	}
}
