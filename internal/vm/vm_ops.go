package vm

import "math"

// binaryOp pops two operands and applies the operator contract: numbers
// for arithmetic, numbers or strings for + and the orderings, rounded
// integers for the bit operations. Anything else is a TypeFault.
func (m *VM) binaryOp(op Opcode) error {
	right, err := m.pop()
	if err != nil {
		return err
	}
	left, err := m.pop()
	if err != nil {
		return err
	}

	switch op {
	case OP_ADD:
		switch {
		case left.IsNum() && right.IsNum():
			return m.push(NumVal(left.AsNum() + right.AsNum()))
		case left.IsStr() && right.IsStr():
			return m.push(StrVal(left.AsStr() + right.AsStr()))
		default:
			return m.binFault("+", left, right)
		}

	case OP_SUB, OP_MUL, OP_DIV, OP_REM:
		if !left.IsNum() || !right.IsNum() {
			return m.binFault(op.String(), left, right)
		}
		a, b := left.AsNum(), right.AsNum()
		switch op {
		case OP_SUB:
			return m.push(NumVal(a - b))
		case OP_MUL:
			return m.push(NumVal(a * b))
		case OP_DIV:
			return m.push(NumVal(a / b))
		default:
			return m.push(NumVal(math.Mod(a, b)))
		}

	case OP_XOR, OP_SHR, OP_SHL, OP_BITAND, OP_BITOR:
		if !left.IsNum() || !right.IsNum() {
			return m.binFault(op.String(), left, right)
		}
		a := int64(math.Round(left.AsNum()))
		b := int64(math.Round(right.AsNum()))
		var r int64
		switch op {
		case OP_XOR:
			r = a ^ b
		case OP_SHR:
			r = a >> uint64(b)
		case OP_SHL:
			r = a << uint64(b)
		case OP_BITAND:
			r = a & b
		default:
			r = a | b
		}
		return m.push(NumVal(float64(r)))

	case OP_EQ:
		return m.push(BoolVal(left.Equals(right)))

	case OP_LESS, OP_LESSEQ:
		switch {
		case left.IsNum() && right.IsNum():
			if op == OP_LESS {
				return m.push(BoolVal(left.AsNum() < right.AsNum()))
			}
			return m.push(BoolVal(left.AsNum() <= right.AsNum()))
		case left.IsStr() && right.IsStr():
			if op == OP_LESS {
				return m.push(BoolVal(left.AsStr() < right.AsStr()))
			}
			return m.push(BoolVal(left.AsStr() <= right.AsStr()))
		default:
			return m.binFault(op.String(), left, right)
		}

	default:
		return m.fault(TypeFault, "unknown binary opcode %s", op)
	}
}

func (m *VM) binFault(op string, left, right Value) error {
	return m.fault(TypeFault, "unsupported operands for %s: %s and %s",
		op, left.TypeName(), right.TypeName())
}
