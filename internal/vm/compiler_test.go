package vm

import (
	"testing"
)

// opcodesOf walks a chunk and returns just the opcode sequence.
func opcodesOf(c *Chunk) []Opcode {
	var ops []Opcode
	for offset := 0; offset < c.Len(); {
		op := Opcode(c.Code[offset])
		ops = append(ops, op)
		switch op {
		case OP_PUSH, OP_LOAD, OP_SAVE, OP_DROP, OP_LOADG, OP_SAVEG,
			OP_JMF, OP_JMP, OP_INSERT, OP_GET:
			offset += 3
		case OP_CALL, OP_TCALL, OP_TUP, OP_NEW:
			offset += 2
		case OP_INVK:
			offset += 4
		default:
			offset++
		}
	}
	return ops
}

func assertOpcodes(t *testing.T, input string, expected []Opcode) {
	t.Helper()
	unit := compileSrc(t, input)
	got := opcodesOf(unit.Main)
	if len(got) != len(expected) {
		t.Fatalf("%q: expected %v, got %v", input, expected, got)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Fatalf("%q: expected %v, got %v", input, expected, got)
		}
	}
}

func TestConstantDedup(t *testing.T) {
	unit := compileSrc(t, "1 + 1 + 1")
	count := 0
	for _, c := range unit.Consts {
		if c.IsNum() && c.AsNum() == 1 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one pool slot for the repeated constant, got %d", count)
	}
}

func TestEmptyListConstantInterned(t *testing.T) {
	unit := compileSrc(t, "[[], []]")
	count := 0
	for _, c := range unit.Consts {
		if c.IsList() {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one interned empty list, got %d", count)
	}
}

func TestOperatorLowering(t *testing.T) {
	tests := []struct {
		input    string
		expected []Opcode
	}{
		{"2 > 1", []Opcode{OP_PUSH, OP_PUSH, OP_LESSEQ, OP_NOT, OP_RET}},
		{"2 >= 1", []Opcode{OP_PUSH, OP_PUSH, OP_LESS, OP_NOT, OP_RET}},
		{"1 != 2", []Opcode{OP_PUSH, OP_PUSH, OP_EQ, OP_NOT, OP_RET}},
		{"x is Num", []Opcode{OP_LOADG, OP_LOADG, OP_REV, OP_TYPE, OP_EQ, OP_RET}},
		{"1 :: []", []Opcode{OP_PUSH, OP_PUSH, OP_PREP, OP_RET}},
		{"not true", []Opcode{OP_PUSH, OP_NOT, OP_RET}},
	}
	for _, tt := range tests {
		assertOpcodes(t, tt.input, tt.expected)
	}
}

func TestListLiteralPrependsInReverse(t *testing.T) {
	assertOpcodes(t, "[1, 2]",
		[]Opcode{OP_PUSH, OP_PUSH, OP_PREP, OP_PUSH, OP_PREP, OP_RET})

	// the first PREP'd element must be the last one in source order
	unit := compileSrc(t, "[1, 2]")
	firstElem := unit.Consts[unit.Main.ReadU16(4)]
	if !firstElem.Equals(NumVal(2)) {
		t.Fatalf("expected the last element pushed first, got %s", firstElem.Inspect())
	}
}

func TestShortCircuitLowering(t *testing.T) {
	assertOpcodes(t, "a and b",
		[]Opcode{OP_LOADG, OP_DUP, OP_JMF, OP_POP, OP_LOADG, OP_RET})
	assertOpcodes(t, "a or b",
		[]Opcode{OP_LOADG, OP_DUP, OP_NOT, OP_JMF, OP_POP, OP_LOADG, OP_RET})
}

func TestJumpTargetsAreAbsolute(t *testing.T) {
	unit := compileSrc(t, "if true then 1 else 2")
	c := unit.Main
	// PUSH(3) JMF(3) PUSH(3) JMP(3) PUSH(3) RET
	if Opcode(c.Code[3]) != OP_JMF {
		t.Fatalf("expected JMF at offset 3, got %s", Opcode(c.Code[3]))
	}
	elseTarget := c.ReadU16(4)
	if elseTarget != 12 {
		t.Fatalf("expected the else branch at offset 12, got %d", elseTarget)
	}
	if Opcode(c.Code[9]) != OP_JMP {
		t.Fatalf("expected JMP at offset 9, got %s", Opcode(c.Code[9]))
	}
	endTarget := c.ReadU16(10)
	if endTarget != 15 || Opcode(c.Code[endTarget]) != OP_RET {
		t.Fatalf("expected the join point at the RET, got %d", endTarget)
	}
}

func TestCallArgsCompileInReverse(t *testing.T) {
	unit := compileSrc(t, "f 1 2")
	c := unit.Main
	// PUSH 2, PUSH 1, LOADG f, CALL 2
	if !unit.Consts[c.ReadU16(1)].Equals(NumVal(2)) {
		t.Fatal("expected the last argument pushed first")
	}
	if !unit.Consts[c.ReadU16(4)].Equals(NumVal(1)) {
		t.Fatal("expected the first argument pushed last")
	}
	if Opcode(c.Code[9]) != OP_CALL || c.Code[10] != 2 {
		t.Fatal("expected CALL 2 after the callee")
	}
}

func TestTailMarkerCompilesToTCall(t *testing.T) {
	unit := compileSrc(t, "def loop n = -> loop n\n0")
	found := false
	for _, c := range unit.Consts {
		f, ok := c.Obj.(*Fun)
		if !ok || f.Body == nil {
			continue
		}
		for _, op := range opcodesOf(f.Body) {
			if op == OP_TCALL {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected a TCALL in the function body")
	}
}

func TestDefNamesTheFunction(t *testing.T) {
	unit := compileSrc(t, "def double x = x * 2")
	for _, c := range unit.Consts {
		if f, ok := c.Obj.(*Fun); ok {
			if f.Name != "double" {
				t.Fatalf("expected the function named %q, got %q", "double", f.Name)
			}
			if f.Arity != 1 {
				t.Fatalf("expected arity 1, got %d", f.Arity)
			}
			return
		}
	}
	t.Fatal("no function constant in the pool")
}

func TestLocalSlotsAndShadowing(t *testing.T) {
	unit := compileSrc(t, "let x = 1 in let x = 2 in x")
	if unit.Main.Slots != 2 {
		t.Fatalf("rebinding must allocate a fresh slot, got %d slots", unit.Main.Slots)
	}
}

func TestEveryByteHasAPosition(t *testing.T) {
	unit := compileSrc(t, "let x = 1 in\nif x then [x] else %{a: x}")
	c := unit.Main
	if len(c.Lines) != c.Len() || len(c.Columns) != c.Len() {
		t.Fatal("the position arrays must run parallel to the code")
	}
	for i := range c.Lines {
		if c.Lines[i] == 0 {
			t.Fatalf("byte %d has no line", i)
		}
	}
}
