package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders a unit's main chunk and every function body in its
// constant pool.
func Disassemble(unit *Unit) string {
	var sb strings.Builder
	disassembleChunk(&sb, unit, unit.Main, "main")
	for i, c := range unit.Consts {
		if f, ok := c.Obj.(*Fun); ok && f.Body != nil {
			name := f.Name
			if name == "" {
				name = fmt.Sprintf("fn#%d", i)
			}
			sb.WriteByte('\n')
			disassembleChunk(&sb, unit, f.Body, name)
		}
	}
	return sb.String()
}

func disassembleChunk(sb *strings.Builder, unit *Unit, c *Chunk, name string) {
	fmt.Fprintf(sb, "== %s ==\n", name)
	for offset := 0; offset < c.Len(); {
		offset = disassembleInstruction(sb, unit, c, offset)
	}
}

func disassembleInstruction(sb *strings.Builder, unit *Unit, c *Chunk, offset int) int {
	fmt.Fprintf(sb, "%04d %4d:%-3d ", offset, c.Lines[offset], c.Columns[offset])

	op := Opcode(c.Code[offset])
	switch op {
	case OP_PUSH, OP_LOADG, OP_SAVEG, OP_INSERT, OP_GET:
		idx := c.ReadU16(offset + 1)
		fmt.Fprintf(sb, "%-8s %4d  ; %s\n", op, idx, constName(unit, idx))
		return offset + 3

	case OP_LOAD, OP_SAVE, OP_DROP:
		fmt.Fprintf(sb, "%-8s %4d\n", op, c.ReadU16(offset+1))
		return offset + 3

	case OP_JMF, OP_JMP:
		fmt.Fprintf(sb, "%-8s -> %04d\n", op, c.ReadU16(offset+1))
		return offset + 3

	case OP_CALL, OP_TCALL, OP_TUP, OP_NEW:
		fmt.Fprintf(sb, "%-8s %4d\n", op, c.Code[offset+1])
		return offset + 2

	case OP_INVK:
		idx := c.ReadU16(offset + 1)
		argc := c.Code[offset+3]
		fmt.Fprintf(sb, "%-8s %4d %d  ; %s\n", op, idx, argc, constName(unit, idx))
		return offset + 4

	default:
		fmt.Fprintf(sb, "%s\n", op)
		return offset + 1
	}
}

func constName(unit *Unit, idx int) string {
	if idx >= len(unit.Consts) {
		return "?"
	}
	return unit.Consts[idx].Inspect()
}
