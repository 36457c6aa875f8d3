package vm

// Opcode is a single machine instruction. Operands follow the opcode byte
// in the code stream: u16 big-endian for pool indexes, slots and jump
// targets, u8 for argument counts.
type Opcode byte

const (
	// Machine control
	OP_HALT Opcode = iota // Stop, discard the stack, result is nil
	OP_RET                // Return top of stack from the current frame

	// Stack manipulation
	OP_PUSH // u16 pool index: push a constant
	OP_POP  // Discard top of stack
	OP_DUP  // Duplicate top of stack
	OP_REV  // Swap the top two values

	// Bindings
	OP_LOAD  // u16 slot: push a local
	OP_SAVE  // u16 slot: pop into a local
	OP_DROP  // u16 slot: clear a local
	OP_LOADG // u16 pool index of a symbol: push a global, nil when unbound
	OP_SAVEG // u16 pool index of a symbol: pop into a global

	// Control flow. Jump targets are absolute code offsets.
	OP_JMF // u16 target: pop, jump when falsy
	OP_JMP // u16 target: jump

	// Calls
	OP_CALL  // u8 argc: pop callee, pop argc args
	OP_TCALL // u8 argc: like CALL but reuses the current frame
	OP_INVK  // u16 pool index of a symbol, u8 argc: method call

	// Aggregates
	OP_PREP   // Pop head, pop list, push list with head in front
	OP_INSERT // u16 pool index of a symbol: pop value, pop table, push insert
	OP_TUP    // u8 count: pop count values, push a tuple
	OP_NEW    // u8 field count: pop type, pop (symbol, value) pairs, push instance

	// Arithmetic
	OP_ADD // Num+Num or Str+Str
	OP_SUB
	OP_MUL
	OP_DIV
	OP_REM
	OP_NEG

	// Bitwise. Operands round to integers first.
	OP_XOR
	OP_SHR
	OP_SHL
	OP_BITAND
	OP_BITOR

	// Comparison and tests
	OP_EQ
	OP_LESS
	OP_LESSEQ
	OP_NOT
	OP_LEN
	OP_TYPE // Pop a value, push its type module

	// Field access
	OP_GET // u16 pool index of a symbol: pop object, push field
)

// OpcodeNames maps opcodes to mnemonics for disassembly.
var OpcodeNames = map[Opcode]string{
	OP_HALT:   "HALT",
	OP_RET:    "RET",
	OP_PUSH:   "PUSH",
	OP_POP:    "POP",
	OP_DUP:    "DUP",
	OP_REV:    "REV",
	OP_LOAD:   "LOAD",
	OP_SAVE:   "SAVE",
	OP_DROP:   "DROP",
	OP_LOADG:  "LOADG",
	OP_SAVEG:  "SAVEG",
	OP_JMF:    "JMF",
	OP_JMP:    "JMP",
	OP_CALL:   "CALL",
	OP_TCALL:  "TCALL",
	OP_INVK:   "INVK",
	OP_PREP:   "PREP",
	OP_INSERT: "INSERT",
	OP_TUP:    "TUP",
	OP_NEW:    "NEW",
	OP_ADD:    "ADD",
	OP_SUB:    "SUB",
	OP_MUL:    "MUL",
	OP_DIV:    "DIV",
	OP_REM:    "REM",
	OP_NEG:    "NEG",
	OP_XOR:    "XOR",
	OP_SHR:    "SHR",
	OP_SHL:    "SHL",
	OP_BITAND: "BITAND",
	OP_BITOR:  "BITOR",
	OP_EQ:     "EQ",
	OP_LESS:   "LESS",
	OP_LESSEQ: "LESSEQ",
	OP_NOT:    "NOT",
	OP_LEN:    "LEN",
	OP_TYPE:   "TYPE",
	OP_GET:    "GET",
}

func (op Opcode) String() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
