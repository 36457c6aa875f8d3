package vm

// Chunk is a compiled instruction stream. Lines and Columns run parallel
// to Code, so every instruction byte keeps the source position it came
// from. Constants live in the enclosing Unit, shared by every function
// body compiled from the same source.
type Chunk struct {
	Code    []byte
	Lines   []int
	Columns []int

	// Slots is the number of local slots the chunk needs at run time.
	Slots int

	// File is the source file name, for fault messages.
	File string
}

func NewChunk(file string) *Chunk {
	return &Chunk{
		Code:    make([]byte, 0, 256),
		Lines:   make([]int, 0, 256),
		Columns: make([]int, 0, 256),
		File:    file,
	}
}

// Write adds a byte with its source position.
func (c *Chunk) Write(b byte, line, col int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	c.Columns = append(c.Columns, col)
}

// WriteOp writes an opcode byte.
func (c *Chunk) WriteOp(op Opcode, line, col int) {
	c.Write(byte(op), line, col)
}

// WriteU16 writes a big-endian 16-bit operand.
func (c *Chunk) WriteU16(v int, line, col int) {
	c.Write(byte(v>>8), line, col)
	c.Write(byte(v), line, col)
}

// ReadU16 reads a 16-bit operand at offset.
func (c *Chunk) ReadU16(offset int) int {
	return int(c.Code[offset])<<8 | int(c.Code[offset+1])
}

// PatchU16 overwrites a 16-bit operand in place.
func (c *Chunk) PatchU16(offset, v int) {
	c.Code[offset] = byte(v >> 8)
	c.Code[offset+1] = byte(v)
}

func (c *Chunk) Len() int {
	return len(c.Code)
}

// Unit is a fully compiled source unit: the top-level chunk plus the
// constant pool every chunk of the unit indexes into.
type Unit struct {
	Main   *Chunk
	Consts []Value
}

// AddConstant interns a value into the pool, reusing an existing slot
// when an equal constant is already there.
func (u *Unit) AddConstant(v Value) int {
	for i, c := range u.Consts {
		if c.Equals(v) {
			return i
		}
	}
	u.Consts = append(u.Consts, v)
	return len(u.Consts) - 1
}
