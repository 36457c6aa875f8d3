package vm

// scope is one compilation scope: the chunk being filled plus the local
// slot bindings of the function body it belongs to. Name resolution is
// deliberately one-level: only the innermost scope is consulted, misses
// compile to global loads.
type scope struct {
	chunk    *Chunk
	names    map[string]int
	nextSlot int
}

func newScope(file string) *scope {
	return &scope{
		chunk: NewChunk(file),
		names: make(map[string]int),
	}
}

func (c *Compiler) scope() *scope {
	return c.scopes[len(c.scopes)-1]
}

func (c *Compiler) chunk() *Chunk {
	return c.scope().chunk
}

// beginScope opens a fresh chunk and slot space for a function body.
func (c *Compiler) beginScope() {
	c.scopes = append(c.scopes, newScope(c.file))
}

// endScope closes the innermost scope and returns its finished chunk.
func (c *Compiler) endScope() *Chunk {
	s := c.scope()
	s.chunk.Slots = s.nextSlot
	c.scopes = c.scopes[:len(c.scopes)-1]
	return s.chunk
}

// declareLocal binds name to a fresh slot. Rebinding allocates a new slot
// so the shadowed one stays intact; the previous binding is returned for
// restoring when the shadowing form ends.
func (c *Compiler) declareLocal(name string) (slot, prev int, hadPrev bool) {
	s := c.scope()
	prev, hadPrev = s.names[name]
	slot = s.nextSlot
	s.nextSlot++
	s.names[name] = slot
	return slot, prev, hadPrev
}

// restoreLocal undoes a shadowing binding.
func (c *Compiler) restoreLocal(name string, prev int, hadPrev bool) {
	s := c.scope()
	if hadPrev {
		s.names[name] = prev
	} else {
		delete(s.names, name)
	}
}

// resolveLocal finds the slot for name in the innermost scope only.
func (c *Compiler) resolveLocal(name string) (int, bool) {
	slot, ok := c.scope().names[name]
	return slot, ok
}
