package vm

// Cell is a reference-counted ownership cell. A cell starts owned once;
// Clone takes another ownership, Drop releases one, and the content is
// freed exactly when the count reaches zero. There is no cycle collection:
// the structures built on cells (lists, tables) cannot form cycles.
type Cell[T any] struct {
	value T
	count int
	freed bool
	// onFree fires once, when the count hits zero.
	onFree func(*T)
}

// NewCell wraps v with an ownership count of one.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v, count: 1}
}

// Clone takes an additional ownership of the cell.
func (c *Cell[T]) Clone() *Cell[T] {
	if c == nil {
		return nil
	}
	c.count++
	return c
}

// Get returns the shared content. Reading a freed cell is a bug in the
// caller's ownership accounting.
func (c *Cell[T]) Get() *T {
	if c == nil || c.freed {
		return nil
	}
	return &c.value
}

// Drop releases one ownership, freeing the content at zero.
func (c *Cell[T]) Drop() {
	if c == nil || c.freed {
		return
	}
	c.count--
	if c.count > 0 {
		return
	}
	c.freed = true
	if c.onFree != nil {
		c.onFree(&c.value)
	}
	var zero T
	c.value = zero
}

// Count reports the live ownership count.
func (c *Cell[T]) Count() int {
	if c == nil {
		return 0
	}
	return c.count
}

// Freed reports whether the content has been released.
func (c *Cell[T]) Freed() bool {
	return c != nil && c.freed
}

// OnFree installs a hook called once when the cell is freed.
func (c *Cell[T]) OnFree(fn func(*T)) {
	c.onFree = fn
}
