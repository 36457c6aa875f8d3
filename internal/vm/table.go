package vm

// tableEntry is one key/value pair in the association sequence.
type tableEntry struct {
	key   Value
	value Value
	next  *Cell[tableEntry]
}

// Table is a persistent association sequence. Insert prepends a fresh pair
// without removing older ones; Get scans from the front, so the newest
// insert for a key shadows earlier ones while they stay visible to
// iteration.
type Table struct {
	entries *Cell[tableEntry]
	size    int
}

// NewTable returns the empty table.
func NewTable() *Table {
	return &Table{}
}

// Insert returns a new table with the pair in front, sharing the
// receiver's entries.
func (t *Table) Insert(key, value Value) *Table {
	var next *Cell[tableEntry]
	size := 0
	if t != nil {
		size = t.size
		if t.entries != nil {
			next = t.entries.Clone()
		}
	}
	return &Table{
		entries: NewCell(tableEntry{key: key, value: value, next: next}),
		size:    size + 1,
	}
}

// Get returns the newest value bound to key.
func (t *Table) Get(key Value) (Value, bool) {
	for c := t.entryCell(); c != nil; c = c.Get().next {
		if c.Get().key.Equals(key) {
			return c.Get().value, true
		}
	}
	return NilVal(), false
}

// Len counts all entries, shadowed ones included.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Iter calls fn newest first until it returns false.
func (t *Table) Iter(fn func(key, value Value) bool) {
	for c := t.entryCell(); c != nil; c = c.Get().next {
		if !fn(c.Get().key, c.Get().value) {
			return
		}
	}
}

// Keys lists every key newest first, shadowed duplicates included.
func (t *Table) Keys() *List {
	keys := NewList()
	t.Iter(func(k, _ Value) bool {
		keys = keys.Prepend(k)
		return true
	})
	return keys.Rev()
}

// Release drops one ownership of the entry chain.
func (t *Table) Release() {
	c := t.entryCell()
	for c != nil {
		next := c.Get().next
		c.Drop()
		if !c.Freed() {
			return
		}
		c = next
	}
}

func (t *Table) entryCell() *Cell[tableEntry] {
	if t == nil {
		return nil
	}
	return t.entries
}
