package vm

// listNode is one cons cell. The tail ownership lives in a Cell so suffixes
// are shared between lists and freed when the last owner drops them.
type listNode struct {
	head Value
	tail *Cell[listNode]
}

// List is a persistent singly-linked list. Prepend, Head and Tail are O(1)
// and never copy the suffix; Rev, Index and Len walk the spine.
type List struct {
	head *Cell[listNode]
}

// NewList returns the empty list.
func NewList() *List {
	return &List{}
}

// ListOf builds a list from values in order.
func ListOf(values ...Value) *List {
	l := NewList()
	for i := len(values) - 1; i >= 0; i-- {
		l = l.Prepend(values[i])
	}
	return l
}

func (l *List) IsEmpty() bool {
	return l == nil || l.head == nil
}

// Prepend returns a new list with v in front, taking shared ownership of
// the receiver's spine.
func (l *List) Prepend(v Value) *List {
	var tail *Cell[listNode]
	if !l.IsEmpty() {
		tail = l.head.Clone()
	}
	return &List{head: NewCell(listNode{head: v, tail: tail})}
}

// Head returns the first element, or Nil for the empty list.
func (l *List) Head() Value {
	if l.IsEmpty() {
		return NilVal()
	}
	return l.head.Get().head
}

// Tail returns the list without its first element. The result shares the
// receiver's suffix.
func (l *List) Tail() *List {
	if l.IsEmpty() {
		return NewList()
	}
	return &List{head: l.head.Get().tail}
}

// Len walks the spine.
func (l *List) Len() int {
	n := 0
	for c := l.headCell(); c != nil; c = c.Get().tail {
		n++
	}
	return n
}

// Rev returns the reversed list. The result shares nothing with the
// receiver.
func (l *List) Rev() *List {
	out := NewList()
	l.Iter(func(v Value) bool {
		out = out.Prepend(v)
		return true
	})
	return out
}

// Index returns the i-th element, or Nil when out of range.
func (l *List) Index(i int) Value {
	if i < 0 {
		return NilVal()
	}
	for c := l.headCell(); c != nil; c = c.Get().tail {
		if i == 0 {
			return c.Get().head
		}
		i--
	}
	return NilVal()
}

// Iter calls fn front to back until it returns false.
func (l *List) Iter(fn func(Value) bool) {
	for c := l.headCell(); c != nil; c = c.Get().tail {
		if !fn(c.Get().head) {
			return
		}
	}
}

// Retain takes one more ownership of the list spine.
func (l *List) Retain() {
	if !l.IsEmpty() {
		l.head.Clone()
	}
}

// Release drops one ownership. When a node frees, its ownership of the
// tail is released too, so an unshared spine frees as a whole while a
// shared suffix survives.
func (l *List) Release() {
	c := l.headCell()
	for c != nil {
		next := c.Get().tail
		c.Drop()
		if !c.Freed() {
			return
		}
		c = next
	}
}

// HeadCellCount reports the ownership count of the first node, for
// inspecting sharing.
func (l *List) HeadCellCount() int {
	if l.IsEmpty() {
		return 0
	}
	return l.head.Count()
}

func (l *List) headCell() *Cell[listNode] {
	if l == nil {
		return nil
	}
	return l.head
}
