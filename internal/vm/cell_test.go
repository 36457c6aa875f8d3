package vm

import "testing"

func TestCellCloneAndDrop(t *testing.T) {
	freed := 0
	c := NewCell(42)
	c.OnFree(func(*int) { freed++ })

	c.Clone()
	c.Clone()
	c.Clone()
	if c.Count() != 4 {
		t.Fatalf("expected a count of 4 after three clones, got %d", c.Count())
	}

	c.Drop()
	c.Drop()
	c.Drop()
	if freed != 0 {
		t.Fatal("freed while owners remain")
	}
	if v := c.Get(); v == nil || *v != 42 {
		t.Fatal("content must stay readable while owned")
	}

	c.Drop()
	if freed != 1 {
		t.Fatalf("expected exactly one free, got %d", freed)
	}
	if !c.Freed() {
		t.Fatal("cell must report freed")
	}

	// extra drops never double-free
	c.Drop()
	if freed != 1 {
		t.Fatalf("double free: %d", freed)
	}
}

func TestCellGetAfterFree(t *testing.T) {
	c := NewCell("x")
	c.Drop()
	if c.Get() != nil {
		t.Fatal("a freed cell has no content")
	}
}
