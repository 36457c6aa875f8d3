package vm

import "testing"

func TestTableInsertGet(t *testing.T) {
	key := SymVal(Intern("a"))
	tbl := NewTable().Insert(key, NumVal(1))

	v, ok := tbl.Get(key)
	if !ok || !v.Equals(NumVal(1)) {
		t.Fatalf("expected 1, got %s", v.Inspect())
	}
	if _, ok := tbl.Get(SymVal(Intern("missing"))); ok {
		t.Fatal("missing key must not be found")
	}
}

func TestTableDuplicateKeyShadow(t *testing.T) {
	key := SymVal(Intern("a"))
	tbl := NewTable().Insert(key, NumVal(1)).Insert(key, NumVal(2))

	// the newest insert wins on read
	v, _ := tbl.Get(key)
	if !v.Equals(NumVal(2)) {
		t.Fatalf("expected the newest value 2, got %s", v.Inspect())
	}

	// the shadowed entry stays in the sequence
	if tbl.Len() != 2 {
		t.Fatalf("expected both entries kept, len is %d", tbl.Len())
	}
	if tbl.Keys().Len() != 2 {
		t.Fatal("iteration must still see the shadowed entry")
	}
}

func TestTableIsPersistent(t *testing.T) {
	key := SymVal(Intern("k"))
	before := NewTable()
	after := before.Insert(key, NumVal(1))

	if before.Len() != 0 {
		t.Fatal("insert must not touch the original")
	}
	if after.Len() != 1 {
		t.Fatal("insert lost the pair")
	}
}

func TestTableIterNewestFirst(t *testing.T) {
	tbl := NewTable().
		Insert(SymVal(Intern("a")), NumVal(1)).
		Insert(SymVal(Intern("b")), NumVal(2))

	var seen []Value
	tbl.Iter(func(_, v Value) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 || !seen[0].Equals(NumVal(2)) || !seen[1].Equals(NumVal(1)) {
		t.Fatal("iteration must run newest first")
	}
}
