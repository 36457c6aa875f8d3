package vm

import "testing"

func TestListPrependHeadTail(t *testing.T) {
	l := NewList().Prepend(NumVal(1))
	if !l.Head().Equals(NumVal(1)) {
		t.Fatalf("expected head 1, got %s", l.Head().Inspect())
	}
	if !l.Tail().IsEmpty() {
		t.Fatal("expected an empty tail")
	}
	if NewList().Len() != 0 || l.Len() != 1 {
		t.Fatal("wrong lengths")
	}
}

func TestListIsPersistent(t *testing.T) {
	base := ListOf(NumVal(2), NumVal(3))
	withOne := base.Prepend(NumVal(1))

	if base.Len() != 2 {
		t.Fatal("prepend must not touch the original")
	}
	if withOne.Inspect() != "[1, 2, 3]" {
		t.Fatalf("got %s", withOne.Inspect())
	}
}

func TestListSuffixSharing(t *testing.T) {
	base := ListOf(NumVal(9))
	a := base.Prepend(NumVal(1))
	b := base.Prepend(NumVal(2))

	// base's node is owned by base, a and b
	if base.HeadCellCount() != 3 {
		t.Fatalf("expected 3 owners of the shared suffix, got %d", base.HeadCellCount())
	}
	if !a.Tail().Head().Equals(b.Tail().Head()) {
		t.Fatal("suffixes must be shared")
	}
}

func TestListReleaseKeepsSharedSuffix(t *testing.T) {
	base := ListOf(NumVal(9))
	a := base.Prepend(NumVal(1))

	a.Release()
	if base.HeadCellCount() != 1 {
		t.Fatalf("expected the suffix to survive with 1 owner, got %d", base.HeadCellCount())
	}
	if !base.Head().Equals(NumVal(9)) {
		t.Fatal("shared suffix corrupted by release")
	}
}

func TestListRevTwiceIsIdentity(t *testing.T) {
	l := ListOf(NumVal(1), NumVal(2), NumVal(3))
	if !listsEqual(l.Rev().Rev(), l) {
		t.Fatal("rev . rev must be the identity")
	}
	if l.Rev().Inspect() != "[3, 2, 1]" {
		t.Fatalf("got %s", l.Rev().Inspect())
	}
}

func TestListIndex(t *testing.T) {
	l := ListOf(StrVal("a"), StrVal("b"))
	if l.Index(1).AsStr() != "b" {
		t.Fatal("wrong element")
	}
	if !l.Index(5).IsNil() || !l.Index(-1).IsNil() {
		t.Fatal("out of range reads nil")
	}
}
