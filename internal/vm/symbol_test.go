package vm

import "testing"

func TestInternIsStable(t *testing.T) {
	a := Intern("hello")
	b := Intern("hello")
	if a != b {
		t.Fatal("the same text must intern to the same symbol")
	}
	if a.Text() != "hello" {
		t.Fatalf("expected %q, got %q", "hello", a.Text())
	}
}

func TestDistinctTextsDistinctSymbols(t *testing.T) {
	if Intern("foo") == Intern("bar") {
		t.Fatal("distinct texts must not collide here")
	}
}

func TestSymbolValueEquality(t *testing.T) {
	if !SymVal(Intern("x")).Equals(SymVal(Intern("x"))) {
		t.Fatal("equal symbols must compare equal as values")
	}
	if SymVal(Intern("x")).Equals(StrVal("x")) {
		t.Fatal("symbols never equal strings")
	}
}
