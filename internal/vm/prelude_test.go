package vm

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func runOutput(t *testing.T, input string) (Value, string) {
	t.Helper()
	machine := New(nil)
	var out bytes.Buffer
	machine.Stdout = &out
	result, err := machine.Run(compileSrc(t, input))
	if err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	return result, out.String()
}

func TestPrintln(t *testing.T) {
	_, out := runOutput(t, `println "hello"`)
	if out != "hello\n" {
		t.Fatalf("got %q", out)
	}
	// strings print raw, aggregates print inspected
	_, out = runOutput(t, "println [1, :a]")
	if out != "[1, :a]\n" {
		t.Fatalf("got %q", out)
	}
}

func TestPrint(t *testing.T) {
	_, out := runOutput(t, `print "a" >> print "b"`)
	if out != "ab" {
		t.Fatalf("got %q", out)
	}
}

func TestInput(t *testing.T) {
	machine := New(nil)
	var out bytes.Buffer
	machine.Stdout = &out
	machine.Stdin = strings.NewReader("fred\n")
	result, err := machine.Run(compileSrc(t, `input "name? "`))
	if err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	if result.AsStr() != "fred" {
		t.Fatalf("got %q", result.Inspect())
	}
	if out.String() != "name? " {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestTypeAndInspect(t *testing.T) {
	v := runSrc(t, "type 1")
	mod, ok := v.Obj.(*Module)
	if !ok || mod.Name != "Num" {
		t.Fatalf("expected the Num module, got %s", v.Inspect())
	}
	if runSrc(t, `inspect "x"`).AsStr() != `"x"` {
		t.Fatal("inspect must quote strings")
	}
	if runSrc(t, "inspect [1, 2]").AsStr() != "[1, 2]" {
		t.Fatal("inspect must render lists")
	}
}

func TestNumConversion(t *testing.T) {
	testNum(t, runSrc(t, `num "3.5"`), 3.5)
	testNum(t, runSrc(t, "num 7"), 7)
	fault := runFault(t, `num "pig"`)
	if fault.Kind != TypeFault {
		t.Fatalf("expected a TypeFault, got %s", fault.Kind)
	}
}

func TestRaise(t *testing.T) {
	fault := runFault(t, `raise "boom"`)
	if !strings.Contains(fault.Msg, "boom") {
		t.Fatalf("expected the message carried, got %q", fault.Msg)
	}
}

func TestOkFail(t *testing.T) {
	if got := runSrc(t, "ok 1").Inspect(); got != "ok(1)" {
		t.Fatalf("got %s", got)
	}
	if got := runSrc(t, `fail "nope"`).Inspect(); got != `fail("nope")` {
		t.Fatalf("got %s", got)
	}
	testBool(t, runSrc(t, "(ok 1) is Result"), true)
	testBool(t, runSrc(t, `(ok 1) == (ok 1)`), true)
	testBool(t, runSrc(t, `(ok 1) == (fail 1)`), false)
}

func TestUUID(t *testing.T) {
	a := runSrc(t, "uuid ()")
	b := runSrc(t, "uuid ()")
	if len(a.AsStr()) != 36 {
		t.Fatalf("expected a canonical uuid, got %q", a.AsStr())
	}
	if a.AsStr() == b.AsStr() {
		t.Fatal("uuids must differ")
	}
}

func TestListModule(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"List.new ()", "[]"},
		{"List.head [1, 2]", "1"},
		{"List.tail [1, 2]", "[2]"},
		{"List.rev [1, 2, 3]", "[3, 2, 1]"},
		{"List.get 1 [1, 2]", "2"},
		{"List.drop 2 [1, 2, 3]", "[3]"},
		{"def double x = x * 2\nList.map double [1, 2, 3]", "[2, 4, 6]"},
		{"List.filter (fn x = x > 1) [1, 2, 3]", "[2, 3]"},
		{"List.fold 0 (fn a b = a + b) [1, 2, 3]", "6"},
		{"List.find (fn x = x > 1) [1, 2, 3]", "2"},
		{"List.find (fn x = x > 9) [1, 2, 3]", "nil"},
	}
	for _, tt := range tests {
		if got := runSrc(t, tt.input).Inspect(); got != tt.expected {
			t.Fatalf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestListModulePartialApplication(t *testing.T) {
	src := "let inc = List.map (fn x = x + 1) in inc [1, 2]"
	if got := runSrc(t, src).Inspect(); got != "[2, 3]" {
		t.Fatalf("got %s", got)
	}
}

func TestTableModule(t *testing.T) {
	src := "Table.get :a (Table.insert :a 1 (Table.new ()))"
	testNum(t, runSrc(t, src), 1)

	testBool(t, runSrc(t, "Table.has :x %{x: 1}"), true)
	testNum(t, runSrc(t, "Table.len %{a: 1, b: 2}"), 2)
	if got := runSrc(t, "Table.keys %{a: 1}").Inspect(); got != "[:a]" {
		t.Fatalf("got %s", got)
	}
}

func TestStrModule(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`Str.upper "abc"`, `"ABC"`},
		{`Str.lower "ABC"`, `"abc"`},
		{`Str.trim "  x  "`, `"x"`},
		{`Str.split "," "a,b,c"`, `["a", "b", "c"]`},
		{`Str.join "-" ["a", "b"]`, `"a-b"`},
		{`Str.contains "b" "abc"`, "true"},
		{`Str.get 1 "abc"`, `"b"`},
		{`Str.get 9 "abc"`, "nil"},
	}
	for _, tt := range tests {
		if got := runSrc(t, tt.input).Inspect(); got != tt.expected {
			t.Fatalf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestNumModule(t *testing.T) {
	testNum(t, runSrc(t, "Num.floor 1.9"), 1)
	testNum(t, runSrc(t, "Num.abs (-3)"), 3)
	testNum(t, runSrc(t, "Num.max 2 5"), 5)
	testNum(t, runSrc(t, "Num.sqrt 16"), 4)
}

func TestFileModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")

	machine := New(nil)
	run := func(src string) Value {
		t.Helper()
		v, err := machine.Run(compileSrc(t, src))
		if err != nil {
			t.Fatalf("runtime error: %s", err)
		}
		return v
	}

	if got := run(fmt.Sprintf(`File.write "hi" %q`, path)).Inspect(); got != "ok(nil)" {
		t.Fatalf("write: %s", got)
	}
	if got := run(fmt.Sprintf(`File.append "!" %q`, path)).Inspect(); got != "ok(nil)" {
		t.Fatalf("append: %s", got)
	}
	if got := run(fmt.Sprintf(`File.read %q`, path)).Inspect(); got != `ok("hi!")` {
		t.Fatalf("read: %s", got)
	}
	if got := run(fmt.Sprintf(`File.delete %q`, path)).Inspect(); got != "ok(nil)" {
		t.Fatalf("delete: %s", got)
	}
	failed := run(fmt.Sprintf(`File.read %q`, path))
	tagged, ok := failed.Obj.(*Tagged)
	if !ok || tagged.Tag != Intern("fail") {
		t.Fatalf("reading a deleted file must fail, got %s", failed.Inspect())
	}
}

func TestDbModule(t *testing.T) {
	machine := New(nil)
	defer machine.Close()
	run := func(src string) Value {
		t.Helper()
		v, err := machine.Run(compileSrc(t, src))
		if err != nil {
			t.Fatalf("runtime error: %s", err)
		}
		return v
	}

	if got := run(`Db.exec "create table people (id integer, name text)"`).Inspect(); got != "ok(0)" {
		t.Fatalf("create: %s", got)
	}
	if got := run(`Db.exec "insert into people values (1, 'ada')"`).Inspect(); got != "ok(1)" {
		t.Fatalf("insert: %s", got)
	}
	got := run(`Db.query "select id, name from people"`).Inspect()
	if got != `ok([%{name: "ada", id: 1}])` {
		t.Fatalf("query: %s", got)
	}
	failed := run(`Db.query "select nope"`)
	tagged, ok := failed.Obj.(*Tagged)
	if !ok || tagged.Tag != Intern("fail") {
		t.Fatalf("bad sql must fail, got %s", failed.Inspect())
	}
}

func TestDbOpenSwitchesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	machine := New(nil)
	defer machine.Close()
	run := func(src string) Value {
		t.Helper()
		v, err := machine.Run(compileSrc(t, src))
		if err != nil {
			t.Fatalf("runtime error: %s", err)
		}
		return v
	}

	if got := run(fmt.Sprintf(`Db.open %q`, path)).Inspect(); got != fmt.Sprintf("ok(%q)", path) {
		t.Fatalf("open: %s", got)
	}
	if got := run(`Db.exec "create table t (n integer)"`).Inspect(); got != "ok(0)" {
		t.Fatalf("create: %s", got)
	}
	if got := run("Db.close ()").Inspect(); got != "ok(nil)" {
		t.Fatalf("close: %s", got)
	}
	// reopening the same file sees the persisted table
	run(fmt.Sprintf(`Db.open %q`, path))
	if got := run(`Db.exec "insert into t values (1)"`).Inspect(); got != "ok(1)" {
		t.Fatalf("insert after reopen: %s", got)
	}
}
