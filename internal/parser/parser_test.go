package parser

import (
	"testing"

	"github.com/yex-lang/yex/internal/ast"
)

func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	e, err := ParseExpr(input)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	return e
}

func TestPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	e := parseExpr(t, "1 + 2 * 3")
	add, ok := e.(*ast.Binary)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("expected an addition at the top, got %T", e)
	}
	mul, ok := add.Right.(*ast.Binary)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("expected the multiplication nested right, got %T", add.Right)
	}
}

func TestComparisonBindsLooserThanArithmetic(t *testing.T) {
	e := parseExpr(t, "1 + 2 < 4")
	cmp, ok := e.(*ast.Binary)
	if !ok || cmp.Op != ast.OpLt {
		t.Fatalf("expected the comparison at the top, got %T", e)
	}
}

func TestConsIsRightAssociative(t *testing.T) {
	e := parseExpr(t, "1 :: 2 :: xs")
	outer, ok := e.(*ast.Cons)
	if !ok {
		t.Fatalf("expected a cons, got %T", e)
	}
	if _, ok := outer.Tail.(*ast.Cons); !ok {
		t.Fatalf("expected the nesting on the right, got %T", outer.Tail)
	}
}

func TestPipeDesugarsToApplication(t *testing.T) {
	e := parseExpr(t, "x |> f")
	app, ok := e.(*ast.App)
	if !ok {
		t.Fatalf("expected an application, got %T", e)
	}
	callee, ok := app.Callee.(*ast.Var)
	if !ok || callee.Name != "f" {
		t.Fatal("the right side must become the callee")
	}
	arg, ok := app.Args[0].(*ast.Var)
	if !ok || arg.Name != "x" {
		t.Fatal("the left side must become the argument")
	}
}

func TestJuxtapositionCall(t *testing.T) {
	e := parseExpr(t, "f 1 2")
	app, ok := e.(*ast.App)
	if !ok || len(app.Args) != 2 {
		t.Fatalf("expected a two-argument call, got %T", e)
	}
	if app.Tail {
		t.Fatal("plain calls are not tail calls")
	}
}

func TestTailMarker(t *testing.T) {
	e := parseExpr(t, "-> f x")
	app, ok := e.(*ast.App)
	if !ok || !app.Tail {
		t.Fatal("expected a tail-marked call")
	}
	if _, err := ParseExpr("-> 1"); err == nil {
		t.Fatal("the tail marker only applies to calls")
	}
}

func TestLetInAndShadowing(t *testing.T) {
	e := parseExpr(t, "let x = 1 in x + 1")
	let, ok := e.(*ast.Let)
	if !ok || let.Name != "x" {
		t.Fatalf("expected a let, got %T", e)
	}
}

func TestTopLevelLetInIsAnExpression(t *testing.T) {
	prog, err := Parse("let x = 1 in x * 2")
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(prog.Stmts))
	}
	stmt, ok := prog.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", prog.Stmts[0])
	}
	if _, ok := stmt.Expr.(*ast.Let); !ok {
		t.Fatalf("expected a let expression, got %T", stmt.Expr)
	}

	// without `in` it stays a binding statement
	prog, err = Parse("let x = 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := prog.Stmts[0].(*ast.LetStmt); !ok {
		t.Fatalf("expected a let statement, got %T", prog.Stmts[0])
	}
}

func TestTopLevelDefInIsAnExpression(t *testing.T) {
	prog, err := Parse("def x = 1 in x + 1")
	if err != nil {
		t.Fatal(err)
	}
	stmt, ok := prog.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", prog.Stmts[0])
	}
	if _, ok := stmt.Expr.(*ast.Def); !ok {
		t.Fatalf("expected a def expression, got %T", stmt.Expr)
	}
}

func TestKeywordFieldNames(t *testing.T) {
	// `fn` and `open` are keywords, but after a dot they are plain fields
	for _, input := range []string{"Module.fn", "Db.open", "t.in"} {
		e := parseExpr(t, input)
		if _, ok := e.(*ast.Get); !ok {
			t.Fatalf("%q: expected a field access, got %T", input, e)
		}
	}

	e := parseExpr(t, "Module.fn :scale f Point")
	app, ok := e.(*ast.App)
	if !ok || len(app.Args) != 3 {
		t.Fatalf("expected a three-argument call, got %T", e)
	}
	get, ok := app.Callee.(*ast.Get)
	if !ok || get.Field != "fn" {
		t.Fatalf("expected the fn field as the callee, got %+v", app.Callee)
	}
}

func TestFnAndDefSugar(t *testing.T) {
	e := parseExpr(t, "fn a b = a + b")
	lam, ok := e.(*ast.Lambda)
	if !ok || len(lam.Params) != 2 {
		t.Fatalf("expected a two-parameter function, got %T", e)
	}

	prog, err := Parse("def add a b = a + b")
	if err != nil {
		t.Fatal(err)
	}
	def, ok := prog.Stmts[0].(*ast.DefStmt)
	if !ok {
		t.Fatalf("expected a def, got %T", prog.Stmts[0])
	}
	if _, ok := def.Value.(*ast.Lambda); !ok {
		t.Fatal("def with parameters must produce a function")
	}

	prog, err = Parse("def answer = 42")
	if err != nil {
		t.Fatal(err)
	}
	def = prog.Stmts[0].(*ast.DefStmt)
	if _, ok := def.Value.(*ast.NumLit); !ok {
		t.Fatal("def without parameters is a plain binding")
	}
}

func TestStructLiterals(t *testing.T) {
	e := parseExpr(t, "%{a: 1, b: 2}")
	lit, ok := e.(*ast.StructLit)
	if !ok || lit.Ty != "" || len(lit.Fields) != 2 {
		t.Fatalf("expected an anonymous table, got %T", e)
	}

	e = parseExpr(t, "%Point{x: 1, y: 2}")
	lit, ok = e.(*ast.StructLit)
	if !ok || lit.Ty != "Point" {
		t.Fatalf("expected a Point literal, got %+v", e)
	}
}

func TestTupleAndGrouping(t *testing.T) {
	if _, ok := parseExpr(t, "(1, 2)").(*ast.TupleLit); !ok {
		t.Fatal("expected a tuple")
	}
	if _, ok := parseExpr(t, "(1 + 2)").(*ast.Binary); !ok {
		t.Fatal("one element is grouping, not a tuple")
	}
	if _, ok := parseExpr(t, "()").(*ast.NilLit); !ok {
		t.Fatal("the empty tuple is nil")
	}
}

func TestIfRequiresElse(t *testing.T) {
	if _, err := ParseExpr("if x then 1"); err == nil {
		t.Fatal("expected an error without else")
	}
}

func TestOpenStatement(t *testing.T) {
	prog, err := Parse(`open "lib.yex"` + "\n1")
	if err != nil {
		t.Fatal(err)
	}
	open, ok := prog.Stmts[0].(*ast.OpenStmt)
	if !ok || open.Path != "lib.yex" {
		t.Fatalf("expected an open of lib.yex, got %+v", prog.Stmts[0])
	}
}

func TestPositionsStamped(t *testing.T) {
	e := parseExpr(t, "\n  foo")
	line, col := e.Pos()
	if line != 2 || col != 3 {
		t.Fatalf("expected 2:3, got %d:%d", line, col)
	}
}

func TestErrorMentionsPosition(t *testing.T) {
	_, err := Parse("let = 1")
	if err == nil {
		t.Fatal("expected an error")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if perr.Line != 1 {
		t.Fatalf("expected line 1, got %d", perr.Line)
	}
}
