package vm

import (
	"fmt"

	"github.com/yex-lang/yex/internal/ast"
)

// CompileError is a compile-time error with its source position.
type CompileError struct {
	Msg    string
	Line   int
	Column int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[%d:%d] %s", e.Line, e.Column, e.Msg)
}

// Compiler turns an AST into a Unit: bytecode chunks sharing one
// deduplicated constant pool.
type Compiler struct {
	unit   *Unit
	file   string
	scopes []*scope
}

func NewCompiler(file string) *Compiler {
	return &Compiler{
		unit: &Unit{},
		file: file,
	}
}

// Compile compiles a whole program. The unit's main chunk leaves the
// value of the last expression statement on the stack and returns it.
func Compile(prog *ast.Program, file string) (*Unit, error) {
	c := NewCompiler(file)
	return c.compileProgram(prog)
}

// CompileExpr compiles a single expression as a unit (REPL input).
func CompileExpr(e ast.Expr, file string) (*Unit, error) {
	c := NewCompiler(file)
	c.beginScope()
	if err := c.expr(e); err != nil {
		return nil, err
	}
	line, col := e.Pos()
	c.emitOp(OP_RET, line, col)
	c.unit.Main = c.endScope()
	return c.unit, nil
}

func (c *Compiler) compileProgram(prog *ast.Program) (*Unit, error) {
	c.beginScope()
	lastWasExpr := false
	line, col := 1, 1
	for _, stmt := range prog.Stmts {
		line, col = stmt.Pos()
		if err := c.stmt(stmt); err != nil {
			return nil, err
		}
		_, lastWasExpr = stmt.(*ast.ExprStmt)
	}
	if !lastWasExpr {
		c.emitConstant(NilVal(), line, col)
	}
	c.emitOp(OP_RET, line, col)
	c.unit.Main = c.endScope()
	return c.unit, nil
}

func (c *Compiler) stmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.DefStmt:
		return c.bindGlobal(s.Name, s.Value, s)
	case *ast.LetStmt:
		// top-level let binds a global, like def
		return c.bindGlobal(s.Name, s.Value, s)
	case *ast.OpenStmt:
		line, col := s.Pos()
		return &CompileError{Msg: "open must be resolved before compiling", Line: line, Column: col}
	case *ast.ExprStmt:
		return c.expr(s.Expr)
	default:
		line, col := s.Pos()
		return &CompileError{Msg: "unknown statement", Line: line, Column: col}
	}
}

func (c *Compiler) bindGlobal(name string, value ast.Expr, at ast.Node) error {
	if err := c.namedExpr(name, value); err != nil {
		return err
	}
	line, col := at.Pos()
	c.emitOp(OP_SAVEG, line, col)
	c.emitU16(c.symConst(name), line, col)
	return nil
}

// namedExpr compiles value, naming it when it is a function literal so
// partial applications print something useful.
func (c *Compiler) namedExpr(name string, value ast.Expr) error {
	if lam, ok := value.(*ast.Lambda); ok {
		return c.lambda(lam, name)
	}
	return c.expr(value)
}

func (c *Compiler) expr(e ast.Expr) error {
	line, col := e.Pos()
	switch e := e.(type) {
	case *ast.NumLit:
		c.emitConstant(NumVal(e.Value), line, col)
	case *ast.StrLit:
		c.emitConstant(StrVal(e.Value), line, col)
	case *ast.SymLit:
		c.emitConstant(SymVal(Intern(e.Name)), line, col)
	case *ast.BoolLit:
		c.emitConstant(BoolVal(e.Value), line, col)
	case *ast.NilLit:
		c.emitConstant(NilVal(), line, col)
	case *ast.ListLit:
		return c.listLit(e)
	case *ast.TupleLit:
		return c.tupleLit(e)
	case *ast.StructLit:
		return c.structLit(e)
	case *ast.Var:
		c.variable(e.Name, line, col)
	case *ast.If:
		return c.ifExpr(e)
	case *ast.Let:
		return c.letExpr(e)
	case *ast.Def:
		return c.defExpr(e)
	case *ast.Lambda:
		return c.lambda(e, "")
	case *ast.App:
		return c.app(e)
	case *ast.Binary:
		return c.binary(e)
	case *ast.Unary:
		return c.unary(e)
	case *ast.Cons:
		if err := c.expr(e.Tail); err != nil {
			return err
		}
		if err := c.expr(e.Head); err != nil {
			return err
		}
		c.emitOp(OP_PREP, line, col)
	case *ast.Seq:
		// the left value is deliberately left on the stack
		if err := c.expr(e.Left); err != nil {
			return err
		}
		return c.expr(e.Right)
	case *ast.Get:
		if err := c.expr(e.Obj); err != nil {
			return err
		}
		c.emitOp(OP_GET, line, col)
		c.emitU16(c.symConst(e.Field), line, col)
	default:
		return &CompileError{Msg: "unknown expression", Line: line, Column: col}
	}
	return nil
}

// listLit pushes the interned empty list, then prepends elements back to
// front so the result reads left to right.
func (c *Compiler) listLit(e *ast.ListLit) error {
	line, col := e.Pos()
	c.emitConstant(ListVal(NewList()), line, col)
	for i := len(e.Elems) - 1; i >= 0; i-- {
		if err := c.expr(e.Elems[i]); err != nil {
			return err
		}
		eline, ecol := e.Elems[i].Pos()
		c.emitOp(OP_PREP, eline, ecol)
	}
	return nil
}

func (c *Compiler) tupleLit(e *ast.TupleLit) error {
	for _, el := range e.Elems {
		if err := c.expr(el); err != nil {
			return err
		}
	}
	line, col := e.Pos()
	c.emitOp(OP_TUP, line, col)
	c.emitByte(byte(len(e.Elems)), line, col)
	return nil
}

func (c *Compiler) structLit(e *ast.StructLit) error {
	line, col := e.Pos()
	if e.Ty == "" {
		c.emitConstant(TableVal(NewTable()), line, col)
		for _, f := range e.Fields {
			if err := c.expr(f.Value); err != nil {
				return err
			}
			fline, fcol := f.Value.Pos()
			c.emitOp(OP_INSERT, fline, fcol)
			c.emitU16(c.symConst(f.Name), fline, fcol)
		}
		return nil
	}
	for _, f := range e.Fields {
		if err := c.expr(f.Value); err != nil {
			return err
		}
		fline, fcol := f.Value.Pos()
		c.emitConstant(SymVal(Intern(f.Name)), fline, fcol)
	}
	c.variable(e.Ty, line, col)
	c.emitOp(OP_NEW, line, col)
	c.emitByte(byte(len(e.Fields)), line, col)
	return nil
}

// variable resolves against the innermost scope only; anything else is a
// global load.
func (c *Compiler) variable(name string, line, col int) {
	if slot, ok := c.resolveLocal(name); ok {
		c.emitOp(OP_LOAD, line, col)
		c.emitU16(slot, line, col)
		return
	}
	c.emitOp(OP_LOADG, line, col)
	c.emitU16(c.symConst(name), line, col)
}

func (c *Compiler) ifExpr(e *ast.If) error {
	if err := c.expr(e.Cond); err != nil {
		return err
	}
	line, col := e.Pos()
	elseJump := c.emitJump(OP_JMF, line, col)
	if err := c.expr(e.Then); err != nil {
		return err
	}
	endJump := c.emitJump(OP_JMP, line, col)
	c.patchJump(elseJump)
	if err := c.expr(e.Else); err != nil {
		return err
	}
	c.patchJump(endJump)
	return nil
}

// letExpr binds a fresh slot for the body, then drops it. Rebinding the
// same name shadows; the outer binding is restored afterwards.
func (c *Compiler) letExpr(e *ast.Let) error {
	if err := c.namedExpr(e.Name, e.Value); err != nil {
		return err
	}
	line, col := e.Pos()
	slot, prev, hadPrev := c.declareLocal(e.Name)
	c.emitOp(OP_SAVE, line, col)
	c.emitU16(slot, line, col)
	if err := c.expr(e.Body); err != nil {
		return err
	}
	c.emitOp(OP_DROP, line, col)
	c.emitU16(slot, line, col)
	c.restoreLocal(e.Name, prev, hadPrev)
	return nil
}

// defExpr binds a global for the body; the binding stays after the
// expression ends.
func (c *Compiler) defExpr(e *ast.Def) error {
	if err := c.bindGlobal(e.Name, e.Value, e); err != nil {
		return err
	}
	return c.expr(e.Body)
}

func (c *Compiler) lambda(e *ast.Lambda, name string) error {
	line, col := e.Pos()
	c.beginScope()
	for _, p := range e.Params {
		c.declareLocal(p)
	}
	if err := c.expr(e.Body); err != nil {
		return err
	}
	bline, bcol := e.Body.Pos()
	c.emitOp(OP_RET, bline, bcol)
	body := c.endScope()
	fun := &Fun{Name: name, Arity: len(e.Params), Body: body, Unit: c.unit}
	c.emitConstant(FunVal(fun), line, col)
	return nil
}

// app compiles arguments in reverse, then the callee, so the machine pops
// the callee first and then arguments in source order.
func (c *Compiler) app(e *ast.App) error {
	for i := len(e.Args) - 1; i >= 0; i-- {
		if err := c.expr(e.Args[i]); err != nil {
			return err
		}
	}
	line, col := e.Pos()
	if get, ok := e.Callee.(*ast.Get); ok && !e.Tail {
		// method invocation: receiver last, dispatched on its type
		if err := c.expr(get.Obj); err != nil {
			return err
		}
		c.emitOp(OP_INVK, line, col)
		c.emitU16(c.symConst(get.Field), line, col)
		c.emitByte(byte(len(e.Args)), line, col)
		return nil
	}
	if err := c.expr(e.Callee); err != nil {
		return err
	}
	op := OP_CALL
	if e.Tail {
		op = OP_TCALL
	}
	c.emitOp(op, line, col)
	c.emitByte(byte(len(e.Args)), line, col)
	return nil
}

func (c *Compiler) binary(e *ast.Binary) error {
	line, col := e.Pos()
	switch e.Op {
	case ast.OpAnd:
		return c.shortCircuit(e, false)
	case ast.OpOr:
		return c.shortCircuit(e, true)
	}

	if err := c.expr(e.Left); err != nil {
		return err
	}
	if err := c.expr(e.Right); err != nil {
		return err
	}

	switch e.Op {
	case ast.OpAdd:
		c.emitOp(OP_ADD, line, col)
	case ast.OpSub:
		c.emitOp(OP_SUB, line, col)
	case ast.OpMul:
		c.emitOp(OP_MUL, line, col)
	case ast.OpDiv:
		c.emitOp(OP_DIV, line, col)
	case ast.OpRem:
		c.emitOp(OP_REM, line, col)
	case ast.OpBitAnd:
		c.emitOp(OP_BITAND, line, col)
	case ast.OpBitOr:
		c.emitOp(OP_BITOR, line, col)
	case ast.OpBitXor:
		c.emitOp(OP_XOR, line, col)
	case ast.OpShl:
		c.emitOp(OP_SHL, line, col)
	case ast.OpShr:
		c.emitOp(OP_SHR, line, col)
	case ast.OpLt:
		c.emitOp(OP_LESS, line, col)
	case ast.OpLe:
		c.emitOp(OP_LESSEQ, line, col)
	case ast.OpGt:
		c.emitOp(OP_LESSEQ, line, col)
		c.emitOp(OP_NOT, line, col)
	case ast.OpGe:
		c.emitOp(OP_LESS, line, col)
		c.emitOp(OP_NOT, line, col)
	case ast.OpEq:
		c.emitOp(OP_EQ, line, col)
	case ast.OpNe:
		c.emitOp(OP_EQ, line, col)
		c.emitOp(OP_NOT, line, col)
	case ast.OpIs:
		c.emitOp(OP_REV, line, col)
		c.emitOp(OP_TYPE, line, col)
		c.emitOp(OP_EQ, line, col)
	default:
		return &CompileError{Msg: "unknown operator", Line: line, Column: col}
	}
	return nil
}

// shortCircuit lowers and/or to DUP/[NOT]/JMF/POP over core opcodes.
func (c *Compiler) shortCircuit(e *ast.Binary, isOr bool) error {
	if err := c.expr(e.Left); err != nil {
		return err
	}
	line, col := e.Pos()
	c.emitOp(OP_DUP, line, col)
	if isOr {
		c.emitOp(OP_NOT, line, col)
	}
	end := c.emitJump(OP_JMF, line, col)
	c.emitOp(OP_POP, line, col)
	if err := c.expr(e.Right); err != nil {
		return err
	}
	c.patchJump(end)
	return nil
}

func (c *Compiler) unary(e *ast.Unary) error {
	if err := c.expr(e.Operand); err != nil {
		return err
	}
	line, col := e.Pos()
	switch e.Op {
	case ast.OpNeg:
		c.emitOp(OP_NEG, line, col)
	case ast.OpNot:
		c.emitOp(OP_NOT, line, col)
	}
	return nil
}

// Emit helpers

func (c *Compiler) emitOp(op Opcode, line, col int) {
	c.chunk().WriteOp(op, line, col)
}

func (c *Compiler) emitByte(b byte, line, col int) {
	c.chunk().Write(b, line, col)
}

func (c *Compiler) emitU16(v int, line, col int) {
	c.chunk().WriteU16(v, line, col)
}

// emitConstant interns v into the pool and pushes it.
func (c *Compiler) emitConstant(v Value, line, col int) {
	c.emitOp(OP_PUSH, line, col)
	c.emitU16(c.unit.AddConstant(v), line, col)
}

func (c *Compiler) symConst(name string) int {
	return c.unit.AddConstant(SymVal(Intern(name)))
}

// emitJump writes op with a placeholder target and returns the operand
// offset for patching.
func (c *Compiler) emitJump(op Opcode, line, col int) int {
	c.emitOp(op, line, col)
	offset := c.chunk().Len()
	c.emitU16(0xFFFF, line, col)
	return offset
}

// patchJump points the placeholder at the current end of the chunk.
// Targets are absolute code offsets.
func (c *Compiler) patchJump(operandOffset int) {
	c.chunk().PatchU16(operandOffset, c.chunk().Len())
}
