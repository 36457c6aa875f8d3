// Package ast defines the yex syntax tree handed to the compiler.
// Every node carries the (line, column) of the source construct it came from.
package ast

type Node interface {
	Pos() (line, column int)
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Program is a parsed compilation unit.
type Program struct {
	Stmts []Stmt
}

type position struct {
	Line   int
	Column int
}

func (p position) Pos() (int, int) { return p.Line, p.Column }

// SetPos records the source position of a node. It is promoted to every
// node type through embedding so the parser can stamp nodes generically.
func (p *position) SetPos(line, column int) { p.Line, p.Column = line, column }

// Literals

type NumLit struct {
	position
	Value float64
}

type StrLit struct {
	position
	Value string
}

type SymLit struct {
	position
	Name string
}

type BoolLit struct {
	position
	Value bool
}

type NilLit struct {
	position
}

type ListLit struct {
	position
	Elems []Expr
}

type TupleLit struct {
	position
	Elems []Expr
}

// StructField is one `name: value` entry of a struct literal.
type StructField struct {
	Name  string
	Value Expr
}

// StructLit is `%{k: v, ...}` or `%Name{k: v, ...}`.
type StructLit struct {
	position
	Ty     string // empty for an anonymous table
	Fields []StructField
}

// Var is a name reference.
type Var struct {
	position
	Name string
}

// If is `if cond then a else b`. Else is mandatory.
type If struct {
	position
	Cond Expr
	Then Expr
	Else Expr
}

// Let is `let name = value in body`.
type Let struct {
	position
	Name  string
	Value Expr
	Body  Expr
}

// Def is `def name args = value in body`; the binding is global.
type Def struct {
	position
	Name  string
	Value Expr
	Body  Expr
}

// Lambda is `fn args = body`.
type Lambda struct {
	position
	Params []string
	Body   Expr
}

// App is juxtaposition application `f x y`. Tail marks `-> f x y`.
type App struct {
	position
	Callee Expr
	Args   []Expr
	Tail   bool
}

type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpIs
)

type Binary struct {
	position
	Op    BinOp
	Left  Expr
	Right Expr
}

type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

type Unary struct {
	position
	Op      UnOp
	Operand Expr
}

// Cons is `head :: tail`.
type Cons struct {
	position
	Head Expr
	Tail Expr
}

// Seq is `left >> right`.
type Seq struct {
	position
	Left  Expr
	Right Expr
}

// Get is field access `obj.field`.
type Get struct {
	position
	Obj   Expr
	Field string
}

func (*NumLit) exprNode()    {}
func (*StrLit) exprNode()    {}
func (*SymLit) exprNode()    {}
func (*BoolLit) exprNode()   {}
func (*NilLit) exprNode()    {}
func (*ListLit) exprNode()   {}
func (*TupleLit) exprNode()  {}
func (*StructLit) exprNode() {}
func (*Var) exprNode()       {}
func (*If) exprNode()        {}
func (*Let) exprNode()       {}
func (*Def) exprNode()       {}
func (*Lambda) exprNode()    {}
func (*App) exprNode()       {}
func (*Binary) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Cons) exprNode()      {}
func (*Seq) exprNode()       {}
func (*Get) exprNode()       {}

// Statements

// DefStmt is a top-level `def name args = value`.
type DefStmt struct {
	position
	Name  string
	Value Expr
}

// LetStmt is a top-level `let name = value`.
type LetStmt struct {
	position
	Name  string
	Value Expr
}

// OpenStmt is `open "path"`.
type OpenStmt struct {
	position
	Path string
}

// ExprStmt wraps a bare expression at the top level (REPL input).
type ExprStmt struct {
	position
	Expr Expr
}

func (*DefStmt) stmtNode()  {}
func (*LetStmt) stmtNode()  {}
func (*OpenStmt) stmtNode() {}
func (*ExprStmt) stmtNode() {}
