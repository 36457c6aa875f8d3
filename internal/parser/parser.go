// Package parser builds the yex AST from a token stream.
package parser

import (
	"fmt"
	"strconv"

	"github.com/yex-lang/yex/internal/ast"
	"github.com/yex-lang/yex/internal/lexer"
	"github.com/yex-lang/yex/internal/token"
)

// Error is a syntax error with its source position.
type Error struct {
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d:%d] %s", e.Line, e.Column, e.Msg)
}

type Parser struct {
	tokens []token.Token
	pos    int
}

type positioned interface {
	SetPos(line, column int)
}

func withExprPos(e ast.Expr, line, column int) ast.Expr {
	e.(positioned).SetPos(line, column)
	return e
}

func withStmtPos(s ast.Stmt, line, column int) ast.Stmt {
	s.(positioned).SetPos(line, column)
	return s
}

// New wraps an already-lexed token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse lexes and parses a whole source unit.
func Parse(input string) (*ast.Program, error) {
	tokens, err := lexer.Lex(input)
	if err != nil {
		return nil, err
	}
	return New(tokens).Program()
}

// ParseExpr lexes and parses a single expression (REPL input).
func ParseExpr(input string) (ast.Expr, error) {
	tokens, err := lexer.Lex(input)
	if err != nil {
		return nil, err
	}
	p := New(tokens)
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.EOF {
		return nil, p.errorf("unexpected token '%s' after expression", p.current().Lexeme)
	}
	return e, nil
}

func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() token.Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *Parser) errorf(format string, args ...any) error {
	tok := p.current()
	return &Error{Msg: fmt.Sprintf(format, args...), Line: tok.Line, Column: tok.Column}
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.current().Type != t {
		return token.Token{}, p.errorf("expected '%s', found '%s'", t, p.current().Lexeme)
	}
	return p.next(), nil
}

// Program parses the whole unit: def/let/open statements or bare expressions.
func (p *Parser) Program() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.current().Type != token.EOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	tok := p.current()
	switch tok.Type {
	case token.DEF:
		return p.defStmt()
	case token.LET:
		return p.letStmt()
	case token.OPEN:
		p.next()
		path, err := p.expect(token.STR)
		if err != nil {
			return nil, err
		}
		return &ast.OpenStmt{Path: path.Lexeme}, nil
	default:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: e}, nil
	}
}

// defStmt parses `def name args = body`; args may be empty.
func (p *Parser) defStmt() (ast.Stmt, error) {
	tok := p.next() // def
	name, err := p.expect(token.NAME)
	if err != nil {
		return nil, err
	}
	value, err := p.functionValue()
	if err != nil {
		return nil, err
	}
	// `def x = v in body` at the top level is the expression form
	if p.current().Type == token.IN {
		p.next()
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		e := withExprPos(&ast.Def{Name: name.Lexeme, Value: value, Body: body}, tok.Line, tok.Column)
		return withStmtPos(&ast.ExprStmt{Expr: e}, tok.Line, tok.Column), nil
	}
	stmt := &ast.DefStmt{Name: name.Lexeme, Value: value}
	return withStmtPos(stmt, tok.Line, tok.Column), nil
}

func (p *Parser) letStmt() (ast.Stmt, error) {
	tok := p.next() // let
	name, err := p.expect(token.NAME)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	// `let x = v in body` at the top level is the expression form
	if p.current().Type == token.IN {
		p.next()
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		e := withExprPos(&ast.Let{Name: name.Lexeme, Value: value, Body: body}, tok.Line, tok.Column)
		return withStmtPos(&ast.ExprStmt{Expr: e}, tok.Line, tok.Column), nil
	}
	stmt := &ast.LetStmt{Name: name.Lexeme, Value: value}
	return withStmtPos(stmt, tok.Line, tok.Column), nil
}

// functionValue parses `args = body` after a def name. Zero args compile to a
// plain binding rather than a nullary function.
func (p *Parser) functionValue() (ast.Expr, error) {
	var params []string
	for p.current().Type == token.NAME {
		params = append(params, p.next().Lexeme)
	}
	tok := p.current()
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return body, nil
	}
	return withExprPos(&ast.Lambda{Params: params, Body: body}, tok.Line, tok.Column), nil
}

// Precedence chain, loosest first.

func (p *Parser) expr() (ast.Expr, error) {
	return p.seq()
}

func (p *Parser) seq() (ast.Expr, error) {
	left, err := p.pipe()
	if err != nil {
		return nil, err
	}
	for p.current().Type == token.SEQ {
		tok := p.next()
		right, err := p.pipe()
		if err != nil {
			return nil, err
		}
		left = withExprPos(&ast.Seq{Left: left, Right: right}, tok.Line, tok.Column)
	}
	return left, nil
}

// pipe desugars `x |> f` into `f x`.
func (p *Parser) pipe() (ast.Expr, error) {
	left, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	for p.current().Type == token.PIPE {
		tok := p.next()
		callee, err := p.logicOr()
		if err != nil {
			return nil, err
		}
		left = withExprPos(
			&ast.App{Callee: callee, Args: []ast.Expr{left}},
			tok.Line, tok.Column,
		)
	}
	return left, nil
}

func (p *Parser) logicOr() (ast.Expr, error) {
	return p.binaryLevel(p.logicAnd, map[token.Type]ast.BinOp{token.OR: ast.OpOr})
}

func (p *Parser) logicAnd() (ast.Expr, error) {
	return p.binaryLevel(p.isExpr, map[token.Type]ast.BinOp{token.AND: ast.OpAnd})
}

func (p *Parser) isExpr() (ast.Expr, error) {
	return p.binaryLevel(p.equality, map[token.Type]ast.BinOp{token.IS: ast.OpIs})
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, map[token.Type]ast.BinOp{
		token.EQ: ast.OpEq,
		token.NE: ast.OpNe,
	})
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.cons, map[token.Type]ast.BinOp{
		token.LT: ast.OpLt,
		token.LE: ast.OpLe,
		token.GT: ast.OpGt,
		token.GE: ast.OpGe,
	})
}

// cons is right-associative: `1 :: 2 :: xs` is `1 :: (2 :: xs)`.
func (p *Parser) cons() (ast.Expr, error) {
	left, err := p.bitwise()
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.CONS {
		return left, nil
	}
	tok := p.next()
	tail, err := p.cons()
	if err != nil {
		return nil, err
	}
	return withExprPos(&ast.Cons{Head: left, Tail: tail}, tok.Line, tok.Column), nil
}

func (p *Parser) bitwise() (ast.Expr, error) {
	return p.binaryLevel(p.term, map[token.Type]ast.BinOp{
		token.BITAND: ast.OpBitAnd,
		token.BITOR:  ast.OpBitOr,
		token.BITXOR: ast.OpBitXor,
		token.SHR:    ast.OpShr,
		token.SHL:    ast.OpShl,
	})
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binaryLevel(p.fact, map[token.Type]ast.BinOp{
		token.PLUS:  ast.OpAdd,
		token.MINUS: ast.OpSub,
	})
}

func (p *Parser) fact() (ast.Expr, error) {
	return p.binaryLevel(p.prefix, map[token.Type]ast.BinOp{
		token.STAR:  ast.OpMul,
		token.SLASH: ast.OpDiv,
		token.REM:   ast.OpRem,
	})
}

func (p *Parser) binaryLevel(sub func() (ast.Expr, error), ops map[token.Type]ast.BinOp) (ast.Expr, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.current().Type]
		if !ok {
			return left, nil
		}
		tok := p.next()
		right, err := sub()
		if err != nil {
			return nil, err
		}
		left = withExprPos(
			&ast.Binary{Op: op, Left: left, Right: right},
			tok.Line, tok.Column,
		)
	}
}

func (p *Parser) prefix() (ast.Expr, error) {
	switch p.current().Type {
	case token.MINUS:
		tok := p.next()
		operand, err := p.prefix()
		if err != nil {
			return nil, err
		}
		return withExprPos(&ast.Unary{Op: ast.OpNeg, Operand: operand}, tok.Line, tok.Column), nil
	case token.NOT:
		tok := p.next()
		operand, err := p.prefix()
		if err != nil {
			return nil, err
		}
		return withExprPos(&ast.Unary{Op: ast.OpNot, Operand: operand}, tok.Line, tok.Column), nil
	default:
		return p.call()
	}
}

// call parses juxtaposition application: `f x y`. Arguments must start
// on the line the previous token ended on, so a fresh line begins a new
// statement instead of feeding the call.
func (p *Parser) call() (ast.Expr, error) {
	callee, err := p.dot()
	if err != nil {
		return nil, err
	}
	tok := p.current()
	var args []ast.Expr
	for p.startsArgument() && p.current().Line == p.tokens[p.pos-1].Line {
		arg, err := p.dot()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return callee, nil
	}
	return withExprPos(&ast.App{Callee: callee, Args: args}, tok.Line, tok.Column), nil
}

// startsArgument reports whether the current token can begin a call argument.
// Keywords and operators end the argument list; parenthesize to pass them.
func (p *Parser) startsArgument() bool {
	switch p.current().Type {
	case token.NUM, token.STR, token.SYMBOL, token.NAME, token.TRUE, token.FALSE,
		token.NIL, token.LBRACK, token.LPAREN, token.PERCBR:
		return true
	}
	return false
}

func (p *Parser) dot() (ast.Expr, error) {
	obj, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == token.DOT {
		tok := p.next()
		field, err := p.fieldName()
		if err != nil {
			return nil, err
		}
		obj = withExprPos(&ast.Get{Obj: obj, Field: field.Lexeme}, tok.Line, tok.Column)
	}
	return obj, nil
}

// fieldName accepts any identifier-shaped token after a dot. Keywords are
// fine there: `Module.fn` and `Db.open` are field accesses, not syntax.
func (p *Parser) fieldName() (token.Token, error) {
	tok := p.current()
	if tok.Type != token.NAME && !token.IsKeyword(tok.Type) {
		return token.Token{}, p.errorf("expected a field name, found '%s'", tok.Lexeme)
	}
	return p.next(), nil
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Type {
	case token.NUM:
		p.next()
		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &Error{Msg: "can't parse number", Line: tok.Line, Column: tok.Column}
		}
		return withExprPos(&ast.NumLit{Value: n}, tok.Line, tok.Column), nil
	case token.STR:
		p.next()
		return withExprPos(&ast.StrLit{Value: tok.Lexeme}, tok.Line, tok.Column), nil
	case token.SYMBOL:
		p.next()
		return withExprPos(&ast.SymLit{Name: tok.Lexeme}, tok.Line, tok.Column), nil
	case token.TRUE:
		p.next()
		return withExprPos(&ast.BoolLit{Value: true}, tok.Line, tok.Column), nil
	case token.FALSE:
		p.next()
		return withExprPos(&ast.BoolLit{Value: false}, tok.Line, tok.Column), nil
	case token.NIL:
		p.next()
		return withExprPos(&ast.NilLit{}, tok.Line, tok.Column), nil
	case token.NAME:
		p.next()
		return withExprPos(&ast.Var{Name: tok.Lexeme}, tok.Line, tok.Column), nil
	case token.LBRACK:
		return p.list()
	case token.LPAREN:
		return p.tuple()
	case token.PERCBR, token.REM:
		return p.structLit()
	case token.LET:
		return p.letExpr()
	case token.DEF:
		return p.defExpr()
	case token.IF:
		return p.ifExpr()
	case token.FN:
		return p.fnExpr()
	case token.ARROW:
		return p.tailCall()
	default:
		return nil, p.errorf("expected expression, found '%s'", tok.Lexeme)
	}
}

func (p *Parser) list() (ast.Expr, error) {
	tok := p.next() // [
	var elems []ast.Expr
	for p.current().Type != token.RBRACK {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.current().Type != token.RBRACK {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}
	p.next() // ]
	return withExprPos(&ast.ListLit{Elems: elems}, tok.Line, tok.Column), nil
}

// tuple parses `(a, b, ...)`; one element is grouping, zero is nil.
func (p *Parser) tuple() (ast.Expr, error) {
	tok := p.next() // (
	var elems []ast.Expr
	for p.current().Type != token.RPAREN {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.current().Type != token.RPAREN {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}
	p.next() // )
	switch len(elems) {
	case 0:
		return withExprPos(&ast.NilLit{}, tok.Line, tok.Column), nil
	case 1:
		return elems[0], nil
	default:
		return withExprPos(&ast.TupleLit{Elems: elems}, tok.Line, tok.Column), nil
	}
}

// structLit parses `%{k: v}` (anonymous table) or `%Name{k: v}` (typed
// instance). The lexer emits PERCBR for `%{`; the named form arrives as
// `%` NAME `{`.
func (p *Parser) structLit() (ast.Expr, error) {
	tok := p.next() // %{ or %
	ty := ""
	if tok.Type == token.REM {
		name, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		ty = name.Lexeme
		if _, err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
	}
	var fields []ast.StructField
	for p.current().Type != token.RBRACE {
		name, err := p.expect(token.NAME)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.StructField{Name: name.Lexeme, Value: value})
		if p.current().Type != token.RBRACE {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}
	p.next() // }
	return withExprPos(&ast.StructLit{Ty: ty, Fields: fields}, tok.Line, tok.Column), nil
}

func (p *Parser) letExpr() (ast.Expr, error) {
	tok := p.next() // let
	name, err := p.expect(token.NAME)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return withExprPos(&ast.Let{Name: name.Lexeme, Value: value, Body: body}, tok.Line, tok.Column), nil
}

func (p *Parser) defExpr() (ast.Expr, error) {
	tok := p.next() // def
	name, err := p.expect(token.NAME)
	if err != nil {
		return nil, err
	}
	value, err := p.functionValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return withExprPos(&ast.Def{Name: name.Lexeme, Value: value, Body: body}, tok.Line, tok.Column), nil
}

func (p *Parser) ifExpr() (ast.Expr, error) {
	tok := p.next() // if
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	then, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	els, err := p.expr()
	if err != nil {
		return nil, err
	}
	return withExprPos(&ast.If{Cond: cond, Then: then, Else: els}, tok.Line, tok.Column), nil
}

func (p *Parser) fnExpr() (ast.Expr, error) {
	tok := p.next() // fn
	var params []string
	for p.current().Type == token.NAME {
		params = append(params, p.next().Lexeme)
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return withExprPos(&ast.Lambda{Params: params, Body: body}, tok.Line, tok.Column), nil
}

// tailCall parses `-> f x y`; valid only on applications.
func (p *Parser) tailCall() (ast.Expr, error) {
	p.next() // ->
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	app, ok := e.(*ast.App)
	if !ok {
		return nil, p.errorf("'->' can only be used on function calls")
	}
	app.Tail = true
	return app, nil
}
