// Package lexer turns yex source text into a token stream.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yex-lang/yex/internal/token"
)

// Error is a lexical error with its source position.
type Error struct {
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d:%d] %s", e.Line, e.Column, e.Msg)
}

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.column

	mk := func(t token.Type, lexeme string) token.Token {
		return token.Token{Type: t, Lexeme: lexeme, Line: line, Column: col}
	}

	switch l.ch {
	case 0:
		return mk(token.EOF, ""), nil
	case '(':
		l.readChar()
		return mk(token.LPAREN, "("), nil
	case ')':
		l.readChar()
		return mk(token.RPAREN, ")"), nil
	case '[':
		l.readChar()
		return mk(token.LBRACK, "["), nil
	case ']':
		l.readChar()
		return mk(token.RBRACK, "]"), nil
	case '{':
		l.readChar()
		return mk(token.LBRACE, "{"), nil
	case '}':
		l.readChar()
		return mk(token.RBRACE, "}"), nil
	case ',':
		l.readChar()
		return mk(token.COMMA, ","), nil
	case '.':
		l.readChar()
		return mk(token.DOT, "."), nil
	case '+':
		l.readChar()
		return mk(token.PLUS, "+"), nil
	case '*':
		l.readChar()
		return mk(token.STAR, "*"), nil
	case '/':
		l.readChar()
		return mk(token.SLASH, "/"), nil
	case '%':
		if l.peekChar() == '{' {
			l.readChar()
			l.readChar()
			return mk(token.PERCBR, "%{"), nil
		}
		l.readChar()
		return mk(token.REM, "%"), nil
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return mk(token.ARROW, "->"), nil
		}
		l.readChar()
		return mk(token.MINUS, "-"), nil
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return mk(token.EQ, "=="), nil
		}
		l.readChar()
		return mk(token.ASSIGN, "="), nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return mk(token.NE, "!="), nil
		}
		return token.Token{}, &Error{Msg: "unexpected character '!'", Line: line, Column: col}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			l.readChar()
			return mk(token.LE, "<="), nil
		case '<':
			l.readChar()
			if l.peekChar() != '<' {
				return token.Token{}, &Error{Msg: "unexpected characters '<<'", Line: line, Column: col}
			}
			l.readChar()
			l.readChar()
			return mk(token.SHL, "<<<"), nil
		default:
			l.readChar()
			return mk(token.LT, "<"), nil
		}
	case '>':
		switch l.peekChar() {
		case '=':
			l.readChar()
			l.readChar()
			return mk(token.GE, ">="), nil
		case '>':
			l.readChar()
			if l.peekChar() == '>' {
				l.readChar()
				l.readChar()
				return mk(token.SHR, ">>>"), nil
			}
			l.readChar()
			return mk(token.SEQ, ">>"), nil
		default:
			l.readChar()
			return mk(token.GT, ">"), nil
		}
	case '&':
		return l.tripled('&', token.BITAND, mk)
	case '|':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return mk(token.PIPE, "|>"), nil
		}
		return l.tripled('|', token.BITOR, mk)
	case '^':
		return l.tripled('^', token.BITXOR, mk)
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			l.readChar()
			return mk(token.CONS, "::"), nil
		}
		if isNameStart(l.peekChar()) {
			l.readChar()
			word := l.readName()
			return mk(token.SYMBOL, word), nil
		}
		l.readChar()
		return mk(token.COLON, ":"), nil
	case '"':
		s, err := l.readString()
		if err != nil {
			return token.Token{}, err
		}
		return mk(token.STR, s), nil
	}

	if unicode.IsDigit(l.ch) {
		return mk(token.NUM, l.readNumber()), nil
	}
	if isNameStart(l.ch) {
		word := l.readName()
		return mk(token.LookupName(word), word), nil
	}

	return token.Token{}, &Error{
		Msg:    fmt.Sprintf("unknown start of token %q", l.ch),
		Line:   line,
		Column: col,
	}
}

// tripled scans operators written as three repeats of the same rune (&&&, |||, ^^^).
func (l *Lexer) tripled(r rune, t token.Type, mk func(token.Type, string) token.Token) (token.Token, error) {
	line, col := l.line, l.column
	for i := 0; i < 3; i++ {
		if l.ch != r {
			return token.Token{}, &Error{
				Msg:    fmt.Sprintf("unexpected character %q", l.ch),
				Line:   line,
				Column: col,
			}
		}
		l.readChar()
	}
	return mk(t, strings.Repeat(string(r), 3)), nil
}

func (l *Lexer) readNumber() string {
	start := l.position
	for unicode.IsDigit(l.ch) || l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readName() string {
	start := l.position
	for isNamePart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readString() (string, error) {
	line, col := l.line, l.column
	l.readChar() // opening quote

	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == 0 {
			return "", &Error{Msg: "unterminated string", Line: line, Column: col}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return "", &Error{
					Msg:    fmt.Sprintf("unknown escape '\\%c'", l.ch),
					Line:   l.line,
					Column: l.column,
				}
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return sb.String(), nil
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isNamePart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}

// Lex scans the whole input, failing on the first lexical error.
func Lex(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
