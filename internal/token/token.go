// Package token defines the lexical tokens of the yex language.
package token

type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Literals
	NAME   Type = "NAME"
	NUM    Type = "NUM"
	STR    Type = "STR"
	SYMBOL Type = "SYMBOL"

	// Operators
	ASSIGN Type = "="
	PLUS   Type = "+"
	MINUS  Type = "-"
	STAR   Type = "*"
	SLASH  Type = "/"
	REM    Type = "%"

	BITAND Type = "&&&"
	BITOR  Type = "|||"
	BITXOR Type = "^^^"
	SHR    Type = ">>>"
	SHL    Type = "<<<"

	LT Type = "<"
	LE Type = "<="
	GT Type = ">"
	GE Type = ">="
	EQ Type = "=="
	NE Type = "!="

	CONS  Type = "::"
	PIPE  Type = "|>"
	SEQ   Type = ">>"
	ARROW Type = "->"

	LPAREN Type = "("
	RPAREN Type = ")"
	LBRACK Type = "["
	RBRACK Type = "]"
	LBRACE Type = "{"
	RBRACE Type = "}"
	PERCBR Type = "%{"
	COMMA  Type = ","
	COLON  Type = ":"
	DOT    Type = "."

	// Keywords
	LET   Type = "let"
	DEF   Type = "def"
	IN    Type = "in"
	IF    Type = "if"
	THEN  Type = "then"
	ELSE  Type = "else"
	FN    Type = "fn"
	TRUE  Type = "true"
	FALSE Type = "false"
	NIL   Type = "nil"
	AND   Type = "and"
	OR    Type = "or"
	NOT   Type = "not"
	IS    Type = "is"
	OPEN  Type = "open"
)

// Token is a single lexeme with its source position.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
	Column int
}

var keywords = map[string]Type{
	"let":   LET,
	"def":   DEF,
	"in":    IN,
	"if":    IF,
	"then":  THEN,
	"else":  ELSE,
	"fn":    FN,
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
	"and":   AND,
	"or":    OR,
	"not":   NOT,
	"is":    IS,
	"open":  OPEN,
}

// LookupName returns the keyword type for a word, or NAME.
func LookupName(word string) Type {
	if t, ok := keywords[word]; ok {
		return t
	}
	return NAME
}

// IsKeyword reports whether t is a reserved word.
func IsKeyword(t Type) bool {
	_, ok := keywords[string(t)]
	return ok
}
