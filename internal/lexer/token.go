// Package lexer implements the Glint lexical scanner: a single-token-at-a-time
// tokenizer for a C-family scripting language with template literals and
// regular-expression literals.
package lexer

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	COMMENT
	SEMICOLON
	OP
	COLON
	BRACE
	ARRAY
	PAREN
	TERNARY
	CLOSE
	STRING
	REGEXP
	NUMBER
	DOT
	SPREAD
	ARROW
	T_BRACE
	LIT
	COMMA
)

// String returns the Kind's name, used by tests and the debug CLI.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindNames = map[Kind]string{
	EOF:       "EOF",
	COMMENT:   "COMMENT",
	SEMICOLON: "SEMICOLON",
	OP:        "OP",
	COLON:     "COLON",
	BRACE:     "BRACE",
	ARRAY:     "ARRAY",
	PAREN:     "PAREN",
	TERNARY:   "TERNARY",
	CLOSE:     "CLOSE",
	STRING:    "STRING",
	REGEXP:    "REGEXP",
	NUMBER:    "NUMBER",
	DOT:       "DOT",
	SPREAD:    "SPREAD",
	ARROW:     "ARROW",
	T_BRACE:   "T_BRACE",
	LIT:       "LIT",
	COMMA:     "COMMA",
}

// Token is one lexical unit produced by a Scanner. Offset and Length describe
// a byte range inside the Scanner's input buffer; the Token does not own the
// bytes, so it is only valid for the buffer's lifetime.
type Token struct {
	Kind   Kind
	Offset int
	Length int
	Line   int

	// LitNextColon is set only on LIT tokens whose next non-trivia byte
	// (across whitespace and comments) is ':'. Downstream consumers use it
	// to spot labels without a full parse.
	LitNextColon bool
}

// Text returns the token's bytes, sliced from buf.
func (t Token) Text(buf []byte) []byte {
	return buf[t.Offset : t.Offset+t.Length]
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%d)@%d:L%d", t.Kind, t.Length, t.Offset, t.Line)
}
