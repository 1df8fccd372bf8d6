package lr

import (
	"fmt"

	"github.com/dekarrin/cpctplus/grammar"
)

// Lexeme is a single lexed unit of input: a token class plus its location in
// source. Recovery-synthesized lexemes (insertions) carry Length 0 at the
// offset they were conjured at; they carry no text, since recovered tokens
// are never given semantic content (spec Non-goals: no semantic recovery).
type Lexeme struct {
	Token  grammar.TokenIdx
	Start  int
	Length int
}

func (l Lexeme) String() string {
	return fmt.Sprintf("lexeme(tok=%d @%d+%d)", l.Token, l.Start, l.Length)
}
