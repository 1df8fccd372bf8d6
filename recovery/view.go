package recovery

import (
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// TokenStreamView is a ParserView over a fixed, fully pre-lexed token
// stream: the common case for a driver that tokenizes its input up front
// rather than lexing on demand. Lookaheads past the end of the stream read
// as the grammar's EOF token.
type TokenStreamView struct {
	G      *grammar.Grammar
	Table  lr.StateTable
	Tokens []grammar.TokenIdx
	Cost   func(grammar.TokenIdx) uint8
}

func (v *TokenStreamView) Grammar() *grammar.Grammar { return v.G }
func (v *TokenStreamView) StateTable() lr.StateTable  { return v.Table }
func (v *TokenStreamView) NumLexemes() int            { return len(v.Tokens) }

func (v *TokenStreamView) TokenCost(t grammar.TokenIdx) uint8 {
	if v.Cost != nil {
		return v.Cost(t)
	}
	if t == v.G.EOF() {
		return 255
	}
	return 1
}

func (v *TokenStreamView) Lexeme(laidx int) lr.Lexeme {
	if laidx >= len(v.Tokens) {
		return lr.Lexeme{Token: v.G.EOF(), Start: laidx}
	}
	return lr.Lexeme{Token: v.Tokens[laidx], Start: laidx, Length: 1}
}
