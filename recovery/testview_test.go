package recovery_test

import (
	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// fixedView is a ParserView over a fixed token stream, for tests.
type fixedView struct {
	g      *grammar.Grammar
	table  lr.StateTable
	tokens []grammar.TokenIdx
	eof    grammar.TokenIdx
}

func (v *fixedView) Grammar() *grammar.Grammar    { return v.g }
func (v *fixedView) StateTable() lr.StateTable    { return v.table }
func (v *fixedView) NumLexemes() int              { return len(v.tokens) }
func (v *fixedView) TokenCost(t grammar.TokenIdx) uint8 {
	if t == v.eof {
		return 255
	}
	return 1
}
func (v *fixedView) Lexeme(laidx int) lr.Lexeme {
	if laidx >= len(v.tokens) {
		return lr.Lexeme{Token: v.eof, Start: laidx}
	}
	return lr.Lexeme{Token: v.tokens[laidx], Start: laidx, Length: 1}
}

// runUntilError drives the pure simulator from (pstack, laidx) until it
// either accepts or gets stuck, returning the resulting configuration and
// whether it stopped due to an error (as opposed to Accept).
func runUntilError(v *fixedView, pstack *cactus.Stack[int], laidx int) (*cactus.Stack[int], int, bool) {
	next := func(i int) lr.Lexeme { return v.Lexeme(i) }
	for {
		newLaidx, newStack := lr.Cactus(v.table, v.g, next, nil, laidx, pstack, nil)
		if cactus.Equal(newStack, pstack) {
			top, _ := pstack.Val()
			accepted := v.table.Action(top, v.Lexeme(laidx).Token).Type == lr.Accept
			return pstack, laidx, !accepted
		}
		pstack, laidx = newStack, newLaidx
	}
}
