// Package exprgrammar builds the small parenthesized-addition grammar used
// throughout this repository's tests, demos, and CLI: the same grammar
// Corchuelo et al. use to illustrate LR error repair, and the one carried
// into grmtools' own cpctplus test suite.
//
//	E : 'N'
//	  | E '+' 'N'
//	  | '(' E ')'
//	  ;
//
// It is deliberately tiny and hand-built rather than run through a real
// grammar compiler or LR(1) table generator (both out of scope for this
// repository, per spec) so that its FIRST/FOLLOW sets and canonical LR(0)
// table can be read straight off the productions below.
package exprgrammar

import (
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// Token indices.
const (
	N    grammar.TokenIdx = 0
	Plus grammar.TokenIdx = 1
	LPar grammar.TokenIdx = 2
	RPar grammar.TokenIdx = 3
	EOF  grammar.TokenIdx = 4
)

// TokenNames indexes display names by TokenIdx.
var TokenNames = []string{"N", "+", "(", ")", "$"}

// E is the sole rule of the grammar.
const E grammar.RuleIdx = 0

// Productions, in declaration order; their ProdIdx is their index here.
const (
	ProdN     grammar.ProdIdx = 0 // E -> N
	ProdPlus  grammar.ProdIdx = 1 // E -> E + N
	ProdParen grammar.ProdIdx = 2 // E -> ( E )
)

// Build returns the grammar and its canonical LR(0) state table.
func Build() (*grammar.Grammar, lr.StateTable) {
	rules := [][]grammar.Production{
		E: {
			{grammar.Tok(N)},
			{grammar.Rul(E), grammar.Tok(Plus), grammar.Tok(N)},
			{grammar.Tok(LPar), grammar.Rul(E), grammar.Tok(RPar)},
		},
	}

	g, err := grammar.New(TokenNames, []string{"E"}, rules, E, EOF)
	if err != nil {
		panic("exprgrammar: " + err.Error())
	}

	return g, newTable()
}

// States of the canonical LR(0) automaton, numbered as derived by hand from
// the item sets:
//
//	0: S'->.E, E->.N, E->.E+N, E->.(E)
//	1: S'->E., E->E.+N                      (accept on EOF)
//	2: E->N.                                (reduce ProdN)
//	3: E->(.E), E->.N, E->.E+N, E->.(E)
//	4: E->E+.N
//	5: E->(E.), E->E.+N
//	6: E->E+N.                              (reduce ProdPlus)
//	7: E->(E).                              (reduce ProdParen)
const (
	s0 = iota
	s1
	s2
	s3
	s4
	s5
	s6
	s7
	numStates
)

type table struct {
	actions [numStates]map[grammar.TokenIdx]lr.Action
	gotoE   [numStates]int // -1 if undefined
}

func newTable() *table {
	t := &table{}
	for s := range t.gotoE {
		t.gotoE[s] = -1
		t.actions[s] = map[grammar.TokenIdx]lr.Action{}
	}

	shift := func(s int, tok grammar.TokenIdx, to int) {
		t.actions[s][tok] = lr.Action{Type: lr.Shift, State: to}
	}
	reduce := func(s int, toks []grammar.TokenIdx, prod grammar.ProdIdx) {
		for _, tok := range toks {
			t.actions[s][tok] = lr.Action{Type: lr.Reduce, Prod: prod}
		}
	}

	followE := []grammar.TokenIdx{EOF, Plus, RPar}

	shift(s0, N, s2)
	shift(s0, LPar, s3)
	t.gotoE[s0] = s1

	shift(s1, Plus, s4)
	t.actions[s1][EOF] = lr.Action{Type: lr.Accept}

	reduce(s2, followE, ProdN)

	shift(s3, N, s2)
	shift(s3, LPar, s3)
	t.gotoE[s3] = s5

	shift(s4, N, s6)

	shift(s5, RPar, s7)
	shift(s5, Plus, s4)

	reduce(s6, followE, ProdPlus)

	reduce(s7, followE, ProdParen)

	return t
}

func (t *table) Start() int { return s0 }

func (t *table) Action(state int, token grammar.TokenIdx) lr.Action {
	if act, ok := t.actions[state][token]; ok {
		return act
	}
	return lr.Action{Type: lr.Error}
}

func (t *table) Goto(state int, r grammar.RuleIdx) int {
	return t.gotoE[state]
}

func (t *table) StateActions(state int) grammar.TokenSet {
	set := grammar.NewTokenSet(len(TokenNames))
	for tok := range t.actions[state] {
		set.Add(tok)
	}
	return set
}
