// Package grammar holds the immutable grammar data model the recovery core
// consumes: tokens, rules and productions indexed contiguously from zero, and
// the FIRST/FOLLOW analyses built once over that grammar and shared for its
// lifetime.
package grammar

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TokenIdx, RuleIdx and ProdIdx are the index types used throughout the
// recovery core. They are 16-bit: a grammar with more than 65535 tokens,
// rules, or productions is not a realistic input for this toolkit, and
// keeping indices narrow keeps search nodes (which are allocated by the
// million during recovery) small. Callers needing a wider index space can
// swap these three type declarations for uint32 without touching anything
// downstream, since nothing outside this file assumes the bit width.
type (
	TokenIdx uint16
	RuleIdx  uint16
	ProdIdx  uint16
)

// SymbolKind distinguishes the two kinds of Symbol a production body may
// hold.
type SymbolKind int

const (
	TokenSymbol SymbolKind = iota
	RuleSymbol
)

// Symbol is one element of a production body: either a terminal (Token) or a
// non-terminal (Rule).
type Symbol struct {
	Kind  SymbolKind
	Token TokenIdx
	Rule  RuleIdx
}

// Tok builds a terminal Symbol.
func Tok(t TokenIdx) Symbol { return Symbol{Kind: TokenSymbol, Token: t} }

// Rul builds a non-terminal Symbol.
func Rul(r RuleIdx) Symbol { return Symbol{Kind: RuleSymbol, Rule: r} }

func (s Symbol) IsToken() bool { return s.Kind == TokenSymbol }
func (s Symbol) IsRule() bool  { return s.Kind == RuleSymbol }

func (s Symbol) String() string {
	if s.IsToken() {
		return fmt.Sprintf("T%d", s.Token)
	}
	return fmt.Sprintf("R%d", s.Rule)
}

// Production is an ordered body of symbols. An empty Production represents
// an epsilon production.
type Production []Symbol

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	out := ""
	for i, s := range p {
		if i > 0 {
			out += " "
		}
		out += s.String()
	}
	return out
}

// Grammar is an immutable, indexed grammar: a fixed set of tokens and rules,
// and the productions belonging to each rule. Build one with New; once built,
// a Grammar is shared read-only for as long as its FIRST/FOLLOW tables and
// any recovery searches over it are alive.
type Grammar struct {
	numTokens int
	eof       TokenIdx
	start     RuleIdx

	tokenNames []string
	ruleNames  []string

	// prods is the flat, globally-indexed list of every production in the
	// grammar; prodRule[p] is the rule that production p belongs to.
	prods    []Production
	prodRule []RuleIdx

	// ruleProds[r] lists the ProdIdx values belonging to rule r, in
	// declaration order.
	ruleProds [][]ProdIdx
}

// New builds a Grammar. tokenNames and ruleNames give display names indexed
// by TokenIdx/RuleIdx respectively (len(tokenNames) is the token count).
// rules[r] is the ordered list of productions belonging to rule r; start is
// the index of the distinguished start rule, eof the distinguished EOF token.
func New(tokenNames []string, ruleNames []string, rules [][]Production, start RuleIdx, eof TokenIdx) (*Grammar, error) {
	if int(start) >= len(rules) {
		return nil, fmt.Errorf("grammar: start rule %d out of range (have %d rules)", start, len(rules))
	}
	if int(eof) >= len(tokenNames) {
		return nil, fmt.Errorf("grammar: eof token %d out of range (have %d tokens)", eof, len(tokenNames))
	}

	g := &Grammar{
		numTokens:  len(tokenNames),
		eof:        eof,
		start:      start,
		tokenNames: tokenNames,
		ruleNames:  ruleNames,
		ruleProds:  make([][]ProdIdx, len(rules)),
	}

	for r, prods := range rules {
		for _, p := range prods {
			for _, sym := range p {
				if sym.IsToken() && int(sym.Token) >= len(tokenNames) {
					return nil, fmt.Errorf("grammar: rule %d references out-of-range token %d", r, sym.Token)
				}
				if sym.IsRule() && int(sym.Rule) >= len(rules) {
					return nil, fmt.Errorf("grammar: rule %d references out-of-range rule %d", r, sym.Rule)
				}
			}

			idx := ProdIdx(len(g.prods))
			g.prods = append(g.prods, p)
			g.prodRule = append(g.prodRule, RuleIdx(r))
			g.ruleProds[r] = append(g.ruleProds[r], idx)
		}
	}

	return g, nil
}

// NumTokens returns the number of distinct tokens in the grammar.
func (g *Grammar) NumTokens() int { return g.numTokens }

// NumRules returns the number of distinct rules in the grammar.
func (g *Grammar) NumRules() int { return len(g.ruleProds) }

// StartRule returns the distinguished start rule.
func (g *Grammar) StartRule() RuleIdx { return g.start }

// EOF returns the distinguished end-of-input token.
func (g *Grammar) EOF() TokenIdx { return g.eof }

// Productions returns the ProdIdx values belonging to rule r, in declaration
// order.
func (g *Grammar) Productions(r RuleIdx) []ProdIdx {
	return g.ruleProds[r]
}

// Production returns the body of production p.
func (g *Grammar) Production(p ProdIdx) Production {
	return g.prods[p]
}

// RuleOf returns the rule that owns production p.
func (g *Grammar) RuleOf(p ProdIdx) RuleIdx {
	return g.prodRule[p]
}

// TokenName returns the declared name of token t.
func (g *Grammar) TokenName(t TokenIdx) string {
	return g.tokenNames[t]
}

// RuleName returns the declared name of rule r.
func (g *Grammar) RuleName(r RuleIdx) string {
	return g.ruleNames[r]
}

var titleCaser = cases.Title(language.Und)

// TokenHuman returns a human-presentable title-cased form of a token's name,
// for use in "expected X" style recovery/diagnostic messages.
func (g *Grammar) TokenHuman(t TokenIdx) string {
	return titleCaser.String(g.tokenNames[t])
}
