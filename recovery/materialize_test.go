package recovery

import (
	"testing"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
	"github.com/stretchr/testify/assert"
)

func seqTokenLexeme(laidx int) lr.Lexeme {
	return lr.Lexeme{Token: grammar.TokenIdx(100 + laidx), Start: laidx, Length: 1}
}

func TestCollectSequences_PlainChainIsOneSequence(t *testing.T) {
	repairs := cactus.Empty[RepairOrMerge]().Child(terminatorEntry())
	repairs = repairs.Child(plainRepair(Repair{Kind: RepairInsert, Token: 1}))
	repairs = repairs.Child(plainRepair(Repair{Kind: RepairInsert, Token: 2}))

	seqs := collectSequences(repairs)
	assert.Len(t, seqs, 1)
	assert.Equal(t, []Repair{
		{Kind: RepairInsert, Token: 1},
		{Kind: RepairInsert, Token: 2},
	}, seqs[0])
}

// TestCollectSequences_MergedForksIntoIndependentAlternates mirrors the
// spec's merge-test scenario: a node reached by three distinct,
// equal-cost, single-repair paths (Insert 'a' | Insert 'b' | Insert 'c')
// that all then continue with the same downstream repair (Insert 'd').
// Materializing must yield exactly those three complete sequences.
func TestCollectSequences_MergedForksIntoIndependentAlternates(t *testing.T) {
	altB := cactus.Empty[RepairOrMerge]().Child(terminatorEntry()).
		Child(plainRepair(Repair{Kind: RepairInsert, Token: 11})) // Insert b
	altC := cactus.Empty[RepairOrMerge]().Child(terminatorEntry()).
		Child(plainRepair(Repair{Kind: RepairInsert, Token: 12})) // Insert c

	// Canonical node's own history is the "a" branch; "b" and "c" were
	// folded in as alternates.
	merged := mergedEntry(Repair{Kind: RepairInsert, Token: 10}, []*cactus.Stack[RepairOrMerge]{altB, altC})
	repairs := cactus.Empty[RepairOrMerge]().Child(terminatorEntry()).Child(merged)
	repairs = repairs.Child(plainRepair(Repair{Kind: RepairInsert, Token: 13})) // Insert d

	seqs := collectSequences(repairs)
	require := assert.New(t)
	require.Len(seqs, 3)

	want := [][]Repair{
		{{Kind: RepairInsert, Token: 10}, {Kind: RepairInsert, Token: 13}},
		{{Kind: RepairInsert, Token: 11}, {Kind: RepairInsert, Token: 13}},
		{{Kind: RepairInsert, Token: 12}, {Kind: RepairInsert, Token: 13}},
	}
	assert.ElementsMatch(t, want, seqs)
}

func TestToParseRepairs_ResetsOffsetPerSequence(t *testing.T) {
	seq := []Repair{
		{Kind: RepairDelete},
		{Kind: RepairShift},
		{Kind: RepairInsert, Token: 9},
	}

	first := toParseRepairs(seq, seqTokenLexeme, 5)
	second := toParseRepairs(seq, seqTokenLexeme, 5)

	assert.Equal(t, first, second, "materializing the same sequence twice from the same base offset must be identical")
	assert.Equal(t, ParseDelete, first[0].Kind)
	assert.Equal(t, seqTokenLexeme(5), first[0].Lexeme)
	assert.Equal(t, ParseShift, first[1].Kind)
	assert.Equal(t, seqTokenLexeme(6), first[1].Lexeme)
	assert.Equal(t, ParseInsert, first[2].Kind)
	assert.Equal(t, grammar.TokenIdx(9), first[2].Token)
}
