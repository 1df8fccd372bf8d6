package store

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/cpctplus/exprgrammar"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFingerprint_StableAcrossCalls(t *testing.T) {
	g, _ := exprgrammar.Build()
	assert.Equal(t, Fingerprint(g), Fingerprint(g))
}

func TestFingerprint_DiffersForDifferentGrammars(t *testing.T) {
	g1, _ := exprgrammar.Build()

	rules := [][]grammar.Production{
		0: {{grammar.Tok(0)}},
	}
	g2, err := grammar.New([]string{"N", "$"}, []string{"E"}, rules, 0, 1)
	require.NoError(t, err)

	assert.NotEqual(t, Fingerprint(g1), Fingerprint(g2))
}

func TestLoad_MissingFingerprintReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	first, follow, ok, err := s.Load("does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, first)
	assert.Nil(t, follow)
}

func TestSaveThenLoad_RoundTripsFirstAndFollow(t *testing.T) {
	s := openTestStore(t)

	g, _ := exprgrammar.Build()
	first := grammar.ComputeFirst(g)
	follow := grammar.ComputeFollow(g, first)
	fp := Fingerprint(g)

	require.NoError(t, s.Save(fp, first, follow))

	gotFirst, gotFollow, ok, err := s.Load(fp)
	require.NoError(t, err)
	require.True(t, ok)

	for r := 0; r < g.NumRules(); r++ {
		assert.Equal(t, first.First(grammar.RuleIdx(r)).Elements(), gotFirst.First(grammar.RuleIdx(r)).Elements())
		assert.Equal(t, first.IsEpsilon(grammar.RuleIdx(r)), gotFirst.IsEpsilon(grammar.RuleIdx(r)))
		assert.Equal(t, follow.Follow(grammar.RuleIdx(r)).Elements(), gotFollow.Follow(grammar.RuleIdx(r)).Elements())
	}
}

func TestSave_OverwritesExistingEntry(t *testing.T) {
	s := openTestStore(t)

	g, _ := exprgrammar.Build()
	first := grammar.ComputeFirst(g)
	follow := grammar.ComputeFollow(g, first)
	fp := Fingerprint(g)

	require.NoError(t, s.Save(fp, first, follow))
	require.NoError(t, s.Save(fp, first, follow))

	_, _, ok, err := s.Load(fp)
	require.NoError(t, err)
	assert.True(t, ok)
}
