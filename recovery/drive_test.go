package recovery_test

import (
	"testing"
	"time"

	"github.com/dekarrin/cpctplus/exprgrammar"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/recovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrive_AcceptsCleanInput(t *testing.T) {
	g, table := exprgrammar.Build()
	view := &recovery.TokenStreamView{
		G:     g,
		Table: table,
		Tokens: []grammar.TokenIdx{
			exprgrammar.N, exprgrammar.Plus, exprgrammar.N,
		},
	}
	s := &recovery.Searcher{View: view}

	result := recovery.Drive(s, time.Now().Add(time.Second), nil)
	assert.True(t, result.Accepted)
	assert.Empty(t, result.Events)
}

func TestDrive_RecoversUnmatchedCloseParen(t *testing.T) {
	g, table := exprgrammar.Build()
	view := &recovery.TokenStreamView{
		G:     g,
		Table: table,
		Tokens: []grammar.TokenIdx{
			exprgrammar.N, exprgrammar.RPar, exprgrammar.Plus, exprgrammar.N,
			exprgrammar.Plus, exprgrammar.N, exprgrammar.Plus, exprgrammar.N, exprgrammar.RPar,
		},
	}
	s := &recovery.Searcher{View: view}

	result := recovery.Drive(s, time.Now().Add(time.Second), nil)
	require.True(t, result.Accepted)
	require.Len(t, result.Events, 2)
	for _, ev := range result.Events {
		assert.True(t, ev.Recovered)
		require.Len(t, ev.Applied, 1)
		assert.Equal(t, recovery.ParseDelete, ev.Applied[0].Kind)
	}
}
