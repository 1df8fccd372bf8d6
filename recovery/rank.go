package recovery

import (
	"fmt"
	"strings"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// RankedCandidate pairs a materialized repair sequence with how many real
// tokens the parser shifts after applying it, before hitting another error
// or accepting.
type RankedCandidate struct {
	Sequence   []ParseRepair
	ShiftCount int
}

// replayCandidate applies seq (in tree-off mode) to a throwaway copy of
// pstack/laidx and returns the resulting configuration, without mutating
// the caller's stack.
func replayCandidate(seq []ParseRepair, g *grammar.Grammar, table lr.StateTable, next lr.LookaheadFunc, pstack *cactus.Stack[int], laidx int) (*cactus.Stack[int], int) {
	for _, r := range seq {
		switch r.Kind {
		case ParseInsert:
			synth := lr.Lexeme{Token: r.Token, Start: laidx, Length: 0}
			_, pstack = lr.Cactus(table, g, next, &synth, laidx, pstack, nil)
		case ParseDelete:
			laidx++
		case ParseShift:
			laidx, pstack = lr.Cactus(table, g, next, nil, laidx, pstack, nil)
		}
	}
	return pstack, laidx
}

// countShiftsUntilStop keeps driving the simulator until it would Accept or
// Error, counting how many real tokens got shifted along the way.
func countShiftsUntilStop(g *grammar.Grammar, table lr.StateTable, next lr.LookaheadFunc, pstack *cactus.Stack[int], laidx int) int {
	shifts := 0
	for {
		top, ok := pstack.Val()
		if !ok {
			panic("recovery: rank replay reached an empty pstack")
		}
		lookahead := next(laidx).Token
		act := table.Action(top, lookahead)
		if act.Type == lr.Accept || act.Type == lr.Error {
			return shifts
		}
		var newLaidx int
		newLaidx, pstack = lr.Cactus(table, g, next, nil, laidx, pstack, nil)
		if newLaidx > laidx {
			shifts++
		}
		laidx = newLaidx
	}
}

// RankCandidates scores every materialized repair sequence by how far
// parsing proceeds after applying it, and returns only the tied top-scoring
// group.
func RankCandidates(seqs [][]ParseRepair, view ParserView, pstack *cactus.Stack[int], laidx int) []RankedCandidate {
	if len(seqs) == 0 {
		return nil
	}

	g := view.Grammar()
	table := view.StateTable()
	next := func(i int) lr.Lexeme { return view.Lexeme(i) }

	ranked := make([]RankedCandidate, len(seqs))
	best := -1
	for i, seq := range seqs {
		rp, rl := replayCandidate(seq, g, table, next, pstack, laidx)
		shifts := countShiftsUntilStop(g, table, next, rp, rl)
		ranked[i] = RankedCandidate{Sequence: seq, ShiftCount: shifts}
		if shifts > best {
			best = shifts
		}
	}

	top := make([]RankedCandidate, 0, len(ranked))
	for _, r := range ranked {
		if r.ShiftCount == best {
			top = append(top, r)
		}
	}
	return top
}

// SimplifyRepairs strips trailing Shift repairs from each candidate (they
// belong to the success criterion, not the correction) and deduplicates the
// result by structural equality.
func SimplifyRepairs(cands []RankedCandidate) [][]ParseRepair {
	seen := map[string]bool{}
	out := make([][]ParseRepair, 0, len(cands))
	for _, c := range cands {
		seq := stripTrailingShifts(c.Sequence)
		key := sequenceKey(seq)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, seq)
	}
	return out
}

func stripTrailingShifts(seq []ParseRepair) []ParseRepair {
	end := len(seq)
	for end > 0 && seq[end-1].Kind == ParseShift {
		end--
	}
	out := make([]ParseRepair, end)
	copy(out, seq[:end])
	return out
}

func sequenceKey(seq []ParseRepair) string {
	var b strings.Builder
	for _, r := range seq {
		fmt.Fprintf(&b, "%d:%d:%d:%d:%d|", r.Kind, r.Token, r.Lexeme.Token, r.Lexeme.Start, r.Lexeme.Length)
	}
	return b.String()
}
