package recovery

import (
	"time"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/lr"
)

// Event records one error-recovery episode encountered while driving a
// token stream to completion.
type Event struct {
	Laidx      int
	Candidates [][]ParseRepair
	Applied    []ParseRepair
	Recovered  bool

	// Err is the error Recover returned, non-nil exactly when Recovered is
	// false; it wraps recovererr.ErrNoRepair.
	Err error
}

// DriveResult is the outcome of running a token stream through a parser
// with recovery enabled end to end.
type DriveResult struct {
	Accepted bool
	Events   []Event
}

// Drive runs the pure LR simulator over the Searcher's view from the start
// state, invoking Recover at every error and continuing from whatever
// configuration it leaves behind, until the input is accepted or a
// recovery attempt fails to find any repair.
func Drive(s *Searcher, deadline time.Time, sink lr.TreeSink) DriveResult {
	g := s.View.Grammar()
	table := s.View.StateTable()
	next := func(i int) lr.Lexeme { return s.View.Lexeme(i) }

	pstack := cactus.FromSlice([]int{table.Start()})
	laidx := 0

	var result DriveResult
	for {
		newLaidx, newStack := lr.Cactus(table, g, next, nil, laidx, pstack, sink)
		if cactus.Equal(newStack, pstack) {
			top, _ := pstack.Val()
			if table.Action(top, s.View.Lexeme(laidx).Token).Type == lr.Accept {
				result.Accepted = true
				return result
			}

			newStack2, newLaidx2, candidates, err := Recover(s, deadline, laidx, pstack, sink)
			ev := Event{Laidx: laidx, Candidates: candidates, Err: err}
			if err != nil {
				result.Events = append(result.Events, ev)
				return result
			}
			ev.Applied = candidates[0]
			ev.Recovered = true
			result.Events = append(result.Events, ev)
			pstack, laidx = newStack2, newLaidx2
			continue
		}
		pstack, laidx = newStack, newLaidx
	}
}
