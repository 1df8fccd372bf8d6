package recovery

import (
	"time"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/lr"
	"github.com/dekarrin/cpctplus/recovery/recovererr"
)

// Recover is the top-level entry point a parser driver calls when it hits
// an error with no valid action. It runs the search, materializes every
// tied success, ranks and simplifies the candidates, replays the
// first-ranked one onto pstack and sink, and returns the new configuration
// plus every equally-ranked repair sequence.
//
// On failure to find any repair (deadline, frontier cap, or an exhausted
// search with no success reachable), pstack and laidx are returned
// unchanged, the repair list is nil, and the returned error wraps
// recovererr.ErrNoRepair: this is not a defect, merely a signal for the
// caller to report the original parse error instead.
func Recover(s *Searcher, deadline time.Time, laidxIn int, pstack *cactus.Stack[int], sink lr.TreeSink) (*cactus.Stack[int], int, [][]ParseRepair, error) {
	successes := s.Search(deadline, pstack, laidxIn)
	if len(successes) == 0 {
		return pstack, laidxIn, nil, recovererr.New("no success node reachable from the search", recovererr.ErrNoRepair)
	}

	next := func(i int) lr.Lexeme { return s.View.Lexeme(i) }

	var allSeqs [][]ParseRepair
	for _, node := range successes {
		allSeqs = append(allSeqs, Materialize(node, next, laidxIn)...)
	}

	ranked := RankCandidates(allSeqs, s.View, pstack, laidxIn)
	simplified := SimplifyRepairs(ranked)
	if len(simplified) == 0 {
		return pstack, laidxIn, nil, recovererr.New("all ranked candidates simplified away", recovererr.ErrNoRepair)
	}

	newStack, newLaidx := Replay(simplified[0], s.View.Grammar(), s.View.StateTable(), next, sink, pstack, laidxIn)
	return newStack, newLaidx, simplified, nil
}
