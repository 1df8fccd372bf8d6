package recovery

import (
	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// Replay applies seq to the real mutable parse stack with tree construction
// enabled via sink. Insert produces a zero-length lexeme leaf (through
// lr.Cactus's own sink callback) and advances state; Delete advances the
// input index without emitting a tree node; Shift advances both and emits
// whatever leaves/interiors the simulator produces along the way.
func Replay(seq []ParseRepair, g *grammar.Grammar, table lr.StateTable, next lr.LookaheadFunc, sink lr.TreeSink, pstack *cactus.Stack[int], laidx int) (*cactus.Stack[int], int) {
	for _, r := range seq {
		switch r.Kind {
		case ParseInsert:
			synth := lr.Lexeme{Token: r.Token, Start: laidx, Length: 0}
			_, pstack = lr.Cactus(table, g, next, &synth, laidx, pstack, sink)
		case ParseDelete:
			laidx++
		case ParseShift:
			laidx, pstack = lr.Cactus(table, g, next, nil, laidx, pstack, sink)
		}
	}
	return pstack, laidx
}
