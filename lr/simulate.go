package lr

import (
	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
)

// TreeSink receives tree-construction callbacks from Cactus when replaying a
// chosen repair with tree construction enabled. A nil TreeSink means
// tree-off mode, used throughout the search itself.
type TreeSink interface {
	// Leaf is called once per Shift, with the lexeme that was shifted.
	Leaf(lex Lexeme)

	// Interior is called once per Reduce, with the production reduced by and
	// the number of symbols it popped (and therefore children the new
	// interior node has).
	Interior(prod grammar.ProdIdx, numPopped int)
}

// LookaheadFunc returns the lexeme at position laidx in the input stream.
type LookaheadFunc func(laidx int) Lexeme

// Cactus is the pure LR simulator driving both the repair search and the
// final replay. Given a state stack and a lookahead position, it repeatedly
// reduces until it can shift, accept, or error, performing at most one shift
// per call.
//
// If insert is non-nil, it is used as the lookahead token for the entire
// call (both any intervening reduces and the eventual shift/accept/error
// decision) instead of reading from next; this is how token insertion is
// simulated without actually consuming real input. The laidx this function
// returns still increments by one whenever an actual Shift occurs, whether
// of a real or of a synthesized lexeme — callers simulating an insertion
// discard that returned laidx and keep their own, since a synthetic lexeme
// never consumes a real one.
//
// On Error, laidx is returned unchanged, but pstack may still reflect any
// reduces that were applied before the error state was reached: reduces are
// unconditional consequences of grammar + lookahead, independent of whether
// a repair is eventually found from the resulting configuration.
func Cactus(
	table StateTable,
	g *grammar.Grammar,
	next LookaheadFunc,
	insert *Lexeme,
	laidx int,
	pstack *cactus.Stack[int],
	sink TreeSink,
) (int, *cactus.Stack[int]) {
	var lookahead grammar.TokenIdx
	if insert != nil {
		lookahead = insert.Token
	} else {
		lookahead = next(laidx).Token
	}

	for {
		top, ok := pstack.Val()
		if !ok {
			panic("lr: Cactus called with an empty stack")
		}

		act := table.Action(top, lookahead)

		switch act.Type {
		case Shift:
			pstack = pstack.Child(act.State)
			if sink != nil {
				var lex Lexeme
				if insert != nil {
					lex = *insert
				} else {
					lex = next(laidx)
				}
				sink.Leaf(lex)
			}
			laidx++
			return laidx, pstack

		case Reduce:
			prod := g.Production(act.Prod)
			for i := 0; i < len(prod); i++ {
				p, ok := pstack.Parent()
				if !ok {
					panic("lr: Cactus popped past the bottom of the stack during a reduce")
				}
				pstack = p
			}
			newTop, ok := pstack.Val()
			if !ok {
				panic("lr: Cactus reduce left the stack empty before a goto")
			}
			toState := table.Goto(newTop, g.RuleOf(act.Prod))
			pstack = pstack.Child(toState)
			if sink != nil {
				sink.Interior(act.Prod, len(prod))
			}
			// lookahead is unchanged (laidx didn't move); loop and re-inspect.

		case Accept:
			return laidx, pstack

		case Error:
			return laidx, pstack
		}
	}
}
