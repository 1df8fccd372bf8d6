package recovery

import (
	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// TokenCostFunc supplies the cost of consuming, inserting, or deleting one
// instance of a token during repair search. It must return small
// non-negative costs; EOF should be given a prohibitive cost by the caller.
type TokenCostFunc func(grammar.TokenIdx) uint8

// genInsert emits one neighbour per token valid in n's current state (other
// than EOF), synthesizing a zero-length lexeme for each and checking whether
// simulating it changes the stack. Suppressed entirely if n's last repair
// was a Delete.
func genInsert(n *PathNode, g *grammar.Grammar, table lr.StateTable, next lr.LookaheadFunc, cost TokenCostFunc, eof grammar.TokenIdx) []*PathNode {
	if last, ok := n.lastRepair(); ok && last.Kind == RepairDelete {
		return nil
	}

	top, ok := n.PStack.Val()
	if !ok {
		panic("recovery: insert neighbours generated from an empty pstack")
	}

	var out []*PathNode
	for _, t := range table.StateActions(top).Elements() {
		if t == eof {
			continue
		}
		synth := lr.Lexeme{Token: t, Start: n.Laidx, Length: 0}
		_, newStack := lr.Cactus(table, g, next, &synth, n.Laidx, n.PStack, nil)
		if cactus.Equal(newStack, n.PStack) {
			continue
		}
		out = append(out, &PathNode{
			PStack:  newStack,
			Laidx:   n.Laidx,
			Repairs: n.Repairs.Child(plainRepair(Repair{Kind: RepairInsert, Token: t})),
			Cost:    addCost(n.Cost, cost(t)),
		})
	}
	return out
}

// genDelete emits the neighbour reached by skipping the current lookahead
// token outright, or nil if laidx is already at end of input.
func genDelete(n *PathNode, next lr.LookaheadFunc, numLexemes int, cost TokenCostFunc) *PathNode {
	if n.Laidx >= numLexemes {
		return nil
	}
	cur := next(n.Laidx)
	return &PathNode{
		PStack:  n.PStack,
		Laidx:   n.Laidx + 1,
		Repairs: n.Repairs.Child(plainRepair(Repair{Kind: RepairDelete})),
		Cost:    addCost(n.Cost, cost(cur.Token)),
	}
}

// genShift simulates one real step with no synthesized lexeme. If nothing
// changed, there is no neighbour. If a token was actually shifted (laidx
// advanced) the neighbour gets a Shift repair appended; if only free
// reduces fired (the stack changed but laidx did not move), the neighbour
// carries the same repairs unchanged and costs nothing extra.
func genShift(n *PathNode, g *grammar.Grammar, table lr.StateTable, next lr.LookaheadFunc) *PathNode {
	newLaidx, newStack := lr.Cactus(table, g, next, nil, n.Laidx, n.PStack, nil)
	if cactus.Equal(newStack, n.PStack) {
		return nil
	}
	if newLaidx > n.Laidx {
		return &PathNode{
			PStack:  newStack,
			Laidx:   newLaidx,
			Repairs: n.Repairs.Child(plainRepair(Repair{Kind: RepairShift})),
			Cost:    n.Cost,
		}
	}
	return &PathNode{
		PStack:  newStack,
		Laidx:   n.Laidx,
		Repairs: n.Repairs,
		Cost:    n.Cost,
	}
}
