package recovery

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// ParseAtLeast is the fallback trailing-Shift threshold used by a Searcher
// whose own ParseAtLeast field is left at its zero value.
const ParseAtLeast = 3

// ParserView is everything the search needs from the host parser: its
// grammar and state table, token costs, and read-only access to the
// pre-lexed input stream.
type ParserView interface {
	Grammar() *grammar.Grammar
	StateTable() lr.StateTable
	TokenCost(t grammar.TokenIdx) uint8
	Lexeme(laidx int) lr.Lexeme
	NumLexemes() int
}

// Searcher holds tuning knobs for one or more Search calls against a shared
// ParserView.
type Searcher struct {
	View ParserView

	// ParseAtLeast is the number of consecutive trailing Shift repairs that
	// counts as "parsing stabilized" for the success predicate. Zero means
	// the package default of ParseAtLeast (3).
	ParseAtLeast int

	// MaxFrontierNodes caps the number of nodes the search will create
	// (every generated neighbour counts, including ones later merged or
	// discarded) before giving up as though the deadline had fired. Zero
	// means unlimited.
	MaxFrontierNodes int

	// Trace, if non-nil, receives a lazily-formatted line when a success
	// node is found, when the deadline fires, and when the frontier-node cap
	// is reached; expansions and merges are not traced. It is never called
	// if nil, so callers pay nothing for tracing they don't want.
	Trace func(fn func() string)

	nodesCreated int
}

func (s *Searcher) logf(format string, args ...any) {
	if s.Trace == nil {
		return
	}
	s.Trace(func() string { return fmt.Sprintf(format, args...) })
}

type heapItem struct {
	node *PathNode
	cost uint16
}

type nodeHeap []*heapItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*heapItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Search runs one CPCT+ repair search starting from pstack at laidx, and
// returns every success node tied for minimum cost. Returns nil if the
// deadline, the frontier-node cap, or exhaustion of the search space is hit
// before any success is found.
func (s *Searcher) Search(deadline time.Time, pstack *cactus.Stack[int], laidx int) []*PathNode {
	g := s.View.Grammar()
	table := s.View.StateTable()
	eof := g.EOF()
	next := func(idx int) lr.Lexeme { return s.View.Lexeme(idx) }

	frontier := &nodeHeap{}
	heap.Init(frontier)
	dom := map[string][]*PathNode{}

	start := startNode(pstack, laidx)
	s.nodesCreated = 1
	pushNode(frontier, dom, start)

	var bestCost uint16
	haveBest := false
	var successes []*PathNode

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(*heapItem)
		node := item.node
		if item.cost != node.Cost {
			continue // stale: superseded by a cheaper compatible arrival
		}
		if haveBest && node.Cost > bestCost {
			break // Dijkstra monotonicity: nothing left can beat bestCost
		}

		if s.isSuccess(node) {
			if !haveBest {
				haveBest = true
				bestCost = node.Cost
			}
			if node.Cost == bestCost {
				successes = append(successes, node)
				s.logf("recovery: success at cost %d (laidx=%d)", node.Cost, node.Laidx)
			}
			continue // success nodes are not expanded further
		}

		if time.Now().After(deadline) {
			s.logf("recovery: deadline exceeded with %d successes so far", len(successes))
			break
		}
		if s.MaxFrontierNodes > 0 && s.nodesCreated >= s.MaxFrontierNodes {
			s.logf("recovery: frontier node cap (%d) reached", s.MaxFrontierNodes)
			break
		}

		s.expand(node, g, table, next, eof, frontier, dom)
	}

	return successes
}

func (s *Searcher) isSuccess(n *PathNode) bool {
	threshold := s.ParseAtLeast
	if threshold == 0 {
		threshold = ParseAtLeast
	}
	if n.trailingShifts() >= threshold {
		return true
	}
	table := s.View.StateTable()
	top, ok := n.PStack.Val()
	if !ok {
		return false
	}
	lookahead := s.View.Lexeme(n.Laidx).Token
	return table.Action(top, lookahead).Type == lr.Accept
}

func (s *Searcher) expand(n *PathNode, g *grammar.Grammar, table lr.StateTable, next lr.LookaheadFunc, eof grammar.TokenIdx, frontier *nodeHeap, dom map[string][]*PathNode) {
	for _, nn := range genInsert(n, g, table, next, s.View.TokenCost, eof) {
		s.nodesCreated++
		pushNode(frontier, dom, nn)
	}
	if nn := genDelete(n, next, s.View.NumLexemes(), s.View.TokenCost); nn != nil {
		s.nodesCreated++
		pushNode(frontier, dom, nn)
	}
	if nn := genShift(n, g, table, next); nn != nil {
		s.nodesCreated++
		pushNode(frontier, dom, nn)
	}
}

// pushNode inserts a freshly-generated node into the frontier, merging it
// into an existing compatible canonical node instead when one already
// exists at the same (pstack, laidx) key.
func pushNode(frontier *nodeHeap, dom map[string][]*PathNode, nn *PathNode) {
	key := domKey(nn.PStack, nn.Laidx)
	for _, old := range dom[key] {
		if !compatible(old, nn) {
			continue
		}
		switch {
		case nn.Cost == old.Cost:
			mergeInto(old, nn)
			return
		case nn.Cost < old.Cost:
			old.Cost = nn.Cost
			old.Repairs = nn.Repairs
			heap.Push(frontier, &heapItem{node: old, cost: old.Cost})
			return
		default:
			return // strictly worse than an already-known path; discard
		}
	}
	dom[key] = append(dom[key], nn)
	heap.Push(frontier, &heapItem{node: nn, cost: nn.Cost})
}

func domKey(pstack *cactus.Stack[int], laidx int) string {
	seq := cactus.Seq(pstack)
	b := make([]byte, 0, 4*len(seq)+8)
	for _, st := range seq {
		b = append(b, byte(st), byte(st>>8), byte(st>>16), byte(st>>24))
	}
	b = append(b, byte(laidx), byte(laidx>>8), byte(laidx>>16), byte(laidx>>24))
	return string(b)
}
