package grammar

// FirstTable holds, for each rule, the set of tokens that can begin some
// string it derives (First), plus whether it can derive the empty string
// (epsilon). It is computed once per Grammar via ComputeFirst and is
// immutable thereafter.
type FirstTable struct {
	sets []TokenSet
	eps  []bool
}

// ComputeFirst computes the FIRST table for g by iterating productions to a
// fixed point, per the algorithm in the grammar-analysis section of the
// recovery spec this package implements: for a production r -> s1...sn, walk
// left to right; a leading token t is added to first(r) and the walk stops;
// a leading nullable rule contributes its first set and the walk continues
// into the next symbol; a non-nullable rule contributes its first set and
// stops the walk. If the walk runs off the end (every symbol nullable, or
// the production is empty), r is marked nullable.
func ComputeFirst(g *Grammar) *FirstTable {
	ft := &FirstTable{
		sets: make([]TokenSet, g.NumRules()),
		eps:  make([]bool, g.NumRules()),
	}
	for r := range ft.sets {
		ft.sets[r] = NewTokenSet(g.NumTokens())
	}

	for changed := true; changed; {
		changed = false
		for r := 0; r < g.NumRules(); r++ {
			for _, pIdx := range g.Productions(RuleIdx(r)) {
				if ft.walkProduction(RuleIdx(r), g.Production(pIdx)) {
					changed = true
				}
			}
		}
	}

	return ft
}

func (ft *FirstTable) walkProduction(r RuleIdx, prod Production) bool {
	changed := false

	for _, sym := range prod {
		if sym.IsToken() {
			if ft.sets[r].Add(sym.Token) {
				changed = true
			}
			return changed
		}

		if ft.sets[r].Union(ft.sets[sym.Rule]) {
			changed = true
		}
		if !ft.eps[sym.Rule] {
			return changed
		}
		// sym.Rule is nullable; continue the walk into the next symbol.
	}

	// every symbol was a nullable rule, or the production was empty.
	if !ft.eps[r] {
		ft.eps[r] = true
		changed = true
	}
	return changed
}

// First returns the FIRST set of rule r.
func (ft *FirstTable) First(r RuleIdx) TokenSet { return ft.sets[r] }

// IsEpsilon reports whether rule r derives the empty string.
func (ft *FirstTable) IsEpsilon(r RuleIdx) bool { return ft.eps[r] }

// RawWords exposes ft's per-rule bitset words and epsilon bits, for
// serialization by a caching layer.
func (ft *FirstTable) RawWords() ([][]uint64, []bool) {
	words := make([][]uint64, len(ft.sets))
	for r, s := range ft.sets {
		words[r] = s.Words()
	}
	eps := make([]bool, len(ft.eps))
	copy(eps, ft.eps)
	return words, eps
}

// RestoreFirstTable rebuilds a FirstTable from data previously obtained via
// RawWords, without recomputing the fixed point.
func RestoreFirstTable(words [][]uint64, eps []bool) *FirstTable {
	ft := &FirstTable{
		sets: make([]TokenSet, len(words)),
		eps:  make([]bool, len(eps)),
	}
	for r, w := range words {
		ft.sets[r] = FromWords(w)
	}
	copy(ft.eps, eps)
	return ft
}
