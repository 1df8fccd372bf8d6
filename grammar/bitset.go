package grammar

// TokenSet is a bitset over TokenIdx, used for FIRST/FOLLOW sets and for the
// per-state "valid token" sets a state table exposes.
type TokenSet struct {
	words []uint64
}

// NewTokenSet returns an empty TokenSet sized to hold indices in [0, n).
func NewTokenSet(n int) TokenSet {
	return TokenSet{words: make([]uint64, (n+63)/64)}
}

// Add sets t in the set. Returns true if this changed the set (t was not
// already present), which callers use to detect fixed-point convergence.
func (s *TokenSet) Add(t TokenIdx) bool {
	w, b := int(t)/64, uint(int(t)%64)
	if s.words[w]&(1<<b) != 0 {
		return false
	}
	s.words[w] |= 1 << b
	return true
}

// Has reports whether t is in the set.
func (s TokenSet) Has(t TokenIdx) bool {
	w, b := int(t)/64, uint(int(t)%64)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<b) != 0
}

// Union adds every element of o into s, reporting whether anything changed.
func (s *TokenSet) Union(o TokenSet) bool {
	changed := false
	for i := range o.words {
		if s.words[i]|o.words[i] != s.words[i] {
			changed = true
		}
		s.words[i] |= o.words[i]
	}
	return changed
}

// Elements returns the members of s in ascending order.
func (s TokenSet) Elements() []TokenIdx {
	var out []TokenIdx
	for w, word := range s.words {
		for b := 0; b < 64; b++ {
			if word&(1<<uint(b)) != 0 {
				out = append(out, TokenIdx(w*64+b))
			}
		}
	}
	return out
}

// Words returns the raw backing words of the set, for serialization. The
// returned slice must not be mutated.
func (s TokenSet) Words() []uint64 { return s.words }

// FromWords rebuilds a TokenSet from words previously obtained via Words.
func FromWords(words []uint64) TokenSet {
	cp := make([]uint64, len(words))
	copy(cp, words)
	return TokenSet{words: cp}
}

// Len returns the number of members in the set.
func (s TokenSet) Len() int {
	n := 0
	for _, w := range s.words {
		for w != 0 {
			n += int(w & 1)
			w >>= 1
		}
	}
	return n
}
