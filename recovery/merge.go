package recovery

import "github.com/dekarrin/cpctplus/cactus"

// compatible decides whether two nodes sharing the same (pstack, laidx) key
// can be folded into a single frontier entry: they must agree on whether
// their most recent repair was a Delete, and on how many trailing Shift
// repairs they carry, since both properties feed directly into the success
// predicate and merging nodes that disagree on them would silently change
// which repair sequences are reported as successful.
func compatible(a, b *PathNode) bool {
	if a.Laidx != b.Laidx {
		return false
	}
	if !cactus.Equal(a.PStack, b.PStack) {
		return false
	}
	if a.endsWithDelete() != b.endsWithDelete() {
		return false
	}
	return a.trailingShifts() == b.trailingShifts()
}

// mergeInto folds newcomer's repair history into old as an alternate,
// leaving old's own cost and representative repair untouched. old must
// already be compatible with newcomer (checked by the caller before
// deciding to merge rather than insert).
func mergeInto(old, newcomer *PathNode) {
	top, ok := old.Repairs.Val()
	if !ok {
		panic("recovery: merge target has no repair history")
	}
	parent, ok := old.Repairs.Parent()
	if !ok {
		panic("recovery: merge target's repair history has no parent")
	}

	switch top.kind {
	case ormPlain:
		alts := []*cactus.Stack[RepairOrMerge]{newcomer.Repairs}
		old.Repairs = parent.Child(mergedEntry(top.repair, alts))
	case ormMerged:
		alts := make([]*cactus.Stack[RepairOrMerge], len(top.alternates)+1)
		copy(alts, top.alternates)
		alts[len(top.alternates)] = newcomer.Repairs
		old.Repairs = parent.Child(mergedEntry(top.repair, alts))
	default:
		panic("recovery: merge target's last repair cell is a terminator")
	}
}
