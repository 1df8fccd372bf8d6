// Package recovery implements the CPCT+ error-repair search: given an LR
// parser stuck at a lookahead token with no valid action, it searches for a
// minimum-cost sequence of token insertions, deletions, and shifts that lets
// parsing resume, surfacing every equally-good repair it finds.
package recovery

import (
	"fmt"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/recovery/recovererr"
)

// RepairKind distinguishes the three primitive repair actions.
type RepairKind int

const (
	RepairInsert RepairKind = iota
	RepairDelete
	RepairShift
)

// Repair is one step of a repair sequence.
type Repair struct {
	Kind RepairKind

	// Token is the token to insert. Valid only when Kind is RepairInsert.
	Token grammar.TokenIdx
}

func (r Repair) String() string {
	switch r.Kind {
	case RepairInsert:
		return fmt.Sprintf("Insert(%d)", r.Token)
	case RepairDelete:
		return "Delete"
	case RepairShift:
		return "Shift"
	default:
		return "?"
	}
}

type ormKind int

const (
	ormPlain ormKind = iota
	ormMerged
	ormTerminator
)

// RepairOrMerge is one cell of a search node's repair history. Plain cells
// carry a single repair; Merged cells carry a representative repair (the
// one the canonical node already had) plus every alternate complete repair
// history that was folded into this node because it reached the same
// (pstack, laidx) by a compatible but distinct path; Terminator marks the
// bottom of the chain (the start node, with no repairs yet).
type RepairOrMerge struct {
	kind       ormKind
	repair     Repair
	alternates []*cactus.Stack[RepairOrMerge]
}

func plainRepair(r Repair) RepairOrMerge {
	return RepairOrMerge{kind: ormPlain, repair: r}
}

func terminatorEntry() RepairOrMerge {
	return RepairOrMerge{kind: ormTerminator}
}

func mergedEntry(r Repair, alternates []*cactus.Stack[RepairOrMerge]) RepairOrMerge {
	return RepairOrMerge{kind: ormMerged, repair: r, alternates: alternates}
}

func (rm RepairOrMerge) lastRepair() (Repair, bool) {
	if rm.kind == ormTerminator {
		return Repair{}, false
	}
	return rm.repair, true
}

// PathNode is one state of the repair search: a candidate parser
// configuration reached by some sequence of repairs, with its accumulated
// cost.
type PathNode struct {
	PStack  *cactus.Stack[int]
	Laidx   int
	Repairs *cactus.Stack[RepairOrMerge]
	Cost    uint16
}

func startNode(pstack *cactus.Stack[int], laidx int) *PathNode {
	return &PathNode{
		PStack:  pstack,
		Laidx:   laidx,
		Repairs: cactus.Empty[RepairOrMerge]().Child(terminatorEntry()),
		Cost:    0,
	}
}

func (n *PathNode) lastRepair() (Repair, bool) {
	top, ok := n.Repairs.Val()
	if !ok {
		return Repair{}, false
	}
	return top.lastRepair()
}

// endsWithDelete reports whether n's most recent repair is a Delete.
func (n *PathNode) endsWithDelete() bool {
	r, ok := n.lastRepair()
	return ok && r.Kind == RepairDelete
}

// trailingShifts counts the number of consecutive RepairShift entries at the
// tail of n's repair history.
func (n *PathNode) trailingShifts() int {
	count := 0
	it := n.Repairs.Vals()
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		r, hasR := v.lastRepair()
		if !hasR || r.Kind != RepairShift {
			break
		}
		count++
	}
	return count
}

// addCost adds a non-negative per-token cost to base, panicking if the
// 16-bit accumulator would overflow: per spec, cost overflow is an internal
// invariant violation, not a recoverable condition.
func addCost(base uint16, delta uint8) uint16 {
	sum := uint32(base) + uint32(delta)
	if sum > 0xFFFF {
		panic(recovererr.New("repair cost overflowed its 16-bit accumulator", recovererr.ErrInvariant))
	}
	return uint16(sum)
}
