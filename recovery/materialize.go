package recovery

import (
	"fmt"

	"github.com/dekarrin/cpctplus/cactus"
	"github.com/dekarrin/cpctplus/grammar"
	"github.com/dekarrin/cpctplus/lr"
)

// ParseRepairKind distinguishes the externally-visible repair variants.
type ParseRepairKind int

const (
	ParseInsert ParseRepairKind = iota
	ParseDelete
	ParseShift
)

// ParseRepair is a single step of a materialized repair sequence, with
// enough information (the actual lexeme consumed, for Delete/Shift) to
// annotate a parse tree during replay.
type ParseRepair struct {
	Kind   ParseRepairKind
	Token  grammar.TokenIdx // valid for ParseInsert
	Lexeme lr.Lexeme        // valid for ParseDelete and ParseShift
}

func (r ParseRepair) String() string {
	switch r.Kind {
	case ParseInsert:
		return fmt.Sprintf("Insert(%d)", r.Token)
	case ParseDelete:
		return fmt.Sprintf("Delete(%s)", r.Lexeme)
	case ParseShift:
		return fmt.Sprintf("Shift(%s)", r.Lexeme)
	default:
		return "?"
	}
}

// collectSequences walks a repair cactus from its Terminator to its top,
// forking at every Merged cell into one sequence per alternate. Each
// alternate is itself a complete, independent chain (it was stored as the
// full repair history of the node that got folded in), so its own
// collectSequences result is appended as-is rather than concatenated onto
// the sequences accumulated so far.
func collectSequences(repairs *cactus.Stack[RepairOrMerge]) [][]Repair {
	top, ok := repairs.Val()
	if !ok {
		return nil
	}
	if top.kind == ormTerminator {
		return [][]Repair{{}}
	}

	parent, ok := repairs.Parent()
	if !ok {
		panic("recovery: non-terminator repair cell has no parent")
	}
	parentSeqs := collectSequences(parent)

	out := make([][]Repair, 0, len(parentSeqs))
	for _, ps := range parentSeqs {
		seq := make([]Repair, len(ps)+1)
		copy(seq, ps)
		seq[len(ps)] = top.repair
		out = append(out, seq)
	}

	if top.kind == ormMerged {
		for _, alt := range top.alternates {
			out = append(out, collectSequences(alt)...)
		}
	}
	return out
}

// toParseRepairs converts one linear Repair sequence into ParseRepair
// values, consuming lexemes at a running offset starting fresh from
// startLaidx: per-sequence, not shared across sequences materialized from
// the same success node.
func toParseRepairs(seq []Repair, next lr.LookaheadFunc, startLaidx int) []ParseRepair {
	laidx := startLaidx
	out := make([]ParseRepair, 0, len(seq))
	for _, r := range seq {
		switch r.Kind {
		case RepairInsert:
			out = append(out, ParseRepair{Kind: ParseInsert, Token: r.Token})
		case RepairDelete:
			out = append(out, ParseRepair{Kind: ParseDelete, Lexeme: next(laidx)})
			laidx++
		case RepairShift:
			out = append(out, ParseRepair{Kind: ParseShift, Lexeme: next(laidx)})
			laidx++
		}
	}
	return out
}

// Materialize expands a success node into every linear ParseRepair sequence
// it represents (more than one if its repair history contains any Merged
// cells).
func Materialize(n *PathNode, next lr.LookaheadFunc, startLaidx int) [][]ParseRepair {
	raw := collectSequences(n.Repairs)
	out := make([][]ParseRepair, len(raw))
	for i, seq := range raw {
		out[i] = toParseRepairs(seq, next, startLaidx)
	}
	return out
}
