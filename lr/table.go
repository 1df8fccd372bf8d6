// Package lr holds the LR state-table contract and the pure, cactus-stack
// based simulator the recovery search drives millions of times per repair
// attempt. The table itself (states, actions, gotos) is produced by an
// external state-table generator and is out of scope here: this package only
// consumes it.
package lr

import (
	"fmt"

	"github.com/dekarrin/cpctplus/grammar"
)

// ActionType distinguishes the four outcomes an LR action lookup can have.
type ActionType int

const (
	Shift ActionType = iota
	Reduce
	Accept
	Error
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Action is the result of an Action(state, token) lookup.
type Action struct {
	Type ActionType

	// State is the destination state, valid when Type is Shift.
	State int

	// Prod is the production to reduce by, valid when Type is Reduce.
	Prod grammar.ProdIdx
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return fmt.Sprintf("shift(%d)", a.State)
	case Reduce:
		return fmt.Sprintf("reduce(%d)", a.Prod)
	default:
		return a.Type.String()
	}
}

// StateTable is the immutable, shared state table a recovery search consumes.
// Any number of concurrent recoveries may query the same table; nothing in
// this interface implies or requires mutation.
type StateTable interface {
	// Start returns the table's initial state.
	Start() int

	// Action returns the action to take in state on lookahead token.
	Action(state int, token grammar.TokenIdx) Action

	// Goto returns the state to transition to after reducing to rule r while
	// state is exposed on top of the stack.
	Goto(state int, r grammar.RuleIdx) int

	// StateActions returns the set of tokens for which Action(state, ·) is
	// not Error.
	StateActions(state int) grammar.TokenSet
}
