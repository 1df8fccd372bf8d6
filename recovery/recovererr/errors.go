// Package recovererr holds the error objects returned across the recovery
// package's public surface. It follows the same wrapping Error type used
// throughout this module: errors.Is works against any of an Error's causes.
package recovererr

import "errors"

var (
	// ErrNoRepair indicates the search finished (by exhaustion, deadline, or
	// frontier-node cap) without finding any success node. Per spec this is
	// not a fatal condition: the caller reports the original parse error.
	ErrNoRepair = errors.New("no repair sequence resumes parsing")

	// ErrInvariant marks an internal invariant violation: cost overflow, an
	// empty-stack access, or an unreachable branch in merge logic. These
	// denote defects, not recoverable conditions.
	ErrInvariant = errors.New("recovery internal invariant violated")
)

// Error is a message plus zero or more causes. Calling errors.Is on an Error
// with any of its causes as the target returns true.
type Error struct {
	msg   string
	cause []error
}

func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	if len(causes) > 0 {
		e.cause = make([]error, len(causes))
		copy(e.cause, causes)
	}
	return e
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allEqual := true
			for i := range e.cause {
				if e.cause[i] != errTarget.cause[i] {
					allEqual = false
					break
				}
			}
			if allEqual {
				return true
			}
		}
	}
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}
