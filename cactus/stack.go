// Package cactus provides a persistent, structurally-shared "cactus" stack: a
// singly-linked list of immutable cells where every push returns a fresh
// handle to a node whose parent is the stack it was pushed from. Because
// cells are never mutated, any number of handles may share the same suffix,
// which is what lets a best-first search clone a parser's state stack on
// every neighbour it generates without copying anything but a handful of
// pointers.
package cactus

// Stack is one cell of a cactus stack holding a value of type T plus a
// pointer to the parent cell it was pushed onto. The zero value, and the
// value returned by Empty, represent the empty stack.
//
// A *Stack[T] is immutable after construction; Child never modifies the
// receiver, it only ever returns a new cell pointing back at it. This makes a
// *Stack[T] safe to share across any number of concurrently-held handles.
type Stack[T any] struct {
	val    T
	has    bool
	parent *Stack[T]
	depth  int
}

// Empty returns a handle to the empty stack for element type T.
func Empty[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Child pushes v onto s and returns the new stack. s itself is unchanged and
// remains a valid handle to whatever it was before the call; this is the O(1)
// "push" operation of the cactus stack.
func (s *Stack[T]) Child(v T) *Stack[T] {
	return &Stack[T]{val: v, has: true, parent: s, depth: s.depth + 1}
}

// Val returns the value at the top of s. ok is false iff s is the empty
// stack, in which case the returned value is the zero value of T.
func (s *Stack[T]) Val() (v T, ok bool) {
	if s == nil || !s.has {
		return v, false
	}
	return s.val, true
}

// Parent returns the stack with the top element of s removed; this is the
// O(1) "pop" operation. ok is false iff s is the empty stack.
func (s *Stack[T]) Parent() (p *Stack[T], ok bool) {
	if s == nil || !s.has {
		return nil, false
	}
	return s.parent, true
}

// Len returns the number of elements in s.
func (s *Stack[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.depth
}

// IsEmpty returns whether s holds no elements.
func (s *Stack[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Seq returns the elements of s as a slice, ordered from top to bottom. It
// allocates; callers on a hot path should prefer Vals for lazy traversal, or
// use Seq only when a concrete, hashable/comparable key is actually needed
// (as search-frontier lookups do).
func Seq[T any](s *Stack[T]) []T {
	out := make([]T, 0, s.Len())
	it := s.Vals()
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Iter is a lazy, external iterator over a Stack's elements, walking parent
// links one at a time rather than building the whole sequence up front.
type Iter[T any] struct {
	cur *Stack[T]
}

// Vals returns a lazy top-to-bottom iterator over the elements of s.
func (s *Stack[T]) Vals() *Iter[T] {
	return &Iter[T]{cur: s}
}

// Next returns the next element in the traversal and advances the iterator.
// ok is false once the bottom of the stack has been passed.
func (it *Iter[T]) Next() (v T, ok bool) {
	if it.cur == nil {
		return v, false
	}
	v, ok = it.cur.Val()
	if !ok {
		it.cur = nil
		return v, false
	}
	it.cur, _ = it.cur.Parent()
	return v, true
}

// Equal reports whether a and b hold the same sequence of elements from top
// to bottom. Two stacks built independently but sharing the same logical
// sequence compare equal; this is a structural comparison, not a pointer
// comparison, though identical handles are checked first as a fast path.
func Equal[T comparable](a, b *Stack[T]) bool {
	for {
		if a == b {
			return true
		}
		av, aok := a.Val()
		bv, bok := b.Val()
		if aok != bok {
			return false
		}
		if !aok {
			return true
		}
		if av != bv {
			return false
		}
		a, _ = a.Parent()
		b, _ = b.Parent()
	}
}

// FromSlice builds a cactus stack from a top-to-bottom slice of values, i.e.
// vals[0] ends up as the top of the returned stack. It is the inverse of
// Seq.
func FromSlice[T any](vals []T) *Stack[T] {
	s := Empty[T]()
	for i := len(vals) - 1; i >= 0; i-- {
		s = s.Child(vals[i])
	}
	return s
}
