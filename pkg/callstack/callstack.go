// Package callstack implements the ordered call stack plus the
// fast-membership tracked set used for re-entrancy and recursion
// detection.
package callstack

import (
	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
)

// TraceEnabled gates MakeStackTrace; flipping it off avoids paying for stack
// snapshots in production builds while keeping the toggle available to
// tests and debugging tools at runtime.
var TraceEnabled = false

// Stack is CallStack: an ordered sequence of active function identifiers
// plus a refcounted set of the tracked subset, used to answer recursion
// guard queries in O(1).
type Stack struct {
	stack   []clarity.FunctionIdentifier
	tracked map[clarity.FunctionIdentifier]int
}

// New returns an empty call stack.
func New() *Stack {
	return &Stack{tracked: make(map[clarity.FunctionIdentifier]int)}
}

// Depth returns the number of active frames.
func (s *Stack) Depth() int {
	return len(s.stack)
}

// Contains answers the recursion guard: true iff id has a pending tracked
// insert without a matching tracked remove.
func (s *Stack) Contains(id clarity.FunctionIdentifier) bool {
	return s.tracked[id] > 0
}

// Insert pushes id onto the stack; if tracked, it also registers id in the
// fast-membership set (incrementing its refcount so repeated pushes of the
// same id — mutual recursion calling back into itself — are supported).
func (s *Stack) Insert(id clarity.FunctionIdentifier, tracked bool) {
	s.stack = append(s.stack, id)
	if tracked {
		s.tracked[id]++
	}
}

// Remove pops the stack, failing if it is empty or if the popped id does not
// match the requested id — either is a protocol violation by the caller. If
// tracked, it also decrements the fast-membership refcount; reaching zero
// with no registration at all is a fatal inconsistency.
func (s *Stack) Remove(id clarity.FunctionIdentifier, tracked bool) error {
	if len(s.stack) == 0 {
		return clarityerr.ErrInterpreterInternal
	}
	top := s.stack[len(s.stack)-1]
	if top != id {
		return clarityerr.ErrInterpreterInternal
	}
	s.stack = s.stack[:len(s.stack)-1]
	if tracked {
		count, ok := s.tracked[id]
		if !ok || count == 0 {
			clarityerr.Fatalf("callstack: tracked id %s missing on removal", id.String())
		}
		if count == 1 {
			delete(s.tracked, id)
		} else {
			s.tracked[id] = count - 1
		}
	}
	return nil
}

// MakeStackTrace returns a copy of the ordered stack when TraceEnabled is
// set, and an empty slice otherwise.
func (s *Stack) MakeStackTrace() []clarity.FunctionIdentifier {
	if !TraceEnabled {
		return nil
	}
	out := make([]clarity.FunctionIdentifier, len(s.stack))
	copy(out, s.stack)
	return out
}
