// Package localctx implements the bounded-depth lexical frame chain used
// for evaluator-local bindings: each frame holds its own map and a parent
// back-reference walked on lookup.
package localctx

import (
	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
)

// MaxContextDepth bounds lexical nesting; extending past it fails rather
// than growing the stack without bound.
const MaxContextDepth = 256

// Context is LocalContext: a single lexical frame with an optional parent.
// A child never outlives its parent and lookups are read-only, so this is
// implemented as a simple linked list of frames rather than an arena.
type Context struct {
	parent    *Context
	variables map[clarity.ClarityName]clarity.Value
	depth     uint16
}

// New creates the root frame: depth 0, no parent.
func New() *Context {
	return &Context{variables: make(map[clarity.ClarityName]clarity.Value)}
}

// Extend creates a nested frame one level deeper than c. Fails with
// ErrMaxContextDepthReached if c is already at MaxContextDepth.
func (c *Context) Extend() (*Context, error) {
	if c.depth == MaxContextDepth {
		return nil, clarityerr.ErrMaxContextDepthReached
	}
	return &Context{
		parent:    c,
		variables: make(map[clarity.ClarityName]clarity.Value),
		depth:     c.depth + 1,
	}, nil
}

// Depth reports the frame's nesting depth.
func (c *Context) Depth() uint16 {
	return c.depth
}

// SetVariable binds name in this frame only. Intended to be used only while
// the frame is being constructed by the evaluator, before it is shared with
// any nested lookup.
func (c *Context) SetVariable(name clarity.ClarityName, value clarity.Value) {
	c.variables[name] = value
}

// LookupVariable searches this frame's bindings, then walks parent
// references outward, returning the first hit.
func (c *Context) LookupVariable(name clarity.ClarityName) (clarity.Value, bool) {
	for frame := c; frame != nil; frame = frame.parent {
		if v, ok := frame.variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}
