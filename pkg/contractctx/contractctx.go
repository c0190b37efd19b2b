// Package contractctx implements the per-contract execution context: the
// read-mostly store of variable and function bindings produced once by
// contract initialization, immutable afterward.
package contractctx

import (
	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/localctx"
)

// Environment is deliberately the narrowest possible view a DefinedFunction
// needs to declare in its own signature. Real evaluator implementations
// (see package lang) require a much richer environment — contract
// bindings, the global transactional context, the call stack, sender and
// caller — but that richer interface lives in lang (not here), because
// depending on globalctx.Context from this package would close an import
// cycle (globalctx depends on claritydb, which depends on this package for
// StoredContract). A DefinedFunction implementation type-asserts the
// narrow Environment it receives back to the richer interface it actually
// needs.
type Environment interface {
	IsReadOnly() bool
}

// DefinedFunction is the collaborator interface for a contract function:
// its publicness and read-only-ness gate Environment's dispatch, and
// ExecuteApply is the actual call into the evaluator.
type DefinedFunction interface {
	Name() clarity.ClarityName
	IsPublic() bool
	IsReadOnly() bool
	ExecuteApply(args []clarity.Value, env Environment, local *localctx.Context) (clarity.Value, error)
}

// Context is ContractContext: a contract's defined variables and defined
// functions, immutable once Environment.InitializeContract has populated it.
type Context struct {
	Name      clarity.ContractName
	Variables map[clarity.ClarityName]clarity.Value
	Functions map[clarity.ClarityName]DefinedFunction
}

// New constructs an empty, mutable-during-init ContractContext.
func New(name clarity.ContractName) *Context {
	return &Context{
		Name:      name,
		Variables: make(map[clarity.ClarityName]clarity.Value),
		Functions: make(map[clarity.ClarityName]DefinedFunction),
	}
}

// Transient returns a fresh ContractContext for the sentinel __transient
// contract, used for top-level read-only evaluation and for façades created
// before any user contract is loaded.
func Transient() *Context {
	return New(clarity.TransientName)
}

// LookupVariable returns the contract-level binding for name, if any.
func (c *Context) LookupVariable(name clarity.ClarityName) (clarity.Value, bool) {
	v, ok := c.Variables[name]
	return v, ok
}

// LookupFunction returns the defined function named name, if any.
func (c *Context) LookupFunction(name clarity.ClarityName) (DefinedFunction, bool) {
	f, ok := c.Functions[name]
	return f, ok
}

// DefineVariable installs a variable binding. Intended for use only during
// contract construction (Environment.InitializeContract), before the ContractContext is shared
// with any evaluation.
func (c *Context) DefineVariable(name clarity.ClarityName, value clarity.Value) {
	c.Variables[name] = value
}

// DefineFunction installs a function binding, same caveat as DefineVariable.
func (c *Context) DefineFunction(name clarity.ClarityName, fn DefinedFunction) {
	c.Functions[name] = fn
}

// StoredContract is the serialized/persisted form of a Context held by the
// database, keyed by contract name.
type StoredContract struct {
	Name    clarity.ContractName
	Source  string
	Context *Context
}
