// Package environment implements Environment and OwnedEnvironment: the
// short-lived per-invocation façade over the shared execution state, and
// the outer owner that holds that state across a transaction-processing
// session and hands the façades out.
package environment

import (
	"go.uber.org/zap"

	"github.com/clarity-vm/context/pkg/callstack"
	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/clarity-vm/context/pkg/contractctx"
	"github.com/clarity-vm/context/pkg/globalctx"
	"github.com/clarity-vm/context/pkg/lang"
	"github.com/clarity-vm/context/pkg/localctx"
)

// Environment is the transient façade bundling a mutable GlobalContext, a
// ContractContext, a mutable CallStack, and the current sender/caller
// identities. sender and caller are pointers so that "absent" is
// representable; a present identity is necessarily a Principal, so there
// is nothing to validate at construction time.
type Environment struct {
	global   *globalctx.Context
	contract *contractctx.Context
	calls    *callstack.Stack
	sender   *clarity.Principal
	caller   *clarity.Principal
	logger   *zap.SugaredLogger
}

var _ lang.EvalEnv = (*Environment)(nil)
var _ contractctx.Environment = (*Environment)(nil)

// newEnvironment builds a façade over the given shared state. Façades are
// only ever created by an OwnedEnvironment or by nesting an existing
// façade, so the constructor stays unexported.
func newEnvironment(global *globalctx.Context, contract *contractctx.Context, calls *callstack.Stack, sender, caller *clarity.Principal, logger *zap.SugaredLogger) *Environment {
	return &Environment{global: global, contract: contract, calls: calls, sender: sender, caller: caller, logger: logger}
}

// ContractContext satisfies lang.EvalEnv.
func (e *Environment) ContractContext() *contractctx.Context { return e.contract }

// Global satisfies lang.EvalEnv.
func (e *Environment) Global() *globalctx.Context { return e.global }

// CallStack satisfies lang.EvalEnv.
func (e *Environment) CallStack() *callstack.Stack { return e.calls }

// Sender returns the zero Principal if no sender is bound.
func (e *Environment) Sender() clarity.Principal {
	if e.sender == nil {
		return clarity.Principal{}
	}
	return *e.sender
}

// Caller returns the zero Principal if no caller is bound.
func (e *Environment) Caller() clarity.Principal {
	if e.caller == nil {
		return clarity.Principal{}
	}
	return *e.caller
}

// IsReadOnly reflects the current GlobalContext frame's writability.
func (e *Environment) IsReadOnly() bool {
	return e.global.IsReadOnly()
}

// NestAsPrincipal produces a short-lived façade sharing the same global
// context, contract context, and call stack, with both sender and caller
// replaced by newSender.
func (e *Environment) NestAsPrincipal(newSender clarity.Principal) *Environment {
	return newEnvironment(e.global, e.contract, e.calls, &newSender, &newSender, e.logger)
}

// NestWithCaller produces a short-lived façade identical to e except caller
// is replaced by newCaller; sender is unchanged.
func (e *Environment) NestWithCaller(newCaller clarity.Principal) *Environment {
	return newEnvironment(e.global, e.contract, e.calls, e.sender, &newCaller, e.logger)
}

func (e *Environment) withContract(contract *contractctx.Context) *Environment {
	if contract == nil {
		contract = e.contract
	}
	return newEnvironment(e.global, contract, e.calls, e.sender, e.caller, e.logger)
}

// EvalRaw parses program_text and evaluates its first top-level form
// against a fresh root LocalContext, with no transactional framing at all.
func (e *Environment) EvalRaw(programText string) (clarity.Value, error) {
	forms, err := lang.Parse(programText)
	if err != nil {
		return nil, err
	}
	return lang.Eval(forms[0], e, localctx.New())
}

// EvalReadOnly loads contractName and evaluates programText's first
// top-level form against it, unconditionally rolling back the database
// frame it opens — read-only queries never persist.
//
// Note: this calls global.Begin() rather than global.BeginReadOnly(), so
// the new frame inherits the parent frame's writability instead of being
// forced read-only. A built-in that only checks IsReadOnly() (like
// set-var!) is therefore not blocked here when the outer frame is
// writable; the unconditional RollBack at the end is what guarantees
// nothing persists.
func (e *Environment) EvalReadOnly(contractName clarity.ContractName, programText string) (clarity.Value, error) {
	forms, err := lang.Parse(programText)
	if err != nil {
		return nil, err
	}

	e.global.Begin()
	stored, err := e.global.Database.GetContract(contractName)
	if err != nil {
		e.global.RollBack()
		return nil, err
	}

	nested := e.withContract(stored.Context)
	result, evalErr := lang.Eval(forms[0], nested, localctx.New())

	e.global.RollBack()
	return result, evalErr
}

// ExecuteContract loads contractName, looks up txName, validates it exists
// and is public, coerces args as literal value-forms, and delegates to
// ExecuteFunctionAsTransaction.
func (e *Environment) ExecuteContract(contractName clarity.ContractName, txName clarity.ClarityName, argExprs []lang.Expr) (clarity.Value, error) {
	stored, err := e.global.Database.GetContract(contractName)
	if err != nil {
		return nil, err
	}
	fn, ok := stored.Context.LookupFunction(txName)
	if !ok {
		return nil, clarityerr.ErrUndefinedFunction
	}
	if !fn.IsPublic() {
		return nil, clarityerr.ErrNonPublicFunction
	}
	args, err := lang.LiteralArgs(argExprs)
	if err != nil {
		return nil, err
	}
	return e.ExecuteFunctionAsTransaction(fn, args, stored.Context)
}

// ExecuteFunctionAsTransaction opens the appropriate frame (read-only or
// writable, depending on the function), applies it in a façade bound to
// nextContractCtx (falling back to e's own contract context), and either
// unconditionally rolls back (read-only) or dispatches to
// GlobalContext.HandleTxResult (writable).
func (e *Environment) ExecuteFunctionAsTransaction(fn contractctx.DefinedFunction, args []clarity.Value, nextContractCtx *contractctx.Context) (clarity.Value, error) {
	readOnly := fn.IsReadOnly()
	if readOnly {
		e.global.BeginReadOnly()
	} else {
		e.global.Begin()
	}

	nested := e.withContract(nextContractCtx)
	result, err := fn.ExecuteApply(args, nested, localctx.New())

	if readOnly {
		e.global.RollBack()
		return result, err
	}
	return e.global.HandleTxResult(result, err)
}

// InitializeContract constructs a ContractContext for name by evaluating
// every top-level form in sourceText against a fresh contract context
// (this is Contract::initialize's collaborator role, performed inline
// rather than via a separate Contract type since lang.Eval's special forms
// already mutate a *contractctx.Context directly). On success the built
// contract is inserted into the database and the frame is committed; on
// any error the frame is rolled back and the error surfaces.
func (e *Environment) InitializeContract(name clarity.ContractName, sourceText string) (*contractctx.Context, error) {
	forms, err := lang.Parse(sourceText)
	if err != nil {
		return nil, err
	}

	e.global.Begin()
	fresh := contractctx.New(name)
	nested := e.withContract(fresh)
	root := localctx.New()
	for _, form := range forms {
		if _, err := lang.Eval(form, nested, root); err != nil {
			e.global.RollBack()
			return nil, err
		}
	}

	if err := e.global.Database.InsertContract(name, &contractctx.StoredContract{
		Name:    name,
		Source:  sourceText,
		Context: fresh,
	}); err != nil {
		e.global.RollBack()
		return nil, err
	}
	if _, err := e.global.Commit(); err != nil {
		return nil, err
	}
	return fresh, nil
}
