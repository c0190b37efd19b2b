package environment

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clarity-vm/context/pkg/assetledger"
	"github.com/clarity-vm/context/pkg/callstack"
	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/clarity-vm/context/pkg/claritydb"
	"github.com/clarity-vm/context/pkg/contractctx"
	"github.com/clarity-vm/context/pkg/globalctx"
	"github.com/clarity-vm/context/pkg/lang"
	"github.com/clarity-vm/context/pkg/store"
)

// OwnedEnvironment is the outer, longer-lived owner of the execution state:
// it holds the GlobalContext, a default (transient) ContractContext, and a
// single CallStack shared across every Environment it hands out, so that
// recursion guards survive across nested invocations of the same top-level
// transaction.
type OwnedEnvironment struct {
	Global    *globalctx.Context
	transient *contractctx.Context
	calls     *callstack.Stack
	logger    *zap.SugaredLogger
}

// New builds an OwnedEnvironment over the given persistent Store.
func New(s store.Store, logger *zap.SugaredLogger) *OwnedEnvironment {
	db := claritydb.New(s, logger)
	return &OwnedEnvironment{
		Global:    globalctx.New(db, logger),
		transient: contractctx.Transient(),
		calls:     callstack.New(),
		logger:    logger,
	}
}

// Memory builds an OwnedEnvironment over a fresh in-memory database, the
// shorthand used pervasively by tests.
func Memory() *OwnedEnvironment {
	return &OwnedEnvironment{
		Global:    globalctx.New(claritydb.MemoryDB(), nil),
		transient: contractctx.Transient(),
		calls:     callstack.New(),
	}
}

// GetExecEnvironment returns a façade bound to this owner's GlobalContext,
// transient ContractContext, and shared CallStack, with both sender and
// caller set to sender.
func (o *OwnedEnvironment) GetExecEnvironment(sender clarity.Principal) *Environment {
	return newEnvironment(o.Global, o.transient, o.calls, &sender, &sender, o.logger)
}

// Begin opens a frame on the owned GlobalContext, for callers driving the
// transactional bracket by hand rather than through ExecuteTransaction.
func (o *OwnedEnvironment) Begin() {
	o.Global.Begin()
}

// Commit closes the innermost frame on the owned GlobalContext; at the
// outermost frame it returns the transaction's asset ledger.
func (o *OwnedEnvironment) Commit() (*assetledger.Ledger, error) {
	return o.Global.Commit()
}

// InitializeContract delegates to a façade with no sender bound — contract
// deployment in this model is not itself a principal-attributed action.
func (o *OwnedEnvironment) InitializeContract(name clarity.ContractName, sourceText string) (*contractctx.Context, error) {
	env := newEnvironment(o.Global, o.transient, o.calls, nil, nil, o.logger)
	return env.InitializeContract(name, sourceText)
}

// ExecuteTransaction is the top-level transaction driver: it asserts no
// frame is already open, wraps ExecuteContract in its own begin/commit
// bracket, and requires the resulting commit to yield an AssetLedger — a
// nil ledger here means Commit's merge-into-parent branch fired instead of
// its top-level branch, which would mean ExecuteContract left the global
// context at the wrong depth, a condition this treats as
// FailedToConstructAssetTable rather than an interpreter panic, since it
// reflects a malformed transaction rather than a broken invariant.
func (o *OwnedEnvironment) ExecuteTransaction(sender clarity.Principal, contractName clarity.ContractName, txName clarity.ClarityName, argExprs []lang.Expr) (clarity.Value, *assetledger.Ledger, error) {
	if !o.Global.IsTopLevel() {
		clarityerr.Fatal("environment: execute_transaction called while a frame is already open")
	}

	sessionID := uuid.New()
	if o.logger != nil {
		o.logger.Debugw("environment: execute_transaction", "session", sessionID, "contract", contractName, "function", txName)
	}

	o.Global.Begin()
	env := o.GetExecEnvironment(sender)
	val, err := env.ExecuteContract(contractName, txName, argExprs)
	if err != nil {
		o.Global.RollBack()
		return nil, nil, err
	}

	ledger, err := o.Global.Commit()
	if err != nil {
		return nil, nil, err
	}
	if ledger == nil {
		return nil, nil, clarityerr.ErrFailedToConstructAssetTable
	}
	return val, ledger, nil
}
