// Package globalctx implements the transactional spine of the execution
// context: a stack of asset ledgers and read-only flags kept in lockstep
// with the underlying database's own nested begin/commit/roll_back, so
// that asset movements and persistent writes always commit or roll back
// together.
package globalctx

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/clarity-vm/context/pkg/assetledger"
	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/claritydb"
	"github.com/clarity-vm/context/pkg/clarityerr"
)

// Context is GlobalContext.
type Context struct {
	Database  *claritydb.Database
	assetMaps []*assetledger.Ledger
	readOnly  []bool
	logger    *zap.SugaredLogger
}

// New builds a GlobalContext over db.
func New(db *claritydb.Database, logger *zap.SugaredLogger) *Context {
	return &Context{Database: db, logger: logger}
}

func (g *Context) logf(format string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debugf(format, args...)
	}
}

// IsTopLevel holds iff no frame is open.
func (g *Context) IsTopLevel() bool {
	return len(g.assetMaps) == 0
}

// IsReadOnly reports the current frame's writability, or false at top
// level (top level defaults to writable).
func (g *Context) IsReadOnly() bool {
	if len(g.readOnly) == 0 {
		return false
	}
	return g.readOnly[len(g.readOnly)-1]
}

func (g *Context) pushFrame(readOnly bool) {
	g.assetMaps = append(g.assetMaps, assetledger.New())
	g.readOnly = append(g.readOnly, readOnly)
	g.Database.Begin()
}

// Begin opens a fresh frame that inherits the parent frame's writability
// (false — writable — if the stack was empty, i.e. at top level).
func (g *Context) Begin() {
	g.pushFrame(g.IsReadOnly())
	g.logf("global: begin (inherited), depth=%d", len(g.assetMaps))
}

// BeginReadOnly opens a fresh frame that is read-only regardless of the
// parent's writability; every frame nested inside it is read-only too,
// since IsReadOnly/Begin both read the top of the stack.
func (g *Context) BeginReadOnly() {
	g.pushFrame(true)
	g.logf("global: begin_read_only, depth=%d", len(g.assetMaps))
}

// Commit closes the innermost frame. If a parent frame remains, the popped
// ledger is merged into it (a merge failure rolls back the database and
// propagates the error, discarding the popped ledger). If this was the
// outermost frame, no merge happens and the popped ledger is returned so
// the caller can inspect transaction-level asset movements.
func (g *Context) Commit() (*assetledger.Ledger, error) {
	if len(g.assetMaps) == 0 {
		clarityerr.Fatal("globalctx: commit with no open frame")
	}
	popped := g.assetMaps[len(g.assetMaps)-1]
	g.assetMaps = g.assetMaps[:len(g.assetMaps)-1]
	g.readOnly = g.readOnly[:len(g.readOnly)-1]

	if len(g.assetMaps) > 0 {
		parent := g.assetMaps[len(g.assetMaps)-1]
		if err := parent.MergeFrom(popped); err != nil {
			g.Database.RollBack()
			return nil, err
		}
		if err := g.Database.Commit(); err != nil {
			return nil, err
		}
		g.logf("global: commit (merged into parent), depth=%d", len(g.assetMaps))
		return nil, nil
	}

	if err := g.Database.Commit(); err != nil {
		return nil, err
	}
	g.logf("global: commit (top level)")
	return popped, nil
}

// RollBack discards the innermost frame's ledger and read-only flag, and
// rolls back the paired database frame. Infallible.
func (g *Context) RollBack() {
	if len(g.assetMaps) == 0 {
		clarityerr.Fatal("globalctx: roll_back with no open frame")
	}
	g.assetMaps = g.assetMaps[:len(g.assetMaps)-1]
	g.readOnly = g.readOnly[:len(g.readOnly)-1]
	g.Database.RollBack()
	g.logf("global: roll_back, depth=%d", len(g.assetMaps))
}

// HandleTxResult is the transaction-conclusion protocol: result must be a
// Response, whose Committed flag selects Commit vs RollBack. Any other
// value, or an error already in hand, rolls back and fails.
func (g *Context) HandleTxResult(result clarity.Value, evalErr error) (clarity.Value, error) {
	if evalErr != nil {
		g.RollBack()
		return nil, evalErr
	}
	resp, ok := result.(clarity.Response)
	if !ok {
		g.RollBack()
		return nil, clarityerr.ErrContractMustReturnBoolean
	}
	if resp.Committed {
		if _, err := g.Commit(); err != nil {
			return nil, err
		}
		return resp, nil
	}
	g.RollBack()
	return resp, nil
}

// LogTokenTransfer delegates to the current frame's AssetLedger. Calling
// this with no open frame is a fatal invariant violation.
func (g *Context) LogTokenTransfer(principal clarity.Principal, asset clarity.AssetIdentifier, amount *big.Int) error {
	if len(g.assetMaps) == 0 {
		clarityerr.Fatal("globalctx: log_token_transfer with no open frame")
	}
	return g.assetMaps[len(g.assetMaps)-1].RecordTokenTransfer(principal, asset, amount)
}

// LogNFTTransfer delegates to the current frame's AssetLedger. Calling this
// with no open frame is a fatal invariant violation.
func (g *Context) LogNFTTransfer(principal clarity.Principal, asset clarity.AssetIdentifier, value clarity.Value) {
	if len(g.assetMaps) == 0 {
		clarityerr.Fatal("globalctx: log_nft_transfer with no open frame")
	}
	g.assetMaps[len(g.assetMaps)-1].RecordNFTTransfer(principal, asset, value)
}

// Execute is the begin/run/commit-or-rollback bracket: it opens a frame,
// runs f, and commits on success or rolls back and propagates f's error.
func (g *Context) Execute(f func(*Context) (clarity.Value, error)) (clarity.Value, error) {
	g.Begin()
	v, err := f(g)
	if err != nil {
		g.RollBack()
		return nil, err
	}
	if _, err := g.Commit(); err != nil {
		return nil, err
	}
	return v, nil
}

// Depth reports the number of open frames, for diagnostics and tests.
func (g *Context) Depth() int {
	return len(g.assetMaps)
}
