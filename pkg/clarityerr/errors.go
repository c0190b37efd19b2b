// Package clarityerr defines the error taxonomy shared by the execution
// context packages: recoverable sentinel errors checked with errors.Is, and
// a Fatal helper for invariant violations that must abort the process rather
// than bubble up as a Result.
package clarityerr

import "github.com/pkg/errors"

// Recoverable errors. These cross package boundaries as plain error values,
// optionally wrapped with errors.Wrap for added context, and are expected to
// be tested with errors.Is.
var (
	// ErrParse covers empty or malformed program text.
	ErrParse = errors.New("parse error")

	// ErrUndefinedFunction is returned when a transaction names a function
	// that the target contract does not define.
	ErrUndefinedFunction = errors.New("undefined function")

	// ErrNonPublicFunction is returned when a transaction targets a function
	// that exists but is not marked public.
	ErrNonPublicFunction = errors.New("function is not public")

	// ErrContractMustReturnBoolean is returned when a transaction's top-level
	// evaluation produces a value that is not a Response.
	ErrContractMustReturnBoolean = errors.New("contract must return a response value")

	// ErrArithmeticOverflow is returned by token arithmetic that would not
	// fit in the signed 128-bit range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrMaxContextDepthReached is returned by LocalContext.Extend once the
	// parent is already at the maximum lexical nesting depth.
	ErrMaxContextDepthReached = errors.New("max context depth reached")

	// ErrFailedToConstructAssetTable is returned when a top-level commit
	// unexpectedly fails to yield an AssetLedger.
	ErrFailedToConstructAssetTable = errors.New("failed to construct asset table")

	// ErrContractNotFound is returned by the database when a contract lookup
	// misses.
	ErrContractNotFound = errors.New("contract not found")

	// ErrKeyNotFound is returned by Store.Get for a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInterpreterInternal wraps argument-coercion and similar failures
	// that indicate a caller bug rather than a contract-level failure.
	ErrInterpreterInternal = errors.New("interpreter internal error")
)

// Fatal panics to signal an invariant violation: a bug in the caller, not a
// recoverable runtime or user condition. Per the propagation policy, these
// must never be wrapped in a Result and handed back to a caller.
func Fatal(msg string) {
	panic("clarity: invariant violation: " + msg)
}

// Fatalf is Fatal with formatting.
func Fatalf(format string, args ...interface{}) {
	panic("clarity: invariant violation: " + errors.Errorf(format, args...).Error())
}
