// Package clarity holds the opaque-ish domain value types shared across the
// execution context: principals, asset identifiers, validated names, and the
// tagged Value union that the evaluator collaborator produces and consumes.
package clarity

import "github.com/pkg/errors"

// MaxNameLength bounds ClarityName and ContractName.
const MaxNameLength = 128

// ClarityName is a validated identifier used for variables, functions, and
// map/asset names throughout a contract.
type ClarityName string

// NewClarityName validates and constructs a ClarityName.
func NewClarityName(s string) (ClarityName, error) {
	if s == "" {
		return "", errors.New("clarity name must not be empty")
	}
	if len(s) > MaxNameLength {
		return "", errors.Errorf("clarity name exceeds %d bytes", MaxNameLength)
	}
	return ClarityName(s), nil
}

// ContractName identifies a contract within the database.
type ContractName string

// NewContractName validates and constructs a ContractName.
func NewContractName(s string) (ContractName, error) {
	if s == "" {
		return "", errors.New("contract name must not be empty")
	}
	if len(s) > MaxNameLength {
		return "", errors.Errorf("contract name exceeds %d bytes", MaxNameLength)
	}
	return ContractName(s), nil
}

// TransientName is the sentinel contract name used for top-level read-only
// evaluation and for environments created before any user contract is
// loaded. The literal satisfies NewContractName's validation, so unlike
// user-supplied names it needs no fallible construction path.
const TransientName ContractName = "__transient"

// FunctionIdentifier names one callable function for CallStack tracking
// purposes; it is qualified by contract so that same-named functions in two
// different contracts cannot be confused by the recursion guard.
type FunctionIdentifier struct {
	Contract ContractName
	Function ClarityName
}

// NewFunctionIdentifier builds a FunctionIdentifier.
func NewFunctionIdentifier(contract ContractName, fn ClarityName) FunctionIdentifier {
	return FunctionIdentifier{Contract: contract, Function: fn}
}

// String renders a FunctionIdentifier for diagnostics.
func (f FunctionIdentifier) String() string {
	return string(f.Contract) + "::" + string(f.Function)
}

// AssetIdentifier is the pair (contract_name, asset_name) identifying one
// fungible or non-fungible asset type. It is a comparable struct so it can
// be used directly as a Go map key.
type AssetIdentifier struct {
	ContractName ContractName
	AssetName    ClarityName
}

// NewAssetIdentifier builds an AssetIdentifier.
func NewAssetIdentifier(contract ContractName, asset ClarityName) AssetIdentifier {
	return AssetIdentifier{ContractName: contract, AssetName: asset}
}

// String renders an AssetIdentifier for diagnostics and the AssetLedger
// display form.
func (a AssetIdentifier) String() string {
	return string(a.ContractName) + "." + string(a.AssetName)
}
