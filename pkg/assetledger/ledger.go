// Package assetledger implements the per-frame record of token amounts and
// NFT transfers produced during a transaction, with overflow-checked token
// arithmetic and all-or-nothing merge semantics.
package assetledger

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
)

// i128Min and i128Max bound the signed 128-bit range that token amounts may
// occupy. Go has no native i128, so amounts are carried as *big.Int and
// range-checked on every write.
var (
	i128Max = func() *big.Int {
		v := new(big.Int).Lsh(big.NewInt(1), 127)
		return v.Sub(v, big.NewInt(1))
	}()
	i128Min = func() *big.Int {
		v := new(big.Int).Lsh(big.NewInt(1), 127)
		return v.Neg(v)
	}()
)

func inRange(v *big.Int) bool {
	return v.Cmp(i128Min) >= 0 && v.Cmp(i128Max) <= 0
}

type assetAmounts map[clarity.AssetIdentifier]*big.Int
type assetTransfers map[clarity.AssetIdentifier][]clarity.Value

// Ledger is AssetLedger: two principal-keyed mappings tracking fungible
// token deltas and ordered NFT transfer lists for one transactional frame.
type Ledger struct {
	tokens map[clarity.Principal]assetAmounts
	assets map[clarity.Principal]assetTransfers
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		tokens: make(map[clarity.Principal]assetAmounts),
		assets: make(map[clarity.Principal]assetTransfers),
	}
}

// RecordNFTTransfer appends value to the ordered transfer list for
// (principal, asset), creating inner structures on demand. Infallible: total
// append order is always preserved.
func (l *Ledger) RecordNFTTransfer(principal clarity.Principal, asset clarity.AssetIdentifier, value clarity.Value) {
	byAsset, ok := l.assets[principal]
	if !ok {
		byAsset = make(assetTransfers)
		l.assets[principal] = byAsset
	}
	byAsset[asset] = append(byAsset[asset], value)
}

// RecordTokenTransfer adds amount (which must be non-negative — a negative
// amount is a programmer error, the only caller-validated precondition in
// this package) to the running total for (principal, asset). Fails with
// ErrArithmeticOverflow if the new total would leave the signed 128-bit
// range.
func (l *Ledger) RecordTokenTransfer(principal clarity.Principal, asset clarity.AssetIdentifier, amount *big.Int) error {
	if amount.Sign() < 0 {
		clarityerr.Fatalf("record_token_transfer: negative amount %s", amount.String())
	}
	current, ok := l.tokens[principal][asset]
	if !ok {
		current = big.NewInt(0)
	}
	next := new(big.Int).Add(current, amount)
	if !inRange(next) {
		return clarityerr.ErrArithmeticOverflow
	}
	byAsset, ok := l.tokens[principal]
	if !ok {
		byAsset = make(assetAmounts)
		l.tokens[principal] = byAsset
	}
	byAsset[asset] = next
	return nil
}

// MergeFrom folds other into l, all-or-nothing for the token portion: every
// proposed token write is computed and overflow-checked before any mutation
// happens, so a single overflowing entry leaves l entirely unchanged (and
// the infallible NFT appends are only applied once the fallible phase has
// fully succeeded).
func (l *Ledger) MergeFrom(other *Ledger) error {
	type write struct {
		principal clarity.Principal
		asset     clarity.AssetIdentifier
		value     *big.Int
	}
	var writes []write
	for principal, byAsset := range other.tokens {
		for asset, amount := range byAsset {
			current := big.NewInt(0)
			if m, ok := l.tokens[principal]; ok {
				if v, ok := m[asset]; ok {
					current = v
				}
			}
			next := new(big.Int).Add(current, amount)
			if !inRange(next) {
				return clarityerr.ErrArithmeticOverflow
			}
			writes = append(writes, write{principal, asset, next})
		}
	}

	// Phase 2: NFT appends, infallible, applied before the token writes only
	// because nothing here can fail — ordering between the two phases is
	// otherwise unobservable.
	for principal, byAsset := range other.assets {
		dst, ok := l.assets[principal]
		if !ok {
			dst = make(assetTransfers)
			l.assets[principal] = dst
		}
		for asset, values := range byAsset {
			dst[asset] = append(dst[asset], values...)
		}
	}

	// Phase 3: apply the proposed token writes now that nothing can fail.
	for _, w := range writes {
		byAsset, ok := l.tokens[w.principal]
		if !ok {
			byAsset = make(assetAmounts)
			l.tokens[w.principal] = byAsset
		}
		byAsset[w.asset] = w.value
	}
	return nil
}

// Entry is one row of Snapshot's unified table: either a Token(amount) or an
// Asset(values) record for a given (principal, asset) pair.
type Entry struct {
	Token  *big.Int
	Assets []clarity.Value
}

// Snapshot materializes both maps into a unified principal -> asset -> Entry
// table, for test assertions. Token and NFT records for the same
// (principal, asset) pair do not collide in practice (distinct asset
// identifiers), so the snapshot does not attempt to merge them.
func (l *Ledger) Snapshot() map[clarity.Principal]map[clarity.AssetIdentifier]Entry {
	out := make(map[clarity.Principal]map[clarity.AssetIdentifier]Entry)
	for principal, byAsset := range l.tokens {
		dst, ok := out[principal]
		if !ok {
			dst = make(map[clarity.AssetIdentifier]Entry)
			out[principal] = dst
		}
		for asset, amount := range byAsset {
			dst[asset] = Entry{Token: amount}
		}
	}
	for principal, byAsset := range l.assets {
		dst, ok := out[principal]
		if !ok {
			dst = make(map[clarity.AssetIdentifier]Entry)
			out[principal] = dst
		}
		for asset, values := range byAsset {
			dst[asset] = Entry{Assets: values}
		}
	}
	return out
}

// String renders the ledger as one line per token entry followed by one
// line per NFT entry, wrapped in brackets.
func (l *Ledger) String() string {
	var lines []string
	for _, principal := range sortedPrincipals(l.tokens) {
		byAsset := l.tokens[principal]
		for _, asset := range sortedAssets(byAsset) {
			lines = append(lines, fmt.Sprintf("%s spent %s %s", principal.String(), byAsset[asset].String(), asset.String()))
		}
	}
	for _, principal := range sortedPrincipalsT(l.assets) {
		byAsset := l.assets[principal]
		for _, asset := range sortedAssetsT(byAsset) {
			values := byAsset[asset]
			rendered := make([]string, len(values))
			for i, v := range values {
				rendered[i] = v.String()
			}
			lines = append(lines, fmt.Sprintf("%s transfered [%s] %s", principal.String(), strings.Join(rendered, ", "), asset.String()))
		}
	}
	return "[" + strings.Join(lines, "\n") + "]"
}

func sortedPrincipals(m map[clarity.Principal]assetAmounts) []clarity.Principal {
	out := make([]clarity.Principal, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func sortedPrincipalsT(m map[clarity.Principal]assetTransfers) []clarity.Principal {
	out := make([]clarity.Principal, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func sortedAssets(m assetAmounts) []clarity.AssetIdentifier {
	out := make([]clarity.AssetIdentifier, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func sortedAssetsT(m assetTransfers) []clarity.AssetIdentifier {
	out := make([]clarity.AssetIdentifier, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
