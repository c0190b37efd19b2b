package clarity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// PrincipalKind discriminates the two forms a principal can take.
type PrincipalKind uint8

const (
	// StandardPrincipal addresses an external account by hash.
	StandardPrincipal PrincipalKind = iota
	// ContractPrincipal addresses a contract by its issuing account plus
	// contract name.
	ContractPrincipal
)

// Principal is the identity of an account or a contract. It is a small,
// comparable value type (fixed-size hash plus an optional contract-name
// suffix) so it is usable directly as a Go map key.
type Principal struct {
	Kind     PrincipalKind
	Hash     [20]byte
	Contract ClarityName // only meaningful when Kind == ContractPrincipal
}

// NewStandardPrincipal builds an account principal from a 20-byte hash.
func NewStandardPrincipal(hash [20]byte) Principal {
	return Principal{Kind: StandardPrincipal, Hash: hash}
}

// NewContractPrincipal builds a contract principal.
func NewContractPrincipal(issuer [20]byte, name ClarityName) Principal {
	return Principal{Kind: ContractPrincipal, Hash: issuer, Contract: name}
}

// PrincipalFromSeed derives a deterministic standard principal from an
// arbitrary byte seed; used by tests and by internal/random. The lang
// package's principal literals (`'SP<hex>`) go through ParsePrincipal.
func PrincipalFromSeed(seed []byte) Principal {
	sum := sha256.Sum256(seed)
	var h [20]byte
	copy(h[:], sum[:20])
	return NewStandardPrincipal(h)
}

// Equals reports whether two principals denote the same identity.
func (p Principal) Equals(other Principal) bool {
	return p == other
}

// String renders a principal for diagnostics and the AssetLedger display
// form: "SP<hex>" for accounts, "SP<hex>.<contract>" for contracts.
func (p Principal) String() string {
	s := "SP" + hex.EncodeToString(p.Hash[:])
	if p.Kind == ContractPrincipal {
		s += "." + string(p.Contract)
	}
	return s
}

// ParsePrincipal is a best-effort reverse of String, used by the lang
// package to read principal literals back out of source text.
func ParsePrincipal(s string) (Principal, error) {
	if len(s) < 2 || s[:2] != "SP" {
		return Principal{}, errors.Errorf("not a principal literal: %q", s)
	}
	rest := s[2:]
	var hexPart, contractPart string
	if idx := strings.IndexByte(rest, '.'); idx >= 0 {
		hexPart, contractPart = rest[:idx], rest[idx+1:]
	} else {
		hexPart = rest
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil || len(raw) != 20 {
		return Principal{}, errors.Errorf("invalid principal hash in %q", s)
	}
	var h [20]byte
	copy(h[:], raw)
	if contractPart == "" {
		return NewStandardPrincipal(h), nil
	}
	name, err := NewClarityName(contractPart)
	if err != nil {
		return Principal{}, err
	}
	return NewContractPrincipal(h, name), nil
}
