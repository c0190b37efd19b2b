package clarity

import (
	"fmt"
	"math/big"
	"strings"
)

// ValueType discriminates the closed set of Value implementations.
type ValueType uint8

const (
	TypeInt ValueType = iota
	TypeBool
	TypePrincipal
	TypeResponse
	TypeNone
	TypeList
	TypeBuffer
)

// Value is the tagged sum over primitive values, principals, and the
// transactional Response variant. It is a closed interface: only the types
// defined in this file implement it.
type Value interface {
	Type() ValueType
	String() string
	value() // unexported marker, closes the interface to this package
}

// Int wraps a signed big integer (used for Clarity's 128-bit ints; Go has no
// native i128 so arithmetic is performed via math/big with explicit range
// checks, see assetledger for the overflow-checked token path).
type Int struct{ V *big.Int }

func NewInt(v int64) Int { return Int{V: big.NewInt(v)} }

func (Int) Type() ValueType { return TypeInt }
func (i Int) String() string {
	return i.V.String()
}
func (Int) value() {}

// Bool wraps a boolean.
type Bool bool

func (Bool) Type() ValueType { return TypeBool }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }
func (Bool) value() {}

// PrincipalValue wraps a Principal as a Value.
type PrincipalValue struct{ P Principal }

func (PrincipalValue) Type() ValueType { return TypePrincipal }
func (p PrincipalValue) String() string { return p.P.String() }
func (PrincipalValue) value() {}

// Buffer wraps an opaque byte string.
type Buffer struct{ B []byte }

func (Buffer) Type() ValueType { return TypeBuffer }
func (b Buffer) String() string { return fmt.Sprintf("0x%x", b.B) }
func (Buffer) value() {}

// None is Clarity's `none` optional value.
type None struct{}

func (None) Type() ValueType { return TypeNone }
func (None) String() string { return "none" }
func (None) value() {}

// List is an ordered, homogeneous-in-practice sequence of values. Its
// String form ("[a, b]") matches the NFT list rendering in AssetLedger's
// display form, though the ledger builds that text itself.
type List struct{ Items []Value }

func (List) Type() ValueType { return TypeList }
func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (List) value() {}

// Response is the tagged value a transaction-bodied function must return:
// Committed selects commit (true) vs roll_back (false) in
// GlobalContext.HandleTxResult, and Data carries the payload either way.
type Response struct {
	Committed bool
	Data      Value
}

func (Response) Type() ValueType { return TypeResponse }
func (r Response) String() string {
	tag := "err"
	if r.Committed {
		tag = "ok"
	}
	return tag + " " + r.Data.String()
}
func (Response) value() {}

// Ok builds a committed Response.
func Ok(data Value) Response { return Response{Committed: true, Data: data} }

// Err builds an aborting Response.
func Err(data Value) Response { return Response{Committed: false, Data: data} }
