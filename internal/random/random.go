// Package random provides random fixture generators for tests.
package random

import (
	"math/rand"
	"time"

	"github.com/clarity-vm/context/pkg/clarity"
)

var src = rand.New(rand.NewSource(time.Now().UnixNano()))

// Bytes returns a random byte slice of length n.
func Bytes(n int) []byte {
	b := make([]byte, n)
	src.Read(b)
	return b
}

// String returns a random lowercase ASCII string of length n.
func String(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[src.Intn(len(letters))]
	}
	return string(b)
}

// Principal returns a random account principal.
func Principal() clarity.Principal {
	return clarity.PrincipalFromSeed(Bytes(16))
}

// AssetIdentifier returns a random asset identifier.
func AssetIdentifier() clarity.AssetIdentifier {
	return clarity.NewAssetIdentifier(
		clarity.ContractName(String(8)),
		clarity.ClarityName(String(8)),
	)
}
