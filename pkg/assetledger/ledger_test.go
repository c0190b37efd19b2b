package assetledger

import (
	"math/big"
	"strings"
	"testing"

	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/stretchr/testify/require"
)

func principal(seed byte) clarity.Principal {
	return clarity.PrincipalFromSeed([]byte{seed})
}

func asset(name string) clarity.AssetIdentifier {
	return clarity.NewAssetIdentifier("tokens", clarity.ClarityName(name))
}

func TestRecordTokenTransferRejectsNegative(t *testing.T) {
	l := New()
	require.Panics(t, func() {
		_ = l.RecordTokenTransfer(principal(1), asset("t1"), big.NewInt(-1))
	})
}

func TestRecordTokenTransferOverflow(t *testing.T) {
	l := New()
	p := principal(1)
	a := asset("t1")
	require.NoError(t, l.RecordTokenTransfer(p, a, i128Max))
	err := l.RecordTokenTransfer(p, a, big.NewInt(1))
	require.ErrorIs(t, err, clarityerr.ErrArithmeticOverflow)
}

func TestRecordNFTTransferOrderPreserved(t *testing.T) {
	l := New()
	p := principal(1)
	a := asset("nft")
	l.RecordNFTTransfer(p, a, clarity.NewInt(1))
	l.RecordNFTTransfer(p, a, clarity.NewInt(2))
	l.RecordNFTTransfer(p, a, clarity.NewInt(3))
	entry := l.Snapshot()[p][a]
	require.Equal(t, []clarity.Value{clarity.NewInt(1), clarity.NewInt(2), clarity.NewInt(3)}, entry.Assets)
}

// A single overflowing entry must abandon the whole merge: with
// am1 = { p1->t1: 1, p2->t1: I128_MAX } and am2 = { p1->t1: 1, p2->t1: 1 },
// MergeFrom fails with ArithmeticOverflow and leaves am1 untouched — even
// the p1 entry that would have merged cleanly.
func TestTokenMergeOverflowRollsBackCompletely(t *testing.T) {
	p1, p2 := principal(1), principal(2)
	t1 := asset("t1")

	am1 := New()
	require.NoError(t, am1.RecordTokenTransfer(p1, t1, big.NewInt(1)))
	require.NoError(t, am1.RecordTokenTransfer(p2, t1, i128Max))

	am2 := New()
	require.NoError(t, am2.RecordTokenTransfer(p1, t1, big.NewInt(1)))
	require.NoError(t, am2.RecordTokenTransfer(p2, t1, big.NewInt(1)))

	err := am1.MergeFrom(am2)
	require.ErrorIs(t, err, clarityerr.ErrArithmeticOverflow)

	snap := am1.Snapshot()
	require.Equal(t, big.NewInt(1), snap[p1][t1].Token)
	require.Equal(t, i128Max, snap[p2][t1].Token)
}

// Tokens sum per (principal, asset); NFT transfer lists concatenate with
// the destination's entries first.
func TestFullMergeCombiningTokensAndNFTs(t *testing.T) {
	p1, p2, p3 := principal(1), principal(2), principal(3)
	t1, t2, t3, t4, t5 := asset("t1"), asset("t2"), asset("t3"), asset("t4"), asset("t5")

	self := New()
	require.NoError(t, self.RecordTokenTransfer(p1, t1, big.NewInt(10)))
	require.NoError(t, self.RecordTokenTransfer(p2, t2, big.NewInt(5)))
	self.RecordNFTTransfer(p1, t3, clarity.NewInt(1))
	self.RecordNFTTransfer(p1, t5, clarity.NewInt(0))

	other := New()
	require.NoError(t, other.RecordTokenTransfer(p1, t1, big.NewInt(15)))
	require.NoError(t, other.RecordTokenTransfer(p1, t4, big.NewInt(1)))
	require.NoError(t, other.RecordTokenTransfer(p2, t2, big.NewInt(6)))
	other.RecordNFTTransfer(p2, t3, clarity.NewInt(2))
	other.RecordNFTTransfer(p2, t3, clarity.NewInt(5))
	other.RecordNFTTransfer(p2, t3, clarity.NewInt(3))
	other.RecordNFTTransfer(p2, t3, clarity.NewInt(4))
	other.RecordNFTTransfer(p1, t3, clarity.NewInt(0))
	other.RecordNFTTransfer(p3, t3, clarity.NewInt(10))

	require.NoError(t, self.MergeFrom(other))

	snap := self.Snapshot()
	require.Equal(t, big.NewInt(25), snap[p1][t1].Token)
	require.Equal(t, big.NewInt(1), snap[p1][t4].Token)
	require.Equal(t, big.NewInt(11), snap[p2][t2].Token)
	require.Equal(t, []clarity.Value{clarity.NewInt(2), clarity.NewInt(5), clarity.NewInt(3), clarity.NewInt(4)}, snap[p2][t3].Assets)
	require.Equal(t, []clarity.Value{clarity.NewInt(1), clarity.NewInt(0)}, snap[p1][t3].Assets)
	require.Equal(t, []clarity.Value{clarity.NewInt(0)}, snap[p1][t5].Assets)
	require.Equal(t, []clarity.Value{clarity.NewInt(10)}, snap[p3][t3].Assets)
}

func TestStringRendersTokensThenAssets(t *testing.T) {
	l := New()
	p := principal(1)
	require.NoError(t, l.RecordTokenTransfer(p, asset("gold"), big.NewInt(12)))
	l.RecordNFTTransfer(p, asset("deeds"), clarity.NewInt(7))

	out := l.String()
	require.True(t, strings.HasPrefix(out, "[") && strings.HasSuffix(out, "]"))
	require.Contains(t, out, p.String()+" spent 12 tokens.gold")
	require.Contains(t, out, p.String()+" transfered [7] tokens.deeds")
}

func TestMergeFromAssociativeTokens(t *testing.T) {
	p := principal(9)
	a := asset("tx")

	self := New()
	require.NoError(t, self.RecordTokenTransfer(p, a, big.NewInt(3)))
	other := New()
	require.NoError(t, other.RecordTokenTransfer(p, a, big.NewInt(4)))

	require.NoError(t, self.MergeFrom(other))
	require.Equal(t, big.NewInt(7), self.Snapshot()[p][a].Token)
}
