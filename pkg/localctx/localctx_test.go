package localctx

import (
	"testing"

	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/stretchr/testify/require"
)

func TestLookupVariableNearestAncestor(t *testing.T) {
	root := New()
	root.SetVariable("x", clarity.NewInt(1))

	child, err := root.Extend()
	require.NoError(t, err)
	child.SetVariable("x", clarity.NewInt(2))

	grandchild, err := child.Extend()
	require.NoError(t, err)

	v, ok := grandchild.LookupVariable("x")
	require.True(t, ok)
	require.Equal(t, clarity.NewInt(2), v)

	v, ok = child.LookupVariable("y")
	require.False(t, ok)
	require.Nil(t, v)
}

func TestRootFrameHasNoParentAndZeroDepth(t *testing.T) {
	root := New()
	require.Equal(t, uint16(0), root.Depth())
}

// Chaining Extend() 256 times from a root frame succeeds; the 257th call
// fails with ErrMaxContextDepthReached.
func TestLocalContextDepthLimit(t *testing.T) {
	ctx := New()
	for i := 0; i < MaxContextDepth; i++ {
		var err error
		ctx, err = ctx.Extend()
		require.NoError(t, err)
	}
	require.Equal(t, uint16(MaxContextDepth), ctx.Depth())

	_, err := ctx.Extend()
	require.ErrorIs(t, err, clarityerr.ErrMaxContextDepthReached)
}
