package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

func TestLoopAddLoopVarBuildsEntryMux(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	bit32 := types.NewBitType(32)

	zero, err := root.CreateNode(op.NewConstant(bit32, 0), nil)
	require.NoError(t, err)

	loop, err := nodes.NewLoop(root)
	require.NoError(t, err)
	mux, _, post, out, err := loop.AddLoopVar(zero.Output(0))
	require.NoError(t, err)
	require.NotNil(t, mux)

	selectOp, ok := mux.Operation().(*op.SelectOp)
	require.True(t, ok)
	assert.Equal(t, 2, selectOp.NumAlternatives)
	assert.True(t, selectOp.ValueType.Equal(bit32))

	// close out the loop: body increments the entry mux's own output and
	// predicate is a simple equality test against a bound, to keep the graph
	// well-formed.
	one, err := loop.Subregion().CreateNode(op.NewConstant(bit32, 1), nil)
	require.NoError(t, err)
	add, err := loop.Subregion().CreateNode(op.NewBinaryArith(op.Add, bit32), []rvsdg.Origin{mux.Output(0), one.Output(0)})
	require.NoError(t, err)
	require.NoError(t, loop.SetPostResult(post, add.Output(0)))

	bound, err := loop.Subregion().CreateNode(op.NewConstant(bit32, 4), nil)
	require.NoError(t, err)
	eq, err := loop.Subregion().CreateNode(op.NewBinaryArith(op.Eq, bit32), []rvsdg.Origin{add.Output(0), bound.Output(0)})
	require.NoError(t, err)
	_, err = loop.SetPredicate(eq.Output(0))
	require.NoError(t, err)

	exit := loop.ExitValue(out.Index())
	assert.Equal(t, out, exit)
}
