package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/passes"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

func TestDeadNodeEliminationRemovesUnreferencedNode(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	live, err := root.CreateNode(op.NewConstant(bit32(), 1), nil)
	require.NoError(t, err)
	_, err = root.AddResult(live.Output(0), bit32(), "out")
	require.NoError(t, err)

	dead, err := root.CreateNode(op.NewConstant(bit32(), 2), nil)
	require.NoError(t, err)

	removed := passes.DeadNodeElimination(root)
	assert.Equal(t, 1, removed)

	found := false
	for _, n := range root.Nodes() {
		if n == dead {
			found = true
		}
	}
	assert.False(t, found, "unreferenced constant should have been pruned")
	require.Len(t, root.Nodes(), 1)
	assert.Equal(t, live, root.Nodes()[0])
}

func TestDeadNodeEliminationRecursesIntoSubregions(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	ctl2 := types.NewControlType(2)

	pred, err := root.CreateNode(op.NewConstant(ctl2, 1), nil)
	require.NoError(t, err)
	gamma, err := nodes.NewGamma(root, pred.Output(0), 2)
	require.NoError(t, err)

	live0, err := gamma.Subregions()[0].CreateNode(op.NewConstant(bit32(), 0), nil)
	require.NoError(t, err)
	live1, err := gamma.Subregions()[1].CreateNode(op.NewConstant(bit32(), 1), nil)
	require.NoError(t, err)
	_, err = gamma.AddExitVar([]rvsdg.Origin{live0.Output(0), live1.Output(0)})
	require.NoError(t, err)

	// dead nodes inside each subregion with no user at all.
	_, err = gamma.Subregions()[0].CreateNode(op.NewConstant(bit32(), 99), nil)
	require.NoError(t, err)
	_, err = gamma.Subregions()[1].CreateNode(op.NewConstant(bit32(), 98), nil)
	require.NoError(t, err)

	_, err = root.AddResult(gamma.Output(0), bit32(), "out")
	require.NoError(t, err)

	removed := passes.DeadNodeElimination(root)
	assert.Equal(t, 2, removed)
	assert.Len(t, gamma.Subregions()[0].Nodes(), 1)
	assert.Len(t, gamma.Subregions()[1].Nodes(), 1)
}

func TestDeadNodeEliminationIsIdempotent(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	_, err := root.CreateNode(op.NewConstant(bit32(), 7), nil)
	require.NoError(t, err)

	first := passes.DeadNodeElimination(root)
	assert.Equal(t, 1, first)
	second := passes.DeadNodeElimination(root)
	assert.Equal(t, 0, second)
}
