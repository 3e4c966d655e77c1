package modref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/modref"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/pointsto"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

func TestAgnosticSummarizerCollectsEveryMemoryNode(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	alloca, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)
	size, err := root.CreateNode(op.NewConstant(types.NewBitType(64), 8), nil)
	require.NoError(t, err)
	_, err = root.CreateNode(&op.MallocOp{}, []rvsdg.Origin{size.Output(0)})
	require.NoError(t, err)

	pr := pointsto.Run(g)
	s := modref.NewAgnosticSummarizer(g, pr)

	nodes := s.GetLambdaEntryNodes(nil)
	require.NotEmpty(t, nodes)
	var kinds []pointsto.Kind
	for _, n := range nodes {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, pointsto.KindAlloca)

	// every query method reports the same full set (the "agnostic" part).
	assert.Equal(t, nodes, s.GetLambdaExitNodes(nil))
	assert.Equal(t, nodes, s.GetCallEntryNodes(nil))
	assert.Equal(t, nodes, s.GetCallExitNodes(nil))
	assert.Equal(t, nodes, s.GetGammaEntryNodes(nil))
	assert.Equal(t, nodes, s.GetGammaExitNodes(nil))
	assert.Equal(t, nodes, s.GetThetaEntryExitNodes(nil))
	assert.Equal(t, nodes, s.GetOutputNodes(alloca.Output(0)))
}

func TestAgnosticSummarizerEmptyGraph(t *testing.T) {
	g := rvsdg.NewGraph()
	pr := pointsto.Run(g)
	s := modref.NewAgnosticSummarizer(g, pr)
	assert.Empty(t, s.GetOutputNodes(nil))
}
