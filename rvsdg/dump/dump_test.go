package dump_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdg/dump"
	"github.com/rvsdg-ir/core/types"
)

func TestWriteRendersNodesAndResults(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	bit32 := types.NewBitType(32)

	x := root.AddArgument(bit32, "x")
	one, err := root.CreateNode(op.NewConstant(bit32, 1), nil)
	require.NoError(t, err)
	add, err := root.CreateNode(op.NewBinaryArith(op.Add, bit32), []rvsdg.Origin{x, one.Output(0)})
	require.NoError(t, err)
	_, err = root.AddResult(add.Output(0), bit32, "out")
	require.NoError(t, err)

	text := dump.Write(g)

	assert.Contains(t, text, "[region-")
	assert.Contains(t, text, "x0:bit32")
	assert.Contains(t, text, "add:bit32")
	assert.Contains(t, text, "out0=")
	assert.Contains(t, text, "n"+strconv.Itoa(add.ID())+":")
}

func TestWriteRecursesIntoSubregions(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	ctl2 := types.NewControlType(2)
	bit32 := types.NewBitType(32)

	pred, err := root.CreateNode(op.NewConstant(ctl2, 0), nil)
	require.NoError(t, err)
	gamma, err := nodes.NewGamma(root, pred.Output(0), 2)
	require.NoError(t, err)
	zero, err := gamma.Subregions()[0].CreateNode(op.NewConstant(bit32, 0), nil)
	require.NoError(t, err)
	oneC, err := gamma.Subregions()[1].CreateNode(op.NewConstant(bit32, 1), nil)
	require.NoError(t, err)
	_, err = gamma.AddExitVar([]rvsdg.Origin{zero.Output(0), oneC.Output(0)})
	require.NoError(t, err)

	text := dump.Write(g)
	// one root region plus the gamma's two branch subregions.
	assert.Equal(t, 3, strings.Count(text, "[region-"))
}
