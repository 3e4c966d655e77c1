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

func bit32() types.Type { return types.NewBitType(32) }

// buildCountingLoop constructs a theta counting i from 0 to bound in steps of
// step, i.e. `for i := 0; i != bound; i += step { ... }`, and returns it.
func buildCountingLoop(t *testing.T, bound, step int64) (*rvsdg.Graph, *nodes.Theta) {
	t.Helper()
	g := rvsdg.NewGraph()
	root := g.Root()

	zero, err := root.CreateNode(op.NewConstant(bit32(), 0), nil)
	require.NoError(t, err)

	theta, err := nodes.NewTheta(root)
	require.NoError(t, err)
	_, post, _, err := theta.AddLoopVar(zero.Output(0))
	require.NoError(t, err)

	sub := theta.Subregion()
	stepConst, err := sub.CreateNode(op.NewConstant(bit32(), step), nil)
	require.NoError(t, err)
	add, err := sub.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{theta.PreArgument(0), stepConst.Output(0)})
	require.NoError(t, err)
	require.NoError(t, theta.SetPostResult(post, add.Output(0)))

	boundConst, err := sub.CreateNode(op.NewConstant(bit32(), bound), nil)
	require.NoError(t, err)
	eq, err := sub.CreateNode(op.NewBinaryArith(op.Eq, bit32()), []rvsdg.Origin{theta.PreArgument(0), boundConst.Output(0)})
	require.NoError(t, err)
	_, err = theta.SetPredicate(eq.Output(0))
	require.NoError(t, err)

	_, err = root.AddResult(theta.Output(0), bit32(), "out")
	require.NoError(t, err)
	return g, theta
}

func countNodeKind(r *rvsdg.Region, match func(op.Operation) bool) int {
	n := 0
	for _, node := range r.Nodes() {
		if match(node.Operation()) {
			n++
		}
	}
	for _, node := range r.Nodes() {
		for _, sub := range node.Subregions() {
			n += countNodeKind(sub, match)
		}
	}
	return n
}

func TestUnrollLoopExactMultiple(t *testing.T) {
	// i counts 0,1,2,3 to reach 4: N = 4. Unroll by f=4 -> exact multiple.
	g, theta := buildCountingLoop(t, 4, 1)

	changed, err := passes.UnrollLoop(theta, 4)
	require.NoError(t, err)
	assert.True(t, changed)

	isAdd := func(o op.Operation) bool {
		b, ok := o.(*op.BinaryArithOp)
		return ok && b.Kind == op.Add
	}
	// one add per clone: the original body plus 3 in-place clones = 4 adds.
	assert.Equal(t, 4, countNodeKind(g.Root(), isAdd))
}

func TestUnrollLoopNonMultipleEmitsPrologue(t *testing.T) {
	// N = 5, f = 2: remainder = 1, so one prologue copy runs before the theta.
	g, theta := buildCountingLoop(t, 5, 1)

	changed, err := passes.UnrollLoop(theta, 2)
	require.NoError(t, err)
	assert.True(t, changed)

	isAdd := func(o op.Operation) bool {
		b, ok := o.(*op.BinaryArithOp)
		return ok && b.Kind == op.Add
	}
	// 1 prologue add (outside the theta) + 2 adds inside the theta (original + 1 clone).
	assert.Equal(t, 3, countNodeKind(g.Root(), isAdd))
}

func TestUnrollLoopUnknownBoundIsNoop(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	zero, err := root.CreateNode(op.NewConstant(bit32(), 0), nil)
	require.NoError(t, err)

	theta, err := nodes.NewTheta(root)
	require.NoError(t, err)
	_, post1, _, err := theta.AddLoopVar(zero.Output(0))
	require.NoError(t, err)
	_, post2, _, err := theta.AddLoopVar(zero.Output(0)) // a second loop var standing in for a runtime bound
	require.NoError(t, err)

	sub := theta.Subregion()
	one, err := sub.CreateNode(op.NewConstant(bit32(), 1), nil)
	require.NoError(t, err)
	add, err := sub.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{theta.PreArgument(0), one.Output(0)})
	require.NoError(t, err)
	require.NoError(t, theta.SetPostResult(post1, add.Output(0)))
	require.NoError(t, theta.SetPostResult(post2, theta.PreArgument(1))) // invariant: no constant bound ever appears

	// predicate compares the counter against the second loop var's argument,
	// not a constant: init/step/end cannot all be resolved.
	eq, err := sub.CreateNode(op.NewBinaryArith(op.Eq, bit32()), []rvsdg.Origin{theta.PreArgument(0), theta.PreArgument(1)})
	require.NoError(t, err)
	_, err = theta.SetPredicate(eq.Output(0))
	require.NoError(t, err)

	changed, err := passes.UnrollLoop(theta, 2)
	require.NoError(t, err)
	assert.False(t, changed)
}
