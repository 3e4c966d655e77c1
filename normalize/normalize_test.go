package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/normalize"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

func bit32() types.Type { return types.NewBitType(32) }

func newGraph() *rvsdg.Graph {
	return rvsdg.NewGraph(
		rvsdg.WithDefaultNormalForm("add", true, false),
		rvsdg.WithDefaultNormalForm("sub", true, false),
		rvsdg.WithDefaultNormalForm("eq", true, false),
		rvsdg.WithDefaultNormalForm("match", true, false),
	)
}

func TestConstantFoldAdd(t *testing.T) {
	g := newGraph()
	root := g.Root()
	c1, err := root.CreateNode(op.NewConstant(bit32(), 2), nil)
	require.NoError(t, err)
	c2, err := root.CreateNode(op.NewConstant(bit32(), 3), nil)
	require.NoError(t, err)
	add, err := root.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{c1.Output(0), c2.Output(0)})
	require.NoError(t, err)
	res, err := root.AddResult(add.Output(0), bit32(), "out")
	require.NoError(t, err)

	normalize.Normalize(g)

	out, ok := res.Origin().(*rvsdg.Output)
	require.True(t, ok)
	c, ok := out.Node().Operation().(*op.ConstantOp)
	require.True(t, ok)
	assert.EqualValues(t, 5, c.Value)
}

func TestRightNeutralElimination(t *testing.T) {
	g := newGraph()
	root := g.Root()
	x := root.AddArgument(bit32(), "x")
	zero, err := root.CreateNode(op.NewConstant(bit32(), 0), nil)
	require.NoError(t, err)
	add, err := root.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{x, zero.Output(0)})
	require.NoError(t, err)
	res, err := root.AddResult(add.Output(0), bit32(), "out")
	require.NoError(t, err)

	normalize.Normalize(g)

	assert.Equal(t, rvsdg.Origin(x), res.Origin())
}

func TestGammaPredicateConstantFolds(t *testing.T) {
	g := rvsdg.NewGraph(rvsdg.WithDefaultNormalForm("constant", false, false))
	root := g.Root()

	predNode, err := root.CreateNode(op.NewConstant(types.NewControlType(2), 1), nil)
	require.NoError(t, err)
	gamma, err := nodes.NewGamma(root, predNode.Output(0), 2)
	require.NoError(t, err)

	seven, err := root.CreateNode(op.NewConstant(bit32(), 7), nil)
	require.NoError(t, err)
	nine, err := root.CreateNode(op.NewConstant(bit32(), 9), nil)
	require.NoError(t, err)
	_, err = gamma.AddEntryVar(seven.Output(0))
	require.NoError(t, err)
	_, err = gamma.AddEntryVar(nine.Output(0))
	require.NoError(t, err)

	sub0, sub1 := gamma.Subregions()[0], gamma.Subregions()[1]
	_, err = gamma.AddExitVar([]rvsdg.Origin{sub0.Arguments()[0], sub1.Arguments()[1]})
	require.NoError(t, err)

	res, err := root.AddResult(gamma.Output(0), bit32(), "out")
	require.NoError(t, err)

	normalize.Normalize(g)

	out, ok := res.Origin().(*rvsdg.Output)
	require.True(t, ok)
	c, ok := out.Node().Operation().(*op.ConstantOp)
	require.True(t, ok)
	assert.EqualValues(t, 9, c.Value)
}

// TestAssociativeFlatteningAndRetreeRoundTrip covers §8 property 7: fusing
// add(add(a,b), add(c,d)) into one FlattenedOp and re-treeing it (in either
// mode) must yield a pure binary-add tree over the same four leaves.
func TestAssociativeFlatteningAndRetreeRoundTrip(t *testing.T) {
	g := newGraph()
	root := g.Root()
	a := root.AddArgument(bit32(), "a")
	b := root.AddArgument(bit32(), "b")
	c := root.AddArgument(bit32(), "c")
	d := root.AddArgument(bit32(), "d")

	add1, err := root.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{a, b})
	require.NoError(t, err)
	add2, err := root.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{c, d})
	require.NoError(t, err)
	outer, err := root.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{add1.Output(0), add2.Output(0)})
	require.NoError(t, err)
	res, err := root.AddResult(outer.Output(0), bit32(), "out")
	require.NoError(t, err)

	normalize.Normalize(g)

	out, ok := res.Origin().(*rvsdg.Output)
	require.True(t, ok)
	flat, ok := out.Node().Operation().(*op.FlattenedOp)
	require.True(t, ok, "expected the add chain to fuse into a single flattened node")
	assert.Equal(t, 4, flat.Arity)
	assert.Equal(t, op.Add, flat.Inner.Kind)

	leftLinear, err := normalize.Retree(out.Node(), op.RetreeLeftLinear)
	require.NoError(t, err)
	assertAddLeafCount(t, leftLinear, 4)

	balanced, err := normalize.Retree(out.Node(), op.RetreeBalanced)
	require.NoError(t, err)
	assertAddLeafCount(t, balanced, 4)
}

// assertAddLeafCount walks a tree of binary add applications and asserts the
// number of non-add leaf operands equals want.
func assertAddLeafCount(t *testing.T, origin rvsdg.Origin, want int) {
	t.Helper()
	var count func(rvsdg.Origin) int
	count = func(o rvsdg.Origin) int {
		out, ok := o.(*rvsdg.Output)
		if !ok {
			return 1
		}
		b, ok := out.Node().Operation().(*op.BinaryArithOp)
		if !ok || b.Kind != op.Add {
			return 1
		}
		return count(out.Node().Input(0).Origin()) + count(out.Node().Input(1).Origin())
	}
	assert.Equal(t, want, count(origin))
}

// TestTraverseTopDownRespectsProducerOrder checks that every node is yielded
// only after the same-region nodes producing its operands (§4.3 "Top-down").
func TestTraverseTopDownRespectsProducerOrder(t *testing.T) {
	g := newGraph()
	root := g.Root()
	ca, err := root.CreateNode(op.NewConstant(bit32(), 1), nil)
	require.NoError(t, err)
	cb, err := root.CreateNode(op.NewConstant(bit32(), 2), nil)
	require.NoError(t, err)
	cc, err := root.CreateNode(op.NewConstant(bit32(), 3), nil)
	require.NoError(t, err)
	add1, err := root.CreateNode(op.NewBinaryArith(op.Sub, bit32()), []rvsdg.Origin{ca.Output(0), cb.Output(0)})
	require.NoError(t, err)
	add2, err := root.CreateNode(op.NewBinaryArith(op.Sub, bit32()), []rvsdg.Origin{add1.Output(0), cc.Output(0)})
	require.NoError(t, err)

	order := make(map[*rvsdg.Node]int)
	i := 0
	normalize.Traverse(root, normalize.TopDown, func(n *rvsdg.Node) bool {
		order[n] = i
		i++
		return true
	})

	assert.Equal(t, 5, len(order))
	assert.Less(t, order[ca], order[add1])
	assert.Less(t, order[cb], order[add1])
	assert.Less(t, order[add1], order[add2])
	assert.Less(t, order[cc], order[add2])
}

// TestTraverseBottomUpRespectsConsumerOrder checks the dual property: a node
// is yielded only after every in-region node reading one of its outputs
// (§4.3 "Bottom-up").
func TestTraverseBottomUpRespectsConsumerOrder(t *testing.T) {
	g := newGraph()
	root := g.Root()
	ca, err := root.CreateNode(op.NewConstant(bit32(), 1), nil)
	require.NoError(t, err)
	cb, err := root.CreateNode(op.NewConstant(bit32(), 2), nil)
	require.NoError(t, err)
	cc, err := root.CreateNode(op.NewConstant(bit32(), 3), nil)
	require.NoError(t, err)
	add1, err := root.CreateNode(op.NewBinaryArith(op.Sub, bit32()), []rvsdg.Origin{ca.Output(0), cb.Output(0)})
	require.NoError(t, err)
	add2, err := root.CreateNode(op.NewBinaryArith(op.Sub, bit32()), []rvsdg.Origin{add1.Output(0), cc.Output(0)})
	require.NoError(t, err)

	order := make(map[*rvsdg.Node]int)
	i := 0
	normalize.Traverse(root, normalize.BottomUp, func(n *rvsdg.Node) bool {
		order[n] = i
		i++
		return true
	})

	assert.Equal(t, 5, len(order))
	assert.Less(t, order[add2], order[add1])
	assert.Less(t, order[add1], order[ca])
	assert.Less(t, order[add1], order[cb])
	assert.Less(t, order[add2], order[cc])
}

func TestThetaInvariantLoopVarElimination(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	x := root.AddArgument(bit32(), "x")

	theta, err := nodes.NewTheta(root)
	require.NoError(t, err)
	_, post, _, err := theta.AddLoopVar(x)
	require.NoError(t, err)
	require.NoError(t, theta.SetPostResult(post, theta.PreArgument(0)))

	falseConst, err := theta.Subregion().CreateNode(op.NewConstant(types.NewControlType(2), 0), nil)
	require.NoError(t, err)
	_, err = theta.SetPredicate(falseConst.Output(0))
	require.NoError(t, err)

	res, err := root.AddResult(theta.Output(0), bit32(), "out")
	require.NoError(t, err)

	normalize.Normalize(g)

	assert.Equal(t, rvsdg.Origin(x), res.Origin())
}
