package memstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/memstate"
	"github.com/rvsdg-ir/core/modref"
	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/pointsto"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

func bit32() types.Type { return types.NewBitType(32) }
func memT() types.Type  { return types.NewMemoryStateType() }

// buildStoreLoadLambda builds `lambda(mem) { x := alloca i32; *x = 7; return *x, mem }`
// with a single placeholder memory-state port on the store/load, the shape
// EncodeLambda expects to rewire into real per-memory-node edges.
func buildStoreLoadLambda(t *testing.T) (*rvsdg.Graph, *nodes.Lambda) {
	t.Helper()
	g := rvsdg.NewGraph()
	root := g.Root()

	sig := types.NewFunctionType([]types.Type{memT()}, []types.Type{bit32()})
	lambda, err := nodes.NewLambda(root, sig)
	require.NoError(t, err)
	sub := lambda.Subregion()

	alloca, err := sub.CreateNode(&op.AllocaOp{ValueType: bit32()}, nil)
	require.NoError(t, err)
	val, err := sub.CreateNode(op.NewConstant(bit32(), 7), nil)
	require.NoError(t, err)
	store, err := sub.CreateNode(&op.StoreOp{ValueType: bit32(), MemoryStateCount: 1},
		[]rvsdg.Origin{alloca.Output(0), val.Output(0), alloca.Output(1)})
	require.NoError(t, err)
	load, err := sub.CreateNode(&op.LoadOp{ValueType: bit32(), MemoryStateCount: 1},
		[]rvsdg.Origin{alloca.Output(0), store.Output(0)})
	require.NoError(t, err)
	require.NoError(t, lambda.SetResults([]rvsdg.Origin{load.Output(0)}))

	return g, lambda
}

func TestEncodeLambdaThreadsMemoryState(t *testing.T) {
	g, lambda := buildStoreLoadLambda(t)

	pr := pointsto.Run(g)
	sum := modref.NewAgnosticSummarizer(g, pr)
	enc := memstate.New(pr, sum)

	require.NoError(t, enc.EncodeLambda(lambda))

	sub := lambda.Subregion()
	// SetResults added 1 value result; EncodeLambda appends one more for the
	// merged memory-state exit.
	require.Len(t, sub.Results(), 2)
	exit := sub.Results()[1]
	assert.Equal(t, types.KindMemoryState, exit.Type().Kind())

	foundSplit, foundAnchor, foundExitMerge := false, false, false
	for _, n := range sub.Nodes() {
		switch o := n.Operation().(type) {
		case *op.MemoryStateSplitOp:
			if o.Tag == "lambda-entry" {
				foundSplit = true
			}
		case *op.MemoryStateMergeOp:
			if o.Tag == "lambda-entry-anchor" {
				foundAnchor = true
			}
			if o.Tag == "lambda-exit" {
				foundExitMerge = true
			}
		}
	}
	assert.True(t, foundSplit, "expected a lambda-entry memory-state split")
	assert.True(t, foundAnchor, "expected a lambda-entry-anchor merge")
	assert.True(t, foundExitMerge, "expected a lambda-exit merge")
}

func TestEncodeLambdaMissingMemoryArgumentErrors(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	sig := types.NewFunctionType([]types.Type{bit32()}, []types.Type{bit32()})
	lambda, err := nodes.NewLambda(root, sig)
	require.NoError(t, err)
	require.NoError(t, lambda.SetResults([]rvsdg.Origin{lambda.Argument(0)}))

	pr := pointsto.Run(g)
	sum := modref.NewAgnosticSummarizer(g, pr)
	enc := memstate.New(pr, sum)

	err = enc.EncodeLambda(lambda)
	assert.Error(t, err)
}
