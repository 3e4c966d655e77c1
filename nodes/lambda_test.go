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

// TestLambdaArgumentLayoutIsFunctionArgsFirst checks that NewLambda's
// function arguments occupy the subregion's low indices and that
// AddContextVar's returned argument lands after all of them (§4.4 Lambda
// "function arguments: inner arguments prepended to the context
// variables"), which is the layout Argument/ContextArgument assume.
func TestLambdaArgumentLayoutIsFunctionArgsFirst(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	bit32 := types.NewBitType(32)

	sig := types.NewFunctionType([]types.Type{bit32, bit32}, []types.Type{bit32})
	lambda, err := nodes.NewLambda(root, sig)
	require.NoError(t, err)

	const0, err := root.CreateNode(op.NewConstant(bit32, 7), nil)
	require.NoError(t, err)
	ctxArg, err := lambda.AddContextVar(const0.Output(0))
	require.NoError(t, err)

	args := lambda.Subregion().Arguments()
	require.Len(t, args, 3)
	assert.Same(t, args[0], lambda.Argument(0))
	assert.Same(t, args[1], lambda.Argument(1))
	assert.Same(t, args[2], ctxArg)
	assert.Same(t, ctxArg, lambda.ContextArgument(0))
}

// TestPruneUnusedContextVarsInspectsContextArguments checks that
// PruneUnusedContextVars reports unused context vars (not function
// arguments) as the candidates for pruning.
func TestPruneUnusedContextVarsInspectsContextArguments(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	bit32 := types.NewBitType(32)

	sig := types.NewFunctionType([]types.Type{bit32}, []types.Type{bit32})
	lambda, err := nodes.NewLambda(root, sig)
	require.NoError(t, err)

	// the function argument is used by the body, the context var is not.
	unused, err := root.CreateNode(op.NewConstant(bit32, 9), nil)
	require.NoError(t, err)
	_, err = lambda.AddContextVar(unused.Output(0))
	require.NoError(t, err)

	sub := lambda.Subregion()
	_, err = sub.CreateNode(op.NewUnary(op.Neg, bit32, bit32), []rvsdg.Origin{lambda.Argument(0)})
	require.NoError(t, err)
	require.NoError(t, lambda.SetResults([]rvsdg.Origin{lambda.Argument(0)}))

	unusedIdx := lambda.PruneUnusedContextVars()
	assert.Equal(t, []int{0}, unusedIdx)
}
