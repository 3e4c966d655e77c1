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

// buildAddOneCallee builds `lambda(x) { return x + 1 }` and one direct call
// site `call(a)` in root, wired via the callee's Address() output.
func buildAddOneCallee(t *testing.T) (*rvsdg.Graph, *rvsdg.Node, *nodes.Lambda) {
	t.Helper()
	g := rvsdg.NewGraph()
	root := g.Root()

	memT := types.NewMemoryStateType()

	sig := types.NewFunctionType([]types.Type{bit32()}, []types.Type{bit32()})
	lambda, err := nodes.NewLambda(root, sig)
	require.NoError(t, err)
	sub := lambda.Subregion()
	one, err := sub.CreateNode(op.NewConstant(bit32(), 1), nil)
	require.NoError(t, err)
	add, err := sub.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{lambda.Argument(0), one.Output(0)})
	require.NoError(t, err)
	require.NoError(t, lambda.SetResults([]rvsdg.Origin{add.Output(0)}))

	a, err := root.CreateNode(op.NewConstant(bit32(), 41), nil)
	require.NoError(t, err)
	mem, err := root.CreateNode(&op.UndefOp{Type: memT}, nil)
	require.NoError(t, err)
	callOp := &op.CallOp{FuncType: sig, Direct: true}
	call, err := root.CreateNode(callOp, []rvsdg.Origin{lambda.Address(), a.Output(0), mem.Output(0)})
	require.NoError(t, err)

	return g, call, lambda
}

func TestInlineEligibleSingleDirectCallSite(t *testing.T) {
	_, call, lambda := buildAddOneCallee(t)
	assert.True(t, passes.InlineEligible(call, lambda, nil))
}

func TestInlineEligibleRejectsReservedSymbol(t *testing.T) {
	_, call, lambda := buildAddOneCallee(t)
	lambda.SetSymbol("hls_addone")
	extern := func(symbol string) bool { return symbol == "hls_addone" }
	assert.False(t, passes.InlineEligible(call, lambda, extern))
}

func TestInlineReplacesCallWithBody(t *testing.T) {
	g, call, lambda := buildAddOneCallee(t)
	root := g.Root()
	require.True(t, passes.InlineEligible(call, lambda, nil))

	require.NoError(t, passes.Inline(call, lambda, nil))

	found := false
	for _, n := range root.Nodes() {
		if n == call {
			found = true
		}
	}
	assert.False(t, found, "call node should have been deleted")

	isAdd := func(o op.Operation) bool {
		b, ok := o.(*op.BinaryArithOp)
		return ok && b.Kind == op.Add
	}
	// one add cloned into root, plus the original still inside the
	// now-orphaned (but not deleted) lambda body.
	assert.Equal(t, 2, countNodeKind(root, isAdd))
}

// TestInlineMapsFunctionArgsAndContextVarsInOrder builds a callee that
// captures a context var alongside its function argument — lambda(x) {
// return x + ctx } — and checks that Inline maps operand i of the cloned
// add to the call site's argument origin and operand i+1 to the routed
// context origin, not swapped. NewLambda populates function arguments
// first, at subregion indices [0, numArgs); AddContextVar appends context
// vars after them (nodes/lambda.go), so a substitution map keyed the other
// way around silently scrambles every operand of a callee that actually
// captures anything (only invisible in the zero-context-var case covered by
// TestInlineReplacesCallWithBody).
func TestInlineMapsFunctionArgsAndContextVarsInOrder(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()
	memT := types.NewMemoryStateType()

	sig := types.NewFunctionType([]types.Type{bit32()}, []types.Type{bit32()})
	lambda, err := nodes.NewLambda(root, sig)
	require.NoError(t, err)

	ctxConst, err := root.CreateNode(op.NewConstant(bit32(), 100), nil)
	require.NoError(t, err)
	ctxArg, err := lambda.AddContextVar(ctxConst.Output(0))
	require.NoError(t, err)

	sub := lambda.Subregion()
	add, err := sub.CreateNode(op.NewBinaryArith(op.Add, bit32()), []rvsdg.Origin{lambda.Argument(0), ctxArg})
	require.NoError(t, err)
	require.NoError(t, lambda.SetResults([]rvsdg.Origin{add.Output(0)}))

	callArg, err := root.CreateNode(op.NewConstant(bit32(), 41), nil)
	require.NoError(t, err)
	mem, err := root.CreateNode(&op.UndefOp{Type: memT}, nil)
	require.NoError(t, err)
	callOp := &op.CallOp{FuncType: sig, Direct: true}
	call, err := root.CreateNode(callOp, []rvsdg.Origin{lambda.Address(), callArg.Output(0), mem.Output(0)})
	require.NoError(t, err)

	require.True(t, passes.InlineEligible(call, lambda, nil))
	require.NoError(t, passes.Inline(call, lambda, []rvsdg.Origin{ctxConst.Output(0)}))

	var cloned *rvsdg.Node
	for _, n := range root.Nodes() {
		if n == add {
			continue // the original, now orphaned inside the unreferenced lambda body
		}
		if b, ok := n.Operation().(*op.BinaryArithOp); ok && b.Kind == op.Add {
			cloned = n
		}
	}
	require.NotNil(t, cloned, "expected the add to have been cloned into root")

	assert.Equal(t, rvsdg.Origin(callArg.Output(0)), cloned.Input(0).Origin(), "function arg operand should map to the call site's argument")
	assert.Equal(t, rvsdg.Origin(ctxConst.Output(0)), cloned.Input(1).Origin(), "context var operand should map to the routed context origin")
}
