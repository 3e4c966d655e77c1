package pointsto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/pointsto"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

func ptrT() types.Type { return types.NewPointerType() }
func memT() types.Type { return types.NewMemoryStateType() }

// TestDistinctAllocasStayDistinct checks that two unrelated stack slots are
// classified to disjoint points-to sets absent any unifying store/load.
func TestDistinctAllocasStayDistinct(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	p, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)
	q, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)

	res := pointsto.Run(g)

	pLocs, pUnknown := res.PointsTo(p.Output(0))
	qLocs, qUnknown := res.PointsTo(q.Output(0))
	require.False(t, pUnknown)
	require.False(t, qUnknown)
	require.Len(t, pLocs, 1)
	require.Len(t, qLocs, 1)
	assert.NotEqual(t, pLocs[0], qLocs[0])
	assert.Equal(t, pointsto.KindAlloca, pLocs[0].Kind)
}

// TestLoadFollowsStoredPointer checks that storing q's address through p and
// loading it back resolves to q's alloca location (§4.6.1 unify-on-demand).
func TestLoadFollowsStoredPointer(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	p, err := root.CreateNode(&op.AllocaOp{ValueType: ptrT()}, nil)
	require.NoError(t, err)
	q, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)

	store, err := root.CreateNode(&op.StoreOp{ValueType: ptrT(), MemoryStateCount: 1},
		[]rvsdg.Origin{p.Output(0), q.Output(0), p.Output(1)})
	require.NoError(t, err)

	load, err := root.CreateNode(&op.LoadOp{ValueType: ptrT(), MemoryStateCount: 1},
		[]rvsdg.Origin{p.Output(0), store.Output(0)})
	require.NoError(t, err)

	res := pointsto.Run(g)

	locs, unknown := res.PointsTo(load.Output(0))
	require.False(t, unknown)
	require.Len(t, locs, 1)
	assert.Equal(t, pointsto.KindAlloca, locs[0].Kind)
	assert.Equal(t, q.ID(), locs[0].ID)
}

// TestCallMarksPointerOperandsUnknown checks the conservative §4.6.1
// "mayPointToUnknown" fallback for a call's pointer-typed arguments.
func TestCallMarksPointerOperandsUnknown(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	p, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)
	mem, err := root.CreateNode(&op.UndefOp{Type: memT()}, nil)
	require.NoError(t, err)

	sig := types.NewFunctionType([]types.Type{ptrT()}, nil)
	callee, err := root.CreateNode(&op.UndefOp{Type: ptrT()}, nil)
	require.NoError(t, err)
	callOp := &op.CallOp{FuncType: sig, Direct: false}
	_, err = root.CreateNode(callOp, []rvsdg.Origin{callee.Output(0), p.Output(0), mem.Output(0)})
	require.NoError(t, err)

	res := pointsto.Run(g)

	_, unknown := res.PointsTo(p.Output(0))
	assert.True(t, unknown, "pointer passed to a call must be marked mayPointToUnknown")
}

// TestGepAndBitcastAlias checks that gep and a pointer-typed bitcast join
// their result with their base operand rather than introducing a fresh
// points-to class (§4.6.1 "gep / bitcast ... join").
func TestGepAndBitcastAlias(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	p, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)

	gep, err := root.CreateNode(&op.GepOp{NumIndices: 1}, []rvsdg.Origin{p.Output(0), undefBits(t, root)})
	require.NoError(t, err)
	cast, err := root.CreateNode(&op.BitcastOp{From: ptrT(), To: ptrT()}, []rvsdg.Origin{gep.Output(0)})
	require.NoError(t, err)

	res := pointsto.Run(g)

	pLocs, _ := res.PointsTo(p.Output(0))
	castLocs, unknown := res.PointsTo(cast.Output(0))
	require.False(t, unknown)
	assert.ElementsMatch(t, pLocs, castLocs)
}

// TestSelectOfPointersJoinsAllOperands checks that a pointer-typed SelectOp
// (the gamma control-constant mux) unifies its result with every operand,
// not just the first (§4.6.1 "select on pointers ... join").
func TestSelectOfPointersJoinsAllOperands(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	a, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)
	b, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)
	pred, err := root.CreateNode(&op.UndefOp{Type: types.NewControlType(2)}, nil)
	require.NoError(t, err)

	sel, err := root.CreateNode(&op.SelectOp{ValueType: ptrT(), NumAlternatives: 2},
		[]rvsdg.Origin{pred.Output(0), a.Output(0), b.Output(0)})
	require.NoError(t, err)

	res := pointsto.Run(g)

	locs, unknown := res.PointsTo(sel.Output(0))
	require.False(t, unknown)
	require.Len(t, locs, 2)
}

// TestPtrToIntRoundTripMarksUnknown checks that a pointer cast to an integer
// (and an integer cast back to a pointer) are conservatively marked
// mayPointToUnknown, since the analysis cannot trace identity through the
// integer representation (§4.6.1 "bits2ptr and ptr2int: mark
// mayPointToUnknown").
func TestPtrToIntRoundTripMarksUnknown(t *testing.T) {
	g := rvsdg.NewGraph()
	root := g.Root()

	p, err := root.CreateNode(&op.AllocaOp{ValueType: types.NewBitType(32)}, nil)
	require.NoError(t, err)
	i2p, err := root.CreateNode(&op.Ptr2IntOp{IntType: types.NewBitType(64)}, []rvsdg.Origin{p.Output(0)})
	require.NoError(t, err)
	p2i, err := root.CreateNode(&op.Bits2PtrOp{IntType: types.NewBitType(64)}, []rvsdg.Origin{i2p.Output(0)})
	require.NoError(t, err)

	res := pointsto.Run(g)

	_, pUnknown := res.PointsTo(p.Output(0))
	_, p2iUnknown := res.PointsTo(p2i.Output(0))
	assert.True(t, pUnknown, "pointer fed through ptr2int must be marked mayPointToUnknown")
	assert.True(t, p2iUnknown, "bits2ptr result must be marked mayPointToUnknown")
}

func undefBits(t *testing.T, r *rvsdg.Region) rvsdg.Origin {
	t.Helper()
	n, err := r.CreateNode(&op.UndefOp{Type: types.NewBitType(64)}, nil)
	require.NoError(t, err)
	return n.Output(0)
}
