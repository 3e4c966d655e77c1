package passes

import (
	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/subst"
)

// inductionChain describes the one loop-var/predicate shape §4.9 requires
// before a theta can be unrolled: a loop var initialized to a constant,
// advanced every iteration by a constant step, and compared against a
// constant bound by the theta's tail predicate.
type inductionChain struct {
	varIndex          int
	init, step, bound int64
}

// constantValue reports the folded value of origin if it is a ConstantOp,
// per §4.9 "if any of {init, step, end} is unknown, no unrolling occurs."
func constantValue(origin rvsdg.Origin) (int64, bool) {
	out, ok := origin.(*rvsdg.Output)
	if !ok {
		return 0, false
	}
	c, ok := out.Node().Operation().(*op.ConstantOp)
	if !ok {
		return 0, false
	}
	return c.Value, true
}

// detectInductionChain looks for a loop var compared for equality against a
// constant bound by the theta's predicate, and advanced by a constant
// add/sub step each iteration. Equality is this IR's only comparison kind
// that yields a control value (op.BinaryArithOp's Eq; see DESIGN.md), so it
// is the only comparison this pass recognizes as a loop bound.
func detectInductionChain(t *nodes.Theta) (inductionChain, bool) {
	predOut, ok := t.Predicate().Origin().(*rvsdg.Output)
	if !ok {
		return inductionChain{}, false
	}
	cmp, ok := predOut.Node().Operation().(*op.BinaryArithOp)
	if !ok || cmp.Kind != op.Eq {
		return inductionChain{}, false
	}
	lhs, rhs := predOut.Node().Input(0).Origin(), predOut.Node().Input(1).Origin()

	var indArg *rvsdg.Argument
	var bound int64
	var boundOk bool
	if arg, ok := lhs.(*rvsdg.Argument); ok {
		indArg = arg
		bound, boundOk = constantValue(rhs)
	} else if arg, ok := rhs.(*rvsdg.Argument); ok {
		indArg = arg
		bound, boundOk = constantValue(lhs)
	}
	if indArg == nil || !boundOk {
		return inductionChain{}, false
	}

	varIndex := -1
	for i := 0; i < t.NumLoopVars(); i++ {
		if t.PreArgument(i) == indArg {
			varIndex = i
			break
		}
	}
	if varIndex < 0 {
		return inductionChain{}, false
	}

	init, initOk := constantValue(t.LoopVarInput(varIndex).Origin())
	if !initOk {
		return inductionChain{}, false
	}

	postOut, ok := t.PostResult(varIndex).Origin().(*rvsdg.Output)
	if !ok {
		return inductionChain{}, false
	}
	arith, ok := postOut.Node().Operation().(*op.BinaryArithOp)
	if !ok || (arith.Kind != op.Add && arith.Kind != op.Sub) {
		return inductionChain{}, false
	}
	a0, a1 := postOut.Node().Input(0).Origin(), postOut.Node().Input(1).Origin()
	var step int64
	var stepOk bool
	switch {
	case a0 == rvsdg.Origin(indArg):
		step, stepOk = constantValue(a1)
	case arith.Kind == op.Add && a1 == rvsdg.Origin(indArg):
		step, stepOk = constantValue(a0)
	}
	if !stepOk || step == 0 {
		return inductionChain{}, false
	}
	if arith.Kind == op.Sub {
		step = -step
	}

	return inductionChain{varIndex: varIndex, init: init, step: step, bound: bound}, true
}

// tripCount computes N = ceil((end - init) / step), or ok=false if the
// induction never reaches bound (wrong direction, or already equal with a
// nonzero step meaning zero useful iterations).
func tripCount(c inductionChain) (int, bool) {
	diff := c.bound - c.init
	if diff == 0 {
		return 0, false
	}
	if (diff < 0) != (c.step < 0) {
		return 0, false
	}
	q := diff / c.step
	if diff%c.step != 0 {
		q++
	}
	if q <= 0 {
		return 0, false
	}
	return int(q), true
}

// cloneBodyOnce clones every node in original (a snapshot of a theta
// subregion's nodes) into target, with the subregion's pre-arguments mapped
// to argOrigins, returning the substitution map so callers can trace any
// origin (a result, the predicate) through to its image in the clone.
func cloneBodyOnce(sub *rvsdg.Region, target *rvsdg.Region, original []*rvsdg.Node, argOrigins []rvsdg.Origin) (*subst.Map, error) {
	m := subst.New()
	for i, arg := range sub.Arguments() {
		m.Set(arg, argOrigins[i])
	}
	for _, n := range original {
		if _, err := subst.CopyNode(n, target, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// follow maps origin through m, falling back to origin itself (the
// invariant-passthrough case, where a result's origin is already one of the
// mapped arguments and so is its own image).
func follow(m *subst.Map, origin rvsdg.Origin) rvsdg.Origin {
	if mapped, ok := m.Lookup(origin); ok {
		return mapped
	}
	return origin
}

// emitPrologue clones the theta's body copies times in its parent region,
// chaining each loop var's value into the next copy, then reroutes the
// theta's own structural inputs to start from the chain's final values —
// the "sequentially-cloned copies before the theta" half of §4.9's
// non-exact-multiple case.
func emitPrologue(t *nodes.Theta, copies int) error {
	sub := t.Subregion()
	original := append([]*rvsdg.Node(nil), sub.Nodes()...)
	parent := t.Region()
	n := t.NumLoopVars()

	current := make([]rvsdg.Origin, n)
	for i := 0; i < n; i++ {
		current[i] = t.LoopVarInput(i).Origin()
	}

	for c := 0; c < copies; c++ {
		m, err := cloneBodyOnce(sub, parent, original, current)
		if err != nil {
			return err
		}
		next := make([]rvsdg.Origin, n)
		for i := 0; i < n; i++ {
			next[i] = follow(m, sub.Results()[i].Origin())
		}
		current = next
	}

	for i := 0; i < n; i++ {
		if err := rvsdg.Divert(t.LoopVarInput(i), current[i]); err != nil {
			return err
		}
	}
	return nil
}

// unrollInPlace clones the theta's body f-1 times inside its own subregion,
// chaining the back-edge through each clone, then reroutes the subregion's
// post-results and tail predicate to the final clone's values — the
// "clone the body f−1 times" half of §4.9's exact-multiple case. It does not
// rewrite the per-clone step constants: each clone still advances by the
// original step, so f clones sum to f*step per outer iteration, which is
// exactly what the unchanged bound comparison requires once the caller has
// ensured the remaining trip count is a multiple of f (see DESIGN.md for why
// this, not literally dividing the step, is the correct reading of §4.9's
// "divide the per-iteration increment by f").
func unrollInPlace(t *nodes.Theta, f int) error {
	sub := t.Subregion()
	original := append([]*rvsdg.Node(nil), sub.Nodes()...)
	n := t.NumLoopVars()

	current := make([]rvsdg.Origin, n)
	for i := 0; i < n; i++ {
		current[i] = sub.Results()[i].Origin()
	}
	predOrigin := t.Predicate().Origin()

	for c := 1; c < f; c++ {
		m, err := cloneBodyOnce(sub, sub, original, current)
		if err != nil {
			return err
		}
		next := make([]rvsdg.Origin, n)
		for i := 0; i < n; i++ {
			next[i] = follow(m, sub.Results()[i].Origin())
		}
		current = next
		predOrigin = follow(m, predOrigin)
	}

	for i := 0; i < n; i++ {
		if err := rvsdg.DivertResult(sub.Results()[i], current[i]); err != nil {
			return err
		}
	}
	return rvsdg.DivertResult(t.Predicate(), predOrigin)
}

// UnrollLoop implements §4.9: for a theta whose induction variable forms a
// bit-width-known additive/subtractive chain over a constant step with a
// constant equality bound, unrolls it by factor f. When the trip count N
// isn't an exact multiple of f, a prologue of N % f sequential copies runs
// ahead of the theta first, so the theta always unrolls an exact multiple of
// f afterward. Reports whether unrolling happened; f <= 1 or an
// undetected/non-constant induction chain is a no-op, not an error.
func UnrollLoop(t *nodes.Theta, f int) (bool, error) {
	if f <= 1 {
		return false, nil
	}
	chain, ok := detectInductionChain(t)
	if !ok {
		return false, nil
	}
	tc, ok := tripCount(chain)
	if !ok {
		return false, nil
	}

	if remainder := tc % f; remainder != 0 {
		if err := emitPrologue(t, remainder); err != nil {
			return false, err
		}
	}
	if err := unrollInPlace(t, f); err != nil {
		return false, err
	}
	return true, nil
}
