package nodes

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdgerr"
	"github.com/rvsdg-ir/core/types"
)

// ThetaOp is the operation attribute of a theta (tail-controlled loop) node:
// the loop variable types, parallel across structural inputs/outputs and the
// subregion's pre-arguments/post-results (§4.4 Theta).
type ThetaOp struct {
	loopVarTypes []types.Type
	predicateSet bool
}

func (t *ThetaOp) Name() string                { return "theta" }
func (t *ThetaOp) ArgumentTypes() []types.Type { return append([]types.Type{}, t.loopVarTypes...) }
func (t *ThetaOp) ResultTypes() []types.Type   { return append([]types.Type{}, t.loopVarTypes...) }
func (t *ThetaOp) NumSubregions() int          { return 1 }
func (t *ThetaOp) Copy() op.Operation {
	return &ThetaOp{loopVarTypes: append([]types.Type{}, t.loopVarTypes...), predicateSet: t.predicateSet}
}
func (t *ThetaOp) String() string { return fmt.Sprintf("theta/%d", len(t.loopVarTypes)) }
func (t *ThetaOp) Equal(o op.Operation) bool {
	other, ok := o.(*ThetaOp)
	if !ok || len(other.loopVarTypes) != len(t.loopVarTypes) {
		return false
	}
	for i := range t.loopVarTypes {
		if !t.loopVarTypes[i].Equal(other.loopVarTypes[i]) {
			return false
		}
	}
	return true
}

// EntryArgToInput: loop var i's pre-argument is fed by structural input i.
func (t *ThetaOp) EntryArgToInput(subregionIndex, argIndex int) int { return argIndex }

// ExitResultToOutput: loop var i's post-result feeds structural output i; the
// trailing predicate result has no structural counterpart.
func (t *ThetaOp) ExitResultToOutput(subregionIndex, resultIndex int) int {
	if resultIndex >= len(t.loopVarTypes) {
		return -1
	}
	return resultIndex
}

// Theta wraps the generic *rvsdg.Node for a theta, exposing typed accessors
// over its loop variables and tail predicate.
type Theta struct{ *rvsdg.Node }

// NewTheta constructs a theta node with no loop vars and no predicate yet;
// call AddLoopVar for every loop-carried value, then SetPredicate once the
// subregion's tail condition is built (§4.4 Theta).
func NewTheta(region *rvsdg.Region) (*Theta, error) {
	node, err := region.CreateStructuralNode(&ThetaOp{}, nil)
	if err != nil {
		return nil, err
	}
	return &Theta{node}, nil
}

func (t *Theta) op() *ThetaOp { return t.Operation().(*ThetaOp) }

// AddLoopVar adds a loop variable fed initially by input (§4.4 Theta "loop
// variable"): a structural input, a subregion pre-argument, a subregion
// post-result (initially sourced from the pre-argument itself, circular by
// construction exactly as a back-edge is — §3 Back-edge), and a structural
// output. The caller must later call SetPostResult to divert the post-result
// to the real loop-carried value computed by the body. Must be called before
// SetPredicate, since the predicate result must remain the subregion's final
// result (§4.4 Theta).
func (t *Theta) AddLoopVar(input rvsdg.Origin) (*rvsdg.Argument, *rvsdg.Result, *rvsdg.Output, error) {
	top := t.op()
	if top.predicateSet {
		return nil, nil, nil, fmt.Errorf("%w: theta n%d: cannot add loop var after predicate is set", rvsdgerr.ErrStructural, t.ID())
	}
	typ := input.Type()
	if _, err := t.Node.AppendInput(input); err != nil {
		return nil, nil, nil, err
	}
	top.loopVarTypes = append(top.loopVarTypes, typ)
	sub := t.Subregion()
	arg := sub.AddArgument(typ, "loopvar")
	res, err := sub.AddResult(arg, typ, "loopvar")
	if err != nil {
		return nil, nil, nil, err
	}
	out := t.Node.AppendOutput(typ)
	return arg, res, out, nil
}

// SetPostResult diverts a loop var's post-result (as returned by AddLoopVar)
// to the subregion value actually computed for the next iteration.
func (t *Theta) SetPostResult(res *rvsdg.Result, origin rvsdg.Origin) error {
	return rvsdg.DivertResult(res, origin)
}

// SetPredicate adds the subregion's final result: the control-2 value
// selecting repeat (true) or exit (false). May be called only once, after
// every loop var has been added (§4.4 Theta).
func (t *Theta) SetPredicate(origin rvsdg.Origin) (*rvsdg.Result, error) {
	top := t.op()
	if top.predicateSet {
		return nil, fmt.Errorf("%w: theta n%d: predicate already set", rvsdgerr.ErrStructural, t.ID())
	}
	ctl2 := types.NewControlType(2)
	if !origin.Type().Equal(ctl2) {
		return nil, fmt.Errorf("%w: theta predicate must be ctl2, got %s", rvsdgerr.ErrTypeMismatch, origin.Type())
	}
	res, err := t.Subregion().AddResult(origin, ctl2, "predicate")
	if err != nil {
		return nil, err
	}
	top.predicateSet = true
	return res, nil
}

// NumLoopVars reports how many loop variables the theta currently has.
func (t *Theta) NumLoopVars() int { return len(t.op().loopVarTypes) }

// LoopVarInput, LoopVarOutput and subregion argument/result index i all use
// the same index i across input/argument/result/output (§4.4 Theta).
func (t *Theta) LoopVarInput(i int) *rvsdg.Input   { return t.Input(i) }
func (t *Theta) LoopVarOutput(i int) *rvsdg.Output { return t.Output(i) }
func (t *Theta) PreArgument(i int) *rvsdg.Argument { return t.Subregion().Arguments()[i] }
func (t *Theta) PostResult(i int) *rvsdg.Result    { return t.Subregion().Results()[i] }

// Predicate returns the subregion's tail predicate result, once SetPredicate
// has been called.
func (t *Theta) Predicate() *rvsdg.Result {
	results := t.Subregion().Results()
	return results[len(results)-1]
}

// ReduceInvariantLoopVar implements §4.4 Theta reduction (b): a loop var
// whose post-result equals its pre-argument never changes across iterations,
// so its output can be replaced by its input for every downstream use,
// bypassing the loop entirely for that value (§8 scenario C). Reports
// whether var i qualified.
//
// Physically shrinking the node's port count (removing the now-unused
// input/argument/result/output) is not implemented: the node/region model is
// append-only by construction (§9 Design Notes' arena/stable-index approach
// would make this a slab compaction; our pointer-based ports have no such
// operation). A later dead-node-elimination-style pass over ports could add
// it; the dataflow effect implemented here is observably equivalent for
// every downstream consumer since the output itself remains but has no
// users.
func (t *Theta) ReduceInvariantLoopVar(i int) (bool, error) {
	pre := t.PreArgument(i)
	post := t.PostResult(i)
	if post.Origin() != rvsdg.Origin(pre) {
		return false, nil
	}
	out := t.LoopVarOutput(i)
	newOrigin := t.LoopVarInput(i).Origin()
	for _, user := range append([]rvsdg.Reader(nil), out.Users()...) {
		switch u := user.(type) {
		case *rvsdg.Input:
			if err := rvsdg.Divert(u, newOrigin); err != nil {
				return false, err
			}
		case *rvsdg.Result:
			if err := rvsdg.DivertResult(u, newOrigin); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}
