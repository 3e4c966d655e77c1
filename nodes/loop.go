package nodes

import (
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

// Loop is the HLS-pipeline specialization of theta (§4.4 "Loop"): the same
// back-edge machinery as Theta, but AddLoopVar additionally materializes an
// explicit entry multiplexer choosing between the loop's seed value and its
// recycled register value, keyed by a dedicated "first iteration" predicate
// buffer threaded alongside the data loop vars as an ordinary loop var of its
// own. The exit side needs no separate node: a theta's structural output
// already performs that selection (continue vs. exit) natively, so
// ExitValue is a thin accessor over it rather than a synthesized branch
// (§4.4 Loop "internals are described by the theta and back-edge primitives
// above"). The HLS buffer-sizing pass that would size the predicate buffer
// for pipelined throughput is out of scope; Loop exposes the structural hook
// only (see DESIGN.md Open Questions).
type Loop struct {
	*Theta
	parent    *rvsdg.Region
	firstPre  *rvsdg.Argument
	firstPost *rvsdg.Result
}

// NewLoop constructs a Loop with no loop vars yet.
func NewLoop(region *rvsdg.Region) (*Loop, error) {
	t, err := NewTheta(region)
	if err != nil {
		return nil, err
	}
	return &Loop{Theta: t, parent: region}, nil
}

// ensureFirstFlag lazily adds the ctl2 "first iteration" loop var every entry
// mux keys off of: fed by a constant true from outside, reset to false at the
// end of every iteration's body.
func (l *Loop) ensureFirstFlag() error {
	if l.firstPre != nil {
		return nil
	}
	ctl2 := types.NewControlType(2)
	trueConst, err := l.parent.CreateNode(op.NewConstant(ctl2, 1), nil)
	if err != nil {
		return err
	}
	pre, post, _, err := l.Theta.AddLoopVar(trueConst.Output(0))
	if err != nil {
		return err
	}
	falseConst, err := l.Subregion().CreateNode(op.NewConstant(ctl2, 0), nil)
	if err != nil {
		return err
	}
	if err := l.Theta.SetPostResult(post, falseConst.Output(0)); err != nil {
		return err
	}
	l.firstPre, l.firstPost = pre, post
	return nil
}

// AddLoopVar adds a data loop variable fed initially by input, alongside (on
// first call) the predicate-buffer flag var above. It returns the entry mux
// node — the value the loop body should read in place of the raw
// pre-argument — plus the usual theta handles so SetPostResult can still
// target the underlying recurrence directly.
func (l *Loop) AddLoopVar(input rvsdg.Origin) (mux *rvsdg.Node, pre *rvsdg.Argument, post *rvsdg.Result, out *rvsdg.Output, err error) {
	if err = l.ensureFirstFlag(); err != nil {
		return
	}
	typ := input.Type()

	// seed: an invariant loop var carrying the original input unchanged every
	// iteration, so the entry mux can still pick it on the first pass after
	// the real recurrence's pre-argument has already rolled over.
	seedPre, seedPost, _, err := l.Theta.AddLoopVar(input)
	if err != nil {
		return
	}
	if err = l.Theta.SetPostResult(seedPost, seedPre); err != nil {
		return
	}

	pre, post, out, err = l.Theta.AddLoopVar(input)
	if err != nil {
		return
	}

	// alt index 0 (first==0, i.e. not the first iteration): the recycled
	// register value. alt index 1 (first==1): the seed.
	mux, err = l.Subregion().CreateNode(&op.SelectOp{ValueType: typ, NumAlternatives: 2},
		[]rvsdg.Origin{l.firstPre, pre, seedPre})
	return
}

// ExitValue returns the theta's own structural output for loop var i.
func (l *Loop) ExitValue(i int) *rvsdg.Output { return l.LoopVarOutput(i) }
