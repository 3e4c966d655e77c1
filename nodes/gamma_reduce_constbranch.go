package nodes

import (
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
)

// ReduceConstantBranches implements §4.4 Gamma reduction (3) ("control-
// constant reduction"): when every subregion's exit result for var oi is a
// constant (the constants need not be distinct), the exit var can be replaced by a single select keyed
// directly on the gamma's predicate, without needing the gamma at all for
// that value (§8 scenario B). Unlike the literal "re-parameterized match"
// wording, our operation vocabulary already has comparisons produce a
// control-typed value directly (BinaryArithOp{Eq} results in ctl2), so the
// fused select's predicate is simply the gamma's own predicate input —
// see DESIGN.md for the worked rationale.
func (g *Gamma) ReduceConstantBranches(oi int) (*rvsdg.Output, bool, error) {
	out := g.Output(oi)
	if len(out.Users()) == 0 {
		return nil, false, nil // nothing left to divert: already reduced, or genuinely dead
	}

	n := len(g.Subregions())
	consts := make([]*op.ConstantOp, n)
	for si, sub := range g.Subregions() {
		res := sub.Results()[oi]
		out, ok := res.Origin().(*rvsdg.Output)
		if !ok {
			return nil, false, nil
		}
		c, ok := out.Node().Operation().(*op.ConstantOp)
		if !ok {
			return nil, false, nil
		}
		consts[si] = c
	}

	parent := g.Region()
	predOrigin := g.Predicate().Origin()
	selectOp := &op.SelectOp{ValueType: consts[0].Type, NumAlternatives: n}
	origins := make([]rvsdg.Origin, n+1)
	origins[0] = predOrigin
	for i, c := range consts {
		cNode, err := parent.CreateNode(op.NewConstant(c.Type, c.Value), nil)
		if err != nil {
			return nil, false, err
		}
		origins[i+1] = cNode.Output(0)
	}
	selNode, err := parent.CreateNode(selectOp, origins)
	if err != nil {
		return nil, false, err
	}
	selOut := selNode.Output(0)

	for _, user := range append([]rvsdg.Reader(nil), out.Users()...) {
		switch u := user.(type) {
		case *rvsdg.Input:
			if err := rvsdg.Divert(u, selOut); err != nil {
				return nil, false, err
			}
		case *rvsdg.Result:
			if err := rvsdg.DivertResult(u, selOut); err != nil {
				return nil, false, err
			}
		}
	}
	return selOut, true, nil
}
