package passes

import (
	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
)

// CorrelatePredicate implements §4.10: when a theta's tail predicate was
// synthesized from a two-alternative gamma whose every branch produces a
// constant, the predicate is redundant — it carries no information beyond
// the gamma's own predicate, which selected which constant to produce in
// the first place. Diverting the theta predicate straight to the gamma's
// predicate input removes that dependency, so a later DeadNodeElimination
// pass can erase the gamma once nothing else needs its constant-producing
// bodies. Reports whether the rewrite applied.
func CorrelatePredicate(t *nodes.Theta) (bool, error) {
	predOut, ok := t.Predicate().Origin().(*rvsdg.Output)
	if !ok {
		return false, nil
	}
	if _, ok := predOut.Node().Operation().(*nodes.GammaOp); !ok {
		return false, nil
	}
	g := nodes.Gamma{Node: predOut.Node()}
	if len(g.Subregions()) != 2 {
		return false, nil
	}

	oi := predOut.Index()
	for _, sub := range g.Subregions() {
		out, ok := sub.Results()[oi].Origin().(*rvsdg.Output)
		if !ok {
			return false, nil
		}
		if _, ok := out.Node().Operation().(*op.ConstantOp); !ok {
			return false, nil
		}
	}

	if err := rvsdg.DivertResult(t.Predicate(), g.Predicate().Origin()); err != nil {
		return false, err
	}
	return true, nil
}
