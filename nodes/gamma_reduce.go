package nodes

import (
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/subst"
)

// ReducePredicateConstant implements §4.4 Gamma reduction (1): if the
// predicate is a constant, inline the selected subregion into the parent
// and remove the gamma. Reports whether a rewrite happened (§8 property 8,
// scenario B).
func (g *Gamma) ReducePredicateConstant() (bool, error) {
	pred := g.Predicate().Origin()
	out, ok := pred.(*rvsdg.Output)
	if !ok {
		return false, nil
	}
	c, ok := out.Node().Operation().(*op.ConstantOp)
	if !ok {
		return false, nil
	}
	alt := int(c.Value)
	if alt < 0 || alt >= len(g.Subregions()) {
		return false, nil
	}
	parent := g.Region()
	selected := g.Subregions()[alt]

	// Map the selected subregion's entry arguments to the entry vars'
	// structural input origins, then clone its body into the parent region.
	m := subst.New()
	for ai, arg := range selected.Arguments() {
		m.Set(arg, g.Input(ai+1).Origin())
	}
	for _, n := range selected.Nodes() {
		if _, err := subst.CopyNode(n, parent, m); err != nil {
			return false, err
		}
	}

	// Rewire every gamma output to the mapped origin of the selected
	// subregion's matching exit result.
	for oi, out := range g.Outputs() {
		res := selected.Results()[oi]
		newOrigin, ok := m.Lookup(res.Origin())
		if !ok {
			newOrigin = res.Origin()
		}
		for _, user := range append([]rvsdg.Reader(nil), out.Users()...) {
			if in, ok := user.(*rvsdg.Input); ok {
				if err := rvsdg.Divert(in, newOrigin); err != nil {
					return false, err
				}
			} else if res, ok := user.(*rvsdg.Result); ok {
				if err := rvsdg.DivertResult(res, newOrigin); err != nil {
					return false, err
				}
			}
		}
	}

	return true, parent.DeleteNode(g.Node)
}

// ReduceInvariantExitVars implements §4.4 Gamma reduction (2): an exit var
// whose every subregion's exit result originates from the same entry var's
// argument at that index is invariant; divert its users to that entry var's
// input origin directly. Returns the number of exit vars simplified.
func (g *Gamma) ReduceInvariantExitVars() (int, error) {
	simplified := 0
	for oi, out := range g.Outputs() {
		entryArgIdx, ok := invariantEntryArgIndex(g, oi)
		if !ok {
			continue
		}
		newOrigin := g.Input(entryArgIdx + 1).Origin()
		for _, user := range append([]rvsdg.Reader(nil), out.Users()...) {
			switch u := user.(type) {
			case *rvsdg.Input:
				if err := rvsdg.Divert(u, newOrigin); err != nil {
					return simplified, err
				}
			case *rvsdg.Result:
				if err := rvsdg.DivertResult(u, newOrigin); err != nil {
					return simplified, err
				}
			}
		}
		simplified++
	}
	return simplified, nil
}

// invariantEntryArgIndex reports the entry-var argument index every
// subregion's exit result oi resolves to, if they all agree.
func invariantEntryArgIndex(g *Gamma, oi int) (int, bool) {
	var found = -1
	for _, sub := range g.Subregions() {
		res := sub.Results()[oi]
		arg, ok := res.Origin().(*rvsdg.Argument)
		if !ok || arg.Region() != sub {
			return 0, false
		}
		if found == -1 {
			found = arg.Index()
		} else if found != arg.Index() {
			return 0, false
		}
	}
	if found == -1 {
		return 0, false
	}
	return found, true
}
