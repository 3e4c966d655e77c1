package normalize

import (
	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/rvsdg"
)

// Normalize drives the whole graph to its fixed point under the currently
// configured per-kind normal-form toggles (§4.3, §6): each region is
// processed bottom-up (subregions before their owner, so structural
// reductions observe an already-normalized body), and within a region nodes
// are rewritten via an explicit worklist until no further rewrite applies
// (§9 Design Notes "Normalization fixed-point"). Returns the number of
// rewrites applied.
func Normalize(g *rvsdg.Graph) int {
	total := normalizeRegion(g, g.Root())
	g.MarkNormalized()
	return total
}

func normalizeRegion(g *rvsdg.Graph, r *rvsdg.Region) int {
	total := 0
	w := newWorklist()
	for _, n := range r.Nodes() {
		w.push(n)
	}

	for !w.empty() {
		n, ok := w.pop()
		if !ok {
			break
		}
		if n.Region() != r {
			continue // deleted or moved by an earlier rewrite
		}

		if n.IsStructural() {
			for _, sub := range n.Subregions() {
				total += normalizeRegion(g, sub)
			}
			if changed, err := rewriteStructural(n); err == nil && changed {
				total++
				w.pushUsers(n)
			}
			continue
		}

		nf := g.NormalForm(n.Operation().Name())
		if !nf.Mutable {
			continue
		}
		changed, err := rewriteSimple(n)
		if err != nil {
			continue
		}
		if changed {
			total++
			w.pushUsers(n)
		}
	}

	if removed, err := cseRegion(r); err == nil {
		total += removed
	}
	return total
}

// rewriteStructural applies the known structural-node reductions (§4.4) to
// n, which must already have normalized subregions. Reports whether a
// rewrite happened; n may have been deleted (gamma predicate-constant).
func rewriteStructural(n *rvsdg.Node) (bool, error) {
	switch n.Operation().(type) {
	case *nodes.GammaOp:
		g := nodes.Gamma{Node: n}
		if ok, err := g.ReducePredicateConstant(); err != nil {
			return false, err
		} else if ok {
			return true, nil
		}
		count, err := g.ReduceInvariantExitVars()
		if err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
		changed := false
		for oi := 0; oi < n.NumOutputs(); oi++ {
			if _, ok, err := g.ReduceConstantBranches(oi); err != nil {
				return changed, err
			} else if ok {
				changed = true
			}
		}
		return changed, nil

	case *nodes.ThetaOp:
		t := nodes.Theta{Node: n}
		changed := false
		for i := 0; i < t.NumLoopVars(); i++ {
			ok, err := t.ReduceInvariantLoopVar(i)
			if err != nil {
				return changed, err
			}
			changed = changed || ok
		}
		return changed, nil
	}
	return false, nil
}
