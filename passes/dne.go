// Package passes implements graph-level transformation passes built on top
// of the rvsdg/nodes/subst substrate: inlining, dead-node elimination, loop
// unrolling and predicate correlation (§4.7-4.10).
package passes

import "github.com/rvsdg-ir/core/rvsdg"

// DeadNodeElimination sweeps r bottom-up to a fixed point, removing every
// node with no live users, including recursing into subregions first so a
// structural node whose entire body becomes dead can itself be pruned
// (§4.8, §8 property 4 "dead-node idempotence": re-running after a DNE pass
// with no other mutation is a no-op, guaranteed by Region.Prune already
// being idempotent).
func DeadNodeElimination(r *rvsdg.Region) int {
	removed := 0
	for _, n := range append([]*rvsdg.Node(nil), r.Nodes()...) {
		for _, sub := range n.Subregions() {
			removed += DeadNodeElimination(sub)
		}
	}
	removed += r.Prune()
	return removed
}
