// Package subst implements the substitution map and the generic node/region
// copy machinery (§4.5): deep-copying a region into a (possibly different)
// target region while rewiring origins through a substitution map. Theta
// back-edges need no separate repair phase (see copySubregions).
package subst

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdgerr"
)

// Map is a partial function from origins to origins (outputs or arguments,
// either of which may map to either), used to rewire operand origins during copy (§4.5). It is a flat
// hash table keyed by origin identity, forkable per subregion to avoid
// copying large tables (§9 Design Notes "Substitution maps").
type Map struct {
	parent *Map
	table  map[rvsdg.Origin]rvsdg.Origin
}

// New returns an empty substitution map.
func New() *Map { return &Map{table: make(map[rvsdg.Origin]rvsdg.Origin)} }

// Fork returns a child map overlaying m: lookups miss into the parent, but
// writes never mutate it.
func (m *Map) Fork() *Map { return &Map{parent: m, table: make(map[rvsdg.Origin]rvsdg.Origin)} }

// Set records that original maps to image.
func (m *Map) Set(original, image rvsdg.Origin) { m.table[original] = image }

// Lookup returns the image of original and whether it was found (in m or any
// ancestor fork).
func (m *Map) Lookup(original rvsdg.Origin) (rvsdg.Origin, bool) {
	for cur := m; cur != nil; cur = cur.parent {
		if img, ok := cur.table[original]; ok {
			return img, true
		}
	}
	return nil, false
}

// resolve maps an origin through m if present, otherwise returns it
// unchanged — the original "must be visible from targetRegion" per §4.5
// step 1.
func resolve(m *Map, origin rvsdg.Origin) rvsdg.Origin {
	if img, ok := m.Lookup(origin); ok {
		return img
	}
	return origin
}

// CopyNode implements the per-node copy contract of §4.5: constructs a new
// node in target with the same operation and (mapped) origins, recursing
// into subregions for structural nodes and repairing theta-style back-edges.
// It inserts the node's own outputs into m as images of the originals before
// returning, per §4.5 step 5.
func CopyNode(n *rvsdg.Node, target *rvsdg.Region, m *Map) (*rvsdg.Node, error) {
	origins := make([]rvsdg.Origin, n.NumInputs())
	for i, in := range n.Inputs() {
		origins[i] = resolve(m, in.Origin())
	}
	operation := n.Operation().Copy()

	var clone *rvsdg.Node
	var err error
	if structuralOp, ok := operation.(op.Structural); ok {
		clone, err = target.CreateStructuralNode(structuralOp, origins)
	} else {
		clone, err = target.CreateNode(operation, origins)
	}
	if err != nil {
		return nil, fmt.Errorf("copy n%d: %w", n.ID(), err)
	}

	for i, out := range n.Outputs() {
		m.Set(out, clone.Output(i))
	}

	if n.IsStructural() {
		if err := copySubregions(n, clone, m); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

// copySubregions clones each subregion of n into the corresponding subregion
// of clone, following §4.5 step 3-4. Arguments are mirrored structurally
// (same type and label, same order) regardless of node kind — a back-edge
// argument is simply an argument nothing outside the region maps to, and
// mirroring it before the body is cloned is exactly the "create the argument
// first" half of §3 Back-edge's circular-by-construction rule; Go's pointer
// identity (fork already holds the new argument before any node referencing
// it is cloned) gives us the forward reference the source's two-phase
// raw-pointer repair exists to simulate (§9 Design Notes), so no separate
// patch step is needed after the body is cloned.
func copySubregions(n, clone *rvsdg.Node, m *Map) error {
	for si, srcRegion := range n.Subregions() {
		dstRegion := clone.Subregions()[si]
		fork := m.Fork()

		for _, arg := range srcRegion.Arguments() {
			dstArg := dstRegion.AddArgument(arg.Type(), arg.Label())
			m.Set(arg, dstArg)
			fork.Set(arg, dstArg)
		}

		// Clone the subregion's nodes top-down (construction order is
		// already a valid topological order, §3 Node "DAG").
		for _, sn := range srcRegion.Nodes() {
			if _, err := CopyNode(sn, dstRegion, fork); err != nil {
				return err
			}
		}

		// Exit results: wired to the mapped origin of the originals' exit
		// results (§4.5 step 3).
		for ri, res := range srcRegion.Results() {
			origin := resolve(fork, res.Origin())
			if _, err := dstRegion.AddResult(origin, res.Type(), res.Label()); err != nil {
				return fmt.Errorf("%w: cloning result %d of subregion %d", err, ri, si)
			}
		}
	}
	return nil
}

// CopyRegion clones every node of src into dst (assumed to already have the
// same argument count/types as src, e.g. as set up by a structural node
// constructor), recording every mapping in m itself (no fork is made), so
// callers can inspect the mapping afterward. This is the entry point for
// whole-graph or whole-subregion copies outside of CopyNode's structural
// recursion (§4.5).
func CopyRegion(src, dst *rvsdg.Region, m *Map) error {
	if len(src.Arguments()) != len(dst.Arguments()) {
		return fmt.Errorf("%w: copy region: argument count mismatch (%d vs %d)", rvsdgerr.ErrStructural, len(src.Arguments()), len(dst.Arguments()))
	}
	for i, a := range src.Arguments() {
		m.Set(a, dst.Arguments()[i])
	}
	for _, n := range src.Nodes() {
		if _, err := CopyNode(n, dst, m); err != nil {
			return err
		}
	}
	return nil
}
