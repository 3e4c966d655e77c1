package rvsdg

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdgerr"
	"github.com/rvsdg-ir/core/types"
)

// Region is an ordered list of arguments and results plus the nodes it owns,
// either the graph root region or a structural node's subregion (§3 Region).
type Region struct {
	id    int
	graph *Graph
	// owner is the structural node this region is a subregion of, nil for
	// the graph's root region.
	owner *Node

	arguments []*Argument
	results   []*Result
	nodes     []*Node

	// topNodes/bottomNodes give O(1) traversal seed selection (§3 Region):
	// nodes with no node-input dependency / no node-output user within this
	// region.
	topNodes    map[*Node]struct{}
	bottomNodes map[*Node]struct{}
}

func newRegion(g *Graph, owner *Node) *Region {
	r := &Region{
		id:          g.nextRegionID(),
		graph:       g,
		owner:       owner,
		topNodes:    make(map[*Node]struct{}),
		bottomNodes: make(map[*Node]struct{}),
	}
	return r
}

func (r *Region) ID() int         { return r.id }
func (r *Region) Graph() *Graph   { return r.graph }
func (r *Region) Owner() *Node    { return r.owner }
func (r *Region) IsRoot() bool    { return r.owner == nil }
func (r *Region) Arguments() []*Argument { return r.arguments }
func (r *Region) Results() []*Result     { return r.results }
func (r *Region) Nodes() []*Node         { return r.nodes }

// AddArgument appends a region-scoped output of type t (§3 Region).
func (r *Region) AddArgument(t types.Type, label string) *Argument {
	a := &Argument{region: r, index: len(r.arguments), typ: t, label: label}
	r.arguments = append(r.arguments, a)
	return a
}

// AddResult appends a region-scoped input reading from origin (§3 Region).
// origin must already be visible from r.
func (r *Region) AddResult(origin Origin, t types.Type, label string) (*Result, error) {
	if origin != nil && origin.Region() != r {
		return nil, fmt.Errorf("%w: result origin not visible from this region", rvsdgerr.ErrNotVisible)
	}
	if origin != nil && !origin.Type().Equal(t) {
		return nil, fmt.Errorf("%w: result expects %s, origin produces %s", rvsdgerr.ErrTypeMismatch, t, origin.Type())
	}
	res := &Result{region: r, index: len(r.results), typ: t}
	res.label = label
	if origin != nil {
		res.origin = origin
		origin.addUser(res)
	}
	r.results = append(r.results, res)
	return res, nil
}

// AddBackEdge creates a back-edge argument/result pair: the argument is
// created first, then the result with the argument as its origin — circular
// by construction (§3 Back-edge). Only legal within a theta subregion; the
// nodes package enforces that context.
func (r *Region) AddBackEdge(t types.Type) (*Argument, *Result) {
	arg := r.AddArgument(t, "backedge")
	res := &Result{region: r, index: len(r.results), typ: t, origin: arg, label: "backedge"}
	arg.addUser(res)
	r.results = append(r.results, res)
	return arg, res
}

// CreateNode appends a new simple (non-structural) node to r in construction
// order, wiring its inputs to origins in argument order. Every origin must
// already be visible from r (§3 Ownership invariants).
func (r *Region) CreateNode(operation op.Operation, origins []Origin) (*Node, error) {
	if _, ok := operation.(op.Structural); ok {
		return nil, fmt.Errorf("%w: CreateNode used for structural operation %s, use CreateStructuralNode", rvsdgerr.ErrStructural, operation.Name())
	}
	return r.newNode(operation, origins, 0)
}

// CreateStructuralNode appends a structural node with NumSubregions() fresh
// subregions, wiring its inputs as in CreateNode (§4.4).
func (r *Region) CreateStructuralNode(operation op.Structural, origins []Origin) (*Node, error) {
	return r.newNode(operation, origins, operation.NumSubregions())
}

func (r *Region) newNode(operation op.Operation, origins []Origin, numSubregions int) (*Node, error) {
	argTypes := operation.ArgumentTypes()
	if len(argTypes) != len(origins) {
		return nil, fmt.Errorf("%w: %s declares %d inputs, got %d origins", rvsdgerr.ErrStructural, operation.Name(), len(argTypes), len(origins))
	}
	n := &Node{id: r.graph.nextNodeID(), region: r, op: operation}
	for i, origin := range origins {
		if origin.Region() != r {
			return nil, fmt.Errorf("%w: origin %d for %s not visible from this region", rvsdgerr.ErrNotVisible, i, operation.Name())
		}
		if !origin.Type().Equal(argTypes[i]) {
			return nil, fmt.Errorf("%w: %s input %d expects %s, got %s", rvsdgerr.ErrTypeMismatch, operation.Name(), i, argTypes[i], origin.Type())
		}
		in := &Input{node: n, index: i, typ: argTypes[i], origin: origin}
		origin.addUser(in)
		n.inputs = append(n.inputs, in)
	}
	for i, t := range operation.ResultTypes() {
		n.outputs = append(n.outputs, &Output{node: n, index: i, typ: t})
	}
	for i := 0; i < numSubregions; i++ {
		n.subregions = append(n.subregions, newRegion(r.graph, n))
	}
	n.recomputeDepth()
	r.attach(n)
	return n, nil
}

func (r *Region) attach(n *Node) {
	r.nodes = append(r.nodes, n)
	if len(n.inputs) == 0 {
		r.topNodes[n] = struct{}{}
	}
	r.bottomNodes[n] = struct{}{}
	// n's origins may have dropped out of bottomNodes now that they have a
	// user within this region.
	for _, in := range n.inputs {
		if out, ok := in.origin.(*Output); ok && out.node.region == r {
			delete(r.bottomNodes, out.node)
		}
	}
}

// DeleteNode removes n from its region. Forbidden while any of its outputs
// has a live user (§3 Ownership invariants "Destroying a node with a live
// user is forbidden").
func (r *Region) DeleteNode(n *Node) error {
	if n.region != r {
		return fmt.Errorf("%w: node n%d does not belong to this region", rvsdgerr.ErrStructural, n.id)
	}
	if !n.IsDead() {
		return fmt.Errorf("%w: node n%d has live users", rvsdgerr.ErrLiveUsers, n.id)
	}
	for _, in := range n.inputs {
		in.origin.removeUser(in)
	}
	idx := -1
	for i, nn := range r.nodes {
		if nn == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: node n%d not found in region", rvsdgerr.ErrStructural, n.id)
	}
	r.nodes = append(r.nodes[:idx], r.nodes[idx+1:]...)
	delete(r.topNodes, n)
	delete(r.bottomNodes, n)
	// Origins that lost their last in-region user may now be bottom nodes.
	for _, in := range n.inputs {
		if out, ok := in.origin.(*Output); ok && out.node.region == r && out.node.IsDead() {
			r.bottomNodes[out.node] = struct{}{}
		}
	}
	return nil
}

// Prune removes every dead node from r, repeating until fixed point; always
// safe to re-run (§3 Lifecycle, §8 property 4 "dead-node idempotence").
func (r *Region) Prune() int {
	removed := 0
	for {
		progress := false
		for _, n := range append([]*Node(nil), r.nodes...) {
			if n.IsDead() {
				if err := r.DeleteNode(n); err == nil {
					removed++
					progress = true
				}
			}
		}
		if !progress {
			break
		}
	}
	return removed
}
