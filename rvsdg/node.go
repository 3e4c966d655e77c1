package rvsdg

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdgerr"
	"github.com/rvsdg-ir/core/types"
)

// Node is a vertex owning an ordered input vector and an ordered output
// vector, referencing one Operation. Every node lives in exactly one Region
// (§3 Node).
type Node struct {
	id      int
	region  *Region
	op      op.Operation
	inputs  []*Input
	outputs []*Output
	// subregions is non-empty only for nodes whose operation is
	// op.Structural (§4.4).
	subregions []*Region
	depth      int
}

// ID is a stable debug identifier, unique within the owning Graph, used by
// the textual dump format (§6).
func (n *Node) ID() int              { return n.id }
func (n *Node) Region() *Region      { return n.region }
func (n *Node) Operation() op.Operation { return n.op }
func (n *Node) Inputs() []*Input     { return n.inputs }
func (n *Node) Outputs() []*Output   { return n.outputs }
func (n *Node) Input(i int) *Input   { return n.inputs[i] }
func (n *Node) Output(i int) *Output { return n.outputs[i] }
func (n *Node) NumInputs() int       { return len(n.inputs) }
func (n *Node) NumOutputs() int      { return len(n.outputs) }
func (n *Node) Depth() int           { return n.depth }

// Subregions returns the subregions owned by this node; empty for simple
// nodes.
func (n *Node) Subregions() []*Region { return n.subregions }

// Subregion is a convenience accessor for single-subregion structural nodes
// (theta, lambda, phi, delta).
func (n *Node) Subregion() *Region {
	if len(n.subregions) == 0 {
		return nil
	}
	return n.subregions[0]
}

// IsDead reports whether every output has zero users (§3 Node).
func (n *Node) IsDead() bool {
	for _, o := range n.outputs {
		if !o.IsDead() {
			return false
		}
	}
	return true
}

// IsStructural reports whether this node owns one or more subregions.
func (n *Node) IsStructural() bool { return len(n.subregions) > 0 }

func (n *Node) String() string {
	return fmt.Sprintf("n%d[%s]", n.id, n.op.Name())
}

// AppendInput adds a new input port to n, wired to origin, after
// construction. Structural nodes use this to add entry/loop/context
// variables one at a time (§4.4 "Adding a loop var appends the structural
// input... atomically").
func (n *Node) AppendInput(origin Origin) (*Input, error) {
	if origin.Region() != n.region {
		return nil, fmt.Errorf("%w: new input for n%d not visible from this region", rvsdgerr.ErrNotVisible, n.id)
	}
	in := &Input{node: n, index: len(n.inputs), typ: origin.Type(), origin: origin}
	origin.addUser(in)
	n.inputs = append(n.inputs, in)
	n.recomputeDepth()
	if len(n.region.topNodes) > 0 {
		delete(n.region.topNodes, n)
	}
	if out, ok := origin.(*Output); ok && out.node.region == n.region {
		delete(n.region.bottomNodes, out.node)
	}
	return in, nil
}

// AppendOutput adds a new output port of type t to n, after construction.
func (n *Node) AppendOutput(t types.Type) *Output {
	out := &Output{node: n, index: len(n.outputs), typ: t}
	n.outputs = append(n.outputs, out)
	return out
}

func (n *Node) recomputeDepth() {
	max := 0
	for _, in := range n.inputs {
		if out, ok := in.origin.(*Output); ok {
			if d := out.node.depth + 1; d > max {
				max = d
			}
		}
	}
	n.depth = max
}

// Divert changes in's origin, maintaining the user sets of both the old and
// new origin, and re-deriving the node's depth. newOrigin must be visible
// from in's region and type-compatible (§3 Lifecycle "diverting").
func Divert(in *Input, newOrigin Origin) error {
	if newOrigin.Region() != in.Region() {
		return fmt.Errorf("%w: input of n%d not visible from region of new origin", rvsdgerr.ErrNotVisible, in.node.id)
	}
	if !newOrigin.Type().Equal(in.typ) {
		return fmt.Errorf("%w: input expects %s, origin produces %s", rvsdgerr.ErrTypeMismatch, in.typ, newOrigin.Type())
	}
	if in.origin != nil {
		in.origin.removeUser(in)
	}
	in.origin = newOrigin
	newOrigin.addUser(in)
	in.node.recomputeDepth()
	return nil
}

// DivertResult is the Result analogue of Divert, used when rewiring a
// structural exit/loop/context result to a new origin inside its subregion.
func DivertResult(r *Result, newOrigin Origin) error {
	if newOrigin.Region() != r.Region() {
		return fmt.Errorf("%w: result not visible from region of new origin", rvsdgerr.ErrNotVisible)
	}
	if !newOrigin.Type().Equal(r.typ) {
		return fmt.Errorf("%w: result expects %s, origin produces %s", rvsdgerr.ErrTypeMismatch, r.typ, newOrigin.Type())
	}
	if r.origin != nil {
		r.origin.removeUser(r)
	}
	r.origin = newOrigin
	newOrigin.addUser(r)
	return nil
}
