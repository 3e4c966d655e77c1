package nodes

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

// PhiOp is the operation attribute of a phi (mutually recursive bindings)
// node: one type per recursion var plus one per context var, the two kept
// separate so ArgumentTypes/ResultTypes can be derived (§4.4 Phi).
type PhiOp struct {
	recVarTypes []types.Type
	ctxTypes    []types.Type
}

func (p *PhiOp) Name() string { return "phi" }
func (p *PhiOp) ArgumentTypes() []types.Type {
	return append([]types.Type{}, p.ctxTypes...)
}
func (p *PhiOp) ResultTypes() []types.Type { return append([]types.Type{}, p.recVarTypes...) }
func (p *PhiOp) NumSubregions() int        { return 1 }
func (p *PhiOp) Copy() op.Operation {
	return &PhiOp{recVarTypes: append([]types.Type{}, p.recVarTypes...), ctxTypes: append([]types.Type{}, p.ctxTypes...)}
}
func (p *PhiOp) String() string { return fmt.Sprintf("phi/%d", len(p.recVarTypes)) }
func (p *PhiOp) Equal(o op.Operation) bool {
	other, ok := o.(*PhiOp)
	if !ok || len(other.recVarTypes) != len(p.recVarTypes) || len(other.ctxTypes) != len(p.ctxTypes) {
		return false
	}
	for i := range p.recVarTypes {
		if !p.recVarTypes[i].Equal(other.recVarTypes[i]) {
			return false
		}
	}
	for i := range p.ctxTypes {
		if !p.ctxTypes[i].Equal(other.ctxTypes[i]) {
			return false
		}
	}
	return true
}

// Phi wraps the generic *rvsdg.Node for a phi, exposing typed accessors over
// its recursion and context variables.
type Phi struct{ *rvsdg.Node }

// NewPhi constructs a phi with no recursion or context vars yet.
func NewPhi(region *rvsdg.Region) (*Phi, error) {
	node, err := region.CreateStructuralNode(&PhiOp{}, nil)
	if err != nil {
		return nil, err
	}
	return &Phi{node}, nil
}

func (p *Phi) op() *PhiOp { return p.Operation().(*PhiOp) }

// AddContextVar adds a captured free variable, as in lambda (§4.4 Phi
// "context variables as in lambda").
func (p *Phi) AddContextVar(origin rvsdg.Origin) (*rvsdg.Argument, error) {
	pop := p.op()
	t := origin.Type()
	if _, err := p.Node.AppendInput(origin); err != nil {
		return nil, err
	}
	pop.ctxTypes = append(pop.ctxTypes, t)
	return p.Subregion().AddArgument(t, "ctx"), nil
}

// AddRecursionVar adds a recursion variable of type t: simultaneously an
// inner argument, an outer structural output, and (once CloseRecursionVar is
// called) an inner region result — binding a name usable before its definition exists,
// the essence of mutual recursion (§4.4 Phi "recursion variables").
func (p *Phi) AddRecursionVar(t types.Type) (*rvsdg.Argument, *rvsdg.Output) {
	pop := p.op()
	pop.recVarTypes = append(pop.recVarTypes, t)
	arg := p.Subregion().AddArgument(t, "recvar")
	out := p.Node.AppendOutput(t)
	return arg, out
}

// CloseRecursionVar adds the inner region result binding recursion var i to
// its definition (e.g. a lambda's Address()), completing the triple.
func (p *Phi) CloseRecursionVar(i int, definition rvsdg.Origin) (*rvsdg.Result, error) {
	t := p.op().recVarTypes[i]
	return p.Subregion().AddResult(definition, t, "recvar")
}

// RecursionVarArgument returns recursion var i's inner argument (visible to
// every binding in the subregion, including its own).
func (p *Phi) RecursionVarArgument(i int) *rvsdg.Argument { return p.Subregion().Arguments()[p.NumContextVars()+i] }

// NumContextVars reports how many context variables have been added.
func (p *Phi) NumContextVars() int { return len(p.op().ctxTypes) }
