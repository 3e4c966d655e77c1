// Package nodes implements the standard structural node kinds: gamma, theta,
// lambda, phi and delta, with their entry/exit/loop/context-variable
// machinery (§4.4).
package nodes

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdgerr"
	"github.com/rvsdg-ir/core/types"
)

// GammaOp is the operation attribute of a gamma (conditional/switch) node:
// the alternative count plus the entry/exit var types, kept parallel to the
// node's ports so ArgumentTypes/ResultTypes can be derived (§4.4 Gamma).
type GammaOp struct {
	Alternatives int
	entryTypes   []types.Type // one per entry var, parallel to structural inputs[1:]
	exitTypes    []types.Type // one per exit var, parallel to structural outputs
}

func (g *GammaOp) Name() string { return "gamma" }
func (g *GammaOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, 1+len(g.entryTypes))
	args[0] = types.NewControlType(g.Alternatives)
	copy(args[1:], g.entryTypes)
	return args
}
func (g *GammaOp) ResultTypes() []types.Type { return append([]types.Type{}, g.exitTypes...) }
func (g *GammaOp) NumSubregions() int        { return g.Alternatives }
func (g *GammaOp) Copy() op.Operation {
	return &GammaOp{Alternatives: g.Alternatives,
		entryTypes: append([]types.Type{}, g.entryTypes...),
		exitTypes:  append([]types.Type{}, g.exitTypes...)}
}
func (g *GammaOp) String() string { return fmt.Sprintf("gamma/%d", g.Alternatives) }
func (g *GammaOp) Equal(o op.Operation) bool {
	other, ok := o.(*GammaOp)
	if !ok || other.Alternatives != g.Alternatives || len(other.entryTypes) != len(g.entryTypes) || len(other.exitTypes) != len(g.exitTypes) {
		return false
	}
	for i := range g.entryTypes {
		if !g.entryTypes[i].Equal(other.entryTypes[i]) {
			return false
		}
	}
	for i := range g.exitTypes {
		if !g.exitTypes[i].Equal(other.exitTypes[i]) {
			return false
		}
	}
	return true
}

// EntryArgToInput: entry var e lives at subregion argument index e, fed by
// structural input e+1 (input 0 is the predicate).
func (g *GammaOp) EntryArgToInput(subregionIndex, argIndex int) int { return argIndex + 1 }

// ExitResultToOutput: exit var e's result at index e in whichever subregion
// is selected feeds structural output e.
func (g *GammaOp) ExitResultToOutput(subregionIndex, resultIndex int) int { return resultIndex }

// Gamma wraps the generic *rvsdg.Node for a gamma, exposing typed accessors
// over its entry/exit variables.
type Gamma struct{ *rvsdg.Node }

// NewGamma constructs a gamma node with n alternatives selected by predicate,
// with no entry/exit vars yet; call AddEntryVar/AddExitVar to add them
// before the graph is otherwise used (§4.4 Gamma).
func NewGamma(region *rvsdg.Region, predicate rvsdg.Origin, n int) (*Gamma, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: gamma requires at least 2 alternatives, got %d", rvsdgerr.ErrStructural, n)
	}
	if !predicate.Type().Equal(types.NewControlType(n)) {
		return nil, fmt.Errorf("%w: gamma predicate must be ctl%d, got %s", rvsdgerr.ErrTypeMismatch, n, predicate.Type())
	}
	node, err := region.CreateStructuralNode(&GammaOp{Alternatives: n}, []rvsdg.Origin{predicate})
	if err != nil {
		return nil, err
	}
	return &Gamma{node}, nil
}

func (g *Gamma) op() *GammaOp { return g.Operation().(*GammaOp) }

// AddEntryVar adds a structural input routed into every subregion as an
// entry argument at the same index (§4.4 Gamma "entry variables"). Returns
// the per-subregion arguments in subregion order.
func (g *Gamma) AddEntryVar(origin rvsdg.Origin) ([]*rvsdg.Argument, error) {
	gop := g.op()
	t := origin.Type()
	if _, err := g.Node.AppendInput(origin); err != nil {
		return nil, err
	}
	gop.entryTypes = append(gop.entryTypes, t)
	args := make([]*rvsdg.Argument, len(g.Subregions()))
	for i, sub := range g.Subregions() {
		args[i] = sub.AddArgument(t, "entry")
	}
	return args, nil
}

// AddExitVar adds one exit result per subregion, sourced from exits (one
// origin per subregion, in subregion order), and one structural output
// (§4.4 Gamma "exit variables").
func (g *Gamma) AddExitVar(exits []rvsdg.Origin) (*rvsdg.Output, error) {
	gop := g.op()
	if len(exits) != len(g.Subregions()) {
		return nil, fmt.Errorf("%w: gamma has %d subregions, got %d exit origins", rvsdgerr.ErrStructural, len(g.Subregions()), len(exits))
	}
	t := exits[0].Type()
	for i, sub := range g.Subregions() {
		if _, err := sub.AddResult(exits[i], t, "exit"); err != nil {
			return nil, err
		}
	}
	gop.exitTypes = append(gop.exitTypes, t)
	return g.Node.AppendOutput(t), nil
}

// Predicate returns the gamma's predicate input.
func (g *Gamma) Predicate() *rvsdg.Input { return g.Input(0) }
