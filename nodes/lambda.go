package nodes

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdgerr"
	"github.com/rvsdg-ir/core/types"
)

// LambdaOp is the operation attribute of a lambda (function definition) node.
// The structural output is function-pointer typed; it must match Signature
// exactly (§4.4 Lambda "output-signature(lambda) == function-type(operation)").
type LambdaOp struct {
	Signature *types.FunctionType
	Symbol    string       // external linkage name, if any (e.g. a decouple_/hls_-prefixed export); "" for a purely internal function
	ctxTypes  []types.Type // one per context var, placed after the function arguments in subregion order
}

func (l *LambdaOp) Name() string { return "lambda" }
func (l *LambdaOp) ArgumentTypes() []types.Type {
	return append([]types.Type{}, l.ctxTypes...)
}
func (l *LambdaOp) ResultTypes() []types.Type {
	return []types.Type{types.NewPointerType()}
}
func (l *LambdaOp) NumSubregions() int { return 1 }
func (l *LambdaOp) Copy() op.Operation {
	return &LambdaOp{Signature: l.Signature, Symbol: l.Symbol, ctxTypes: append([]types.Type{}, l.ctxTypes...)}
}
func (l *LambdaOp) String() string {
	if l.Symbol != "" {
		return fmt.Sprintf("lambda[%s]:%s", l.Symbol, l.Signature)
	}
	return fmt.Sprintf("lambda:%s", l.Signature)
}
func (l *LambdaOp) Equal(o op.Operation) bool {
	other, ok := o.(*LambdaOp)
	if !ok || !other.Signature.Equal(l.Signature) || other.Symbol != l.Symbol || len(other.ctxTypes) != len(l.ctxTypes) {
		return false
	}
	for i := range l.ctxTypes {
		if !l.ctxTypes[i].Equal(other.ctxTypes[i]) {
			return false
		}
	}
	return true
}

// Lambda wraps the generic *rvsdg.Node for a lambda, exposing typed
// accessors over its context variables and function arguments/results.
type Lambda struct{ *rvsdg.Node }

// NewLambda constructs a lambda with the given function signature, no
// context vars, and its function-argument subregion arguments pre-populated
// in signature order (§4.4 Lambda "function arguments: inner arguments
// prepended to the context variables").
func NewLambda(region *rvsdg.Region, signature *types.FunctionType) (*Lambda, error) {
	node, err := region.CreateStructuralNode(&LambdaOp{Signature: signature}, nil)
	if err != nil {
		return nil, err
	}
	l := &Lambda{node}
	sub := l.Subregion()
	for _, t := range signature.Arguments {
		sub.AddArgument(t, "arg")
	}
	return l, nil
}

func (l *Lambda) op() *LambdaOp { return l.Operation().(*LambdaOp) }

// AddContextVar adds a captured free variable: a structural input plus an
// inner argument. NewLambda pre-populates the subregion's function arguments
// first, at indices [0, numArgs) (§4.4 "function arguments: inner arguments
// prepended to the context variables"); since Subregion arguments are an
// append-only slice, every context var added here lands after them, at
// [numArgs, numArgs+numCtx), growing as this is called. Callers that need a
// context var's argument by index must therefore offset by the signature's
// argument count, not index from zero — see Argument and NumContextVars.
func (l *Lambda) AddContextVar(origin rvsdg.Origin) (*rvsdg.Argument, error) {
	lop := l.op()
	t := origin.Type()
	if _, err := l.Node.AppendInput(origin); err != nil {
		return nil, err
	}
	lop.ctxTypes = append(lop.ctxTypes, t)
	return l.Subregion().AddArgument(t, "ctx"), nil
}

// NumContextVars reports how many context variables have been added.
func (l *Lambda) NumContextVars() int { return len(l.op().ctxTypes) }

// NumArguments reports how many function arguments the signature declares.
func (l *Lambda) NumArguments() int { return len(l.op().Signature.Arguments) }

// Argument returns the subregion argument for function argument i (the
// inner arguments NewLambda populates ahead of any context vars).
func (l *Lambda) Argument(i int) *rvsdg.Argument { return l.Subregion().Arguments()[i] }

// ContextArgument returns the subregion argument for context var i, added by
// the i'th call to AddContextVar — found after all function arguments (see
// AddContextVar).
func (l *Lambda) ContextArgument(i int) *rvsdg.Argument {
	return l.Subregion().Arguments()[l.NumArguments()+i]
}

// SetResults adds the lambda's region results, one per Signature.Results
// entry, in order (§4.4 Lambda "function results").
func (l *Lambda) SetResults(origins []rvsdg.Origin) error {
	sig := l.op().Signature
	if len(origins) != len(sig.Results) {
		return fmt.Errorf("%w: lambda %s declares %d results, got %d origins", rvsdgerr.ErrStructural, sig, len(sig.Results), len(origins))
	}
	for i, o := range origins {
		if _, err := l.Subregion().AddResult(o, sig.Results[i], "result"); err != nil {
			return err
		}
	}
	return nil
}

// Address returns the lambda's structural output naming it from outside
// (function-pointer typed).
func (l *Lambda) Address() *rvsdg.Output { return l.Output(0) }

// Symbol returns the lambda's external linkage name, or "" if it is purely
// internal to the graph.
func (l *Lambda) Symbol() string { return l.op().Symbol }

// SetSymbol tags the lambda with an external linkage name (§4.7 Inline
// "preserves decouple_/hls_-prefixed externals" relies on this being set by
// the frontend for any function with such a reserved name).
func (l *Lambda) SetSymbol(symbol string) { l.op().Symbol = symbol }

// PruneUnusedContextVars removes context vars whose inner argument has no
// users, per §4.4 Lambda "pruning of unused context variables is an explicit
// operation". As with theta loop vars, physical port removal is not
// supported by the append-only node model (§9 Design Notes); this instead
// reports the indices of the context vars that qualify (i as passed to
// ContextArgument; structural input i) so
// a caller-level pass (e.g. dead-node elimination) can act on them once a
// compacting representation exists. See DESIGN.md.
func (l *Lambda) PruneUnusedContextVars() []int {
	var unused []int
	for i := 0; i < l.NumContextVars(); i++ {
		arg := l.ContextArgument(i)
		if len(arg.Users()) == 0 {
			unused = append(unused, i)
		}
	}
	return unused
}
