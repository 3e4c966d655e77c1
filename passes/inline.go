package passes

import (
	"fmt"

	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdgerr"
	"github.com/rvsdg-ir/core/subst"
)

// ExternLookup reports whether a symbol name is reserved by external
// linkage (e.g. the frontend's decouple_/hls_ prefixes) and must never be
// inlined away, even if it otherwise looks eligible (§4.7).
type ExternLookup func(symbol string) bool

// InlineEligible reports whether call is a direct call to a lambda with
// exactly one direct call site across the whole graph and no indirect
// callers reaching it — the only shape this pass inlines (§4.7 "Inlining
// eligibility"). lambdaAddr is the callee lambda's Address() output. extern,
// if non-nil, is consulted against lambda's Symbol: a reserved-prefix
// external is never eligible, regardless of call-site count (§4.7 "preserves
// decouple_/hls_-prefixed externals").
func InlineEligible(call *rvsdg.Node, lambda *nodes.Lambda, extern ExternLookup) bool {
	if extern != nil && lambda.Symbol() != "" && extern(lambda.Symbol()) {
		return false
	}
	lambdaAddr := lambda.Address()
	callOp, ok := call.Operation().(*op.CallOp)
	if !ok || !callOp.Direct {
		return false
	}
	if call.NumInputs() == 0 || call.Input(0).Origin() != rvsdg.Origin(lambdaAddr) {
		return false // call does not target this lambda
	}
	directCalls := 0
	for _, user := range lambdaAddr.Users() {
		in, ok := user.(*rvsdg.Input)
		if !ok {
			return false // used as a value somewhere other than a call's address operand: may be taken indirectly
		}
		if c, ok := in.Node().Operation().(*op.CallOp); ok && c.Direct && in.Index() == 0 {
			directCalls++
			continue
		}
		return false
	}
	return directCalls == 1
}

// Inline replaces call (whose callee is lambda, addressed by lambdaAddr)
// with the lambda body cloned into call's region: context var i is mapped to
// contextOrigins[i] (one origin per context var, in lambda's context-var
// order, each already visible from call's region), function argument i to
// call's operand 1+i, call's outputs are rewired to the lambda's region results, and the call
// node is deleted (§4.5, §4.7).
func Inline(call *rvsdg.Node, lambda *nodes.Lambda, contextOrigins []rvsdg.Origin) error {
	callOp, ok := call.Operation().(*op.CallOp)
	if !ok {
		return fmt.Errorf("%w: inline target n%d is not a call", rvsdgerr.ErrStructural, call.ID())
	}
	if len(contextOrigins) != lambda.NumContextVars() {
		return fmt.Errorf("%w: lambda n%d has %d context vars, got %d origins", rvsdgerr.ErrStructural, lambda.ID(), lambda.NumContextVars(), len(contextOrigins))
	}

	region := call.Region()
	m := subst.New()
	sub := lambda.Subregion()

	numArgs := len(callOp.FuncType.Arguments)
	const argStart = 1 // index 0 is the callee address operand
	for i := 0; i < numArgs; i++ {
		m.Set(lambda.Argument(i), call.Input(argStart+i).Origin())
	}
	for i, origin := range contextOrigins {
		m.Set(lambda.ContextArgument(i), origin)
	}

	for _, n := range sub.Nodes() {
		if _, err := subst.CopyNode(n, region, m); err != nil {
			return err
		}
	}

	for i, res := range sub.Results() {
		if i >= call.NumOutputs() {
			break // the trailing memory-state result has its own cloned origin, not a call output alias
		}
		newOrigin, ok := m.Lookup(res.Origin())
		if !ok {
			newOrigin = res.Origin()
		}
		out := call.Output(i)
		for _, user := range append([]rvsdg.Reader(nil), out.Users()...) {
			switch u := user.(type) {
			case *rvsdg.Input:
				if err := rvsdg.Divert(u, newOrigin); err != nil {
					return err
				}
			case *rvsdg.Result:
				if err := rvsdg.DivertResult(u, newOrigin); err != nil {
					return err
				}
			}
		}
	}

	return region.DeleteNode(call)
}
