package pointsto

import (
	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

// Result is the outcome of running the analysis: a classification of every
// pointer-producing origin's equivalence class (§4.6.1).
type Result struct {
	classOf    map[*rvsdg.Output]*class
	argClasses map[*rvsdg.Argument]*class
}

// PointsTo returns the set of memory nodes out may point to, and whether it
// may point to an object the analysis could not resolve (§4.6.1
// "mayPointToUnknown").
func (r *Result) PointsTo(out *rvsdg.Output) ([]Location, bool) {
	c, ok := r.classOf[out]
	if !ok {
		return nil, true
	}
	c = find(c)
	locs := make([]Location, 0, len(c.pointsTo))
	for loc := range c.pointsTo {
		locs = append(locs, loc)
	}
	return locs, c.mayPointToUnknown
}

// Run performs the flow-insensitive Steensgaard-style analysis over every
// region of g, returning a Result keyed by pointer-typed output (§4.6.1-2).
func Run(g *rvsdg.Graph) *Result {
	r := &Result{classOf: make(map[*rvsdg.Output]*class), argClasses: make(map[*rvsdg.Argument]*class)}
	r.walkRegion(g.Root())
	return r
}

func (r *Result) classFor(out *rvsdg.Output) *class {
	if c, ok := r.classOf[out]; ok {
		return c
	}
	c := newClass()
	r.classOf[out] = c
	return c
}

// originClass resolves the class for any pointer-typed Origin, creating a
// fresh unconstrained class for region Arguments seen for the first time
// (e.g. a lambda parameter, or a gamma/theta loop-carried pointer — treated
// as opaque incoming values until unified by use, §4.6.1).
func (r *Result) originClass(origin rvsdg.Origin) *class {
	switch o := origin.(type) {
	case *rvsdg.Output:
		return r.classFor(o)
	case *rvsdg.Argument:
		if c, ok := r.argClasses[o]; ok {
			return c
		}
		c := newClass()
		r.argClasses[o] = c
		return c
	}
	return newClass()
}

func (r *Result) refOf(c *class) *class {
	root := find(c)
	if root.ref == nil {
		root.ref = newClass()
	}
	return root.ref
}

// unify merges a and b's equivalence classes and, if both already have a
// dereference (ref) class, cascades the unification onto those too — the
// standard Steensgaard "unify-on-demand" rule.
func (r *Result) unify(a, b *class) *class {
	ra, rb := find(a), find(b)
	if ra == rb {
		return ra
	}
	aRef, bRef := ra.ref, rb.ref
	merged := union(ra, rb)
	switch {
	case aRef != nil && bRef != nil:
		r.unify(aRef, bRef)
	case bRef != nil:
		merged.ref = bRef
	case aRef != nil:
		merged.ref = aRef
	}
	return merged
}

func (r *Result) walkRegion(region *rvsdg.Region) {
	for _, n := range region.Nodes() {
		r.walkNode(n)
	}
}

func isPointer(t types.Type) bool { return t != nil && t.Kind() == types.KindPointer }

func (r *Result) walkNode(n *rvsdg.Node) {
	switch o := n.Operation().(type) {
	case *op.AllocaOp:
		c := r.classFor(n.Output(0))
		c.pointsTo[Location{Kind: KindAlloca, ID: n.ID()}] = true
	case *op.MallocOp:
		c := r.classFor(n.Output(0))
		c.pointsTo[Location{Kind: KindMalloc, ID: n.ID()}] = true
	case *op.ImportOp:
		if isPointer(o.Type) {
			c := r.classFor(n.Output(0))
			c.pointsTo[Location{Kind: KindImport, ID: n.ID(), Name: o.Symbol}] = true
		}
	case *op.LoadOp:
		addr := r.originClass(n.Input(0).Origin())
		if isPointer(o.ValueType) {
			r.unify(r.classFor(n.Output(0)), r.refOf(addr))
		}
	case *op.StoreOp:
		addr := r.originClass(n.Input(0).Origin())
		if isPointer(o.ValueType) {
			val := r.originClass(n.Input(1).Origin())
			r.unify(r.refOf(addr), val)
		}
	case *op.MemcpyOp:
		// Current behavior joins exactly one level of indirection (§9 Design
		// Notes open question, resolved conservatively): the two addresses'
		// pointees are unified, but not the pointees' own pointees.
		dst := r.originClass(n.Input(0).Origin())
		src := r.originClass(n.Input(1).Origin())
		r.unify(r.refOf(dst), r.refOf(src))
	case *op.CallOp:
		r.walkCall(n, o)
	case *op.GepOp:
		r.unify(r.classFor(n.Output(0)), r.originClass(n.Input(0).Origin()))
	case *op.BitcastOp:
		if isPointer(o.From) && isPointer(o.To) {
			r.unify(r.classFor(n.Output(0)), r.originClass(n.Input(0).Origin()))
		}
	case *op.SelectOp:
		if isPointer(o.ValueType) {
			result := r.classFor(n.Output(0))
			for _, in := range n.Inputs()[1:] {
				r.unify(result, r.originClass(in.Origin()))
			}
		}
	case *op.Ptr2IntOp:
		// §4.6.1 "ptr2int: mark mayPointToUnknown" — the integer carries no
		// pointer identity of its own, but the source pointer's class is
		// still marked since a round-trip through Bits2PtrOp can resurrect an
		// alias to it that this pass cannot trace.
		find(r.originClass(n.Input(0).Origin())).mayPointToUnknown = true
	case *op.Bits2PtrOp:
		find(r.classFor(n.Output(0))).mayPointToUnknown = true
	}

	for _, sub := range n.Subregions() {
		r.walkRegion(sub)
	}
}

// walkCall dispatches between the two call shapes §4.6.1 distinguishes: a
// direct call joins its argument/result registers with the callee's formal
// parameters/returns; an indirect call's target is unresolved by this
// flow-insensitive pass, so every pointer-typed operand and result is
// conservatively marked mayPointToUnknown instead.
func (r *Result) walkCall(n *rvsdg.Node, c *op.CallOp) {
	if c.Direct {
		if callee := directCallee(n); callee != nil {
			r.joinDirectCall(n, c, callee)
			return
		}
	}
	r.markCallUnknown(n, c)
}

// directCallee resolves the lambda a direct call's address operand traces to
// (§4.6.1 "Direct call"). A CallOp carries no node identity of its own (see
// op.CallOp's doc comment), so the callee is found by following the address
// operand back to a lambda's Address() output, exactly as InlineEligible
// does (passes/inline.go).
func directCallee(n *rvsdg.Node) *nodes.Lambda {
	out, ok := n.Input(0).Origin().(*rvsdg.Output)
	if !ok || out.Index() != 0 {
		return nil
	}
	if _, ok := out.Node().Operation().(*nodes.LambdaOp); !ok {
		return nil
	}
	return &nodes.Lambda{Node: out.Node()}
}

// joinDirectCall implements §4.6.1 "Direct call: argument registers join
// formal-parameter registers; result registers join return registers" — the
// precise interprocedural rule, as opposed to markCallUnknown's conservative
// fallback for calls whose target cannot be resolved.
func (r *Result) joinDirectCall(n *rvsdg.Node, c *op.CallOp, callee *nodes.Lambda) {
	for i, t := range c.FuncType.Arguments {
		if !isPointer(t) {
			continue
		}
		r.unify(r.originClass(n.Input(1+i).Origin()), r.originClass(callee.Argument(i)))
	}
	results := callee.Subregion().Results()
	for i, t := range c.FuncType.Results {
		if !isPointer(t) || i >= len(results) {
			continue
		}
		r.unify(r.classFor(n.Output(i)), r.originClass(results[i].Origin()))
	}
}

// markCallUnknown is the conservative §4.6.1 "mayPointToUnknown" fallback
// for a call whose callee is not statically resolvable: without an
// interprocedural summary, it may stash any pointer argument into global
// state or return an alias to anything reachable.
func (r *Result) markCallUnknown(n *rvsdg.Node, c *op.CallOp) {
	argTypes := c.ArgumentTypes()
	for i, in := range n.Inputs() {
		if i < len(argTypes) && isPointer(argTypes[i]) {
			find(r.originClass(in.Origin())).mayPointToUnknown = true
		}
	}
	for i, out := range n.Outputs() {
		if i < len(c.FuncType.Results) && isPointer(c.FuncType.Results[i]) {
			find(r.classFor(out)).mayPointToUnknown = true
		}
	}
}
