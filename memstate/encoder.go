// Package memstate implements the memory-state encoding pass (§4.6.3): it
// walks a graph holding per-region state maps and threads a dedicated state
// edge per memory node through every load/store/free/call/memcpy and
// structural node boundary.
package memstate

import (
	"fmt"

	"github.com/rvsdg-ir/core/modref"
	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/pointsto"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdgerr"
	"github.com/rvsdg-ir/core/types"
)

// stateMap is, for the current region, a total map from memory node to the
// current state-edge value for that memory node in this region (§4.6.3).
type stateMap struct {
	parent *stateMap
	values map[pointsto.Location]rvsdg.Origin
}

func newStateMap() *stateMap { return &stateMap{values: make(map[pointsto.Location]rvsdg.Origin)} }

func (m *stateMap) fork() *stateMap { return &stateMap{parent: m, values: make(map[pointsto.Location]rvsdg.Origin)} }

func (m *stateMap) get(loc pointsto.Location) (rvsdg.Origin, bool) {
	for cur := m; cur != nil; cur = cur.parent {
		if v, ok := cur.values[loc]; ok {
			return v, true
		}
	}
	return nil, false
}

func (m *stateMap) set(loc pointsto.Location, origin rvsdg.Origin) { m.values[loc] = origin }

// Encoder holds the per-region state maps and the points-to/modref results
// it threads state edges from (§4.6.3).
type Encoder struct {
	pr  *pointsto.Result
	sum modref.Summarizer
}

// New returns an encoder backed by the given points-to result and memory-node
// summarizer.
func New(pr *pointsto.Result, sum modref.Summarizer) *Encoder {
	return &Encoder{pr: pr, sum: sum}
}

// memT is the memory-state type every state edge carries.
var memT = types.NewMemoryStateType()

// undef creates a new UndefOp node in region (one per call; existing ones are
// not reused) and returns its output: the conservative fallback sentinel for a memory node with no prior state
// (§4.6.3 "Failure semantics", §7).
func undef(region *rvsdg.Region) (rvsdg.Origin, error) {
	n, err := region.CreateNode(&op.UndefOp{Type: memT}, nil)
	if err != nil {
		return nil, err
	}
	return n.Output(0), nil
}

// EncodeLambda runs the encoder over a single lambda's subregion, splitting
// its single memory-state argument into one edge per memory node the
// lambda's entry set names, and merging them back at exit (§4.6.3 "lambda").
func (e *Encoder) EncodeLambda(lambda *nodes.Lambda) error {
	entrySet := e.sum.GetLambdaEntryNodes(lambda.Node)
	sub := lambda.Subregion()

	// Find the single memory-state argument (one of the context/function
	// arguments with memory-state type), per §4.6.3's "single lambda-memory-
	// state argument".
	var memArg *rvsdg.Argument
	for _, a := range sub.Arguments() {
		if a.Type().Kind() == types.KindMemoryState {
			memArg = a
			break
		}
	}
	if memArg == nil {
		return fmt.Errorf("%w: lambda n%d has no memory-state argument to encode", rvsdgerr.ErrStructural, lambda.ID())
	}

	splitOp := &op.MemoryStateSplitOp{Arity: len(entrySet), Tag: "lambda-entry"}
	splitNode, err := sub.CreateNode(splitOp, []rvsdg.Origin{memArg})
	if err != nil {
		return err
	}

	m := newStateMap()
	for i, loc := range entrySet {
		m.set(loc, splitNode.Output(i))
	}

	// Single-use hot-path dependency (§4.6.3): a MemoryStateMerge immediately
	// consuming every split output, so every state consumer in the body
	// transitively depends on the split and later passes cannot sink it
	// below a consumer.
	if len(entrySet) > 0 {
		anchorOrigins := make([]rvsdg.Origin, len(entrySet))
		for i := range entrySet {
			anchorOrigins[i] = splitNode.Output(i)
		}
		if _, err := sub.CreateNode(&op.MemoryStateMergeOp{Arity: len(entrySet), Tag: "lambda-entry-anchor"}, anchorOrigins); err != nil {
			return err
		}
	}

	if err := e.walkRegion(sub, m); err != nil {
		return err
	}

	exitSet := e.sum.GetLambdaExitNodes(lambda.Node)
	mergeOrigins := make([]rvsdg.Origin, len(exitSet))
	for i, loc := range exitSet {
		origin, ok := m.get(loc)
		if !ok {
			origin, err = undef(sub)
			if err != nil {
				return err
			}
		}
		mergeOrigins[i] = origin
	}
	mergeNode, err := sub.CreateNode(&op.MemoryStateMergeOp{Arity: len(exitSet), Tag: "lambda-exit"}, mergeOrigins)
	if err != nil {
		return err
	}

	// The caller is expected to have already added the function's value
	// results via Lambda.SetResults; the memory-state merge is appended as
	// one final subregion result on top of those.
	_, err = sub.AddResult(mergeNode.Output(0), memT, "memstate-exit")
	return err
}

// walkRegion threads state edges through every operation of r top-down,
// forking m for any subregion encountered (§4.6.3).
func (e *Encoder) walkRegion(r *rvsdg.Region, m *stateMap) error {
	for _, n := range r.Nodes() {
		if err := e.walkNode(n, m); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) walkNode(n *rvsdg.Node, m *stateMap) error {
	switch o := n.Operation().(type) {
	case *op.AllocaOp:
		loc := pointsto.Location{Kind: pointsto.KindAlloca, ID: n.ID()}
		m.set(loc, n.Output(1))
	case *op.MallocOp:
		loc := pointsto.Location{Kind: pointsto.KindMalloc, ID: n.ID()}
		m.set(loc, n.Output(1))
	case *op.LoadOp:
		return e.threadAddressed(n, o.MemoryStateCount, n.Input(0).Origin(), m)
	case *op.StoreOp:
		return e.threadAddressed(n, o.MemoryStateCount, n.Input(0).Origin(), m)
	case *op.FreeOp:
		return e.threadAddressed(n, o.MemoryStateCount, n.Input(0).Origin(), m)
	case *op.MemcpyOp:
		return e.threadMemcpy(n, o.MemoryStateCount, m)
	case *op.CallOp:
		return e.threadCall(n, m)
	case *nodes.GammaOp:
		return e.threadGamma(n, m)
	case *nodes.ThetaOp:
		return e.threadTheta(n, m)
	case *nodes.LambdaOp:
		// A nested lambda (e.g. inside a phi's subregion) is encoded through
		// its own dedicated entry point rather than a blind subregion walk,
		// since it needs the split/merge bracketing EncodeLambda builds, not
		// generic per-memory-node forking.
		l := nodes.Lambda{Node: n}
		return e.EncodeLambda(&l)
	}
	// Delta and phi carry no loads/stores of their own (a delta's subregion
	// computes a pure initializer; a phi's subregion holds lambda/delta
	// definitions, each encoded independently above), so no further
	// recursion is needed for them.
	return nil
}

// addressLocations returns the memory-node set an addressed operation's
// pointer operand may reach.
func (e *Encoder) addressLocations(addr rvsdg.Origin) []pointsto.Location {
	out, ok := addr.(*rvsdg.Output)
	if !ok {
		return nil
	}
	locs, _ := e.pr.PointsTo(out)
	return locs
}

// threadAddressed rewires a load/store/free node to the real per-memory-node
// state edges its address may reach, in set order, replacing its originally
// constructed placeholder memory-state ports (§4.6.3 "load"/"store"/"free").
func (e *Encoder) threadAddressed(n *rvsdg.Node, count int, addr rvsdg.Origin, m *stateMap) error {
	locs := e.addressLocations(addr)
	if len(locs) != count {
		return fmt.Errorf("%w: n%d declared %d memory-state ports, address reaches %d nodes", rvsdgerr.ErrStructural, n.ID(), count, len(locs))
	}
	memInputBase := n.NumInputs() - count
	for i, loc := range locs {
		in := n.Input(memInputBase + i)
		origin, ok := m.get(loc)
		if !ok {
			var err error
			origin, err = undef(n.Region())
			if err != nil {
				return err
			}
		}
		if err := rvsdg.Divert(in, origin); err != nil {
			return err
		}
	}
	memOutputBase := n.NumOutputs() - count
	for i, loc := range locs {
		m.set(loc, n.Output(memOutputBase+i))
	}
	return nil
}

func (e *Encoder) threadMemcpy(n *rvsdg.Node, count int, m *stateMap) error {
	dstLocs := e.addressLocations(n.Input(0).Origin())
	srcLocs := e.addressLocations(n.Input(1).Origin())
	union := make(map[pointsto.Location]bool, len(dstLocs)+len(srcLocs))
	var locs []pointsto.Location
	for _, l := range append(append([]pointsto.Location{}, dstLocs...), srcLocs...) {
		if !union[l] {
			union[l] = true
			locs = append(locs, l)
		}
	}
	if len(locs) != count {
		return fmt.Errorf("%w: memcpy n%d declared %d memory-state ports, union reaches %d nodes", rvsdgerr.ErrStructural, n.ID(), count, len(locs))
	}
	memInputBase := n.NumInputs() - count
	for i, loc := range locs {
		origin, ok := m.get(loc)
		if !ok {
			var err error
			origin, err = undef(n.Region())
			if err != nil {
				return err
			}
		}
		if err := rvsdg.Divert(n.Input(memInputBase+i), origin); err != nil {
			return err
		}
	}
	for i, loc := range locs {
		m.set(loc, n.Output(i))
	}
	return nil
}

// threadCall collects the call-entry memory-node set and merges those state
// edges into a single call input via CallEntryMemoryStateMerge; at exit,
// splits the single call-output state back into per-memory-node edges via
// CallExitMemoryStateSplit (§4.6.3 "call").
func (e *Encoder) threadCall(n *rvsdg.Node, m *stateMap) error {
	entrySet := e.sum.GetCallEntryNodes(n)
	mergeOrigins := make([]rvsdg.Origin, len(entrySet))
	for i, loc := range entrySet {
		origin, ok := m.get(loc)
		if !ok {
			var err error
			origin, err = undef(n.Region())
			if err != nil {
				return err
			}
		}
		mergeOrigins[i] = origin
	}
	mergeNode, err := n.Region().CreateNode(&op.MemoryStateMergeOp{Arity: len(entrySet), Tag: "call-entry"}, mergeOrigins)
	if err != nil {
		return err
	}
	memIn := n.Input(n.NumInputs() - 1)
	if err := rvsdg.Divert(memIn, mergeNode.Output(0)); err != nil {
		return err
	}

	exitSet := e.sum.GetCallExitNodes(n)
	memOut := n.Output(n.NumOutputs() - 1)
	splitNode, err := n.Region().CreateNode(&op.MemoryStateSplitOp{Arity: len(exitSet), Tag: "call-exit"}, []rvsdg.Origin{memOut})
	if err != nil {
		return err
	}
	for i, loc := range exitSet {
		m.set(loc, splitNode.Output(i))
	}
	return nil
}

// threadGamma makes each memory node's state edge a gamma entry var forked
// identically into every subregion, and collects each subregion's
// per-memory-node state at its exit result as an exit var (§4.6.3 "gamma").
func (e *Encoder) threadGamma(n *rvsdg.Node, m *stateMap) error {
	g := nodes.Gamma{Node: n}
	locs := e.sum.GetGammaEntryNodes(n)

	entryArgsByVar := make([][]*rvsdg.Argument, len(locs))
	for i, loc := range locs {
		origin, ok := m.get(loc)
		if !ok {
			var err error
			origin, err = undef(n.Region())
			if err != nil {
				return err
			}
		}
		args, err := g.AddEntryVar(origin)
		if err != nil {
			return err
		}
		entryArgsByVar[i] = args
	}

	subMaps := make([]*stateMap, len(g.Subregions()))
	for si := range g.Subregions() {
		sm := m.fork()
		for i, loc := range locs {
			sm.set(loc, entryArgsByVar[i][si])
		}
		subMaps[si] = sm
		if err := e.walkRegion(g.Subregions()[si], sm); err != nil {
			return err
		}
	}

	for _, loc := range locs {
		exits := make([]rvsdg.Origin, len(g.Subregions()))
		for si := range g.Subregions() {
			origin, ok := subMaps[si].get(loc)
			if !ok {
				var err error
				origin, err = undef(g.Subregions()[si])
				if err != nil {
					return err
				}
			}
			exits[si] = origin
		}
		out, err := g.AddExitVar(exits)
		if err != nil {
			return err
		}
		m.set(loc, out)
	}
	return nil
}

// threadTheta makes each memory node's state edge a loop variable (§4.6.3
// "theta").
func (e *Encoder) threadTheta(n *rvsdg.Node, m *stateMap) error {
	t := nodes.Theta{Node: n}
	locs := e.sum.GetThetaEntryExitNodes(n)

	sm := m.fork()
	posts := make([]*rvsdg.Result, len(locs))
	for i, loc := range locs {
		origin, ok := m.get(loc)
		if !ok {
			var err error
			origin, err = undef(n.Region())
			if err != nil {
				return err
			}
		}
		pre, post, out, err := t.AddLoopVar(origin)
		if err != nil {
			return err
		}
		sm.set(loc, pre)
		posts[i] = post
		m.set(loc, out)
	}

	if err := e.walkRegion(t.Subregion(), sm); err != nil {
		return err
	}

	for i, loc := range locs {
		origin, ok := sm.get(loc)
		if !ok {
			continue
		}
		if err := t.SetPostResult(posts[i], origin); err != nil {
			return err
		}
	}
	return nil
}
