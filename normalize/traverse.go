package normalize

import "github.com/rvsdg-ir/core/rvsdg"

// TraversalOrder selects one of the two restartable region traversal orders
// exposed by §4.3.
type TraversalOrder int

const (
	// TopDown yields a node only after every node that owns one of its
	// input origins in the same region has been yielded; seeded from region
	// arguments and nullary nodes.
	TopDown TraversalOrder = iota
	// BottomUp is TopDown's dual: a node is yielded only after every node
	// that reads one of its outputs in the same region has been yielded,
	// seeded from region results.
	BottomUp
)

// Traverse visits every node of r exactly once, in the given order, calling
// visit on each. Structural nodes are yielded as a single unit — visit is
// responsible for recursing into their subregions explicitly. Traversal
// stops early if visit returns false.
//
// Traverse is restartable (§4.3): the dependency graph is recomputed from
// r.Nodes() on every call, so it is always safe to call it again after a
// rewrite that inserted new nodes, whether in already-yielded positions or
// after the cursor reached on the prior call.
func Traverse(r *rvsdg.Region, order TraversalOrder, visit func(n *rvsdg.Node) bool) {
	if order == BottomUp {
		traverse(r, visit, outDegree, pushConsumersReady)
		return
	}
	traverse(r, visit, inDegree, pushProducersReady)
}

// traverse runs a Kahn's-algorithm topological walk: degree computes each
// node's initial pending-dependency count (zero means immediately ready),
// and onVisit reports the neighbors whose count should be decremented once n
// is yielded, pushing any that reach zero.
func traverse(r *rvsdg.Region, visit func(*rvsdg.Node) bool, degree func(*rvsdg.Node, *rvsdg.Region) int, onVisit func(*rvsdg.Node, *rvsdg.Region, map[*rvsdg.Node]int, *[]*rvsdg.Node)) {
	pending := make(map[*rvsdg.Node]int, len(r.Nodes()))
	var ready []*rvsdg.Node
	for _, n := range r.Nodes() {
		d := degree(n, r)
		pending[n] = d
		if d == 0 {
			ready = append(ready, n)
		}
	}

	seen := make(map[*rvsdg.Node]bool, len(r.Nodes()))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		if !visit(n) {
			return
		}
		onVisit(n, r, pending, &ready)
	}
}

// inDegree counts n's inputs whose origin is a node output within the same
// region (region arguments contribute nothing — they are always available).
func inDegree(n *rvsdg.Node, r *rvsdg.Region) int {
	d := 0
	for _, in := range n.Inputs() {
		if out, ok := in.Origin().(*rvsdg.Output); ok && out.Node().Region() == r {
			d++
		}
	}
	return d
}

// pushProducersReady decrements the pending count of every node reading one
// of n's outputs, queuing any that reach zero.
func pushProducersReady(n *rvsdg.Node, r *rvsdg.Region, pending map[*rvsdg.Node]int, ready *[]*rvsdg.Node) {
	for _, out := range n.Outputs() {
		for _, user := range out.Users() {
			in, ok := user.(*rvsdg.Input)
			if !ok || in.Node().Region() != r {
				continue
			}
			consumer := in.Node()
			pending[consumer]--
			if pending[consumer] == 0 {
				*ready = append(*ready, consumer)
			}
		}
	}
}

// outDegree counts the users of n's outputs that are inputs of another node
// within the same region (region results contribute nothing — a node that
// only feeds a result is already a valid bottom-up seed).
func outDegree(n *rvsdg.Node, r *rvsdg.Region) int {
	d := 0
	for _, out := range n.Outputs() {
		for _, user := range out.Users() {
			if in, ok := user.(*rvsdg.Input); ok && in.Node().Region() == r {
				d++
			}
		}
	}
	return d
}

// pushConsumersReady decrements the pending count of every node producing
// one of n's operands, queuing any that reach zero.
func pushConsumersReady(n *rvsdg.Node, r *rvsdg.Region, pending map[*rvsdg.Node]int, ready *[]*rvsdg.Node) {
	for _, in := range n.Inputs() {
		out, ok := in.Origin().(*rvsdg.Output)
		if !ok || out.Node().Region() != r {
			continue
		}
		producer := out.Node()
		pending[producer]--
		if pending[producer] == 0 {
			*ready = append(*ready, producer)
		}
	}
}
