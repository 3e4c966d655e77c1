// Package normalize implements the fixed-point rewrite pass that drives a
// graph's operations toward their reduced normal forms (§4.1-4.3): constant
// folding, identity elimination, CSE and associative flattening/re-tree all
// run from the same worklist driver. Memory-state merge/split nodes are not
// rewritten here: no split/merge fusion or single-operand merge/split
// elimination is performed.
package normalize

import "github.com/rvsdg-ir/core/rvsdg"

// worklist is an explicit dirty-node queue replacing the source's
// event-driven "normal-form state" machinery (§9 Design Notes "Normalization
// fixed-point"): a rewrite pushes the users of anything it touches, and a
// node is queued at most once at a time; if a later push re-dirties it after
// it was popped, it is requeued.
type worklist struct {
	queue   []*rvsdg.Node
	queued  map[*rvsdg.Node]bool
}

func newWorklist() *worklist {
	return &worklist{queued: make(map[*rvsdg.Node]bool)}
}

func (w *worklist) push(n *rvsdg.Node) {
	if n == nil || w.queued[n] {
		return
	}
	w.queued[n] = true
	w.queue = append(w.queue, n)
}

// pushUsers re-dirties every node reading from any of n's outputs, so that a
// rewrite of n is allowed to unlock further rewrites downstream.
func (w *worklist) pushUsers(n *rvsdg.Node) {
	for _, out := range n.Outputs() {
		for _, user := range out.Users() {
			if in, ok := user.(*rvsdg.Input); ok {
				w.push(in.Node())
			}
		}
	}
}

func (w *worklist) pop() (*rvsdg.Node, bool) {
	if len(w.queue) == 0 {
		return nil, false
	}
	n := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.queued, n)
	return n, true
}

func (w *worklist) empty() bool { return len(w.queue) == 0 }
