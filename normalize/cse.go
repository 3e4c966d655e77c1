package normalize

import (
	"strconv"
	"strings"

	"github.com/rvsdg-ir/core/rvsdg"
)

// cseKey is a structural fingerprint of a simple node: its operation's debug
// string plus the identity of each input's origin. Two nodes with equal keys
// in the same region compute the same value (§4.1 "common subexpression
// elimination").
func cseKey(n *rvsdg.Node) string {
	var b strings.Builder
	b.WriteString(n.Operation().String())
	for _, in := range n.Inputs() {
		b.WriteByte('|')
		writeOriginKey(&b, in.Origin())
	}
	return b.String()
}

func writeOriginKey(b *strings.Builder, origin rvsdg.Origin) {
	switch o := origin.(type) {
	case *rvsdg.Output:
		b.WriteString(o.Node().String())
		b.WriteByte(':')
		writeInt(b, o.Index())
	case *rvsdg.Argument:
		b.WriteString("arg:")
		writeInt(b, o.Index())
	}
}

func writeInt(b *strings.Builder, v int) {
	b.WriteString(strconv.Itoa(v))
}

// cseRegion merges structurally-equal simple nodes within r (not recursing
// into subregions — each call site normalizes its own subregions first).
// Only nodes whose operation kind has CSE enabled (§6 per-kind normal-form
// toggles) are considered; kinds left at their default {Mutable: false,
// CSE: false} are skipped individually rather than gated behind one
// graph-wide switch. Returns the number of nodes removed.
func cseRegion(r *rvsdg.Region) (int, error) {
	g := r.Graph()
	seen := make(map[string]*rvsdg.Node)
	removed := 0
	for _, n := range append([]*rvsdg.Node(nil), r.Nodes()...) {
		if n.IsStructural() || n.NumOutputs() != 1 {
			continue
		}
		if !g.NormalForm(n.Operation().Name()).CSE {
			continue
		}
		key := cseKey(n)
		if existing, ok := seen[key]; ok {
			if err := replaceNodeOutput(n, existing.Output(0)); err != nil {
				return removed, err
			}
			removed++
			continue
		}
		seen[key] = n
	}
	return removed, nil
}
