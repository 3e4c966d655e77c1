// Package dump renders an rvsdg graph as the bracketed, indented textual
// form (§6 Textual dump format): each region is a `[region-k: args=…]`
// block holding one line per node (`n<id>: <outputs> := <op-string> <input-refs>`)
// and a trailing `results=…` line, recursing into structural subregions.
// I/O goes through afs.Service so golden fixtures can live on disk or under
// mem:// the way the teacher reads project assets in
// inspector/repository/detector.go.
package dump

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"

	"github.com/rvsdg-ir/core/rvsdg"
)

// Write renders g's root region as the full textual dump.
func Write(g *rvsdg.Graph) string {
	var b strings.Builder
	writeRegion(&b, g.Root(), 0)
	return b.String()
}

// WriteTo stores g's textual dump at url through afs, overwriting any
// existing content.
func WriteTo(ctx context.Context, url string, g *rvsdg.Graph) error {
	fs := afs.New()
	return fs.Upload(ctx, url, 0644, strings.NewReader(Write(g)))
}

// ReadFrom downloads the textual dump at url through afs; it returns the raw
// text, not a reconstructed graph (see package doc and DESIGN.md: the format
// has no operation registry to invert an op-string like "add:bit32" back
// into a concrete op.Operation, so the reader side serves golden-diffing and
// inspection, not graph reconstruction).
func ReadFrom(ctx context.Context, url string) (string, error) {
	fs := afs.New()
	content, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func indentOf(depth int) string { return strings.Repeat("  ", depth) }

func writeRegion(b *strings.Builder, r *rvsdg.Region, depth int) {
	pad := indentOf(depth)
	fmt.Fprintf(b, "%s[region-%d: args=%s]\n", pad, r.ID(), argList(r))
	for _, n := range r.Nodes() {
		writeNode(b, n, depth+1)
	}
	fmt.Fprintf(b, "%s  results=%s\n", pad, resultList(r))
}

func writeNode(b *strings.Builder, n *rvsdg.Node, depth int) {
	pad := indentOf(depth)
	fmt.Fprintf(b, "%sn%d: %s := %s %s\n", pad, n.ID(), outputList(n), n.Operation().String(), inputRefs(n))
	for _, sub := range n.Subregions() {
		writeRegion(b, sub, depth+1)
	}
}

func argList(r *rvsdg.Region) string {
	var parts []string
	for _, a := range r.Arguments() {
		label := a.Label()
		if label == "" {
			label = "arg"
		}
		parts = append(parts, fmt.Sprintf("%s%d:%s", label, a.Index(), a.Type()))
	}
	return strings.Join(parts, ", ")
}

func resultList(r *rvsdg.Region) string {
	var parts []string
	for _, res := range r.Results() {
		label := res.Label()
		if label == "" {
			label = "result"
		}
		parts = append(parts, fmt.Sprintf("%s%d=%s", label, res.Index(), originRef(res.Origin())))
	}
	return strings.Join(parts, ", ")
}

func outputList(n *rvsdg.Node) string {
	var parts []string
	for i, out := range n.Outputs() {
		parts = append(parts, fmt.Sprintf("n%d:%d:%s", n.ID(), i, out.Type()))
	}
	return strings.Join(parts, ", ")
}

func inputRefs(n *rvsdg.Node) string {
	var parts []string
	for _, in := range n.Inputs() {
		parts = append(parts, originRef(in.Origin()))
	}
	return strings.Join(parts, " ")
}

// originRef renders an origin as a node-output reference
// (`n<node-id>:<output-index>`) or a region-argument label plus index, per §6.
func originRef(o rvsdg.Origin) string {
	if o == nil {
		return "<nil>"
	}
	switch v := o.(type) {
	case *rvsdg.Output:
		return fmt.Sprintf("n%d:%d", v.Node().ID(), v.Index())
	case *rvsdg.Argument:
		label := v.Label()
		if label == "" {
			label = "arg"
		}
		return fmt.Sprintf("%s%d", label, v.Index())
	default:
		return "?"
	}
}
