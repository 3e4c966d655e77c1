package dump

import (
	"context"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/rvsdg-ir/core/rvsdg"
)

// NodeMetadata is one node's debug record for the YAML side-channel: the
// operation's full debug string plus its port types, keyed by node ID so it
// can be cross-referenced against the textual dump's `n<id>` labels.
type NodeMetadata struct {
	ID         int      `yaml:"id"`
	RegionID   int      `yaml:"region"`
	Operation  string   `yaml:"op"`
	InputTypes []string `yaml:"inputs,omitempty"`
	OutputTypes []string `yaml:"outputs,omitempty"`
}

// DumpMetadata is the full per-node debug record for a graph, offered
// alongside the line-oriented textual dump for tooling that wants structured
// output (§6, grounded on `analyzer`'s YAML-exported `Identity`/`DataPoint`
// in the teacher).
type DumpMetadata struct {
	Nodes []NodeMetadata `yaml:"nodes"`
}

// CollectMetadata walks every region of g and records one NodeMetadata entry
// per node, depth-first in construction order.
func CollectMetadata(g *rvsdg.Graph) *DumpMetadata {
	md := &DumpMetadata{}
	var walk func(r *rvsdg.Region)
	walk = func(r *rvsdg.Region) {
		for _, n := range r.Nodes() {
			entry := NodeMetadata{ID: n.ID(), RegionID: r.ID(), Operation: n.Operation().String()}
			for _, in := range n.Inputs() {
				entry.InputTypes = append(entry.InputTypes, in.Type().String())
			}
			for _, out := range n.Outputs() {
				entry.OutputTypes = append(entry.OutputTypes, out.Type().String())
			}
			md.Nodes = append(md.Nodes, entry)
			for _, sub := range n.Subregions() {
				walk(sub)
			}
		}
	}
	walk(g.Root())
	return md
}

// MarshalMetadata renders md as YAML.
func MarshalMetadata(md *DumpMetadata) ([]byte, error) {
	return yaml.Marshal(md)
}

// WriteMetadataTo stores md's YAML form at url through afs.
func WriteMetadataTo(ctx context.Context, url string, md *DumpMetadata) error {
	data, err := MarshalMetadata(md)
	if err != nil {
		return err
	}
	fs := afs.New()
	return fs.Upload(ctx, url, 0644, strings.NewReader(string(data)))
}
