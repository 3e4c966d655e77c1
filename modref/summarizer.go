// Package modref computes the per-structural-node memory-node sets the
// memory-state encoder needs to thread state edges through gammas, thetas,
// lambdas and calls (§4.6.2).
package modref

import (
	"github.com/rvsdg-ir/core/pointsto"
	"github.com/rvsdg-ir/core/rvsdg"
)

// Summarizer answers which memory nodes a structural node's entry/exit
// boundary (or a call's boundary) may touch (§4.6.2).
type Summarizer interface {
	GetLambdaEntryNodes(lambda *rvsdg.Node) []pointsto.Location
	GetLambdaExitNodes(lambda *rvsdg.Node) []pointsto.Location
	GetCallEntryNodes(call *rvsdg.Node) []pointsto.Location
	GetCallExitNodes(call *rvsdg.Node) []pointsto.Location
	GetGammaEntryNodes(gamma *rvsdg.Node) []pointsto.Location
	GetGammaExitNodes(gamma *rvsdg.Node) []pointsto.Location
	GetThetaEntryExitNodes(theta *rvsdg.Node) []pointsto.Location
	// GetOutputNodes is the memory-node set potentially reached through a
	// pointer output.
	GetOutputNodes(output *rvsdg.Output) []pointsto.Location
}

// AgnosticSummarizer returns the full memory-node set discovered by the
// points-to analysis everywhere, trading precision for a single linear-time
// pass over the graph (§4.6.2 "the agnostic summarizer").
type AgnosticSummarizer struct {
	all []pointsto.Location
}

// NewAgnosticSummarizer collects every memory node the points-to result
// knows about (every Location a pointer-typed output in g can reach) and
// returns a summarizer that reports that same full set for every query.
func NewAgnosticSummarizer(g *rvsdg.Graph, pr *pointsto.Result) *AgnosticSummarizer {
	seen := make(map[pointsto.Location]bool)
	var all []pointsto.Location
	var walk func(r *rvsdg.Region)
	walk = func(r *rvsdg.Region) {
		for _, n := range r.Nodes() {
			for _, out := range n.Outputs() {
				locs, _ := pr.PointsTo(out)
				for _, loc := range locs {
					if loc.IsMemoryNode() && !seen[loc] {
						seen[loc] = true
						all = append(all, loc)
					}
				}
			}
			for _, sub := range n.Subregions() {
				walk(sub)
			}
		}
	}
	walk(g.Root())
	return &AgnosticSummarizer{all: all}
}

func (a *AgnosticSummarizer) GetLambdaEntryNodes(*rvsdg.Node) []pointsto.Location { return a.all }
func (a *AgnosticSummarizer) GetLambdaExitNodes(*rvsdg.Node) []pointsto.Location  { return a.all }
func (a *AgnosticSummarizer) GetCallEntryNodes(*rvsdg.Node) []pointsto.Location   { return a.all }
func (a *AgnosticSummarizer) GetCallExitNodes(*rvsdg.Node) []pointsto.Location    { return a.all }
func (a *AgnosticSummarizer) GetGammaEntryNodes(*rvsdg.Node) []pointsto.Location  { return a.all }
func (a *AgnosticSummarizer) GetGammaExitNodes(*rvsdg.Node) []pointsto.Location   { return a.all }
func (a *AgnosticSummarizer) GetThetaEntryExitNodes(*rvsdg.Node) []pointsto.Location {
	return a.all
}
func (a *AgnosticSummarizer) GetOutputNodes(*rvsdg.Output) []pointsto.Location { return a.all }

var _ Summarizer = (*AgnosticSummarizer)(nil)
