package frontend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/rvsdg/dump"
	"github.com/rvsdg-ir/core/rvsdg/frontend"
)

func TestBuildGraphArithmetic(t *testing.T) {
	g, err := frontend.BuildGraph(`
func add(a, b int) int {
	return a + b
}
`)
	require.NoError(t, err)

	var lambda *nodes.Lambda
	for _, n := range g.Root().Nodes() {
		if _, ok := n.Operation().(*nodes.LambdaOp); ok {
			lambda = &nodes.Lambda{Node: n}
		}
	}
	require.NotNil(t, lambda)
	sub := lambda.Subregion()
	require.Len(t, sub.Results(), 1)

	add, ok := sub.Results()[0].Origin().(*rvsdg.Output)
	require.True(t, ok)
	_, ok = add.Node().Operation().(*op.BinaryArithOp)
	assert.True(t, ok)
}

func TestBuildGraphIfMapsToGamma(t *testing.T) {
	g, err := frontend.BuildGraph(`
func choose(x int) int {
	if x == 0 {
		return 7
	} else {
		return 9
	}
}
`)
	require.NoError(t, err)

	found := false
	for _, n := range g.Root().Nodes() {
		if lambda, ok := n.Operation().(*nodes.LambdaOp); ok {
			_ = lambda
			for _, inner := range n.Subregion().Nodes() {
				if _, ok := inner.Operation().(*nodes.GammaOp); ok {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "expected the if statement to lower to a gamma node")
}

func TestBuildGraphForMapsToTheta(t *testing.T) {
	g, err := frontend.BuildGraph(`
func countTo(n int) int {
	i := 0
	for i == n {
		i = i + 1
	}
	return i
}
`)
	require.NoError(t, err)

	found := false
	for _, n := range g.Root().Nodes() {
		if _, ok := n.Operation().(*nodes.LambdaOp); ok {
			for _, inner := range n.Subregion().Nodes() {
				if _, ok := inner.Operation().(*nodes.ThetaOp); ok {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "expected the for statement to lower to a theta node")
}

func TestBuildGraphCallResolvesSibling(t *testing.T) {
	b := frontend.NewBuilder()
	err := b.Parse(`
func inc(x int) int {
	return x + 1
}

func twice(x int) int {
	return inc(inc(x))
}
`)
	require.NoError(t, err)

	twice := b.Lookup("twice")
	require.NotNil(t, twice)

	var calls int
	var walk func(r *rvsdg.Region)
	walk = func(r *rvsdg.Region) {
		for _, n := range r.Nodes() {
			if _, ok := n.Operation().(*op.CallOp); ok {
				calls++
			}
			for _, sub := range n.Subregions() {
				walk(sub)
			}
		}
	}
	walk(twice.Subregion())
	assert.Equal(t, 2, calls)

	text := dump.Write(b.Graph())
	assert.Contains(t, text, "call")
}

func TestBuildGraphRejectsUnknownOperator(t *testing.T) {
	_, err := frontend.BuildGraph(`
func lt(a, b int) int {
	return a < b
}
`)
	assert.Error(t, err)
}
