package normalize

import (
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
)

// flattenAssociative implements the §4.2 associative-flattening normal form:
// when a binary node's operand is itself an output of a node with the same
// *associative and commutative* operation, the two are fused into a single
// FlattenedOp carrying every leaf operand (§4.1 GLOSSARY "associative
// flattening"). Reports whether a fusion happened.
func flattenAssociative(n *rvsdg.Node) (bool, error) {
	b, ok := n.Operation().(*op.BinaryArithOp)
	if !ok {
		return false, nil
	}
	flags := b.Flags()
	if !flags.Associative || !flags.Commutative {
		return false, nil
	}

	leaves, ok := collectLeaves(n, b)
	if !ok {
		return false, nil
	}

	region := n.Region()
	flat, err := region.CreateNode(&op.FlattenedOp{Inner: b, Arity: len(leaves)}, leaves)
	if err != nil {
		return false, err
	}
	return true, replaceNodeOutput(n, flat.Output(0))
}

// collectLeaves reports the full set of leaf operands for n if at least one
// of n's two operands is itself a same-kind associative node (otherwise
// there is nothing to flatten beyond the trivial 2-leaf case, which
// flattenAssociative's caller skips).
func collectLeaves(n *rvsdg.Node, b *op.BinaryArithOp) ([]rvsdg.Origin, bool) {
	left := n.Input(0).Origin()
	right := n.Input(1).Origin()
	leftFused, leftIsSame := asSameKind(left, b)
	rightFused, rightIsSame := asSameKind(right, b)
	if !leftIsSame && !rightIsSame {
		return nil, false
	}
	var leaves []rvsdg.Origin
	if leftIsSame {
		leaves = append(leaves, leftFused...)
	} else {
		leaves = append(leaves, left)
	}
	if rightIsSame {
		leaves = append(leaves, rightFused...)
	} else {
		leaves = append(leaves, right)
	}
	return leaves, true
}

func asSameKind(origin rvsdg.Origin, b *op.BinaryArithOp) ([]rvsdg.Origin, bool) {
	out, ok := origin.(*rvsdg.Output)
	if !ok {
		return nil, false
	}
	node := out.Node()
	if other, ok := node.Operation().(*op.BinaryArithOp); ok && other.Equal(b) {
		return []rvsdg.Origin{node.Input(0).Origin(), node.Input(1).Origin()}, true
	}
	if fo, ok := node.Operation().(*op.FlattenedOp); ok && fo.Inner.Equal(b) {
		origins := make([]rvsdg.Origin, node.NumInputs())
		for i, in := range node.Inputs() {
			origins[i] = in.Origin()
		}
		return origins, true
	}
	return nil, false
}

// Retree re-expands a FlattenedOp node into a binary tree of its inner
// operation, in the given shape (§4.2 "associative... re-tree"). Returns the
// origin that replaces the flattened node's output; the caller is
// responsible for diverting users and deleting the flattened node.
func Retree(n *rvsdg.Node, mode op.RetreeMode) (rvsdg.Origin, error) {
	fo := n.Operation().(*op.FlattenedOp)
	region := n.Region()
	leaves := make([]rvsdg.Origin, n.NumInputs())
	for i, in := range n.Inputs() {
		leaves[i] = in.Origin()
	}
	switch mode {
	case op.RetreeBalanced:
		return retreeBalanced(region, fo.Inner, leaves)
	default:
		return retreeLeftLinear(region, fo.Inner, leaves)
	}
}

func retreeLeftLinear(region *rvsdg.Region, inner *op.BinaryArithOp, leaves []rvsdg.Origin) (rvsdg.Origin, error) {
	acc := leaves[0]
	for _, leaf := range leaves[1:] {
		node, err := region.CreateNode(op.NewBinaryArith(inner.Kind, inner.Type), []rvsdg.Origin{acc, leaf})
		if err != nil {
			return nil, err
		}
		acc = node.Output(0)
	}
	return acc, nil
}

func retreeBalanced(region *rvsdg.Region, inner *op.BinaryArithOp, leaves []rvsdg.Origin) (rvsdg.Origin, error) {
	if len(leaves) == 1 {
		return leaves[0], nil
	}
	mid := len(leaves) / 2
	left, err := retreeBalanced(region, inner, leaves[:mid])
	if err != nil {
		return nil, err
	}
	right, err := retreeBalanced(region, inner, leaves[mid:])
	if err != nil {
		return nil, err
	}
	node, err := region.CreateNode(op.NewBinaryArith(inner.Kind, inner.Type), []rvsdg.Origin{left, right})
	if err != nil {
		return nil, err
	}
	return node.Output(0), nil
}
