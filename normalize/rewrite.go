package normalize

import (
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
)

// originOperation returns the operation producing origin, or nil if origin
// is a region argument (no producing operation).
func originOperation(origin rvsdg.Origin) op.Operation {
	if out, ok := origin.(*rvsdg.Output); ok {
		return out.Node().Operation()
	}
	return nil
}

// replaceWithNewOperation builds a fresh nullary-shaped node for replacement
// and diverts every user of n's sole output to it, then deletes n. Used for
// constant-fold reductions (§4.1).
func replaceWithNewOperation(n *rvsdg.Node, replacement op.Operation) error {
	region := n.Region()
	newNode, err := region.CreateNode(replacement, nil)
	if err != nil {
		return err
	}
	return replaceNodeOutput(n, newNode.Output(0))
}

// replaceNodeOutput diverts every user of n's sole output to newOrigin, then
// deletes n (identity-elimination style reductions where no replacement
// operation is produced; §4.1).
func replaceNodeOutput(n *rvsdg.Node, newOrigin rvsdg.Origin) error {
	out := n.Output(0)
	for _, user := range append([]rvsdg.Reader(nil), out.Users()...) {
		switch u := user.(type) {
		case *rvsdg.Input:
			if err := rvsdg.Divert(u, newOrigin); err != nil {
				return err
			}
		case *rvsdg.Result:
			if err := rvsdg.DivertResult(u, newOrigin); err != nil {
				return err
			}
		}
	}
	return n.Region().DeleteNode(n)
}

// rewriteSimple attempts the unary/binary algebraic reductions on n (§4.1,
// §4.2). Reports whether a rewrite happened.
func rewriteSimple(n *rvsdg.Node) (bool, error) {
	switch o := n.Operation().(type) {
	case op.Unary:
		originOp := originOperation(n.Input(0).Origin())
		if originOp == nil {
			return false, nil
		}
		path := o.CanReduceOperand(originOp)
		if path == op.NoReduction {
			return false, nil
		}
		replacement, ok := o.ReduceOperand(path, originOp)
		if !ok {
			return false, nil
		}
		if path == op.UnaryInverseCancel {
			// The origin's own sole operand is the surviving value: origin
			// is the inner unary node's output, so its input 0's origin is
			// the value to bypass to.
			innerOrigin := n.Input(0).Origin().(*rvsdg.Output).Node().Input(0).Origin()
			return true, replaceNodeOutput(n, innerOrigin)
		}
		return true, replaceWithNewOperation(n, replacement)

	case op.Binary:
		// leftOp/rightOp are nil when an operand is a bare region argument
		// (no producing node) rather than absent entirely: CanReduceOperandPair
		// still applies for e.g. right-neutral elimination of `x + 0` where x
		// is a parameter, since its type assertions treat a nil Operation the
		// same as any other non-constant operation.
		leftOp := originOperation(n.Input(0).Origin())
		rightOp := originOperation(n.Input(1).Origin())
		path := o.CanReduceOperandPair(leftOp, rightOp)
		if path == op.NoReduction {
			return flattenAssociative(n)
		}
		replacement, ok := o.ReduceOperandPair(path, leftOp, rightOp)
		if !ok {
			return false, nil
		}
		switch path {
		case op.BinaryLeftNeutral:
			// Left operand is neutral: right operand survives.
			return true, replaceNodeOutput(n, n.Input(1).Origin())
		case op.BinaryRightNeutral:
			return true, replaceNodeOutput(n, n.Input(0).Origin())
		default:
			return true, replaceWithNewOperation(n, replacement)
		}
	}
	return false, nil
}
