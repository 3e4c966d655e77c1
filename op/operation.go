// Package op defines the operation algebra attached to every rvsdg node: the
// immutable descriptor that fixes a node's port signature and carries the
// per-kind reduction rules normalization drives (§4.1).
package op

import "github.com/rvsdg-ir/core/types"

// ReductionPath is a small-integer tag identifying which rewrite a reducer
// selected for a given operand shape (§4.1, GLOSSARY).
type ReductionPath int

const (
	NoReduction ReductionPath = 0

	// Unary reduction paths.
	UnaryConstantFold ReductionPath = 1
	UnaryInverseCancel ReductionPath = 2

	// Binary reduction paths.
	BinaryConstantFold  ReductionPath = 10
	BinaryMerge         ReductionPath = 11
	BinaryLeftFold      ReductionPath = 12
	BinaryRightFold     ReductionPath = 13
	BinaryLeftNeutral   ReductionPath = 14
	BinaryRightNeutral  ReductionPath = 15
	BinaryFactor        ReductionPath = 16
)

// Operation is the immutable descriptor attached to a node. Two operations
// are Equal iff their dynamic kind, port signatures and kind-specific
// attributes are equal (§4.1).
type Operation interface {
	// Name is a short debug string, e.g. "add", "gamma", "load".
	Name() string
	// ArgumentTypes is the node's declared input signature.
	ArgumentTypes() []types.Type
	// ResultTypes is the node's declared output signature.
	ResultTypes() []types.Type
	// Equal reports whether two operations have the same dynamic kind, port
	// signatures and kind-specific attributes.
	Equal(other Operation) bool
	// Copy returns a deep copy of this operation's attributes (the origins
	// wired to it are copied separately by the node owning it, see subst).
	Copy() Operation
	// String is the full debug string, e.g. "add:bit32" for the dump format.
	String() string
}

// Structural is implemented by operations attached to structural nodes
// (§4.1 Structural operation, §4.4). NumSubregions fixes how many subregions
// the owning node allocates at construction.
type Structural interface {
	Operation
	NumSubregions() int
}

// StructuralLayout is implemented by structural operations that know how
// their structural inputs/outputs correspond to each subregion's
// arguments/results, so that generic substitution/copy (§4.5) need not
// special-case gamma/theta/lambda/phi/delta individually. A mapping of -1
// means the subregion argument/result has no structural counterpart (a theta
// back-edge argument, or the theta predicate result).
type StructuralLayout interface {
	Structural
	// EntryArgToInput maps subregion argIndex to the structural input index
	// feeding every subregion's argument at that index.
	EntryArgToInput(subregionIndex, argIndex int) int
	// ExitResultToOutput maps subregion resultIndex to the structural output
	// index it feeds when that subregion is the one selected/executed.
	ExitResultToOutput(subregionIndex, resultIndex int) int
}

// Simple is implemented by operations that produce nodes with no subregions.
// It exists purely as a marker capability so callers can narrow an Operation
// without a type-switch on every simple-operation kind.
type Simple interface {
	Operation
	simple()
}
