package op

// Nullary operations have no inputs and one or more outputs: constants and
// imports (§4.1).
type Nullary interface {
	Simple
	// IsConstant reports whether every invocation with equal attributes
	// produces an observably equal value (used by CSE).
	IsConstant() bool
}

// Unary operations have one input and one output and may reduce their single
// operand (§4.1).
type Unary interface {
	Simple
	// CanReduceOperand reports whether the given origin operation (feeding
	// this operation's sole input) admits a reduction, and which path.
	CanReduceOperand(originOp Operation) ReductionPath
	// ReduceOperand performs the reduction previously reported by
	// CanReduceOperand, returning a replacement operation to substitute in
	// place of this one (its single output takes over all of this node's
	// users).
	ReduceOperand(path ReductionPath, originOp Operation) (Operation, bool)
}

// BinaryFlags records algebraic properties normalization relies on (§4.1).
type BinaryFlags struct {
	Associative bool
	Commutative bool
}

// Binary operations have two inputs and one output (§4.1).
type Binary interface {
	Simple
	Flags() BinaryFlags
	// CanReduceOperandPair reports whether the pair of origin operations
	// feeding this node's two inputs admits a reduction.
	CanReduceOperandPair(leftOp, rightOp Operation) ReductionPath
	// ReduceOperandPair performs the previously-reported reduction.
	ReduceOperandPair(path ReductionPath, leftOp, rightOp Operation) (Operation, bool)
	// Neutral returns the constant operation that is this operation's
	// right-neutral element (e.g. 0 for add, 1 for mul), or nil if none.
	Neutral() Operation
}

// baseSimple is embedded by every concrete simple operation to satisfy the
// Simple marker without repeating the no-op method everywhere.
type baseSimple struct{}

func (baseSimple) simple() {}
