package op

import "github.com/rvsdg-ir/core/types"

// UnaryKind enumerates the unary conversions/arithmetic covered here.
type UnaryKind int

const (
	Trunc UnaryKind = iota
	ZExt
	SExt
	Neg
)

func (k UnaryKind) String() string {
	switch k {
	case Trunc:
		return "trunc"
	case ZExt:
		return "zext"
	case SExt:
		return "sext"
	case Neg:
		return "neg"
	default:
		return "unknown-unary"
	}
}

// inverseOf reports the kind that cancels k when composed (trunc after ext
// of the same source width, or vice versa), per §4.1 unary reduction path 2.
func (k UnaryKind) inverseOf(other UnaryKind) bool {
	switch {
	case k == Trunc && (other == ZExt || other == SExt):
		return true
	case (k == ZExt || k == SExt) && other == Trunc:
		return true
	case k == Neg && other == Neg:
		return true
	default:
		return false
	}
}

// UnaryOp is a unary simple operation: a width conversion or sign flip.
type UnaryOp struct {
	baseSimple
	Kind     UnaryKind
	From, To types.Type
}

func NewUnary(kind UnaryKind, from, to types.Type) *UnaryOp {
	return &UnaryOp{Kind: kind, From: from, To: to}
}

func (u *UnaryOp) Name() string                { return u.Kind.String() }
func (u *UnaryOp) ArgumentTypes() []types.Type { return []types.Type{u.From} }
func (u *UnaryOp) ResultTypes() []types.Type   { return []types.Type{u.To} }
func (u *UnaryOp) Copy() Operation             { cp := *u; return &cp }
func (u *UnaryOp) String() string              { return u.Kind.String() + ":" + u.From.String() + "->" + u.To.String() }
func (u *UnaryOp) Equal(o Operation) bool {
	other, ok := o.(*UnaryOp)
	return ok && other.Kind == u.Kind && other.From.Equal(u.From) && other.To.Equal(u.To)
}

func (u *UnaryOp) CanReduceOperand(originOp Operation) ReductionPath {
	if _, ok := originOp.(*ConstantOp); ok {
		return UnaryConstantFold
	}
	if other, ok := originOp.(*UnaryOp); ok && u.Kind.inverseOf(other.Kind) && u.To.Equal(other.From) {
		return UnaryInverseCancel
	}
	return NoReduction
}

func (u *UnaryOp) ReduceOperand(path ReductionPath, originOp Operation) (Operation, bool) {
	switch path {
	case UnaryConstantFold:
		c := originOp.(*ConstantOp)
		v := c.Value
		if u.Kind == Neg {
			v = -v
		}
		return NewConstant(u.To, v), true
	case UnaryInverseCancel:
		// Replacement is the identity on the original operand; the caller
		// diverts users to that operand's origin directly.
		return nil, true
	default:
		return nil, false
	}
}
