package op

import (
	"fmt"

	"github.com/rvsdg-ir/core/types"
)

// ConstantOp is a nullary operation producing a fixed bit-vector value.
type ConstantOp struct {
	baseSimple
	Type  types.Type
	Value int64
}

func NewConstant(t types.Type, value int64) *ConstantOp { return &ConstantOp{Type: t, Value: value} }

func (c *ConstantOp) Name() string               { return "constant" }
func (c *ConstantOp) ArgumentTypes() []types.Type { return nil }
func (c *ConstantOp) ResultTypes() []types.Type   { return []types.Type{c.Type} }
func (c *ConstantOp) IsConstant() bool            { return true }
func (c *ConstantOp) Copy() Operation             { cp := *c; return &cp }
func (c *ConstantOp) String() string              { return fmt.Sprintf("constant[%d]:%s", c.Value, c.Type) }
func (c *ConstantOp) Equal(o Operation) bool {
	other, ok := o.(*ConstantOp)
	return ok && other.Value == c.Value && other.Type.Equal(c.Type)
}

// ImportOp is a nullary operation naming an external symbol (e.g. an
// externally-defined lambda or delta). Name is never reduced or CSE'd against
// another import with the same name by default, since imports may resolve to
// distinct link-time symbols in general; importers that know otherwise may
// still CSE explicitly.
type ImportOp struct {
	baseSimple
	Symbol string
	Type   types.Type
}

func (i *ImportOp) Name() string               { return "import" }
func (i *ImportOp) ArgumentTypes() []types.Type { return nil }
func (i *ImportOp) ResultTypes() []types.Type   { return []types.Type{i.Type} }
func (i *ImportOp) IsConstant() bool            { return false }
func (i *ImportOp) Copy() Operation             { cp := *i; return &cp }
func (i *ImportOp) String() string              { return fmt.Sprintf("import[%s]:%s", i.Symbol, i.Type) }
func (i *ImportOp) Equal(o Operation) bool {
	other, ok := o.(*ImportOp)
	return ok && other.Symbol == i.Symbol && other.Type.Equal(i.Type)
}

// ArithKind enumerates the binary arithmetic/comparison kinds carried by
// BinaryArithOp.
type ArithKind int

const (
	Add ArithKind = iota
	Sub
	Mul
	Eq
	And
	Or
)

func (k ArithKind) String() string {
	switch k {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Eq:
		return "eq"
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "unknown-arith"
	}
}

// BinaryArithOp is a binary simple operation over bit-vector values. It
// covers the arithmetic/comparison operators needed to drive constant
// folding, identity elimination and associative flattening (§4.1, §4.2).
type BinaryArithOp struct {
	baseSimple
	Kind ArithKind
	Type types.Type // operand type; Eq additionally narrows the result to ctl2
}

func NewBinaryArith(kind ArithKind, t types.Type) *BinaryArithOp {
	return &BinaryArithOp{Kind: kind, Type: t}
}

func (b *BinaryArithOp) Name() string { return b.Kind.String() }
func (b *BinaryArithOp) ArgumentTypes() []types.Type {
	return []types.Type{b.Type, b.Type}
}
func (b *BinaryArithOp) ResultTypes() []types.Type {
	if b.Kind == Eq {
		return []types.Type{types.NewControlType(2)}
	}
	return []types.Type{b.Type}
}
func (b *BinaryArithOp) Copy() Operation { cp := *b; return &cp }
func (b *BinaryArithOp) String() string  { return b.Name() + ":" + b.Type.String() }
func (b *BinaryArithOp) Equal(o Operation) bool {
	other, ok := o.(*BinaryArithOp)
	return ok && other.Kind == b.Kind && other.Type.Equal(b.Type)
}

func (b *BinaryArithOp) Flags() BinaryFlags {
	switch b.Kind {
	case Add, Mul, And, Or:
		return BinaryFlags{Associative: true, Commutative: true}
	case Eq:
		return BinaryFlags{Associative: false, Commutative: true}
	default:
		return BinaryFlags{}
	}
}

// Neutral returns the right-neutral constant for this operation, or nil.
func (b *BinaryArithOp) Neutral() Operation {
	switch b.Kind {
	case Add, Sub, Or:
		return NewConstant(b.Type, 0)
	case Mul:
		return NewConstant(b.Type, 1)
	default:
		return nil
	}
}

// fold applies the arithmetic kind to two concrete constant values.
func (b *BinaryArithOp) fold(l, r int64) (int64, bool) {
	switch b.Kind {
	case Add:
		return l + r, true
	case Sub:
		return l - r, true
	case Mul:
		return l * r, true
	case Eq:
		if l == r {
			return 1, true
		}
		return 0, true
	case And:
		return l & r, true
	case Or:
		return l | r, true
	default:
		return 0, false
	}
}

func (b *BinaryArithOp) CanReduceOperandPair(leftOp, rightOp Operation) ReductionPath {
	lc, lok := leftOp.(*ConstantOp)
	rc, rok := rightOp.(*ConstantOp)
	if lok && rok {
		_, canFold := b.fold(lc.Value, rc.Value)
		if canFold {
			return BinaryConstantFold
		}
	}
	if neutral := b.Neutral(); neutral != nil {
		if rok && neutral.Equal(rc) {
			return BinaryRightNeutral
		}
		if lok && b.Flags().Commutative && neutral.Equal(lc) {
			return BinaryLeftNeutral
		}
	}
	return NoReduction
}

func (b *BinaryArithOp) ReduceOperandPair(path ReductionPath, leftOp, rightOp Operation) (Operation, bool) {
	switch path {
	case BinaryConstantFold:
		lc := leftOp.(*ConstantOp)
		rc := rightOp.(*ConstantOp)
		v, ok := b.fold(lc.Value, rc.Value)
		if !ok {
			return nil, false
		}
		if b.Kind == Eq {
			return NewConstant(types.NewControlType(2), v), true
		}
		return NewConstant(b.Type, v), true
	case BinaryRightNeutral, BinaryLeftNeutral:
		// The caller (normalize) replaces the node's sole output with the
		// surviving operand's origin directly; no replacement operation is
		// produced for identity elimination.
		return nil, true
	default:
		return nil, false
	}
}
