package op

import (
	"fmt"

	"github.com/rvsdg-ir/core/types"
)

// FlattenedOp is the n-ary normal form `FLATTENED[op](a,b,c,...)` that
// associative flattening rewrites a chain of binary applications into
// (§4.2). Inner is the associative binary kind being flattened; Arity names
// how many operands the node carries (its port signature is Arity copies of
// Inner's operand type).
type FlattenedOp struct {
	baseSimple
	Inner *BinaryArithOp
	Arity int
}

func NewFlattened(inner *BinaryArithOp, arity int) *FlattenedOp {
	return &FlattenedOp{Inner: inner, Arity: arity}
}

func (f *FlattenedOp) Name() string { return "flattened[" + f.Inner.Name() + "]" }
func (f *FlattenedOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, f.Arity)
	for i := range args {
		args[i] = f.Inner.Type
	}
	return args
}
func (f *FlattenedOp) ResultTypes() []types.Type { return []types.Type{f.Inner.Type} }
func (f *FlattenedOp) Copy() Operation {
	innerCopy := f.Inner.Copy().(*BinaryArithOp)
	return &FlattenedOp{Inner: innerCopy, Arity: f.Arity}
}
func (f *FlattenedOp) String() string {
	return fmt.Sprintf("%s/%d:%s", f.Name(), f.Arity, f.Inner.Type)
}
func (f *FlattenedOp) Equal(o Operation) bool {
	other, ok := o.(*FlattenedOp)
	return ok && other.Arity == f.Arity && other.Inner.Equal(f.Inner)
}

// RetreeMode selects how normalize.Retree re-serializes a FlattenedOp back into binary
// applications (§4.2 "two flattening reducers").
type RetreeMode int

const (
	RetreeLeftLinear RetreeMode = iota
	RetreeBalanced
)

// MatchOp dispatches a bit-vector value onto a control-N alternative by a
// table of value->alternative mappings, defaulting to a configured
// alternative otherwise. It is the predicate producer typically feeding a
// Gamma (§4.4 Gamma "control-constant reduction").
type MatchOp struct {
	baseSimple
	InputType types.Type
	Mapping   map[int64]int
	Default   int
	NumAlternatives int
}

func (m *MatchOp) Name() string               { return "match" }
func (m *MatchOp) ArgumentTypes() []types.Type { return []types.Type{m.InputType} }
func (m *MatchOp) ResultTypes() []types.Type {
	return []types.Type{types.NewControlType(m.NumAlternatives)}
}
func (m *MatchOp) Copy() Operation {
	cp := *m
	cp.Mapping = make(map[int64]int, len(m.Mapping))
	for k, v := range m.Mapping {
		cp.Mapping[k] = v
	}
	return &cp
}
func (m *MatchOp) String() string { return fmt.Sprintf("match/%d:%s", m.NumAlternatives, m.InputType) }
func (m *MatchOp) Equal(o Operation) bool {
	other, ok := o.(*MatchOp)
	if !ok || other.Default != m.Default || other.NumAlternatives != m.NumAlternatives || !other.InputType.Equal(m.InputType) {
		return false
	}
	if len(other.Mapping) != len(m.Mapping) {
		return false
	}
	for k, v := range m.Mapping {
		if ov, ok := other.Mapping[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (m *MatchOp) CanReduceOperand(originOp Operation) ReductionPath {
	if _, ok := originOp.(*ConstantOp); ok {
		return UnaryConstantFold
	}
	return NoReduction
}

func (m *MatchOp) ReduceOperand(path ReductionPath, originOp Operation) (Operation, bool) {
	if path != UnaryConstantFold {
		return nil, false
	}
	c := originOp.(*ConstantOp)
	alt, ok := m.Mapping[c.Value]
	if !ok {
		alt = m.Default
	}
	return NewConstant(types.NewControlType(m.NumAlternatives), int64(alt)), true
}

// SelectOp is an N-way multiplexer: given a control-N predicate and N value
// operands of equal type, selects the operand named by the predicate. It is
// the target of Gamma's "control-constant reduction" fusion (§4.4).
type SelectOp struct {
	baseSimple
	ValueType       types.Type
	NumAlternatives int
}

func (s *SelectOp) Name() string { return "select" }
func (s *SelectOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, s.NumAlternatives+1)
	args[0] = types.NewControlType(s.NumAlternatives)
	for i := 1; i < len(args); i++ {
		args[i] = s.ValueType
	}
	return args
}
func (s *SelectOp) ResultTypes() []types.Type { return []types.Type{s.ValueType} }
func (s *SelectOp) Copy() Operation           { cp := *s; return &cp }
func (s *SelectOp) String() string {
	return fmt.Sprintf("select/%d:%s", s.NumAlternatives, s.ValueType)
}
func (s *SelectOp) Equal(o Operation) bool {
	other, ok := o.(*SelectOp)
	return ok && other.NumAlternatives == s.NumAlternatives && other.ValueType.Equal(s.ValueType)
}
