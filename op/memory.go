package op

import (
	"fmt"

	"github.com/rvsdg-ir/core/types"
)

var memT = types.NewMemoryStateType()
var ioT = types.NewIOStateType()
var ptrT = types.NewPointerType()

// AllocaOp reserves a stack slot; it always introduces exactly one fresh
// memory-state edge, for the memory node it allocates (§4.6.3).
type AllocaOp struct {
	baseSimple
	ValueType types.Type
}

func (a *AllocaOp) Name() string               { return "alloca" }
func (a *AllocaOp) ArgumentTypes() []types.Type { return nil }
func (a *AllocaOp) ResultTypes() []types.Type   { return []types.Type{ptrT, memT} }
func (a *AllocaOp) Copy() Operation             { cp := *a; return &cp }
func (a *AllocaOp) String() string              { return "alloca:" + a.ValueType.String() }
func (a *AllocaOp) Equal(o Operation) bool {
	other, ok := o.(*AllocaOp)
	return ok && other.ValueType.Equal(a.ValueType)
}

// MallocOp reserves a heap object of dynamic size; as Alloca, one fresh
// memory-state edge.
type MallocOp struct {
	baseSimple
}

func (m *MallocOp) Name() string               { return "malloc" }
func (m *MallocOp) ArgumentTypes() []types.Type { return []types.Type{types.NewBitType(64)} }
func (m *MallocOp) ResultTypes() []types.Type   { return []types.Type{ptrT, memT} }
func (m *MallocOp) Copy() Operation             { cp := *m; return &cp }
func (m *MallocOp) String() string              { return "malloc" }
func (m *MallocOp) Equal(o Operation) bool      { _, ok := o.(*MallocOp); return ok }

// LoadOp reads ValueType through a pointer. MemoryStateCount memory-state
// edges are threaded through, one per memory node the address may reach
// (§8 property 10a).
type LoadOp struct {
	baseSimple
	ValueType        types.Type
	MemoryStateCount int
}

func (l *LoadOp) Name() string { return "load" }
func (l *LoadOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, 1+l.MemoryStateCount)
	args[0] = ptrT
	for i := 1; i < len(args); i++ {
		args[i] = memT
	}
	return args
}
func (l *LoadOp) ResultTypes() []types.Type {
	res := make([]types.Type, 1+l.MemoryStateCount)
	res[0] = l.ValueType
	for i := 1; i < len(res); i++ {
		res[i] = memT
	}
	return res
}
func (l *LoadOp) Copy() Operation { cp := *l; return &cp }
func (l *LoadOp) String() string {
	return fmt.Sprintf("load/%d:%s", l.MemoryStateCount, l.ValueType)
}
func (l *LoadOp) Equal(o Operation) bool {
	other, ok := o.(*LoadOp)
	return ok && other.MemoryStateCount == l.MemoryStateCount && other.ValueType.Equal(l.ValueType)
}

// StoreOp writes ValueType through a pointer.
type StoreOp struct {
	baseSimple
	ValueType        types.Type
	MemoryStateCount int
}

func (s *StoreOp) Name() string { return "store" }
func (s *StoreOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, 2+s.MemoryStateCount)
	args[0] = ptrT
	args[1] = s.ValueType
	for i := 2; i < len(args); i++ {
		args[i] = memT
	}
	return args
}
func (s *StoreOp) ResultTypes() []types.Type {
	res := make([]types.Type, s.MemoryStateCount)
	for i := range res {
		res[i] = memT
	}
	return res
}
func (s *StoreOp) Copy() Operation { cp := *s; return &cp }
func (s *StoreOp) String() string {
	return fmt.Sprintf("store/%d:%s", s.MemoryStateCount, s.ValueType)
}
func (s *StoreOp) Equal(o Operation) bool {
	other, ok := o.(*StoreOp)
	return ok && other.MemoryStateCount == s.MemoryStateCount && other.ValueType.Equal(s.ValueType)
}

// FreeOp releases a heap object; i/o state is threaded separately from the
// per-memory-node state edges (§4.6.3).
type FreeOp struct {
	baseSimple
	MemoryStateCount int
}

func (f *FreeOp) Name() string { return "free" }
func (f *FreeOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, 2+f.MemoryStateCount)
	args[0] = ptrT
	args[1] = ioT
	for i := 2; i < len(args); i++ {
		args[i] = memT
	}
	return args
}
func (f *FreeOp) ResultTypes() []types.Type {
	res := make([]types.Type, 1+f.MemoryStateCount)
	res[0] = ioT
	for i := 1; i < len(res); i++ {
		res[i] = memT
	}
	return res
}
func (f *FreeOp) Copy() Operation { cp := *f; return &cp }
func (f *FreeOp) String() string  { return fmt.Sprintf("free/%d", f.MemoryStateCount) }
func (f *FreeOp) Equal(o Operation) bool {
	other, ok := o.(*FreeOp)
	return ok && other.MemoryStateCount == f.MemoryStateCount
}

// MemcpyOp copies Length bytes from src to dst; MemoryStateCount threads the
// union of the destination's and source's memory-node sets (§4.6.1 memcpy
// rule, §4.6.3 memcpy threading).
type MemcpyOp struct {
	baseSimple
	MemoryStateCount int
}

func (m *MemcpyOp) Name() string { return "memcpy" }
func (m *MemcpyOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, 3+m.MemoryStateCount)
	args[0], args[1], args[2] = ptrT, ptrT, types.NewBitType(64)
	for i := 3; i < len(args); i++ {
		args[i] = memT
	}
	return args
}
func (m *MemcpyOp) ResultTypes() []types.Type {
	res := make([]types.Type, m.MemoryStateCount)
	for i := range res {
		res[i] = memT
	}
	return res
}
func (m *MemcpyOp) Copy() Operation { cp := *m; return &cp }
func (m *MemcpyOp) String() string  { return fmt.Sprintf("memcpy/%d", m.MemoryStateCount) }
func (m *MemcpyOp) Equal(o Operation) bool {
	other, ok := o.(*MemcpyOp)
	return ok && other.MemoryStateCount == m.MemoryStateCount
}

// CallOp invokes FuncType; exactly one memory-state port in and out, bracketed
// by the encoder's "call-entry" MemoryStateMergeOp and "call-exit"
// MemoryStateSplitOp (§4.6.3). The callee
// address is always the leading operand, whether or not it is known statically
// — Direct records that it resolves to a single lambda's Address() output, so
// passes like Inline can follow that edge without a separate target field on
// the operation itself (an Operation carries no node identity, only shape).
type CallOp struct {
	baseSimple
	FuncType *types.FunctionType
	Direct   bool // true when the address operand traces to exactly one lambda's Address() output
}

func (c *CallOp) Name() string { return "call" }
func (c *CallOp) ArgumentTypes() []types.Type {
	args := append([]types.Type{ptrT}, c.FuncType.Arguments...)
	return append(args, memT)
}
func (c *CallOp) ResultTypes() []types.Type {
	return append(append([]types.Type{}, c.FuncType.Results...), memT)
}
func (c *CallOp) Copy() Operation { cp := *c; return &cp }
func (c *CallOp) String() string {
	if c.Direct {
		return "call:" + c.FuncType.String()
	}
	return "callindirect:" + c.FuncType.String()
}
func (c *CallOp) Equal(o Operation) bool {
	other, ok := o.(*CallOp)
	return ok && other.Direct == c.Direct && other.FuncType.Equal(c.FuncType)
}

// MemoryStateMergeOp collapses N memory-state edges into one; Tag labels the
// specialized role it plays (e.g. "call-entry", "lambda-exit"); it appears in
// String and takes part in Equal, so merges with different roles never
// compare equal (§4.6.3, §4.2 split/merge fusion).
type MemoryStateMergeOp struct {
	baseSimple
	Arity int
	Tag   string
}

func (m *MemoryStateMergeOp) Name() string { return "merge" }
func (m *MemoryStateMergeOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, m.Arity)
	for i := range args {
		args[i] = memT
	}
	return args
}
func (m *MemoryStateMergeOp) ResultTypes() []types.Type { return []types.Type{memT} }
func (m *MemoryStateMergeOp) Copy() Operation           { cp := *m; return &cp }
func (m *MemoryStateMergeOp) String() string {
	if m.Tag != "" {
		return fmt.Sprintf("merge[%s]/%d", m.Tag, m.Arity)
	}
	return fmt.Sprintf("merge/%d", m.Arity)
}
func (m *MemoryStateMergeOp) Equal(o Operation) bool {
	other, ok := o.(*MemoryStateMergeOp)
	return ok && other.Arity == m.Arity && other.Tag == m.Tag
}

// MemoryStateSplitOp fans one memory-state edge out into N.
type MemoryStateSplitOp struct {
	baseSimple
	Arity int
	Tag   string
}

func (s *MemoryStateSplitOp) Name() string               { return "split" }
func (s *MemoryStateSplitOp) ArgumentTypes() []types.Type { return []types.Type{memT} }
func (s *MemoryStateSplitOp) ResultTypes() []types.Type {
	res := make([]types.Type, s.Arity)
	for i := range res {
		res[i] = memT
	}
	return res
}
func (s *MemoryStateSplitOp) Copy() Operation { cp := *s; return &cp }
func (s *MemoryStateSplitOp) String() string {
	if s.Tag != "" {
		return fmt.Sprintf("split[%s]/%d", s.Tag, s.Arity)
	}
	return fmt.Sprintf("split/%d", s.Arity)
}
func (s *MemoryStateSplitOp) Equal(o Operation) bool {
	other, ok := o.(*MemoryStateSplitOp)
	return ok && other.Arity == s.Arity && other.Tag == s.Tag
}

// UndefOp produces an undef value of the given type; the encoder inserts it
// as the conservative fallback sentinel for a missing memory state (§4.6.3
// "Failure semantics", §7).
type UndefOp struct {
	baseSimple
	Type types.Type
}

func (u *UndefOp) Name() string               { return "undef" }
func (u *UndefOp) ArgumentTypes() []types.Type { return nil }
func (u *UndefOp) ResultTypes() []types.Type   { return []types.Type{u.Type} }
func (u *UndefOp) IsConstant() bool            { return false }
func (u *UndefOp) Copy() Operation             { cp := *u; return &cp }
func (u *UndefOp) String() string              { return "undef:" + u.Type.String() }
func (u *UndefOp) Equal(o Operation) bool {
	other, ok := o.(*UndefOp)
	return ok && other.Type.Equal(u.Type)
}
