package op

import "github.com/rvsdg-ir/core/types"

// GepOp computes a derived pointer from a base pointer plus a fixed number of
// index operands (a "get element pointer"); it never itself touches memory,
// so it carries no memory-state ports. The points-to analysis unifies its
// result with its base operand (§4.6.1 "gep / bitcast ... join").
type GepOp struct {
	baseSimple
	NumIndices int
}

func (g *GepOp) Name() string { return "gep" }
func (g *GepOp) ArgumentTypes() []types.Type {
	args := make([]types.Type, 1+g.NumIndices)
	args[0] = ptrT
	for i := 1; i < len(args); i++ {
		args[i] = types.NewBitType(64)
	}
	return args
}
func (g *GepOp) ResultTypes() []types.Type { return []types.Type{ptrT} }
func (g *GepOp) Copy() Operation           { cp := *g; return &cp }
func (g *GepOp) String() string            { return "gep" }
func (g *GepOp) Equal(o Operation) bool {
	other, ok := o.(*GepOp)
	return ok && other.NumIndices == g.NumIndices
}

// BitcastOp reinterprets a pointer as pointing to a differently-typed value
// without changing what it points to; the analysis treats it as a pure alias
// (§4.6.1 "gep / bitcast ... join").
type BitcastOp struct {
	baseSimple
	From, To types.Type
}

func (b *BitcastOp) Name() string               { return "bitcast" }
func (b *BitcastOp) ArgumentTypes() []types.Type { return []types.Type{b.From} }
func (b *BitcastOp) ResultTypes() []types.Type   { return []types.Type{b.To} }
func (b *BitcastOp) Copy() Operation             { cp := *b; return &cp }
func (b *BitcastOp) String() string              { return "bitcast:" + b.From.String() + "->" + b.To.String() }
func (b *BitcastOp) Equal(o Operation) bool {
	other, ok := o.(*BitcastOp)
	return ok && other.From.Equal(b.From) && other.To.Equal(b.To)
}

// Ptr2IntOp truncates or extends a pointer's bit pattern into an integer.
// The produced integer is opaque to the pointer analysis: reconstructing a
// pointer from it later (Bits2PtrOp) cannot be traced back soundly, so both
// ends of the round-trip are marked mayPointToUnknown (§4.6.1 "bits2ptr and
// ptr2int: mark mayPointToUnknown").
type Ptr2IntOp struct {
	baseSimple
	IntType types.Type
}

func (p *Ptr2IntOp) Name() string               { return "ptr2int" }
func (p *Ptr2IntOp) ArgumentTypes() []types.Type { return []types.Type{ptrT} }
func (p *Ptr2IntOp) ResultTypes() []types.Type   { return []types.Type{p.IntType} }
func (p *Ptr2IntOp) Copy() Operation             { cp := *p; return &cp }
func (p *Ptr2IntOp) String() string              { return "ptr2int:" + p.IntType.String() }
func (p *Ptr2IntOp) Equal(o Operation) bool {
	other, ok := o.(*Ptr2IntOp)
	return ok && other.IntType.Equal(p.IntType)
}

// Bits2PtrOp reinterprets an integer's bit pattern as a pointer. See
// Ptr2IntOp: the analysis cannot trace what this points to, so the result is
// always mayPointToUnknown.
type Bits2PtrOp struct {
	baseSimple
	IntType types.Type
}

func (b *Bits2PtrOp) Name() string               { return "bits2ptr" }
func (b *Bits2PtrOp) ArgumentTypes() []types.Type { return []types.Type{b.IntType} }
func (b *Bits2PtrOp) ResultTypes() []types.Type   { return []types.Type{ptrT} }
func (b *Bits2PtrOp) Copy() Operation             { cp := *b; return &cp }
func (b *Bits2PtrOp) String() string              { return "bits2ptr:" + b.IntType.String() }
func (b *Bits2PtrOp) Equal(o Operation) bool {
	other, ok := o.(*Bits2PtrOp)
	return ok && other.IntType.Equal(b.IntType)
}
