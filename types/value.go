package types

import "fmt"

// BitType is a bit-vector value type parameterized by width, e.g. bit32.
type BitType struct {
	base
	Width int
}

// NewBitType constructs a bit type of the given width. Width 1 is interned
// (§5 process-wide small-type interning).
func NewBitType(width int) *BitType {
	if width == 1 {
		return internedBit1
	}
	buf := encodeKind(nil, KindBit)
	buf = encodeUint64(buf, uint64(width))
	return &BitType{base: base{hash: hashBytes(buf)}, Width: width}
}

func (t *BitType) Kind() Kind         { return KindBit }
func (t *BitType) String() string     { return fmt.Sprintf("bit%d", t.Width) }
func (t *BitType) IsStateType() bool  { return false }
func (t *BitType) Equal(o Type) bool {
	other, ok := o.(*BitType)
	return ok && other.Width == t.Width
}

var internedBit1 = func() *BitType {
	buf := encodeKind(nil, KindBit)
	buf = encodeUint64(buf, 1)
	return &BitType{base: base{hash: hashBytes(buf)}, Width: 1}
}()

// FloatSize tags the IEEE-754 precision of a FloatType.
type FloatSize int

const (
	FloatHalf FloatSize = iota
	FloatSingle
	FloatDouble
	FloatQuad
)

func (s FloatSize) String() string {
	switch s {
	case FloatHalf:
		return "half"
	case FloatSingle:
		return "single"
	case FloatDouble:
		return "double"
	case FloatQuad:
		return "quad"
	default:
		return "unknown-float-size"
	}
}

// FloatType is a floating-point value type.
type FloatType struct {
	base
	Size FloatSize
}

func NewFloatType(size FloatSize) *FloatType {
	buf := encodeKind(nil, KindFloat)
	buf = encodeUint64(buf, uint64(size))
	return &FloatType{base: base{hash: hashBytes(buf)}, Size: size}
}

func (t *FloatType) Kind() Kind        { return KindFloat }
func (t *FloatType) String() string    { return "fp" + t.Size.String() }
func (t *FloatType) IsStateType() bool { return false }
func (t *FloatType) Equal(o Type) bool {
	other, ok := o.(*FloatType)
	return ok && other.Size == t.Size
}

// PointerType is the single, untyped-target pointer value type. RVSDG
// pointers do not carry a pointee type; aliasing is resolved by the points-to
// analysis (§4.6.1), not by the type system.
type PointerType struct{ base }

func NewPointerType() *PointerType {
	buf := encodeKind(nil, KindPointer)
	return &PointerType{base: base{hash: hashBytes(buf)}}
}

func (t *PointerType) Kind() Kind         { return KindPointer }
func (t *PointerType) String() string     { return "ptr" }
func (t *PointerType) IsStateType() bool  { return false }
func (t *PointerType) Equal(o Type) bool  { _, ok := o.(*PointerType); return ok }

// ArrayType is a fixed-length homogeneous aggregate.
type ArrayType struct {
	base
	Element Type
	Length  int
}

func NewArrayType(element Type, length int) *ArrayType {
	buf := encodeKind(nil, KindArray)
	buf = encodeUint64(buf, element.Hash())
	buf = encodeUint64(buf, uint64(length))
	return &ArrayType{base: base{hash: hashBytes(buf)}, Element: element, Length: length}
}

func (t *ArrayType) Kind() Kind        { return KindArray }
func (t *ArrayType) String() string    { return fmt.Sprintf("[%d x %s]", t.Length, t.Element) }
func (t *ArrayType) IsStateType() bool { return false }
func (t *ArrayType) Equal(o Type) bool {
	other, ok := o.(*ArrayType)
	return ok && other.Length == t.Length && other.Element.Equal(t.Element)
}

// StructDecl is the immutable declaration a StructType refers to. Two
// StructTypes are name-compatible (equal) iff they share the same *StructDecl
// pointer, not iff their element lists happen to match structurally (§3).
type StructDecl struct {
	Name     string
	Elements []Type
}

// StructType references an immutable declaration of element types.
type StructType struct {
	base
	Decl *StructDecl
}

// NewStructType wraps decl. Equality is keyed on the declaration's identity,
// matching the "name-compatible, not structural" rule; the hash covers only
// the declaration's name and element count, so distinct declarations with the
// same name and count hash equal without being Equal.
func NewStructType(decl *StructDecl) *StructType {
	buf := encodeKind(nil, KindStruct)
	buf = encodeUint64(buf, uint64(len(decl.Elements)))
	buf = append(buf, []byte(decl.Name)...)
	return &StructType{base: base{hash: hashBytes(buf)}, Decl: decl}
}

func (t *StructType) Kind() Kind        { return KindStruct }
func (t *StructType) String() string    { return "struct." + t.Decl.Name }
func (t *StructType) IsStateType() bool { return false }
func (t *StructType) Equal(o Type) bool {
	other, ok := o.(*StructType)
	return ok && other.Decl == t.Decl
}

// VectorType is a fixed or scalable SIMD vector.
type VectorType struct {
	base
	Element  Type
	Length   int
	Scalable bool
}

func NewVectorType(element Type, length int, scalable bool) *VectorType {
	buf := encodeKind(nil, KindVector)
	buf = encodeUint64(buf, element.Hash())
	buf = encodeUint64(buf, uint64(length))
	if scalable {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return &VectorType{base: base{hash: hashBytes(buf)}, Element: element, Length: length, Scalable: scalable}
}

func (t *VectorType) Kind() Kind { return KindVector }
func (t *VectorType) String() string {
	if t.Scalable {
		return fmt.Sprintf("<vscale x %d x %s>", t.Length, t.Element)
	}
	return fmt.Sprintf("<%d x %s>", t.Length, t.Element)
}
func (t *VectorType) IsStateType() bool { return false }
func (t *VectorType) Equal(o Type) bool {
	other, ok := o.(*VectorType)
	return ok && other.Length == t.Length && other.Scalable == t.Scalable && other.Element.Equal(t.Element)
}
