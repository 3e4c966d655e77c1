// Package types implements the RVSDG type system: an immutable, structurally
// hashed and compared family of value, state and function types.
package types

// Kind distinguishes the broad families a Type belongs to.
type Kind int

const (
	KindBit Kind = iota
	KindFloat
	KindPointer
	KindArray
	KindStruct
	KindVector
	KindMemoryState
	KindIOState
	KindControl
	KindTrigger
	KindFunction
)

// Type is an immutable value with structural equality, a precomputed hash and
// a debug string. Every concrete type in this package implements it.
type Type interface {
	Kind() Kind
	// String returns the debug-string representation.
	String() string
	// Hash returns a structural hash, stable across equal types.
	Hash() uint64
	// Equal reports structural equality, not pointer identity.
	Equal(other Type) bool
	// IsStateType reports whether this is a state (as opposed to value) type.
	IsStateType() bool
}

// IsValueType reports whether t belongs to the value-type family (§3).
func IsValueType(t Type) bool {
	switch t.Kind() {
	case KindBit, KindFloat, KindPointer, KindArray, KindStruct, KindVector:
		return true
	default:
		return false
	}
}

// base carries the memoized hash shared by every concrete type so Hash is O(1)
// after construction.
type base struct {
	hash uint64
}

func (b base) Hash() uint64 { return b.hash }

// equalKind is a small helper used by every Equal implementation.
func equalKind(a, b Type) bool { return a.Kind() == b.Kind() }
