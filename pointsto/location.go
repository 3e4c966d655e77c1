// Package pointsto implements a Steensgaard-style points-to analysis over an
// rvsdg graph (§4.6.1-4.6.2): a flow-insensitive union-find over abstract
// memory locations, grounded on the node/object vocabulary of a classic
// Andersen-style analysis (the analysis/constraint-generation split of
// go.tools/pointer) but unified rather than subset-constrained.
package pointsto

import "fmt"

// Kind discriminates the abstract location sum type (§4.6.1 "Location").
type Kind int

const (
	KindRegister Kind = iota
	KindAlloca
	KindMalloc
	KindMemory
	KindImport
	KindDummy
)

func (k Kind) String() string {
	switch k {
	case KindRegister:
		return "register"
	case KindAlloca:
		return "alloca"
	case KindMalloc:
		return "malloc"
	case KindMemory:
		return "memory"
	case KindImport:
		return "import"
	default:
		return "dummy"
	}
}

// Location is an abstract memory location: a register holding a pointer
// value, a stack slot (alloca), a heap object (malloc), a named global
// (memory/import) or a placeholder (dummy) used before a real site is known
// (§4.6.1).
type Location struct {
	Kind Kind
	// ID ties a location back to its producing node (node ID of the alloca,
	// malloc, delta or import), or a locally-unique counter for registers
	// and dummies.
	ID   int
	Name string
}

func (l Location) String() string {
	if l.Name != "" {
		return fmt.Sprintf("%s#%d(%s)", l.Kind, l.ID, l.Name)
	}
	return fmt.Sprintf("%s#%d", l.Kind, l.ID)
}

// IsMemoryNode reports whether this location denotes an abstract runtime
// memory object (as opposed to a register) — the set relevant to the
// memory-state encoder (§4.6.2 GLOSSARY "memory node").
func (l Location) IsMemoryNode() bool {
	return l.Kind == KindAlloca || l.Kind == KindMalloc || l.Kind == KindMemory
}
