package rvsdg

// NormalFormState records, per operation kind name, the two normal-form
// toggle bits exposed by the graph construction API (§6 "Normal-form
// toggles"): mutable (apply reductions eagerly at insertion) and cse
// (subject to common subexpression elimination).
type NormalFormState struct {
	Mutable bool
	CSE     bool
}

// Graph is a root region plus a directory of normal-form state per operation
// kind (§3 Graph).
type Graph struct {
	root *Region

	nodeSeq   int
	regionSeq int

	normalForms map[string]*NormalFormState
	// denormalized is set whenever a normal-form toggle flips off->on while
	// mutable-dirty nodes may exist; Normalize clears it (§6).
	denormalized bool
}

// Option configures a Graph at construction time, following the teacher's
// functional-option idiom.
type Option func(*Graph)

// WithDefaultNormalForm seeds the per-kind normal-form directory so every
// operation kind named here starts with the given toggle state.
func WithDefaultNormalForm(kind string, mutable, cse bool) Option {
	return func(g *Graph) {
		g.normalForms[kind] = &NormalFormState{Mutable: mutable, CSE: cse}
	}
}

// NewGraph constructs a graph with a fresh root region.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{normalForms: make(map[string]*NormalFormState)}
	g.root = newRegion(g, nil)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) Root() *Region { return g.root }

func (g *Graph) nextNodeID() int {
	id := g.nodeSeq
	g.nodeSeq++
	return id
}

func (g *Graph) nextRegionID() int {
	id := g.regionSeq
	g.regionSeq++
	return id
}

// NormalForm returns the toggle state for an operation kind, defaulting to
// {Mutable: false, CSE: false} if never configured.
func (g *Graph) NormalForm(kind string) NormalFormState {
	if nf, ok := g.normalForms[kind]; ok {
		return *nf
	}
	return NormalFormState{}
}

// SetNormalForm flips the normal-form toggles for kind. Turning mutable or
// cse on sets the graph-level denormalized flag, since previously-inserted
// nodes of that kind may not yet satisfy the newly-enabled policy (§6).
func (g *Graph) SetNormalForm(kind string, mutable, cse bool) {
	prev := g.NormalForm(kind)
	g.normalForms[kind] = &NormalFormState{Mutable: mutable, CSE: cse}
	if (mutable && !prev.Mutable) || (cse && !prev.CSE) {
		g.denormalized = true
	}
}

// Denormalized reports whether a normalize() pass is needed to restore the
// configured normal-form invariants.
func (g *Graph) Denormalized() bool { return g.denormalized }

// MarkNormalized clears the denormalized flag; called by normalize() on
// reaching fixed point.
func (g *Graph) MarkNormalized() { g.denormalized = false }
