package pointsto

// class is a union-find set representing one Steensgaard equivalence class:
// every register unified into the class shares the same points-to target
// set, collapsed (per Steensgaard) to at most the set of memory nodes the
// class may point to, or mayPointToUnknown if soundness cannot otherwise be
// preserved (§4.6.1).
type class struct {
	parent *class
	rank   int

	pointsTo          map[Location]bool
	mayPointToUnknown bool

	// ref is the lazily-created class representing "whatever this class's
	// members point to" — the dereference target unified by load/store
	// (§4.6.1). nil until first needed.
	ref *class
}

func newClass() *class {
	return &class{pointsTo: make(map[Location]bool)}
}

func find(c *class) *class {
	for c.parent != nil {
		if c.parent.parent != nil {
			c.parent = c.parent.parent // path halving
		}
		c = c.parent
	}
	return c
}

// union merges the equivalence classes of a and b, returning the surviving
// representative. Their points-to sets are merged (join), since Steensgaard
// unification means anything either could point to, the merged class can
// point to (§4.6.1).
func union(a, b *class) *class {
	ra, rb := find(a), find(b)
	if ra == rb {
		return ra
	}
	if ra.rank < rb.rank {
		ra, rb = rb, ra
	}
	rb.parent = ra
	if ra.rank == rb.rank {
		ra.rank++
	}
	for loc := range rb.pointsTo {
		ra.pointsTo[loc] = true
	}
	if rb.mayPointToUnknown {
		ra.mayPointToUnknown = true
	}
	return ra
}
