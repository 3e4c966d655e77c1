// Package rvsdg implements the regionalized value-state dependence graph
// substrate: nodes, ports, edges and regions with structural scoping (§3).
package rvsdg

import "github.com/rvsdg-ir/core/types"

// Origin is implemented by anything that can serve as the origin of an Input
// or a Result: a node's Output, or a region's Argument (§3 Port).
type Origin interface {
	Type() types.Type
	// Region is the region this origin is visible from without crossing a
	// region boundary.
	Region() *Region
	Users() []Reader
	addUser(r Reader)
	removeUser(r Reader)
}

// Reader is implemented by anything that reads from an Origin: a node's
// Input, or a region's Result.
type Reader interface {
	Type() types.Type
	Origin() Origin
	// Region is the region this reader belongs to; an Origin must satisfy
	// Origin.Region() == Reader.Region() to be a legal origin for it (§3
	// Ownership invariants).
	Region() *Region
	setOrigin(Origin)
}

// Output is a node's output port: a production site with zero or more users.
type Output struct {
	node  *Node
	index int
	typ   types.Type
	users []Reader
}

func (o *Output) Type() types.Type  { return o.typ }
func (o *Output) Node() *Node       { return o.node }
func (o *Output) Index() int        { return o.index }
func (o *Output) Region() *Region   { return o.node.region }
func (o *Output) Users() []Reader   { return o.users }
func (o *Output) addUser(r Reader)  { o.users = append(o.users, r) }
func (o *Output) removeUser(r Reader) {
	for i, u := range o.users {
		if u == r {
			o.users = append(o.users[:i], o.users[i+1:]...)
			return
		}
	}
}

// IsDead reports whether this output has no users.
func (o *Output) IsDead() bool { return len(o.users) == 0 }

// Input is a node's input port: always has exactly one origin.
type Input struct {
	node   *Node
	index  int
	typ    types.Type
	origin Origin
}

func (i *Input) Type() types.Type  { return i.typ }
func (i *Input) Node() *Node       { return i.node }
func (i *Input) Index() int        { return i.index }
func (i *Input) Region() *Region   { return i.node.region }
func (i *Input) Origin() Origin    { return i.origin }
func (i *Input) setOrigin(o Origin) { i.origin = o }

// Argument is a region-scoped output with a type but no producing node:
// function parameters, context variables, gamma entry vars, theta loop-var
// pre-arguments and back-edge arguments are all Arguments (§3 Region).
type Argument struct {
	region *Region
	index  int
	typ    types.Type
	users  []Reader
	// label is a human-readable role hint used by the dump format, e.g.
	// "ctx", "arg", "entry", "backedge" (§6).
	label string
}

func (a *Argument) Type() types.Type  { return a.typ }
func (a *Argument) Region() *Region   { return a.region }
func (a *Argument) Index() int        { return a.index }
func (a *Argument) Users() []Reader   { return a.users }
func (a *Argument) addUser(r Reader)  { a.users = append(a.users, r) }
func (a *Argument) removeUser(r Reader) {
	for i, u := range a.users {
		if u == r {
			a.users = append(a.users[:i], a.users[i+1:]...)
			return
		}
	}
}
func (a *Argument) Label() string { return a.label }

// Result is a region-scoped input: function results, gamma exit results,
// theta loop-var post-results and back-edge results are all Results.
type Result struct {
	region *Region
	index  int
	typ    types.Type
	origin Origin
	label  string
}

func (r *Result) Type() types.Type   { return r.typ }
func (r *Result) Region() *Region    { return r.region }
func (r *Result) Index() int         { return r.index }
func (r *Result) Origin() Origin     { return r.origin }
func (r *Result) setOrigin(o Origin) { r.origin = o }
func (r *Result) Label() string      { return r.label }
