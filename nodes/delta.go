package nodes

import (
	"fmt"

	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

// Linkage mirrors the handful of linkage kinds a delta can carry.
type Linkage int

const (
	LinkageExternal Linkage = iota
	LinkageInternal
	LinkageWeak
)

func (l Linkage) String() string {
	switch l {
	case LinkageInternal:
		return "internal"
	case LinkageWeak:
		return "weak"
	default:
		return "external"
	}
}

// DeltaOp is the operation attribute of a delta (global variable/constant)
// node: no structural inputs, one pointer-typed structural output naming the
// global's address (§4.4 Delta).
type DeltaOp struct {
	ValueType types.Type
	DeclName  string
	Linkage   Linkage
	Section   string
	Constant  bool
}

func (d *DeltaOp) Name() string                { return "delta" }
func (d *DeltaOp) ArgumentTypes() []types.Type { return nil }
func (d *DeltaOp) ResultTypes() []types.Type   { return []types.Type{types.NewPointerType()} }
func (d *DeltaOp) NumSubregions() int          { return 1 }
func (d *DeltaOp) Copy() op.Operation {
	cp := *d
	return &cp
}
func (d *DeltaOp) String() string {
	return fmt.Sprintf("delta %s %s %s", d.Linkage, d.ValueType, d.DeclName)
}
func (d *DeltaOp) Equal(o op.Operation) bool {
	other, ok := o.(*DeltaOp)
	return ok && other.DeclName == d.DeclName && other.Linkage == d.Linkage &&
		other.Section == d.Section && other.Constant == d.Constant && other.ValueType.Equal(d.ValueType)
}

// Delta wraps the generic *rvsdg.Node for a delta, exposing typed accessors
// over its single initializer result and address output.
type Delta struct{ *rvsdg.Node }

// NewDelta constructs a delta global/constant of valueType named name.
func NewDelta(region *rvsdg.Region, valueType types.Type, name string, linkage Linkage, section string, constant bool) (*Delta, error) {
	node, err := region.CreateStructuralNode(&DeltaOp{
		ValueType: valueType,
		DeclName:  name,
		Linkage:   linkage,
		Section:   section,
		Constant:  constant,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &Delta{node}, nil
}

// SetInitializer adds the subregion's single region result: the global's
// initial value (§4.4 Delta "produces exactly one value... via a single
// region result").
func (d *Delta) SetInitializer(origin rvsdg.Origin) (*rvsdg.Result, error) {
	dop := d.Operation().(*DeltaOp)
	return d.Subregion().AddResult(origin, dop.ValueType, "init")
}

// Address returns the delta's structural output: the global's address.
func (d *Delta) Address() *rvsdg.Output { return d.Output(0) }
