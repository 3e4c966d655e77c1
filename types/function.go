package types

import "strings"

// FunctionType is an ordered list of argument types and an ordered list of
// result types; it names the signature of a Lambda node (§4.4 Lambda).
type FunctionType struct {
	base
	Arguments []Type
	Results   []Type
}

func NewFunctionType(arguments, results []Type) *FunctionType {
	buf := encodeKind(nil, KindFunction)
	buf = encodeUint64(buf, uint64(len(arguments)))
	for _, a := range arguments {
		buf = encodeUint64(buf, a.Hash())
	}
	buf = encodeUint64(buf, uint64(len(results)))
	for _, r := range results {
		buf = encodeUint64(buf, r.Hash())
	}
	return &FunctionType{
		base:      base{hash: hashBytes(buf)},
		Arguments: append([]Type(nil), arguments...),
		Results:   append([]Type(nil), results...),
	}
}

func (t *FunctionType) Kind() Kind        { return KindFunction }
func (t *FunctionType) IsStateType() bool { return false }

func (t *FunctionType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range t.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteString(") -> (")
	for i, r := range t.Results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (t *FunctionType) Equal(o Type) bool {
	other, ok := o.(*FunctionType)
	if !ok || len(other.Arguments) != len(t.Arguments) || len(other.Results) != len(t.Results) {
		return false
	}
	for i := range t.Arguments {
		if !t.Arguments[i].Equal(other.Arguments[i]) {
			return false
		}
	}
	for i := range t.Results {
		if !t.Results[i].Equal(other.Results[i]) {
			return false
		}
	}
	return true
}
