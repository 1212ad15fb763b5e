package models

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
)

const (
	// VariableSize is the edge length of a variable box.
	VariableSize float32 = 1.6

	// VariableHalfSize is half of VariableSize.
	VariableHalfSize = VariableSize / 2

	defaultConnectorLength float32 = 0.6
)

// Kind describes how a variable value is displayed.
type Kind int

const (
	// KindValue is a plain integer assignment.
	KindValue Kind = iota

	// KindAddress is a pointer assignment to another variable.
	KindAddress
)

func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	default:
		return "value"
	}
}

// Connector is the arrow owned by a variable. Anchor and Axis are expressed
// in the variable's local frame.
type Connector struct {
	Anchor Vector3f
	Axis   Vector3f
}

// DefaultConnector returns the unbound connector pose.
func DefaultConnector() Connector {
	return Connector{
		Anchor: Vector3f{0, VariableHalfSize, 0},
		Axis:   Vector3f{0, defaultConnectorLength, 0},
	}
}

// Variable is a labelled box holding an integer that can point at another
// variable through its connector.
//
// Target and dependents are only mutated through VariableStore so that
// both sides of an edge stay consistent.
type Variable struct {
	Label    Label
	Position Vector3f
	Visible  bool

	// CodeLine is the display order of the variable code line.
	CodeLine int

	value      int
	copiedFrom Label
	target     Label
	dependents map[Label]struct{}
	connector  Connector
}

func newVariable(label Label, pos Vector3f, value int) *Variable {
	return &Variable{
		Label:      label,
		Position:   pos,
		Visible:    true,
		value:      value,
		dependents: make(map[Label]struct{}),
		connector:  DefaultConnector(),
	}
}

// Kind returns KindAddress when the variable points at another variable.
func (v *Variable) Kind() Kind {
	if v.target != NoLabel {
		return KindAddress
	}
	return KindValue
}

// Value returns the integer held by the variable. The address of a bound
// variable is derived from its target label.
func (v *Variable) Value() int {
	if v.target != NoLabel {
		return v.target.Address()
	}
	return v.value
}

// ValueText returns the value as displayed inside the box.
func (v *Variable) ValueText() string {
	if v.Kind() == KindAddress {
		return fmt.Sprintf("%#x", v.Value())
	}
	return strconv.Itoa(v.Value())
}

// Code returns the statement that produced the current value.
func (v *Variable) Code() string {
	switch {
	case v.target != NoLabel:
		return fmt.Sprintf("int* %s = &%s", v.Label, v.target)
	case v.copiedFrom != NoLabel:
		return fmt.Sprintf("int %s = %s", v.Label, v.copiedFrom)
	default:
		return fmt.Sprintf("int %s = %d", v.Label, v.value)
	}
}

// Target returns the label of the variable pointed at.
func (v *Variable) Target() (Label, bool) {
	return v.target, v.target != NoLabel
}

// Dependents returns the sorted labels of the variables pointing at v.
func (v *Variable) Dependents() []Label {
	labels := make([]Label, 0, len(v.dependents))
	for l := range v.dependents {
		labels = append(labels, l)
	}
	sortLabels(labels)
	return labels
}

func (v *Variable) Connector() Connector {
	return v.connector
}

// ConnectorTip returns the world position of the connector tip.
func (v *Variable) ConnectorTip() Vector3f {
	return v.Position.Add(v.connector.Anchor).Add(v.connector.Axis)
}

// ConnectorAnchor returns the world position of the connector anchor.
func (v *Variable) ConnectorAnchor() Vector3f {
	return v.Position.Add(v.connector.Anchor)
}

// IntersectPos returns the world point where the segment from the box center
// towards pos crosses the box boundary in the XY plane. With limit set, pos
// is never considered above the box center.
func (v *Variable) IntersectPos(pos Vector3f, limit bool) Vector3f {
	rel := pos.Sub(v.Position)
	if limit {
		rel.Y = math32.Min(rel.Y, 0)
	}

	denominator := math32.Max(math32.Abs(rel.X), math32.Abs(rel.Y))
	if denominator < Epsilon {
		denominator = Epsilon
	}

	intersect := rel.Mul(VariableHalfSize / denominator)
	intersect.Z = 0
	return v.Position.Add(intersect)
}

// SetConnectorTip points the connector at the given world position, anchoring
// it on the box boundary.
func (v *Variable) SetConnectorTip(pos Vector3f) {
	anchor := v.IntersectPos(pos, false).Sub(v.Position)
	v.connector = Connector{
		Anchor: anchor,
		Axis:   pos.Sub(v.Position).Sub(anchor),
	}
}

// ResetConnector restores the unbound connector pose.
func (v *Variable) ResetConnector() {
	v.connector = DefaultConnector()
}
