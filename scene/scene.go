// Package scene builds the read-only view of a frame handed to renderers.
package scene

import (
	"github.com/aukilabs/pointerbox/hands"
	"github.com/aukilabs/pointerbox/models"
	"github.com/aukilabs/pointerbox/sensor"
)

// Display is the renderer window size.
type Display struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Snapshot is the state of the scene once a frame has been processed.
type Snapshot struct {
	RunID     string     `json:"run_id"`
	FrameID   int64      `json:"frame_id"`
	Display   Display    `json:"display"`
	Variables []Variable `json:"variables"`
	Hands     []Hand     `json:"hands"`
}

type Variable struct {
	Label           string          `json:"label"`
	Kind            string          `json:"kind"`
	Value           int             `json:"value"`
	ValueText       string          `json:"value_text"`
	Code            string          `json:"code"`
	CodeLine        int             `json:"code_line"`
	Position        models.Vector3f `json:"position"`
	ConnectorAnchor models.Vector3f `json:"connector_anchor"`
	ConnectorAxis   models.Vector3f `json:"connector_axis"`
	Target          string          `json:"target,omitempty"`
	Visible         bool            `json:"visible"`
}

type Hand struct {
	Side    string          `json:"side"`
	Palm    models.Vector3f `json:"palm"`
	Fingers []Finger        `json:"fingers"`
}

type Finger struct {
	Tip      models.Vector3f `json:"tip"`
	Proximal models.Vector3f `json:"proximal"`
	Bones    []Bone          `json:"bones"`
}

type Bone struct {
	From models.Vector3f `json:"from"`
	Axis models.Vector3f `json:"axis"`
}

// NewVariable describes a variable for renderers.
func NewVariable(v *models.Variable) Variable {
	target, _ := v.Target()
	return Variable{
		Label:           v.Label.String(),
		Kind:            v.Kind().String(),
		Value:           v.Value(),
		ValueText:       v.ValueText(),
		Code:            v.Code(),
		CodeLine:        v.CodeLine,
		Position:        v.Position,
		ConnectorAnchor: v.ConnectorAnchor(),
		ConnectorAxis:   v.Connector().Axis,
		Target:          target.String(),
		Visible:         v.Visible,
	}
}

// NewHand describes a stabilized hand for renderers.
func NewHand(side sensor.Side, pose hands.Pose) Hand {
	h := Hand{
		Side:    string(side),
		Palm:    pose.Palm,
		Fingers: make([]Finger, len(pose.Fingers)),
	}
	for i, f := range pose.Fingers {
		h.Fingers[i] = Finger{
			Tip:      f.Tip,
			Proximal: f.Proximal,
			Bones: []Bone{
				{From: f.Bones[0].From, Axis: f.Bones[0].Axis},
				{From: f.Bones[1].From, Axis: f.Bones[1].Axis},
			},
		}
	}
	return h
}

// Variables describes the variables of the store in label order.
func Variables(store *models.VariableStore) []Variable {
	variables := store.Variables()
	res := make([]Variable, len(variables))
	for i, v := range variables {
		res[i] = NewVariable(v)
	}
	return res
}
