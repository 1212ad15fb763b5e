package sensor

import (
	"github.com/aukilabs/pointerbox/models"
)

const (
	// DisplayScale maps a normalized [0, 1] coordinate to display space.
	DisplayScale float32 = 10

	// FingerCount is the number of fingers per hand.
	FingerCount = 5

	// GestureTypeScreenTap is the only gesture routed to the UI.
	GestureTypeScreenTap = "screenTap"
)

// Side is the side of a hand.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Frame is an immutable snapshot produced by the sensor.
type Frame struct {
	ID       int64
	Hands    []Hand
	Gestures []Gesture
	Box      InteractionBox
}

// Hand returns the hand tracked with the given id.
func (f *Frame) Hand(id int64) (Hand, bool) {
	for _, h := range f.Hands {
		if h.ID == id {
			return h, true
		}
	}
	return Hand{}, false
}

// Finger returns the finger tracked with the given id.
func (f *Frame) Finger(id int64) (Finger, bool) {
	for _, h := range f.Hands {
		for _, fi := range h.Fingers {
			if fi.Valid && fi.ID == id {
				return fi, true
			}
		}
	}
	return Finger{}, false
}

// ToDisplay maps a raw sensor point to display space using the frame
// interaction box.
func (f *Frame) ToDisplay(p models.Vector3f) models.Vector3f {
	return f.Box.Normalize(p).Mul(DisplayScale)
}

// Hand is a hand as reported in a single frame.
type Hand struct {
	ID            int64
	Side          Side
	Palm          models.Vector3f
	PinchStrength float32
	Fingers       [FingerCount]Finger
}

// Thumb returns the thumb of the hand.
func (h Hand) Thumb() Finger {
	return h.Fingers[0]
}

// Finger is a finger as reported in a single frame. Proximal is the center of
// the proximal bone.
type Finger struct {
	ID       int64
	Type     int
	Valid    bool
	Tip      models.Vector3f
	Proximal models.Vector3f
}

// Gesture is a discrete gesture reported in a frame.
type Gesture struct {
	ID       int64
	Type     string
	State    string
	Position models.Vector3f
}

// InteractionBox is the volume in which the sensor tracks hands.
type InteractionBox struct {
	Center models.Vector3f
	Size   models.Vector3f
}

// Normalize maps p into [0, 1] per axis, clamping points outside the box.
func (b InteractionBox) Normalize(p models.Vector3f) models.Vector3f {
	rel := p.Sub(b.Center)
	n := models.Vector3f{
		X: normalizeAxis(rel.X, b.Size.X),
		Y: normalizeAxis(rel.Y, b.Size.Y),
		Z: normalizeAxis(rel.Z, b.Size.Z),
	}
	return n.Clamp(0, 1)
}

func normalizeAxis(v, size float32) float32 {
	if size < models.Epsilon {
		return 0.5
	}
	return v/size + 0.5
}
