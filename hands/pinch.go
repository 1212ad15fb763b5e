package hands

import (
	"github.com/aukilabs/pointerbox/connector"
	"github.com/aukilabs/pointerbox/models"
)

const (
	// PinchThreshold is the pinch strength above which a hand pinches.
	PinchThreshold float32 = 0.9

	// GrabRadius is the maximum distance between the thumb tip and a grabbed
	// element.
	GrabRadius float32 = 0.6

	// A grabbed variable dragged outside of ]MarginMin, MarginMax[ on any
	// axis is removed.
	MarginMin float32 = 0.1
	MarginMax float32 = 9.9
)

// EventType describes what a pinch update did.
type EventType int

const (
	EventNone EventType = iota
	EventPinched
	EventGrabbed
	EventReleased
	EventDropped
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventPinched:
		return "pinched"
	case EventGrabbed:
		return "grabbed"
	case EventReleased:
		return "released"
	case EventDropped:
		return "dropped"
	case EventRemoved:
		return "removed"
	default:
		return "none"
	}
}

// Event is the notable transition of a pinch update.
type Event struct {
	Type      EventType
	Label     models.Label
	Connector bool
	Result    connector.Result
	Err       error
}

// Pinch is the grab state machine of a hand.
type Pinch struct {
	// DisableRemoval keeps grabbed variables inside the volume instead of
	// removing them at the margin.
	DisableRemoval bool

	pinching           bool
	grabbed            models.Label
	grabbedIsConnector bool
}

func (p *Pinch) Pinching() bool {
	return p.pinching
}

// Grabbed returns the grabbed variable label and whether its connector, and
// not its body, is grabbed.
func (p *Pinch) Grabbed() (label models.Label, isConnector bool, ok bool) {
	return p.grabbed, p.grabbedIsConnector, p.grabbed != models.NoLabel
}

// Update advances the machine with the pinch strength and thumb tip of the
// current frame.
func (p *Pinch) Update(strength float32, thumbTip models.Vector3f, store *models.VariableStore) Event {
	var ev Event

	// The variable may have been removed by the other hand.
	if p.grabbed != models.NoLabel {
		if _, ok := store.Variable(p.grabbed); !ok {
			p.release()
		}
	}

	if strength > PinchThreshold {
		if !p.pinching {
			p.pinching = true
			ev.Type = EventPinched

			if label, isConnector, ok := nearest(store, thumbTip); ok {
				p.grabbed = label
				p.grabbedIsConnector = isConnector
				ev = Event{Type: EventGrabbed, Label: label, Connector: isConnector}
			}
		}
	} else if p.pinching {
		p.pinching = false
		ev = Event{Type: EventReleased, Label: p.grabbed, Connector: p.grabbedIsConnector}

		if p.grabbed != models.NoLabel && p.grabbedIsConnector {
			ev.Type = EventDropped
			ev.Result, ev.Err = connector.Resolve(store, p.grabbed)
		}
		p.release()
	}

	if p.grabbed == models.NoLabel {
		return ev
	}

	// The grabbed variable exists, moving it cannot fail.
	switch {
	case p.grabbedIsConnector:
		_ = store.MoveConnectorTip(p.grabbed, thumbTip)

	case thumbTip.InsideOpen(MarginMin, MarginMax) || p.DisableRemoval:
		_ = store.Move(p.grabbed, thumbTip.Clamp(MarginMin, MarginMax))

	default:
		ev = Event{Type: EventRemoved, Label: p.grabbed}
		ev.Err = store.Remove(p.grabbed)
		p.release()
	}

	return ev
}

func (p *Pinch) release() {
	p.grabbed = models.NoLabel
	p.grabbedIsConnector = false
}

// nearest returns the variable body or connector tip closest to pos within
// GrabRadius. Variables are visited in label order and the first minimum
// wins.
func nearest(store *models.VariableStore, pos models.Vector3f) (label models.Label, isConnector bool, ok bool) {
	min := GrabRadius * GrabRadius

	for _, v := range store.Variables() {
		if d := pos.Sub(v.Position).Mag2(); d < min {
			label, isConnector, ok = v.Label, false, true
			min = d
		}
		if d := pos.Sub(v.ConnectorTip()).Mag2(); d < min {
			label, isConnector, ok = v.Label, true, true
			min = d
		}
	}
	return label, isConnector, ok
}
