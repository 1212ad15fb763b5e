package sensor

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/pointerbox/models"
	"github.com/segmentio/encoding/json"
)

const (
	ErrTypeInvalidFrame = "invalid_frame"
)

// Messages of the Leap Motion service WebSocket protocol (v6).

type leapFrame struct {
	ID             *int64             `json:"id"`
	Hands          []leapHand         `json:"hands"`
	Pointables     []leapPointable    `json:"pointables"`
	Gestures       []leapGesture      `json:"gestures"`
	InteractionBox leapInteractionBox `json:"interactionBox"`
}

type leapHand struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	PalmPosition  []float32 `json:"palmPosition"`
	PinchStrength float32   `json:"pinchStrength"`
}

type leapPointable struct {
	ID          int64     `json:"id"`
	HandID      int64     `json:"handId"`
	Type        int       `json:"type"`
	TipPosition []float32 `json:"tipPosition"`
	McpPosition []float32 `json:"mcpPosition"`
	PipPosition []float32 `json:"pipPosition"`
}

type leapGesture struct {
	ID       int64     `json:"id"`
	Type     string    `json:"type"`
	State    string    `json:"state"`
	Position []float32 `json:"position"`
}

type leapInteractionBox struct {
	Center []float32 `json:"center"`
	Size   []float32 `json:"size"`
}

// DecodeFrame decodes a Leap Motion service message. ok is false when the
// message is valid but does not describe a frame, such as the protocol
// version handshake or device events.
func DecodeFrame(b []byte) (f *Frame, ok bool, err error) {
	var lf leapFrame
	if err := json.Unmarshal(b, &lf); err != nil {
		return nil, false, errors.New("decoding frame failed").
			WithType(ErrTypeInvalidFrame).
			Wrap(err)
	}
	if lf.ID == nil {
		return nil, false, nil
	}

	f = &Frame{
		ID: *lf.ID,
		Box: InteractionBox{
			Center: vector(lf.InteractionBox.Center),
			Size:   vector(lf.InteractionBox.Size),
		},
		Hands:    make([]Hand, 0, len(lf.Hands)),
		Gestures: make([]Gesture, 0, len(lf.Gestures)),
	}

	for _, lh := range lf.Hands {
		side := Side(lh.Type)
		if side != SideLeft && side != SideRight {
			return nil, false, errors.New("unknown hand type").
				WithType(ErrTypeInvalidFrame).
				WithTag("frame_id", f.ID).
				WithTag("hand_type", lh.Type)
		}

		h := Hand{
			ID:            lh.ID,
			Side:          side,
			Palm:          vector(lh.PalmPosition),
			PinchStrength: lh.PinchStrength,
		}
		for _, p := range lf.Pointables {
			if p.HandID != lh.ID || p.Type < 0 || p.Type >= FingerCount {
				continue
			}
			h.Fingers[p.Type] = Finger{
				ID:       p.ID,
				Type:     p.Type,
				Valid:    true,
				Tip:      vector(p.TipPosition),
				Proximal: vector(p.McpPosition).Add(vector(p.PipPosition)).Mul(0.5),
			}
		}
		f.Hands = append(f.Hands, h)
	}

	for _, lg := range lf.Gestures {
		f.Gestures = append(f.Gestures, Gesture{
			ID:       lg.ID,
			Type:     lg.Type,
			State:    lg.State,
			Position: vector(lg.Position),
		})
	}

	return f, true, nil
}

func vector(v []float32) models.Vector3f {
	if len(v) != 3 {
		return models.Vector3f{}
	}
	return models.Vector3f{X: v[0], Y: v[1], Z: v[2]}
}
