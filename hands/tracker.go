package hands

import (
	"github.com/aukilabs/pointerbox/models"
	"github.com/aukilabs/pointerbox/sensor"
)

// SmoothingFrames is the number of recent frames averaged to stabilize a
// hand.
const SmoothingFrames = 4

// StartPosition is where hand joints are placed before their first sample,
// behind the camera.
var StartPosition = models.Vector3f{X: 0, Y: 0, Z: 20}

// Bone is a visual segment starting at From.
type Bone struct {
	From models.Vector3f
	Axis models.Vector3f
}

// FingerPose is a stabilized finger. Bones[0] goes from the proximal bone
// center to the tip, Bones[1] from the palm to the proximal bone center.
type FingerPose struct {
	Tip      models.Vector3f
	Proximal models.Vector3f
	Bones    [2]Bone
}

// Pose is a stabilized hand in display space.
type Pose struct {
	Palm    models.Vector3f
	Fingers [sensor.FingerCount]FingerPose
}

// Tracker stabilizes a hand by averaging its samples over the recent frames.
type Tracker struct {
	pose Pose
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.pose.Palm = StartPosition
	for i := range t.pose.Fingers {
		t.pose.Fingers[i] = FingerPose{
			Tip:      StartPosition,
			Proximal: StartPosition,
			Bones: [2]Bone{
				{From: StartPosition},
				{From: StartPosition},
			},
		}
	}
	return t
}

func (t *Tracker) Pose() Pose {
	return t.pose
}

// ThumbTip returns the stabilized thumb tip, used as the pinch position.
func (t *Tracker) ThumbTip() models.Vector3f {
	return t.pose.Fingers[0].Tip
}

// Update stabilizes the given hand using the frames of h. Samples are mapped
// to display space with the interaction box of their own frame before being
// averaged. Positions without any sample in the window are left unchanged.
func (t *Tracker) Update(h sensor.History, hand sensor.Hand) Pose {
	var palm models.Average
	for j := 0; j < SmoothingFrames; j++ {
		f, ok := h.Frame(j)
		if !ok {
			continue
		}
		if s, ok := f.Hand(hand.ID); ok {
			palm.Add(f.ToDisplay(s.Palm))
		}
	}
	if p, ok := palm.Mean(); ok {
		t.pose.Palm = p
	}

	for i, finger := range hand.Fingers {
		if !finger.Valid {
			continue
		}

		var tip, proximal models.Average
		for j := 0; j < SmoothingFrames; j++ {
			f, ok := h.Frame(j)
			if !ok {
				continue
			}
			if s, ok := f.Finger(finger.ID); ok {
				tip.Add(f.ToDisplay(s.Tip))
				proximal.Add(f.ToDisplay(s.Proximal))
			}
		}

		tipMean, ok := tip.Mean()
		if !ok {
			continue
		}
		proximalMean, _ := proximal.Mean()

		t.pose.Fingers[i] = FingerPose{
			Tip:      tipMean,
			Proximal: proximalMean,
			Bones: [2]Bone{
				{From: proximalMean, Axis: tipMean.Sub(proximalMean)},
				{From: t.pose.Palm, Axis: proximalMean.Sub(t.pose.Palm)},
			},
		}
	}

	return t.pose
}
