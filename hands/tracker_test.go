package hands

import (
	"testing"

	"github.com/aukilabs/pointerbox/models"
	"github.com/aukilabs/pointerbox/sensor"
	"github.com/stretchr/testify/require"
)

// identityBox maps raw points in [0, 10] to the same display point.
var identityBox = sensor.InteractionBox{
	Center: models.Vector3f{X: 5, Y: 5, Z: 5},
	Size:   models.Vector3f{X: 10, Y: 10, Z: 10},
}

func requireVectorInDelta(t *testing.T, expected, actual models.Vector3f) {
	t.Helper()
	require.InDelta(t, expected.X, actual.X, 0.0001, "x")
	require.InDelta(t, expected.Y, actual.Y, 0.0001, "y")
	require.InDelta(t, expected.Z, actual.Z, 0.0001, "z")
}

func newHand(id int64, side sensor.Side, palm models.Vector3f) sensor.Hand {
	return sensor.Hand{ID: id, Side: side, Palm: palm}
}

func withThumb(h sensor.Hand, id int64, tip, proximal models.Vector3f) sensor.Hand {
	h.Fingers[0] = sensor.Finger{ID: id, Valid: true, Tip: tip, Proximal: proximal}
	return h
}

func newFrame(id int64, hands ...sensor.Hand) *sensor.Frame {
	return &sensor.Frame{ID: id, Hands: hands, Box: identityBox}
}

func TestTrackerStartPosition(t *testing.T) {
	tr := NewTracker()
	require.Equal(t, StartPosition, tr.Pose().Palm)
	require.Equal(t, StartPosition, tr.ThumbTip())
}

func TestTrackerPalmSmoothing(t *testing.T) {
	t.Run("palm is the average of the last four frames", func(t *testing.T) {
		h := sensor.History{
			newFrame(5, newHand(1, sensor.SideLeft, models.Vector3f{X: 4, Y: 5, Z: 5})),
			newFrame(4, newHand(1, sensor.SideLeft, models.Vector3f{X: 3, Y: 5, Z: 5})),
			newFrame(3, newHand(1, sensor.SideLeft, models.Vector3f{X: 2, Y: 5, Z: 5})),
			newFrame(2, newHand(1, sensor.SideLeft, models.Vector3f{X: 1, Y: 5, Z: 5})),
			newFrame(1, newHand(1, sensor.SideLeft, models.Vector3f{X: 9, Y: 5, Z: 5})),
		}
		current, _ := h.Current()

		tr := NewTracker()
		pose := tr.Update(h, current.Hands[0])
		requireVectorInDelta(t, models.Vector3f{X: 2.5, Y: 5, Z: 5}, pose.Palm)
	})

	t.Run("missing samples are skipped", func(t *testing.T) {
		h := sensor.History{
			newFrame(4, newHand(1, sensor.SideLeft, models.Vector3f{X: 4, Y: 5, Z: 5})),
			newFrame(3),
			newFrame(2, newHand(2, sensor.SideLeft, models.Vector3f{X: 9, Y: 9, Z: 9})),
			newFrame(1, newHand(1, sensor.SideLeft, models.Vector3f{X: 2, Y: 5, Z: 5})),
		}
		current, _ := h.Current()

		tr := NewTracker()
		pose := tr.Update(h, current.Hands[0])
		requireVectorInDelta(t, models.Vector3f{X: 3, Y: 5, Z: 5}, pose.Palm)
	})

	t.Run("short history averages the available frames", func(t *testing.T) {
		h := sensor.History{
			newFrame(2, newHand(1, sensor.SideLeft, models.Vector3f{X: 4, Y: 4, Z: 4})),
			newFrame(1, newHand(1, sensor.SideLeft, models.Vector3f{X: 2, Y: 2, Z: 2})),
		}

		tr := NewTracker()
		pose := tr.Update(h, h[0].Hands[0])
		requireVectorInDelta(t, models.Vector3f{X: 3, Y: 3, Z: 3}, pose.Palm)
	})

	t.Run("no sample keeps the previous pose", func(t *testing.T) {
		tr := NewTracker()
		first := sensor.History{newFrame(1, newHand(1, sensor.SideLeft, models.Vector3f{X: 2, Y: 3, Z: 4}))}
		tr.Update(first, first[0].Hands[0])

		stale := newHand(1, sensor.SideLeft, models.Vector3f{})
		pose := tr.Update(sensor.History{newFrame(2), newFrame(3)}, stale)
		requireVectorInDelta(t, models.Vector3f{X: 2, Y: 3, Z: 4}, pose.Palm)
	})

	t.Run("samples are normalized with their own frame", func(t *testing.T) {
		shifted := newFrame(1, newHand(1, sensor.SideLeft, models.Vector3f{X: 1, Y: 1, Z: 1}))
		shifted.Box = sensor.InteractionBox{
			Center: models.Vector3f{},
			Size:   models.Vector3f{X: 10, Y: 10, Z: 10},
		}
		h := sensor.History{
			newFrame(2, newHand(1, sensor.SideLeft, models.Vector3f{X: 1, Y: 1, Z: 1})),
			shifted,
		}

		tr := NewTracker()
		pose := tr.Update(h, h[0].Hands[0])
		requireVectorInDelta(t, models.Vector3f{X: 3.5, Y: 3.5, Z: 3.5}, pose.Palm)
	})
}

func TestTrackerFingerSmoothing(t *testing.T) {
	palm := models.Vector3f{X: 5, Y: 5, Z: 5}

	current := withThumb(newHand(1, sensor.SideRight, palm), 10,
		models.Vector3f{X: 4, Y: 8, Z: 5}, models.Vector3f{X: 4, Y: 6, Z: 5})
	current.Fingers[1] = sensor.Finger{ID: 11, Valid: true,
		Tip: models.Vector3f{X: 6, Y: 9, Z: 5}, Proximal: models.Vector3f{X: 6, Y: 7, Z: 5}}

	previous := withThumb(newHand(1, sensor.SideRight, palm), 10,
		models.Vector3f{X: 2, Y: 8, Z: 5}, models.Vector3f{X: 2, Y: 6, Z: 5})

	h := sensor.History{newFrame(2, current), newFrame(1, previous)}

	tr := NewTracker()
	pose := tr.Update(h, current)

	thumb := pose.Fingers[0]
	requireVectorInDelta(t, models.Vector3f{X: 3, Y: 8, Z: 5}, thumb.Tip)
	requireVectorInDelta(t, models.Vector3f{X: 3, Y: 6, Z: 5}, thumb.Proximal)
	requireVectorInDelta(t, thumb.Proximal, thumb.Bones[0].From)
	requireVectorInDelta(t, models.Vector3f{X: 0, Y: 2, Z: 0}, thumb.Bones[0].Axis)
	requireVectorInDelta(t, palm, thumb.Bones[1].From)
	requireVectorInDelta(t, models.Vector3f{X: -2, Y: 1, Z: 0}, thumb.Bones[1].Axis)
	requireVectorInDelta(t, thumb.Tip, tr.ThumbTip())

	index := pose.Fingers[1]
	requireVectorInDelta(t, models.Vector3f{X: 6, Y: 9, Z: 5}, index.Tip)

	// Fingers without samples stay where they started.
	require.Equal(t, StartPosition, pose.Fingers[2].Tip)
}
