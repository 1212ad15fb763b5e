package engine

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aukilabs/pointerbox/featureflag"
	"github.com/aukilabs/pointerbox/hands"
	"github.com/aukilabs/pointerbox/models"
	"github.com/aukilabs/pointerbox/scene"
	"github.com/aukilabs/pointerbox/sensor"
	"github.com/stretchr/testify/require"
)

// identityBox maps raw points in [0, 10] to the same display point.
var identityBox = sensor.InteractionBox{
	Center: models.Vector3f{X: 5, Y: 5, Z: 5},
	Size:   models.Vector3f{X: 10, Y: 10, Z: 10},
}

type staticSource struct {
	history sensor.History
}

func (s staticSource) Poll() sensor.History {
	return s.history
}

type recorder struct {
	snapshots []scene.Snapshot
}

func (r *recorder) Publish(s scene.Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

func newTestGame(t *testing.T, flags ...string) *Game {
	t.Helper()
	store := models.NewVariableStore(rand.New(rand.NewPCG(1, 2)))
	return NewGame("test-run", store, featureflag.New(flags))
}

func newFrame(id int64, gestures ...sensor.Gesture) *sensor.Frame {
	return &sensor.Frame{ID: id, Gestures: gestures, Box: identityBox}
}

func tapAt(p models.Vector3f) sensor.Gesture {
	return sensor.Gesture{Type: sensor.GestureTypeScreenTap, State: "stop", Position: p}
}

func pinchingHand(side sensor.Side, thumbTip models.Vector3f) sensor.Hand {
	h := sensor.Hand{
		ID:            1,
		Side:          side,
		Palm:          thumbTip,
		PinchStrength: 0.95,
	}
	h.Fingers[0] = sensor.Finger{ID: 10, Valid: true, Tip: thumbTip, Proximal: thumbTip}
	return h
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t)

	variables := g.Store.Variables()
	require.Len(t, variables, 2)
	require.Equal(t, models.Label('i'), variables[0].Label)
	require.Equal(t, InitialVariablePositions[0], variables[0].Position)
	require.Equal(t, models.Label('j'), variables[1].Label)
	require.Equal(t, InitialVariablePositions[1], variables[1].Position)

	require.Len(t, g.Buttons.Regions(), 2)
	require.False(t, g.Exited())
}

func TestGameUpdate(t *testing.T) {
	t.Run("empty history is not processed", func(t *testing.T) {
		g := newTestGame(t)
		require.False(t, g.Update(nil))
	})

	t.Run("tap on the add button creates a variable", func(t *testing.T) {
		g := newTestGame(t)

		require.True(t, g.Update(sensor.History{newFrame(1, tapAt(AddVariableButtonPosition))}))
		require.Equal(t, 3, g.Store.Len())

		v, ok := g.Store.Variable('k')
		require.True(t, ok)
		require.Equal(t, NewVariablePosition, v.Position)
	})

	t.Run("processed frames are not tapped again", func(t *testing.T) {
		g := newTestGame(t)
		h := sensor.History{newFrame(1, tapAt(AddVariableButtonPosition))}

		g.Update(h)
		g.Update(h)
		require.Equal(t, 3, g.Store.Len())
	})

	t.Run("taps of skipped frames are processed", func(t *testing.T) {
		g := newTestGame(t)
		f1 := newFrame(1, tapAt(AddVariableButtonPosition))
		g.Update(sensor.History{f1})
		require.Equal(t, 3, g.Store.Len())

		g.Update(sensor.History{
			newFrame(3, tapAt(AddVariableButtonPosition)),
			newFrame(2, tapAt(AddVariableButtonPosition)),
			f1,
		})
		require.Equal(t, 5, g.Store.Len())
	})

	t.Run("taps are scanned on the five newest frames", func(t *testing.T) {
		g := newTestGame(t)

		var h sensor.History
		for id := int64(6); id > 0; id-- {
			h = append(h, newFrame(id, tapAt(AddVariableButtonPosition)))
		}

		g.Update(h)
		require.Equal(t, 2+TapLookback, g.Store.Len())
	})

	t.Run("tap outside of the buttons does nothing", func(t *testing.T) {
		g := newTestGame(t)

		g.Update(sensor.History{newFrame(1, tapAt(models.Vector3f{X: 5, Y: 5, Z: 3}))})
		require.Equal(t, 2, g.Store.Len())
		require.False(t, g.Exited())
	})

	t.Run("gestures other than taps are ignored", func(t *testing.T) {
		g := newTestGame(t)

		g.Update(sensor.History{newFrame(1, sensor.Gesture{
			Type:     "circle",
			Position: AddVariableButtonPosition,
		})})
		require.Equal(t, 2, g.Store.Len())
	})

	t.Run("add requests are dropped when slots are exhausted", func(t *testing.T) {
		g := newTestGame(t)

		for id := int64(1); id <= models.LabelCount; id++ {
			g.Update(sensor.History{newFrame(id, tapAt(AddVariableButtonPosition))})
		}
		require.Equal(t, models.LabelCount, g.Store.Len())
		require.NoError(t, g.Store.Validate())
	})

	t.Run("tap on the exit button exits", func(t *testing.T) {
		g := newTestGame(t)

		g.Update(sensor.History{newFrame(1, tapAt(ExitButtonPosition))})
		require.True(t, g.Exited())
	})

	t.Run("taps are ignored when disabled", func(t *testing.T) {
		g := newTestGame(t, string(featureflag.FlagDisableScreenTap))

		g.Update(sensor.History{newFrame(1, tapAt(AddVariableButtonPosition))})
		require.Equal(t, 2, g.Store.Len())
	})

	t.Run("hands are routed by side", func(t *testing.T) {
		g := newTestGame(t)
		f := newFrame(1)
		f.Hands = []sensor.Hand{pinchingHand(sensor.SideLeft, InitialVariablePositions[0])}

		g.Update(sensor.History{f})

		label, isConnector, ok := g.Left.Pinch.Grabbed()
		require.True(t, ok)
		require.False(t, isConnector)
		require.Equal(t, models.Label('i'), label)

		_, _, ok = g.Right.Pinch.Grabbed()
		require.False(t, ok)
	})

	t.Run("disabled hands are not routed", func(t *testing.T) {
		g := newTestGame(t, string(featureflag.FlagDisableLeftHand))
		f := newFrame(1)
		f.Hands = []sensor.Hand{pinchingHand(sensor.SideLeft, InitialVariablePositions[0])}

		g.Update(sensor.History{f})

		_, _, ok := g.Left.Pinch.Grabbed()
		require.False(t, ok)
		require.Equal(t, hands.StartPosition, g.Left.Tracker.Pose().Palm)
	})
}

func TestGameSnapshot(t *testing.T) {
	g := newTestGame(t)
	g.Display = scene.Display{Width: 1024, Height: 720}
	g.Update(sensor.History{newFrame(42)})

	s := g.Snapshot()
	require.Equal(t, "test-run", s.RunID)
	require.Equal(t, int64(42), s.FrameID)
	require.Equal(t, g.Display, s.Display)
	require.Len(t, s.Variables, 2)
	require.Len(t, s.Hands, 2)
	require.Equal(t, "left", s.Hands[0].Side)
	require.Equal(t, "right", s.Hands[1].Side)
}

func TestGameRun(t *testing.T) {
	t.Run("exit button stops the loop", func(t *testing.T) {
		g := newTestGame(t)
		src := staticSource{history: sensor.History{newFrame(1, tapAt(ExitButtonPosition))}}
		var pub recorder

		err := g.Run(context.Background(), 1000, src, &pub)
		require.NoError(t, err)
		require.Len(t, pub.snapshots, 1)
		require.Equal(t, int64(1), pub.snapshots[0].FrameID)
	})

	t.Run("context cancellation stops the loop", func(t *testing.T) {
		g := newTestGame(t)
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
		defer cancel()

		var pub recorder
		err := g.Run(ctx, 1000, staticSource{}, &pub)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Empty(t, pub.snapshots)
	})

	t.Run("snapshots are not published when disabled", func(t *testing.T) {
		g := newTestGame(t, string(featureflag.FlagDisableSceneBroadcast))
		src := staticSource{history: sensor.History{newFrame(1, tapAt(ExitButtonPosition))}}
		var pub recorder

		require.NoError(t, g.Run(context.Background(), 1000, src, &pub))
		require.Empty(t, pub.snapshots)
	})

	t.Run("invalid frame rate returns an error", func(t *testing.T) {
		g := newTestGame(t)
		require.Error(t, g.Run(context.Background(), 0, staticSource{}, nil))
	})
}
