// Package engine runs the frame loop: it routes each sensor frame to the
// hands and the taps to the buttons, then publishes the resulting scene.
package engine

import (
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/pointerbox/featureflag"
	"github.com/aukilabs/pointerbox/hands"
	"github.com/aukilabs/pointerbox/models"
	"github.com/aukilabs/pointerbox/scene"
	"github.com/aukilabs/pointerbox/sensor"
	"github.com/aukilabs/pointerbox/ui"
)

const (
	// DefaultFrameRate is the number of frame loop iterations per second.
	DefaultFrameRate = 30

	// TapLookback is the number of recent frames scanned for taps.
	TapLookback = 5

	AddVariableLabel = "Add Var"
	ExitLabel        = "Exit"
)

var (
	AddVariableButtonPosition = models.Vector3f{X: 1, Y: 1, Z: 3}
	ExitButtonPosition        = models.Vector3f{X: 9, Y: 1, Z: 3}

	// NewVariablePosition is where the add button creates variables.
	NewVariablePosition = models.Vector3f{X: 5, Y: 5, Z: 3}

	InitialVariablePositions = []models.Vector3f{
		{X: 2, Y: 7, Z: 3},
		{X: 8, Y: 7, Z: 3},
	}
)

// Publisher receives the scene produced by each frame.
type Publisher interface {
	Publish(s scene.Snapshot)
}

// Game is the state of the pointer demo. It owns the variables, which are
// only mutated from Update.
type Game struct {
	RunID        string
	Display      scene.Display
	FeatureFlags featureflag.FeatureFlag

	Store   *models.VariableStore
	Left    *hands.Hand
	Right   *hands.Hand
	Buttons ui.Registry

	// lastFrameID is the id of the newest frame scanned for taps.
	lastFrameID int64
	exit        bool
}

// NewGame creates a game with the initial variables and buttons.
func NewGame(runID string, store *models.VariableStore, flags featureflag.FeatureFlag) *Game {
	if flags == nil {
		flags = featureflag.New(nil)
	}

	g := &Game{
		RunID:        runID,
		FeatureFlags: flags,
		Store:        store,
		Left:         hands.New(sensor.SideLeft),
		Right:        hands.New(sensor.SideRight),
	}

	disableRemoval := flags.IsSet(featureflag.FlagDisableRemoval)
	g.Left.Pinch.DisableRemoval = disableRemoval
	g.Right.Pinch.DisableRemoval = disableRemoval

	for _, pos := range InitialVariablePositions {
		g.AddVariable(pos)
	}

	g.Buttons.Register(ui.NewButton(AddVariableButtonPosition, AddVariableLabel, func() {
		g.AddVariable(NewVariablePosition)
	}))
	g.Buttons.Register(ui.NewButton(ExitButtonPosition, ExitLabel, g.Exit))
	return g
}

// AddVariable creates a variable at pos. The request is dropped when every
// label is in use.
func (g *Game) AddVariable(pos models.Vector3f) {
	v, err := g.Store.Add(pos)
	if err != nil {
		logs.WithTag("run_id", g.RunID).Debug(err)
		return
	}

	logs.WithTag("run_id", g.RunID).
		WithTag("label", v.Label.String()).
		WithTag("value", v.Value()).
		Info("variable created")
}

// Exit stops the frame loop.
func (g *Game) Exit() {
	g.exit = true
}

func (g *Game) Exited() bool {
	return g.exit
}

// Update processes the current frame of history. It reports whether a frame
// was available.
func (g *Game) Update(history sensor.History) bool {
	current, ok := history.Current()
	if !ok {
		return false
	}
	start := time.Now()

	for _, h := range current.Hands {
		hand := g.hand(h.Side)
		if hand == nil {
			continue
		}
		g.logEvent(hand.Side, hand.Update(history, h, g.Store))
	}

	g.FeatureFlags.IfNotSet(featureflag.FlagDisableScreenTap, func() {
		g.routeTaps(history)
	})

	g.lastFrameID = current.ID

	instrumentFrame(time.Since(start))
	return true
}

// Snapshot returns the scene as left by the last update.
func (g *Game) Snapshot() scene.Snapshot {
	return scene.Snapshot{
		RunID:     g.RunID,
		FrameID:   g.lastFrameID,
		Display:   g.Display,
		Variables: scene.Variables(g.Store),
		Hands: []scene.Hand{
			scene.NewHand(g.Left.Side, g.Left.Tracker.Pose()),
			scene.NewHand(g.Right.Side, g.Right.Tracker.Pose()),
		},
	}
}

// Run updates the game at the given rate with the frames of source and
// publishes a snapshot after each processed frame. It returns when the exit
// button is pressed or ctx is done.
func (g *Game) Run(ctx context.Context, frameRate int, source sensor.Source, pub Publisher) error {
	if frameRate <= 0 {
		return errors.New("invalid frame rate").WithTag("frame_rate", frameRate)
	}

	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	logs.WithTag("run_id", g.RunID).
		WithTag("frame_rate", frameRate).
		Info("starting frame loop")

	for !g.exit {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if !g.Update(source.Poll()) {
				continue
			}
			if pub != nil {
				g.FeatureFlags.IfNotSet(featureflag.FlagDisableSceneBroadcast, func() {
					pub.Publish(g.Snapshot())
				})
			}
		}
	}

	logs.WithTag("run_id", g.RunID).Info("exit requested")
	return nil
}

func (g *Game) hand(side sensor.Side) *hands.Hand {
	switch {
	case side == sensor.SideLeft && !g.FeatureFlags.IsSet(featureflag.FlagDisableLeftHand):
		return g.Left

	case side == sensor.SideRight && !g.FeatureFlags.IsSet(featureflag.FlagDisableRightHand):
		return g.Right

	default:
		return nil
	}
}

// routeTaps presses the buttons hit by the taps of the frames received since
// the previous update, newest first.
func (g *Game) routeTaps(history sensor.History) {
	for back := 0; back < TapLookback; back++ {
		f, ok := history.Frame(back)
		if !ok || f.ID <= g.lastFrameID {
			return
		}

		for _, gesture := range f.Gestures {
			if gesture.Type != sensor.GestureTypeScreenTap {
				continue
			}

			pos := f.ToDisplay(gesture.Position)
			c, hit := g.Buttons.Tap(pos)
			instrumentTap(hit)

			var button string
			if b, ok := c.(*ui.Button); ok {
				button = b.Label
			}
			logs.WithTag("run_id", g.RunID).
				WithTag("frame_id", f.ID).
				WithTag("position", pos).
				WithTag("button", button).
				Debug("tap")
		}
	}
}

func (g *Game) logEvent(side sensor.Side, ev hands.Event) {
	entry := logs.WithTag("run_id", g.RunID).
		WithTag("side", side).
		WithTag("label", ev.Label.String())

	switch ev.Type {
	case hands.EventGrabbed:
		entry.WithTag("connector", ev.Connector).Debug("variable grabbed")

	case hands.EventDropped:
		if ev.Err != nil {
			entry.Warn(errors.New("resolving connector failed").Wrap(ev.Err))
			return
		}
		entry.WithTag("outcome", ev.Result.Outcome.String()).
			WithTag("target", ev.Result.Target.String()).
			Info("connector dropped")

	case hands.EventRemoved:
		if ev.Err != nil {
			entry.Warn(errors.New("removing variable failed").Wrap(ev.Err))
			return
		}
		entry.Info("variable removed")
	}
}
