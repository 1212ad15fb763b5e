// Package hands stabilizes tracked hands and turns their pinches into
// variable manipulations.
package hands

import (
	"github.com/aukilabs/pointerbox/models"
	"github.com/aukilabs/pointerbox/sensor"
)

// Hand is the tracked state of one side.
type Hand struct {
	Side    sensor.Side
	Tracker *Tracker
	Pinch   *Pinch
}

func New(side sensor.Side) *Hand {
	return &Hand{
		Side:    side,
		Tracker: NewTracker(),
		Pinch:   &Pinch{},
	}
}

// Update stabilizes the hand with the recent frames then runs the pinch
// machine against the variables of the store.
func (h *Hand) Update(history sensor.History, hand sensor.Hand, store *models.VariableStore) Event {
	h.Tracker.Update(history, hand)

	ev := h.Pinch.Update(hand.PinchStrength, h.Tracker.ThumbTip(), store)
	instrumentEvent(h.Side, ev)
	return ev
}
