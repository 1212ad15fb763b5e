// Package connector resolves what happens when a grabbed connector is
// released.
package connector

import (
	"github.com/aukilabs/pointerbox/models"
)

// CaptureFactor scales the half-size of a variable to obtain the radius in
// which a released connector tip is captured.
const CaptureFactor float32 = 1.1

// Outcome is the result of releasing a connector.
type Outcome int

const (
	// OutcomeUnbound snaps the connector back and assigns a random value.
	OutcomeUnbound Outcome = iota

	// OutcomeValueCopy copies the value of the variable the connector was
	// dropped on, from above its center.
	OutcomeValueCopy

	// OutcomeAddressBind points the connector at the variable it was dropped
	// on, from below its center.
	OutcomeAddressBind
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValueCopy:
		return "value_copy"
	case OutcomeAddressBind:
		return "address_bind"
	default:
		return "unbound"
	}
}

// Result describes a resolved connector release.
type Result struct {
	Outcome Outcome
	Target  models.Label
}

// Resolve applies the release of the connector owned by src, using the
// current position of its tip.
func Resolve(store *models.VariableStore, src models.Label) (Result, error) {
	v, ok := store.Variable(src)
	if !ok {
		// Release reports the missing variable.
		return Result{}, store.Release(src)
	}

	tip := v.ConnectorTip()
	candidate, ok := captured(store, src, tip)
	if !ok {
		instrumentDrop(OutcomeUnbound)
		return Result{Outcome: OutcomeUnbound}, store.Release(src)
	}

	if tip.Y > candidate.Position.Y {
		instrumentDrop(OutcomeValueCopy)
		return Result{
			Outcome: OutcomeValueCopy,
			Target:  candidate.Label,
		}, store.CopyValue(src, candidate.Label)
	}

	instrumentDrop(OutcomeAddressBind)
	return Result{
		Outcome: OutcomeAddressBind,
		Target:  candidate.Label,
	}, store.Bind(src, candidate.Label)
}

// captured returns the first variable, in label order, whose capture sphere
// contains tip.
func captured(store *models.VariableStore, src models.Label, tip models.Vector3f) (*models.Variable, bool) {
	for _, c := range store.Variables() {
		if c.Label == src {
			continue
		}
		if models.Distance(c.Position, tip) < models.VariableHalfSize*CaptureFactor {
			return c, true
		}
	}
	return nil, false
}
