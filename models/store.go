package models

import (
	"math/rand/v2"
	"sort"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeSlotsExhausted    = "slots_exhausted"
	ErrTypeVariableNotFound  = "variable_not_found"
	ErrTypeInconsistentGraph = "inconsistent_graph"

	// Random values are drawn from [minRandomValue, maxRandomValue).
	minRandomValue = 10
	maxRandomValue = 20
)

// VariableStore is the arena of live variables keyed by label.
//
// It is owned by the frame loop and is not safe for concurrent use.
type VariableStore struct {
	rand      *rand.Rand
	variables map[Label]*Variable
}

// NewVariableStore creates an empty store. Random values are drawn from r; a
// nil r uses a randomly seeded source.
func NewVariableStore(r *rand.Rand) *VariableStore {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &VariableStore{
		rand:      r,
		variables: make(map[Label]*Variable),
	}
}

// Add creates a variable with the lowest free label at the given position.
func (s *VariableStore) Add(pos Vector3f) (*Variable, error) {
	label, ok := lowestFreeLabel(func(l Label) bool {
		_, used := s.variables[l]
		return used
	})
	if !ok {
		instrumentCountRefusedVariable()
		return nil, errors.New("all variable slots are occupied").
			WithType(ErrTypeSlotsExhausted).
			WithTag("slots", LabelCount)
	}

	v := newVariable(label, pos, s.randomValue())
	s.variables[label] = v
	s.reindex()

	instrumentIncreaseVariableGauge()
	instrumentCountVariable()
	return v, nil
}

func (s *VariableStore) Variable(l Label) (*Variable, bool) {
	v, ok := s.variables[l]
	return v, ok
}

// Variables returns the live variables sorted by label.
func (s *VariableStore) Variables() []*Variable {
	variables := make([]*Variable, 0, len(s.variables))
	for _, v := range s.variables {
		variables = append(variables, v)
	}
	sort.Slice(variables, func(i, j int) bool {
		return variables[i].Label < variables[j].Label
	})
	return variables
}

func (s *VariableStore) Len() int {
	return len(s.variables)
}

// Bind points src at dst. A previous target of src is detached first.
func (s *VariableStore) Bind(src, dst Label) error {
	from, err := s.get(src)
	if err != nil {
		return err
	}
	to, err := s.get(dst)
	if err != nil {
		return err
	}

	if from.target != dst {
		s.detach(from)
		from.target = dst
		to.dependents[src] = struct{}{}
	}
	from.copiedFrom = NoLabel
	from.SetConnectorTip(to.IntersectPos(from.Position, true))
	return nil
}

// CopyValue assigns the current value of from to src without creating a
// binding.
func (s *VariableStore) CopyValue(src, from Label) error {
	v, err := s.get(src)
	if err != nil {
		return err
	}
	other, err := s.get(from)
	if err != nil {
		return err
	}

	value := other.Value()
	s.detach(v)
	v.value = value
	v.copiedFrom = from
	v.ResetConnector()
	return nil
}

// Release detaches the connector of the given variable, assigns it a new
// random value and restores the unbound connector pose.
func (s *VariableStore) Release(l Label) error {
	v, err := s.get(l)
	if err != nil {
		return err
	}

	s.detach(v)
	v.value = s.randomValue()
	v.copiedFrom = NoLabel
	v.ResetConnector()
	return nil
}

// Move places the variable at pos and re-derives the connectors attached to
// it.
func (s *VariableStore) Move(l Label, pos Vector3f) error {
	v, err := s.get(l)
	if err != nil {
		return err
	}

	v.Position = pos
	if target, ok := s.variables[v.target]; ok {
		v.SetConnectorTip(target.IntersectPos(v.Position, true))
	}
	for _, dl := range v.Dependents() {
		if d, ok := s.variables[dl]; ok {
			d.SetConnectorTip(v.IntersectPos(d.Position, true))
		}
	}
	return nil
}

// MoveConnectorTip drags the connector tip of the variable to pos.
func (s *VariableStore) MoveConnectorTip(l Label, pos Vector3f) error {
	v, err := s.get(l)
	if err != nil {
		return err
	}

	v.SetConnectorTip(pos)
	return nil
}

// Remove deletes the variable. Its own binding and every binding pointing at
// it are released before it leaves the store.
func (s *VariableStore) Remove(l Label) error {
	v, err := s.get(l)
	if err != nil {
		return err
	}

	// l and its dependents are live, releasing them cannot fail.
	v.Visible = false
	if v.target != NoLabel {
		_ = s.Release(l)
	}
	for _, dl := range v.Dependents() {
		_ = s.Release(dl)
	}

	delete(s.variables, l)
	s.reindex()

	instrumentDecreaseVariableGauge()
	instrumentCountRemovedVariable()
	return nil
}

// Validate checks that targets and dependents describe the same edges.
func (s *VariableStore) Validate() error {
	for _, v := range s.variables {
		if v.target != NoLabel {
			target, ok := s.variables[v.target]
			if !ok {
				return errors.New("variable points at a missing variable").
					WithType(ErrTypeInconsistentGraph).
					WithTag("label", v.Label.String()).
					WithTag("target", v.target.String())
			}
			if _, ok := target.dependents[v.Label]; !ok {
				return errors.New("target does not reference its dependent").
					WithType(ErrTypeInconsistentGraph).
					WithTag("label", v.Label.String()).
					WithTag("target", v.target.String())
			}
		}

		for dl := range v.dependents {
			d, ok := s.variables[dl]
			if !ok || d.target != v.Label {
				return errors.New("dependent does not point at the variable").
					WithType(ErrTypeInconsistentGraph).
					WithTag("label", v.Label.String()).
					WithTag("dependent", dl.String())
			}
		}
	}
	return nil
}

func (s *VariableStore) get(l Label) (*Variable, error) {
	v, ok := s.variables[l]
	if !ok {
		return nil, errors.New("variable not found").
			WithType(ErrTypeVariableNotFound).
			WithTag("label", l.String())
	}
	return v, nil
}

func (s *VariableStore) detach(v *Variable) {
	if target, ok := s.variables[v.target]; ok {
		delete(target.dependents, v.Label)
	}
	v.target = NoLabel
}

func (s *VariableStore) reindex() {
	for i, v := range s.Variables() {
		v.CodeLine = i
	}
}

func (s *VariableStore) randomValue() int {
	return minRandomValue + s.rand.IntN(maxRandomValue-minRandomValue)
}
