package service

import (
	"github.com/berfenger/lovense2mqtt/internal/core/domain"
)

// StateStore holds the desired state of every known toy. It is the
// single source of truth for command generation: commands are always
// derived from the merged state, never from the incoming delta alone.
//
// The store is not safe for concurrent use. It is owned by the
// coordinator actor and only touched from its message loop.
type StateStore struct {
	states map[string]*domain.DesiredState
}

func NewStateStore() *StateStore {
	return &StateStore{
		states: make(map[string]*domain.DesiredState),
	}
}

// Get returns a copy of the desired state of a toy. Unknown toys report
// the all-off default without creating a record.
func (s *StateStore) Get(toyId string) domain.DesiredState {
	state, ok := s.states[toyId]
	if !ok {
		return domain.DesiredState{}
	}
	return copyState(*state)
}

// Merge applies a partial update to a toy's desired state and returns a
// copy of the merged result. A record is created lazily on first merge.
// Values are clamped to their valid ranges. Explicit values win over
// clear flags set in the same delta.
func (s *StateStore) Merge(toyId string, update domain.PartialSettings) domain.DesiredState {
	state, ok := s.states[toyId]
	if !ok {
		state = &domain.DesiredState{}
		s.states[toyId] = state
	}

	if update.ClearPosition {
		state.Position = nil
	}
	if update.ClearStroke {
		state.Stroke = nil
	}
	if update.Vibration != nil {
		state.Vibration = domain.ClampVibration(*update.Vibration)
	}
	if update.Thrusting != nil {
		state.Thrusting = domain.ClampThrusting(*update.Thrusting)
	}
	if update.Position != nil {
		position := domain.ClampPosition(*update.Position)
		state.Position = &position
	}
	if update.Stroke != nil {
		stroke := normalizeStroke(*update.Stroke)
		state.Stroke = &stroke
	}

	return copyState(*state)
}

// Reset drops the record of a toy.
func (s *StateStore) Reset(toyId string) {
	delete(s.states, toyId)
}

// ToyIds returns the ids of every toy with a state record.
func (s *StateStore) ToyIds() []string {
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	return ids
}

func normalizeStroke(stroke domain.StrokeRange) domain.StrokeRange {
	low := domain.ClampPosition(stroke.Low)
	high := domain.ClampPosition(stroke.High)
	if low >= high {
		if low >= domain.PositionMax {
			low = domain.PositionMax - 1
		}
		high = low + 1
	}
	return domain.StrokeRange{Low: low, High: high}
}

func copyState(state domain.DesiredState) domain.DesiredState {
	result := state
	if state.Position != nil {
		position := *state.Position
		result.Position = &position
	}
	if state.Stroke != nil {
		stroke := *state.Stroke
		result.Stroke = &stroke
	}
	return result
}
