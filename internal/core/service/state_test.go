package service

import (
	"testing"

	"github.com/berfenger/lovense2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStoreLazyDefault(t *testing.T) {
	store := NewStateStore()
	state := store.Get("t1")
	assert.Equal(t, domain.DesiredState{}, state)
	assert.Empty(t, store.ToyIds())

	store.Merge("t1", domain.PartialSettings{})
	assert.Equal(t, []string{"t1"}, store.ToyIds())
}

func TestStateStoreMergeUntouchedFields(t *testing.T) {
	store := NewStateStore()
	store.Merge("t1", domain.PartialSettings{Vibration: intPtr(12)})
	merged := store.Merge("t1", domain.PartialSettings{Thrusting: intPtr(5)})
	assert.Equal(t, 12, merged.Vibration)
	assert.Equal(t, 5, merged.Thrusting)
	assert.Nil(t, merged.Position)
	assert.Nil(t, merged.Stroke)
}

func TestStateStoreClamping(t *testing.T) {
	store := NewStateStore()
	merged := store.Merge("t1", domain.PartialSettings{
		Vibration: intPtr(42),
		Thrusting: intPtr(-3),
		Position:  intPtr(150),
	})
	assert.Equal(t, 20, merged.Vibration)
	assert.Equal(t, 0, merged.Thrusting)
	require.NotNil(t, merged.Position)
	assert.Equal(t, 100, *merged.Position)
}

func TestStateStoreClearFlags(t *testing.T) {
	store := NewStateStore()
	store.Merge("t1", domain.PartialSettings{
		Position: intPtr(55),
		Stroke:   &domain.StrokeRange{Low: 10, High: 80},
	})
	merged := store.Merge("t1", domain.PartialSettings{ClearPosition: true, ClearStroke: true})
	assert.Nil(t, merged.Position)
	assert.Nil(t, merged.Stroke)

	// explicit value wins over its clear flag in the same delta
	merged = store.Merge("t1", domain.PartialSettings{ClearPosition: true, Position: intPtr(30)})
	require.NotNil(t, merged.Position)
	assert.Equal(t, 30, *merged.Position)
}

func TestStateStoreMergeIdempotence(t *testing.T) {
	store := NewStateStore()
	update := domain.PartialSettings{Vibration: intPtr(8), Stroke: &domain.StrokeRange{Low: 20, High: 60}}
	first := store.Merge("t1", update)
	second := store.Merge("t1", update)
	assert.Equal(t, first, second)
}

func TestStateStoreLastWriteWins(t *testing.T) {
	store := NewStateStore()
	store.Merge("t1", domain.PartialSettings{Vibration: intPtr(8)})
	merged := store.Merge("t1", domain.PartialSettings{Vibration: intPtr(3)})
	assert.Equal(t, 3, merged.Vibration)
}

func TestStateStoreStrokeNormalization(t *testing.T) {
	store := NewStateStore()
	merged := store.Merge("t1", domain.PartialSettings{Stroke: &domain.StrokeRange{Low: 80, High: 20}})
	require.NotNil(t, merged.Stroke)
	assert.Less(t, merged.Stroke.Low, merged.Stroke.High)

	merged = store.Merge("t1", domain.PartialSettings{Stroke: &domain.StrokeRange{Low: 100, High: 100}})
	require.NotNil(t, merged.Stroke)
	assert.Equal(t, domain.StrokeRange{Low: 99, High: 100}, *merged.Stroke)
}

func TestStateStoreMergeReturnsCopy(t *testing.T) {
	store := NewStateStore()
	merged := store.Merge("t1", domain.PartialSettings{Position: intPtr(50)})
	*merged.Position = 99
	state := store.Get("t1")
	require.NotNil(t, state.Position)
	assert.Equal(t, 50, *state.Position)
}

func TestStateStoreIsolatesToys(t *testing.T) {
	store := NewStateStore()
	store.Merge("t1", domain.PartialSettings{Vibration: intPtr(12)})
	store.Merge("t2", domain.PartialSettings{Vibration: intPtr(3)})
	assert.Equal(t, 12, store.Get("t1").Vibration)
	assert.Equal(t, 3, store.Get("t2").Vibration)

	store.Reset("t1")
	assert.Equal(t, domain.DesiredState{}, store.Get("t1"))
	assert.Equal(t, 3, store.Get("t2").Vibration)
}
