package events

import (
	. "github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/pkg/lovense"
)

// InventoryUpdatedEvent is published on the event stream whenever the
// accessory inventory is replaced by a pairing callback or a refresh.
type InventoryUpdatedEvent struct {
	Toys lovense.ToyMap
}

// PairingStateUpdateEvent builds the sensor update for the bridge
// pairing state.
func PairingStateUpdateEvent(pairingState string) any {
	return TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_PAIRING_STATE,
		},
		Value: pairingState,
	}
}

func ToyInfoToUpdateEvents(toy lovense.Toy) []any {
	var events []any

	// Connectivity
	events = append(events, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: ToyEntityId(toy.Id, ENTITY_SUFFIX_CONNECTED),
		},
		Value: toy.Connected,
	})
	// Battery level
	if toy.Battery != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: ToyEntityId(toy.Id, ENTITY_SUFFIX_BATTERY),
			},
			Value: float64(*toy.Battery),
		})
	}

	return events
}

func ToySettingsToUpdateEvents(toyId string, state DesiredState) []any {
	var events []any

	// Vibration level
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: ToyEntityId(toyId, ENTITY_SUFFIX_VIBRATION),
		},
		Value: float64(state.Vibration),
	})
	// Thrusting level
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: ToyEntityId(toyId, ENTITY_SUFFIX_THRUSTING),
		},
		Value: float64(state.Thrusting),
	})
	// Position and position mode
	events = append(events, SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: ToyEntityId(toyId, ENTITY_SUFFIX_POSITION_MODE),
		},
		Value: state.Position != nil,
	})
	if state.Position != nil {
		events = append(events, InputNumberSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: ToyEntityId(toyId, ENTITY_SUFFIX_POSITION),
			},
			Value: float64(*state.Position),
		})
	}
	// Stroke range
	stroke := StrokeRange{Low: DefaultStrokeLow, High: DefaultStrokeTop}
	if state.Stroke != nil {
		stroke = *state.Stroke
	}
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: ToyEntityId(toyId, ENTITY_SUFFIX_STROKE_BOTTOM),
		},
		Value: float64(stroke.Low),
	})
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: ToyEntityId(toyId, ENTITY_SUFFIX_STROKE_TOP),
		},
		Value: float64(stroke.High),
	})
	// Active switch
	events = append(events, SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: ToyEntityId(toyId, ENTITY_SUFFIX_ACTIVE),
		},
		Value: state.Active(),
	})

	return events
}
