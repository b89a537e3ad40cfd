package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/berfenger/lovense2mqtt/pkg/lovense"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE  = "bridge"
	SENSOR_ID_PAIRING_STATE = "pairing_state"

	ENTITY_SUFFIX_BATTERY       = "battery"
	ENTITY_SUFFIX_CONNECTED     = "connected"
	ENTITY_SUFFIX_VIBRATION     = "vibration"
	ENTITY_SUFFIX_THRUSTING     = "thrusting"
	ENTITY_SUFFIX_POSITION      = "position"
	ENTITY_SUFFIX_STROKE_BOTTOM = "stroke_bottom"
	ENTITY_SUFFIX_STROKE_TOP    = "stroke_top"
	ENTITY_SUFFIX_ACTIVE        = "active"
	ENTITY_SUFFIX_POSITION_MODE = "position_mode"

	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_BATTERY      = "battery"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
	INPUT_NUMBER_MODE_BOX     = "box"
	INPUT_NUMBER_MODE_SLIDER  = "slider"
)

// ToyEntityId builds the entity id of a per-toy entity. Entity ids are
// flat across the bridge because MQTT state and command topics are keyed
// by entity id alone.
func ToyEntityId(toyId, suffix string) string {
	return fmt.Sprintf("toy_%s_%s", strings.ToLower(toyId), suffix)
}

var toyEntityIdRegex = regexp.MustCompile(`^toy_([a-zA-Z0-9]+)_([a-z_]+)$`)

// ParseToyEntityId splits an entity id built by ToyEntityId back into
// toy id and entity suffix.
func ParseToyEntityId(entityId string) (toyId string, suffix string, ok bool) {
	match := toyEntityIdRegex.FindStringSubmatch(entityId)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("lovense_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Lovense2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Lovense Bridge %s", md5HashShort(baseTopic)),
	}
}

func ToyDevice(bridgeDevice Device, toy lovense.Toy) Device {
	return Device{
		Id:           fmt.Sprintf("lovense_toy_%s", strings.ToLower(toy.Id)),
		Manufacturer: "Lovense",
		Model:        toy.ToyType,
		Version:      toy.FirmwareVersion(),
		Name:         toy.DisplayName(),
		ViaDevice:    bridgeDevice.Id,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	// Pairing state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_PAIRING_STATE,
		SensorType:     SENSOR_TYPE_SENSOR,
		Name:           "Pairing state",
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		Icon:           "mdi:qrcode-scan",
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_PAIRING_STATE),
	})

	return sensors
}

func ToySensors(toyDevice Device, toy lovense.Toy) []GenericSensor {

	var sensors []GenericSensor

	// Connectivity
	connectedId := ToyEntityId(toy.Id, ENTITY_SUFFIX_CONNECTED)
	sensors = append(sensors, GenericSensor{
		Device:         toyDevice,
		Id:             connectedId,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connected",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(toyDevice.Id, connectedId),
	})

	// Battery level
	if toy.Battery != nil {
		batteryId := ToyEntityId(toy.Id, ENTITY_SUFFIX_BATTERY)
		sensors = append(sensors, GenericSensor{
			Device:            toyDevice,
			Id:                batteryId,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Battery",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_BATTERY,
			UnitOfMeasurement: "%",
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:          uniqueId(toyDevice.Id, batteryId),
		})
	}

	return sensors
}

func ToySwitches(toyDevice Device, toy lovense.Toy) []GenericSwitch {

	var switches []GenericSwitch

	// Active
	activeId := ToyEntityId(toy.Id, ENTITY_SUFFIX_ACTIVE)
	switches = append(switches, GenericSwitch{
		Device:   toyDevice,
		Id:       activeId,
		Name:     "Active",
		UniqueId: uniqueId(toyDevice.Id, activeId),
		Icon:     "mdi:power",
	})

	// Position mode
	if toy.SupportsPositionControl() {
		positionModeId := ToyEntityId(toy.Id, ENTITY_SUFFIX_POSITION_MODE)
		switches = append(switches, GenericSwitch{
			Device:   toyDevice,
			Id:       positionModeId,
			Name:     "Position mode",
			UniqueId: uniqueId(toyDevice.Id, positionModeId),
			Icon:     "mdi:arrow-up-down",
		})
	}

	return switches
}

func ToyInputNumbers(toyDevice Device, toy lovense.Toy) []GenericInputNumber {

	var inputNumbers []GenericInputNumber

	// Vibration level
	vibrationId := ToyEntityId(toy.Id, ENTITY_SUFFIX_VIBRATION)
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:   toyDevice,
		Id:       vibrationId,
		Name:     "Vibration",
		UniqueId: uniqueId(toyDevice.Id, vibrationId),
		Icon:     "mdi:vibrate",
		Min:      VibrationMin,
		Max:      VibrationMax,
		Step:     1,
		Mode:     INPUT_NUMBER_MODE_SLIDER,
	})

	// Thrusting level
	if toy.SupportsThrusting() {
		thrustingId := ToyEntityId(toy.Id, ENTITY_SUFFIX_THRUSTING)
		inputNumbers = append(inputNumbers, GenericInputNumber{
			Device:   toyDevice,
			Id:       thrustingId,
			Name:     "Thrusting",
			UniqueId: uniqueId(toyDevice.Id, thrustingId),
			Icon:     "mdi:sync",
			Min:      ThrustingMin,
			Max:      ThrustingMax,
			Step:     1,
			Mode:     INPUT_NUMBER_MODE_SLIDER,
		})
	}

	if toy.SupportsPositionControl() {
		// Position
		positionId := ToyEntityId(toy.Id, ENTITY_SUFFIX_POSITION)
		inputNumbers = append(inputNumbers, GenericInputNumber{
			Device:       toyDevice,
			Id:           positionId,
			Name:         "Position",
			UniqueId:     uniqueId(toyDevice.Id, positionId),
			Icon:         "mdi:format-vertical-align-center",
			Min:          PositionMin,
			Max:          PositionMax,
			Step:         1,
			Mode:         INPUT_NUMBER_MODE_SLIDER,
			InitialValue: DefaultPosition,
		})

		// Stroke range bottom
		strokeBottomId := ToyEntityId(toy.Id, ENTITY_SUFFIX_STROKE_BOTTOM)
		inputNumbers = append(inputNumbers, GenericInputNumber{
			Device:       toyDevice,
			Id:           strokeBottomId,
			Name:         "Stroke bottom",
			UniqueId:     uniqueId(toyDevice.Id, strokeBottomId),
			Icon:         "mdi:format-vertical-align-bottom",
			Min:          PositionMin,
			Max:          PositionMax,
			Step:         1,
			Mode:         INPUT_NUMBER_MODE_BOX,
			InitialValue: DefaultStrokeLow,
		})

		// Stroke range top
		strokeTopId := ToyEntityId(toy.Id, ENTITY_SUFFIX_STROKE_TOP)
		inputNumbers = append(inputNumbers, GenericInputNumber{
			Device:       toyDevice,
			Id:           strokeTopId,
			Name:         "Stroke top",
			UniqueId:     uniqueId(toyDevice.Id, strokeTopId),
			Icon:         "mdi:format-vertical-align-top",
			Min:          PositionMin,
			Max:          PositionMax,
			Step:         1,
			Mode:         INPUT_NUMBER_MODE_BOX,
			InitialValue: DefaultStrokeTop,
		})
	}

	return inputNumbers
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
