package mqtt

import (
	"testing"

	"github.com/berfenger/lovense2mqtt/internal/config"
	"github.com/berfenger/lovense2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestSwitchCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/toy_d290f1ee_active/command"
	r := switchCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "toy_d290f1ee_active", "device extract")
}

func TestSwitchCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/toy_d290f1ee_active/state"
	r := switchCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}

func TestInputNumberCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/number/toy_d290f1ee_vibration/set"
	r := inputNumberCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "toy_d290f1ee_vibration", "number_id extract")
}

func TestHADiscoveryTopicPrefix(t *testing.T) {

	assert := assert.New(t)

	client := &MQTTClient{cfg: config.MQTTConfig{HADiscoveryTopic: "custom_discovery"}}
	device := domain.Device{Id: "lovense_toy_d290f1ee"}

	sensorTopic := client.HADiscoverySensorTopic(domain.GenericSensor{
		Device:     device,
		Id:         "toy_d290f1ee_battery",
		SensorType: domain.SENSOR_TYPE_SENSOR,
	})
	assert.Equal("custom_discovery/sensor/lovense_toy_d290f1ee/toy_d290f1ee_battery/config", sensorTopic, "sensor topic prefix")

	switchTopic := client.HADiscoverySwitchTopic(domain.GenericSwitch{
		Device: device,
		Id:     "toy_d290f1ee_active",
	})
	assert.Equal("custom_discovery/switch/lovense_toy_d290f1ee/toy_d290f1ee_active/config", switchTopic, "switch topic prefix")

	numberTopic := client.HADiscoveryInputNumberTopic(domain.GenericInputNumber{
		Device: device,
		Id:     "toy_d290f1ee_vibration",
	})
	assert.Equal("custom_discovery/number/lovense_toy_d290f1ee/toy_d290f1ee_vibration/config", numberTopic, "number topic prefix")
}

func TestHADiscoveryTopicDefault(t *testing.T) {

	assert := assert.New(t)

	client := &MQTTClient{cfg: config.MQTTConfig{}}
	topic := client.HADiscoverySwitchTopic(domain.GenericSwitch{
		Device: domain.Device{Id: "lovense_toy_d290f1ee"},
		Id:     "toy_d290f1ee_active",
	})
	assert.Equal("homeassistant/switch/lovense_toy_d290f1ee/toy_d290f1ee_active/config", topic, "default prefix")
}

func TestInputNumberCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/toy_d290f1ee_vibration/command"
	r := inputNumberCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}
