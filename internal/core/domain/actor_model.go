package domain

import "github.com/berfenger/lovense2mqtt/pkg/lovense"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_TOYS         = "toys"
	ACTOR_ID_COORDINATOR  = "coordinator"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetQrCodeRequest struct {
	ActorRequestMixIn
}

type GetQrCodeResponse struct {
	ActorResponseMixIn
	QrCode *lovense.QrCode
}

type GetToysRequest struct {
	ActorRequestMixIn
	Endpoint *lovense.Endpoint
}

type GetToysResponse struct {
	ActorResponseMixIn
	Toys lovense.ToyMap
}

type SendToyCommandRequest struct {
	ActorRequestMixIn
	Endpoint lovense.Endpoint
	Command  lovense.Command
}

type SendToyCommandResponse struct {
	ActorResponseMixIn
}

type SendRawToyCommandRequest struct {
	ActorRequestMixIn
	Endpoint lovense.Endpoint
	Payload  map[string]any
}

type SendRawToyCommandResponse struct {
	ActorResponseMixIn
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors      []GenericSensor
	Switches     []GenericSwitch
	InputNumbers []GenericInputNumber
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
