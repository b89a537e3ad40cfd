package domain

import (
	"fmt"

	"github.com/berfenger/lovense2mqtt/pkg/lovense"
)

// ToyControlRequest

type ToyControlRequest interface {
	ActorRequest
	ToyControlCommand() string
	TargetToy() string
}

type ToyControlRequestMixIn struct {
	ActorRequestMixIn
	ToyId string
}

func (r ToyControlRequestMixIn) ToyControlCommand() string {
	return fmt.Sprintf("%T", r)
}

func (r ToyControlRequestMixIn) TargetToy() string {
	return r.ToyId
}

// ToyControl commands

type ToySetVibrationRequest struct {
	ToyControlRequestMixIn
	Level int
}

type ToySetThrustingRequest struct {
	ToyControlRequestMixIn
	Level int
}

type ToySetPositionRequest struct {
	ToyControlRequestMixIn
	Position int
}

type ToyClearPositionRequest struct {
	ToyControlRequestMixIn
}

type ToySetStrokeBottomRequest struct {
	ToyControlRequestMixIn
	Value int
}

type ToySetStrokeTopRequest struct {
	ToyControlRequestMixIn
	Value int
}

type ToyPositionModeRequest struct {
	ToyControlRequestMixIn
	Enable bool
}

type ToyActiveRequest struct {
	ToyControlRequestMixIn
	Enable bool
}

// ApplyToySettingsRequest merges a partial settings update into the
// desired state of a toy and pushes the resulting command.
type ApplyToySettingsRequest struct {
	ToyControlRequestMixIn
	Settings PartialSettings
}

type ApplyToySettingsResponse struct {
	ActorResponseMixIn
	State DesiredState
}

// Pairing

type PairingCallbackRequest struct {
	ActorRequestMixIn
	Payload lovense.CallbackPayload
}

type PairingCallbackResponse struct {
	ActorResponseMixIn
}

type GetPairingQrRequest struct {
	ActorRequestMixIn
}

type GetPairingQrResponse struct {
	ActorResponseMixIn
	QrCode       *lovense.QrCode
	PairingState string
}

// PushToyCommandRequest pushes an arbitrary command payload to a toy,
// bypassing the desired-state store (patterns, raw passthrough). The
// coordinator injects the resolved toy id into the payload.
type PushToyCommandRequest struct {
	ActorRequestMixIn
	ToyId   string
	Payload map[string]any
}

type PushToyCommandResponse struct {
	ActorResponseMixIn
}

// ensure interface compliance
var _ ToyControlRequest = (*ToySetVibrationRequest)(nil)
var _ ToyControlRequest = (*ApplyToySettingsRequest)(nil)
