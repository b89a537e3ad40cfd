package port

import (
	"context"

	"github.com/berfenger/lovense2mqtt/pkg/lovense"
)

// ToyService is the outbound port to the Lovense APIs.
type ToyService interface {
	// GetQrCode requests a fresh pairing QR code from the relay API.
	GetQrCode(ctx context.Context) (*lovense.QrCode, error)
	// GetToys fetches the accessory inventory, preferring the local
	// endpoint when one is given.
	GetToys(ctx context.Context, endpoint *lovense.Endpoint) (lovense.ToyMap, error)
	// SendCommand delivers a toy command to the local endpoint.
	SendCommand(ctx context.Context, endpoint lovense.Endpoint, command lovense.Command) error
	// SendRawCommand delivers an arbitrary command payload to the local
	// endpoint (patterns, passthrough).
	SendRawCommand(ctx context.Context, endpoint lovense.Endpoint, payload map[string]any) error
}
