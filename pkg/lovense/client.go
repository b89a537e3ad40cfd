package lovense

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	platformHeader = "lovense2mqtt"
)

type ClientConfig struct {
	DeveloperToken string
	UserID         string
	UserName       string
	Timeout        time.Duration
}

// Client talks to the Lovense relay API and to local Lovense Connect
// endpoints. Local endpoints serve HTTPS with a self-signed certificate,
// so the local HTTP client skips certificate verification.
type Client struct {
	token    string
	uid      string
	uname    string
	relayURL string
	relay    *http.Client
	local    *http.Client
	logger   *zap.Logger
}

func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	return NewClientWithRelayURL(config, APIBaseURL, logger)
}

func NewClientWithRelayURL(config ClientConfig, relayURL string, logger *zap.Logger) *Client {
	token := config.DeveloperToken
	if token == "" {
		token = DefaultDeveloperToken
	}
	uname := config.UserName
	if uname == "" {
		uname = config.UserID
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		token:    token,
		uid:      config.UserID,
		uname:    uname,
		relayURL: relayURL,
		relay: &http.Client{
			Timeout: timeout,
		},
		local: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		logger: logger.Named("lovense"),
	}
}

// GetQrCode requests a fresh pairing QR code from the relay API.
func (c *Client) GetQrCode(ctx context.Context) (*QrCode, error) {
	request := map[string]any{
		"token": c.token,
		"uid":   c.uid,
		"uname": c.uname,
		"v":     2,
	}
	var response struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    QrCode `json:"data"`
	}
	err := c.postJSON(ctx, c.relay, c.relayURL+"/lan/getQrCode", request, &response)
	if err != nil {
		return nil, &PairingError{Err: err}
	}
	if response.Code != RelaySuccessCode {
		return nil, &PairingError{Code: response.Code, Message: response.Message}
	}
	if response.Data.Qr == "" {
		return nil, &PairingError{Code: response.Code, Message: "empty QR code in response"}
	}
	return &response.Data, nil
}

// GetToys fetches the accessory inventory. When a local endpoint is
// known it is queried first; on local failure the relay API is used as a
// fallback so the inventory stays readable while the app roams. Without
// an endpoint only the relay is queried.
func (c *Client) GetToys(ctx context.Context, endpoint *Endpoint) (ToyMap, error) {
	if endpoint != nil {
		toys, err := c.getToysLocal(ctx, *endpoint)
		if err == nil {
			return toys, nil
		}
		c.logger.Warn("local inventory fetch failed, falling back to relay", zap.Error(err))
	}
	return c.getToysRelay(ctx)
}

func (c *Client) getToysLocal(ctx context.Context, endpoint Endpoint) (ToyMap, error) {
	request := Command{Command: CommandGetToys}
	var response struct {
		Code int `json:"code"`
		Data struct {
			Toys ToyMap `json:"toys"`
		} `json:"data"`
	}
	err := c.postJSON(ctx, c.local, endpoint.CommandURL(), request, &response)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if response.Code != LocalSuccessCode {
		return nil, &TransportError{Code: response.Code, Message: ErrorMessage(response.Code)}
	}
	return response.Data.Toys, nil
}

func (c *Client) getToysRelay(ctx context.Context) (ToyMap, error) {
	request := map[string]any{
		"command": CommandGetToys,
		"token":   c.token,
		"uid":     c.uid,
		"apiVer":  1,
	}
	var response struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Toys ToyMap `json:"toys"`
		} `json:"data"`
	}
	err := c.postJSON(ctx, c.relay, c.relayURL+"/lan/v2/command", request, &response)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if response.Code != RelaySuccessCode {
		return nil, &TransportError{Code: response.Code, Message: response.Message}
	}
	return response.Data.Toys, nil
}

// SendCommand delivers a toy command to the local endpoint. Commands are
// local-only, there is no relay fallback for them.
func (c *Client) SendCommand(ctx context.Context, endpoint Endpoint, command Command) error {
	var response struct {
		Code int `json:"code"`
	}
	err := c.postJSON(ctx, c.local, endpoint.CommandURL(), command, &response)
	if err != nil {
		return &TransportError{Err: err}
	}
	if response.Code != LocalSuccessCode {
		return &TransportError{Code: response.Code, Message: ErrorMessage(response.Code)}
	}
	c.logger.Debug("command sent",
		zap.String("command", command.Command), zap.String("action", command.Action))
	return nil
}

// SendRawCommand delivers an arbitrary command payload to the local
// endpoint, for vendor commands the typed Command surface does not
// model (patterns, passthrough). The payload must name a command;
// apiVer defaults to 1 when absent.
func (c *Client) SendRawCommand(ctx context.Context, endpoint Endpoint, payload map[string]any) error {
	name, _ := payload["command"].(string)
	if name == "" {
		return &TransportError{Err: errors.New("raw command: missing command name")}
	}
	request := make(map[string]any, len(payload)+1)
	request["apiVer"] = 1
	for key, value := range payload {
		request[key] = value
	}
	var response struct {
		Code int `json:"code"`
	}
	err := c.postJSON(ctx, c.local, endpoint.CommandURL(), request, &response)
	if err != nil {
		return &TransportError{Err: err}
	}
	if response.Code != LocalSuccessCode {
		return &TransportError{Code: response.Code, Message: ErrorMessage(response.Code)}
	}
	c.logger.Debug("raw command sent", zap.String("command", name))
	return nil
}

func (c *Client) postJSON(ctx context.Context, client *http.Client, url string, request any, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-platform", platformHeader)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
