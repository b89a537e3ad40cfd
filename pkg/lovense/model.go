package lovense

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	APIBaseURL      = "https://api.lovense-api.com/api"
	APIGetQrCodeURL = APIBaseURL + "/lan/getQrCode"
	APIRelayCommand = APIBaseURL + "/lan/v2/command"

	// Shared developer token used when no account-specific token is configured
	DefaultDeveloperToken = "5tO8C-VU9F-G_wXXl6iyxqhEBZFFUbrm1MefQATfN0WdKiFkqjbJOV14k5OWm4H0"

	CommandGetToys  = "GetToys"
	CommandFunction = "Function"
	CommandPosition = "Position"
	CommandPattern  = "Pattern"

	ActionVibrate   = "Vibrate"
	ActionThrusting = "Thrusting"
	ActionStop      = "Stop"

	LocalSuccessCode = 200
	RelaySuccessCode = 0

	DefaultPatternIntervalMillis  = 1000
	DefaultPatternDurationSeconds = 10
)

// Error codes returned by the Lovense Connect local API
var errorCodes = map[int]string{
	400: "Invalid Command",
	401: "Toy Not Found",
	402: "Toy Not Connected",
	403: "Toy Doesn't Support This Command",
	404: "Invalid Parameter",
	500: "HTTP Server Not Started or Disabled",
	501: "Invalid Token",
	502: "No Permission to Use This API",
	503: "Invalid User ID",
	506: "Server Error - Restart Lovense Connect",
	507: "Lovense APP is Offline",
}

func ErrorMessage(code int) string {
	if msg, ok := errorCodes[code]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown error code: %d", code)
}

// PatternPayload builds a Pattern command payload. The pattern is a
// semicolon-separated strength sequence ("20;20;5;20;10") stepped every
// intervalMillis for durationSeconds. Pattern commands use apiVer 2 and
// a vibration rule.
func PatternPayload(pattern string, intervalMillis, durationSeconds int) map[string]any {
	return map[string]any{
		"command":  CommandPattern,
		"rule":     fmt.Sprintf("V:1;F:v;S:%d#", intervalMillis),
		"strength": pattern,
		"timeSec":  durationSeconds,
		"apiVer":   2,
	}
}

// Endpoint is the local HTTPS service exposed by the Lovense Connect app
// on the same network. It presents a self-signed certificate.
type Endpoint struct {
	Domain    string `json:"domain"`
	HttpsPort int    `json:"httpsPort"`
}

func (e Endpoint) CommandURL() string {
	return fmt.Sprintf("https://%s:%d/command", e.Domain, e.HttpsPort)
}

// Command is the wire format of a toy command. TimeSec is a pointer
// because the Function command requires an explicit "timeSec":0 while
// other commands omit the field entirely.
type Command struct {
	Command string `json:"command"`
	Action  string `json:"action,omitempty"`
	Value   string `json:"value,omitempty"`
	TimeSec *int   `json:"timeSec,omitempty"`
	Toy     string `json:"toy,omitempty"`
	ApiVer  int    `json:"apiVer,omitempty"`
}

// QrCode is the pairing QR code returned by the relay API. The user scans
// it with the Lovense Remote app to deliver local endpoint details to the
// configured callback URL.
type QrCode struct {
	Qr   string `json:"qr"`
	Code string `json:"code"`
}

type Toy struct {
	Id                 string
	Name               string
	NickName           string
	ToyType            string
	Battery            *int
	Connected          bool
	FVersion           string
	HVersion           string
	ShortFunctionNames []string
	FullFunctionNames  []string
}

var shortFunctionNames = map[string]string{
	"v": "Vibrate",
	"r": "Rotate",
	"p": "Pump",
	"t": "Thrusting",
	"f": "Fingering",
	"s": "Suction",
	"d": "Depth",
	"o": "Oscillate",
}

// Functions returns the toy's supported functions with short names
// expanded and duplicates removed.
func (t Toy) Functions() []string {
	seen := map[string]bool{}
	var functions []string
	for _, short := range t.ShortFunctionNames {
		if full, ok := shortFunctionNames[short]; ok && !seen[full] {
			seen[full] = true
			functions = append(functions, full)
		}
	}
	for _, full := range t.FullFunctionNames {
		if !seen[full] {
			seen[full] = true
			functions = append(functions, full)
		}
	}
	return functions
}

var positionKeywords = []string{"position", "stroke", "linear", "depth"}

// SupportsPositionControl reports whether the toy accepts Position and
// Stroke commands (e.g. Solace Pro).
func (t Toy) SupportsPositionControl() bool {
	if strings.Contains(strings.ToLower(t.ToyType), "solace") ||
		strings.Contains(strings.ToLower(t.Name), "solace") {
		return true
	}
	functions := strings.ToLower(strings.Join(t.Functions(), " "))
	for _, keyword := range positionKeywords {
		if strings.Contains(functions, keyword) {
			return true
		}
	}
	return false
}

func (t Toy) SupportsThrusting() bool {
	for _, fn := range t.Functions() {
		if fn == ActionThrusting {
			return true
		}
	}
	return false
}

func (t Toy) DisplayName() string {
	name := t.Name
	if name == "" {
		name = "Lovense Device"
	}
	if t.NickName != "" && t.NickName != name {
		return fmt.Sprintf("%s (%s)", name, t.NickName)
	}
	return name
}

func (t Toy) FirmwareVersion() string {
	if t.FVersion != "" {
		return t.FVersion
	}
	if t.HVersion != "" {
		return fmt.Sprintf("HW %s", t.HVersion)
	}
	return ""
}

// ToyMap is the accessory inventory, keyed by toy id. It decodes the
// shape variants the vendor API is known to produce: a plain object of
// descriptors, the same object double-encoded as a JSON string, and
// entries that are bare id strings instead of descriptor objects.
// Malformed entries are skipped, they never abort the whole inventory.
type ToyMap map[string]Toy

type rawToy struct {
	Id                 string          `json:"id"`
	Name               string          `json:"name"`
	NickName           string          `json:"nickName"`
	ToyType            string          `json:"toyType"`
	Battery            *int            `json:"battery"`
	Status             json.RawMessage `json:"status"`
	Connected          *bool           `json:"connected"`
	FVersion           json.RawMessage `json:"fVersion"`
	HVersion           json.RawMessage `json:"hVersion"`
	ShortFunctionNames []string        `json:"shortFunctionNames"`
	FullFunctionNames  []string        `json:"fullFunctionNames"`
}

func (m *ToyMap) UnmarshalJSON(data []byte) error {
	// double-encoded variant: a JSON string holding the real object
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		return m.UnmarshalJSON([]byte(asString))
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("toys: %w", err)
	}

	result := make(ToyMap, len(entries))
	for id, raw := range entries {
		toy, err := decodeToyEntry(id, raw)
		if err != nil {
			continue
		}
		result[id] = *toy
	}
	*m = result
	return nil
}

func decodeToyEntry(id string, data []byte) (*Toy, error) {
	// bare-id variant
	var bareId string
	if err := json.Unmarshal(data, &bareId); err == nil {
		return &Toy{Id: id, Name: bareId}, nil
	}

	var raw rawToy
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	toy := Toy{
		Id:                 id,
		Name:               raw.Name,
		NickName:           raw.NickName,
		ToyType:            raw.ToyType,
		FVersion:           flexString(raw.FVersion),
		HVersion:           flexString(raw.HVersion),
		ShortFunctionNames: raw.ShortFunctionNames,
		FullFunctionNames:  raw.FullFunctionNames,
	}
	if raw.Id != "" {
		toy.Id = raw.Id
	}
	if raw.Battery != nil {
		battery := clampInt(*raw.Battery, 0, 100)
		toy.Battery = &battery
	}
	toy.Connected = decodeConnected(raw.Status, raw.Connected)
	return &toy, nil
}

// status is reported as 0|1, sometimes as "0"|"1"; some payloads carry a
// boolean "connected" field instead
func decodeConnected(status json.RawMessage, connected *bool) bool {
	if len(status) > 0 {
		var asInt int
		if err := json.Unmarshal(status, &asInt); err == nil {
			return asInt == 1
		}
		var asStr string
		if err := json.Unmarshal(status, &asStr); err == nil {
			return asStr == "1"
		}
	}
	if connected != nil {
		return *connected
	}
	return false
}

func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asStr string
	if err := json.Unmarshal(raw, &asStr); err == nil {
		return asStr
	}
	var asNum json.Number
	if err := json.Unmarshal(raw, &asNum); err == nil {
		return asNum.String()
	}
	return ""
}

// CallbackPayload is the pairing notification POSTed by the Lovense
// Remote app to the configured callback URL after the user scans the QR
// code.
type CallbackPayload struct {
	Uid        string `json:"uid"`
	AppVersion string `json:"appVersion"`
	Platform   string `json:"platform"`
	Domain     string `json:"domain"`
	HttpsPort  int    `json:"httpsPort"`
	Toys       ToyMap `json:"toys"`
}

func ParseCallback(data []byte) (*CallbackPayload, error) {
	var payload CallbackPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.Uid == "" {
		return nil, errors.New("callback: missing user id")
	}
	return &payload, nil
}

// Endpoint returns the local endpoint described by the payload, or nil
// when the payload does not carry complete endpoint details.
func (p CallbackPayload) Endpoint() *Endpoint {
	if p.Domain == "" || p.HttpsPort == 0 {
		return nil
	}
	return &Endpoint{Domain: p.Domain, HttpsPort: p.HttpsPort}
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
