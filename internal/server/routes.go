package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/pkg/lovense"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// callbackSchemaJSON validates the body the Lovense Remote app POSTs
// after scanning the pairing QR code.
const callbackSchemaJSON = `{
  "type": "object",
  "properties": {
    "uid": { "type": "string", "minLength": 1 },
    "appVersion": { "type": "string" },
    "platform": { "type": "string" },
    "domain": { "type": "string" },
    "httpsPort": { "type": "integer", "minimum": 1, "maximum": 65535 },
    "toys": { "type": ["object", "string"] }
  },
  "required": ["uid"]
}`

var callbackSchema = mustCompileCallbackSchema()

func mustCompileCallbackSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(callbackSchemaJSON))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("callback.json", doc); err != nil {
		panic(err)
	}
	return compiler.MustCompile("callback.json")
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/qr", s.PairingQrHandler)
	e.POST("/api/lovense/callback", s.LovenseCallbackHandler)
	e.POST("/api/toys/:toyId/pattern", s.ToyPatternHandler)
	e.POST("/api/toys/:toyId/command", s.ToyCommandHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

// PairingQrHandler returns the latest pairing QR code so it can be
// scanned with the Lovense Remote app.
func (s *Server) PairingQrHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetPairingQrRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "QR code request failed")
	}
	response, ok := res.(domain.GetPairingQrResponse)
	if !ok || response.HasResponseError() {
		return c.String(http.StatusServiceUnavailable, "QR code request failed")
	}
	if response.QrCode == nil {
		return c.String(http.StatusServiceUnavailable, "QR code not available yet")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"qr":            response.QrCode.Qr,
		"code":          response.QrCode.Code,
		"pairing_state": response.PairingState,
	})
}

// ToyPatternHandler pushes a vibration pattern to a toy. The pattern is
// a semicolon-separated strength sequence stepped at a fixed interval.
func (s *Server) ToyPatternHandler(c echo.Context) error {
	var body struct {
		Pattern  string `json:"pattern"`
		Interval int    `json:"interval"`
		Duration int    `json:"duration"`
	}
	if err := c.Bind(&body); err != nil {
		return c.String(http.StatusBadRequest, "Invalid body")
	}
	if body.Pattern == "" {
		return c.String(http.StatusBadRequest, "Missing pattern")
	}
	if body.Interval <= 0 {
		body.Interval = lovense.DefaultPatternIntervalMillis
	}
	if body.Duration <= 0 {
		body.Duration = lovense.DefaultPatternDurationSeconds
	}
	return s.pushToyCommand(c, lovense.PatternPayload(body.Pattern, body.Interval, body.Duration))
}

// ToyCommandHandler passes an arbitrary vendor command through to a toy.
func (s *Server) ToyCommandHandler(c echo.Context) error {
	var body struct {
		Command    string         `json:"command"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := c.Bind(&body); err != nil {
		return c.String(http.StatusBadRequest, "Invalid body")
	}
	if body.Command == "" {
		return c.String(http.StatusBadRequest, "Missing command")
	}
	payload := make(map[string]any, len(body.Parameters)+1)
	for key, value := range body.Parameters {
		payload[key] = value
	}
	payload["command"] = body.Command
	return s.pushToyCommand(c, payload)
}

func (s *Server) pushToyCommand(c echo.Context, payload map[string]any) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.PushToyCommandRequest{
		ToyId:   c.Param("toyId"),
		Payload: payload,
	}, 15*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "Command push failed")
	}
	response, ok := res.(domain.PushToyCommandResponse)
	if !ok {
		return c.String(http.StatusServiceUnavailable, "Command push failed")
	}
	if response.HasResponseError() {
		return c.String(http.StatusServiceUnavailable, response.GetResponseError().Error())
	}
	return c.String(http.StatusOK, "OK")
}

func (s *Server) LovenseCallbackHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid body")
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid JSON")
	}
	if fields, ok := instance.(map[string]any); ok {
		if uid, _ := fields["uid"].(string); uid == "" {
			return c.String(http.StatusBadRequest, "Missing user ID")
		}
	}
	if err := callbackSchema.Validate(instance); err != nil {
		return c.String(http.StatusBadRequest, "Invalid callback payload")
	}
	payload, err := lovense.ParseCallback(body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid callback payload")
	}

	pid := s.registry.Lookup(payload.Uid)
	if pid == nil {
		return c.String(http.StatusNotFound, "User not found")
	}

	_, err = s.rootContext.RequestFuture(pid, domain.PairingCallbackRequest{
		Payload: *payload,
	}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "Callback processing failed")
	}
	return c.String(http.StatusOK, "OK")
}
