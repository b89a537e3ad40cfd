package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/pkg/lovense"

	"github.com/berfenger/lovense2mqtt/internal/registry"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubMasterActor struct {
	callbacks []domain.PairingCallbackRequest
	pushes    []domain.PushToyCommandRequest
}

func (state *stubMasterActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MASTER,
			Healthy: true,
			State:   "awaiting_callback",
		})
	case domain.GetPairingQrRequest:
		ctx.Respond(domain.GetPairingQrResponse{
			QrCode:       &lovense.QrCode{Qr: "https://test.lovense.example/qr/abc", Code: "abc"},
			PairingState: "awaiting_callback",
		})
	case domain.PairingCallbackRequest:
		state.callbacks = append(state.callbacks, msg)
		ctx.Respond(domain.PairingCallbackResponse{})
	case domain.PushToyCommandRequest:
		state.pushes = append(state.pushes, msg)
		ctx.Respond(domain.PushToyCommandResponse{})
	}
}

func newTestServer(t *testing.T) (*Server, *actor.ActorSystem, *stubMasterActor) {
	as := actor.NewActorSystem()
	context := as.Root

	stub := &stubMasterActor{}
	props := actor.PropsFromProducer(func() actor.Actor { return stub })
	pid := context.Spawn(props)

	reg := registry.NewBridgeRegistry()
	reg.Register("test_user", pid)

	return &Server{
		port:        8080,
		rootContext: context,
		registry:    reg,
		masterActor: pid,
	}, as, stub
}

func TestHealthCheckRoute(t *testing.T) {

	assert := assert.New(t)

	server, as, _ := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "OK")
}

func TestPairingQrRoute(t *testing.T) {

	assert := assert.New(t)

	server, as, _ := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/qr", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "https://test.lovense.example/qr/abc")
	assert.Contains(rec.Body.String(), "awaiting_callback")
}

func TestCallbackRouteMissingUserId(t *testing.T) {

	assert := assert.New(t)

	server, as, _ := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"domain":"192-168-1-44.lovense.club","httpsPort":30010}`
	req := httptest.NewRequest(http.MethodPost, "/api/lovense/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusBadRequest, rec.Code)
	assert.Equal("Missing user ID", rec.Body.String())
}

func TestCallbackRouteUnknownUser(t *testing.T) {

	assert := assert.New(t)

	server, as, _ := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"uid":"somebody_else","domain":"192-168-1-44.lovense.club","httpsPort":30010}`
	req := httptest.NewRequest(http.MethodPost, "/api/lovense/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusNotFound, rec.Code)
	assert.Equal("User not found", rec.Body.String())
}

func TestCallbackRouteOk(t *testing.T) {

	assert := assert.New(t)

	server, as, _ := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"uid":"test_user","domain":"192-168-1-44.lovense.club","httpsPort":30010,` +
		`"toys":{"d290f1ee":{"id":"d290f1ee","name":"Solace Pro","toyType":"solace","battery":80,"status":1}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/lovense/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("OK", rec.Body.String())
}

func TestToyPatternRoute(t *testing.T) {

	assert := assert.New(t)

	server, as, stub := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"pattern":"20;40;60","interval":500,"duration":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/toys/d290f1ee/pattern", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("OK", rec.Body.String())
	if assert.Len(stub.pushes, 1) {
		push := stub.pushes[0]
		assert.Equal("d290f1ee", push.ToyId)
		assert.Equal(lovense.CommandPattern, push.Payload["command"])
		assert.Equal("V:1;F:v;S:500#", push.Payload["rule"])
		assert.Equal("20;40;60", push.Payload["strength"])
	}
}

func TestToyPatternRouteMissingPattern(t *testing.T) {

	assert := assert.New(t)

	server, as, stub := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"interval":500}`
	req := httptest.NewRequest(http.MethodPost, "/api/toys/d290f1ee/pattern", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusBadRequest, rec.Code)
	assert.Equal("Missing pattern", rec.Body.String())
	assert.Empty(stub.pushes)
}

func TestToyCommandRoute(t *testing.T) {

	assert := assert.New(t)

	server, as, stub := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"command":"Preset","parameters":{"name":"pulse","timeSec":20}}`
	req := httptest.NewRequest(http.MethodPost, "/api/toys/d290f1ee/command", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("OK", rec.Body.String())
	if assert.Len(stub.pushes, 1) {
		push := stub.pushes[0]
		assert.Equal("d290f1ee", push.ToyId)
		assert.Equal("Preset", push.Payload["command"])
		assert.Equal("pulse", push.Payload["name"])
	}
}

func TestToyCommandRouteMissingCommand(t *testing.T) {

	assert := assert.New(t)

	server, as, stub := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"parameters":{"name":"pulse"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/toys/d290f1ee/command", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusBadRequest, rec.Code)
	assert.Equal("Missing command", rec.Body.String())
	assert.Empty(stub.pushes)
}

func TestCallbackRouteInvalidPayload(t *testing.T) {

	assert := assert.New(t)

	server, as, _ := newTestServer(t)
	defer as.Shutdown()
	handler := server.RegisterRoutes()

	body := `{"uid":"test_user","httpsPort":"not-a-port"}`
	req := httptest.NewRequest(http.MethodPost, "/api/lovense/callback", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(http.StatusBadRequest, rec.Code)
	assert.Equal("Invalid callback payload", rec.Body.String())
}
