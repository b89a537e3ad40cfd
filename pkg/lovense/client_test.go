package lovense

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, relayURL string) *Client {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return NewClientWithRelayURL(ClientConfig{UserID: "u1"}, relayURL, logger)
}

func localEndpoint(t *testing.T, server *httptest.Server) Endpoint {
	t.Helper()
	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)
	return Endpoint{Domain: parsed.Hostname(), HttpsPort: port}
}

func TestSendCommandLocal(t *testing.T) {
	var received Command
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/command", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-platform"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"code": 200, "type": "ok"}`))
	}))
	defer server.Close()

	client := testClient(t, "http://relay.invalid")
	zero := 0
	cmd := Command{Command: CommandFunction, Action: "Vibrate:12", TimeSec: &zero, Toy: "t1", ApiVer: 1}
	err := client.SendCommand(context.Background(), localEndpoint(t, server), cmd)
	require.NoError(t, err)
	assert.Equal(t, CommandFunction, received.Command)
	assert.Equal(t, "Vibrate:12", received.Action)
	require.NotNil(t, received.TimeSec)
	assert.Equal(t, 0, *received.TimeSec)
}

func TestSendCommandLocalErrorCode(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 402}`))
	}))
	defer server.Close()

	client := testClient(t, "http://relay.invalid")
	err := client.SendCommand(context.Background(), localEndpoint(t, server), Command{Command: CommandFunction})
	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 402, transportErr.Code)
	assert.Equal(t, "Toy Not Connected", transportErr.Message)
}

func TestGetToysLocal(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 200, "data": {"toys": {"t1": {"name": "Lush 3", "status": 1}}}}`))
	}))
	defer server.Close()

	client := testClient(t, "http://relay.invalid")
	endpoint := localEndpoint(t, server)
	toys, err := client.GetToys(context.Background(), &endpoint)
	require.NoError(t, err)
	require.Len(t, toys, 1)
	assert.Equal(t, "Lush 3", toys["t1"].Name)
}

func TestGetToysFallsBackToRelay(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lan/v2/command", r.URL.Path)
		var request map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "GetToys", request["command"])
		_, _ = w.Write([]byte(`{"code": 0, "data": {"toys": {"t1": {"name": "Lush 3", "status": 0}}}}`))
	}))
	defer relay.Close()

	client := testClient(t, relay.URL)
	// unreachable local endpoint forces the relay fallback
	endpoint := Endpoint{Domain: "127.0.0.1", HttpsPort: 1}
	toys, err := client.GetToys(context.Background(), &endpoint)
	require.NoError(t, err)
	require.Len(t, toys, 1)
	assert.Equal(t, "Lush 3", toys["t1"].Name)
	assert.False(t, toys["t1"].Connected)
}

func TestGetQrCode(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lan/getQrCode", r.URL.Path)
		var request map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "u1", request["uid"])
		assert.NotEmpty(t, request["token"])
		_, _ = w.Write([]byte(`{"code": 0, "message": "Success", "data": {"qr": "https://qr.example/x", "code": "x"}}`))
	}))
	defer relay.Close()

	client := testClient(t, relay.URL)
	qr, err := client.GetQrCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://qr.example/x", qr.Qr)
}

func TestGetQrCodeErrorCode(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 501, "message": "Invalid token"}`))
	}))
	defer relay.Close()

	client := testClient(t, relay.URL)
	_, err := client.GetQrCode(context.Background())
	require.Error(t, err)
	var pairingErr *PairingError
	require.ErrorAs(t, err, &pairingErr)
	assert.Equal(t, 501, pairingErr.Code)
}
