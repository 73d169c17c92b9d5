// Package server_test contains black-box tests that exercise the full
// request path: HTTP upgrade, frame dispatch, store mutation, and reply
// encoding, using a real WebSocket client against an httptest server.
package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tyrowin/goquiz/internal/config"
	"github.com/Tyrowin/goquiz/internal/quiz"
	"github.com/Tyrowin/goquiz/internal/server"
)

const testOrigin = "http://localhost:8080"

// newTestServer starts an httptest server with a fresh store and returns the
// store plus the websocket endpoint URL.
func newTestServer(t *testing.T) (*quiz.Store, string) {
	t.Helper()

	store := quiz.NewStore()
	cfg := config.WebSocketConfig{
		AllowedOrigins:  []string{testOrigin},
		MaxMessageSize:  65536,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	handler := server.NewHandler(store, zap.NewNop(), cfg)
	mux := server.SetupRoutes(handler, t.TempDir())

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return store, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

// dialWebSocket connects to the test server with an allowed origin header.
func dialWebSocket(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	headers := http.Header{}
	headers.Set("Origin", testOrigin)

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// sendRequest writes one request envelope as a text frame.
func sendRequest(t *testing.T, conn *websocket.Conn, requestType string, data any) {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"request_type": requestType,
		"data":         data,
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

// readReply reads the next text frame and decodes it into a generic map.
func readReply(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	msgType, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, msgType)

	var reply map[string]any
	require.NoError(t, json.Unmarshal(raw, &reply))
	return reply
}

// registerUser registers a user over the connection and consumes the reply.
func registerUser(t *testing.T, conn *websocket.Conn, name, role string) {
	t.Helper()

	sendRequest(t, conn, "register_user", map[string]any{"name": name, "role": role})
	reply := readReply(t, conn)
	require.Equal(t, name, reply["name"])
}
