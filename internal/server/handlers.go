// Package server exposes the HTTP handlers of the GoQuiz service: the
// WebSocket upgrade endpoint and the health check.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Tyrowin/goquiz/internal/config"
	"github.com/Tyrowin/goquiz/internal/quiz"
)

// Handler bundles the shared store, logger, and websocket settings behind
// the HTTP endpoints. Construct it with NewHandler and register it through
// SetupRoutes.
type Handler struct {
	store    *quiz.Store
	log      *zap.Logger
	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler serving the given store. The websocket
// configuration controls buffer sizes, the inbound frame size limit, and the
// origin allow-list.
func NewHandler(store *quiz.Store, log *zap.Logger, cfg config.WebSocketConfig) *Handler {
	origins := newOriginPolicy(cfg.AllowedOrigins, log)
	return &Handler{
		store: store,
		log:   log,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     origins.check,
		},
	}
}

// WebSocket upgrades the request and runs the session loop to completion.
// The traffic counter is incremented before the loop and decremented after
// it; session data created by the connection outlives the disconnect.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sess := newSession(conn, h.store, h.log, h.cfg.MaxMessageSize)

	traffic := h.store.ConnectionOpened()
	sess.log.Info("connection opened", zap.Int("traffic", traffic))

	sess.run()

	traffic = h.store.ConnectionClosed()
	sess.log.Info("connection closed", zap.Int("traffic", traffic))

	if err := conn.Close(); err != nil && !isExpectedCloseError(err) {
		sess.log.Warn("error closing connection", zap.Error(err))
	}
}

// healthResponse is the JSON body returned by the health endpoint.
type healthResponse struct {
	Status  string `json:"status"`
	Traffic int    `json:"traffic"`
}

// Health reports server liveness and the number of open connections.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	body := healthResponse{Status: "ok", Traffic: h.store.Traffic()}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Warn("error writing health response", zap.Error(err))
	}
}
