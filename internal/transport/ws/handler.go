package ws

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"wordduel/internal/app"
)

// Options tunes the WebSocket endpoint
type Options struct {
	// MessageRate is the sustained number of inbound messages allowed per
	// second on one connection; zero or less disables throttling
	MessageRate  float64
	MessageBurst int
	// StrictOrigin only accepts upgrades whose Origin matches the Host header
	StrictOrigin bool
}

// Handler handles WebSocket connections
type Handler struct {
	dispatcher *app.Dispatcher
	upgrader   websocket.Upgrader
	opts       Options
	logger     *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(dispatcher *app.Dispatcher, opts Options, logger *slog.Logger) *Handler {
	h := &Handler{
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeHTTP upgrades the request and serves the connection until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()
	client := NewClient(conn, h.dispatcher, connID, h.newLimiter(), h.logger)

	h.logger.Info("websocket connected", "connId", connID, "remoteAddr", r.RemoteAddr)

	client.Run(r.Context())

	h.logger.Info("websocket disconnected", "connId", connID)
}

func (h *Handler) newLimiter() *rate.Limiter {
	if h.opts.MessageRate <= 0 {
		return nil
	}
	burst := h.opts.MessageBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(h.opts.MessageRate), burst)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if !h.opts.StrictOrigin {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
