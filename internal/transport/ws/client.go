package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"wordduel/internal/app"
	"wordduel/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket connection; one connection is one participant
type Client struct {
	conn       *websocket.Conn
	dispatcher *app.Dispatcher
	id         string
	limiter    *rate.Limiter
	send       chan []byte
	done       chan struct{}
	logger     *slog.Logger
	mu         sync.Mutex
	closed     bool
}

// NewClient creates a new WebSocket client. A nil limiter disables throttling.
func NewClient(conn *websocket.Conn, dispatcher *app.Dispatcher, id string, limiter *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		conn:       conn,
		dispatcher: dispatcher,
		id:         id,
		limiter:    limiter,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// GetID returns the participant ID for this client
func (c *Client) GetID() string {
	return c.id
}

// Send implements app.ClientConnection interface
func (c *Client) Send(n domain.Notification) error {
	return c.sendMessage(encodeNotification(n))
}

func (c *Client) sendMessage(msg *ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "connId", c.id)
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps and blocks until the
// connection is gone
func (c *Client) Run(ctx context.Context) {
	c.dispatcher.Connect(c)
	go c.writePump()
	c.readPump(ctx)
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.dispatcher.Disconnect(c.id)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "connId", c.id, "error", err)
			}
			break
		}

		c.handleMessage(ctx, message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
// Each notification is written as its own frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(ctx context.Context, data []byte) {
	if c.limiter != nil && !c.limiter.Allow() {
		c.dispatcher.Reject(c.id, domain.KindRateLimited, "too many messages")
		return
	}

	msgType, action, err := decodeMessage(data)
	if err != nil {
		c.logger.Debug("invalid message", "connId", c.id, "type", msgType, "error", err)
		c.dispatcher.Reject(c.id, domain.KindInvalidMessage, invalidMessageText(err))
		return
	}

	if msgType == MsgPing {
		if err := c.sendMessage(NewServerMessage(MsgPong, nil)); err != nil {
			c.logger.Debug("failed to send pong", "connId", c.id, "error", err)
		}
		return
	}

	c.dispatcher.Dispatch(ctx, c.id, action)
}

func invalidMessageText(err error) string {
	switch {
	case errors.Is(err, ErrUnknownMessageType):
		return "Unknown message type"
	case errors.Is(err, ErrInvalidPayload):
		return "Invalid payload"
	default:
		return "Invalid message format"
	}
}
