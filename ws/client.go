package ws

import (
	"sync"

	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/services"

	"github.com/gorilla/websocket"
)

// Client is one socket connection. It starts unauthenticated; the first
// valid auth frame binds it into the registry and every other frame kind is
// dropped until then.
type Client struct {
	conn     *websocket.Conn
	registry *Registry
	chat     services.ChatService

	send chan any
	done chan struct{}

	// readPump state, only touched from the read goroutine.
	userID string
	bound  bool

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, registry *Registry, chat services.ChatService, sendBuffer int) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		chat:     chat,
		send:     make(chan any, sendBuffer),
		done:     make(chan struct{}),
	}
}

// UserID returns the bound user id, or "" before auth.
func (c *Client) UserID() string {
	return c.userID
}

// trySend queues an outbound payload without blocking. False when the
// connection is closing or its buffer is full.
func (c *Client) trySend(payload any) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	case <-c.done:
		return false
	default:
		logger.Warn("send buffer full, dropping frame", "user_id", c.userID)
		return false
	}
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump processes inbound frames one at a time, so frames on a single
// connection are handled in receipt order. Only transport errors terminate
// the loop; malformed or unexpected frames are logged and dropped.
func (c *Client) readPump() {
	defer func() {
		if c.bound {
			c.registry.UnbindClient(c.userID, c)
			logger.Debug("connection unbound", "user_id", c.userID)
		}
		c.shutdown()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug("websocket read ended", "user_id", c.userID, "error", err)
			return
		}

		frame, err := decodeFrame(data)
		if err != nil {
			logger.Warn("malformed frame dropped", "user_id", c.userID, "error", err)
			continue
		}

		c.handleFrame(frame)
	}
}

// writePump owns all writes to the socket.
func (c *Client) writePump() {
	defer c.shutdown()

	for {
		select {
		case payload := <-c.send:
			if err := c.conn.WriteJSON(payload); err != nil {
				logger.Debug("websocket write failed", "user_id", c.userID, "error", err)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) handleFrame(frame inboundFrame) {
	switch f := frame.(type) {

	case authFrame:
		if c.bound {
			logger.Debug("duplicate auth frame ignored", "user_id", c.userID)
			return
		}
		if f.UserID == "" {
			logger.Warn("auth frame without user id dropped")
			return
		}
		c.userID = f.UserID
		c.bound = true
		c.registry.Bind(f.UserID, c)

	case chatMessageFrame:
		if !c.bound {
			logger.Debug("chat_message before auth dropped")
			return
		}
		if _, err := c.chat.Relay(f.BillingID, c.userID, f.ReceiverID, f.Content); err != nil {
			// The sender keeps its connection; the failure only means this
			// message was not recorded.
			logger.Error("failed to relay chat message",
				"billing_id", f.BillingID, "sender_id", c.userID, "error", err)
		}

	case unknownFrame:
		logger.Warn("unknown frame type dropped", "type", f.Type, "user_id", c.userID)

	default:
		logger.Warn("unhandled frame variant dropped")
	}
}
