/*
Package chat contains the core logic for support-ticket chat over WebSockets.

This file defines the Client struct, representing an active WebSocket connection. It manages
the connection lifecycle, the read and write loops (ReadPump and WritePump), and the
non-blocking outbound queue shared by direct replies and room broadcasts.
*/
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ticketchat/internal/app/user"
	"ticketchat/internal/pkg/errs"
	"ticketchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 32 * 1024

	// sendQueueSize is the capacity of each client's outbound queue.
	sendQueueSize = 256

	// MaxContentBytes is the maximum size (in bytes) of a chat message body.
	MaxContentBytes = 5000

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001
)

// Client struct represents an active WebSocket connection and the identity bound to it.
type Client struct {
	hub *Hub

	// underlying WebSocket connection object. Nil for connections built in tests.
	conn *websocket.Conn

	// sessionID identifies the connection in logs.
	sessionID string

	// a buffered channel used to queue frames waiting to be sent to the client.
	// It is never closed; done signals shutdown instead.
	send chan []byte

	// done is closed exactly once when the connection starts closing.
	done      chan struct{}
	closeOnce sync.Once
	closeCode int
	closeText string

	// ctx bounds store calls made on behalf of this connection.
	ctx    context.Context
	cancel context.CancelFunc

	// mu guards userID and logger.
	mu     sync.RWMutex
	userID user.ID
	logger zerolog.Logger
}

// newClient constructs a Client owned by hub. Use Hub.Connect from the transport.
func newClient(hub *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(hub.ctx)
	sessionID := randx.SessionID()

	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendQueueSize),
		done:      make(chan struct{}),
		closeCode: websocket.CloseNormalClosure,
		ctx:       ctx,
		cancel:    cancel,
		logger:    hub.logger.With().Str("session_id", sessionID).Logger(),
	}
}

// SessionID returns the connection's log correlation id.
func (c *Client) SessionID() string {
	return c.sessionID
}

// UserID returns the identity bound by register, if any.
func (c *Client) UserID() (user.ID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, !c.userID.IsZero()
}

func (c *Client) setUserID(id user.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID == id {
		return
	}
	c.userID = id
	c.logger = c.logger.With().Str("user_id", id.String()).Logger()
}

// Logger returns the connection-scoped logger.
func (c *Client) Logger() *zerolog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l := c.logger
	return &l
}

// Done is closed once the connection starts closing.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// ReadPump handles reading frames from the WebSocket connection and dispatching them to the
// hub one at a time. It performs the disconnect cleanup when the connection ends.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.disconnect(c)

		if err := c.conn.Close(); err != nil {
			c.Logger().Debug().Err(err).Msg("Client connection already closed")
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.Logger().Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Logger().Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			return
		}

		c.hub.HandleMessage(c, data)
	}
}

// WritePump handles writing frames from the send queue to the WebSocket connection, and
// sends periodic pings. When the client closes, queued frames are flushed before the close frame.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.Logger().Debug().Err(err).Msg("Client connection already closed in WritePump")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if !c.writeFrame(frame) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}

		case <-c.done:
			c.flush()
			c.writeCloseMessage()
			return
		}
	}
}

// flush writes whatever is still queued without blocking for more.
func (c *Client) flush() {
	for {
		select {
		case frame := <-c.send:
			if !c.writeFrame(frame) {
				return
			}
		default:
			return
		}
	}
}

// writeFrame writes a single text frame. It returns false if the WritePump loop should terminate.
func (c *Client) writeFrame(frame []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.Logger().Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.Logger().Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.Logger().Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.Logger().Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

func (c *Client) writeCloseMessage() {
	msg := websocket.FormatCloseMessage(c.closeCode, c.closeText)

	if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		c.Logger().Debug().Err(err).Int("close_code", c.closeCode).Msg("Failed to write close message")
	}
}

// enqueue queues frame without blocking. It returns false if the client is closing or
// its queue is full, in which case the frame is dropped.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		c.Logger().Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
		return false
	}
}

// Send encodes an event and queues it for this client. It reports whether the frame was queued.
func (c *Client) Send(event EventType, payload any) bool {
	frame, err := encodeEvent(event, payload)
	if err != nil {
		c.Logger().Error().Err(err).Str("event", string(event)).Msg("Error marshaling event for client")
		return false
	}
	return c.enqueue(frame)
}

// SendError queues an error event built from err. Errors that are not *errs.CustomError
// are reported as ErrUnknown.
func (c *Client) SendError(err error) {
	if !c.Send(EventError, errs.From(err)) {
		c.Logger().Warn().Err(err).Msg("Failed to queue error event")
	}
}

// Close starts closing the connection with the given close code. Only the first call has effect.
func (c *Client) Close(code int, text string) {
	c.closeOnce.Do(func() {
		c.closeCode = code
		c.closeText = text
		c.cancel()
		close(c.done)
	})
}

// Kick tells the client its session was replaced, then closes the connection with close
// code 4001.
func (c *Client) Kick(reason string) {
	c.Logger().Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Kicking replaced session")

	c.SendError(errs.NewError(errs.ErrSessionKicked))
	c.Close(WsCloseCodeSessionKicked, reason)
}
