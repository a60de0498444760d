/*
Package chat contains the core logic for support-ticket chat over WebSockets.

This file defines the Hub, which owns the shared state of the session protocol: the
connection registry, the ticket room router, the notification ledger and the message
store. It tracks every open connection and performs connect and disconnect bookkeeping.
*/
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/app/notify"
	"ticketchat/internal/app/user"
	"ticketchat/internal/configs"
	"ticketchat/internal/pkg/metrics"
)

// DefaultStoreTimeout bounds a store call when HubOptions.StoreTimeout is zero.
const DefaultStoreTimeout = 5 * time.Second

// MessageStore persists and reads chat messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, arg sqlc.CreateMessageParams) (sqlc.SupportMessage, error)
	GetConversation(ctx context.Context, ticketID string) ([]sqlc.SupportMessage, error)
}

// HubOptions carries the Hub's collaborators. Nil Registry, Rooms and Ledger are
// replaced by empty ones.
type HubOptions struct {
	Registry      *Registry
	Rooms         *Router
	Ledger        *notify.Ledger
	Store         MessageStore
	ReplacePolicy configs.ReplacePolicy
	StoreTimeout  time.Duration
	Metrics       *metrics.Metrics
	Logger        zerolog.Logger
}

// Hub dispatches client events and owns the bookkeeping shared by all connections.
type Hub struct {
	registry      *Registry
	rooms         *Router
	ledger        *notify.Ledger
	store         MessageStore
	replacePolicy configs.ReplacePolicy
	storeTimeout  time.Duration
	metrics       *metrics.Metrics
	logger        zerolog.Logger

	// every open connection, registered or not.
	mu      sync.RWMutex
	clients map[*Client]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub builds a Hub from opts.
func NewHub(opts HubOptions) *Hub {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Rooms == nil {
		opts.Rooms = NewRouter(opts.Logger)
	}
	if opts.Ledger == nil {
		opts.Ledger = notify.NewLedger(opts.Logger)
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.ReplacePolicy == "" {
		opts.ReplacePolicy = configs.ReplaceSilently
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		registry:      opts.Registry,
		rooms:         opts.Rooms,
		ledger:        opts.Ledger,
		store:         opts.Store,
		replacePolicy: opts.ReplacePolicy,
		storeTimeout:  opts.StoreTimeout,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		clients:       make(map[*Client]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (h *Hub) Registry() *Registry { return h.registry }

func (h *Hub) Rooms() *Router { return h.rooms }

func (h *Hub) Ledger() *notify.Ledger { return h.ledger }

// Connect wraps an upgraded WebSocket connection in a Client and starts tracking it.
// The caller runs WritePump in a goroutine and ReadPump on its own goroutine.
func (h *Hub) Connect(conn *websocket.Conn) *Client {
	c := newClient(h, conn)
	h.track(c)

	c.Logger().Info().Msg("WebSocket connection established")
	return c
}

func (h *Hub) track(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.metrics.ConnectionOpened()
}

// disconnect releases everything the connection held: its registry binding (only if it
// is still the current one for its identity) and its room memberships.
func (h *Hub) disconnect(c *Client) {
	c.Close(websocket.CloseNormalClosure, "")

	h.mu.Lock()
	_, tracked := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if !tracked {
		return
	}
	h.metrics.ConnectionClosed()

	logger := c.Logger()

	if id, ok := c.UserID(); ok {
		if h.registry.Remove(id, c) {
			logger.Info().Msg("User unregistered")
		} else {
			logger.Debug().Msg("Registry entry belongs to a newer connection, left in place")
		}
	}

	left := h.rooms.LeaveAll(c)

	h.metrics.SetRegisteredUsers(h.registry.Len())
	h.metrics.SetRooms(h.rooms.RoomCount())

	logger.Info().Strs("rooms_left", left).Msg("Client disconnected")
}

// OpenConnections returns the number of tracked connections.
func (h *Hub) OpenConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) openClients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// NotifyUser records a notification for userID and queues it to their live connection,
// if any. It reports whether the notification was queued for live delivery.
func (h *Hub) NotifyUser(userID user.ID, kind, message string, data any) (notify.Notification, bool) {
	n := h.ledger.CreateNotification(userID, kind, message, data)
	h.metrics.NotificationCreated("direct")

	delivered := false
	if target, ok := h.registry.Lookup(userID); ok {
		delivered = target.Send(EventNotification, n)
		h.metrics.Delivery("notification", delivered)
	} else {
		h.metrics.DeliveryOffline("notification")
	}

	h.logger.Debug().
		Str("notification_id", n.ID).
		Str("to_user_id", userID.String()).
		Bool("delivered", delivered).
		Msg("Notification created")

	return n, delivered
}

// BroadcastNotification records a notification for every identity known to the ledger
// or currently registered, and queues it to every open connection. It returns the
// broadcast template and the number of connections it was queued for.
func (h *Hub) BroadcastNotification(kind, message string, data any) (notify.Notification, int) {
	n := h.ledger.CreateBroadcastNotification(kind, message, data, h.registry.Identities()...)
	h.metrics.NotificationCreated("broadcast")

	frame, err := encodeEvent(EventBroadcastNotification, n)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode broadcast notification")
		return n, 0
	}

	queued := 0
	for _, c := range h.openClients() {
		ok := c.enqueue(frame)
		h.metrics.Delivery("broadcast_notification", ok)
		if ok {
			queued++
		}
	}

	h.logger.Info().
		Str("notification_id", n.ID).
		Int("queued", queued).
		Msg("Broadcast notification sent")

	return n, queued
}

// Shutdown closes every open connection with "going away" and cancels in-flight store calls.
func (h *Hub) Shutdown() {
	clients := h.openClients()
	for _, c := range clients {
		c.Close(websocket.CloseGoingAway, "server shutting down")
	}
	h.cancel()

	h.logger.Info().Int("connections", len(clients)).Msg("Hub shut down")
}

// storeContext bounds a store call by the connection lifetime and the configured timeout.
func (h *Hub) storeContext(c *Client) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.ctx, h.storeTimeout)
}
