/*
Package handler provides the HTTP handlers and routing setup for the ticket chat server.

This file defines the main Router, applying middleware for logging, CORS and recovery, and
mounting the health and metrics endpoints, the WebSocket endpoint (rate limited per IP), and the
REST API for message history and notifications.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"ticketchat/internal/pkg/limiter"
	"ticketchat/internal/pkg/logx"
	"ticketchat/internal/pkg/resp"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// ctx bounds background work such as the rate limiter's cleanup loop.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(deps.Config.WSConnectRate), deps.Config.WSConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":      "ok",
			"service":     "Ticket Chat Server",
			"connections": deps.Hub.OpenConnections(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/tickets/{ticketId}/messages", HandleTicketMessages(deps))
		api.Get("/users/{userId}/tickets/latest", HandleLatestByTicket(deps))
		api.Get("/users/{userId}/notifications", HandleUserNotifications(deps))
		api.Post("/users/{userId}/notifications/{notificationId}/read", HandleMarkNotificationRead(deps))
		api.Get("/admins/{adminId}/senders", HandleSendersToAdmin(deps))
		api.Get("/admins/{adminId}/messages/latest", HandleLatestToAdmin(deps))

		api.Post("/notifications", HandleCreateNotification(deps))
		api.Post("/notifications/broadcast", HandleBroadcastNotification(deps))
	})

	r.Get("/ws", HandleWebSocket(deps.Hub, wsUpgrader, connectLimiter))

	return r
}
