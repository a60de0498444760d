/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting, upgrading
the HTTP connection to WebSocket, and running the client's read and write loops. Identity is
established later, by the client's register event.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"ticketchat/internal/app/chat"
	"ticketchat/internal/pkg/errs"
	"ticketchat/internal/pkg/limiter"
	"ticketchat/internal/pkg/logx"
	"ticketchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(hub *chat.Hub, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rateLimiter.Allow(r) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", limiter.ClientIP(r))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := hub.Connect(conn)

		go client.WritePump()

		client.ReadPump()
	}
}
