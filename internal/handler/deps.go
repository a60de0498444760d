package handler

import (
	"context"

	"ticketchat/internal/app/chat"
	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/configs"
	"ticketchat/internal/pkg/metrics"
)

// HistoryStore reads stored ticket messages for the REST endpoints.
type HistoryStore interface {
	GetConversation(ctx context.Context, ticketID string) ([]sqlc.SupportMessage, error)
	GetLastMessagesByTicket(ctx context.Context, userID string) ([]sqlc.SupportMessage, error)
	GetAllSendersToAdmin(ctx context.Context, adminID string) ([]string, error)
	GetLastMessagesToAdmin(ctx context.Context, adminID string) ([]sqlc.SupportMessage, error)
}

type AppDeps struct {
	Hub     *chat.Hub
	Config  *configs.AppConfig
	Store   HistoryStore
	Metrics *metrics.Metrics
}
