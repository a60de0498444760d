package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/pkg/metrics"
)

// Store is the message store used by the chat hub and the history endpoints. It wraps the
// generated queries with timing metrics, error wrapping, and empty (non-nil) result slices.
type Store struct {
	q       sqlc.Querier
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewStore wraps q. A nil m disables metrics.
func NewStore(q sqlc.Querier, m *metrics.Metrics, logger zerolog.Logger) *Store {
	return &Store{q: q, metrics: m, logger: logger}
}

// CreateMessage persists one chat message. An empty ToUserID is stored as NULL and the
// type defaults to "text".
func (s *Store) CreateMessage(ctx context.Context, arg sqlc.CreateMessageParams) (sqlc.SupportMessage, error) {
	if arg.Type == "" {
		arg.Type = "text"
	}
	if arg.ToUserID.Valid && arg.ToUserID.String == "" {
		arg.ToUserID = pgtype.Text{}
	}

	start := time.Now()
	msg, err := s.q.CreateMessage(ctx, arg)
	s.metrics.ObserveStore("create_message", start, err)
	if err != nil {
		return sqlc.SupportMessage{}, fmt.Errorf("create message for ticket %q: %w", arg.SupportTicketID, err)
	}

	s.logger.Debug().
		Int64("message_id", msg.ID).
		Str("ticket_id", msg.SupportTicketID).
		Msg("Message stored")

	return msg, nil
}

// GetConversation returns every message of a ticket, oldest first.
func (s *Store) GetConversation(ctx context.Context, ticketID string) ([]sqlc.SupportMessage, error) {
	start := time.Now()
	msgs, err := s.q.GetConversation(ctx, ticketID)
	s.metrics.ObserveStore("get_conversation", start, err)
	if err != nil {
		return nil, fmt.Errorf("get conversation for ticket %q: %w", ticketID, err)
	}
	return nonNil(msgs), nil
}

// GetLastMessagesByTicket returns the latest message of every ticket the user sent to or received from.
func (s *Store) GetLastMessagesByTicket(ctx context.Context, userID string) ([]sqlc.SupportMessage, error) {
	start := time.Now()
	msgs, err := s.q.GetLastMessagesByTicket(ctx, userID)
	s.metrics.ObserveStore("get_last_messages_by_ticket", start, err)
	if err != nil {
		return nil, fmt.Errorf("get latest messages for user %q: %w", userID, err)
	}
	return nonNil(msgs), nil
}

// GetAllSendersToAdmin returns the distinct ids of users who messaged adminID.
func (s *Store) GetAllSendersToAdmin(ctx context.Context, adminID string) ([]string, error) {
	start := time.Now()
	senders, err := s.q.GetAllSendersToAdmin(ctx, pgtype.Text{String: adminID, Valid: true})
	s.metrics.ObserveStore("get_all_senders_to_admin", start, err)
	if err != nil {
		return nil, fmt.Errorf("get senders to admin %q: %w", adminID, err)
	}
	if senders == nil {
		senders = []string{}
	}
	return senders, nil
}

// GetLastMessagesToAdmin returns the latest message from each sender to adminID.
func (s *Store) GetLastMessagesToAdmin(ctx context.Context, adminID string) ([]sqlc.SupportMessage, error) {
	start := time.Now()
	msgs, err := s.q.GetLastMessagesToAdmin(ctx, pgtype.Text{String: adminID, Valid: true})
	s.metrics.ObserveStore("get_last_messages_to_admin", start, err)
	if err != nil {
		return nil, fmt.Errorf("get latest messages to admin %q: %w", adminID, err)
	}
	return nonNil(msgs), nil
}

func nonNil(msgs []sqlc.SupportMessage) []sqlc.SupportMessage {
	if msgs == nil {
		return []sqlc.SupportMessage{}
	}
	return msgs
}
