package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/pkg/metrics"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) CreateMessage(ctx context.Context, arg sqlc.CreateMessageParams) (sqlc.SupportMessage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlc.SupportMessage), args.Error(1)
}

func (m *mockQuerier) GetAllSendersToAdmin(ctx context.Context, toUserID pgtype.Text) ([]string, error) {
	args := m.Called(ctx, toUserID)
	senders, _ := args.Get(0).([]string)
	return senders, args.Error(1)
}

func (m *mockQuerier) GetConversation(ctx context.Context, supportTicketID string) ([]sqlc.SupportMessage, error) {
	args := m.Called(ctx, supportTicketID)
	msgs, _ := args.Get(0).([]sqlc.SupportMessage)
	return msgs, args.Error(1)
}

func (m *mockQuerier) GetLastMessagesByTicket(ctx context.Context, userID string) ([]sqlc.SupportMessage, error) {
	args := m.Called(ctx, userID)
	msgs, _ := args.Get(0).([]sqlc.SupportMessage)
	return msgs, args.Error(1)
}

func (m *mockQuerier) GetLastMessagesToAdmin(ctx context.Context, toUserID pgtype.Text) ([]sqlc.SupportMessage, error) {
	args := m.Called(ctx, toUserID)
	msgs, _ := args.Get(0).([]sqlc.SupportMessage)
	return msgs, args.Error(1)
}

func TestStoreCreateMessageDefaults(t *testing.T) {
	q := new(mockQuerier)
	s := NewStore(q, nil, zerolog.Nop())

	want := sqlc.CreateMessageParams{
		UserID:          "5",
		SupportTicketID: "7",
		Message:         "hello",
		Type:            "text",
	}
	q.On("CreateMessage", mock.Anything, want).
		Return(sqlc.SupportMessage{ID: 11, UserID: "5", SupportTicketID: "7", Message: "hello", Type: "text"}, nil).
		Once()

	msg, err := s.CreateMessage(context.Background(), sqlc.CreateMessageParams{
		UserID:          "5",
		ToUserID:        pgtype.Text{String: "", Valid: true},
		SupportTicketID: "7",
		Message:         "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), msg.ID)
	q.AssertExpectations(t)
}

func TestStoreWrapsErrorsAndRecordsMetrics(t *testing.T) {
	q := new(mockQuerier)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s := NewStore(q, m, zerolog.Nop())

	boom := errors.New("connection refused")
	q.On("GetConversation", mock.Anything, "7").Return(nil, boom).Once()

	_, err := s.GetConversation(context.Background(), "7")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `ticket "7"`)

	count, err := testutil.GatherAndCount(reg, "ticketchat_store_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStoreReturnsEmptySlices(t *testing.T) {
	q := new(mockQuerier)
	s := NewStore(q, nil, zerolog.Nop())
	admin := pgtype.Text{String: "1", Valid: true}

	q.On("GetConversation", mock.Anything, "9").Return(nil, nil)
	q.On("GetLastMessagesByTicket", mock.Anything, "5").Return(nil, nil)
	q.On("GetAllSendersToAdmin", mock.Anything, admin).Return(nil, nil)
	q.On("GetLastMessagesToAdmin", mock.Anything, admin).Return(nil, nil)

	ctx := context.Background()

	conv, err := s.GetConversation(ctx, "9")
	require.NoError(t, err)
	assert.NotNil(t, conv)
	assert.Empty(t, conv)

	latest, err := s.GetLastMessagesByTicket(ctx, "5")
	require.NoError(t, err)
	assert.NotNil(t, latest)

	senders, err := s.GetAllSendersToAdmin(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, senders)

	toAdmin, err := s.GetLastMessagesToAdmin(ctx, "1")
	require.NoError(t, err)
	assert.NotNil(t, toAdmin)

	q.AssertExpectations(t)
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.True(t, IsTimeout(errors.Join(errors.New("query"), context.Canceled)))
	assert.False(t, IsTimeout(errors.New("syntax error")))
}
