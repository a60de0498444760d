package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/configs"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateMessage(ctx context.Context, arg sqlc.CreateMessageParams) (sqlc.SupportMessage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlc.SupportMessage), args.Error(1)
}

func (m *mockStore) GetConversation(ctx context.Context, ticketID string) ([]sqlc.SupportMessage, error) {
	args := m.Called(ctx, ticketID)
	msgs, _ := args.Get(0).([]sqlc.SupportMessage)
	return msgs, args.Error(1)
}

type frame struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newTestHub(store MessageStore, policy configs.ReplacePolicy) *Hub {
	return NewHub(HubOptions{
		Store:         store,
		ReplacePolicy: policy,
		Logger:        zerolog.Nop(),
	})
}

// connect builds a tracked client without a socket; frames stay in its send queue.
func connect(h *Hub) *Client {
	c := newClient(h, nil)
	h.track(c)
	return c
}

func emit(t *testing.T, h *Hub, c *Client, event EventType, payload any) {
	t.Helper()

	data, err := json.Marshal(map[string]any{"type": event, "payload": payload})
	require.NoError(t, err)
	h.HandleMessage(c, data)
}

func next(t *testing.T, c *Client) frame {
	t.Helper()

	select {
	case data := <-c.send:
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	default:
		t.Fatalf("no frame queued for %s", c.SessionID())
		return frame{}
	}
}

func nextAs[T any](t *testing.T, c *Client, want EventType) T {
	t.Helper()

	f := next(t, c)
	require.Equal(t, want, f.Type, "payload: %s", f.Payload)

	var out T
	require.NoError(t, json.Unmarshal(f.Payload, &out))
	return out
}

func nextError(t *testing.T, c *Client) errorPayload {
	t.Helper()
	return nextAs[errorPayload](t, c, EventError)
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()

	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	default:
	}
}

func register(t *testing.T, h *Hub, c *Client, id string) {
	t.Helper()

	emit(t, h, c, EventRegister, map[string]any{"userId": id})
	nextAs[UserJoinPayload](t, c, EventUserJoin)
}
