package chat

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"

	"ticketchat/internal/app/db"
	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/app/user"
	"ticketchat/internal/configs"
	"ticketchat/internal/pkg/errs"
	"ticketchat/internal/pkg/req"
)

// HandleMessage decodes one inbound frame from c and dispatches it. Any failure, including
// a panic inside a handler, is reported to c alone as an error event.
func (h *Hub) HandleMessage(c *Client, data []byte) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.Logger().Warn().Err(err).Int("frame_bytes", len(data)).Msg("Client sent invalid JSON")
		h.fail(c, "", errs.NewError(errs.ErrInvalidPayload, "JSON"))
		return
	}

	h.metrics.Event(metricLabel(env.Type))

	defer func() {
		if r := recover(); r != nil {
			c.Logger().Error().
				Str("event", string(env.Type)).
				Interface("panic", r).
				Msg("Recovered from panic in event handler")
			h.fail(c, env.Type, errs.NewError(errs.ErrUnknown, fmt.Errorf("panic: %v", r)))
		}
	}()

	if err := h.dispatch(c, env.Type, env.Payload); err != nil {
		h.fail(c, env.Type, err)
	}
}

// metricLabel keeps metric cardinality bounded: client-chosen event names collapse to "unsupported".
func metricLabel(event EventType) string {
	switch event {
	case EventRegister, EventJoinTicketRoom, EventLeaveTicketRoom, EventPrivateMessage, EventSendNotification,
		EventSendBroadcastNotification, EventMarkNotificationRead, EventMarkAllNotificationsRead,
		EventGetAllNotifications, EventGetUnreadCount, EventGetTicketMessages:
		return string(event)
	case "":
		return "invalid"
	default:
		return "unsupported"
	}
}

func (h *Hub) fail(c *Client, event EventType, err error) {
	customErr := errs.From(err)
	h.metrics.EventError(metricLabel(event), customErr.Code)

	c.Logger().Debug().
		Str("event", string(event)).
		Int("code", customErr.Code).
		Msg(customErr.Message)

	c.SendError(customErr)
}

func (h *Hub) dispatch(c *Client, event EventType, payload json.RawMessage) error {
	switch event {
	case EventRegister:
		return h.handleRegister(c, payload)
	case EventJoinTicketRoom:
		return h.handleJoinTicketRoom(c, payload)
	case EventLeaveTicketRoom:
		return h.handleLeaveTicketRoom(c, payload)
	case EventPrivateMessage:
		return h.handlePrivateMessage(c, payload)
	case EventSendNotification:
		return h.handleSendNotification(c, payload)
	case EventSendBroadcastNotification:
		return h.handleSendBroadcastNotification(c, payload)
	case EventMarkNotificationRead:
		return h.handleMarkNotificationRead(c, payload)
	case EventMarkAllNotificationsRead:
		return h.handleMarkAllNotificationsRead(c)
	case EventGetAllNotifications:
		return h.handleGetAllNotifications(c)
	case EventGetUnreadCount:
		return h.handleGetUnreadCount(c)
	case EventGetTicketMessages:
		return h.handleGetTicketMessages(c, payload)
	default:
		name := string(event)
		if name == "" {
			name = "empty"
		}
		return errs.NewError(errs.ErrUnsupportedEvent, strconv.Quote(name))
	}
}

// identity returns the identity bound to c, or ErrNotRegistered.
func identity(c *Client) (user.ID, error) {
	id, ok := c.UserID()
	if !ok {
		return "", errs.NewError(errs.ErrNotRegistered)
	}
	return id, nil
}

func (h *Hub) handleRegister(c *Client, raw json.RawMessage) error {
	var p RegisterPayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "register")
	}
	if p.UserID.IsZero() {
		return errs.NewError(errs.ErrMissingFields, "register")
	}

	if current, ok := c.UserID(); ok && current != p.UserID {
		return errs.NewError(errs.ErrAlreadyRegistered)
	}

	prev := h.registry.Register(p.UserID, c)
	if prev != nil {
		prev.Logger().Info().
			Str("replaced_by", c.SessionID()).
			Str("policy", string(h.replacePolicy)).
			Msg("Identity registered on a newer connection")

		if h.replacePolicy == configs.ReplaceAndKick {
			prev.Kick("session replaced")
		}
	}
	h.metrics.SetRegisteredUsers(h.registry.Len())

	c.Logger().Info().Msg("User registered")
	c.Send(EventUserJoin, UserJoinPayload{UserID: p.UserID})
	return nil
}

func (h *Hub) handleJoinTicketRoom(c *Client, raw json.RawMessage) error {
	var p TicketRoomPayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "joinTicketRoom")
	}

	ticketID := p.TicketID.String()
	if !h.rooms.Join(c, ticketID) {
		return nil
	}
	h.metrics.SetRooms(h.rooms.RoomCount())

	c.Logger().Info().Str("room", RoomName(ticketID)).Msg("Joined ticket room")
	return nil
}

func (h *Hub) handleLeaveTicketRoom(c *Client, raw json.RawMessage) error {
	var p TicketRoomPayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "leaveTicketRoom")
	}

	ticketID := p.TicketID.String()
	if ticketID == "" {
		return nil
	}
	h.rooms.Leave(c, ticketID)
	h.metrics.SetRooms(h.rooms.RoomCount())

	c.Logger().Info().Str("room", RoomName(ticketID)).Msg("Left ticket room")
	return nil
}

func (h *Hub) handlePrivateMessage(c *Client, raw json.RawMessage) error {
	from, err := identity(c)
	if err != nil {
		return err
	}

	var p PrivateMessagePayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "message")
	}

	ticketID := p.TicketID.String()
	storageID := StorageTicketID(ticketID)
	message := p.Message.String()
	if p.ToUserID.IsZero() || storageID == "" || message == "" {
		return errs.NewError(errs.ErrMissingFields, "message")
	}
	if len(message) > MaxContentBytes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}
	if p.Type == "" {
		p.Type = DefaultMessageType
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	saved, err := h.store.CreateMessage(ctx, sqlc.CreateMessageParams{
		UserID:          from.String(),
		ToUserID:        pgtype.Text{String: p.ToUserID.String(), Valid: true},
		SupportTicketID: storageID,
		Message:         message,
		Type:            p.Type,
	})
	if err != nil {
		c.Logger().Error().
			Err(err).
			Str("ticket_id", ticketID).
			Bool("timeout", db.IsTimeout(err)).
			Msg("Failed to store message")
		return errs.NewError(errs.ErrMessageSendFailed)
	}

	frame, err := encodeEvent(EventPrivateMessage, PrivateMessageEvent{
		ID:         saved.ID,
		FromUserID: from,
		ToUserID:   p.ToUserID,
		TicketID:   ticketID,
		Message:    message,
		Type:       p.Type,
	})
	if err != nil {
		return errs.NewError(errs.ErrUnknown, err)
	}

	queued := h.rooms.Broadcast(ticketID, frame)

	c.Logger().Debug().
		Int64("message_id", saved.ID).
		Str("room", RoomName(ticketID)).
		Int("queued", queued).
		Msg("Message broadcast to ticket room")
	return nil
}

func (h *Hub) handleSendNotification(c *Client, raw json.RawMessage) error {
	if _, err := identity(c); err != nil {
		return err
	}

	var p SendNotificationPayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "notification")
	}
	if p.ToUserID.IsZero() || p.Type == "" || p.Message == "" {
		return errs.NewError(errs.ErrMissingFields, "notification")
	}

	n, delivered := h.NotifyUser(p.ToUserID, p.Type, p.Message.String(), p.Data)

	c.Send(EventNotificationSent, NotificationSentPayload{
		Success:        true,
		NotificationID: n.ID,
		Delivered:      delivered,
	})
	return nil
}

func (h *Hub) handleSendBroadcastNotification(c *Client, raw json.RawMessage) error {
	if _, err := identity(c); err != nil {
		return err
	}

	var p SendBroadcastNotificationPayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "notification")
	}
	if p.Type == "" || p.Message == "" {
		return errs.NewError(errs.ErrMissingFields, "notification")
	}

	n, _ := h.BroadcastNotification(p.Type, p.Message.String(), p.Data)

	c.Send(EventBroadcastNotificationSent, BroadcastNotificationSentPayload{
		Success:        true,
		NotificationID: n.ID,
	})
	return nil
}

func (h *Hub) handleMarkNotificationRead(c *Client, raw json.RawMessage) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var p MarkNotificationReadPayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "notification")
	}
	if p.NotificationID == "" {
		return errs.NewError(errs.ErrMissingFields, "notification")
	}

	found := h.ledger.MarkRead(id, p.NotificationID.String())

	c.Send(EventNotificationRead, NotificationReadPayload{
		Success:        found,
		NotificationID: p.NotificationID.String(),
		UserID:         id,
	})
	return nil
}

func (h *Hub) handleMarkAllNotificationsRead(c *Client) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	marked := h.ledger.MarkAllRead(id)

	c.Send(EventAllNotificationsRead, AllNotificationsReadPayload{
		Success:     true,
		MarkedCount: marked,
		UserID:      id,
	})
	return nil
}

func (h *Hub) handleGetAllNotifications(c *Client) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	c.Send(EventAllNotifications, AllNotificationsPayload{
		Success: true,
		Status:  h.ledger.StatusSnapshot(id),
		UserID:  id,
	})
	return nil
}

func (h *Hub) handleGetUnreadCount(c *Client) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	c.Send(EventUnreadCount, UnreadCountPayload{
		Success:     true,
		UnreadCount: h.ledger.UnreadCount(id),
		UserID:      id,
	})
	return nil
}

func (h *Hub) handleGetTicketMessages(c *Client, raw json.RawMessage) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var p GetTicketMessagesPayload
	if err := req.DecodePayload(raw, &p); err != nil {
		return errs.NewError(errs.ErrInvalidPayload, "ticket")
	}

	ticketID := p.TicketID.String()
	storageID := StorageTicketID(ticketID)
	if storageID == "" {
		return errs.NewError(errs.ErrMissingFields, "ticket")
	}

	ctx, cancel := h.storeContext(c)
	defer cancel()

	msgs, err := h.store.GetConversation(ctx, storageID)
	if err != nil {
		timeout := db.IsTimeout(err)
		c.Logger().Error().
			Err(err).
			Str("ticket_id", ticketID).
			Bool("timeout", timeout).
			Msg("Failed to load ticket messages")
		if timeout {
			return errs.NewError(errs.ErrStoreTimeout)
		}
		return errs.NewError(errs.ErrHistoryUnavailable)
	}
	if msgs == nil {
		msgs = []sqlc.SupportMessage{}
	}

	c.Send(EventMessagesRead, MessagesReadPayload{
		Success:  true,
		TicketID: ticketID,
		Messages: msgs,
		UserID:   id,
	})
	return nil
}
