/*
Package chat contains the core logic for support-ticket chat over WebSockets: the registry
of live connections, ticket room routing, and the per-connection event protocol.

This file defines the wire format. Every frame in both directions is a JSON object
{"type": <event>, "payload": <value>}.
*/
package chat

import (
	"encoding/json"
	"strings"

	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/app/notify"
	"ticketchat/internal/app/user"
	"ticketchat/internal/pkg/req"
)

// EventType names an inbound or outbound event.
type EventType string

// Inbound events.
const (
	EventRegister                  EventType = "register"
	EventJoinTicketRoom            EventType = "joinTicketRoom"
	EventLeaveTicketRoom           EventType = "leaveTicketRoom"
	EventPrivateMessage            EventType = "privateMessage"
	EventSendNotification          EventType = "sendNotification"
	EventSendBroadcastNotification EventType = "sendBroadcastNotification"
	EventMarkNotificationRead      EventType = "markNotificationRead"
	EventMarkAllNotificationsRead  EventType = "markAllNotificationsRead"
	EventGetAllNotifications       EventType = "getAllNotifications"
	EventGetUnreadCount            EventType = "getUnreadCount"
	EventGetTicketMessages         EventType = "getTicketMessages"
)

// Outbound events. EventPrivateMessage is used in both directions.
const (
	EventUserJoin                  EventType = "user join"
	EventError                     EventType = "error"
	EventNotification              EventType = "notification"
	EventNotificationSent          EventType = "notificationSent"
	EventNotificationRead          EventType = "notificationRead"
	EventBroadcastNotification     EventType = "broadcastNotification"
	EventBroadcastNotificationSent EventType = "broadcastNotificationSent"
	EventMessagesRead              EventType = "messagesRead"
	EventAllNotifications          EventType = "allNotifications"
	EventUnreadCount               EventType = "unreadCount"
	EventAllNotificationsRead      EventType = "allNotificationsRead"
)

// DefaultMessageType is used when a privateMessage omits its type.
const DefaultMessageType = "text"

// inboundEnvelope is a frame received from a client. Payload is decoded per event by
// req.DecodePayload, so it may also be a string holding JSON.
type inboundEnvelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Envelope is a frame sent to clients.
type Envelope struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// encodeEvent renders an outbound frame.
func encodeEvent(event EventType, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Type: event, Payload: payload})
}

// RoomName returns the broadcast group name for a ticket id, exactly as the client sent it.
func RoomName(ticketID string) string {
	return "ticket_" + ticketID
}

// StorageTicketID strips one cosmetic leading '#' from a ticket id. The stripped form keys
// stored messages; the form as sent keys rooms and is echoed back to clients.
func StorageTicketID(ticketID string) string {
	return strings.TrimPrefix(ticketID, "#")
}

// --- inbound payloads ---

type RegisterPayload struct {
	UserID user.ID `json:"userId"`
}

// TicketRoomPayload is the payload of joinTicketRoom and leaveTicketRoom.
type TicketRoomPayload struct {
	TicketID req.LooseString `json:"ticketId"`
}

type PrivateMessagePayload struct {
	ToUserID user.ID         `json:"toUserId"`
	TicketID req.LooseString `json:"ticketId"`
	Message  req.Text        `json:"message"`
	Type     string          `json:"type,omitempty"`
}

// SendNotificationPayload carries data as any JSON value; absent data is stored as {}.
type SendNotificationPayload struct {
	ToUserID user.ID  `json:"toUserId"`
	Type     string   `json:"type"`
	Message  req.Text `json:"message"`
	Data     any      `json:"data,omitempty"`
}

type SendBroadcastNotificationPayload struct {
	Type    string   `json:"type"`
	Message req.Text `json:"message"`
	Data    any      `json:"data,omitempty"`
}

type MarkNotificationReadPayload struct {
	NotificationID req.LooseString `json:"notificationId"`
}

type GetTicketMessagesPayload struct {
	TicketID req.LooseString `json:"ticketId"`
}

// --- outbound payloads ---

type UserJoinPayload struct {
	UserID user.ID `json:"userId"`
}

// PrivateMessageEvent is the message broadcast to a ticket room after it was stored.
type PrivateMessageEvent struct {
	ID         int64   `json:"id"`
	FromUserID user.ID `json:"fromUserId"`
	ToUserID   user.ID `json:"toUserId"`
	TicketID   string  `json:"ticketId"`
	Message    string  `json:"message"`
	Type       string  `json:"type"`
}

type NotificationSentPayload struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notificationId"`
	Delivered      bool   `json:"delivered"`
}

type NotificationReadPayload struct {
	Success        bool    `json:"success"`
	NotificationID string  `json:"notificationId"`
	UserID         user.ID `json:"userId"`
}

type BroadcastNotificationSentPayload struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notificationId"`
}

type MessagesReadPayload struct {
	Success  bool                  `json:"success"`
	TicketID string                `json:"ticketId"`
	Messages []sqlc.SupportMessage `json:"messages"`
	UserID   user.ID               `json:"userId"`
}

// AllNotificationsPayload flattens the ledger status next to the success flag and user id.
type AllNotificationsPayload struct {
	Success bool `json:"success"`
	notify.Status
	UserID user.ID `json:"userId"`
}

type UnreadCountPayload struct {
	Success     bool    `json:"success"`
	UnreadCount int     `json:"unreadCount"`
	UserID      user.ID `json:"userId"`
}

type AllNotificationsReadPayload struct {
	Success     bool    `json:"success"`
	MarkedCount int     `json:"markedCount"`
	UserID      user.ID `json:"userId"`
}
