/*
Package notify holds the in-memory notification ledger: for every identity that has ever
received a notification, the ordered list of its notifications and their read state.

The ledger lives for the process lifetime. Nothing is persisted and nothing is evicted, so a
long-running process grows with every notification it records.
*/
package notify

import (
	"maps"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ticketchat/internal/app/user"
)

// sequence issues notification ids. It is package-wide so ids stay unique across every
// Ledger in the process.
var sequence atomic.Uint64

// Notification is a single notification record as stored in the ledger and sent to clients.
type Notification struct {
	ID        string    `json:"id"`
	UserID    user.ID   `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Status is the read/unread breakdown of one user's notifications.
type Status struct {
	All         []Notification `json:"all"`
	Unread      []Notification `json:"unread"`
	Read        []Notification `json:"read"`
	UnreadCount int            `json:"unreadCount"`
	ReadCount   int            `json:"readCount"`
	TotalCount  int            `json:"totalCount"`
}

// Ledger maps identities to their notifications, oldest first.
type Ledger struct {
	mu     sync.RWMutex
	byUser map[user.ID][]Notification

	now    func() time.Time
	logger zerolog.Logger
}

// NewLedger returns an empty ledger.
func NewLedger(logger zerolog.Logger) *Ledger {
	return &Ledger{
		byUser: make(map[user.ID][]Notification),
		now:    time.Now,
		logger: logger.With().Str("component", "NotificationLedger").Logger(),
	}
}

// copyData returns data with its top-level map or slice copied, so later changes by the caller
// do not leak into the ledger. Absent data becomes an empty object.
func copyData(data any) any {
	switch v := data.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		if v == nil {
			return map[string]any{}
		}
		return maps.Clone(v)
	case []any:
		return slices.Clone(v)
	default:
		return v
	}
}

// newRecord builds an unread record with a fresh id. data may be any JSON value.
func (l *Ledger) newRecord(userID user.ID, kind, message string, data any) Notification {
	payload := copyData(data)

	return Notification{
		ID:        strconv.FormatUint(sequence.Add(1), 10),
		UserID:    userID,
		Type:      kind,
		Message:   message,
		Data:      payload,
		Timestamp: l.now().UTC().Truncate(time.Millisecond),
		Read:      false,
	}
}

// CreateNotification appends a new unread notification to userID's list and returns it.
func (l *Ledger) CreateNotification(userID user.ID, kind, message string, data any) Notification {
	n := l.newRecord(userID, kind, message, data)

	l.mu.Lock()
	l.byUser[userID] = append(l.byUser[userID], n)
	l.mu.Unlock()

	l.logger.Debug().
		Str("user_id", userID.String()).
		Str("notification_id", n.ID).
		Str("type", kind).
		Msg("Created notification.")

	return n
}

// CreateBroadcastNotification appends a copy of one notification to every identity already
// present in the ledger and to each identity in extra. Identities in neither set receive
// nothing. Every copy shares the broadcast's id and carries its recipient's identity; the
// returned template carries user.Broadcast.
func (l *Ledger) CreateBroadcastNotification(kind, message string, data any, extra ...user.ID) Notification {
	template := l.newRecord(user.Broadcast, kind, message, data)

	l.mu.Lock()
	recipients := make(map[user.ID]struct{}, len(l.byUser)+len(extra))
	for id := range l.byUser {
		recipients[id] = struct{}{}
	}
	for _, id := range extra {
		if !id.IsZero() {
			recipients[id] = struct{}{}
		}
	}

	for id := range recipients {
		n := template
		n.UserID = id
		l.byUser[id] = append(l.byUser[id], n)
	}
	l.mu.Unlock()

	l.logger.Debug().
		Str("notification_id", template.ID).
		Str("type", kind).
		Int("recipients", len(recipients)).
		Msg("Created broadcast notification.")

	return template
}

// UserNotifications returns a copy of userID's notifications, oldest first. Unknown users
// get an empty slice.
func (l *Ledger) UserNotifications(userID user.ID) []Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := slices.Clone(l.byUser[userID])
	if list == nil {
		list = []Notification{}
	}
	return list
}

// UnreadCount returns how many of userID's notifications are unread.
func (l *Ledger) UnreadCount(userID user.ID) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for _, n := range l.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks the first of userID's notifications with the given id as read. It reports
// whether such a notification exists; marking an already read notification again is
// reported as found and changes nothing.
func (l *Ledger) MarkRead(userID user.ID, notificationID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.byUser[userID]
	for i := range list {
		if list[i].ID == notificationID {
			list[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead marks every notification of userID as read and returns how many were unread.
func (l *Ledger) MarkAllRead(userID user.ID) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	marked := 0
	list := l.byUser[userID]
	for i := range list {
		if !list[i].Read {
			list[i].Read = true
			marked++
		}
	}
	return marked
}

// StatusSnapshot computes the read/unread breakdown for userID. It is derived on every call.
func (l *Ledger) StatusSnapshot(userID user.ID) Status {
	all := l.UserNotifications(userID)

	status := Status{
		All:    all,
		Unread: []Notification{},
		Read:   []Notification{},
	}
	for _, n := range all {
		if n.Read {
			status.Read = append(status.Read, n)
		} else {
			status.Unread = append(status.Unread, n)
		}
	}

	status.UnreadCount = len(status.Unread)
	status.ReadCount = len(status.Read)
	status.TotalCount = len(all)

	return status
}
