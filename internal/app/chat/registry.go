package chat

import (
	"sort"
	"sync"

	"ticketchat/internal/app/user"
)

// Registry maps each registered identity to its current connection.
// It holds non-owning pointers: connections are opened and closed by the transport.
type Registry struct {
	mu     sync.RWMutex
	byUser map[user.ID]*Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byUser: make(map[user.ID]*Client)}
}

// Register binds id to c, overwriting any previous binding, and tags c with id.
// It returns the displaced connection, or nil when there was none or it was c itself.
func (r *Registry) Register(id user.ID, c *Client) *Client {
	r.mu.Lock()
	prev := r.byUser[id]
	r.byUser[id] = c
	r.mu.Unlock()

	c.setUserID(id)

	if prev == c {
		return nil
	}
	return prev
}

// Lookup returns the connection currently bound to id.
func (r *Registry) Lookup(id user.ID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byUser[id]
	return c, ok
}

// Remove deletes the binding for id only if it still points at c. A connection that was
// replaced by a newer one therefore cannot unregister its successor.
func (r *Registry) Remove(id user.ID, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.byUser[id]; ok && current == c {
		delete(r.byUser, id)
		return true
	}
	return false
}

// Identities returns the registered identities in ascending order.
func (r *Registry) Identities() []user.ID {
	r.mu.RLock()
	ids := make([]user.ID, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
