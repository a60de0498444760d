/*
Package chat contains the core logic for support-ticket chat over WebSockets.

This file defines the Router, which tracks ticket rooms. A room is named ticket_<ticketId>,
is created on its first join, and disappears when its last member leaves.
*/
package chat

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Router manages ticket room membership and fan-out.
type Router struct {
	mu sync.RWMutex

	// members of each room, keyed by room name.
	rooms map[string]map[*Client]struct{}

	// rooms each client joined, so a disconnect can leave them all.
	joined map[*Client]map[string]struct{}

	logger zerolog.Logger
}

// NewRouter returns a router with no rooms.
func NewRouter(logger zerolog.Logger) *Router {
	return &Router{
		rooms:  make(map[string]map[*Client]struct{}),
		joined: make(map[*Client]map[string]struct{}),
		logger: logger,
	}
}

// Join adds c to the room for ticketID. Joining twice is a no-op.
// An empty ticket id is ignored and reported as false.
func (r *Router) Join(c *Client, ticketID string) bool {
	if ticketID == "" {
		return false
	}
	name := RoomName(ticketID)

	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[name]
	if !ok {
		members = make(map[*Client]struct{})
		r.rooms[name] = members
		r.logger.Debug().Str("room", name).Msg("Room created")
	}
	members[c] = struct{}{}

	set, ok := r.joined[c]
	if !ok {
		set = make(map[string]struct{})
		r.joined[c] = set
	}
	set[name] = struct{}{}

	return true
}

// Leave removes c from the room for ticketID.
func (r *Router) Leave(c *Client, ticketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leaveLocked(c, RoomName(ticketID))
}

// LeaveAll removes c from every room it joined and returns the room names it left.
func (r *Router) LeaveAll(c *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := make([]string, 0, len(r.joined[c]))
	for name := range r.joined[c] {
		r.leaveLocked(c, name)
		left = append(left, name)
	}
	sort.Strings(left)
	return left
}

func (r *Router) leaveLocked(c *Client, name string) {
	if members, ok := r.rooms[name]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, name)
			r.logger.Debug().Str("room", name).Msg("Room removed")
		}
	}

	if set, ok := r.joined[c]; ok {
		delete(set, name)
		if len(set) == 0 {
			delete(r.joined, c)
		}
	}
}

// Broadcast queues frame for every member of the room for ticketID, the sender included,
// and returns how many members accepted it. Members with a full queue are skipped.
func (r *Router) Broadcast(ticketID string, frame []byte) int {
	name := RoomName(ticketID)

	r.mu.RLock()
	members := make([]*Client, 0, len(r.rooms[name]))
	for c := range r.rooms[name] {
		members = append(members, c)
	}
	r.mu.RUnlock()

	queued := 0
	for _, c := range members {
		if c.enqueue(frame) {
			queued++
			continue
		}
		r.logger.Warn().
			Str("room", name).
			Str("session_id", c.SessionID()).
			Msg("Room broadcast skipped a member")
	}
	return queued
}

// Members returns the number of clients in the room for ticketID.
func (r *Router) Members(ticketID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[RoomName(ticketID)])
}

// RoomsOf returns the sorted room names c belongs to.
func (r *Router) RoomsOf(c *Client) []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.joined[c]))
	for name := range r.joined[c] {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (r *Router) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
