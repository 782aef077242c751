package app

import (
	"sync"

	"wordduel/internal/domain"
)

// ConnectionRegistry maps a connection to the room it currently belongs to
type ConnectionRegistry struct {
	rooms map[string]string // connID -> roomID
	mu    sync.RWMutex
}

// NewConnectionRegistry creates an empty registry
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		rooms: make(map[string]string),
	}
}

// Bind records that connID is in roomID. A connection is in at most one room.
func (r *ConnectionRegistry) Bind(connID, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[connID]; ok {
		return domain.ErrAlreadyInRoom
	}
	r.rooms[connID] = roomID
	return nil
}

// Lookup returns the room connID is in
func (r *ConnectionRegistry) Lookup(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, ok := r.rooms[connID]
	return roomID, ok
}

// Unbind removes connID's membership
func (r *ConnectionRegistry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, connID)
}

// UnbindFrom removes connID's membership only if it points at roomID
func (r *ConnectionRegistry) UnbindFrom(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[connID] == roomID {
		delete(r.rooms, connID)
	}
}

// Count returns the number of bound connections
func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Clear drops every binding
func (r *ConnectionRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms = make(map[string]string)
}
