package app

import (
	"errors"
	"log/slog"
	"sync"

	"wordduel/internal/domain"
)

// maxCreateAttempts bounds retries when a generated room ID is already taken
const maxCreateAttempts = 10

// ErrNoFreeRoomID is returned when no unused room ID could be generated
var ErrNoFreeRoomID = errors.New("failed to generate unique room code")

// Room wraps a session with the lock that serialises its transitions
type Room struct {
	mu      sync.Mutex
	session *domain.Session
}

// ID returns the room code
func (r *Room) ID() string {
	return r.session.ID
}

// Do runs fn with exclusive access to the session
func (r *Room) Do(fn func(s *domain.Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.session)
}

// RoomDirectory manages all live rooms
type RoomDirectory struct {
	rooms  map[string]*Room
	mu     sync.RWMutex
	ids    IDGenerator
	logger *slog.Logger
}

// NewRoomDirectory creates a new room directory
func NewRoomDirectory(ids IDGenerator, logger *slog.Logger) *RoomDirectory {
	return &RoomDirectory{
		rooms:  make(map[string]*Room),
		ids:    ids,
		logger: logger,
	}
}

// Create registers an empty room under a fresh ID. A taken ID is retried with
// a new one rather than reported.
func (d *RoomDirectory) Create(settings domain.Settings) (*Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for attempts := 0; attempts < maxCreateAttempts; attempts++ {
		id, err := d.ids.NewID()
		if err != nil {
			return nil, err
		}
		if _, exists := d.rooms[id]; exists {
			d.logger.Debug("room code collision, retrying", "roomId", id)
			continue
		}

		room := &Room{session: domain.NewSession(id, settings)}
		d.rooms[id] = room
		d.logger.Info("room created", "roomId", id)
		return room, nil
	}

	return nil, ErrNoFreeRoomID
}

// Get returns a room by code
func (d *RoomDirectory) Get(roomID string) (*Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Remove deletes a room; it reports whether the room was present
func (d *RoomDirectory) Remove(roomID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.rooms[roomID]; !ok {
		return false
	}
	delete(d.rooms, roomID)
	d.logger.Info("room removed", "roomId", roomID)
	return true
}

// Count returns the number of live rooms
func (d *RoomDirectory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// Rooms returns a snapshot of the live rooms. Room locks are not held.
func (d *RoomDirectory) Rooms() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rooms := make([]*Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Clear drops every room
func (d *RoomDirectory) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms = make(map[string]*Room)
}
