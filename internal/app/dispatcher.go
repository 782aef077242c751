package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"wordduel/internal/domain"
)

// ClientConnection represents a connected participant
type ClientConnection interface {
	Send(n domain.Notification) error
	GetID() string
	Close() error
}

// Stats summarises the dispatcher's live state
type Stats struct {
	ActiveRooms      int `json:"activeRooms"`
	BoundConnections int `json:"boundConnections"`
	Clients          int `json:"clients"`
}

// RoomInfo is a read-only view of a room for lookups
type RoomInfo struct {
	RoomID           string       `json:"roomId"`
	ParticipantCount int          `json:"participantCount"`
	Phase            domain.Phase `json:"phase"`
	CanJoin          bool         `json:"canJoin"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// Dispatcher routes inbound actions to the right session and delivers the
// resulting notifications. It holds no game rules of its own.
type Dispatcher struct {
	directory   *RoomDirectory
	registry    *ConnectionRegistry
	settings    domain.Settings
	idleTimeout time.Duration
	logger      *slog.Logger

	clients   map[string]ClientConnection
	clientsMu sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher. idleTimeout <= 0 disables the reaper.
func NewDispatcher(directory *RoomDirectory, registry *ConnectionRegistry, settings domain.Settings, idleTimeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		directory:   directory,
		registry:    registry,
		settings:    settings,
		idleTimeout: idleTimeout,
		logger:      logger,
		clients:     make(map[string]ClientConnection),
		done:        make(chan struct{}),
	}
}

// Connect registers a client connection and greets it with its participant ID.
// Once the dispatcher is closed the connection is closed instead.
func (d *Dispatcher) Connect(client ClientConnection) {
	d.clientsMu.Lock()
	if d.isClosed() {
		d.clientsMu.Unlock()
		client.Close()
		return
	}
	d.clients[client.GetID()] = client
	d.clientsMu.Unlock()

	d.send(client.GetID(), domain.Connected{ParticipantID: client.GetID()})
}

// Dispatch processes one action from connID. Failures are reported to connID
// only, as an action_rejected notification. Actions arriving after ctx is done
// are dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, connID string, action domain.Action) {
	if ctx.Err() != nil {
		return
	}

	err := action.Apply(&actionRouter{d: d, connID: connID})
	if err == nil {
		return
	}

	rejection := domain.NewRejection(err)
	if rejection.Code == domain.KindInternal {
		d.logger.Error("action failed", "action", action.Name(), "connId", connID, "error", err)
	} else {
		d.logger.Debug("action rejected", "action", action.Name(), "connId", connID, "code", rejection.Code)
	}
	d.send(connID, rejection)
}

// Disconnect tears down connID's room, if any, and forgets the client
func (d *Dispatcher) Disconnect(connID string) {
	d.Dispatch(context.Background(), connID, domain.Disconnect{})

	d.clientsMu.Lock()
	delete(d.clients, connID)
	d.clientsMu.Unlock()
}

// Reject sends an action_rejected notification produced outside the dispatcher,
// e.g. by the transport's message decoder
func (d *Dispatcher) Reject(connID string, kind domain.ErrorKind, message string) {
	d.send(connID, domain.ActionRejected{Code: kind, Message: message})
}

// RoomInfo returns a snapshot of a room
func (d *Dispatcher) RoomInfo(roomID string) (RoomInfo, error) {
	room, err := d.directory.Get(normalizeRoomID(roomID))
	if err != nil {
		return RoomInfo{}, err
	}

	var info RoomInfo
	room.Do(func(s *domain.Session) {
		info = RoomInfo{
			RoomID:           s.ID,
			ParticipantCount: s.ParticipantCount(),
			Phase:            s.Phase(),
			CanJoin:          s.CanJoin(),
			CreatedAt:        s.CreatedAt,
		}
	})
	return info, nil
}

// Stats returns counts of rooms and connections
func (d *Dispatcher) Stats() Stats {
	d.clientsMu.RLock()
	clients := len(d.clients)
	d.clientsMu.RUnlock()

	return Stats{
		ActiveRooms:      d.directory.Count(),
		BoundConnections: d.registry.Count(),
		Clients:          clients,
	}
}

// Run reaps idle rooms until ctx is cancelled or the dispatcher is closed
func (d *Dispatcher) Run(ctx context.Context) {
	if d.idleTimeout <= 0 {
		return
	}

	interval := d.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case now := <-ticker.C:
			if n := d.ReapIdle(now); n > 0 {
				d.logger.Info("idle rooms reaped", "count", n)
			}
		}
	}
}

// ReapIdle closes every unfinished room that has not accepted an action since
// now minus the idle timeout. It returns the number of rooms closed.
func (d *Dispatcher) ReapIdle(now time.Time) int {
	if d.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-d.idleTimeout)

	reaped := 0
	for _, room := range d.directory.Rooms() {
		room.Do(func(s *domain.Session) {
			if s.IsFinished() || !s.LastActive().Before(cutoff) {
				return
			}
			d.deliver(s.Close("idle"))
			d.teardown(s)
			reaped++
		})
	}
	return reaped
}

// Close shuts down the dispatcher and all client connections
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})

	d.clientsMu.Lock()
	for _, client := range d.clients {
		client.Close()
	}
	d.clients = make(map[string]ClientConnection)
	d.clientsMu.Unlock()

	d.directory.Clear()
	d.registry.Clear()
}

func (d *Dispatcher) isClosed() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// withRoom runs op against the caller's room while holding the room lock,
// delivers what it produced and tears the room down once the game is over
func (d *Dispatcher) withRoom(connID string, op func(s *domain.Session) ([]domain.Envelope, error)) error {
	roomID, ok := d.registry.Lookup(connID)
	if !ok {
		return domain.ErrRoomNotFound
	}

	room, err := d.directory.Get(roomID)
	if err != nil {
		d.registry.UnbindFrom(connID, roomID)
		return err
	}

	room.Do(func(s *domain.Session) {
		var out []domain.Envelope
		out, err = op(s)
		if err != nil {
			return
		}
		d.deliver(out)
		if s.IsFinished() {
			d.teardown(s)
		}
	})
	return err
}

// teardown removes a finished session from the directory and frees its
// participants' connections. The caller holds the room lock.
func (d *Dispatcher) teardown(s *domain.Session) {
	d.directory.Remove(s.ID)
	for _, pid := range s.ParticipantIDs() {
		d.registry.UnbindFrom(pid, s.ID)
	}

	d.logger.Info("room closed",
		"roomId", s.ID,
		"winner", s.Winner(),
		"abandoned", s.Abandoned(),
	)
}

// deliver sends each envelope to its addressee, in order
func (d *Dispatcher) deliver(out []domain.Envelope) {
	for _, e := range out {
		d.send(e.To, e.Notification)
	}
}

// send delivers one notification to a connection if it is still registered
func (d *Dispatcher) send(connID string, n domain.Notification) {
	d.clientsMu.RLock()
	client, ok := d.clients[connID]
	d.clientsMu.RUnlock()

	if !ok {
		return
	}
	if err := client.Send(n); err != nil {
		d.logger.Debug("failed to send to client", "connId", connID, "error", err)
	}
}

func normalizeRoomID(roomID string) string {
	return strings.ToUpper(strings.TrimSpace(roomID))
}

// actionRouter applies one action on behalf of one connection
type actionRouter struct {
	d      *Dispatcher
	connID string
}

func (r *actionRouter) HandleCreateRoom(domain.CreateRoom) error {
	if _, ok := r.d.registry.Lookup(r.connID); ok {
		return domain.ErrAlreadyInRoom
	}

	room, err := r.d.directory.Create(r.d.settings)
	if err != nil {
		return err
	}

	room.Do(func(s *domain.Session) {
		if err = r.d.registry.Bind(r.connID, s.ID); err != nil {
			r.d.directory.Remove(s.ID)
			return
		}

		var out []domain.Envelope
		if out, err = s.Open(r.connID); err != nil {
			r.d.registry.Unbind(r.connID)
			r.d.directory.Remove(s.ID)
			return
		}
		r.d.deliver(out)
	})
	return err
}

func (r *actionRouter) HandleJoinRoom(a domain.JoinRoom) error {
	if _, ok := r.d.registry.Lookup(r.connID); ok {
		return domain.ErrAlreadyInRoom
	}

	room, err := r.d.directory.Get(normalizeRoomID(a.RoomID))
	if err != nil {
		return err
	}

	room.Do(func(s *domain.Session) {
		// the room may have been torn down between Get and Do
		if s.IsFinished() {
			err = domain.ErrRoomNotFound
			return
		}
		if err = r.d.registry.Bind(r.connID, s.ID); err != nil {
			return
		}

		var out []domain.Envelope
		if out, err = s.Join(r.connID); err != nil {
			r.d.registry.Unbind(r.connID)
			return
		}
		r.d.deliver(out)
		r.d.logger.Info("participant joined", "roomId", s.ID, "connId", r.connID)
	})
	return err
}

func (r *actionRouter) HandleCommitWord(a domain.CommitWord) error {
	return r.d.withRoom(r.connID, func(s *domain.Session) ([]domain.Envelope, error) {
		return s.CommitWord(r.connID, a.Word)
	})
}

func (r *actionRouter) HandleGuess(a domain.Guess) error {
	return r.d.withRoom(r.connID, func(s *domain.Session) ([]domain.Envelope, error) {
		return s.Guess(r.connID, a.Word)
	})
}

func (r *actionRouter) HandleSubmitFeedback(a domain.SubmitFeedback) error {
	return r.d.withRoom(r.connID, func(s *domain.Session) ([]domain.Envelope, error) {
		return s.SubmitFeedback(r.connID, a.Marks)
	})
}

func (r *actionRouter) HandleDisconnect(domain.Disconnect) error {
	roomID, ok := r.d.registry.Lookup(r.connID)
	r.d.registry.Unbind(r.connID)
	if !ok {
		return nil
	}

	room, err := r.d.directory.Get(roomID)
	if err != nil {
		return nil
	}

	room.Do(func(s *domain.Session) {
		if s.IsFinished() {
			return
		}
		r.d.deliver(s.Leave(r.connID))
		r.d.teardown(s)
	})
	return nil
}
