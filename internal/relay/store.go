package relay

import (
	"sync"
	"time"

	"github.com/hackz-app/relay-service/internal/domain"

	"github.com/google/uuid"
)

// Interop constants: existing clients poll every 1s and heartbeat every 5s,
// these values must not drift from them.
const (
	MaxMessagesPerChannel = 100
	RoomTTL               = 30 * time.Minute
	HeartbeatTimeout      = 15 * time.Second
)

type PollResult struct {
	Messages []domain.Message
	LastID   int64
}

type HeartbeatResult struct {
	PeerConnected bool
	PeerLastSeen  time.Time // zero = never seen
}

type room struct {
	id                string
	createdAt         time.Time
	lastActivity      time.Time
	adminLastSeen     time.Time
	projectorLastSeen time.Time
	channels          map[string][]domain.Message
	nextMessageID     int64
}

// Store is the in-memory rendezvous registry between projector and admin
// devices. Single source of truth, nothing is persisted. One coarse lock:
// every operation is short, CPU-only, and touches at most the rooms map.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*room
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*room),
		now:   time.Now,
	}
}

// SetClock overrides the time source (tests).
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateRoom registers a fresh room and returns its id. Never fails.
func (s *Store) CreateRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := s.now()
	s.rooms[id] = &room{
		id:            id,
		createdAt:     now,
		lastActivity:  now,
		channels:      make(map[string][]domain.Message),
		nextMessageID: 1,
	}
	return id
}

// JoinRoom reports whether the room exists. Pure check, does not touch
// lastActivity — a failed join must not keep a room alive.
func (s *Store) JoinRoom(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rooms[roomID]
	return ok
}

// Send appends a message to the named channel and returns its id.
// Returns 0 when the room does not exist; callers must surface that as an
// error, the message was not delivered.
func (s *Store) Send(roomID, channel string, msg domain.MessageInput) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return 0
	}
	return s.sendLocked(r, channel, msg)
}

// sendLocked assigns the next room-wide message id and appends to the
// channel buffer, trimming the front past the cap. Issued ids are never
// reused, so a trimmed channel keeps strictly increasing ids.
func (s *Store) sendLocked(r *room, channel string, msg domain.MessageInput) int64 {
	now := s.now()
	r.lastActivity = now

	id := r.nextMessageID
	r.nextMessageID++

	ch := append(r.channels[channel], domain.Message{
		ID:        id,
		Type:      msg.Type,
		Payload:   msg.Payload,
		CreatedAt: now,
	})
	if over := len(ch) - MaxMessagesPerChannel; over > 0 {
		ch = ch[over:]
	}
	r.channels[channel] = ch

	return id
}

// Poll returns the channel's retained messages with id > afterID, in
// insertion order. A missing room yields an empty result rather than an
// error: pollers run on timers and must tolerate expiry between ticks.
// LastID echoes afterID when nothing new arrived, so the caller can feed
// each response's LastID straight into the next request.
func (s *Store) Poll(roomID, channel string, afterID int64) PollResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return PollResult{Messages: []domain.Message{}}
	}

	r.lastActivity = s.now()

	ch := r.channels[channel]
	i := 0
	for i < len(ch) && ch[i].ID <= afterID {
		i++
	}
	msgs := make([]domain.Message, len(ch)-i)
	copy(msgs, ch[i:])

	lastID := afterID
	if len(msgs) > 0 {
		lastID = msgs[len(msgs)-1].ID
	}
	return PollResult{Messages: msgs, LastID: lastID}
}

// Broadcast sends the same message to the named channel of every room.
// Callers get no ordering or atomicity guarantee across rooms.
func (s *Store) Broadcast(channel string, msg domain.MessageInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rooms {
		s.sendLocked(r, channel, msg)
	}
}

// SendToSession fans a session-scoped event out to every room on the
// session's private channel. Display clients subscribe to the channel of
// the session they are rendering.
func (s *Store) SendToSession(sessionID string, msg domain.MessageInput) {
	s.Broadcast("session:"+sessionID, msg)
}

// Heartbeat records the caller's presence and reports the peer's.
// Liveness is purely derived: the peer is connected iff its own last
// heartbeat is within HeartbeatTimeout. There is no stored "paired" flag,
// which lets either side restart without a re-handshake.
func (s *Store) Heartbeat(roomID string, role domain.Role) HeartbeatResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return HeartbeatResult{}
	}

	now := s.now()
	r.lastActivity = now

	var peerLastSeen time.Time
	if role == domain.RoleAdmin {
		r.adminLastSeen = now
		peerLastSeen = r.projectorLastSeen
	} else {
		r.projectorLastSeen = now
		peerLastSeen = r.adminLastSeen
	}

	return HeartbeatResult{
		PeerConnected: !peerLastSeen.IsZero() && now.Sub(peerLastSeen) < HeartbeatTimeout,
		PeerLastSeen:  peerLastSeen,
	}
}

// Disconnect handles an explicit goodbye. The two roles are deliberately
// asymmetric: exactly one projector owns a room, but several admin devices
// may take turns on it, so an admin disconnect must not poison liveness
// for the others — admin staleness is only ever inferred from heartbeat
// timeout. A projector disconnect before any admin has paired deletes the
// room outright (the "display closed before anyone scanned" case).
func (s *Store) Disconnect(roomID string, role domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}

	if role == domain.RoleProjector {
		r.projectorLastSeen = time.Time{}
		if r.adminLastSeen.IsZero() {
			delete(s.rooms, roomID)
		}
	}
	return true
}

// Cleanup drops rooms idle past RoomTTL and returns how many were removed.
// Meant to run on a periodic timer, see Janitor.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, r := range s.rooms {
		if now.Sub(r.lastActivity) > RoomTTL {
			delete(s.rooms, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.rooms)
}
