package signal

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Room is a short-lived WebRTC pairing slot. Unlike relay rooms these are
// strictly 1:1 — a second admin trying to join is rejected.
type Room struct {
	RoomID         string
	CreatedBy      string
	AdminConnected bool
	CreatedAt      time.Time
}

type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// newRoomID returns 8 hex chars, short enough to retype by hand.
func newRoomID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func (g *Registry) Create(createdBy string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := &Room{
		RoomID:    newRoomID(),
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	g.rooms[r.RoomID] = r
	return r
}

func (g *Registry) Get(roomID string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	return r, ok
}

// MarkAdminConnected claims the admin seat. False when the room is missing
// or the seat is already taken.
func (g *Registry) MarkAdminConnected(roomID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[roomID]
	if !ok || r.AdminConnected {
		return false
	}
	r.AdminConnected = true
	return true
}

func (g *Registry) Delete(roomID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rooms[roomID]; !ok {
		return false
	}
	delete(g.rooms, roomID)
	return true
}
