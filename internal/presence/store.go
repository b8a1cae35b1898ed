package presence

import (
	"sync"
	"time"
)

// ActiveUser is the person whose badge was scanned most recently; the
// projector renders exactly one at a time.
type ActiveUser struct {
	UserID    string
	NfcID     string
	UpdatedAt time.Time
}

type Store struct {
	mu     sync.Mutex
	active *ActiveUser
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Set(userID, nfcID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = &ActiveUser{UserID: userID, NfcID: nfcID, UpdatedAt: time.Now()}
}

// Get returns a copy of the active user, or nil when nobody is scanned in.
func (s *Store) Get() *ActiveUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	u := *s.active
	return &u
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = nil
}
