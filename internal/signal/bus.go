package signal

import (
	"sync"

	"github.com/hackz-app/relay-service/internal/domain"
)

// Signaling event types carried between the two sides of a pairing room.
const (
	EventJoined       = "joined"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventClosed       = "closed"
)

type Event struct {
	Type    string `json:"type"`
	Payload string `json:"payload,omitempty"` // SDP / candidate blob, opaque
}

// Bus routes signaling events to live subscribers of one side of a room.
// Delivery is best-effort: a subscriber that stopped draining its channel
// loses events rather than blocking the sender.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{} // roomID+"/"+role -> set of subscribers
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan Event]struct{})}
}

func key(roomID string, role domain.Role) string {
	return roomID + "/" + string(role)
}

func (b *Bus) Subscribe(roomID string, role domain.Role) chan Event {
	ch := make(chan Event, 16)

	b.mu.Lock()
	defer b.mu.Unlock()

	k := key(roomID, role)
	set, ok := b.subs[k]
	if !ok {
		set = make(map[chan Event]struct{})
		b.subs[k] = set
	}
	set[ch] = struct{}{}
	return ch
}

func (b *Bus) Unsubscribe(roomID string, role domain.Role, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := key(roomID, role)
	if set, ok := b.subs[k]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(b.subs, k)
		}
	}
}

// Subscribers reports how many channels listen on one side of a room.
func (b *Bus) Subscribers(roomID string, role domain.Role) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[key(roomID, role)])
}

// Emit delivers ev to every subscriber on the given side of the room.
func (b *Bus) Emit(roomID string, to domain.Role, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[key(roomID, to)] {
		select {
		case ch <- ev:
		default:
		}
	}
}
