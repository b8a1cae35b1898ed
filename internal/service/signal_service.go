package service

import (
	"github.com/hackz-app/relay-service/internal/domain"
	"github.com/hackz-app/relay-service/internal/metrics"
	"github.com/hackz-app/relay-service/internal/signal"
)

// SignalService coordinates the 1:1 WebRTC pairing flow: short-id rooms in
// the registry, events fanned out through the bus to whichever side is
// subscribed.
type SignalService struct {
	registry *signal.Registry
	bus      *signal.Bus
}

func NewSignalService(registry *signal.Registry, bus *signal.Bus) *SignalService {
	return &SignalService{registry: registry, bus: bus}
}

func (s *SignalService) CreateRoom(createdBy string) string {
	r := s.registry.Create(createdBy)
	return r.RoomID
}

// Join claims the admin seat and tells the projector someone arrived.
func (s *SignalService) Join(roomID string) error {
	if _, ok := s.registry.Get(roomID); !ok {
		return domain.ErrRoomNotFound
	}
	if !s.registry.MarkAdminConnected(roomID) {
		return domain.ErrAdminTaken
	}
	s.bus.Emit(roomID, domain.RoleProjector, signal.Event{Type: signal.EventJoined})
	return nil
}

// Send relays an SDP offer/answer or ICE candidate to the opposite side.
func (s *SignalService) Send(roomID string, from domain.Role, typ, payload string) error {
	if _, ok := s.registry.Get(roomID); !ok {
		return domain.ErrRoomNotFound
	}
	s.bus.Emit(roomID, from.Peer(), signal.Event{Type: typ, Payload: payload})
	metrics.SignalsRelayed.WithLabelValues(typ).Inc()
	return nil
}

// Close tears the pairing room down and notifies the admin side.
func (s *SignalService) Close(roomID string) error {
	if _, ok := s.registry.Get(roomID); !ok {
		return domain.ErrRoomNotFound
	}
	s.bus.Emit(roomID, domain.RoleAdmin, signal.Event{Type: signal.EventClosed})
	s.registry.Delete(roomID)
	return nil
}

func (s *SignalService) Exists(roomID string) bool {
	_, ok := s.registry.Get(roomID)
	return ok
}

func (s *SignalService) Subscribe(roomID string, role domain.Role) chan signal.Event {
	return s.bus.Subscribe(roomID, role)
}

func (s *SignalService) Unsubscribe(roomID string, role domain.Role, ch chan signal.Event) {
	s.bus.Unsubscribe(roomID, role, ch)
}

// Subscribers reports live listeners on one side of a room.
func (s *SignalService) Subscribers(roomID string, role domain.Role) int {
	return s.bus.Subscribers(roomID, role)
}
