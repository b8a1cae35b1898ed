package service

import (
	"strings"

	"github.com/hackz-app/relay-service/internal/domain"
	"github.com/hackz-app/relay-service/internal/metrics"
	"github.com/hackz-app/relay-service/internal/relay"
)

// RelayService fronts the room store for the RPC layer: it translates the
// store's sentinel returns into domain errors and feeds business metrics.
// The store itself never errors for a missing room.
type RelayService struct {
	store *relay.Store
}

func NewRelayService(store *relay.Store) *RelayService {
	return &RelayService{store: store}
}

func (s *RelayService) CreateRoom() string {
	id := s.store.CreateRoom()
	metrics.RoomsCreated.Inc()
	metrics.RoomsAlive.Set(float64(s.store.Len()))
	return id
}

func (s *RelayService) JoinRoom(roomID string) error {
	if !s.store.JoinRoom(roomID) {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (s *RelayService) Send(roomID, channel string, msg domain.MessageInput) (int64, error) {
	id := s.store.Send(roomID, channel, msg)
	if id == 0 {
		return 0, domain.ErrRoomNotFound
	}
	metrics.MessagesSent.WithLabelValues(channelClass(channel)).Inc()
	return id, nil
}

func (s *RelayService) Poll(roomID, channel string, afterID int64) relay.PollResult {
	metrics.Polls.Inc()
	return s.store.Poll(roomID, channel, afterID)
}

func (s *RelayService) Broadcast(channel string, msg domain.MessageInput) {
	s.store.Broadcast(channel, msg)
	metrics.Broadcasts.Inc()
}

func (s *RelayService) SendToSession(sessionID string, msg domain.MessageInput) {
	s.store.SendToSession(sessionID, msg)
	metrics.Broadcasts.Inc()
}

func (s *RelayService) Heartbeat(roomID string, role domain.Role) relay.HeartbeatResult {
	metrics.Heartbeats.WithLabelValues(string(role)).Inc()
	return s.store.Heartbeat(roomID, role)
}

func (s *RelayService) Disconnect(roomID string, role domain.Role) bool {
	ok := s.store.Disconnect(roomID, role)
	metrics.RoomsAlive.Set(float64(s.store.Len()))
	return ok
}

// channelClass collapses free-form channel names into a low-cardinality
// metric label.
func channelClass(channel string) string {
	switch {
	case channel == "upstream" || channel == "downstream" || channel == "projector":
		return channel
	case strings.HasPrefix(channel, "session:"):
		return "session"
	default:
		return "other"
	}
}
