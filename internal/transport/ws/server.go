package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hackz-app/relay-service/internal/domain"
	"github.com/hackz-app/relay-service/internal/signal"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type SignalSvc interface {
	Exists(roomID string) bool
	Subscribe(roomID string, role domain.Role) chan signal.Event
	Unsubscribe(roomID string, role domain.Role, ch chan signal.Event)
}

// Server pushes pairing signal events to a subscribed device. This is the
// one path that keeps a persistent connection: WebRTC negotiation needs
// sub-second turnaround, which the 1s poll loop cannot give.
type Server struct {
	upgrader  websocket.Upgrader
	signalSvc SignalSvc

	pingEvery time.Duration
}

func NewServer(signalSvc SignalSvc) *Server {
	return &Server{
		signalSvc: signalSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws/signal/{roomID}?role=...&access_token=...
func (s *Server) HandleSignal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("access_token")) == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	role := domain.Role(q.Get("role"))
	if !role.Valid() {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}
	roomID := chi.URLParam(r, "roomID")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}
	if !s.signalSvc.Exists(roomID) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	events := s.signalSvc.Subscribe(roomID, role)
	defer s.signalSvc.Unsubscribe(roomID, role, events)

	closed := make(chan struct{})
	go s.readLoop(conn, closed)
	s.writeLoop(conn, events, closed)

	if err := conn.Close(); err != nil {
		slog.Debug("ws close failed", "room", roomID, "role", role, "err", err)
	}
}

// readLoop only drains control frames; clients never send data here.
func (s *Server) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, events <-chan signal.Event, closed <-chan struct{}) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
			// a closed room ends the subscription
			if ev.Type == signal.EventClosed {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
