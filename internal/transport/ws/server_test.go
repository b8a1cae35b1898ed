package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hackz-app/relay-service/internal/domain"
	"github.com/hackz-app/relay-service/internal/service"
	"github.com/hackz-app/relay-service/internal/signal"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignalTest(t *testing.T) (*service.SignalService, *httptest.Server) {
	t.Helper()

	svc := service.NewSignalService(signal.NewRegistry(), signal.NewBus())

	r := chi.NewRouter()
	r.Get("/ws/signal/{roomID}", NewServer(svc).HandleSignal)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return svc, srv
}

func wsURL(srv *httptest.Server, roomID, role string) string {
	return strings.Replace(srv.URL, "http", "ws", 1) +
		"/ws/signal/" + roomID + "?role=" + role + "&access_token=test"
}

func TestSignalSubscriptionReceivesEvents(t *testing.T) {
	svc, srv := newSignalTest(t)
	roomID := svc.CreateRoom("user-1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, roomID, "projector"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// wait for the server side to register the subscription
	require.Eventually(t, func() bool {
		return svc.Subscribers(roomID, domain.RoleProjector) == 1
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, svc.Join(roomID))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev signal.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, signal.EventJoined, ev.Type)
}

func TestSignalSubscriptionEndsOnClose(t *testing.T) {
	svc, srv := newSignalTest(t)
	roomID := svc.CreateRoom("user-1")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, roomID, "admin"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return svc.Subscribers(roomID, domain.RoleAdmin) == 1
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, svc.Close(roomID))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev signal.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, signal.EventClosed, ev.Type)

	// the server hangs up after the closed event
	_, _, readErr := conn.ReadMessage()
	assert.Error(t, readErr)
}

func TestHandleSignalRejectsBadRequests(t *testing.T) {
	svc, srv := newSignalTest(t)
	roomID := svc.CreateRoom("user-1")

	cases := []struct {
		name string
		url  string
		want int
	}{
		{"missing token", srv.URL + "/ws/signal/" + roomID + "?role=admin", http.StatusUnauthorized},
		{"bad role", srv.URL + "/ws/signal/" + roomID + "?role=spectator&access_token=t", http.StatusBadRequest},
		{"unknown room", srv.URL + "/ws/signal/deadbeef?role=admin&access_token=t", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(tc.url)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
