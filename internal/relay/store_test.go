package relay

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hackz-app/relay-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unknownRoom = "00000000-0000-0000-0000-000000000000"

func msg(typ string) domain.MessageInput {
	return domain.MessageInput{Type: typ, Payload: json.RawMessage(`{}`)}
}

func TestCreateRoomReturnsUUID(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	_, err := uuid.Parse(roomID)
	require.NoError(t, err)
	assert.True(t, s.JoinRoom(roomID))
}

func TestJoinRoomUnknown(t *testing.T) {
	s := NewStore()
	assert.False(t, s.JoinRoom(unknownRoom))
}

func TestSendAndPoll(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	id := s.Send(roomID, "upstream", domain.MessageInput{
		Type:    "NFC_SCANNED",
		Payload: json.RawMessage(`{"nfcId":"abc"}`),
	})
	require.Equal(t, int64(1), id)

	res := s.Poll(roomID, "upstream", 0)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "NFC_SCANNED", res.Messages[0].Type)
	assert.Equal(t, int64(1), res.LastID)
}

func TestSendUnknownRoomReturnsZero(t *testing.T) {
	s := NewStore()
	assert.Equal(t, int64(0), s.Send(unknownRoom, "upstream", msg("x")))
}

func TestPollUnknownRoomIsBenign(t *testing.T) {
	s := NewStore()
	res := s.Poll(unknownRoom, "upstream", 0)
	assert.Empty(t, res.Messages)
	assert.Equal(t, int64(0), res.LastID)
}

func TestPollAfterIDCursor(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	s.Send(roomID, "upstream", msg("A"))
	s.Send(roomID, "upstream", msg("B"))

	res := s.Poll(roomID, "upstream", 1)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "B", res.Messages[0].Type)
	assert.Equal(t, int64(2), res.LastID)

	// nothing new: lastId echoes the cursor
	res = s.Poll(roomID, "upstream", 2)
	assert.Empty(t, res.Messages)
	assert.Equal(t, int64(2), res.LastID)
}

func TestMessageIDsMonotonicAcrossChannels(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	channels := []string{"upstream", "downstream", "projector"}
	var ids []int64
	for i := 0; i < 30; i++ {
		ids = append(ids, s.Send(roomID, channels[i%3], msg(fmt.Sprintf("m%d", i))))
	}

	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestChannelCapDropsOldest(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	for i := 0; i < 110; i++ {
		s.Send(roomID, "upstream", msg("msg"))
	}

	res := s.Poll(roomID, "upstream", 0)
	require.Len(t, res.Messages, MaxMessagesPerChannel)
	assert.Equal(t, int64(11), res.Messages[0].ID)
	assert.Equal(t, int64(110), res.Messages[len(res.Messages)-1].ID)
	assert.Equal(t, int64(110), res.LastID)

	// ids keep increasing past the trim
	assert.Equal(t, int64(111), s.Send(roomID, "upstream", msg("msg")))
}

func TestPollCursorWithinRetainedWindow(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	for i := 0; i < 110; i++ {
		s.Send(roomID, "upstream", msg("msg"))
	}

	// a poller behind the retained window gets everything still held
	res := s.Poll(roomID, "upstream", 5)
	require.Len(t, res.Messages, 100)
	assert.Equal(t, int64(11), res.Messages[0].ID)

	res = s.Poll(roomID, "upstream", 100)
	require.Len(t, res.Messages, 10)
	assert.Equal(t, int64(101), res.Messages[0].ID)
}

func TestBroadcastReachesEveryRoom(t *testing.T) {
	s := NewStore()
	r1 := s.CreateRoom()
	r2 := s.CreateRoom()

	s.Broadcast("projector", domain.MessageInput{
		Type:    "gacha:result",
		Payload: json.RawMessage(`{"costumeId":"x"}`),
	})

	for _, roomID := range []string{r1, r2} {
		res := s.Poll(roomID, "projector", 0)
		require.Len(t, res.Messages, 1)
		assert.Equal(t, "gacha:result", res.Messages[0].Type)
	}
}

func TestSendToSessionUsesSessionChannel(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	s.SendToSession("sess-1", msg("progress"))

	res := s.Poll(roomID, "session:sess-1", 0)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "progress", res.Messages[0].Type)
}

func TestHeartbeatLivenessInference(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	res := s.Heartbeat(roomID, domain.RoleAdmin)
	assert.False(t, res.PeerConnected)
	assert.True(t, res.PeerLastSeen.IsZero())

	s.Heartbeat(roomID, domain.RoleProjector)
	res = s.Heartbeat(roomID, domain.RoleAdmin)
	assert.True(t, res.PeerConnected)
	assert.False(t, res.PeerLastSeen.IsZero())
}

func TestHeartbeatTimesOut(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.SetClock(func() time.Time { return now })
	roomID := s.CreateRoom()

	s.Heartbeat(roomID, domain.RoleProjector)

	now = now.Add(HeartbeatTimeout - time.Second)
	assert.True(t, s.Heartbeat(roomID, domain.RoleAdmin).PeerConnected)

	now = now.Add(2 * time.Second)
	assert.False(t, s.Heartbeat(roomID, domain.RoleAdmin).PeerConnected)
}

func TestHeartbeatUnknownRoom(t *testing.T) {
	s := NewStore()
	res := s.Heartbeat(unknownRoom, domain.RoleAdmin)
	assert.False(t, res.PeerConnected)
	assert.True(t, res.PeerLastSeen.IsZero())
}

func TestDisconnectAsymmetry(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()
	s.Heartbeat(roomID, domain.RoleAdmin)
	s.Heartbeat(roomID, domain.RoleProjector)

	// admin disconnect leaves room state alone, other admins may follow
	assert.True(t, s.Disconnect(roomID, domain.RoleAdmin))
	assert.True(t, s.Heartbeat(roomID, domain.RoleProjector).PeerConnected)

	// projector disconnect drops projector liveness
	assert.True(t, s.Disconnect(roomID, domain.RoleProjector))
	assert.False(t, s.Heartbeat(roomID, domain.RoleAdmin).PeerConnected)
	assert.True(t, s.JoinRoom(roomID))
}

func TestProjectorDisconnectBeforePairingDeletesRoom(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()
	s.Heartbeat(roomID, domain.RoleProjector)

	assert.True(t, s.Disconnect(roomID, domain.RoleProjector))
	assert.False(t, s.JoinRoom(roomID))
}

func TestDisconnectUnknownRoom(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Disconnect(unknownRoom, domain.RoleProjector))
}

func TestCleanupRemovesExpiredRooms(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.SetClock(func() time.Time { return now })

	stale := s.CreateRoom()
	now = now.Add(31 * time.Minute)
	fresh := s.CreateRoom()

	assert.Equal(t, 1, s.Cleanup())
	assert.False(t, s.JoinRoom(stale))
	assert.True(t, s.JoinRoom(fresh))
}

func TestCleanupKeepsRecentlyPolledRooms(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.SetClock(func() time.Time { return now })

	roomID := s.CreateRoom()
	now = now.Add(29 * time.Minute)
	s.Poll(roomID, "upstream", 0) // refreshes lastActivity
	now = now.Add(29 * time.Minute)

	assert.Equal(t, 0, s.Cleanup())
	assert.True(t, s.JoinRoom(roomID))
}

func TestConcurrentSendsKeepIDsUnique(t *testing.T) {
	s := NewStore()
	roomID := s.CreateRoom()

	const (
		workers = 8
		perW    = 50
	)
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{})
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ch := "upstream"
			if w%2 == 1 {
				ch = "downstream"
			}
			for i := 0; i < perW; i++ {
				id := s.Send(roomID, ch, msg("m"))
				mu.Lock()
				ids[id] = struct{}{}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	require.Len(t, ids, workers*perW)
	for id := range ids {
		assert.GreaterOrEqual(t, id, int64(1))
		assert.LessOrEqual(t, id, int64(workers*perW))
	}
}
