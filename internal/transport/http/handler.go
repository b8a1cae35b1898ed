package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hackz-app/relay-service/internal/domain"
	"github.com/hackz-app/relay-service/internal/presence"
	"github.com/hackz-app/relay-service/internal/service"
	"github.com/hackz-app/relay-service/internal/signal"
	httpmw "github.com/hackz-app/relay-service/internal/transport/http/middleware"
	"github.com/hackz-app/relay-service/pkg/httputil"
)

type Handler struct {
	relaySvc  *service.RelayService
	signalSvc *service.SignalService
	presence  *presence.Store
}

func NewHandler(relaySvc *service.RelayService, signalSvc *service.SignalService, presence *presence.Store) *Handler {
	return &Handler{
		relaySvc:  relaySvc,
		signalSvc: signalSvc,
		presence:  presence,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// --- room.* : the relay RPC surface ---

// POST /rpc/room.create
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	roomID := h.relaySvc.CreateRoom()
	slog.Info("room created", "room", roomID)
	httputil.JSON(w, http.StatusOK, CreateRoomResponse{RoomID: roomID})
}

// POST /rpc/room.join
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoomID == "" {
		httputil.Error(w, http.StatusBadRequest, "roomId is required")
		return
	}

	if err := h.relaySvc.JoinRoom(req.RoomID); err != nil {
		httputil.Error(w, http.StatusNotFound, "room not found")
		return
	}
	httputil.JSON(w, http.StatusOK, OKResponse{OK: true})
}

// POST /rpc/room.send
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoomID == "" || req.Channel == "" || req.Message.Type == "" {
		httputil.Error(w, http.StatusBadRequest, "roomId, channel and message.type are required")
		return
	}

	id, err := h.relaySvc.Send(req.RoomID, req.Channel, domain.MessageInput{
		Type:    req.Message.Type,
		Payload: req.Message.Payload,
	})
	if err != nil {
		// the only send failure is an absent room; the message was not delivered
		httputil.Error(w, http.StatusNotFound, "room not found")
		return
	}
	httputil.JSON(w, http.StatusOK, SendResponse{MessageID: id})
}

// POST /rpc/room.poll
func (h *Handler) Poll(w http.ResponseWriter, r *http.Request) {
	var req PollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoomID == "" || req.Channel == "" {
		httputil.Error(w, http.StatusBadRequest, "roomId and channel are required")
		return
	}

	res := h.relaySvc.Poll(req.RoomID, req.Channel, req.AfterID)

	resp := PollResponse{Messages: make([]MessageItem, 0, len(res.Messages)), LastID: res.LastID}
	for _, m := range res.Messages {
		resp.Messages = append(resp.Messages, MessageItem{
			ID:        m.ID,
			Type:      m.Type,
			Payload:   m.Payload,
			CreatedAt: unixMillis(m.CreatedAt),
		})
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// POST /rpc/room.heartbeat
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req HeartbeatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	role := domain.Role(req.Role)
	if req.RoomID == "" || !role.Valid() {
		httputil.Error(w, http.StatusBadRequest, "roomId and a valid role are required")
		return
	}

	res := h.relaySvc.Heartbeat(req.RoomID, role)
	httputil.JSON(w, http.StatusOK, HeartbeatResponse{
		PeerConnected: res.PeerConnected,
		PeerLastSeen:  unixMillis(res.PeerLastSeen),
	})
}

// POST /rpc/room.disconnect
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	var req DisconnectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	role := domain.Role(req.Role)
	if req.RoomID == "" || !role.Valid() {
		httputil.Error(w, http.StatusBadRequest, "roomId and a valid role are required")
		return
	}

	// benign on absent rooms: the peer may already have expired
	h.relaySvc.Disconnect(req.RoomID, role)
	httputil.JSON(w, http.StatusOK, OKResponse{OK: true})
}

// POST /rpc/room.broadcast
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Channel == "" || req.Message.Type == "" {
		httputil.Error(w, http.StatusBadRequest, "channel and message.type are required")
		return
	}

	h.relaySvc.Broadcast(req.Channel, domain.MessageInput{
		Type:    req.Message.Type,
		Payload: req.Message.Payload,
	})
	httputil.JSON(w, http.StatusOK, OKResponse{OK: true})
}

// POST /rpc/room.sendToSession
func (h *Handler) SendToSession(w http.ResponseWriter, r *http.Request) {
	var req SendToSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" || req.Message.Type == "" {
		httputil.Error(w, http.StatusBadRequest, "sessionId and message.type are required")
		return
	}

	h.relaySvc.SendToSession(req.SessionID, domain.MessageInput{
		Type:    req.Message.Type,
		Payload: req.Message.Payload,
	})
	httputil.JSON(w, http.StatusOK, OKResponse{OK: true})
}

// --- signal.* : 1:1 WebRTC pairing ---

// POST /rpc/signal.create
func (h *Handler) SignalCreate(w http.ResponseWriter, r *http.Request) {
	roomID := h.signalSvc.CreateRoom(httpmw.UserIDFromCtx(r.Context()))
	httputil.JSON(w, http.StatusOK, SignalCreateResponse{RoomID: roomID})
}

// POST /rpc/signal.join
func (h *Handler) SignalJoin(w http.ResponseWriter, r *http.Request) {
	var req SignalJoinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoomID == "" {
		httputil.Error(w, http.StatusBadRequest, "roomId is required")
		return
	}

	switch err := h.signalSvc.Join(req.RoomID); {
	case errors.Is(err, domain.ErrRoomNotFound):
		httputil.Error(w, http.StatusNotFound, "room not found")
	case errors.Is(err, domain.ErrAdminTaken):
		httputil.Error(w, http.StatusConflict, "room already has an admin")
	case err != nil:
		slog.Error("handler.SignalJoin:", slog.Any("err", err))
		httputil.Error(w, http.StatusInternalServerError, err.Error())
	default:
		httputil.JSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}

// POST /rpc/signal.send
func (h *Handler) SignalSend(w http.ResponseWriter, r *http.Request) {
	var req SignalSendRequest
	if !decodeBody(w, r, &req) {
		return
	}
	from := domain.Role(req.From)
	if req.RoomID == "" || !from.Valid() || !validSignalType(req.Type) {
		httputil.Error(w, http.StatusBadRequest, "roomId, from and a valid type are required")
		return
	}

	if err := h.signalSvc.Send(req.RoomID, from, req.Type, req.Payload); err != nil {
		httputil.Error(w, http.StatusNotFound, "room not found")
		return
	}
	httputil.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// POST /rpc/signal.close
func (h *Handler) SignalClose(w http.ResponseWriter, r *http.Request) {
	var req SignalCloseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoomID == "" {
		httputil.Error(w, http.StatusBadRequest, "roomId is required")
		return
	}

	if err := h.signalSvc.Close(req.RoomID); err != nil {
		httputil.Error(w, http.StatusNotFound, "room not found")
		return
	}
	httputil.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func validSignalType(t string) bool {
	switch t {
	case signal.EventOffer, signal.EventAnswer, signal.EventICECandidate:
		return true
	}
	return false
}

// --- presence.* : active scanned user on the projector ---

// GET /rpc/presence.get
func (h *Handler) PresenceGet(w http.ResponseWriter, r *http.Request) {
	u := h.presence.Get()
	if u == nil {
		httputil.JSON(w, http.StatusOK, ActiveUserResponse{User: nil})
		return
	}
	httputil.JSON(w, http.StatusOK, ActiveUserResponse{User: &ActiveUserItem{
		UserID:    u.UserID,
		NfcID:     u.NfcID,
		UpdatedAt: unixMillis(u.UpdatedAt),
	}})
}

// POST /rpc/presence.set
func (h *Handler) PresenceSet(w http.ResponseWriter, r *http.Request) {
	var req SetActiveUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.NfcID == "" {
		httputil.Error(w, http.StatusBadRequest, "userId and nfcId are required")
		return
	}

	h.presence.Set(req.UserID, req.NfcID)
	httputil.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// POST /rpc/presence.clear
func (h *Handler) PresenceClear(w http.ResponseWriter, r *http.Request) {
	h.presence.Clear()
	httputil.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}
