package http

import "encoding/json"

type ErrorResponse struct {
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// --- room.* ---

type MessageBody struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type SendRequest struct {
	RoomID  string      `json:"roomId"`
	Channel string      `json:"channel"`
	Message MessageBody `json:"message"`
}

type SendResponse struct {
	MessageID int64 `json:"messageId"`
}

type PollRequest struct {
	RoomID  string `json:"roomId"`
	Channel string `json:"channel"`
	AfterID int64  `json:"afterId"`
}

type MessageItem struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"createdAt"` // unix ms
}

type PollResponse struct {
	Messages []MessageItem `json:"messages"`
	LastID   int64         `json:"lastId"`
}

type HeartbeatRequest struct {
	RoomID string `json:"roomId"`
	Role   string `json:"role"`
}

type HeartbeatResponse struct {
	PeerConnected bool  `json:"peerConnected"`
	PeerLastSeen  int64 `json:"peerLastSeen"` // unix ms, 0 = never seen
}

type DisconnectRequest struct {
	RoomID string `json:"roomId"`
	Role   string `json:"role"`
}

type BroadcastRequest struct {
	Channel string      `json:"channel"`
	Message MessageBody `json:"message"`
}

type SendToSessionRequest struct {
	SessionID string      `json:"sessionId"`
	Message   MessageBody `json:"message"`
}

// --- signal.* ---

type SignalCreateResponse struct {
	RoomID string `json:"roomId"`
}

type SignalJoinRequest struct {
	RoomID string `json:"roomId"`
}

type SignalSendRequest struct {
	RoomID  string `json:"roomId"`
	Type    string `json:"type"` // offer | answer | ice-candidate
	Payload string `json:"payload"`
	From    string `json:"from"` // projector | admin
}

type SignalCloseRequest struct {
	RoomID string `json:"roomId"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// --- presence.* ---

type ActiveUserItem struct {
	UserID    string `json:"userId"`
	NfcID     string `json:"nfcId"`
	UpdatedAt int64  `json:"updatedAt"` // unix ms
}

type ActiveUserResponse struct {
	User *ActiveUserItem `json:"user"`
}

type SetActiveUserRequest struct {
	UserID string `json:"userId"`
	NfcID  string `json:"nfcId"`
}
