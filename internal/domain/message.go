package domain

import (
	"encoding/json"
	"time"
)

// MessageInput is what a caller hands to the relay. Type and Payload are
// opaque application data, the store never inspects them.
type MessageInput struct {
	Type    string
	Payload json.RawMessage
}

type Message struct {
	ID        int64
	Type      string
	Payload   json.RawMessage
	CreatedAt time.Time
}
