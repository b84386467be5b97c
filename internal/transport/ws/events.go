package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeIdentify    = "identify"
	EventTypeRoomJoin    = "room.join"
	EventTypeMessageSend = "message.send"
	EventTypeTyping      = "typing"
	EventTypeMarkRead    = "read.mark"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeMessageNew     = "message.new"
	EventTypeMessageEdited  = "message.edited"
	EventTypeMessageDeleted = "message.deleted"
	EventTypeUserTyping     = "user.typing"
	EventTypeMessagesRead   = "messages.read"
	EventTypePong           = "pong"
	EventTypeError          = "error"
)

// Event is the base envelope for all WebSocket messages. Room carries the
// canonical pair ID the payload relates to, when there is one.
type Event struct {
	Type      string          `json:"type"`
	Room      string          `json:"room,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type IdentifyPayload struct {
	Handle string `json:"handle"`
}

type RoomJoinPayload struct {
	Room string `json:"room"`
}

type MessageSendPayload struct {
	SenderHandle   string     `json:"sender_handle"`
	ReceiverHandle string     `json:"receiver_handle"`
	Content        string     `json:"content"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

type TypingPayload struct {
	ReceiverHandle string `json:"receiver_handle"`
	IsTyping       bool   `json:"is_typing"`
}

type MarkReadPayload struct {
	SenderHandle   string `json:"sender_handle"`
	ReceiverHandle string `json:"receiver_handle"`
}

// --- Server → Client payloads ---

type MessagePayload struct {
	domain.Message
}

type MessageDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type MessageRelayPayload struct {
	SenderHandle   string    `json:"sender_handle"`
	ReceiverHandle string    `json:"receiver_handle"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

type UserTypingPayload struct {
	SenderHandle string `json:"sender_handle"`
	IsTyping     bool   `json:"is_typing"`
}

type MessagesReadPayload struct {
	SenderHandle   string    `json:"sender_handle"`
	ReceiverHandle string    `json:"receiver_handle"`
	ReadAt         time.Time `json:"read_at"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType, room string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Room:      room,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
