package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// ValidMessageType reports whether t is one of the known message types.
func ValidMessageType(t MessageType) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile:
		return true
	}
	return false
}

// Message is one entry in a conversation's log. Content holds the working
// copy served to clients; ContentEncrypted holds the at-rest form
// (ivHex:cipherHex). Sender and receiver are always the conversation's two
// participants.
type Message struct {
	ID               uuid.UUID   `json:"id"`
	ConversationID   string      `json:"conversation_id"`
	SenderHandle     string      `json:"sender_handle"`
	ReceiverHandle   string      `json:"receiver_handle"`
	Content          string      `json:"content"`
	ContentEncrypted string      `json:"-"`
	Type             MessageType `json:"type"`
	IsRead           bool        `json:"is_read"`
	ReadAt           *time.Time  `json:"read_at,omitempty"`
	IsEdited         bool        `json:"is_edited"`
	EditedAt         *time.Time  `json:"edited_at,omitempty"`
	IsDeleted        bool        `json:"-"`
	DeletedAt        *time.Time  `json:"-"`
	CreatedAt        time.Time   `json:"created_at"`
}
