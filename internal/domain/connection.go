package domain

import (
	"time"

	"github.com/google/uuid"
)

const RequestStatusPending = "pending"

// ConnectionRequest is a pending friendship offer from one handle to
// another. Accepting it creates the mutual connection and removes the
// request.
type ConnectionRequest struct {
	ID             uuid.UUID `json:"id"`
	SenderHandle   string    `json:"sender_handle"`
	ReceiverHandle string    `json:"receiver_handle"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	// Joined fields
	SenderUsername      string `json:"sender_username,omitempty"`
	SenderDisplayName   string `json:"sender_display_name,omitempty"`
	ReceiverUsername    string `json:"receiver_username,omitempty"`
	ReceiverDisplayName string `json:"receiver_display_name,omitempty"`
}

// Connection is one directed edge of the friendship graph. The accept
// transition always writes both directions, so the stored graph is
// symmetric; readers still check both edges independently.
type Connection struct {
	OwnerHandle  string    `json:"owner_handle"`
	FriendHandle string    `json:"friend_handle"`
	CreatedAt    time.Time `json:"created_at"`
	// Joined fields
	FriendUsername    string `json:"friend_username,omitempty"`
	FriendDisplayName string `json:"friend_display_name,omitempty"`
}
