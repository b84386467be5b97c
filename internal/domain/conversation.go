package domain

import (
	"strings"
	"time"
)

// PairSeparator joins the two handles of a canonical pair ID. Signup
// validation rejects handles containing it, which keeps the ID splittable.
// The same derivation is used for storage IDs and broadcast rooms.
const PairSeparator = "_"

// PairID derives the canonical conversation identifier for an unordered
// pair of handles: byte-wise sort, then join. PairID(a, b) == PairID(b, a).
func PairID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + PairSeparator + b
}

// SortPair returns the two handles in canonical (byte-wise ascending) order.
func SortPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// LastMessage is the denormalized snapshot cached on a conversation. It is
// written only by the send path; edits and soft-deletes of the underlying
// message leave it stale.
type LastMessage struct {
	Content      string    `json:"content"`
	SenderHandle string    `json:"sender_handle"`
	Timestamp    time.Time `json:"timestamp"`
}

type Conversation struct {
	ID           string       `json:"id"`
	Participant1 string       `json:"participant1"` // lexically smaller handle
	Participant2 string       `json:"participant2"`
	LastMessage  *LastMessage `json:"last_message,omitempty"`
	UnreadCount  int          `json:"unread_count"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	// Joined fields for frontend
	PeerHandle      string `json:"peer_handle,omitempty"`
	PeerUsername    string `json:"peer_username,omitempty"`
	PeerDisplayName string `json:"peer_display_name,omitempty"`
}

// HasParticipant reports whether handle is one of the two participants.
func (c *Conversation) HasParticipant(handle string) bool {
	return c.Participant1 == handle || c.Participant2 == handle
}

// OtherParticipant returns the participant that is not handle. If handle is
// not a participant at all it returns the empty string.
func (c *Conversation) OtherParticipant(handle string) string {
	switch handle {
	case c.Participant1:
		return c.Participant2
	case c.Participant2:
		return c.Participant1
	}
	return ""
}

// LocalPart returns the part of an email handle before the '@', used as a
// display fallback when no profile exists for a peer.
func LocalPart(handle string) string {
	if i := strings.IndexByte(handle, '@'); i >= 0 {
		return handle[:i]
	}
	return handle
}
