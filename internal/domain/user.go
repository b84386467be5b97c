package domain

import (
	"time"
)

// User is an account. The email address doubles as the handle: the opaque,
// globally unique identifier every other record refers to.
type User struct {
	Handle       string    `json:"handle"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
