package service

import (
	"context"
	"testing"
	"time"

	"github.com/linkup-app/linkup/internal/domain"
	"github.com/linkup-app/linkup/internal/msgcrypt"
	"github.com/linkup-app/linkup/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

// fixture wires the full service stack against in-memory repositories.
type fixture struct {
	users         *memory.UserRepo
	connections   *memory.ConnectionRepo
	conversations *memory.ConversationRepo
	messages      *memory.MessageRepo

	auth          *AuthService
	connection    *ConnectionService
	conversation  *ConversationService
	message       *MessageService
	codec         *msgcrypt.Codec
}

func newFixture() *fixture {
	f := &fixture{
		users:         memory.NewUserRepo(),
		connections:   memory.NewConnectionRepo(),
		conversations: memory.NewConversationRepo(),
		messages:      memory.NewMessageRepo(),
		codec:         msgcrypt.New("test-message-secret"),
	}
	f.auth = NewAuthService(f.users, "test-jwt-secret")
	f.connection = NewConnectionService(f.connections, f.users)
	f.conversation = NewConversationService(f.conversations, f.connections, f.users)
	f.message = NewMessageService(f.messages, f.conversations, f.connections, f.conversation, f.codec)
	return f
}

// addUser registers a profile directly, bypassing password hashing.
func (f *fixture) addUser(t *testing.T, handle, username string) {
	t.Helper()
	now := time.Now()
	err := f.users.Create(context.Background(), &domain.User{
		Handle:      handle,
		Username:    username,
		DisplayName: username,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
}

// connect establishes the mutual connection directly at the repo level.
func (f *fixture) connect(t *testing.T, a, b string) {
	t.Helper()
	require.NoError(t, f.connections.Connect(context.Background(), a, b))
}
