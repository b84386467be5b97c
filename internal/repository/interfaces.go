package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ConnectionRepository stores the friendship graph and its pending
// requests. Connect writes both directed edges; AreConnected checks both
// independently.
type ConnectionRepository interface {
	CreateRequest(ctx context.Context, req *domain.ConnectionRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.ConnectionRequest, error)
	GetRequestByHandles(ctx context.Context, sender, receiver string) (*domain.ConnectionRequest, error)
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	ListIncomingRequests(ctx context.Context, handle string) ([]domain.ConnectionRequest, error)
	ListOutgoingRequests(ctx context.Context, handle string) ([]domain.ConnectionRequest, error)

	Connect(ctx context.Context, a, b string) error
	AreConnected(ctx context.Context, a, b string) (bool, error)
	ListConnections(ctx context.Context, owner string) ([]domain.Connection, error)
}

// ConversationRepository owns conversation rows keyed by canonical pair ID.
// CreateIfAbsent and the unread mutators are the storage-level atomic
// operations the consistency model leans on.
type ConversationRepository interface {
	// CreateIfAbsent inserts conv unless a row with the same ID already
	// exists, and reports whether a row was created. Concurrent callers on
	// the same ID converge on a single row.
	CreateIfAbsent(ctx context.Context, conv *domain.Conversation) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	ListForParticipant(ctx context.Context, handle string) ([]domain.Conversation, error)
	UpdateLastMessage(ctx context.Context, id, content, senderHandle string, at time.Time) error
	IncrementUnread(ctx context.Context, id string) error
	ResetUnread(ctx context.Context, id string) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// ListByConversation returns non-deleted messages, newest first (or
	// oldest first when ascending), skipping offset rows and capped at
	// limit.
	ListByConversation(ctx context.Context, conversationID string, limit, offset int, ascending bool) ([]domain.Message, error)
	// MarkRead flips every unread sender→receiver message in the
	// conversation and returns the number affected.
	MarkRead(ctx context.Context, conversationID, senderHandle, receiverHandle string, at time.Time) (int64, error)
	Update(ctx context.Context, msg *domain.Message) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	CountUnread(ctx context.Context, receiverHandle string) (int, error)
}
