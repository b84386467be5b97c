package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
)

type MessageRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]*domain.Message
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{messages: make(map[uuid.UUID]*domain.Message)}
}

func (r *MessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

func (r *MessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	out := *msg
	return &out, nil
}

func (r *MessageRepo) ListByConversation(_ context.Context, conversationID string, limit, offset int, ascending bool) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []domain.Message
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID && !msg.IsDeleted {
			msgs = append(msgs, *msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if ascending {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	if offset > 0 {
		if offset >= len(msgs) {
			return nil, nil
		}
		msgs = msgs[offset:]
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (r *MessageRepo) MarkRead(_ context.Context, conversationID, senderHandle, receiverHandle string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, msg := range r.messages {
		if msg.ConversationID == conversationID &&
			msg.SenderHandle == senderHandle &&
			msg.ReceiverHandle == receiverHandle &&
			!msg.IsRead {
			msg.IsRead = true
			readAt := at
			msg.ReadAt = &readAt
			affected++
		}
	}
	return affected, nil
}

func (r *MessageRepo) Update(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.messages[msg.ID]
	if !ok {
		return nil
	}
	stored.Content = msg.Content
	stored.ContentEncrypted = msg.ContentEncrypted
	stored.IsEdited = msg.IsEdited
	stored.EditedAt = msg.EditedAt
	return nil
}

func (r *MessageRepo) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := r.messages[id]; ok {
		msg.IsDeleted = true
		deletedAt := at
		msg.DeletedAt = &deletedAt
	}
	return nil
}

func (r *MessageRepo) CountUnread(_ context.Context, receiverHandle string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, msg := range r.messages {
		if msg.ReceiverHandle == receiverHandle && !msg.IsRead && !msg.IsDeleted {
			count++
		}
	}
	return count, nil
}
