package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linkup-app/linkup/internal/domain"
)

type ConversationRepo struct {
	mu    sync.Mutex
	convs map[string]*domain.Conversation // by canonical pair ID
}

func NewConversationRepo() *ConversationRepo {
	return &ConversationRepo{convs: make(map[string]*domain.Conversation)}
}

// CreateIfAbsent serializes check-and-insert under one lock, mirroring the
// unique-constraint behavior of the postgres implementation.
func (r *ConversationRepo) CreateIfAbsent(_ context.Context, conv *domain.Conversation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convs[conv.ID]; ok {
		return false, nil
	}
	stored := *conv
	r.convs[conv.ID] = &stored
	return true, nil
}

func (r *ConversationRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return nil, nil
	}
	return copyConversation(conv), nil
}

func (r *ConversationRepo) ListForParticipant(_ context.Context, handle string) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var convs []domain.Conversation
	for _, conv := range r.convs {
		if conv.IsActive && conv.HasParticipant(handle) {
			convs = append(convs, *copyConversation(conv))
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs, nil
}

func (r *ConversationRepo) UpdateLastMessage(_ context.Context, id, content, senderHandle string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return nil
	}
	conv.LastMessage = &domain.LastMessage{
		Content:      content,
		SenderHandle: senderHandle,
		Timestamp:    at,
	}
	conv.UpdatedAt = at
	return nil
}

func (r *ConversationRepo) IncrementUnread(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.convs[id]; ok {
		conv.UnreadCount++
	}
	return nil
}

func (r *ConversationRepo) ResetUnread(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.convs[id]; ok {
		conv.UnreadCount = 0
	}
	return nil
}

func copyConversation(conv *domain.Conversation) *domain.Conversation {
	out := *conv
	if conv.LastMessage != nil {
		last := *conv.LastMessage
		out.LastMessage = &last
	}
	return &out
}
