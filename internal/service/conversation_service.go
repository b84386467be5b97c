package service

import (
	"context"
	"fmt"
	"time"

	"github.com/linkup-app/linkup/internal/apperr"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/linkup-app/linkup/internal/repository"
	"github.com/sirupsen/logrus"
)

// ConversationService is the conversation registry plus the synchronizer
// that reconciles the friendship graph into conversation rows.
type ConversationService struct {
	convRepo repository.ConversationRepository
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
}

func NewConversationService(
	convRepo repository.ConversationRepository,
	connRepo repository.ConnectionRepository,
	userRepo repository.UserRepository,
) *ConversationService {
	return &ConversationService{
		convRepo: convRepo,
		connRepo: connRepo,
		userRepo: userRepo,
	}
}

// GetOrCreate returns the single conversation row for the unordered pair,
// creating it on first use. Concurrent creators converge on one row: the
// insert is conflict-tolerant and losers re-read the winner's row.
func (s *ConversationService) GetOrCreate(ctx context.Context, a, b string) (*domain.Conversation, error) {
	if a == "" || b == "" {
		return nil, apperr.InvalidInput("both handles are required")
	}
	if a == b {
		return nil, apperr.InvalidInput("cannot start a conversation with yourself")
	}

	id := domain.PairID(a, b)
	conv, err := s.convRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	p1, p2 := domain.SortPair(a, b)
	now := time.Now()
	fresh := &domain.Conversation{
		ID:           id,
		Participant1: p1,
		Participant2: p2,
		UnreadCount:  0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.convRepo.CreateIfAbsent(ctx, fresh); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	conv, err = s.convRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperr.Storage("conversation vanished after create", nil)
	}
	return conv, nil
}

// EnsureConversationsFor materializes a conversation row for every friend
// of handle. Idempotent: with an unchanged friend list the second pass
// creates nothing. Returns the number of rows created.
func (s *ConversationService) EnsureConversationsFor(ctx context.Context, handle string) (int, error) {
	conns, err := s.connRepo.ListConnections(ctx, handle)
	if err != nil {
		return 0, err
	}

	created := 0
	now := time.Now()
	for _, conn := range conns {
		p1, p2 := domain.SortPair(handle, conn.FriendHandle)
		conv := &domain.Conversation{
			ID:           domain.PairID(handle, conn.FriendHandle),
			Participant1: p1,
			Participant2: p2,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		inserted, err := s.convRepo.CreateIfAbsent(ctx, conv)
		if err != nil {
			return created, fmt.Errorf("materializing conversation %s: %w", conv.ID, err)
		}
		if inserted {
			logrus.WithFields(logrus.Fields{
				"conversation": conv.ID,
			}).Debug("materialized conversation for friend pair")
			created++
		}
	}
	return created, nil
}

// ListForUser synchronizes against the friend list and then returns all
// active conversations for handle, most recently updated first, with peer
// display info attached.
func (s *ConversationService) ListForUser(ctx context.Context, handle string) ([]domain.Conversation, error) {
	if _, err := s.EnsureConversationsFor(ctx, handle); err != nil {
		return nil, err
	}

	convs, err := s.convRepo.ListForParticipant(ctx, handle)
	if err != nil {
		return nil, err
	}

	for i := range convs {
		peer := convs[i].OtherParticipant(handle)
		convs[i].PeerHandle = peer
		convs[i].PeerUsername = domain.LocalPart(peer)
		convs[i].PeerDisplayName = domain.LocalPart(peer)

		user, err := s.userRepo.GetByHandle(ctx, peer)
		if err != nil {
			return nil, err
		}
		if user != nil {
			convs[i].PeerUsername = user.Username
			convs[i].PeerDisplayName = user.DisplayName
		}
	}

	if convs == nil {
		convs = []domain.Conversation{}
	}
	return convs, nil
}
