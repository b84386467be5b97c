package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/apperr"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/linkup-app/linkup/internal/msgcrypt"
	"github.com/linkup-app/linkup/internal/repository"
	"github.com/sirupsen/logrus"
)

// Notifier broadcasts real-time events to connected clients. Delivery is
// best-effort: a notification failure never rolls back the persisted write.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyEditedMessage(msg *domain.Message)
	NotifyDeletedMessage(conversationID string, messageID uuid.UUID)
}

type MessageService struct {
	msgRepo  repository.MessageRepository
	convRepo repository.ConversationRepository
	connRepo repository.ConnectionRepository
	codec    *msgcrypt.Codec
	registry *ConversationService
	notifier Notifier
}

func NewMessageService(
	msgRepo repository.MessageRepository,
	convRepo repository.ConversationRepository,
	connRepo repository.ConnectionRepository,
	registry *ConversationService,
	codec *msgcrypt.Codec,
) *MessageService {
	return &MessageService{
		msgRepo:  msgRepo,
		convRepo: convRepo,
		connRepo: connRepo,
		registry: registry,
		codec:    codec,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Send persists a message from sender to receiver. Requires an existing
// mutual connection; creates the pair's conversation on first message and
// maintains its last-message snapshot and unread counter.
func (s *MessageService) Send(ctx context.Context, senderHandle, receiverHandle, content string, msgType domain.MessageType) (*domain.Message, error) {
	if senderHandle == "" || receiverHandle == "" || content == "" {
		return nil, apperr.InvalidInput("sender, receiver and content are required")
	}
	if senderHandle == receiverHandle {
		return nil, apperr.InvalidInput("cannot message yourself")
	}
	if msgType == "" {
		msgType = domain.MessageTypeText
	}
	if !domain.ValidMessageType(msgType) {
		return nil, apperr.InvalidInput("unknown message type")
	}

	connected, err := s.connRepo.AreConnected(ctx, senderHandle, receiverHandle)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, apperr.Unauthorized("users are not connected")
	}

	conv, err := s.registry.GetOrCreate(ctx, senderHandle, receiverHandle)
	if err != nil {
		return nil, err
	}

	encrypted, err := s.codec.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}

	msg := &domain.Message{
		ID:               uuid.New(),
		ConversationID:   conv.ID,
		SenderHandle:     senderHandle,
		ReceiverHandle:   receiverHandle,
		Content:          content,
		ContentEncrypted: encrypted,
		Type:             msgType,
		CreatedAt:        time.Now(),
	}

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	if err := s.convRepo.UpdateLastMessage(ctx, conv.ID, content, senderHandle, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("updating last message: %w", err)
	}
	if err := s.convRepo.IncrementUnread(ctx, conv.ID); err != nil {
		return nil, fmt.Errorf("incrementing unread: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(msg)
	}

	return msg, nil
}

// List returns the pair's non-deleted messages with decoded content,
// newest first unless ascending is set, skipping offset rows for paging.
// A content that fails to decode is served as its stored raw value; the
// read path never aborts on decode failure.
func (s *MessageService) List(ctx context.Context, a, b string, limit, offset int, ascending bool) ([]domain.Message, error) {
	if a == "" || b == "" {
		return nil, apperr.InvalidInput("both handles are required")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.msgRepo.ListByConversation(ctx, domain.PairID(a, b), limit, offset, ascending)
	if err != nil {
		return nil, err
	}

	for i := range msgs {
		if msgs[i].ContentEncrypted == "" {
			continue
		}
		plain, err := s.codec.Decode(msgs[i].ContentEncrypted)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"message": msgs[i].ID,
				"error":   err,
			}).Warn("content decode failed, serving stored value")
			continue
		}
		msgs[i].Content = plain
	}

	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// MarkRead flips every unread message sent by senderHandle to
// receiverHandle in their conversation, then resets the conversation's
// unread counter. Directional: the reverse flow is untouched. Returns the
// number of messages affected.
func (s *MessageService) MarkRead(ctx context.Context, senderHandle, receiverHandle string) (int64, error) {
	if senderHandle == "" || receiverHandle == "" {
		return 0, apperr.InvalidInput("sender and receiver are required")
	}

	id := domain.PairID(senderHandle, receiverHandle)
	affected, err := s.msgRepo.MarkRead(ctx, id, senderHandle, receiverHandle, time.Now())
	if err != nil {
		return 0, err
	}

	conv, err := s.convRepo.GetByID(ctx, id)
	if err != nil {
		return affected, err
	}
	if conv != nil {
		if err := s.convRepo.ResetUnread(ctx, id); err != nil {
			return affected, err
		}
	}

	return affected, nil
}

// UnreadCount counts undeleted unread messages addressed to handle, across
// all conversations.
func (s *MessageService) UnreadCount(ctx context.Context, handle string) (int, error) {
	return s.msgRepo.CountUnread(ctx, handle)
}

// Edit replaces a message's content. Sender-only. The conversation's
// last-message snapshot is deliberately left untouched: it reflects the
// send path only.
func (s *MessageService) Edit(ctx context.Context, requesterHandle string, messageID uuid.UUID, newContent string) (*domain.Message, error) {
	if newContent == "" {
		return nil, apperr.InvalidInput("content is required")
	}

	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, apperr.NotFound("message not found")
	}
	if msg.SenderHandle != requesterHandle {
		return nil, apperr.Unauthorized("only the message sender can edit")
	}

	encrypted, err := s.codec.Encode(newContent)
	if err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}

	now := time.Now()
	msg.Content = newContent
	msg.ContentEncrypted = encrypted
	msg.IsEdited = true
	msg.EditedAt = &now

	if err := s.msgRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyEditedMessage(msg)
	}

	return msg, nil
}

// SoftDelete hides a message from listings while retaining it in storage.
// Sender-only; independent of the edited flag.
func (s *MessageService) SoftDelete(ctx context.Context, requesterHandle string, messageID uuid.UUID) error {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return apperr.NotFound("message not found")
	}
	if msg.SenderHandle != requesterHandle {
		return apperr.Unauthorized("only the message sender can delete")
	}

	if err := s.msgRepo.SoftDelete(ctx, messageID, time.Now()); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedMessage(msg.ConversationID, messageID)
	}

	return nil
}
