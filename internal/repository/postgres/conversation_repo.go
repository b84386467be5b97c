package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkup-app/linkup/internal/domain"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

// CreateIfAbsent relies on the primary key on the canonical pair ID:
// concurrent creators race on the insert and every loser sees zero rows
// affected, never an error.
func (r *ConversationRepo) CreateIfAbsent(ctx context.Context, conv *domain.Conversation) (bool, error) {
	query := `
		INSERT INTO conversations (id, participant1, participant2, unread_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	tag, err := r.pool.Exec(ctx, query,
		conv.ID, conv.Participant1, conv.Participant2,
		conv.UnreadCount, conv.IsActive, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `
		SELECT id, participant1, participant2,
			last_message_content, last_message_sender, last_message_at,
			unread_count, is_active, created_at, updated_at
		FROM conversations
		WHERE id = $1`
	conv, err := scanConversation(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return conv, err
}

func (r *ConversationRepo) ListForParticipant(ctx context.Context, handle string) ([]domain.Conversation, error) {
	query := `
		SELECT id, participant1, participant2,
			last_message_content, last_message_sender, last_message_at,
			unread_count, is_active, created_at, updated_at
		FROM conversations
		WHERE (participant1 = $1 OR participant2 = $1) AND is_active
		ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *conv)
	}
	return convs, rows.Err()
}

func (r *ConversationRepo) UpdateLastMessage(ctx context.Context, id, content, senderHandle string, at time.Time) error {
	query := `
		UPDATE conversations
		SET last_message_content = $2, last_message_sender = $3, last_message_at = $4, updated_at = $4
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, content, senderHandle, at)
	return err
}

// IncrementUnread is a storage-level atomic read-modify-write; concurrent
// increments never lose an update.
func (r *ConversationRepo) IncrementUnread(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE conversations SET unread_count = unread_count + 1 WHERE id = $1`, id)
	return err
}

func (r *ConversationRepo) ResetUnread(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE conversations SET unread_count = 0 WHERE id = $1`, id)
	return err
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var (
		conv          domain.Conversation
		lastContent   *string
		lastSender    *string
		lastTimestamp *time.Time
	)
	err := row.Scan(
		&conv.ID, &conv.Participant1, &conv.Participant2,
		&lastContent, &lastSender, &lastTimestamp,
		&conv.UnreadCount, &conv.IsActive, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastContent != nil && lastSender != nil && lastTimestamp != nil {
		conv.LastMessage = &domain.LastMessage{
			Content:      *lastContent,
			SenderHandle: *lastSender,
			Timestamp:    *lastTimestamp,
		}
	}
	return &conv, nil
}
