package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkup-app/linkup/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_handle, receiver_handle,
			content, content_encrypted, message_type, is_read, is_edited, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderHandle, msg.ReceiverHandle,
		msg.Content, msg.ContentEncrypted, msg.Type,
		msg.IsRead, msg.IsEdited, msg.IsDeleted, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT id, conversation_id, sender_handle, receiver_handle,
			content, content_encrypted, message_type,
			is_read, read_at, is_edited, edited_at, is_deleted, deleted_at, created_at
		FROM messages
		WHERE id = $1`
	msg, err := scanMessage(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return msg, err
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string, limit, offset int, ascending bool) ([]domain.Message, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT id, conversation_id, sender_handle, receiver_handle,
			content, content_encrypted, message_type,
			is_read, read_at, is_edited, edited_at, is_deleted, deleted_at, created_at
		FROM messages
		WHERE conversation_id = $1 AND NOT is_deleted
		ORDER BY created_at %s
		LIMIT $2 OFFSET $3`, order)

	rows, err := r.pool.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) MarkRead(ctx context.Context, conversationID, senderHandle, receiverHandle string, at time.Time) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE, read_at = $4
		WHERE conversation_id = $1 AND sender_handle = $2 AND receiver_handle = $3 AND NOT is_read`
	tag, err := r.pool.Exec(ctx, query, conversationID, senderHandle, receiverHandle, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *MessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	query := `
		UPDATE messages
		SET content = $2, content_encrypted = $3, is_edited = $4, edited_at = $5
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.Content, msg.ContentEncrypted, msg.IsEdited, msg.EditedAt,
	)
	return err
}

func (r *MessageRepo) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET is_deleted = TRUE, deleted_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *MessageRepo) CountUnread(ctx context.Context, receiverHandle string) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages
		WHERE receiver_handle = $1 AND NOT is_read AND NOT is_deleted`
	var count int
	err := r.pool.QueryRow(ctx, query, receiverHandle).Scan(&count)
	return count, err
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.SenderHandle, &msg.ReceiverHandle,
		&msg.Content, &msg.ContentEncrypted, &msg.Type,
		&msg.IsRead, &msg.ReadAt, &msg.IsEdited, &msg.EditedAt,
		&msg.IsDeleted, &msg.DeletedAt, &msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
