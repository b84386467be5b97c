package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkup-app/linkup/internal/domain"
)

type ConnectionRepo struct {
	pool *pgxpool.Pool
}

func NewConnectionRepo(pool *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{pool: pool}
}

func (r *ConnectionRepo) CreateRequest(ctx context.Context, req *domain.ConnectionRequest) error {
	query := `
		INSERT INTO connection_requests (id, sender_handle, receiver_handle, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.SenderHandle, req.ReceiverHandle, req.Status, req.CreatedAt,
	)
	return err
}

func (r *ConnectionRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.ConnectionRequest, error) {
	query := `
		SELECT id, sender_handle, receiver_handle, status, created_at
		FROM connection_requests
		WHERE id = $1`
	var req domain.ConnectionRequest
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.SenderHandle, &req.ReceiverHandle, &req.Status, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &req, err
}

func (r *ConnectionRepo) GetRequestByHandles(ctx context.Context, sender, receiver string) (*domain.ConnectionRequest, error) {
	query := `
		SELECT id, sender_handle, receiver_handle, status, created_at
		FROM connection_requests
		WHERE sender_handle = $1 AND receiver_handle = $2`
	var req domain.ConnectionRequest
	err := r.pool.QueryRow(ctx, query, sender, receiver).Scan(
		&req.ID, &req.SenderHandle, &req.ReceiverHandle, &req.Status, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &req, err
}

func (r *ConnectionRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM connection_requests WHERE id = $1`, id)
	return err
}

func (r *ConnectionRepo) ListIncomingRequests(ctx context.Context, handle string) ([]domain.ConnectionRequest, error) {
	query := `
		SELECT req.id, req.sender_handle, req.receiver_handle, req.status, req.created_at,
			u.username, u.display_name
		FROM connection_requests req
		JOIN users u ON req.sender_handle = u.handle
		WHERE req.receiver_handle = $1 AND req.status = 'pending'
		ORDER BY req.created_at DESC`

	rows, err := r.pool.Query(ctx, query, handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.ConnectionRequest
	for rows.Next() {
		var req domain.ConnectionRequest
		if err := rows.Scan(
			&req.ID, &req.SenderHandle, &req.ReceiverHandle, &req.Status, &req.CreatedAt,
			&req.SenderUsername, &req.SenderDisplayName,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *ConnectionRepo) ListOutgoingRequests(ctx context.Context, handle string) ([]domain.ConnectionRequest, error) {
	query := `
		SELECT req.id, req.sender_handle, req.receiver_handle, req.status, req.created_at,
			u.username, u.display_name
		FROM connection_requests req
		JOIN users u ON req.receiver_handle = u.handle
		WHERE req.sender_handle = $1 AND req.status = 'pending'
		ORDER BY req.created_at DESC`

	rows, err := r.pool.Query(ctx, query, handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.ConnectionRequest
	for rows.Next() {
		var req domain.ConnectionRequest
		if err := rows.Scan(
			&req.ID, &req.SenderHandle, &req.ReceiverHandle, &req.Status, &req.CreatedAt,
			&req.ReceiverUsername, &req.ReceiverDisplayName,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Connect writes both directed edges. ON CONFLICT keeps the operation
// idempotent under repeated accepts.
func (r *ConnectionRepo) Connect(ctx context.Context, a, b string) error {
	query := `
		INSERT INTO connections (owner_handle, friend_handle)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (owner_handle, friend_handle) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, a, b)
	return err
}

func (r *ConnectionRepo) AreConnected(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM connections WHERE owner_handle = $1 AND friend_handle = $2)
			AND
			EXISTS (SELECT 1 FROM connections WHERE owner_handle = $2 AND friend_handle = $1)`
	var connected bool
	err := r.pool.QueryRow(ctx, query, a, b).Scan(&connected)
	return connected, err
}

func (r *ConnectionRepo) ListConnections(ctx context.Context, owner string) ([]domain.Connection, error) {
	query := `
		SELECT c.owner_handle, c.friend_handle, c.created_at, u.username, u.display_name
		FROM connections c
		JOIN users u ON c.friend_handle = u.handle
		WHERE c.owner_handle = $1
		ORDER BY u.username ASC`

	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []domain.Connection
	for rows.Next() {
		var c domain.Connection
		if err := rows.Scan(
			&c.OwnerHandle, &c.FriendHandle, &c.CreatedAt,
			&c.FriendUsername, &c.FriendDisplayName,
		); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}
