package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/apperr"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/linkup-app/linkup/internal/repository"
)

// ConnectionService owns the friendship graph: pending requests plus the
// mutual connection set that gates all messaging.
type ConnectionService struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
}

func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository) *ConnectionService {
	return &ConnectionService{
		connRepo: connRepo,
		userRepo: userRepo,
	}
}

// SendRequest sends a connection request by target username.
// Auto-accepts if the target already sent a request to the sender.
func (s *ConnectionService) SendRequest(ctx context.Context, senderHandle, targetUsername string) (*domain.ConnectionRequest, error) {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if target == nil {
		return nil, apperr.NotFound("user not found")
	}

	if senderHandle == target.Handle {
		return nil, apperr.InvalidInput("cannot send a connection request to yourself")
	}

	already, err := s.connRepo.AreConnected(ctx, senderHandle, target.Handle)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, apperr.InvalidInput("you are already connected")
	}

	existing, err := s.connRepo.GetRequestByHandles(ctx, senderHandle, target.Handle)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == domain.RequestStatusPending {
		return nil, apperr.InvalidInput("a pending request already exists")
	}

	// A pending reverse request means both sides want the connection:
	// accept it instead of stacking a second request.
	reverse, err := s.connRepo.GetRequestByHandles(ctx, target.Handle, senderHandle)
	if err != nil {
		return nil, err
	}
	if reverse != nil && reverse.Status == domain.RequestStatusPending {
		if err := s.connRepo.Connect(ctx, senderHandle, target.Handle); err != nil {
			return nil, err
		}
		if err := s.connRepo.DeleteRequest(ctx, reverse.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	req := &domain.ConnectionRequest{
		ID:             uuid.New(),
		SenderHandle:   senderHandle,
		ReceiverHandle: target.Handle,
		Status:         domain.RequestStatusPending,
		CreatedAt:      time.Now(),
	}

	if err := s.connRepo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("creating connection request: %w", err)
	}

	return req, nil
}

// AcceptRequest accepts a pending request, establishing the mutual
// connection. Only the receiver may accept.
func (s *ConnectionService) AcceptRequest(ctx context.Context, handle string, requestID uuid.UUID) error {
	req, err := s.connRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return apperr.NotFound("connection request not found")
	}
	if req.ReceiverHandle != handle {
		return apperr.Unauthorized("only the request receiver can accept")
	}

	if err := s.connRepo.Connect(ctx, req.SenderHandle, req.ReceiverHandle); err != nil {
		return err
	}

	return s.connRepo.DeleteRequest(ctx, requestID)
}

// RejectRequest removes a pending request. Either side may remove it: the
// receiver rejects, the sender cancels.
func (s *ConnectionService) RejectRequest(ctx context.Context, handle string, requestID uuid.UUID) error {
	req, err := s.connRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return apperr.NotFound("connection request not found")
	}
	if req.ReceiverHandle != handle && req.SenderHandle != handle {
		return apperr.Unauthorized("not a party to this request")
	}

	return s.connRepo.DeleteRequest(ctx, requestID)
}

// AreConnected reports whether both directed edges exist. A missing record
// for either side means "not connected", never an error.
func (s *ConnectionService) AreConnected(ctx context.Context, a, b string) (bool, error) {
	return s.connRepo.AreConnected(ctx, a, b)
}

func (s *ConnectionService) ListConnections(ctx context.Context, handle string) ([]domain.Connection, error) {
	conns, err := s.connRepo.ListConnections(ctx, handle)
	if err != nil {
		return nil, err
	}
	if conns == nil {
		conns = []domain.Connection{}
	}
	return conns, nil
}

func (s *ConnectionService) ListIncomingRequests(ctx context.Context, handle string) ([]domain.ConnectionRequest, error) {
	reqs, err := s.connRepo.ListIncomingRequests(ctx, handle)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.ConnectionRequest{}
	}
	return reqs, nil
}

func (s *ConnectionService) ListOutgoingRequests(ctx context.Context, handle string) ([]domain.ConnectionRequest, error) {
	reqs, err := s.connRepo.ListOutgoingRequests(ctx, handle)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.ConnectionRequest{}
	}
	return reqs, nil
}
