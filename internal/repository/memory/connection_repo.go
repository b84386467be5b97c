package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
)

type ConnectionRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]domain.ConnectionRequest
	edges    map[string]map[string]time.Time // owner → friend → since
}

func NewConnectionRepo() *ConnectionRepo {
	return &ConnectionRepo{
		requests: make(map[uuid.UUID]domain.ConnectionRequest),
		edges:    make(map[string]map[string]time.Time),
	}
}

func (r *ConnectionRepo) CreateRequest(_ context.Context, req *domain.ConnectionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = *req
	return nil
}

func (r *ConnectionRepo) GetRequestByID(_ context.Context, id uuid.UUID) (*domain.ConnectionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if req, ok := r.requests[id]; ok {
		return &req, nil
	}
	return nil, nil
}

func (r *ConnectionRepo) GetRequestByHandles(_ context.Context, sender, receiver string) (*domain.ConnectionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.requests {
		if req.SenderHandle == sender && req.ReceiverHandle == receiver {
			return &req, nil
		}
	}
	return nil, nil
}

func (r *ConnectionRepo) DeleteRequest(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, id)
	return nil
}

func (r *ConnectionRepo) ListIncomingRequests(_ context.Context, handle string) ([]domain.ConnectionRequest, error) {
	return r.listRequests(func(req domain.ConnectionRequest) bool {
		return req.ReceiverHandle == handle && req.Status == domain.RequestStatusPending
	}), nil
}

func (r *ConnectionRepo) ListOutgoingRequests(_ context.Context, handle string) ([]domain.ConnectionRequest, error) {
	return r.listRequests(func(req domain.ConnectionRequest) bool {
		return req.SenderHandle == handle && req.Status == domain.RequestStatusPending
	}), nil
}

func (r *ConnectionRepo) listRequests(match func(domain.ConnectionRequest) bool) []domain.ConnectionRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var reqs []domain.ConnectionRequest
	for _, req := range r.requests {
		if match(req) {
			reqs = append(reqs, req)
		}
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
	return reqs
}

func (r *ConnectionRepo) Connect(_ context.Context, a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addEdge(a, b)
	r.addEdge(b, a)
	return nil
}

func (r *ConnectionRepo) addEdge(owner, friend string) {
	set, ok := r.edges[owner]
	if !ok {
		set = make(map[string]time.Time)
		r.edges[owner] = set
	}
	if _, ok := set[friend]; !ok {
		set[friend] = time.Now()
	}
}

func (r *ConnectionRepo) AreConnected(_ context.Context, a, b string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, forward := r.edges[a][b]
	_, backward := r.edges[b][a]
	return forward && backward, nil
}

func (r *ConnectionRepo) ListConnections(_ context.Context, owner string) ([]domain.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var conns []domain.Connection
	for friend, since := range r.edges[owner] {
		conns = append(conns, domain.Connection{
			OwnerHandle:  owner,
			FriendHandle: friend,
			CreatedAt:    since,
		})
	}
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].FriendHandle < conns[j].FriendHandle
	})
	return conns, nil
}
