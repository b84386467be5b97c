package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectBothDirections(t *testing.T) {
	repo := NewConnectionRepo()
	ctx := context.Background()

	ok, err := repo.AreConnected(ctx, "a@x.com", "b@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Connect(ctx, "a@x.com", "b@x.com"))

	ok, err = repo.AreConnected(ctx, "a@x.com", "b@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AreConnected(ctx, "b@x.com", "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok, "connections are symmetric")

	// Connect is idempotent.
	require.NoError(t, repo.Connect(ctx, "a@x.com", "b@x.com"))
	conns, err := repo.ListConnections(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "b@x.com", conns[0].FriendHandle)
}

func TestRequestLifecycle(t *testing.T) {
	repo := NewConnectionRepo()
	ctx := context.Background()

	req := &domain.ConnectionRequest{
		ID:             uuid.New(),
		SenderHandle:   "a@x.com",
		ReceiverHandle: "b@x.com",
		Status:         domain.RequestStatusPending,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, repo.CreateRequest(ctx, req))

	got, err := repo.GetRequestByID(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.com", got.SenderHandle)

	got, err = repo.GetRequestByHandles(ctx, "a@x.com", "b@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Direction matters for handle lookup.
	got, err = repo.GetRequestByHandles(ctx, "b@x.com", "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	incoming, err := repo.ListIncomingRequests(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Len(t, incoming, 1)

	outgoing, err := repo.ListOutgoingRequests(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, outgoing, 1)

	require.NoError(t, repo.DeleteRequest(ctx, req.ID))
	got, err = repo.GetRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
