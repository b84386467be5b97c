package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndAcceptRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(t, "alice@x.com", "alice")
	f.addUser(t, "bob@x.com", "bob")

	req, err := f.connection.SendRequest(ctx, "alice@x.com", "bob")
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, "alice@x.com", req.SenderHandle)
	assert.Equal(t, "bob@x.com", req.ReceiverHandle)

	// Only the receiver may accept.
	err = f.connection.AcceptRequest(ctx, "alice@x.com", req.ID)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	require.NoError(t, f.connection.AcceptRequest(ctx, "bob@x.com", req.ID))

	connected, err := f.connection.AreConnected(ctx, "alice@x.com", "bob@x.com")
	require.NoError(t, err)
	assert.True(t, connected)

	// The request is consumed.
	incoming, err := f.connection.ListIncomingRequests(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestSendRequestAutoAccept(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(t, "alice@x.com", "alice")
	f.addUser(t, "bob@x.com", "bob")

	_, err := f.connection.SendRequest(ctx, "alice@x.com", "bob")
	require.NoError(t, err)

	// Bob requesting Alice while her request is pending connects them
	// immediately instead of stacking a second request.
	req, err := f.connection.SendRequest(ctx, "bob@x.com", "alice")
	require.NoError(t, err)
	assert.Nil(t, req)

	connected, err := f.connection.AreConnected(ctx, "alice@x.com", "bob@x.com")
	require.NoError(t, err)
	assert.True(t, connected)

	outgoing, err := f.connection.ListOutgoingRequests(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Empty(t, outgoing)
}

func TestSendRequestRejectsDuplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(t, "alice@x.com", "alice")
	f.addUser(t, "bob@x.com", "bob")

	_, err := f.connection.SendRequest(ctx, "alice@x.com", "alice")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	_, err = f.connection.SendRequest(ctx, "alice@x.com", "nobody")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = f.connection.SendRequest(ctx, "alice@x.com", "bob")
	require.NoError(t, err)

	_, err = f.connection.SendRequest(ctx, "alice@x.com", "bob")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	// Already-connected pairs cannot request again.
	f.connect(t, "alice@x.com", "carol@x.com")
	f.addUser(t, "carol@x.com", "carol")
	_, err = f.connection.SendRequest(ctx, "alice@x.com", "carol")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}

func TestRejectRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(t, "alice@x.com", "alice")
	f.addUser(t, "bob@x.com", "bob")

	req, err := f.connection.SendRequest(ctx, "alice@x.com", "bob")
	require.NoError(t, err)

	// A stranger cannot touch it.
	err = f.connection.RejectRequest(ctx, "mallory@x.com", req.ID)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	// The sender may cancel their own request.
	require.NoError(t, f.connection.RejectRequest(ctx, "alice@x.com", req.ID))

	connected, err := f.connection.AreConnected(ctx, "alice@x.com", "bob@x.com")
	require.NoError(t, err)
	assert.False(t, connected)

	err = f.connection.RejectRequest(ctx, "alice@x.com", uuid.New())
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
