package service

import (
	"context"
	"sync"
	"testing"

	"github.com/linkup-app/linkup/internal/apperr"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	conv, err := f.conversation.GetOrCreate(ctx, "bob@x.com", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.PairID("alice@x.com", "bob@x.com"), conv.ID)
	assert.Equal(t, "alice@x.com", conv.Participant1)
	assert.Equal(t, "bob@x.com", conv.Participant2)
	assert.True(t, conv.IsActive)
	assert.Equal(t, 0, conv.UnreadCount)

	// Second call in the opposite order returns the same row.
	again, err := f.conversation.GetOrCreate(ctx, "alice@x.com", "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)
	assert.True(t, again.CreatedAt.Equal(conv.CreatedAt))
}

func TestGetOrCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.conversation.GetOrCreate(ctx, "alice@x.com", "alice@x.com")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))

	_, err = f.conversation.GetOrCreate(ctx, "", "alice@x.com")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}

func TestGetOrCreateConcurrent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	ids := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "alice@x.com", "bob@x.com"
			if i%2 == 0 {
				a, b = b, a
			}
			conv, err := f.conversation.GetOrCreate(ctx, a, b)
			assert.NoError(t, err)
			if conv != nil {
				ids <- conv.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	// Every caller converged on the same single row.
	for id := range ids {
		assert.Equal(t, domain.PairID("alice@x.com", "bob@x.com"), id)
	}
	convs, err := f.conversations.ListForParticipant(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestEnsureConversationsForIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.connect(t, "alice@x.com", "bob@x.com")
	f.connect(t, "alice@x.com", "carol@x.com")
	f.connect(t, "alice@x.com", "dave@x.com")

	created, err := f.conversation.EnsureConversationsFor(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	// An unchanged friend list creates nothing on the second pass.
	created, err = f.conversation.EnsureConversationsFor(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// A new friend adds exactly one more.
	f.connect(t, "alice@x.com", "erin@x.com")
	created, err = f.conversation.EnsureConversationsFor(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestListForUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(t, "bob@x.com", "bobby")
	f.connect(t, "alice@x.com", "bob@x.com")
	f.connect(t, "alice@x.com", "noprofile@x.com")

	convs, err := f.conversation.ListForUser(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	byPeer := make(map[string]domain.Conversation, len(convs))
	for _, conv := range convs {
		byPeer[conv.PeerHandle] = conv
	}

	// Registered peers show their profile.
	bob, ok := byPeer["bob@x.com"]
	require.True(t, ok)
	assert.Equal(t, "bobby", bob.PeerUsername)

	// Unregistered peers fall back to the email local part.
	ghost, ok := byPeer["noprofile@x.com"]
	require.True(t, ok)
	assert.Equal(t, "noprofile", ghost.PeerUsername)
	assert.Equal(t, "noprofile", ghost.PeerDisplayName)
}

func TestListForUserEmpty(t *testing.T) {
	f := newFixture()

	convs, err := f.conversation.ListForUser(context.Background(), "loner@x.com")
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}
