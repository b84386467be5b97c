package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/linkup-app/linkup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReads struct {
	mu    sync.Mutex
	calls [][2]string
}

func (f *fakeReads) MarkRead(_ context.Context, sender, receiver string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{sender, receiver})
	return 1, nil
}

func newHubClient(t *testing.T, h *Hub, handle string) *Client {
	t.Helper()
	session := h.sessions.Open()
	c := NewClient(h, nil, session, handle)
	h.register <- c
	return c
}

func recvFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.send:
		return data
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
		return nil
	}
}

func TestBroadcastReachesRoomOnly(t *testing.T) {
	hub := NewHub(NewSessionRegistry(), nil)
	go hub.Run()

	room := domain.PairID("alice@x.com", "bob@x.com")
	alice := newHubClient(t, hub, "alice@x.com")
	bob := newHubClient(t, hub, "bob@x.com")
	carol := newHubClient(t, hub, "carol@x.com")
	alice.JoinRoom(room)
	bob.JoinRoom(room)

	evt, err := NewEvent(EventTypeMessageNew, room, MessageRelayPayload{
		SenderHandle:   "alice@x.com",
		ReceiverHandle: "bob@x.com",
		Content:        "hi",
		Timestamp:      time.Now(),
	})
	require.NoError(t, err)
	hub.BroadcastToRoom(room, evt, nil)

	assert.NotEmpty(t, recvFrame(t, alice))
	assert.NotEmpty(t, recvFrame(t, bob))
	assert.Zero(t, len(carol.send), "non-members must not receive room frames")
}

func TestTypingExcludesSender(t *testing.T) {
	hub := NewHub(NewSessionRegistry(), nil)
	go hub.Run()

	room := domain.PairID("alice@x.com", "bob@x.com")
	alice := newHubClient(t, hub, "alice@x.com")
	bob := newHubClient(t, hub, "bob@x.com")
	alice.JoinRoom(room)
	bob.JoinRoom(room)
	require.True(t, hub.sessions.Identify(alice.session.ID, "alice@x.com"))

	hub.HandleTyping(alice, TypingPayload{ReceiverHandle: "bob@x.com", IsTyping: true})

	assert.NotEmpty(t, recvFrame(t, bob))
	assert.Zero(t, len(alice.send), "the typist never sees their own indicator")
}

func TestTypingRequiresIdentify(t *testing.T) {
	hub := NewHub(NewSessionRegistry(), nil)
	go hub.Run()

	alice := newHubClient(t, hub, "alice@x.com")

	// Connected but never identified: the typing event bounces back as an
	// error frame and nothing is broadcast.
	hub.HandleTyping(alice, TypingPayload{ReceiverHandle: "bob@x.com", IsTyping: true})

	frame := recvFrame(t, alice)
	assert.Contains(t, string(frame), EventTypeError)
}

func TestMarkReadPersistsThenBroadcasts(t *testing.T) {
	reads := &fakeReads{}
	hub := NewHub(NewSessionRegistry(), reads)
	go hub.Run()

	room := domain.PairID("alice@x.com", "bob@x.com")
	alice := newHubClient(t, hub, "alice@x.com")
	bob := newHubClient(t, hub, "bob@x.com")
	alice.JoinRoom(room)
	bob.JoinRoom(room)

	hub.HandleMarkRead(bob, MarkReadPayload{
		SenderHandle:   "alice@x.com",
		ReceiverHandle: "bob@x.com",
	})

	reads.mu.Lock()
	require.Len(t, reads.calls, 1)
	assert.Equal(t, [2]string{"alice@x.com", "bob@x.com"}, reads.calls[0])
	reads.mu.Unlock()

	// The receipt goes to the whole room, reader included.
	assert.Contains(t, string(recvFrame(t, alice)), EventTypeMessagesRead)
	assert.Contains(t, string(recvFrame(t, bob)), EventTypeMessagesRead)
}

func TestSlowSubscriberDropped(t *testing.T) {
	hub := NewHub(NewSessionRegistry(), nil)
	go hub.Run()

	room := domain.PairID("alice@x.com", "bob@x.com")
	alice := newHubClient(t, hub, "alice@x.com")
	slow := newHubClient(t, hub, "bob@x.com")
	alice.JoinRoom(room)
	slow.JoinRoom(room)

	// Saturate the slow subscriber's buffer.
	for i := 0; i < sendBufSize; i++ {
		slow.send <- []byte("backlog")
	}

	evt, err := NewEvent(EventTypeMessageNew, room, MessageRelayPayload{
		SenderHandle:   "alice@x.com",
		ReceiverHandle: "bob@x.com",
		Content:        "latest",
		Timestamp:      time.Now(),
	})
	require.NoError(t, err)
	hub.BroadcastToRoom(room, evt, nil)

	// The healthy subscriber still gets the frame without stalling.
	assert.NotEmpty(t, recvFrame(t, alice))

	// The saturated one is disconnected: its session closes and done fires.
	select {
	case <-slow.done:
	case <-time.After(time.Second):
		t.Fatal("saturated subscriber was not dropped")
	}
	assert.Equal(t, 1, hub.sessions.Len())

	// Its read loop can still race the drop with a ping or a bad event;
	// enqueueing after the drop must stay safe.
	assert.NotPanics(t, func() {
		slow.sendPong()
		slow.sendError("NOT_IDENTIFIED", "identify before sending typing events")
	})
}
