package ws

import (
	"encoding/json"
	"testing"

	"github.com/linkup-app/linkup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	room := domain.PairID("alice@x.com", "bob@x.com")
	evt, err := NewEvent(EventTypeUserTyping, room, UserTypingPayload{
		SenderHandle: "alice@x.com",
		IsTyping:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, EventTypeUserTyping, evt.Type)
	assert.Equal(t, room, evt.Room)
	assert.NotZero(t, evt.Timestamp)

	var p UserTypingPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, "alice@x.com", p.SenderHandle)
	assert.True(t, p.IsTyping)
}

func TestEventEnvelopeDecoding(t *testing.T) {
	raw := `{"type":"read.mark","payload":{"sender_handle":"alice@x.com","receiver_handle":"bob@x.com"}}`

	var evt Event
	require.NoError(t, json.Unmarshal([]byte(raw), &evt))
	assert.Equal(t, EventTypeMarkRead, evt.Type)

	var p MarkReadPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, "alice@x.com", p.SenderHandle)
	assert.Equal(t, "bob@x.com", p.ReceiverHandle)
}
