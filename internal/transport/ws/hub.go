package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/sirupsen/logrus"
)

// ReadReceipts persists a directional mark-read; implemented by the
// message service. The hub persists through this before broadcasting the
// receipt — the only event that touches storage.
type ReadReceipts interface {
	MarkRead(ctx context.Context, senderHandle, receiverHandle string) (int64, error)
}

// Hub routes events between connected clients. Rooms are canonical pair
// IDs; fan-out is fire-and-forget with no acknowledgment or queuing.
type Hub struct {
	sessions *SessionRegistry
	reads    ReadReceipts

	// clients maps session ID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
}

type broadcastMsg struct {
	room    string
	data    []byte
	exclude *uuid.UUID // optional: skip this session (e.g. sender)
}

func NewHub(sessions *SessionRegistry, reads ReadReceipts) *Hub {
	return &Hub{
		sessions:   sessions,
		reads:      reads,
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.session.ID] = client
			logrus.WithFields(logrus.Fields{
				"session": client.session.ID,
				"total":   len(h.clients),
			}).Info("ws session connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client.session.ID]; ok {
				h.drop(client)
				logrus.WithFields(logrus.Fields{
					"session": client.session.ID,
					"total":   len(h.clients),
				}).Info("ws session disconnected")
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if msg.exclude != nil && client.session.ID == *msg.exclude {
					continue
				}
				if !client.InRoom(msg.room) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Buffer full: drop the subscriber, never the message.
					// Missed frames are re-fetched over HTTP.
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client.session.ID)
	h.sessions.Close(client.session.ID)
	// send stays open: the client's ReadPump may still enqueue pong/error
	// frames. WritePump exits via done and the channel is collected.
	close(client.done)
}

// BroadcastToRoom sends an event to every session subscribed to room.
func (h *Hub) BroadcastToRoom(room string, event *Event, exclude *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("ws hub: marshal error")
		return
	}
	h.broadcast <- &broadcastMsg{
		room:    room,
		data:    data,
		exclude: exclude,
	}
}

// HandleSendMessage re-publishes an already-persisted message to the
// pair's room. The durable write happened over HTTP; this path only fans
// out and never writes.
func (h *Hub) HandleSendMessage(p MessageSendPayload) {
	ts := time.Now()
	if p.Timestamp != nil {
		ts = *p.Timestamp
	}
	room := domain.PairID(p.SenderHandle, p.ReceiverHandle)
	evt, err := NewEvent(EventTypeMessageNew, room, MessageRelayPayload{
		SenderHandle:   p.SenderHandle,
		ReceiverHandle: p.ReceiverHandle,
		Content:        p.Content,
		Timestamp:      ts,
	})
	if err != nil {
		return
	}
	h.BroadcastToRoom(room, evt, nil)
}

// HandleTyping fans out a typing indicator to the pair's room, excluding
// the sender. Ephemeral: no persistence, no delivery guarantee.
func (h *Hub) HandleTyping(sender *Client, p TypingPayload) {
	handle, ok := h.sessions.HandleOf(sender.session.ID)
	if !ok {
		sender.sendError("NOT_IDENTIFIED", "identify before sending typing events")
		return
	}
	room := domain.PairID(handle, p.ReceiverHandle)
	evt, err := NewEvent(EventTypeUserTyping, room, UserTypingPayload{
		SenderHandle: handle,
		IsTyping:     p.IsTyping,
	})
	if err != nil {
		return
	}
	h.BroadcastToRoom(room, evt, &sender.session.ID)
}

// HandleMarkRead persists the directional read transition, then notifies
// the room so the original sender sees the receipt.
func (h *Hub) HandleMarkRead(sender *Client, p MarkReadPayload) {
	if p.SenderHandle == "" || p.ReceiverHandle == "" {
		sender.sendError("INVALID_PAYLOAD", "sender_handle and receiver_handle are required")
		return
	}

	if _, err := h.reads.MarkRead(context.Background(), p.SenderHandle, p.ReceiverHandle); err != nil {
		logrus.WithError(err).Error("ws hub: mark read failed")
		return
	}

	room := domain.PairID(p.SenderHandle, p.ReceiverHandle)
	evt, err := NewEvent(EventTypeMessagesRead, room, MessagesReadPayload{
		SenderHandle:   p.SenderHandle,
		ReceiverHandle: p.ReceiverHandle,
		ReadAt:         time.Now(),
	})
	if err != nil {
		return
	}
	h.BroadcastToRoom(room, evt, nil)
}
