package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection. The expected handle
// comes from the connection token; identify must announce the same one
// before handle-bound events are accepted.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	session *Session

	// expectedHandle is the authenticated subject from the upgrade token.
	expectedHandle string

	// rooms tracks which pair rooms this client listens to.
	rooms map[string]struct{}
	mu    sync.RWMutex

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, session *Session, expectedHandle string) *Client {
	return &Client{
		hub:            hub,
		conn:           conn,
		session:        session,
		expectedHandle: expectedHandle,
		rooms:          make(map[string]struct{}),
		send:           make(chan []byte, sendBufSize),
		done:           make(chan struct{}),
	}
}

// InRoom checks if this client is subscribed to a room.
func (c *Client) InRoom(room string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

// JoinRoom adds a room subscription. Idempotent.
func (c *Client) JoinRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room] = struct{}{}
}

// ReadPump reads events from the WebSocket and routes them to the Hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				logrus.WithField("session", c.session.ID).Debug("ws client disconnected")
			} else {
				logrus.WithField("session", c.session.ID).WithError(err).Debug("ws read error")
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				logrus.WithField("session", c.session.ID).WithError(err).Debug("ws write error")
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				logrus.WithField("session", c.session.ID).WithError(err).Debug("ws ping error")
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeIdentify:
		var p IdentifyPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.Handle == "" {
			c.sendError("INVALID_PAYLOAD", "invalid identify payload")
			return
		}
		if p.Handle != c.expectedHandle {
			c.sendError("HANDLE_MISMATCH", "announced handle does not match token")
			return
		}
		c.hub.sessions.Identify(c.session.ID, p.Handle)
		logrus.WithFields(logrus.Fields{
			"session": c.session.ID,
			"handle":  p.Handle,
		}).Info("ws session identified")

	case EventTypeRoomJoin:
		var p RoomJoinPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.Room == "" {
			c.sendError("INVALID_PAYLOAD", "invalid room.join payload")
			return
		}
		c.JoinRoom(p.Room)
		logrus.WithFields(logrus.Fields{
			"session": c.session.ID,
			"room":    p.Room,
		}).Debug("ws session joined room")

	case EventTypeMessageSend:
		var p MessageSendPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil ||
			p.SenderHandle == "" || p.ReceiverHandle == "" {
			c.sendError("INVALID_PAYLOAD", "invalid message.send payload")
			return
		}
		c.hub.HandleSendMessage(p)

	case EventTypeTyping:
		var p TypingPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.ReceiverHandle == "" {
			c.sendError("INVALID_PAYLOAD", "invalid typing payload")
			return
		}
		c.hub.HandleTyping(c, p)

	case EventTypeMarkRead:
		var p MarkReadPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid read.mark payload")
			return
		}
		c.hub.HandleMarkRead(c, p)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, "", ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
