package ws

import (
	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/sirupsen/logrus"
)

// HubNotifier implements service.Notifier using the WebSocket Hub. Room
// names equal conversation canonical IDs, so persisted changes map
// directly onto broadcast rooms.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageNew, msg.ConversationID, MessagePayload{Message: *msg})
	if err != nil {
		logrus.WithError(err).Error("ws notifier: marshal error")
		return
	}
	n.hub.BroadcastToRoom(msg.ConversationID, evt, nil)
}

func (n *HubNotifier) NotifyEditedMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageEdited, msg.ConversationID, MessagePayload{Message: *msg})
	if err != nil {
		logrus.WithError(err).Error("ws notifier: marshal error")
		return
	}
	n.hub.BroadcastToRoom(msg.ConversationID, evt, nil)
}

func (n *HubNotifier) NotifyDeletedMessage(conversationID string, messageID uuid.UUID) {
	evt, err := NewEvent(EventTypeMessageDeleted, conversationID, MessageDeletedPayload{ID: messageID})
	if err != nil {
		logrus.WithError(err).Error("ws notifier: marshal error")
		return
	}
	n.hub.BroadcastToRoom(conversationID, evt, nil)
}
