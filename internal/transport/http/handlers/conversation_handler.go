package handlers

import (
	"net/http"

	"github.com/linkup-app/linkup/internal/service"
	"github.com/linkup-app/linkup/internal/transport/http/middleware"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
}

func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// List synchronizes conversations against the caller's friend list before
// reading, so new friendships always surface a conversation row.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())

	convs, err := h.conversationService.ListForUser(r.Context(), handle)
	if err != nil {
		writeAppError(w, err, "list conversations")
		return
	}

	writeJSON(w, http.StatusOK, convs)
}

// Sync eagerly materializes conversation rows for every current friend and
// reports how many were created.
func (h *ConversationHandler) Sync(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())

	created, err := h.conversationService.EnsureConversationsFor(r.Context(), handle)
	if err != nil {
		writeAppError(w, err, "sync conversations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
