package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/domain"
	"github.com/linkup-app/linkup/internal/service"
	"github.com/linkup-app/linkup/internal/transport/http/middleware"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	sender := middleware.GetHandle(r.Context())

	var input struct {
		ReceiverHandle string             `json:"receiver_handle"`
		Content        string             `json:"content"`
		Type           domain.MessageType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	msg, err := h.messageService.Send(r.Context(), sender, input.ReceiverHandle, input.Content, input.Type)
	if err != nil {
		writeAppError(w, err, "send message")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// List returns the caller's conversation with the peer in the path,
// newest first by default; ?order=asc flips to chronological display,
// ?limit= and ?offset= page through it.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())
	peer := r.PathValue("peer")
	if peer == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PEER", "peer handle is required")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o > 0 {
			offset = o
		}
	}
	ascending := r.URL.Query().Get("order") == "asc"

	msgs, err := h.messageService.List(r.Context(), handle, peer, limit, offset, ascending)
	if err != nil {
		writeAppError(w, err, "list messages")
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

// MarkRead bulk-transitions the sender→receiver direction to read.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	receiver := middleware.GetHandle(r.Context())

	var input struct {
		SenderHandle string `json:"sender_handle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.SenderHandle == "" {
		writeError(w, http.StatusBadRequest, "MISSING_SENDER", "sender_handle is required")
		return
	}

	affected, err := h.messageService.MarkRead(r.Context(), input.SenderHandle, receiver)
	if err != nil {
		writeAppError(w, err, "mark read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "marked": affected})
}

func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())

	count, err := h.messageService.UnreadCount(r.Context(), handle)
	if err != nil {
		writeAppError(w, err, "unread count")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())
	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	msg, err := h.messageService.Edit(r.Context(), handle, messageID, input.Content)
	if err != nil {
		writeAppError(w, err, "edit message")
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())
	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	if err := h.messageService.SoftDelete(r.Context(), handle, messageID); err != nil {
		writeAppError(w, err, "delete message")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
