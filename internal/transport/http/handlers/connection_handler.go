package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/linkup-app/linkup/internal/service"
	"github.com/linkup-app/linkup/internal/transport/http/middleware"
)

type ConnectionHandler struct {
	connectionService *service.ConnectionService
}

func NewConnectionHandler(connectionService *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

func (h *ConnectionHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())

	var input struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if input.Username == "" {
		writeError(w, http.StatusBadRequest, "MISSING_USERNAME", "username is required")
		return
	}

	req, err := h.connectionService.SendRequest(r.Context(), handle, input.Username)
	if err != nil {
		writeAppError(w, err, "send connection request")
		return
	}

	if req == nil {
		// Reverse request existed and was auto-accepted.
		writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *ConnectionHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	if err := h.connectionService.AcceptRequest(r.Context(), handle, requestID); err != nil {
		writeAppError(w, err, "accept connection request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

func (h *ConnectionHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	if err := h.connectionService.RejectRequest(r.Context(), handle, requestID); err != nil {
		writeAppError(w, err, "reject connection request")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ConnectionHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())

	reqs, err := h.connectionService.ListIncomingRequests(r.Context(), handle)
	if err != nil {
		writeAppError(w, err, "list incoming requests")
		return
	}

	writeJSON(w, http.StatusOK, reqs)
}

func (h *ConnectionHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())

	reqs, err := h.connectionService.ListOutgoingRequests(r.Context(), handle)
	if err != nil {
		writeAppError(w, err, "list outgoing requests")
		return
	}

	writeJSON(w, http.StatusOK, reqs)
}

func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	handle := middleware.GetHandle(r.Context())

	conns, err := h.connectionService.ListConnections(r.Context(), handle)
	if err != nil {
		writeAppError(w, err, "list connections")
		return
	}

	writeJSON(w, http.StatusOK, conns)
}
