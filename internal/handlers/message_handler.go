// File: internal/handlers/message_handler.go
package handlers

import (
	"net/http"

	"github.com/iyunix/go-chatsync/internal/dtos"
	"github.com/iyunix/go-chatsync/internal/services"
)

type MessageHandler struct {
	MessageService *services.MessageService
}

func NewMessageHandler(ms *services.MessageService) *MessageHandler {
	return &MessageHandler{MessageService: ms}
}

// ListMessages handles GET /api/chats/{id}/messages.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	messages, err := h.MessageService.ListMessages(r.Context(), ownerID, chatID, page)
	if err != nil {
		writeDomainError(w, err, "Failed to fetch messages")
		return
	}
	writeJSON(w, http.StatusOK, dtos.MessageListResponse{
		Success:  true,
		Messages: dtos.ToMessageDTOs(messages),
		Count:    len(messages),
	})
}

// CreateMessage handles POST /api/chats/{id}/messages. Any id in the body is ignored.
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req dtos.MessageDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.MessageService.CreateMessage(r.Context(), ownerID, chatID, req.ToDomain())
	if err != nil {
		writeDomainError(w, err, "Failed to create message")
		return
	}
	writeJSON(w, http.StatusCreated, dtos.MessageResponse{Success: true, Message: dtos.ToMessageDTO(*msg)})
}

// UpdateMessage handles PUT /api/chats/{id}/messages/{messageId}.
func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	messageID, err := pathID(r, "messageId")
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	var req dtos.UpdateMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.MessageService.UpdateMessage(r.Context(), ownerID, chatID, messageID, req.ToPatch())
	if err != nil {
		writeDomainError(w, err, "Failed to update message")
		return
	}
	writeJSON(w, http.StatusOK, dtos.MessageResponse{Success: true, Message: dtos.ToMessageDTO(*msg)})
}

// DeleteMessage handles DELETE /api/chats/{id}/messages/{messageId}.
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	messageID, err := pathID(r, "messageId")
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	if err := h.MessageService.DeleteMessage(r.Context(), ownerID, chatID, messageID); err != nil {
		writeDomainError(w, err, "Failed to delete message")
		return
	}
	writeJSON(w, http.StatusOK, dtos.StatusResponse{Success: true, Message: "Message deleted successfully"})
}
