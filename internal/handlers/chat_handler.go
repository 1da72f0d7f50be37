// File: internal/handlers/chat_handler.go
package handlers

import (
	"net/http"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/dtos"
	"github.com/iyunix/go-chatsync/internal/metrics"
	"github.com/iyunix/go-chatsync/internal/services"
)

type ChatHandler struct {
	ChatService *services.ChatService
	Metrics     *metrics.Metrics
}

func NewChatHandler(cs *services.ChatService, m *metrics.Metrics) *ChatHandler {
	return &ChatHandler{ChatService: cs, Metrics: m}
}

// ListChats handles GET /api/chats.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	chats, err := h.ChatService.ListChats(r.Context(), ownerID, page)
	if err != nil {
		writeDomainError(w, err, "Failed to fetch chats")
		return
	}
	writeJSON(w, http.StatusOK, dtos.ChatListResponse{
		Success: true,
		Chats:   dtos.ToChatDTOs(chats),
		Count:   len(chats),
	})
}

// CreateChat handles POST /api/chats.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req dtos.CreateChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	chat, err := h.ChatService.CreateChat(r.Context(), ownerID, services.NewChat{
		Title:     req.Title,
		CreatedAt: req.CreatedAt.Ptr(),
		UpdatedAt: req.UpdatedAt.Ptr(),
	})
	if err != nil {
		if domain.IsKind(err, domain.ErrKindQuotaExceeded) {
			h.Metrics.QuotaRejectedTotal.Inc()
		}
		writeDomainError(w, err, "Failed to create chat")
		return
	}
	writeJSON(w, http.StatusCreated, dtos.ChatResponse{Success: true, Chat: dtos.ToChatDTO(*chat)})
}

// GetChat handles GET /api/chats/{id}.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	chat, err := h.ChatService.GetChat(r.Context(), ownerID, chatID)
	if err != nil {
		writeDomainError(w, err, "Failed to fetch chat")
		return
	}
	writeJSON(w, http.StatusOK, dtos.ChatResponse{Success: true, Chat: dtos.ToChatDTO(*chat)})
}

// UpdateChat handles PUT /api/chats/{id}.
func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req dtos.UpdateChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	chat, err := h.ChatService.UpdateChat(r.Context(), ownerID, chatID, services.ChatUpdate{
		Title:     req.Title,
		UpdatedAt: req.UpdatedAt.Ptr(),
	})
	if err != nil {
		writeDomainError(w, err, "Failed to update chat")
		return
	}
	writeJSON(w, http.StatusOK, dtos.ChatResponse{Success: true, Chat: dtos.ToChatDTO(*chat)})
}

// DeleteChat handles DELETE /api/chats/{id}.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.DeleteChat(r.Context(), ownerID, chatID); err != nil {
		writeDomainError(w, err, "Failed to delete chat")
		return
	}
	writeJSON(w, http.StatusOK, dtos.StatusResponse{Success: true, Message: "Chat deleted successfully"})
}

// DeleteAllChats handles DELETE /api/chats.
func (h *ChatHandler) DeleteAllChats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	if _, err := h.ChatService.DeleteAllChats(r.Context(), ownerID); err != nil {
		writeDomainError(w, err, "Failed to delete all chats")
		return
	}
	writeJSON(w, http.StatusOK, dtos.StatusResponse{Success: true, Message: "All chats deleted successfully"})
}
