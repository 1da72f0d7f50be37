// File: internal/handlers/memory_handler.go
package handlers

import (
	"net/http"

	"github.com/iyunix/go-chatsync/internal/dtos"
	"github.com/iyunix/go-chatsync/internal/services"
)

type MemoryHandler struct {
	MemoryService *services.MemoryService
}

func NewMemoryHandler(ms *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{MemoryService: ms}
}

func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	memories, err := h.MemoryService.ListMemories(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, err, "Failed to fetch memories")
		return
	}
	writeJSON(w, http.StatusOK, dtos.MemoryListResponse{
		Success:  true,
		Memories: dtos.ToMemoryDTOs(memories),
		Count:    len(memories),
	})
}

func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req dtos.CreateMemoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mem, err := h.MemoryService.CreateMemory(r.Context(), ownerID, services.NewMemory{
		Content:   req.Content,
		CreatedAt: req.CreatedAt.Ptr(),
		UpdatedAt: req.UpdatedAt.Ptr(),
	})
	if err != nil {
		writeDomainError(w, err, "Failed to create memory")
		return
	}
	writeJSON(w, http.StatusCreated, dtos.MemoryResponse{Success: true, Memory: dtos.ToMemoryDTO(*mem)})
}

func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	memoryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid memory ID", http.StatusBadRequest)
		return
	}

	var req dtos.UpdateMemoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mem, err := h.MemoryService.UpdateMemory(r.Context(), ownerID, memoryID, req.Content)
	if err != nil {
		writeDomainError(w, err, "Failed to update memory")
		return
	}
	writeJSON(w, http.StatusOK, dtos.MemoryResponse{Success: true, Memory: dtos.ToMemoryDTO(*mem)})
}

func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}
	memoryID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid memory ID", http.StatusBadRequest)
		return
	}

	if err := h.MemoryService.DeleteMemory(r.Context(), ownerID, memoryID); err != nil {
		writeDomainError(w, err, "Failed to delete memory")
		return
	}
	writeJSON(w, http.StatusOK, dtos.StatusResponse{Success: true, Message: "Memory deleted successfully"})
}
