// File: internal/handlers/sync_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/iyunix/go-chatsync/internal/dtos"
	"github.com/iyunix/go-chatsync/internal/metrics"
	"github.com/iyunix/go-chatsync/internal/services/reconcile"
)

type SyncHandler struct {
	Engine  *reconcile.Engine
	Metrics *metrics.Metrics
	Logger  Logger
}

func NewSyncHandler(engine *reconcile.Engine, m *metrics.Metrics, logger Logger) *SyncHandler {
	return &SyncHandler{Engine: engine, Metrics: m, Logger: logger}
}

// Pull handles GET /api/sync?since=<ISO-8601>.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var since *time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := dtos.ParseTime(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dtos.ErrorResponse{
				Success: false,
				Error:   "Invalid since parameter",
				Kind:    "VALIDATION",
				Message: err.Error(),
			})
			return
		}
		since = &parsed
	}

	result, err := h.Engine.Pull(r.Context(), ownerID, since)
	if err != nil {
		h.Metrics.RecordPull(since != nil, err, 0, 0, 0)
		h.Logger.Error("[SyncHandler] pull failed", "owner_id", ownerID, "error", err)
		writeDomainError(w, err, "Failed to sync")
		return
	}
	h.Metrics.RecordPull(since != nil, nil, len(result.Chats), len(result.Messages), len(result.Memories))

	writeJSON(w, http.StatusOK, dtos.ToSyncPullResponse(result))
}

// Push handles POST /api/sync. Item failures are reported in the body with 200.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req dtos.SyncPushRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, dtos.ErrorResponse{
			Success: false,
			Error:   "Invalid request body",
			Kind:    "VALIDATION",
			Message: err.Error(),
		})
		return
	}

	result, err := h.Engine.Push(r.Context(), ownerID, req.ToBatch())
	if err != nil {
		h.Logger.Error("[SyncHandler] push failed", "owner_id", ownerID, "error", err)
		writeDomainError(w, err, "Failed to push sync")
		return
	}

	h.Metrics.RecordPushBatch("chat", result.Chats.Created, result.Chats.Updated, len(result.Chats.Errors))
	h.Metrics.RecordPushBatch("message", result.Messages.Created, result.Messages.Updated, len(result.Messages.Errors))
	h.Metrics.RecordPushBatch("memory", result.Memories.Created, result.Memories.Updated, len(result.Memories.Errors))

	writeJSON(w, http.StatusOK, dtos.ToSyncPushResponse(result))
}
