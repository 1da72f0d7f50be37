// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/dtos"
	"github.com/iyunix/go-chatsync/internal/middleware"
	"github.com/iyunix/go-chatsync/internal/repository"
)

// maxBodyBytes leaves room for base64 image payloads in pushed messages.
const maxBodyBytes = 32 << 20

// Logger mirrors services.Logger.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, dtos.ErrorResponse{Success: false, Error: message})
}

// writeDomainError maps the error kind to a status. fallback is the error text
// for kinds without a fixed one.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	kind := domain.KindOf(err)
	resp := dtos.ErrorResponse{Success: false, Error: fallback, Kind: string(kind)}

	status := http.StatusInternalServerError
	switch kind {
	case domain.ErrKindNotFound:
		status = http.StatusNotFound
		resp.Error = "Not found"
		resp.Message = domain.MessageOf(err)
	case domain.ErrKindConflict:
		status = http.StatusConflict
		resp.Error = "Conflict"
		resp.Message = domain.MessageOf(err)
	case domain.ErrKindQuotaExceeded:
		status = http.StatusBadRequest
		resp.Error = "Chat limit exceeded"
		resp.Message = domain.MessageOf(err)
	case domain.ErrKindValidation:
		status = http.StatusBadRequest
		resp.Error = "Validation failed"
		resp.Message = domain.MessageOf(err)
	default:
		resp.Message = "internal error"
	}
	writeJSON(w, status, resp)
}

// ownerFromRequest reads the owner the auth middleware attached. Routes are only
// mounted behind it, so a miss means a wiring error; it still answers 401.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return ownerID, true
}

func pathID(r *http.Request, name string) (uint64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func parsePage(r *http.Request) (repository.Page, error) {
	var page repository.Page
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page, fmt.Errorf("invalid limit %q", raw)
		}
		page.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page, fmt.Errorf("invalid offset %q", raw)
		}
		page.Offset = n
	}
	return page, nil
}

// decodeJSON reads a JSON body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
