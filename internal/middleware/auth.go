// File: internal/middleware/auth.go
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iyunix/go-chatsync/internal/auth"
)

const (
	AuthModeJWT    = "jwt"
	AuthModeHeader = "header"
)

// AuthConfig selects how the bearer credential is turned into an owner id.
// In jwt mode the token is verified and its subject is the owner. In header
// mode an upstream identity proxy has verified the token and forwards the
// owner in X-User-Id; the bearer header must still be present.
type AuthConfig struct {
	Mode      string
	SecretKey []byte
}

// NewAuthMiddleware rejects unauthenticated requests with 401 before any handler runs.
func NewAuthMiddleware(cfg AuthConfig, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.Debug("[AuthMiddleware] missing bearer token", "path", r.URL.Path)
				writeUnauthorized(w, "No token provided")
				return
			}

			var ownerID string
			switch cfg.Mode {
			case AuthModeHeader:
				ownerID = strings.TrimSpace(r.Header.Get(HeaderUserID))
				if ownerID == "" {
					logger.Debug("[AuthMiddleware] missing owner header", "path", r.URL.Path)
					writeUnauthorized(w, "Invalid token")
					return
				}
			default:
				var err error
				ownerID, err = auth.ValidateToken(token, cfg.SecretKey)
				if err != nil {
					logger.Debug("[AuthMiddleware] invalid token", "path", r.URL.Path, "error", err)
					writeUnauthorized(w, "Invalid token")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   "Unauthorized",
		"message": message,
	})
}
