// File: internal/handlers/router.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iyunix/go-chatsync/internal/metrics"
	"github.com/iyunix/go-chatsync/internal/middleware"
	"github.com/iyunix/go-chatsync/internal/ratelimit"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Sync     *SyncHandler
	Chats    *ChatHandler
	Messages *MessageHandler
	Memories *MemoryHandler

	Auth    middleware.AuthConfig
	Limiter *ratelimit.Pool
	Metrics *metrics.Metrics
	Logger  Logger

	// Ping checks the store for /health. Nil skips the check.
	Ping func(ctx context.Context) error
}

func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(d.Logger))
	r.Use(middleware.LoggingMiddleware(d.Logger))
	r.Use(middleware.MetricsMiddleware(d.Metrics))

	// --- Public Routes ---
	r.HandleFunc("/health", healthHandler(d.Ping)).Methods("GET")
	r.Handle("/metrics", d.Metrics.Handler()).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewAuthMiddleware(d.Auth, d.Logger))
	if d.Limiter != nil {
		api.Use(middleware.RateLimitMiddleware(d.Limiter, d.Metrics, d.Logger))
	}

	api.HandleFunc("/sync", d.Sync.Pull).Methods("GET")
	api.HandleFunc("/sync", d.Sync.Push).Methods("POST")

	api.HandleFunc("/chats", d.Chats.ListChats).Methods("GET")
	api.HandleFunc("/chats", d.Chats.CreateChat).Methods("POST")
	api.HandleFunc("/chats", d.Chats.DeleteAllChats).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}", d.Chats.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}", d.Chats.UpdateChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}", d.Chats.DeleteChat).Methods("DELETE")

	api.HandleFunc("/chats/{id:[0-9]+}/messages", d.Messages.ListMessages).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", d.Messages.CreateMessage).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}/messages/{messageId:[0-9]+}", d.Messages.UpdateMessage).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}/messages/{messageId:[0-9]+}", d.Messages.DeleteMessage).Methods("DELETE")

	api.HandleFunc("/memories", d.Memories.ListMemories).Methods("GET")
	api.HandleFunc("/memories", d.Memories.CreateMemory).Methods("POST")
	api.HandleFunc("/memories/{id:[0-9]+}", d.Memories.UpdateMemory).Methods("PUT")
	api.HandleFunc("/memories/{id:[0-9]+}", d.Memories.DeleteMemory).Methods("DELETE")

	// --- Custom Error Handlers ---
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Route not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-User-Id, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
