// File: internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/iyunix/go-chatsync/internal/config"
	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/handlers"
	"github.com/iyunix/go-chatsync/internal/metrics"
	"github.com/iyunix/go-chatsync/internal/middleware"
	"github.com/iyunix/go-chatsync/internal/ratelimit"
	"github.com/iyunix/go-chatsync/internal/repository"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/repository/message"
	"github.com/iyunix/go-chatsync/internal/services"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
	"github.com/iyunix/go-chatsync/internal/services/quota"
	"github.com/iyunix/go-chatsync/internal/services/reconcile"
)

// Application aggregates all services and handlers
type Application struct {
	Config  *config.Config
	Logger  services.Logger
	DB      *gorm.DB
	Metrics *metrics.Metrics
	Limiter *ratelimit.Pool

	Engine         *reconcile.Engine
	ChatService    *services.ChatService
	MessageService *services.MessageService
	MemoryService  *services.MemoryService

	Handler http.Handler
}

// New wires the application on an open, migrated database.
func New(cfg *config.Config, db *gorm.DB, logger services.Logger, clock domain.Clock) (*Application, error) {
	if clock == nil {
		clock = domain.SystemClock{}
	}

	// --- Repositories ---
	chatRepo := chat.NewChatRepository(db, logger)
	messageRepo := message.NewMessageRepository(db, logger)
	memoryRepo := memory.NewMemoryRepository(db, logger)

	// --- Allocation & quota ---
	allocCfg := &allocator.Config{Strategy: cfg.IDAllocator, MaxAttempts: cfg.IDAllocatorRetries}
	if err := allocCfg.Validate(); err != nil {
		return nil, fmt.Errorf("allocator config: %w", err)
	}
	alloc := allocator.New(
		allocCfg,
		allocator.NewMaxAllocator(chatRepo, messageRepo, memoryRepo),
		allocator.NewCounterAllocator(db, logger),
	)
	creator := allocator.NewCreator(alloc, allocCfg, logger)
	guard := quota.NewGuard(chatRepo, cfg.MaxChatsPerOwner)

	// --- Services ---
	engine := reconcile.NewEngine(chatRepo, messageRepo, memoryRepo, creator, clock, logger)
	chatService := services.NewChatService(chatRepo, messageRepo, creator, guard, clock, logger)
	messageService := services.NewMessageService(chatRepo, messageRepo, creator, clock, logger)
	memoryService := services.NewMemoryService(memoryRepo, creator, clock, logger)

	m := metrics.NewMetrics()
	limiter := ratelimit.NewPool(&ratelimit.Config{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	})

	// --- Handlers ---
	router := handlers.NewRouter(handlers.RouterDeps{
		Sync:     handlers.NewSyncHandler(engine, m, logger),
		Chats:    handlers.NewChatHandler(chatService, m),
		Messages: handlers.NewMessageHandler(messageService),
		Memories: handlers.NewMemoryHandler(memoryService),
		Auth: middleware.AuthConfig{
			Mode:      cfg.AuthMode,
			SecretKey: []byte(cfg.JWTSecretKey),
		},
		Limiter: limiter,
		Metrics: m,
		Logger:  logger,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	return &Application{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Metrics:        m,
		Limiter:        limiter,
		Engine:         engine,
		ChatService:    chatService,
		MessageService: messageService,
		MemoryService:  memoryService,
		Handler:        router,
	}, nil
}

// Close stops background work and releases the database.
func (a *Application) Close() error {
	a.Limiter.Close()
	return repository.Close(a.DB)
}
