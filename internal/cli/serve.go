package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-chatsync/internal/app"
	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
)

// NewServeCommand runs the HTTP server until SIGINT or SIGTERM.
func NewServeCommand(root *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.ServerPort = port
			}
			logger := root.logger(cfg)

			db, err := repository.Open(cfg.DatabasePath, cfg.LogLevel == "debug")
			if err != nil {
				return err
			}
			if err := repository.Migrate(db); err != nil {
				_ = repository.Close(db)
				return err
			}

			application, err := app.New(cfg, db, logger, domain.SystemClock{})
			if err != nil {
				_ = repository.Close(db)
				return err
			}
			defer application.Close()

			srv := &http.Server{
				Addr:              ":" + cfg.ServerPort,
				Handler:           application.Handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting",
					"port", cfg.ServerPort,
					"env", cfg.Environment,
					"auth_mode", cfg.AuthMode,
					"id_allocator", cfg.IDAllocator)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server startup failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down server gracefully")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			logger.Info("server stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides SERVER_PORT)")
	return cmd
}
