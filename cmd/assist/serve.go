package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/common/middleware"
	"github.com/telhawk-systems/telhawk-assist/internal/handlers"
	"github.com/telhawk-systems/telhawk-assist/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assist HTTP service",
	Long:  "Serve the chat, history, dashboard statistics and tool catalog API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, os.Stdout).With(logging.Service("assist"))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		handler := handlers.NewHandler(a.service, logger)
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSAllowedOrigins
		router := middleware.CORS(cors)(server.NewRouter(handler))

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Assist service listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
		case <-ctx.Done():
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logger.Info("Server stopped gracefully")
		return nil
	},
}
