package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/PassesApp/internal/config"
	"github.com/GoArmGo/PassesApp/internal/handler"
	"github.com/GoArmGo/PassesApp/internal/usecase"
)

// runServer запускает HTTP сервер приёма данных о перевалах
func runServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	submissionUseCase usecase.SubmissionUseCase,
	db *sqlx.DB,
) error {
	passHandler := handler.NewPassHandler(submissionUseCase, db, logger)

	r := chi.NewRouter()
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Post("/submitData", passHandler.SubmitData)
	r.Get("/", passHandler.Root)
	r.Get("/health", passHandler.Health)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка HTTP сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping HTTP server")

	ctxServer, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("HTTP server stopped gracefully")
	return nil
}
