package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/PassesApp/internal/config"
	"github.com/GoArmGo/PassesApp/internal/core/ports"
	"github.com/GoArmGo/PassesApp/internal/usecase"
)

type App struct {
	Config            *config.Config
	logger            *slog.Logger
	db                *sqlx.DB
	submissionUseCase usecase.SubmissionUseCase
	mirrorUseCase     usecase.MirrorUseCase
	consumer          ports.SubmissionConsumer
	publisher         ports.SubmissionPublisher
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	db *sqlx.DB,
	submissionUseCase usecase.SubmissionUseCase,
	mirrorUseCase usecase.MirrorUseCase,
	publisher ports.SubmissionPublisher,
	consumer ports.SubmissionConsumer,
) *App {
	return &App{
		Config:            cfg,
		logger:            logger,
		db:                db,
		submissionUseCase: submissionUseCase,
		mirrorUseCase:     mirrorUseCase,
		publisher:         publisher,
		consumer:          consumer,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

func (a *App) Run(ctx context.Context, mode string) error {
	// graceful shutdown по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("application starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, a.Config, a.logger, a.submissionUseCase, a.db)
	case "worker":
		err = runWorker(ctx, a.logger, a.mirrorUseCase, a.consumer)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	if err != nil {
		return err
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown error", "error", closeErr)
	}

	a.logger.Info("application stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}

	if closer, ok := a.publisher.(interface{ Close() error }); ok && closer != nil {
		_ = closer.Close()
	}
	if closer, ok := a.consumer.(interface{ Close() error }); ok && closer != nil {
		_ = closer.Close()
	}

	return nil
}
