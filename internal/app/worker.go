package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PassesApp/internal/core/ports"
	"github.com/GoArmGo/PassesApp/internal/messaging/payloads"
	"github.com/GoArmGo/PassesApp/internal/usecase"
)

// runWorker запускает воркер зеркалирования фотографий:
// потребляет события о принятых перевалах и выгружает их фотографии в MinIO
func runWorker(
	ctx context.Context,
	logger *slog.Logger,
	mirrorUseCase usecase.MirrorUseCase,
	consumer ports.SubmissionConsumer,
) error {
	logger.Info("worker started, waiting for pass submitted events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	messageHandler := func(ctx context.Context, payload payloads.PassSubmittedPayload) error {
		logger.Info("worker: processing pass submitted event", "pass_id", payload.PassID, "title", payload.Title)

		if err := mirrorUseCase.MirrorPassImages(ctx, payload.PassID); err != nil {
			logger.Error("worker: failed to mirror pass images", "pass_id", payload.PassID, "error", err)
			return err
		}

		logger.Info("worker: event processed", "pass_id", payload.PassID)
		return nil
	}

	if err := consumer.StartConsumingPassSubmitted(workerCtx, messageHandler); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	logger.Info("worker: shutdown signal received, stopping")
	return nil
}
