package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PassesApp/internal/apperror"
	"github.com/GoArmGo/PassesApp/internal/core/ports"
	"github.com/GoArmGo/PassesApp/internal/messaging/payloads"
	"github.com/GoArmGo/PassesApp/internal/validation"
)

// submissionInteractor implements SubmissionUseCase
type submissionInteractor struct {
	validator   *validation.Validator
	userStorage ports.UserStorage
	passStorage ports.PassStorage
	publisher   ports.SubmissionPublisher
	logger      *slog.Logger
}

// NewSubmissionUseCase создает новый экземпляр SubmissionUseCase.
// publisher может быть nil — тогда события о принятых перевалах не публикуются.
func NewSubmissionUseCase(
	validator *validation.Validator,
	userStorage ports.UserStorage,
	passStorage ports.PassStorage,
	publisher ports.SubmissionPublisher,
	logger *slog.Logger,
) SubmissionUseCase {
	return &submissionInteractor{
		validator:   validator,
		userStorage: userStorage,
		passStorage: passStorage,
		publisher:   publisher,
		logger:      logger,
	}
}

// SubmitPass проводит заявку через пайплайн received -> validated ->
// user_resolved -> persisted. До успешной валидации ни одного обращения
// к хранилищу не происходит.
func (uc *submissionInteractor) SubmitPass(ctx context.Context, req *validation.SubmitPassRequest) (int64, error) {
	sub, err := uc.validator.ParseSubmission(req)
	if err != nil {
		uc.logger.Warn("submission rejected by validator", "error", err)
		return 0, err
	}

	userID, err := uc.userStorage.ResolveUserByEmail(ctx, &sub.User)
	if err != nil {
		uc.logger.Error("failed to resolve submitter", "email", sub.User.Email, "error", err)
		return 0, fmt.Errorf("%w: %s", apperror.ErrStorage, "Ошибка при создании пользователя")
	}

	sub.Pass.UserID = userID

	passID, err := uc.passStorage.CreatePass(ctx, &sub.Pass, &sub.Level, sub.Images)
	if err != nil {
		uc.logger.Error("failed to persist pass", "title", sub.Pass.Title, "error", err)
		return 0, fmt.Errorf("%w: %s", apperror.ErrStorage, "Ошибка при сохранении перевала")
	}

	uc.logger.Info("pass submitted",
		"pass_id", passID,
		"user_id", userID,
		"images", len(sub.Images),
	)

	// Публикация события — best effort: перевал уже сохранён,
	// отказ брокера не меняет исход заявки.
	if uc.publisher != nil {
		event := payloads.PassSubmittedPayload{
			PassID: passID,
			Title:  sub.Pass.Title,
			Email:  sub.User.Email,
		}
		if err := uc.publisher.PublishPassSubmitted(ctx, event); err != nil {
			uc.logger.Warn("failed to publish pass submitted event", "pass_id", passID, "error", err)
		}
	}

	return passID, nil
}
