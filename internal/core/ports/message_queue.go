package ports

import (
	"context"

	"github.com/GoArmGo/PassesApp/internal/messaging/payloads"
)

// SubmissionPublisher определяет методы для публикации событий о новых перевалах
// Используется HTTP-сервером после успешной записи в БД
type SubmissionPublisher interface {
	PublishPassSubmitted(ctx context.Context, payload payloads.PassSubmittedPayload) error
}

// SubmissionConsumer определяет методы для потребления событий о новых перевалах
// Используется воркером зеркалирования фотографий
type SubmissionConsumer interface {
	// StartConsumingPassSubmitted начинает прослушивание очереди.
	// Принимает функцию-обработчик, которая вызывается для каждого события.
	StartConsumingPassSubmitted(ctx context.Context, handler func(context.Context, payloads.PassSubmittedPayload) error) error
}
