package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/PassesApp/internal/validation"
)

// SubmissionUseCase определяет бизнес-логику приёма данных о перевале.
// Пайплайн: валидация схемы -> поиск/создание пользователя по email ->
// транзакционная запись перевала с категориями и фотографиями.
// Любая стадия обрывает пайплайн терминальным исходом, повторов нет.
type SubmissionUseCase interface {
	// SubmitPass проводит заявку через пайплайн и возвращает id созданного
	// перевала. Ошибка всегда несёт класс из apperror: ErrValidation —
	// дефект входных данных, ErrStorage — отказ хранилища.
	SubmitPass(ctx context.Context, req *validation.SubmitPassRequest) (int64, error)
}

// MirrorUseCase определяет логику зеркалирования фотографий принятого
// перевала в объектное хранилище (воркер).
type MirrorUseCase interface {
	MirrorPassImages(ctx context.Context, passID int64) error
}

// FileStorage определяет интерфейс для работы с объектным хранилищем (S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл и возвращает его публичный URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет файл по ключу.
	DeleteFile(ctx context.Context, key string) error
}
