package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PassesApp/internal/core/ports"
)

// mirrorInteractor implements MirrorUseCase
type mirrorInteractor struct {
	passReader  ports.PassReader
	fileStorage FileStorage
	logger      *slog.Logger
}

// NewMirrorUseCase создает новый экземпляр MirrorUseCase
func NewMirrorUseCase(
	passReader ports.PassReader,
	fileStorage FileStorage,
	logger *slog.Logger,
) MirrorUseCase {
	return &mirrorInteractor{
		passReader:  passReader,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// MirrorPassImages выгружает все фотографии перевала в объектное хранилище
// под ключами passes/<id>/<position>. Ошибка возвращается воркеру — тот
// вернёт событие в очередь (nack + requeue).
func (uc *mirrorInteractor) MirrorPassImages(ctx context.Context, passID int64) error {
	pass, images, err := uc.passReader.GetPassWithImages(ctx, passID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка чтения перевала %d: %w", passID, err)
	}

	if len(images) == 0 {
		uc.logger.Info("pass has no images to mirror", "pass_id", passID)
		return nil
	}

	for _, img := range images {
		contentType := http.DetectContentType(img.Data)

		key := fmt.Sprintf("passes/%d/%d", pass.ID, img.Position)
		url, err := uc.fileStorage.UploadFile(ctx, key, bytes.NewReader(img.Data), contentType)
		if err != nil {
			return fmt.Errorf("usecase: ошибка выгрузки фотографии %s: %w", key, err)
		}

		uc.logger.Info("image mirrored",
			"pass_id", pass.ID,
			"position", img.Position,
			"url", url,
		)
	}

	uc.logger.Info("pass images mirrored", "pass_id", pass.ID, "images", len(images))
	return nil
}
