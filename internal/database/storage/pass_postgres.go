package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/PassesApp/internal/domain"
)

// PassStorage реализует ports.PassStorage поверх PostgreSQL
type PassStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPassStorage(db *sqlx.DB, logger *slog.Logger) *PassStorage {
	return &PassStorage{db: db, logger: logger}
}

// CreatePass создаёт перевал со статусом new, его строку категорий сложности
// и все фотографии в одной транзакции (read committed). Любая ошибка на любом
// шаге откатывает транзакцию целиком — читатели никогда не видят перевал без
// категорий или с неполным набором фотографий.
func (s *PassStorage) CreatePass(ctx context.Context, pass *domain.Pass, level *domain.DifficultyLevel, images []domain.Image) (int64, error) {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		s.logger.Error("failed to begin transaction", "error", err)
		return 0, fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	// Rollback после Commit — no-op, поэтому defer безопасен на всех путях.
	defer tx.Rollback()

	var passID int64
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO passes (beauty_title, title, other_titles, connect,
		                    add_time, user_id, latitude, longitude, height, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, pass.BeautyTitle, pass.Title, pass.OtherTitles, pass.Connect,
		pass.AddTime, pass.UserID, pass.Latitude, pass.Longitude, pass.Height,
		domain.StatusNew).Scan(&passID)
	if err != nil {
		s.logger.Error("failed to insert pass", "title", pass.Title, "error", err)
		return 0, fmt.Errorf("ошибка при создании перевала: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO difficulty_levels (pass_id, winter, spring, summer, autumn)
		VALUES ($1, $2, $3, $4, $5)
	`, passID, level.Winter, level.Spring, level.Summer, level.Autumn)
	if err != nil {
		s.logger.Error("failed to insert difficulty levels", "pass_id", passID, "error", err)
		return 0, fmt.Errorf("ошибка при создании категорий сложности: %w", err)
	}

	for i := range images {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO images (pass_id, title, data, position)
			VALUES ($1, $2, $3, $4)
		`, passID, images[i].Title, images[i].Data, images[i].Position)
		if err != nil {
			s.logger.Error("failed to insert image",
				"pass_id", passID,
				"position", images[i].Position,
				"error", err,
			)
			return 0, fmt.Errorf("ошибка при сохранении фотографии: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("failed to commit pass transaction", "pass_id", passID, "error", err)
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	s.logger.Info("pass saved successfully",
		"pass_id", passID,
		"images", len(images),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return passID, nil
}
