package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GoArmGo/PassesApp/internal/domain"
)

// Код ошибки PostgreSQL unique_violation.
const pqUniqueViolation = "23505"

// UserStorage реализует ports.UserStorage поверх PostgreSQL
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// ResolveUserByEmail ищет пользователя по email и возвращает его id,
// при отсутствии — создаёт. Поля уже существующего пользователя не
// перезаписываются, даже если в новой заявке они отличаются.
func (s *UserStorage) ResolveUserByEmail(ctx context.Context, user *domain.User) (int64, error) {
	start := time.Now()

	id, err := s.findByEmail(ctx, user.Email)
	if err == nil {
		s.logger.Info("user resolved by email",
			"user_id", id,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("failed to select user by email", "error", err)
		return 0, fmt.Errorf("ошибка поиска пользователя по email: %w", err)
	}

	err = s.db.QueryRowxContext(ctx, `
		INSERT INTO users (email, phone, fam, name, otc)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Email, user.Phone, user.Fam, user.Name, user.Otc).Scan(&id)

	if err == nil {
		s.logger.Info("user created",
			"user_id", id,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return id, nil
	}

	// Гонка: параллельная заявка с тем же email успела вставить строку
	// первой. Уникальный индекс по email — арбитр, проигравший повторяет
	// поиск ровно один раз.
	if isUniqueViolation(err) {
		s.logger.Warn("duplicate email insert race, re-resolving", "error", err)

		id, err = s.findByEmail(ctx, user.Email)
		if err != nil {
			s.logger.Error("failed to re-resolve user after unique violation", "error", err)
			return 0, fmt.Errorf("ошибка повторного поиска пользователя: %w", err)
		}

		s.logger.Info("user resolved after insert race",
			"user_id", id,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return id, nil
	}

	s.logger.Error("failed to insert user", "error", err)
	return 0, fmt.Errorf("ошибка при создании пользователя: %w", err)
}

func (s *UserStorage) findByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	// Точное регистрозависимое совпадение, без нормализации email.
	err := s.db.GetContext(ctx, &id, `SELECT id FROM users WHERE email = $1`, email)
	return id, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
