package postgres

import (
	"context"
	"errors"
	"fmt"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoArmGo/PassesApp/internal/apperror"
	"github.com/GoArmGo/PassesApp/internal/domain"
)

// PassReadModel — читающая сторона хранилища перевалов на GORM.
// Пишущая сторона (sqlx, явные транзакции) живёт в database/storage;
// воркеру зеркалирования хватает простых выборок.
type PassReadModel struct {
	db *gorm.DB
}

// OpenGorm открывает GORM-подключение поверх той же БД.
func OpenGorm(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия GORM-подключения: %w", err)
	}
	return db, nil
}

func NewPassReadModel(db *gorm.DB) *PassReadModel {
	return &PassReadModel{db: db}
}

// GetPassWithImages получает перевал и его фотографии в порядке добавления.
func (m *PassReadModel) GetPassWithImages(ctx context.Context, id int64) (*domain.Pass, []domain.Image, error) {
	var pass domain.Pass
	result := m.db.WithContext(ctx).First(&pass, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.NotFound("перевал", id)
		}
		return nil, nil, fmt.Errorf("ошибка при получении перевала по ID: %w", result.Error)
	}

	var images []domain.Image
	result = m.db.WithContext(ctx).
		Where("pass_id = ?", id).
		Order("position ASC").
		Find(&images)
	if result.Error != nil {
		return nil, nil, fmt.Errorf("ошибка при получении фотографий перевала: %w", result.Error)
	}

	return &pass, images, nil
}
