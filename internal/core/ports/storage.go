package ports

import (
	"context"

	"github.com/GoArmGo/PassesApp/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// ResolveUserByEmail ищет пользователя по email и возвращает его id.
	// Если пользователя нет — создаёт. Гонку двух одновременных вставок
	// разрешает уникальный индекс по email: проигравший повторяет поиск
	// ровно один раз.
	ResolveUserByEmail(ctx context.Context, user *domain.User) (int64, error)
}

// PassStorage определяет методы для записи перевала в хранилище
type PassStorage interface {
	// CreatePass создаёт перевал, его строку категорий сложности и все
	// фотографии в одной транзакции. Любая ошибка откатывает всё целиком —
	// частичная запись никогда не видна читателям.
	CreatePass(ctx context.Context, pass *domain.Pass, level *domain.DifficultyLevel, images []domain.Image) (int64, error)
}

// PassReader определяет методы чтения уже сохранённых перевалов
// (используется воркером зеркалирования фотографий)
type PassReader interface {
	GetPassWithImages(ctx context.Context, id int64) (*domain.Pass, []domain.Image, error)
}
