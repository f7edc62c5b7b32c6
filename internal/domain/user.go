package domain

import "time"

// User представляет модель туриста, приславшего данные о перевале.
// Соответствует таблице 'users' в базе данных.
// Поиск существующего пользователя идёт по email (точное совпадение),
// поля имени и телефона после создания не перезаписываются.
type User struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Fam       string    `json:"fam" db:"fam"`
	Name      string    `json:"name" db:"name"`
	Otc       string    `json:"otc" db:"otc"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (User) TableName() string {
	return "users"
}
