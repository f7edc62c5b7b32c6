package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PassStatus — статус модерации перевала.
type PassStatus string

// Жизненный цикл записи: new -> pending -> accepted | rejected.
// Пайплайн приёма данных всегда создаёт перевал со статусом new,
// дальнейшие переходы выполняет модератор.
const (
	StatusNew      PassStatus = "new"
	StatusPending  PassStatus = "pending"
	StatusAccepted PassStatus = "accepted"
	StatusRejected PassStatus = "rejected"
)

// Pass представляет модель перевала,
// соответствует таблице passes в бд.
// Координаты и высота хранятся как decimal, чтобы не терять точность
// числовых строк из исходного запроса.
type Pass struct {
	ID          int64           `json:"id" db:"id" gorm:"primaryKey"`
	BeautyTitle string          `json:"beauty_title" db:"beauty_title"`
	Title       string          `json:"title" db:"title"`
	OtherTitles string          `json:"other_titles" db:"other_titles"`
	Connect     string          `json:"connect" db:"connect"`
	AddTime     time.Time       `json:"add_time" db:"add_time"`
	UserID      int64           `json:"user_id" db:"user_id"`
	Latitude    decimal.Decimal `json:"latitude" db:"latitude"`
	Longitude   decimal.Decimal `json:"longitude" db:"longitude"`
	Height      decimal.Decimal `json:"height" db:"height"`
	Status      PassStatus      `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

func (Pass) TableName() string {
	return "passes"
}

// DifficultyLevel представляет сезонные категории сложности перевала,
// соответствует таблице difficulty_levels в бд.
// Ровно одна строка на перевал; пустая строка означает "категория не указана".
type DifficultyLevel struct {
	ID     int64  `json:"id" db:"id" gorm:"primaryKey"`
	PassID int64  `json:"pass_id" db:"pass_id"`
	Winter string `json:"winter" db:"winter"`
	Spring string `json:"spring" db:"spring"`
	Summer string `json:"summer" db:"summer"`
	Autumn string `json:"autumn" db:"autumn"`
}

func (DifficultyLevel) TableName() string {
	return "difficulty_levels"
}

// Image представляет фотографию перевала,
// соответствует таблице images в бд.
// Position фиксирует порядок фотографий из запроса.
type Image struct {
	ID       int64  `json:"id" db:"id" gorm:"primaryKey"`
	PassID   int64  `json:"pass_id" db:"pass_id"`
	Title    string `json:"title" db:"title"`
	Data     []byte `json:"data" db:"data"`
	Position int    `json:"position" db:"position"`
}

func (Image) TableName() string {
	return "images"
}
