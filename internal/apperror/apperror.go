package apperror

import (
	"errors"
	"fmt"
)

// Сентинелы для трёх классов исходов пайплайна приёма данных.
var (
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
	ErrNotFound   = errors.New("not found")
)

// AppError несёт класс ошибки и сообщение для клиента.
type AppError struct {
	Err     error  // сентинел класса ошибки
	Message string // человекочитаемое сообщение (уходит в поле message ответа)
	Field   string // опционально: поле запроса, вызвавшее ошибку
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed — структурная ошибка входных данных, до БД не доходит.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// StorageFailed — ошибка персистентности. Внутренние детали в сообщение
// не попадают, клиент видит только общий текст.
func StorageFailed(op string) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: fmt.Sprintf("Ошибка при работе с базой данных (%s)", op),
	}
}

// NotFound — запись не найдена.
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s с id %d не найден", resource, id),
	}
}
