package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PassesApp/internal/apperror"
	"github.com/GoArmGo/PassesApp/internal/usecase"
	"github.com/GoArmGo/PassesApp/internal/validation"
)

// Pinger проверяет доступность базы данных (реализуется *sqlx.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SubmitResponse — контракт ответа submitData: ровно три поля.
// message и id — указатели, чтобы в JSON уходил честный null.
type SubmitResponse struct {
	Status  int     `json:"status"`
	Message *string `json:"message"`
	ID      *int64  `json:"id"`
}

// PassHandler — обработчик HTTP-запросов для приёма данных о перевалах.
type PassHandler struct {
	submissionUseCase usecase.SubmissionUseCase
	db                Pinger
	logger            *slog.Logger
}

// NewPassHandler создаёт новый экземпляр PassHandler.
func NewPassHandler(uc usecase.SubmissionUseCase, db Pinger, logger *slog.Logger) *PassHandler {
	return &PassHandler{
		submissionUseCase: uc,
		db:                db,
		logger:            logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondSubmit — отправляет ответ контракта {status, message, id}.
// HTTP-статус всегда равен полю status в теле.
func respondSubmit(w http.ResponseWriter, status int, message string, id int64, logger *slog.Logger) {
	resp := SubmitResponse{Status: status}
	if message != "" {
		resp.Message = &message
	}
	if id != 0 {
		resp.ID = &id
	}
	respondWithJSON(w, status, resp, logger)
}

// SubmitData — принимает данные о новом перевале (POST /submitData).
func (h *PassHandler) SubmitData(w http.ResponseWriter, r *http.Request) {
	var req validation.SubmitPassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("malformed submitData body", "error", err)
		respondSubmit(w, http.StatusBadRequest, "Некорректный JSON в теле запроса", 0, h.logger)
		return
	}

	passID, err := h.submissionUseCase.SubmitPass(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			respondSubmit(w, http.StatusBadRequest, err.Error(), 0, h.logger)
		default:
			// Детали отказа хранилища клиенту не раскрываем.
			respondSubmit(w, http.StatusInternalServerError,
				"Ошибка при сохранении данных в базу", 0, h.logger)
		}
		return
	}

	h.logger.Info("submitData processed", "pass_id", passID)
	respondSubmit(w, http.StatusOK, "", passID, h.logger)
}

// Root — информация о сервисе (GET /).
func (h *PassHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Mountain Passes API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"POST /submitData": "Отправить информацию о перевале",
			"GET /health":      "Проверка статуса",
		},
	}, h.logger)
}

// Health — проверка доступности БД (GET /health).
func (h *PassHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		}, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	}, h.logger)
}
