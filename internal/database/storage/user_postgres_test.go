package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PassesApp/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func testUser() *domain.User {
	return &domain.User{
		Email: "qwerty@mail.ru",
		Phone: "+7 555 55 55",
		Fam:   "Пупкин",
		Name:  "Василий",
		Otc:   "Иванович",
	}
}

func TestResolveUserByEmail_Existing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, slog.New(slog.DiscardHandler))

	mock.ExpectQuery("SELECT id FROM users WHERE email = \\$1").
		WithArgs("qwerty@mail.ru").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := s.ResolveUserByEmail(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	// Существующий пользователь не перезаписывается и не вставляется заново.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserByEmail_CreatesWhenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, slog.New(slog.DiscardHandler))

	mock.ExpectQuery("SELECT id FROM users WHERE email = \\$1").
		WithArgs("qwerty@mail.ru").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("qwerty@mail.ru", "+7 555 55 55", "Пупкин", "Василий", "Иванович").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := s.ResolveUserByEmail(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserByEmail_InsertRaceRetriesLookupOnce(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, slog.New(slog.DiscardHandler))

	mock.ExpectQuery("SELECT id FROM users WHERE email = \\$1").
		WillReturnError(sql.ErrNoRows)

	// Конкурентная заявка успела вставить такого же пользователя первой.
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	mock.ExpectQuery("SELECT id FROM users WHERE email = \\$1").
		WithArgs("qwerty@mail.ru").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := s.ResolveUserByEmail(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserByEmail_RetryAlsoFails(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, slog.New(slog.DiscardHandler))

	mock.ExpectQuery("SELECT id FROM users WHERE email = \\$1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})
	mock.ExpectQuery("SELECT id FROM users WHERE email = \\$1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.ResolveUserByEmail(context.Background(), testUser())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserByEmail_LookupFailure(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, slog.New(slog.DiscardHandler))

	mock.ExpectQuery("SELECT id FROM users WHERE email = \\$1").
		WillReturnError(errors.New("connection refused"))

	_, err := s.ResolveUserByEmail(context.Background(), testUser())
	require.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: pqUniqueViolation}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
