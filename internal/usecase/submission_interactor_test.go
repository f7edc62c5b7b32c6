package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PassesApp/internal/apperror"
	"github.com/GoArmGo/PassesApp/internal/domain"
	"github.com/GoArmGo/PassesApp/internal/messaging/payloads"
	"github.com/GoArmGo/PassesApp/internal/validation"
)

type fakeUserStorage struct {
	id    int64
	err   error
	calls int
	got   domain.User
}

func (f *fakeUserStorage) ResolveUserByEmail(_ context.Context, user *domain.User) (int64, error) {
	f.calls++
	f.got = *user
	return f.id, f.err
}

type fakePassStorage struct {
	id        int64
	err       error
	calls     int
	gotPass   domain.Pass
	gotLevel  domain.DifficultyLevel
	gotImages []domain.Image
}

func (f *fakePassStorage) CreatePass(_ context.Context, pass *domain.Pass, level *domain.DifficultyLevel, images []domain.Image) (int64, error) {
	f.calls++
	f.gotPass = *pass
	f.gotLevel = *level
	f.gotImages = images
	return f.id, f.err
}

type fakePublisher struct {
	err    error
	events []payloads.PassSubmittedPayload
}

func (f *fakePublisher) PublishPassSubmitted(_ context.Context, p payloads.PassSubmittedPayload) error {
	f.events = append(f.events, p)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func strptr(s string) *string { return &s }

func validSubmitRequest() *validation.SubmitPassRequest {
	imgs := []validation.ImagePayload{
		{Data: []byte("img-1"), Title: strptr("Седловина")},
	}
	return &validation.SubmitPassRequest{
		BeautyTitle: strptr("пер."),
		Title:       "Пхия",
		AddTime:     "2021-09-22 13:18:13",
		User: &validation.UserPayload{
			Email: "qwerty@mail.ru",
			Fam:   "Пупкин",
			Name:  "Василий",
			Otc:   strptr("Иванович"),
			Phone: "+7 555 55 55",
		},
		Coords: &validation.CoordsPayload{
			Latitude:  "45.3842",
			Longitude: "7.1525",
			Height:    "1200",
		},
		Level: &validation.LevelPayload{
			Winter: strptr(""),
			Spring: strptr("1А"),
			Summer: strptr("1А"),
			Autumn: strptr(""),
		},
		Images: &imgs,
	}
}

func TestSubmitPass_Success(t *testing.T) {
	users := &fakeUserStorage{id: 7}
	passes := &fakePassStorage{id: 42}
	pub := &fakePublisher{}
	uc := NewSubmissionUseCase(validation.New(), users, passes, pub, discardLogger())

	id, err := uc.SubmitPass(context.Background(), validSubmitRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	assert.Equal(t, 1, users.calls)
	assert.Equal(t, "qwerty@mail.ru", users.got.Email)

	require.Equal(t, 1, passes.calls)
	assert.Equal(t, int64(7), passes.gotPass.UserID, "pass must reference the resolved user")
	assert.Equal(t, "Пхия", passes.gotPass.Title)
	assert.Equal(t, "1А", passes.gotLevel.Summer)
	require.Len(t, passes.gotImages, 1)
	assert.Equal(t, []byte("img-1"), passes.gotImages[0].Data)

	require.Len(t, pub.events, 1)
	assert.Equal(t, int64(42), pub.events[0].PassID)
	assert.Equal(t, "qwerty@mail.ru", pub.events[0].Email)
}

func TestSubmitPass_ValidationFailureTouchesNoStorage(t *testing.T) {
	users := &fakeUserStorage{id: 7}
	passes := &fakePassStorage{id: 42}
	uc := NewSubmissionUseCase(validation.New(), users, passes, nil, discardLogger())

	req := validSubmitRequest()
	req.Title = ""

	_, err := uc.SubmitPass(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	assert.Zero(t, users.calls, "validation failure must not reach the user storage")
	assert.Zero(t, passes.calls, "validation failure must not reach the pass storage")
}

func TestSubmitPass_UserStorageFailure(t *testing.T) {
	users := &fakeUserStorage{err: errors.New("connection refused")}
	passes := &fakePassStorage{}
	uc := NewSubmissionUseCase(validation.New(), users, passes, nil, discardLogger())

	_, err := uc.SubmitPass(context.Background(), validSubmitRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrStorage))
	assert.Zero(t, passes.calls, "pass writer must not run when identity resolution failed")
}

func TestSubmitPass_PassStorageFailure(t *testing.T) {
	users := &fakeUserStorage{id: 7}
	passes := &fakePassStorage{err: errors.New("deadlock detected")}
	uc := NewSubmissionUseCase(validation.New(), users, passes, nil, discardLogger())

	_, err := uc.SubmitPass(context.Background(), validSubmitRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrStorage))
	assert.NotContains(t, err.Error(), "deadlock", "internal error detail must not leak")
}

func TestSubmitPass_PublishFailureDoesNotChangeOutcome(t *testing.T) {
	users := &fakeUserStorage{id: 7}
	passes := &fakePassStorage{id: 42}
	pub := &fakePublisher{err: errors.New("broker down")}
	uc := NewSubmissionUseCase(validation.New(), users, passes, pub, discardLogger())

	id, err := uc.SubmitPass(context.Background(), validSubmitRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestSubmitPass_EmptyImages(t *testing.T) {
	users := &fakeUserStorage{id: 7}
	passes := &fakePassStorage{id: 43}
	uc := NewSubmissionUseCase(validation.New(), users, passes, nil, discardLogger())

	req := validSubmitRequest()
	none := []validation.ImagePayload{}
	req.Images = &none

	id, err := uc.SubmitPass(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(43), id)
	assert.Empty(t, passes.gotImages)
}
