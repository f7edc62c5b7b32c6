package validation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PassesApp/internal/apperror"
)

// decodeRequest прогоняет JSON через encoding/json так же, как это делает
// HTTP-обработчик: отсутствующие ключи остаются nil-указателями.
func decodeRequest(t *testing.T, body string) *SubmitPassRequest {
	t.Helper()
	var req SubmitPassRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func validBody() string {
	img := base64.StdEncoding.EncodeToString([]byte("fake-image-bytes"))
	return fmt.Sprintf(`{
		"beauty_title": "пер.",
		"title": "Пхия",
		"other_titles": "Триев",
		"connect": "",
		"add_time": "2021-09-22 13:18:13",
		"user": {
			"email": "qwerty@mail.ru",
			"phone": "+7 555 55 55",
			"fam": "Пупкин",
			"name": "Василий",
			"otc": "Иванович"
		},
		"coords": {"latitude": "45.3842", "longitude": "7.1525", "height": "1200"},
		"level": {"winter": "", "spring": "1А", "summer": "1А", "autumn": ""},
		"images": [
			{"data": "%s", "title": "Седловина"},
			{"data": "%s", "title": "Подъём"}
		]
	}`, img, img)
}

func TestParseSubmission_Valid(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())

	sub, err := v.ParseSubmission(req)
	require.NoError(t, err)

	assert.Equal(t, "Пхия", sub.Pass.Title)
	assert.Equal(t, "пер.", sub.Pass.BeautyTitle)
	assert.Equal(t, "45.3842", sub.Pass.Latitude.String())
	assert.Equal(t, "7.1525", sub.Pass.Longitude.String())
	assert.Equal(t, "1200", sub.Pass.Height.String())

	wantTime := time.Date(2021, 9, 22, 13, 18, 13, 0, time.UTC)
	assert.True(t, sub.Pass.AddTime.Equal(wantTime), "add_time = %v, want %v", sub.Pass.AddTime, wantTime)

	assert.Equal(t, "qwerty@mail.ru", sub.User.Email)
	assert.Equal(t, "Иванович", sub.User.Otc)

	assert.Equal(t, "", sub.Level.Winter)
	assert.Equal(t, "1А", sub.Level.Spring)
	assert.Equal(t, "1А", sub.Level.Summer)
	assert.Equal(t, "", sub.Level.Autumn)

	require.Len(t, sub.Images, 2)
	assert.Equal(t, []byte("fake-image-bytes"), sub.Images[0].Data)
	assert.Equal(t, "Седловина", sub.Images[0].Title)
	assert.Equal(t, 0, sub.Images[0].Position)
	assert.Equal(t, 1, sub.Images[1].Position)
}

func TestParseSubmission_OtcOptional(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	req.User.Otc = nil

	sub, err := v.ParseSubmission(req)
	require.NoError(t, err)
	assert.Equal(t, "", sub.User.Otc)
}

func TestParseSubmission_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *SubmitPassRequest)
		wantField string
	}{
		{"title", func(r *SubmitPassRequest) { r.Title = "" }, "title"},
		{"add_time", func(r *SubmitPassRequest) { r.AddTime = "" }, "add_time"},
		{"user block", func(r *SubmitPassRequest) { r.User = nil }, "user"},
		{"user email", func(r *SubmitPassRequest) { r.User.Email = "" }, "user.email"},
		{"user fam", func(r *SubmitPassRequest) { r.User.Fam = "" }, "user.fam"},
		{"user phone", func(r *SubmitPassRequest) { r.User.Phone = "" }, "user.phone"},
		{"coords block", func(r *SubmitPassRequest) { r.Coords = nil }, "coords"},
		{"coords height", func(r *SubmitPassRequest) { r.Coords.Height = "" }, "coords.height"},
		{"level block", func(r *SubmitPassRequest) { r.Level = nil }, "level"},
		{"level winter absent", func(r *SubmitPassRequest) { r.Level.Winter = nil }, "level.winter"},
		{"images absent", func(r *SubmitPassRequest) { r.Images = nil }, "images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			req := decodeRequest(t, validBody())
			tt.mutate(req)

			_, err := v.ParseSubmission(req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation), "want validation error, got %v", err)
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestParseSubmission_EmptyLevelIsNotAnError(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	empty := ""
	req.Level.Spring = &empty
	req.Level.Summer = &empty

	sub, err := v.ParseSubmission(req)
	require.NoError(t, err)
	assert.Equal(t, "", sub.Level.Spring)
}

func TestParseSubmission_EmptyImagesArrayIsValid(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	none := []ImagePayload{}
	req.Images = &none

	sub, err := v.ParseSubmission(req)
	require.NoError(t, err)
	assert.Empty(t, sub.Images)
}

func TestParseSubmission_NonNumericCoords(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	req.Coords.Latitude = "севернее некуда"

	_, err := v.ParseSubmission(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "coords.latitude")
}

func TestParseSubmission_MalformedAddTime(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	req.AddTime = "вчера вечером"

	_, err := v.ParseSubmission(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "add_time")
}

func TestParseSubmission_InvalidEmail(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	req.User.Email = "не email"

	_, err := v.ParseSubmission(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "user.email")
}

func TestParseSubmission_OversizeImage(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	huge := ImagePayload{Data: bytes.Repeat([]byte{0xff}, MaxImageSize+1)}
	imgs := []ImagePayload{huge}
	req.Images = &imgs

	_, err := v.ParseSubmission(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "images[0].data")
}

func TestParseSubmission_TooManyImages(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	imgs := make([]ImagePayload, MaxImagesPerPass+1)
	req.Images = &imgs

	_, err := v.ParseSubmission(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "images")
}

func TestParseSubmission_CollectsAllBadFields(t *testing.T) {
	v := New()
	req := decodeRequest(t, validBody())
	req.Title = ""
	req.Coords.Longitude = "east"

	_, err := v.ParseSubmission(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "coords.longitude")
}
