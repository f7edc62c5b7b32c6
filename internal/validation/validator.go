package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/GoArmGo/PassesApp/internal/apperror"
	"github.com/GoArmGo/PassesApp/internal/domain"
)

// Ограничения на фотографии — решение реализации, в исходном контракте
// верхняя граница не задана. Превышение — ошибка валидации 400,
// а не тихий пропуск фотографии.
const (
	MaxImageSize      = 5 << 20 // 5 МиБ на одну фотографию
	MaxImagesPerPass  = 10
	addTimeWireLayout = "2006-01-02 15:04:05"
)

// SubmitPassRequest — сырой JSON запроса POST /submitData.
// Указатели нужны, чтобы отличать отсутствующее поле от пустого значения:
// отсутствующий level.winter — ошибка, level.winter = "" — "категория не указана".
type SubmitPassRequest struct {
	BeautyTitle *string         `json:"beauty_title"`
	Title       string          `json:"title" validate:"required"`
	OtherTitles *string         `json:"other_titles"`
	Connect     *string         `json:"connect"`
	AddTime     string          `json:"add_time" validate:"required"`
	User        *UserPayload    `json:"user" validate:"required"`
	Coords      *CoordsPayload  `json:"coords" validate:"required"`
	Level       *LevelPayload   `json:"level" validate:"required"`
	Images      *[]ImagePayload `json:"images" validate:"required"`
}

// UserPayload — блок user запроса. Отчество (otc) опционально.
type UserPayload struct {
	Email string  `json:"email" validate:"required,email"`
	Fam   string  `json:"fam" validate:"required"`
	Name  string  `json:"name" validate:"required"`
	Otc   *string `json:"otc"`
	Phone string  `json:"phone" validate:"required"`
}

// CoordsPayload — координаты приходят числовыми строками.
type CoordsPayload struct {
	Latitude  string `json:"latitude" validate:"required"`
	Longitude string `json:"longitude" validate:"required"`
	Height    string `json:"height" validate:"required"`
}

// LevelPayload — сезонные категории сложности. Все четыре ключа обязаны
// присутствовать, пустая строка допустима.
type LevelPayload struct {
	Winter *string `json:"winter" validate:"required"`
	Spring *string `json:"spring" validate:"required"`
	Summer *string `json:"summer" validate:"required"`
	Autumn *string `json:"autumn" validate:"required"`
}

// ImagePayload — одна фотография. data в JSON — base64,
// encoding/json декодирует её в []byte сам.
type ImagePayload struct {
	Data  []byte  `json:"data"`
	Title *string `json:"title"`
}

// Submission — нормализованный, строго типизированный результат валидации.
// Дальше по пайплайну идёт только он, сырой запрос не покидает валидатор.
type Submission struct {
	Pass   domain.Pass
	User   domain.User
	Level  domain.DifficultyLevel
	Images []domain.Image
}

// Validator — обертка над go-playground/validator для схемы submitData.
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр Validator.
func New() *Validator {
	v := validator.New()

	// Используем JSON-теги в сообщениях об ошибках, чтобы клиент видел
	// имена полей так, как они заданы в контракте, а не имена полей Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// ParseSubmission проверяет сырой запрос и возвращает нормализованные данные.
// Чистая функция без побочных эффектов: до успешного результата ни одно
// обращение к хранилищу не выполняется. Собирает все дефектные поля разом.
func (v *Validator) ParseSubmission(req *SubmitPassRequest) (*Submission, error) {
	bad := v.structuralErrors(req)

	var (
		lat, lon, height decimal.Decimal
		addTime          time.Time
	)

	if req.Coords != nil {
		var err error
		if lat, err = decimal.NewFromString(req.Coords.Latitude); err != nil && req.Coords.Latitude != "" {
			bad = append(bad, "coords.latitude")
		}
		if lon, err = decimal.NewFromString(req.Coords.Longitude); err != nil && req.Coords.Longitude != "" {
			bad = append(bad, "coords.longitude")
		}
		if height, err = decimal.NewFromString(req.Coords.Height); err != nil && req.Coords.Height != "" {
			bad = append(bad, "coords.height")
		}
	}

	if req.AddTime != "" {
		var err error
		if addTime, err = time.Parse(addTimeWireLayout, req.AddTime); err != nil {
			bad = append(bad, "add_time")
		}
	}

	if req.Images != nil {
		if len(*req.Images) > MaxImagesPerPass {
			bad = append(bad, "images")
		} else {
			for i, img := range *req.Images {
				if len(img.Data) > MaxImageSize {
					bad = append(bad, fmt.Sprintf("images[%d].data", i))
				}
			}
		}
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, apperror.ValidationFailed(bad[0],
			"Не хватает или некорректны поля: "+strings.Join(bad, ", "))
	}

	sub := &Submission{
		Pass: domain.Pass{
			BeautyTitle: deref(req.BeautyTitle),
			Title:       req.Title,
			OtherTitles: deref(req.OtherTitles),
			Connect:     deref(req.Connect),
			AddTime:     addTime,
			Latitude:    lat,
			Longitude:   lon,
			Height:      height,
		},
		User: domain.User{
			Email: req.User.Email,
			Phone: req.User.Phone,
			Fam:   req.User.Fam,
			Name:  req.User.Name,
			Otc:   deref(req.User.Otc),
		},
		Level: domain.DifficultyLevel{
			Winter: deref(req.Level.Winter),
			Spring: deref(req.Level.Spring),
			Summer: deref(req.Level.Summer),
			Autumn: deref(req.Level.Autumn),
		},
	}

	for i, img := range *req.Images {
		sub.Images = append(sub.Images, domain.Image{
			Title:    deref(img.Title),
			Data:     img.Data,
			Position: i,
		})
	}

	return sub, nil
}

// structuralErrors прогоняет теги validate и возвращает имена дефектных полей
// в нотации контракта (user.email, level.winter, ...).
func (v *Validator) structuralErrors(req *SubmitPassRequest) []string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"body"}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace вида "SubmitPassRequest.user.email" — отрезаем корень.
		ns := fe.Namespace()
		if idx := strings.Index(ns, "."); idx >= 0 {
			ns = ns[idx+1:]
		}
		fields = append(fields, ns)
	}
	return fields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
