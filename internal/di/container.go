package di

import (
	"github.com/GoArmGo/PassesApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/PassesApp/internal/app"
	"github.com/GoArmGo/PassesApp/internal/config"
	"github.com/GoArmGo/PassesApp/internal/core/ports"
	"github.com/GoArmGo/PassesApp/internal/database/client"
	"github.com/GoArmGo/PassesApp/internal/database/postgres"
	"github.com/GoArmGo/PassesApp/internal/database/storage"
	"github.com/GoArmGo/PassesApp/internal/logger"
	"github.com/GoArmGo/PassesApp/internal/rabbitmq"
	"github.com/GoArmGo/PassesApp/internal/usecase"
	"github.com/GoArmGo/PassesApp/internal/validation"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// Режим worker дополнительно поднимает GORM-модель чтения и клиент MinIO,
// серверу они не нужны.
func BuildApp(mode string) (*app.App, error) {
	// 1. Конфигурация
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. PostgreSQL клиент (sqlx) + миграции
	dbClient, err := client.NewClient(cfg.DatabaseURL(), slogger)
	if err != nil {
		return nil, err
	}

	// 3. Хранилища пайплайна приёма данных
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	passStorage := storage.NewPassStorage(dbClient.DB, slogger)

	// 4. RabbitMQ: publisher для сервера, consumer для воркера
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	var (
		publisher ports.SubmissionPublisher = rabbitMQClient
		consumer  ports.SubmissionConsumer  = rabbitMQClient
	)

	// 5. Бизнес-логика приёма данных
	submissionUseCase := usecase.NewSubmissionUseCase(
		validation.New(),
		userStorage,
		passStorage,
		publisher,
		slogger,
	)

	// 6. Зависимости воркера зеркалирования
	var mirrorUseCase usecase.MirrorUseCase
	if mode == "worker" {
		gormDB, err := postgres.OpenGorm(cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		passReader := postgres.NewPassReadModel(gormDB)

		fileStorage, err := minio.NewMinioClient(cfg, slogger)
		if err != nil {
			return nil, err
		}

		mirrorUseCase = usecase.NewMirrorUseCase(passReader, fileStorage, slogger)
	}

	application := app.NewApp(
		cfg,
		slogger,
		dbClient.DB,
		submissionUseCase,
		mirrorUseCase,
		publisher,
		consumer,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
