package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
// Имена переменных БД сохраняют соглашение ФСТР (FSTR_DB_*).
type Config struct {
	DBHost  string `env:"FSTR_DB_HOST" envDefault:"localhost"`
	DBPort  string `env:"FSTR_DB_PORT" envDefault:"5432"`
	DBLogin string `env:"FSTR_DB_LOGIN" envDefault:"postgres"`
	DBPass  string `env:"FSTR_DB_PASS" envDefault:"postgres"`
	DBName  string `env:"FSTR_DB_NAME" envDefault:"mountain_passes"`

	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"pass_submitted_queue"`
	}

	// Настройки MinIO нужны только в режиме worker (зеркалирование фото),
	// поэтому они не помечены required — их проверяет сам адаптер.
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME"`
	MinioRegion          string `env:"MINIO_REGION"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	return &cfg, nil
}

// DatabaseURL собирает postgres DSN из отдельных FSTR_DB_* переменных.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(c.DBLogin),
		url.QueryEscape(c.DBPass),
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
