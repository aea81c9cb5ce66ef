package app

import (
	"os"

	"github.com/vladislavdragonenkov/orders/internal/messaging/kafka"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// PostgresDSN — строка подключения к PostgreSQL.
	// Пустое значение переключает сервис на in-memory хранилище.
	PostgresDSN string

	// KafkaBrokers — список брокеров через запятую.
	// Пустое значение отключает consumer: сервис работает только с хранилищем.
	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	MetricsAddr string
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		KafkaTopic:   kafka.TopicOrdersCreated,
		KafkaGroupID: kafka.GroupOrdersService,
		MetricsAddr:  ":9090",
	}
}

// ConfigFromEnv читает конфигурацию из переменных окружения поверх значений
// по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ORDERS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("ORDERS_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("ORDERS_KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}
	if v := os.Getenv("ORDERS_KAFKA_GROUP_ID"); v != "" {
		cfg.KafkaGroupID = v
	}
	if v := os.Getenv("ORDERS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	return cfg
}
