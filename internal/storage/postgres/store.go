package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Пул рассчитан на один инстанс сервиса заказов: запись идет из
// Kafka-consumer'а последовательно, конкуренцию создают выборки по HTTP.
const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// Store держит подключение сервиса заказов к PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open открывает пул через pgx stdlib-драйвер и делает пробный ping,
// чтобы упасть на старте, а не на первом заказе.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	tunePool(db)

	if err := pingWithTimeout(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

func tunePool(db *sql.DB) {
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
}

func pingWithTimeout(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return db.PingContext(pingCtx)
}

// DB отдает низкоуровневый *sql.DB для репозиториев и unit of work.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping проверяет доступность базы; его использует readiness-проба.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("postgres store is not initialized")
	}
	return pingWithTimeout(ctx, s.db)
}

// Close закрывает пул; безопасен для nil-стора.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
