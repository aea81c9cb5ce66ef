package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/health"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
	"github.com/vladislavdragonenkov/orders/internal/storage/postgres"
)

// Dependencies содержит хранилище и репозитории приложения.
type Dependencies struct {
	UnitOfWork domain.UnitOfWork
	Orders     domain.Repository[*domain.Order]
	Items      domain.Repository[*domain.OrderItem]
	Logger     *log.Entry

	store *postgres.Store
}

// NewDependencies собирает зависимости поверх PostgreSQL, если задан DSN,
// иначе поверх in-memory хранилища.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		logger.Warn("postgres dsn is not set, using in-memory storage")
		store := memory.NewStore()
		return &Dependencies{
			UnitOfWork: memory.NewUnitOfWork(store),
			Orders:     memory.NewOrderRepository(store),
			Items:      memory.NewOrderItemRepository(store),
			Logger:     logger,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := store.MigrateUp(ctx, 0); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("postgres storage initialized")

	return &Dependencies{
		UnitOfWork: postgres.NewUnitOfWork(store),
		Orders:     postgres.NewOrderRepository(store),
		Items:      postgres.NewOrderItemRepository(store),
		Logger:     logger,
		store:      store,
	}, nil
}

// RegisterHealthChecks добавляет проверку хранилища, когда оно внешнее.
func (d *Dependencies) RegisterHealthChecks(handler *health.Handler) {
	if d.store == nil {
		return
	}
	store := d.store
	handler.RegisterChecker("postgres", health.NewCheckFunc("postgres", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), storePingTimeout)
		defer cancel()
		return store.Ping(ctx)
	}))
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
