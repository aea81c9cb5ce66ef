package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

func TestIntegrationUnitOfWorkStateMachine(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	uow := NewUnitOfWork(store)
	ctx := context.Background()

	if err := uow.Commit(ctx); !errors.Is(err, domain.ErrNoTransaction) {
		t.Fatalf("commit without begin: expected ErrNoTransaction, got %v", err)
	}
	if err := uow.Rollback(ctx); !errors.Is(err, domain.ErrNoTransaction) {
		t.Fatalf("rollback without begin: expected ErrNoTransaction, got %v", err)
	}

	txCtx, err := uow.BeginTransaction(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := uow.BeginTransaction(txCtx); !errors.Is(err, domain.ErrTransactionActive) {
		t.Fatalf("nested begin: expected ErrTransactionActive, got %v", err)
	}
	if err := uow.Commit(txCtx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := uow.Commit(txCtx); !errors.Is(err, domain.ErrNoTransaction) {
		t.Fatalf("double commit: expected ErrNoTransaction, got %v", err)
	}
}

func TestIntegrationUnitOfWorkRollbackDiscardsWrites(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	uow := NewUnitOfWork(store)
	orders := NewOrderRepository(store)
	items := NewOrderItemRepository(store)
	ctx := context.Background()

	txCtx, err := uow.BeginTransaction(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	order := &domain.Order{
		Entity:     domain.NewEntity(),
		Code:       "tx-1",
		Customer:   "customer-1",
		TotalValue: decimal.NewFromInt(5),
	}
	if err := orders.Insert(txCtx, order); err != nil {
		t.Fatalf("insert order in tx: %v", err)
	}
	item := &domain.OrderItem{
		Entity:     domain.NewEntity(),
		OrderCode:  order.Code,
		Product:    "widget",
		Quantity:   decimal.NewFromInt(1),
		UnitPrice:  decimal.NewFromInt(5),
		TotalValue: decimal.NewFromInt(5),
	}
	if err := items.Insert(txCtx, item); err != nil {
		t.Fatalf("insert item in tx: %v", err)
	}

	if err := uow.Rollback(txCtx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	// После отката ни заказа, ни позиций не существует.
	all, err := orders.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all orders: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rollback must discard order insert, got %d rows", len(all))
	}
	allItems, err := items.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all items: %v", err)
	}
	if len(allItems) != 0 {
		t.Fatalf("rollback must discard item inserts, got %d rows", len(allItems))
	}
}

func TestIntegrationUnitOfWorkCommitPersistsAggregate(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	uow := NewUnitOfWork(store)
	orders := NewOrderRepository(store)
	items := NewOrderItemRepository(store)
	ctx := context.Background()

	txCtx, err := uow.BeginTransaction(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	order := &domain.Order{
		Entity:     domain.NewEntity(),
		Code:       "tx-2",
		Customer:   "customer-1",
		TotalValue: decimal.NewFromInt(5),
	}
	if err := orders.Insert(txCtx, order); err != nil {
		t.Fatalf("insert order in tx: %v", err)
	}
	item := &domain.OrderItem{
		Entity:     domain.NewEntity(),
		OrderCode:  order.Code,
		Product:    "widget",
		Quantity:   decimal.NewFromInt(1),
		UnitPrice:  decimal.NewFromInt(5),
		TotalValue: decimal.NewFromInt(5),
	}
	if err := items.Insert(txCtx, item); err != nil {
		t.Fatalf("insert item in tx: %v", err)
	}

	if err := uow.Commit(txCtx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := orders.GetFirst(ctx, domain.NewQuery().Where(domain.FieldCode, "tx-2"))
	if err != nil {
		t.Fatalf("get committed order: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
}
