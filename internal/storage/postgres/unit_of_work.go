package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

type sessionKey struct{}

// txSession — активная транзакция, которую несёт контекст. Commit и Rollback
// обнуляют tx, переводя сессию в состояние «закрыта».
type txSession struct {
	mu sync.Mutex
	tx *sql.Tx
}

func (s *txSession) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}

// take возвращает транзакцию и закрывает сессию.
func (s *txSession) take() *sql.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.tx
	s.tx = nil
	return tx
}

func (s *txSession) current() *sql.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx
}

// UnitOfWork управляет жизненным циклом транзакции PostgreSQL. Сессия
// передаётся явно: BeginTransaction возвращает производный контекст, который
// репозитории читают при каждой операции. Один открытый контекст — одна
// логическая транзакция; владение им не разделяется между вызовами.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork создаёт unit of work поверх подключения Store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{db: store.DB()}
}

// BeginTransaction открывает транзакцию. Вложенный Begin на контексте с
// активной сессией — ошибка использования.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) (context.Context, error) {
	if s := sessionFromContext(ctx); s != nil && s.active() {
		return ctx, domain.ErrTransactionActive
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return ctx, fmt.Errorf("begin tx: %w", err)
	}

	return context.WithValue(ctx, sessionKey{}, &txSession{tx: tx}), nil
}

// Commit фиксирует транзакцию и освобождает сессию.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	s := sessionFromContext(ctx)
	if s == nil {
		return domain.ErrNoTransaction
	}
	tx := s.take()
	if tx == nil {
		return domain.ErrNoTransaction
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Rollback откатывает транзакцию и освобождает сессию.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	s := sessionFromContext(ctx)
	if s == nil {
		return domain.ErrNoTransaction
	}
	tx := s.take()
	if tx == nil {
		return domain.ErrNoTransaction
	}

	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}

func sessionFromContext(ctx context.Context) *txSession {
	s, _ := ctx.Value(sessionKey{}).(*txSession)
	return s
}

// txFromContext возвращает активную транзакцию контекста или nil.
func txFromContext(ctx context.Context) *sql.Tx {
	if s := sessionFromContext(ctx); s != nil {
		return s.current()
	}
	return nil
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
