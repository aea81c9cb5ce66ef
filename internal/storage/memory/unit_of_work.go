package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

type sessionKey struct{}

// txSession — «транзакция» поверх in-memory Store: снапшот состояния на
// момент Begin. Commit отбрасывает снапшот, Rollback восстанавливает его.
type txSession struct {
	mu   sync.Mutex
	snap map[string]map[string]any
	open bool
}

func (s *txSession) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *txSession) close() (map[string]map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, false
	}
	s.open = false
	snap := s.snap
	s.snap = nil
	return snap, true
}

// UnitOfWork реализует domain.UnitOfWork поверх снапшотов Store.
// Изоляции от параллельных записей нет — реализация предназначена для
// локальной разработки и тестов, как и остальной пакет memory.
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork создаёт unit of work над указанным хранилищем.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// BeginTransaction открывает сессию и возвращает контекст, несущий её.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) (context.Context, error) {
	if s := sessionFromContext(ctx); s != nil && s.active() {
		return ctx, domain.ErrTransactionActive
	}

	sess := &txSession{snap: u.store.snapshot(), open: true}
	return context.WithValue(ctx, sessionKey{}, sess), nil
}

// Commit фиксирует изменения, сделанные с момента Begin.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	s := sessionFromContext(ctx)
	if s == nil {
		return domain.ErrNoTransaction
	}
	if _, ok := s.close(); !ok {
		return domain.ErrNoTransaction
	}
	return nil
}

// Rollback откатывает хранилище к состоянию на момент Begin.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	s := sessionFromContext(ctx)
	if s == nil {
		return domain.ErrNoTransaction
	}
	snap, ok := s.close()
	if !ok {
		return domain.ErrNoTransaction
	}
	u.store.restore(snap)
	return nil
}

func sessionFromContext(ctx context.Context) *txSession {
	s, _ := ctx.Value(sessionKey{}).(*txSession)
	return s
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
