package domain

import "context"

// Repository — обобщённый репозиторий над одной коллекцией сущностей.
// Если контекст несёт сессию, открытую UnitOfWork, все операции выполняются
// внутри неё; без сессии каждая операция коммитится самостоятельно.
type Repository[T Persistable] interface {
	// Insert сохраняет новый документ.
	Insert(ctx context.Context, entity T) error
	// Update выполняет optimistic-concurrency замену: сравнение по ModifiedAt.
	// При проигранной гонке возвращает ErrConcurrencyConflict, если документ
	// ещё существует, и ErrUpdateTargetMissing — если уже нет.
	Update(ctx context.Context, entity T) error
	// Delete физически удаляет документ по идентификатору.
	Delete(ctx context.Context, id string) error
	// GetByID возвращает неудалённую сущность или ErrNotFound.
	GetByID(ctx context.Context, id string) (T, error)
	// GetAll возвращает все неудалённые сущности.
	GetAll(ctx context.Context) ([]T, error)
	// GetFirst возвращает первую сущность, удовлетворяющую выборке, или ErrNotFound.
	GetFirst(ctx context.Context, query Query) (T, error)
	// GetPaged выполняет выборку со страничной нарезкой. Подсчёт выполняется
	// до нарезки; nil query означает область по умолчанию.
	GetPaged(ctx context.Context, page, pageSize int, query *Query) (PagedResult[T], error)
}

// UnitOfWork управляет жизненным циклом транзакционной сессии.
// Сессия передаётся явно: BeginTransaction возвращает производный контекст,
// который нужно пронести через все операции репозиториев и затем отдать в
// Commit или Rollback. Вложенные транзакции не поддерживаются.
type UnitOfWork interface {
	BeginTransaction(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// OrderService — интерфейс ядра для внешних вызывающих слоёв (HTTP, очередь).
type OrderService interface {
	// CreateOrder атомарно создаёт заказ и его позиции.
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (OrderResult, error)
	// ListOrders возвращает страницу заголовков заказов (без позиций).
	ListOrders(ctx context.Context, filter OrderFilter) (PagedResult[OrderSummary], error)
	// GetOrderDetails возвращает заказ с позициями по бизнес-коду или ErrOrderNotFound.
	GetOrderDetails(ctx context.Context, code string) (OrderResult, error)
}
