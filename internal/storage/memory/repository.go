package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// CollectionSpec привязывает тип сущности к коллекции in-memory Store.
type CollectionSpec[T domain.Persistable] struct {
	// Name — имя коллекции.
	Name string
	// Clone возвращает независимую копию сущности.
	Clone func(T) T
	// Fields отдаёт значения полей, доступных в предикатах Query.
	Fields map[string]func(T) any
}

// Repository — in-memory реализация domain.Repository для локальной
// разработки и тестов. Зеркалит семантику PostgreSQL-реализации, включая
// optimistic locking по ModifiedAt и область выборки без удалённых.
type Repository[T domain.Persistable] struct {
	store *Store
	spec  CollectionSpec[T]
}

// NewRepository создаёт репозиторий над коллекцией spec.Name.
func NewRepository[T domain.Persistable](store *Store, spec CollectionSpec[T]) *Repository[T] {
	return &Repository[T]{store: store, spec: spec}
}

// Insert сохраняет новый документ, если ID ещё не занят.
func (r *Repository[T]) Insert(_ context.Context, entity T) error {
	id := entity.EntityRef().ID
	if !r.store.putNew(r.spec.Name, id, r.spec.Clone(entity)) {
		return fmt.Errorf("insert into %s: duplicate id %s: %w", r.spec.Name, id, domain.ErrConcurrencyConflict)
	}
	return nil
}

// Update заменяет документ с проверкой версии по ModifiedAt.
func (r *Repository[T]) Update(_ context.Context, entity T) error {
	e := entity.EntityRef()
	lastVersion := e.ModifiedAt

	return r.store.swap(r.spec.Name, e.ID, func(cur any, ok bool) (any, error) {
		if !ok {
			return nil, fmt.Errorf("update %s id %s: %w", r.spec.Name, e.ID, domain.ErrUpdateTargetMissing)
		}
		stored := cur.(T)
		if !stored.EntityRef().ModifiedAt.Equal(lastVersion) {
			return nil, fmt.Errorf("update %s id %s: %w", r.spec.Name, e.ID, domain.ErrConcurrencyConflict)
		}

		e.ModifiedAt = domain.NextVersion(lastVersion)
		return r.spec.Clone(entity), nil
	})
}

// Delete физически удаляет документ.
func (r *Repository[T]) Delete(_ context.Context, id string) error {
	r.store.remove(r.spec.Name, id)
	return nil
}

// GetByID возвращает неудалённый документ или ErrNotFound.
func (r *Repository[T]) GetByID(_ context.Context, id string) (T, error) {
	var zero T

	val, ok := r.store.get(r.spec.Name, id)
	if !ok {
		return zero, fmt.Errorf("%s id %s: %w", r.spec.Name, id, domain.ErrNotFound)
	}
	entity := val.(T)
	if entity.EntityRef().Deleted {
		return zero, fmt.Errorf("%s id %s: %w", r.spec.Name, id, domain.ErrNotFound)
	}
	return r.spec.Clone(entity), nil
}

// GetAll возвращает все неудалённые документы.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.scan(domain.NewQuery())
}

// GetFirst возвращает первый документ выборки или ErrNotFound.
func (r *Repository[T]) GetFirst(_ context.Context, query domain.Query) (T, error) {
	var zero T

	matched, err := r.scan(query)
	if err != nil {
		return zero, err
	}
	if len(matched) == 0 {
		return zero, fmt.Errorf("%s: %w", r.spec.Name, domain.ErrNotFound)
	}
	return matched[0], nil
}

// GetPaged выполняет выборку со страничной нарезкой; подсчёт — до нарезки.
func (r *Repository[T]) GetPaged(_ context.Context, page, pageSize int, query *domain.Query) (domain.PagedResult[T], error) {
	q := domain.NewQuery()
	if query != nil {
		q = *query
	}

	matched, err := r.scan(q)
	if err != nil {
		return domain.PagedResult[T]{}, err
	}

	count := len(matched)
	page, pageSize = domain.NormalizePaging(page, pageSize, count)

	result := domain.PagedResult[T]{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: count,
		Data:       make([]T, 0, pageSize),
	}
	if count == 0 {
		return result, nil
	}

	if pageSize != count {
		skip := (page - 1) * pageSize
		if skip >= count {
			return result, nil
		}
		end := skip + pageSize
		if end > count {
			end = count
		}
		matched = matched[skip:end]
	}

	result.Data = append(result.Data, matched...)
	return result, nil
}

// scan возвращает копии документов выборки в порядке (CreatedAt, ID).
func (r *Repository[T]) scan(q domain.Query) ([]T, error) {
	matched := make([]T, 0)
	for _, val := range r.store.list(r.spec.Name) {
		entity := val.(T)
		if entity.EntityRef().Deleted && !q.IncludesDeleted() {
			continue
		}
		ok, err := r.matches(entity, q)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r.spec.Clone(entity))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].EntityRef(), matched[j].EntityRef()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return matched, nil
}

func (r *Repository[T]) matches(entity T, q domain.Query) (bool, error) {
	for _, cond := range q.Conditions() {
		getter, ok := r.spec.Fields[cond.Field]
		if !ok {
			return false, fmt.Errorf("%s: field %q: %w", r.spec.Name, cond.Field, domain.ErrUnknownQueryField)
		}
		if !equalValues(getter(entity), cond.Value) {
			return false, nil
		}
	}
	return true, nil
}

// equalValues сравнивает значения предикатов; decimal сравнивается по
// величине, а не по внутреннему представлению.
func equalValues(a, b any) bool {
	da, aok := a.(decimal.Decimal)
	db, bok := b.(decimal.Decimal)
	if aok && bok {
		return da.Equal(db)
	}
	return reflect.DeepEqual(a, b)
}

var _ domain.Repository[*domain.Order] = (*Repository[*domain.Order])(nil)
