package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// Общие колонки конверта Entity; идут первыми в каждой таблице.
var entityColumns = []string{"id", "created_at", "modified_at", "deleted"}

// dbtx покрывает *sql.DB и *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// TableSpec привязывает тип сущности к таблице: одна таблица на тип,
// конвенция фиксирована и не настраивается на уровне экземпляра.
type TableSpec[T domain.Persistable] struct {
	// Table — имя таблицы.
	Table string
	// Columns — доменные колонки после колонок конверта.
	Columns []string
	// Values отдаёт значения доменных колонок в порядке Columns.
	Values func(T) []any
	// Scan читает строку в порядке entityColumns + Columns.
	Scan func(row rowScanner) (T, error)
	// Fields сопоставляет поля Query колонкам таблицы.
	Fields map[string]string
}

// Repository — PostgreSQL-реализация domain.Repository. Если контекст несёт
// транзакцию UnitOfWork, операция выполняется в ней, иначе — на подключении
// напрямую (auto-commit).
type Repository[T domain.Persistable] struct {
	db   *sql.DB
	spec TableSpec[T]
}

// NewRepository создаёт репозиторий над таблицей spec.Table.
func NewRepository[T domain.Persistable](store *Store, spec TableSpec[T]) *Repository[T] {
	return &Repository[T]{db: store.DB(), spec: spec}
}

func (r *Repository[T]) executor(ctx context.Context) dbtx {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

func (r *Repository[T]) columns() string {
	cols := make([]string, 0, len(entityColumns)+len(r.spec.Columns))
	cols = append(cols, entityColumns...)
	cols = append(cols, r.spec.Columns...)
	return strings.Join(cols, ", ")
}

// Insert сохраняет новый документ.
func (r *Repository[T]) Insert(ctx context.Context, entity T) error {
	e := entity.EntityRef()

	args := make([]any, 0, 4+len(r.spec.Columns))
	args = append(args, e.ID, e.CreatedAt, e.ModifiedAt, e.Deleted)
	args = append(args, r.spec.Values(entity)...)

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.spec.Table, r.columns(), placeholders(1, len(args)),
	)

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert into %s: duplicate id %s: %w", r.spec.Table, e.ID, domain.ErrConcurrencyConflict)
		}
		return fmt.Errorf("insert into %s: %w", r.spec.Table, err)
	}

	return acknowledged(res, r.spec.Table)
}

// Update выполняет optimistic-concurrency замену: фильтр по id и прежнему
// ModifiedAt. Ноль совпавших строк означает проигранную гонку; вторичная
// проверка существования различает конфликт версий и исчезнувший документ.
func (r *Repository[T]) Update(ctx context.Context, entity T) error {
	e := entity.EntityRef()
	lastVersion := e.ModifiedAt
	e.ModifiedAt = domain.NextVersion(lastVersion)

	sets := []string{"modified_at = $1", "deleted = $2"}
	args := []any{e.ModifiedAt, e.Deleted}
	for i, col := range r.spec.Columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+3))
	}
	args = append(args, r.spec.Values(entity)...)
	args = append(args, e.ID, lastVersion)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d AND modified_at = $%d",
		r.spec.Table, strings.Join(sets, ", "), len(args)-1, len(args),
	)

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.spec.Table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: rows affected: %w", r.spec.Table, domain.ErrWriteUnacknowledged)
	}
	if affected == 0 {
		exists, err := r.exists(ctx, e.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("update %s id %s: %w", r.spec.Table, e.ID, domain.ErrConcurrencyConflict)
		}
		return fmt.Errorf("update %s id %s: %w", r.spec.Table, e.ID, domain.ErrUpdateTargetMissing)
	}

	return nil
}

// Delete физически удаляет документ по идентификатору.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.spec.Table)
	if _, err := r.executor(ctx).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete from %s: %w", r.spec.Table, err)
	}
	return nil
}

// GetByID возвращает неудалённый документ или ErrNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE deleted = FALSE AND id = $1",
		r.columns(), r.spec.Table,
	)

	entity, err := r.spec.Scan(r.executor(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%s id %s: %w", r.spec.Table, id, domain.ErrNotFound)
		}
		return zero, fmt.Errorf("select %s by id: %w", r.spec.Table, err)
	}
	return entity, nil
}

// GetAll возвращает все неудалённые документы.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.selectMany(ctx, domain.NewQuery(), "")
}

// GetFirst возвращает первый документ выборки или ErrNotFound.
func (r *Repository[T]) GetFirst(ctx context.Context, query domain.Query) (T, error) {
	var zero T

	matched, err := r.selectMany(ctx, query, " LIMIT 1")
	if err != nil {
		return zero, err
	}
	if len(matched) == 0 {
		return zero, fmt.Errorf("%s: %w", r.spec.Table, domain.ErrNotFound)
	}
	return matched[0], nil
}

// GetPaged выполняет выборку со страничной нарезкой; подсчёт — до нарезки.
func (r *Repository[T]) GetPaged(ctx context.Context, page, pageSize int, query *domain.Query) (domain.PagedResult[T], error) {
	var zero domain.PagedResult[T]

	q := domain.NewQuery()
	if query != nil {
		q = *query
	}

	where, args, err := r.buildWhere(q)
	if err != nil {
		return zero, err
	}

	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.spec.Table, where)
	if err := r.executor(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return zero, fmt.Errorf("count %s: %w", r.spec.Table, err)
	}

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

	slicing := ""
	if pageSize != count {
		slicing = fmt.Sprintf(" OFFSET %d LIMIT %d", (page-1)*pageSize, pageSize)
	}

	rows, err := r.queryRows(ctx, where, args, slicing)
	if err != nil {
		return zero, err
	}
	result.Data = rows

	return result, nil
}

func (r *Repository[T]) selectMany(ctx context.Context, q domain.Query, suffix string) ([]T, error) {
	where, args, err := r.buildWhere(q)
	if err != nil {
		return nil, err
	}
	return r.queryRows(ctx, where, args, suffix)
}

func (r *Repository[T]) queryRows(ctx context.Context, where string, args []any, suffix string) ([]T, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY created_at, id%s",
		r.columns(), r.spec.Table, where, suffix,
	)

	rows, err := r.executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", r.spec.Table, err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		entity, err := r.spec.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", r.spec.Table, err)
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.spec.Table, err)
	}

	return result, nil
}

// buildWhere собирает WHERE из области выборки и предикатов равенства.
func (r *Repository[T]) buildWhere(q domain.Query) (string, []any, error) {
	clauses := make([]string, 0, len(q.Conditions())+1)
	args := make([]any, 0, len(q.Conditions()))

	if !q.IncludesDeleted() {
		clauses = append(clauses, "deleted = FALSE")
	}
	for _, cond := range q.Conditions() {
		col, ok := r.spec.Fields[cond.Field]
		if !ok {
			return "", nil, fmt.Errorf("%s: field %q: %w", r.spec.Table, cond.Field, domain.ErrUnknownQueryField)
		}
		args = append(args, cond.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (r *Repository[T]) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", r.spec.Table)
	if err := r.executor(ctx).QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s exists: %w", r.spec.Table, err)
	}
	return exists, nil
}

// acknowledged сверяет подтверждение записи хранилищем.
func acknowledged(res sql.Result, table string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", table, domain.ErrWriteUnacknowledged)
	}
	if affected != 1 {
		return fmt.Errorf("%s: affected %d rows: %w", table, affected, domain.ErrWriteUnacknowledged)
	}
	return nil
}

// placeholders возвращает "$from,...,$from+n-1".
func placeholders(from, n int) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("$%d", from+i))
	}
	return strings.Join(parts, ", ")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.Repository[*domain.Order] = (*Repository[*domain.Order])(nil)
