package domain

// Condition — предикат равенства над одним полем сущности.
type Condition struct {
	Field string
	Value any
}

// Query — композируемый дескриптор выборки. Поддерживаются только предикаты
// равенства; область по умолчанию исключает мягко удалённые сущности.
// Значения Query иммутабельны: Where и WithDeleted возвращают копию.
type Query struct {
	conds       []Condition
	withDeleted bool
}

// NewQuery возвращает выборку «все неудалённые сущности».
func NewQuery() Query { return Query{} }

// Where добавляет предикат равенства field == value.
func (q Query) Where(field string, value any) Query {
	conds := make([]Condition, len(q.conds), len(q.conds)+1)
	copy(conds, q.conds)
	q.conds = append(conds, Condition{Field: field, Value: value})
	return q
}

// WithDeleted включает в область выборки мягко удалённые сущности.
func (q Query) WithDeleted() Query {
	q.withDeleted = true
	return q
}

// Conditions возвращает накопленные предикаты.
func (q Query) Conditions() []Condition { return q.conds }

// IncludesDeleted сообщает, входят ли удалённые сущности в область выборки.
func (q Query) IncludesDeleted() bool { return q.withDeleted }
