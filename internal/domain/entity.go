package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity — общий конверт идентичности и аудита для всех персистентных сущностей.
// ID неизменяем после создания. ModifiedAt обновляется при каждом успешном
// Update и одновременно служит токеном optimistic locking.
type Entity struct {
	ID         string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Deleted    bool
}

// NewEntity генерирует идентификатор и выставляет метки времени.
// Время усекается до микросекунд: PostgreSQL хранит TIMESTAMPTZ с точностью
// до микросекунды, а ModifiedAt участвует в compare-and-swap при Update.
func NewEntity() Entity {
	now := Now()
	return Entity{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Now возвращает текущее время в UTC с точностью хранилища.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NextVersion возвращает новый токен версии: текущее время, но строго позже
// прежнего токена, иначе обновление в пределах одной микросекунды не сдвинуло
// бы токен и compare-and-swap потерял бы смысл.
func NextVersion(last time.Time) time.Time {
	now := Now()
	if !now.After(last) {
		return last.Add(time.Microsecond)
	}
	return now
}

// Persistable реализуют все сущности, которыми управляет Repository.
type Persistable interface {
	EntityRef() *Entity
}
