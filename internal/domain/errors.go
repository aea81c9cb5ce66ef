package domain

import "errors"

var (
	// Ошибка отсутствующего кода заказа в команде создания.
	ErrOrderCodeRequired = errors.New("order code is required")
	// Ошибка отсутствующего клиента.
	ErrCustomerRequired = errors.New("customer is required")
	// Ошибка отсутствующего наименования товара в позиции.
	ErrItemProductRequired = errors.New("item product is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQuantityInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceNegative = errors.New("item unit price must be non-negative")

	// ErrDuplicateOrderCode возвращается, если код заказа уже занят.
	ErrDuplicateOrderCode = errors.New("order code already in use")
	// ErrOrderNotFound возвращается, если заказ с указанным кодом не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotFound — общий «не найдено» репозитория для любой сущности.
	ErrNotFound = errors.New("entity not found")
	// ErrConcurrencyConflict сигнализирует, что optimistic update проиграл гонку:
	// документ существует, но его версия уже изменена.
	ErrConcurrencyConflict = errors.New("concurrent modification conflict")
	// ErrUpdateTargetMissing сигнализирует, что обновляемый документ больше не существует.
	ErrUpdateTargetMissing = errors.New("entity to update no longer exists")
	// ErrWriteUnacknowledged — хранилище не подтвердило запись; фатальная
	// инфраструктурная ошибка, автоматически не повторяется.
	ErrWriteUnacknowledged = errors.New("write not acknowledged by the store")

	// ErrTransactionActive — попытка начать транзакцию при уже открытой сессии.
	ErrTransactionActive = errors.New("transaction already started")
	// ErrNoTransaction — Commit/Rollback без открытой сессии.
	ErrNoTransaction = errors.New("no transaction started")

	// ErrUnknownQueryField — предикат ссылается на поле, не объявленное для сущности.
	ErrUnknownQueryField = errors.New("unknown query field")
)

// IsNotFound проверяет, является ли ошибка отсутствием сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrOrderNotFound)
}

// IsConflict проверяет, является ли ошибка конфликтом (дубликат кода или гонка версий).
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateOrderCode) || errors.Is(err, ErrConcurrencyConflict)
}
