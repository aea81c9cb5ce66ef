package memory

import "github.com/vladislavdragonenkov/orders/internal/domain"

// Привязка типов сущностей к коллекциям: одна коллекция на тип.
const (
	ordersCollection     = "orders"
	orderItemsCollection = "order_items"
)

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(store *Store) *Repository[*domain.Order] {
	return NewRepository(store, CollectionSpec[*domain.Order]{
		Name: ordersCollection,
		Clone: func(o *domain.Order) *domain.Order {
			c := *o
			return &c
		},
		Fields: map[string]func(*domain.Order) any{
			domain.FieldCode:     func(o *domain.Order) any { return o.Code },
			domain.FieldCustomer: func(o *domain.Order) any { return o.Customer },
		},
	})
}

// NewOrderItemRepository возвращает in-memory репозиторий позиций заказов.
func NewOrderItemRepository(store *Store) *Repository[*domain.OrderItem] {
	return NewRepository(store, CollectionSpec[*domain.OrderItem]{
		Name: orderItemsCollection,
		Clone: func(i *domain.OrderItem) *domain.OrderItem {
			c := *i
			return &c
		},
		Fields: map[string]func(*domain.OrderItem) any{
			domain.FieldOrderCode: func(i *domain.OrderItem) any { return i.OrderCode },
		},
	})
}
