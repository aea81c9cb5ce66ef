package postgres

import "github.com/vladislavdragonenkov/orders/internal/domain"

// NewOrderRepository связывает Order с таблицей orders.
func NewOrderRepository(store *Store) *Repository[*domain.Order] {
	return NewRepository(store, TableSpec[*domain.Order]{
		Table:   "orders",
		Columns: []string{"code", "customer", "total_value"},
		Values: func(o *domain.Order) []any {
			return []any{o.Code, o.Customer, o.TotalValue}
		},
		Scan: func(row rowScanner) (*domain.Order, error) {
			var o domain.Order
			if err := row.Scan(
				&o.ID, &o.CreatedAt, &o.ModifiedAt, &o.Deleted,
				&o.Code, &o.Customer, &o.TotalValue,
			); err != nil {
				return nil, err
			}
			return &o, nil
		},
		Fields: map[string]string{
			domain.FieldCode:     "code",
			domain.FieldCustomer: "customer",
		},
	})
}

// NewOrderItemRepository связывает OrderItem с таблицей order_items.
func NewOrderItemRepository(store *Store) *Repository[*domain.OrderItem] {
	return NewRepository(store, TableSpec[*domain.OrderItem]{
		Table:   "order_items",
		Columns: []string{"order_code", "product", "quantity", "unit_price", "total_value"},
		Values: func(i *domain.OrderItem) []any {
			return []any{i.OrderCode, i.Product, i.Quantity, i.UnitPrice, i.TotalValue}
		},
		Scan: func(row rowScanner) (*domain.OrderItem, error) {
			var i domain.OrderItem
			if err := row.Scan(
				&i.ID, &i.CreatedAt, &i.ModifiedAt, &i.Deleted,
				&i.OrderCode, &i.Product, &i.Quantity, &i.UnitPrice, &i.TotalValue,
			); err != nil {
				return nil, err
			}
			return &i, nil
		},
		Fields: map[string]string{
			domain.FieldOrderCode: "order_code",
		},
	})
}
