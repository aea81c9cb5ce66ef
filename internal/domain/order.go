package domain

import "github.com/shopspring/decimal"

// Имена полей, допустимых в предикатах Query.
const (
	FieldCode      = "code"
	FieldCustomer  = "customer"
	FieldOrderCode = "order_code"
)

// Order — корень агрегата заказа. Code — уникальный бизнес-ключ;
// TotalValue — производная сумма позиций.
type Order struct {
	Entity
	Code       string
	Customer   string
	TotalValue decimal.Decimal
}

// EntityRef отдаёт конверт аудита заказа.
func (o *Order) EntityRef() *Entity { return &o.Entity }

// OrderItem — позиция заказа. OrderCode ссылается на Order.Code, а не на
// Order.ID — намеренная денормализация исходной модели данных.
type OrderItem struct {
	Entity
	OrderCode  string
	Product    string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalValue decimal.Decimal
}

// EntityRef отдаёт конверт аудита позиции.
func (i *OrderItem) EntityRef() *Entity { return &i.Entity }

// BuildOrder собирает агрегат из команды создания: каждой позиции назначается
// свежая идентичность и total = quantity * unitPrice, сумма заказа — сумма
// позиций. Арифметика десятичная, без округления.
func BuildOrder(cmd CreateOrderCommand) (*Order, []*OrderItem) {
	order := &Order{
		Entity:   NewEntity(),
		Code:     cmd.Code,
		Customer: cmd.Customer,
	}

	items := make([]*OrderItem, 0, len(cmd.Items))
	total := decimal.Zero
	for _, in := range cmd.Items {
		item := &OrderItem{
			Entity:     NewEntity(),
			OrderCode:  cmd.Code,
			Product:    in.Product,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TotalValue: in.Quantity.Mul(in.UnitPrice),
		}
		total = total.Add(item.TotalValue)
		items = append(items, item)
	}
	order.TotalValue = total

	return order, items
}
