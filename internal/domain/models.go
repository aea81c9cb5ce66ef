package domain

import "github.com/shopspring/decimal"

// CreateOrderCommand — входная модель бизнес-процесса создания заказа.
type CreateOrderCommand struct {
	Code     string
	Customer string
	Items    []OrderItemInput
}

// OrderItemInput описывает одну строку команды создания.
type OrderItemInput struct {
	Product   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// ValidateInvariants проверяет базовые инварианты команды и возвращает список замечаний.
func (c CreateOrderCommand) ValidateInvariants() []error {
	var errs []error

	if c.Code == "" {
		errs = append(errs, ErrOrderCodeRequired)
	}
	if c.Customer == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	for _, item := range c.Items {
		if item.Product == "" {
			errs = append(errs, ErrItemProductRequired)
		}
		if item.Quantity.Sign() <= 0 {
			errs = append(errs, ErrItemQuantityInvalid)
		}
		if item.UnitPrice.Sign() < 0 {
			errs = append(errs, ErrItemPriceNegative)
		}
	}

	return errs
}

// OrderSummary — заголовок заказа без позиций (для списков).
type OrderSummary struct {
	ID         string
	Code       string
	Customer   string
	TotalValue decimal.Decimal
}

// OrderItemResult — проекция сохранённой позиции заказа.
type OrderItemResult struct {
	ID         string
	OrderCode  string
	Product    string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalValue decimal.Decimal
}

// OrderResult — проекция сохранённого заказа вместе с позициями.
type OrderResult struct {
	OrderSummary
	Items []OrderItemResult
}

// OrderFilter задаёт параметры выборки списка заказов.
type OrderFilter struct {
	Customer string
	Page     int
	PageSize int
}
