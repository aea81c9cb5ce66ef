package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// Топики и consumer группы сервиса заказов.
const (
	// TopicOrdersCreated — входящий поток команд на создание заказов
	TopicOrdersCreated = "orders.created"

	// GroupOrdersService — consumer группа сервиса заказов
	GroupOrdersService = "orders.created.service"
)

// OrderMessage — входящее сообщение о создании заказа.
// Имена полей фиксированы внешним контрактом очереди.
type OrderMessage struct {
	CodigoPedido  int64              `json:"codigoPedido"`
	CodigoCliente int64              `json:"codigoCliente"`
	Itens         []OrderItemMessage `json:"itens"`
}

// OrderItemMessage — одна позиция входящего сообщения.
type OrderItemMessage struct {
	Produto    string          `json:"produto"`
	Quantidade decimal.Decimal `json:"quantidade"`
	Preco      decimal.Decimal `json:"preco"`
}

// Command транслирует сообщение во внутреннюю команду создания заказа.
// Числовые коды внешнего контракта становятся строковыми идентификаторами ядра.
func (m OrderMessage) Command() domain.CreateOrderCommand {
	cmd := domain.CreateOrderCommand{
		Code:     strconv.FormatInt(m.CodigoPedido, 10),
		Customer: strconv.FormatInt(m.CodigoCliente, 10),
		Items:    make([]domain.OrderItemInput, 0, len(m.Itens)),
	}
	for _, item := range m.Itens {
		cmd.Items = append(cmd.Items, domain.OrderItemInput{
			Product:   item.Produto,
			Quantity:  item.Quantidade,
			UnitPrice: item.Preco,
		})
	}
	return cmd
}

// ParseOrderMessage разбирает сообщение о создании заказа
func ParseOrderMessage(message *sarama.ConsumerMessage) (*OrderMessage, error) {
	var parsed OrderMessage
	if err := json.Unmarshal(message.Value, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order message: %w", err)
	}
	return &parsed, nil
}
