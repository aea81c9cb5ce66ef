package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// stubOrderService записывает полученные команды.
type stubOrderService struct {
	commands  []domain.CreateOrderCommand
	createErr error
}

func (s *stubOrderService) CreateOrder(_ context.Context, cmd domain.CreateOrderCommand) (domain.OrderResult, error) {
	s.commands = append(s.commands, cmd)
	if s.createErr != nil {
		return domain.OrderResult{}, s.createErr
	}
	return domain.OrderResult{OrderSummary: domain.OrderSummary{Code: cmd.Code}}, nil
}

func (s *stubOrderService) ListOrders(context.Context, domain.OrderFilter) (domain.PagedResult[domain.OrderSummary], error) {
	return domain.PagedResult[domain.OrderSummary]{}, nil
}

func (s *stubOrderService) GetOrderDetails(context.Context, string) (domain.OrderResult, error) {
	return domain.OrderResult{}, nil
}

func orderMessageValue() []byte {
	return []byte(`{"codigoPedido":123,"codigoCliente":456,"itens":[{"produto":"lancheira","quantidade":2,"preco":3}]}`)
}

func TestParseOrderMessage(t *testing.T) {
	msg := &sarama.ConsumerMessage{Value: orderMessageValue()}

	parsed, err := ParseOrderMessage(msg)
	if err != nil {
		t.Fatalf("ParseOrderMessage failed: %v", err)
	}
	if parsed.CodigoPedido != 123 || parsed.CodigoCliente != 456 {
		t.Fatalf("unexpected codes: %d / %d", parsed.CodigoPedido, parsed.CodigoCliente)
	}
	if len(parsed.Itens) != 1 {
		t.Fatalf("expected 1 item, got %d", len(parsed.Itens))
	}
	if parsed.Itens[0].Produto != "lancheira" {
		t.Fatalf("unexpected product: %q", parsed.Itens[0].Produto)
	}

	if _, err := ParseOrderMessage(&sarama.ConsumerMessage{Value: []byte("{")}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseOrderMessageCaseInsensitiveFields(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Value: []byte(`{"CodigoPedido":7,"CODIGOCLIENTE":8,"Itens":[{"PRODUTO":"caneta","Quantidade":1,"Preco":"2.50"}]}`),
	}

	parsed, err := ParseOrderMessage(msg)
	if err != nil {
		t.Fatalf("ParseOrderMessage failed: %v", err)
	}
	if parsed.CodigoPedido != 7 || parsed.CodigoCliente != 8 {
		t.Fatalf("unexpected codes: %d / %d", parsed.CodigoPedido, parsed.CodigoCliente)
	}
	if !parsed.Itens[0].Preco.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("unexpected price: %s", parsed.Itens[0].Preco)
	}
}

func TestOrderMessageCommand(t *testing.T) {
	message := OrderMessage{
		CodigoPedido:  123,
		CodigoCliente: 456,
		Itens: []OrderItemMessage{
			{Produto: "lancheira", Quantidade: decimal.NewFromInt(2), Preco: decimal.NewFromInt(3)},
		},
	}

	cmd := message.Command()
	if cmd.Code != "123" {
		t.Fatalf("unexpected code: %q", cmd.Code)
	}
	if cmd.Customer != "456" {
		t.Fatalf("unexpected customer: %q", cmd.Customer)
	}
	if len(cmd.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cmd.Items))
	}
	item := cmd.Items[0]
	if item.Product != "lancheira" || !item.Quantity.Equal(decimal.NewFromInt(2)) || !item.UnitPrice.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestOrderHandlerCreatesOrder(t *testing.T) {
	service := &stubOrderService{}
	handler := NewOrderHandler(service, nil, log.WithField("test", "handler"))

	msg := &sarama.ConsumerMessage{Topic: TopicOrdersCreated, Value: orderMessageValue()}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if len(service.commands) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(service.commands))
	}
	if service.commands[0].Code != "123" {
		t.Fatalf("unexpected order code: %q", service.commands[0].Code)
	}
}

func TestOrderHandlerDropsUndecodableMessage(t *testing.T) {
	service := &stubOrderService{}
	handler := NewOrderHandler(service, nil, log.WithField("test", "handler-bad"))

	msg := &sarama.ConsumerMessage{Topic: TopicOrdersCreated, Value: []byte("not json")}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("undecodable message must be dropped, not retried: %v", err)
	}
	if len(service.commands) != 0 {
		t.Fatalf("service must not be called for undecodable message, got %d calls", len(service.commands))
	}
}

func TestOrderHandlerSwallowsServiceError(t *testing.T) {
	service := &stubOrderService{createErr: errors.New("storage unavailable")}
	handler := NewOrderHandler(service, nil, log.WithField("test", "handler-err"))

	msg := &sarama.ConsumerMessage{Topic: TopicOrdersCreated, Value: orderMessageValue()}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("handler must swallow service error so the message is acked: %v", err)
	}
	if len(service.commands) != 1 {
		t.Fatalf("expected 1 create attempt, got %d", len(service.commands))
	}
}
