package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

// service реализует сценарий создания заказа: проверка инварианта
// уникальности кода и атомарная запись заказа вместе с позициями.
type service struct {
	uow     domain.UnitOfWork
	orders  domain.Repository[*domain.Order]
	items   domain.Repository[*domain.OrderItem]
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewService создаёт рабочий экземпляр сервиса заказов.
func NewService(
	uow domain.UnitOfWork,
	orders domain.Repository[*domain.Order],
	items domain.Repository[*domain.OrderItem],
	logger *log.Entry,
) domain.OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &service{
		uow:     uow,
		orders:  orders,
		items:   items,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	uow domain.UnitOfWork,
	orders domain.Repository[*domain.Order],
	items domain.Repository[*domain.OrderItem],
	logger *log.Entry,
) domain.OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &service{
		uow:    uow,
		orders: orders,
		items:  items,
		logger: logger,
	}
}

// CreateOrder создаёт заказ и его позиции одной транзакцией.
// Код заказа должен быть уникален среди неудалённых заказов.
func (s *service) CreateOrder(ctx context.Context, cmd domain.CreateOrderCommand) (domain.OrderResult, error) {
	started := time.Now()

	if errs := cmd.ValidateInvariants(); len(errs) > 0 {
		s.metrics.RecordCreateFailure()
		return domain.OrderResult{}, errors.Join(errs...)
	}

	_, err := s.orders.GetFirst(ctx, domain.NewQuery().Where(domain.FieldCode, cmd.Code))
	switch {
	case err == nil:
		s.logger.WithField("order_code", cmd.Code).Warn("order code already in use")
		s.metrics.RecordDuplicateRejected()
		return domain.OrderResult{}, fmt.Errorf("order %q: %w", cmd.Code, domain.ErrDuplicateOrderCode)
	case !domain.IsNotFound(err):
		s.metrics.RecordCreateFailure()
		return domain.OrderResult{}, fmt.Errorf("check order code %q: %w", cmd.Code, err)
	}

	order, items := domain.BuildOrder(cmd)

	txCtx, err := s.uow.BeginTransaction(ctx)
	if err != nil {
		s.metrics.RecordCreateFailure()
		return domain.OrderResult{}, fmt.Errorf("begin transaction: %w", err)
	}

	if err := s.writeAggregate(txCtx, order, items); err != nil {
		s.logger.WithFields(log.Fields{
			"order_code": order.Code,
			"error":      err,
		}).Error("order creation failed, rolling back")
		if rollbackErr := s.uow.Rollback(txCtx); rollbackErr != nil {
			s.logger.WithField("error", rollbackErr).Error("rollback failed")
		}
		s.metrics.RecordCreateFailure()
		return domain.OrderResult{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_code": order.Code,
		"customer":   order.Customer,
		"items":      len(items),
	}).Info("order created")
	s.metrics.RecordOrderCreated()
	s.metrics.RecordCreateDuration(time.Since(started))

	return buildResult(order, items), nil
}

// writeAggregate пишет заказ и позиции внутри открытой транзакции и коммитит её.
func (s *service) writeAggregate(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	if err := s.orders.Insert(ctx, order); err != nil {
		return fmt.Errorf("insert order %q: %w", order.Code, err)
	}
	for _, item := range items {
		if err := s.items.Insert(ctx, item); err != nil {
			return fmt.Errorf("insert item %q of order %q: %w", item.Product, order.Code, err)
		}
	}
	if err := s.uow.Commit(ctx); err != nil {
		return fmt.Errorf("commit order %q: %w", order.Code, err)
	}
	return nil
}

// ListOrders возвращает страницу заказов, опционально отфильтрованных по клиенту.
func (s *service) ListOrders(ctx context.Context, filter domain.OrderFilter) (domain.PagedResult[domain.OrderSummary], error) {
	query := domain.NewQuery()
	if filter.Customer != "" {
		query = query.Where(domain.FieldCustomer, filter.Customer)
	}

	page, err := s.orders.GetPaged(ctx, filter.Page, filter.PageSize, &query)
	if err != nil {
		return domain.PagedResult[domain.OrderSummary]{}, fmt.Errorf("list orders: %w", err)
	}

	summaries := make([]domain.OrderSummary, 0, len(page.Data))
	for _, order := range page.Data {
		summaries = append(summaries, summarize(order))
	}

	return domain.PagedResult[domain.OrderSummary]{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		Data:       summaries,
	}, nil
}

// GetOrderDetails возвращает заказ с полным списком его позиций.
func (s *service) GetOrderDetails(ctx context.Context, code string) (domain.OrderResult, error) {
	order, err := s.orders.GetFirst(ctx, domain.NewQuery().Where(domain.FieldCode, code))
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.OrderResult{}, fmt.Errorf("order %q: %w", code, domain.ErrOrderNotFound)
		}
		return domain.OrderResult{}, fmt.Errorf("get order %q: %w", code, err)
	}

	itemsQuery := domain.NewQuery().Where(domain.FieldOrderCode, order.Code)
	itemsPage, err := s.items.GetPaged(ctx, 1, domain.PageSizeAll, &itemsQuery)
	if err != nil {
		return domain.OrderResult{}, fmt.Errorf("get items of order %q: %w", code, err)
	}

	return buildResult(order, itemsPage.Data), nil
}

func summarize(order *domain.Order) domain.OrderSummary {
	return domain.OrderSummary{
		ID:         order.ID,
		Code:       order.Code,
		Customer:   order.Customer,
		TotalValue: order.TotalValue,
	}
}

func buildResult(order *domain.Order, items []*domain.OrderItem) domain.OrderResult {
	result := domain.OrderResult{
		OrderSummary: summarize(order),
		Items:        make([]domain.OrderItemResult, 0, len(items)),
	}
	for _, item := range items {
		result.Items = append(result.Items, domain.OrderItemResult{
			ID:         item.ID,
			OrderCode:  item.OrderCode,
			Product:    item.Product,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalValue: item.TotalValue,
		})
	}
	return result
}
