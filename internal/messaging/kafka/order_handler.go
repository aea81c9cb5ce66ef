package kafka

import (
	"context"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

// NewOrderHandler возвращает обработчик сообщений о создании заказов.
// Обработчик всегда возвращает nil: и нечитаемые сообщения, и отказ ядра
// логируются вместе с исходным payload, после чего сообщение подтверждается.
func NewOrderHandler(service domain.OrderService, orderMetrics *metrics.OrderMetrics, logger *log.Entry) MessageHandler {
	if logger == nil {
		logger = log.WithField("component", "order-handler")
	}

	return func(ctx context.Context, message *sarama.ConsumerMessage) error {
		orderMetrics.RecordMessageConsumed()

		parsed, err := ParseOrderMessage(message)
		if err != nil {
			logger.WithFields(log.Fields{
				"topic":   message.Topic,
				"offset":  message.Offset,
				"payload": string(message.Value),
			}).WithError(err).Warn("dropping undecodable message")
			orderMetrics.RecordMessageDecodeFailure()
			return nil
		}

		cmd := parsed.Command()
		if _, err := service.CreateOrder(ctx, cmd); err != nil {
			logger.WithFields(log.Fields{
				"order_code": cmd.Code,
				"payload":    string(message.Value),
			}).WithError(err).Error("order creation from message failed")
			orderMetrics.RecordMessageFailure()
			return nil
		}

		logger.WithField("order_code", cmd.Code).Info("order created from message")
		return nil
	}
}
