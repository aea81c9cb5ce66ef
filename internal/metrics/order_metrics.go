package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	// Счётчики операций создания
	ordersCreated      prometheus.Counter
	createFailures     prometheus.Counter
	duplicatesRejected prometheus.Counter

	// Счётчики потока сообщений
	messagesConsumed      prometheus.Counter
	messageDecodeFailures prometheus.Counter
	messageFailures       prometheus.Counter

	// Гистограмма времени создания заказа
	createDuration prometheus.Histogram
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created successfully",
		}),
		createFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_create_failures_total",
			Help: "Total number of order creations that failed",
		}),
		duplicatesRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_duplicates_rejected_total",
			Help: "Total number of order creations rejected as duplicate codes",
		}),
		messagesConsumed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_messages_consumed_total",
			Help: "Total number of queue messages received by the consumer",
		}),
		messageDecodeFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_message_decode_failures_total",
			Help: "Total number of queue messages that failed to decode",
		}),
		messageFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_message_failures_total",
			Help: "Total number of queue messages whose processing failed",
		}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_create_duration_seconds",
			Help:    "Duration of order creation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordOrderCreated фиксирует успешно созданный заказ.
func (m *OrderMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordCreateFailure фиксирует неуспешное создание заказа.
func (m *OrderMetrics) RecordCreateFailure() {
	if m == nil {
		return
	}
	m.createFailures.Inc()
}

// RecordDuplicateRejected фиксирует отклонённый дубликат кода заказа.
func (m *OrderMetrics) RecordDuplicateRejected() {
	if m == nil {
		return
	}
	m.duplicatesRejected.Inc()
}

// RecordMessageConsumed фиксирует полученное из очереди сообщение.
func (m *OrderMetrics) RecordMessageConsumed() {
	if m == nil {
		return
	}
	m.messagesConsumed.Inc()
}

// RecordMessageDecodeFailure фиксирует сообщение, которое не удалось разобрать.
func (m *OrderMetrics) RecordMessageDecodeFailure() {
	if m == nil {
		return
	}
	m.messageDecodeFailures.Inc()
}

// RecordMessageFailure фиксирует сообщение, обработка которого завершилась ошибкой.
func (m *OrderMetrics) RecordMessageFailure() {
	if m == nil {
		return
	}
	m.messageFailures.Inc()
}

// RecordCreateDuration фиксирует длительность создания заказа.
func (m *OrderMetrics) RecordCreateDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.createDuration.Observe(d.Seconds())
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
