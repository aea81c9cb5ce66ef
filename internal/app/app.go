package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/orders/internal/health"
	"github.com/vladislavdragonenkov/orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
	"github.com/vladislavdragonenkov/orders/internal/service/order"
	"github.com/vladislavdragonenkov/orders/internal/version"
)

const (
	storePingTimeout = 3 * time.Second
	shutdownTimeout  = 5 * time.Second
)

// Run собирает сервис заказов и блокируется до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := deps.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close storage")
		}
	}()

	orderService := order.NewService(
		deps.UnitOfWork,
		deps.Orders,
		deps.Items,
		logger.WithField("layer", "service"),
	)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	deps.RegisterHealthChecks(healthHandler)

	metricsSrv := startMetricsServer(cfg.MetricsAddr, logger, healthHandler)

	consumer, err := startConsumer(ctx, cfg, orderService, logger)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		return err
	}

	logger.Info("order service started")
	<-ctx.Done()
	logger.Info("получен сигнал остановки, останавливаем сервис")

	// Сначала останавливаем поток входящих сообщений, затем внешние интерфейсы.
	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.WithError(err).Warn("failed to stop kafka consumer")
		}
	}
	shutdownHTTP(metricsSrv, logger)

	return ctx.Err()
}

// startConsumer запускает Kafka consumer, если настроены брокеры.
func startConsumer(ctx context.Context, cfg Config, service domain.OrderService, logger *log.Entry) (*kafka.Consumer, error) {
	if cfg.KafkaBrokers == "" {
		logger.Warn("kafka brokers are not set, consumer is disabled")
		return nil, nil
	}

	handler := kafka.NewOrderHandler(service, metrics.NewOrderMetrics(), logger.WithField("layer", "consumer"))
	consumer, err := kafka.NewConsumer(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.KafkaGroupID,
		[]string{cfg.KafkaTopic},
		handler,
	)
	if err != nil {
		return nil, err
	}
	if err := consumer.Start(ctx); err != nil {
		return nil, err
	}
	return consumer, nil
}

// startMetricsServer запускает HTTP-обработчики /metrics и health-проб.
func startMetricsServer(addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
