package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sandeepkv93/shophub-client/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const instrumentationName = "shophub-client"

type AppMetrics struct {
	authLoginCounter      metric.Int64Counter
	authLogoutCounter     metric.Int64Counter
	bootstrapCounter      metric.Int64Counter
	apiRequestCounter     metric.Int64Counter
	chatEventCounter      metric.Int64Counter
	chatDroppedCounter    metric.Int64Counter
	stateOperationCounter metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		if err := registerMetrics(mp); err != nil {
			return nil, err
		}
		logger.Debug("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)
	if err := registerMetrics(mp); err != nil {
		return nil, err
	}

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func registerMetrics(provider metric.MeterProvider) error {
	meter := provider.Meter(instrumentationName)
	loginCounter, err := meter.Int64Counter("auth.login.attempts")
	if err != nil {
		return err
	}
	logoutCounter, err := meter.Int64Counter("auth.logout")
	if err != nil {
		return err
	}
	bootstrapCounter, err := meter.Int64Counter("session.bootstrap")
	if err != nil {
		return err
	}
	apiCounter, err := meter.Int64Counter("api.requests")
	if err != nil {
		return err
	}
	chatEventCounter, err := meter.Int64Counter("chat.events")
	if err != nil {
		return err
	}
	chatDroppedCounter, err := meter.Int64Counter("chat.send.dropped")
	if err != nil {
		return err
	}
	stateCounter, err := meter.Int64Counter("state.operations")
	if err != nil {
		return err
	}

	metricsMu.Lock()
	appMetrics = &AppMetrics{
		authLoginCounter:      loginCounter,
		authLogoutCounter:     logoutCounter,
		bootstrapCounter:      bootstrapCounter,
		apiRequestCounter:     apiCounter,
		chatEventCounter:      chatEventCounter,
		chatDroppedCounter:    chatDroppedCounter,
		stateOperationCounter: stateCounter,
	}
	metricsMu.Unlock()
	return nil
}

func currentMetrics() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordAuthLogin(ctx context.Context, endpoint, status string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.authLoginCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("status", status),
		),
	)
}

func RecordAuthLogout(ctx context.Context, status string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.authLogoutCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func RecordSessionBootstrap(ctx context.Context, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.bootstrapCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordAPIRequest(ctx context.Context, operation string, status int) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.apiRequestCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status_class", ClassifyStatusClass(status)),
		),
	)
}

func RecordChatEvent(ctx context.Context, event string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.chatEventCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

func RecordChatSendDropped(ctx context.Context, event, reason string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.chatDroppedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("event", event),
			attribute.String("reason", reason),
		),
	)
}

func RecordRepositoryOperation(ctx context.Context, backend, operation, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.stateOperationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		),
	)
}

func ClassifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	case status == 0:
		return "transport_error"
	default:
		return "other"
	}
}
