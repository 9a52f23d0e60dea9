package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/tabkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	log.Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns the tabkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments tabkit records. A nil *Metrics records
// nothing.
type Metrics struct {
	rowsTotal       metric.Int64Counter
	passTotal       metric.Int64Counter
	passDuration    metric.Float64Histogram
	errorTotal      metric.Int64Counter
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	rowsTotal, err := meter.Int64Counter("tabkit.rows",
		metric.WithDescription("Data rows pulled through a stream stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tabkit.rows counter: %w", err)
	}

	passTotal, err := meter.Int64Counter("tabkit.pass.total",
		metric.WithDescription("Completed stream passes by operation and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tabkit.pass.total counter: %w", err)
	}

	passDuration, err := meter.Float64Histogram("tabkit.pass.duration",
		metric.WithDescription("Duration of stream passes in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tabkit.pass.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("tabkit.errors",
		metric.WithDescription("Stream errors by code and stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tabkit.errors counter: %w", err)
	}

	requestTotal, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests by route and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}

	return &Metrics{
		rowsTotal:       rowsTotal,
		passTotal:       passTotal,
		passDuration:    passDuration,
		errorTotal:      errorTotal,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
	}, nil
}

// RecordRows adds n data rows seen at stage.
func (m *Metrics) RecordRows(ctx context.Context, stage string, n int64) {
	if m == nil {
		return
	}
	m.rowsTotal.Add(ctx, n, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordPass records a finished pass.
func (m *Metrics) RecordPass(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.passTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.passDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordError records a stream error by code and stage.
func (m *Metrics) RecordError(ctx context.Context, code, stage string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("stage", stage),
	))
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}
