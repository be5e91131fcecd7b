package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/depkit/logger"
)

// DefaultMeterName is the instrumentation scope used by depkit.
const DefaultMeterName = "github.com/kbukum/depkit"

// Values of the "source" attribute on depkit.resolutions.
const (
	SourceStored   = "stored"
	SourceDefault  = "default"
	SourceMismatch = "mismatch"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider with an OTLP HTTP
// exporter and installs it globally.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
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

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	return NewMeterProvider(config, sdkmetric.NewPeriodicReader(exporter, readerOpts...))
}

// NewMeterProvider builds a meter provider around reader and installs it
// globally. Tests pass a sdkmetric.ManualReader.
func NewMeterProvider(config *MeterConfig, reader sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by containers and override scopes.
// A nil *Metrics records nothing.
type Metrics struct {
	resolutions   metric.Int64Counter
	scopesActive  metric.Int64UpDownCounter
	scopeDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	resolutions, err := meter.Int64Counter("depkit.resolutions",
		metric.WithDescription("Dependency reads by key and resolution source"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating depkit.resolutions counter: %w", err)
	}

	scopesActive, err := meter.Int64UpDownCounter("depkit.scopes.active",
		metric.WithDescription("Number of currently open scoped overrides"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating depkit.scopes.active gauge: %w", err)
	}

	scopeDuration, err := meter.Float64Histogram("depkit.scope.duration",
		metric.WithDescription("Duration of scoped overrides in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating depkit.scope.duration histogram: %w", err)
	}

	return &Metrics{
		resolutions:   resolutions,
		scopesActive:  scopesActive,
		scopeDuration: scopeDuration,
	}, nil
}

// RecordResolution counts one dependency read.
func (m *Metrics) RecordResolution(ctx context.Context, source, key string) {
	if m == nil {
		return
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("key", key),
	))
}

// RecordScopeStart increments the open scope count.
func (m *Metrics) RecordScopeStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.scopesActive.Add(ctx, 1)
}

// RecordScopeEnd decrements open scopes and records how long the scope ran.
func (m *Metrics) RecordScopeEnd(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.scopesActive.Add(ctx, -1)
	m.scopeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}
