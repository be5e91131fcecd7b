package config

import (
	"fmt"

	"github.com/kbukum/depkit/di"
	"github.com/kbukum/depkit/logger"
	"github.com/kbukum/depkit/observability"
	"github.com/kbukum/depkit/validation"
)

// Config is the configuration of a depkit application.
type Config struct {
	Name         string          `yaml:"name" mapstructure:"name" validate:"required"`
	Environment  string          `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version      string          `yaml:"version" mapstructure:"version"`
	Logging      logger.Config   `yaml:"logging" mapstructure:"logging"`
	Dependencies di.Config       `yaml:"dependencies" mapstructure:"dependencies"`
	Telemetry    TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig selects the OpenTelemetry exporters. Both are off unless
// enabled.
type TelemetryConfig struct {
	MetricsEnabled bool                       `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	TracingEnabled bool                       `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	Metrics        observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
	Tracing        observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	c.Logging.ApplyDefaults()
	c.Dependencies.ApplyDefaults()
	if c.Telemetry.MetricsEnabled {
		c.Dependencies.Metrics = true
	}

	m := &c.Telemetry.Metrics
	md := observability.DefaultMeterConfig(c.Name)
	if m.ServiceName == "" {
		m.ServiceName = c.Name
	}
	if m.ServiceVersion == "" {
		m.ServiceVersion = c.Version
	}
	if m.Environment == "" {
		m.Environment = c.Environment
	}
	if m.Endpoint == "" {
		m.Endpoint = md.Endpoint
	}
	if m.Interval <= 0 {
		m.Interval = md.Interval
	}

	tr := &c.Telemetry.Tracing
	td := observability.DefaultTracerConfig(c.Name)
	if tr.ServiceName == "" {
		tr.ServiceName = c.Name
	}
	if tr.ServiceVersion == "" {
		tr.ServiceVersion = c.Version
	}
	if tr.Environment == "" {
		tr.Environment = c.Environment
	}
	if tr.Endpoint == "" {
		tr.Endpoint = td.Endpoint
	}
	if tr.SampleRate == 0 {
		tr.SampleRate = td.SampleRate
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Dependencies.Validate(); err != nil {
		return fmt.Errorf("config.dependencies: %w", err)
	}
	return nil
}

// Load reads the configuration of serviceName, applies defaults and
// validates it. An empty name in the sources falls back to serviceName.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
