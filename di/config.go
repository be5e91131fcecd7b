package di

import (
	"fmt"
	"sync/atomic"

	"github.com/kbukum/depkit/errors"
	"github.com/kbukum/depkit/observability"
)

// Config contains process-wide options for containers and scopes.
type Config struct {
	// SilentMismatches disables the warning logged when an entry does not
	// hold its key's value type. The read still falls back to the default.
	SilentMismatches bool `yaml:"silent_mismatches" mapstructure:"silent_mismatches"`
	// Metrics records resolutions and scopes through OpenTelemetry.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
	// MeterName is the instrumentation scope used when Metrics is set.
	MeterName string `yaml:"meter_name" mapstructure:"meter_name"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.MeterName == "" {
		c.MeterName = observability.DefaultMeterName
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Metrics && c.MeterName == "" {
		return errors.InvalidInput("di.meter_name", "required when metrics are enabled")
	}
	return nil
}

// settings is the applied form of Config, read on every resolution.
type settings struct {
	cfg     Config
	metrics *observability.Metrics
}

var current atomic.Pointer[settings]

func init() {
	current.Store(&settings{})
}

func loadSettings() *settings {
	return current.Load()
}

// Configure applies cfg process-wide. Metric instruments are created on the
// global meter provider, so install the provider first.
func Configure(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	s := &settings{cfg: cfg}
	if cfg.Metrics {
		m, err := observability.NewMetrics(observability.Meter(cfg.MeterName))
		if err != nil {
			return fmt.Errorf("di: creating metrics: %w", err)
		}
		s.metrics = m
	}
	current.Store(s)
	return nil
}

// CurrentConfig returns the configuration applied by the last Configure call.
func CurrentConfig() Config {
	return loadSettings().cfg
}
