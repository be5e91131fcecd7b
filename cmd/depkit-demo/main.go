// Command depkit-demo walks through shared dependencies and scoped overrides.
//
// Configuration is read from config.yml, .env and DEPKIT_* environment
// variables. Set DEPKIT_TELEMETRY_METRICS_ENABLED=true to export resolution
// metrics over OTLP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/depkit/config"
	"github.com/kbukum/depkit/di"
	"github.com/kbukum/depkit/logger"
	"github.com/kbukum/depkit/observability"
)

const serviceName = "depkit-demo"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Error("demo failed", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	shutdown, err := startTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer shutdown()

	if err := di.Configure(cfg.Dependencies); err != nil {
		return fmt.Errorf("configuring dependencies: %w", err)
	}

	report, err := runScenario(ctx)
	if err != nil {
		return err
	}
	for _, line := range report {
		logger.Info(line.Step, logger.Fields("greeting", line.Greeting, "source", line.Source))
	}

	if l := logger.WithComponent("demo"); l.Enabled(zerolog.DebugLevel) {
		l.Debug("shared registrations", registrationFields(di.Shared()))
	}
	return nil
}

// loadConfig loads the service config and installs its logger. When loading
// fails the global logger is built from LOG_* variables instead.
func loadConfig(opts ...config.LoaderOption) (*config.Config, error) {
	cfg, err := config.Load(serviceName, opts...)
	if err != nil {
		logger.SetGlobalLogger(logger.NewFromEnv(serviceName))
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Init(cfg.Logging)
	return cfg, nil
}

// registrationFields summarizes the entries of c for a debug line.
func registrationFields(c *di.Container) map[string]interface{} {
	regs := c.Registrations()
	keys := make([]string, 0, len(regs))
	for _, r := range regs {
		keys = append(keys, r.Key)
	}
	return logger.Fields("entries", len(regs), "keys", keys)
}

// startTelemetry installs the configured exporters and returns a function
// that flushes and stops them.
func startTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(), error) {
	var stops []func(context.Context) error

	if cfg.MetricsEnabled {
		mp, err := observability.InitMeter(ctx, &cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("starting metrics: %w", err)
		}
		stops = append(stops, mp.Shutdown)
	}
	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(ctx, cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("starting tracing: %w", err)
		}
		stops = append(stops, tp.Shutdown)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for i := len(stops) - 1; i >= 0; i-- {
			if err := stops[i](ctx); err != nil {
				logger.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
			}
		}
	}, nil
}
