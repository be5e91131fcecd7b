package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: demo
environment: staging
logging:
  level: debug
  format: json
dependencies:
  silent_mismatches: true
telemetry:
  metrics:
    interval: 30s
`)

	cfg, err := Load("demo", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("expected environment staging, got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if !cfg.Dependencies.SilentMismatches {
		t.Error("expected silent_mismatches from file")
	}
	if cfg.Telemetry.Metrics.Interval != 30*time.Second {
		t.Errorf("expected interval 30s, got %v", cfg.Telemetry.Metrics.Interval)
	}
	if cfg.Telemetry.Metrics.ServiceName != "demo" {
		t.Errorf("expected meter service name demo, got %q", cfg.Telemetry.Metrics.ServiceName)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: demo
logging:
  level: info
`)
	t.Setenv("DEPKIT_LOGGING_LEVEL", "warn")
	t.Setenv("DEPKIT_DEPENDENCIES_SILENT_MISMATCHES", "true")
	t.Setenv("DEPKIT_TELEMETRY_METRICS_SERVICE_NAME", "from-env")
	t.Setenv("LOGGING_LEVEL", "error")

	cfg, err := Load("demo", WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected prefixed env to win, got %q", cfg.Logging.Level)
	}
	if !cfg.Dependencies.SilentMismatches {
		t.Error("expected silent_mismatches from env")
	}
	if cfg.Telemetry.Metrics.ServiceName != "from-env" {
		t.Errorf("expected nested underscore key from env, got %q", cfg.Telemetry.Metrics.ServiceName)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "DEPKIT_NAME=from-dotenv\nDEPKIT_ENVIRONMENT=production\n")
	t.Cleanup(func() {
		os.Unsetenv("DEPKIT_NAME")
		os.Unsetenv("DEPKIT_ENVIRONMENT")
	})

	cfg, err := Load("demo", WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment from .env, got %q", cfg.Environment)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	fs := &mockFS{files: map[string]bool{}}
	cfg, err := Load("nonexistent-service", WithFileSystem(fs))
	if err != nil {
		t.Fatalf("expected Load to succeed without files, got %v", err)
	}
	if cfg.Name != "nonexistent-service" {
		t.Errorf("expected service name fallback, got %q", cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected default environment, got %q", cfg.Environment)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: [unclosed\n")

	_, err := Load("demo", WithConfigFile(path))
	if err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestWithEnvPrefix(t *testing.T) {
	fs := &mockFS{files: map[string]bool{}}
	t.Setenv("MYAPP_NAME", "custom-prefix")

	var cfg Config
	if err := LoadConfig("demo", &cfg, WithFileSystem(fs), WithEnvPrefix("MYAPP_")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "custom-prefix" {
		t.Errorf("expected name from custom prefix, got %q", cfg.Name)
	}
}

func TestFindSourcesWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/my-svc/config.yml": true,
		"../config/config.yml":    true,
		"./.env.my-svc":           true,
		"./.env":                  true,
	}}

	src := FindSources("my-svc", LoaderConfig{FileSystem: fs})
	if src.ConfigFile != "./cmd/my-svc/config.yml" {
		t.Errorf("expected service config file, got %q", src.ConfigFile)
	}
	if src.EnvFile != "./.env.my-svc" {
		t.Errorf("expected service env file to win, got %q", src.EnvFile)
	}

	explicit := FindSources("my-svc", LoaderConfig{FileSystem: fs, ConfigFile: "custom.yml"})
	if explicit.ConfigFile != "custom.yml" {
		t.Errorf("expected explicit config file, got %q", explicit.ConfigFile)
	}
}

func TestLoadConfigUsesFileSystemForEnv(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}

	var cfg Config
	if err := LoadConfig("svc", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "./.env" {
		t.Errorf("expected ./.env to be loaded, got %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"NAME", []string{"name"}},
		{"LOGGING_LEVEL", []string{"logging_level", "logging.level"}},
		{"METRICS_MAX_BUCKETS", []string{
			"metrics_max_buckets",
			"metrics.max_buckets",
			"metrics_max.buckets",
			"metrics.max.buckets",
		}},
		{"A_B_C_D_E_F_G_H_I", []string{"a_b_c_d_e_f_g_h_i", "a.b.c.d.e.f.g.h.i"}},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got := envKeyVariants(tc.key)
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("envKeyVariants(%q) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		c := Config{Name: "svc"}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, "name is required"},
		{"invalid environment", func(c *Config) { c.Environment = "qa" }, "environment must be one of"},
		{"invalid logging", func(c *Config) { c.Logging.Level = "loud" }, "config.logging"},
		{"invalid dependencies", func(c *Config) {
			c.Dependencies.Metrics = true
			c.Dependencies.MeterName = ""
		}, "config.dependencies"},
		{"invalid metrics endpoint", func(c *Config) { c.Telemetry.Metrics.Endpoint = "nohost" }, "telemetry.metrics.endpoint"},
		{"invalid sample rate", func(c *Config) { c.Telemetry.Tracing.SampleRate = 2 }, "sample_rate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestApplyDefaultsEnablesDependencyMetrics(t *testing.T) {
	c := Config{Name: "svc", Telemetry: TelemetryConfig{MetricsEnabled: true}}
	c.ApplyDefaults()

	if !c.Dependencies.Metrics {
		t.Error("expected telemetry metrics to enable dependency metrics")
	}
	if c.Dependencies.MeterName == "" {
		t.Error("expected default meter name")
	}
	if c.Telemetry.Tracing.SampleRate != 1.0 {
		t.Errorf("expected default sample rate 1.0, got %v", c.Telemetry.Tracing.SampleRate)
	}
}
