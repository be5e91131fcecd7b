package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/depkit/logger"
)

// DefaultEnvPrefix is the prefix of environment variables read by LoadConfig.
const DefaultEnvPrefix = "DEPKIT_"

// FileSystem abstracts file lookups so tests can fake them.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Sources are the files a load reads from. Empty paths are skipped.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

// LoaderConfig holds the options of a LoadConfig call.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file, skips the search
	EnvFile    string // explicit .env file, skips the search
	EnvPrefix  string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets the filesystem used to find and read files.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment prefix. An empty prefix binds every
// environment variable.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// FindSources returns the explicit files from lc, searching standard
// locations for the ones left empty.
func FindSources(serviceName string, lc LoaderConfig) Sources {
	fs := lc.FileSystem
	if fs == nil {
		fs = OSFileSystem{}
	}

	src := Sources{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if src.ConfigFile == "" {
		src.ConfigFile = firstExisting(fs, searchPaths(serviceName, "config.yml"))
	}
	if src.EnvFile == "" {
		src.EnvFile = firstExisting(fs, append(
			searchPaths(serviceName, ".env."+serviceName),
			searchPaths(serviceName, ".env")...,
		))
	}
	return src
}

// LoadConfig loads configuration for serviceName into cfg, which must be a
// pointer to a struct with mapstructure tags.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = OSFileSystem{}
	}

	return load(serviceName, cfg, FindSources(serviceName, lc), lc)
}

func load(serviceName string, cfg interface{}, src Sources, lc LoaderConfig) error {
	v := viper.New()

	if src.ConfigFile != "" && lc.FileSystem.Exists(src.ConfigFile) {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", src.ConfigFile, err)
		}
	}

	// The .env file only adds variables missing from the environment.
	if src.EnvFile != "" && lc.FileSystem.Exists(src.EnvFile) {
		if err := lc.FileSystem.LoadEnv(src.EnvFile); err != nil {
			logger.Warn("failed to load env file", logger.Fields(
				"path", src.EnvFile,
				logger.FieldError, err.Error(),
			))
		}
	}
	bindEnv(v, lc.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// searchPaths lists candidate locations of file for serviceName, most
// specific first.
func searchPaths(serviceName, file string) []string {
	dirs := []string{
		"cmd/" + serviceName,
		"config/" + serviceName,
		"config",
		"",
	}

	var paths []string
	for _, dir := range dirs {
		for _, up := range []string{"./", "../", "../../"} {
			if dir == "" {
				paths = append(paths, up+file)
				continue
			}
			paths = append(paths, up+dir+"/"+file)
		}
	}
	return paths
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// bindEnv copies prefixed environment variables into v under every nested
// key they could address.
func bindEnv(v *viper.Viper, prefix string) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			key = strings.TrimPrefix(key, prefix)
		}
		if key == "" {
			continue
		}
		for _, k := range envKeyVariants(key) {
			v.Set(k, value)
		}
	}
}

// maxNestedParts bounds the underscore split so a long key cannot explode
// into thousands of variants.
const maxNestedParts = 8

// envKeyVariants maps an environment key to the viper keys it may address.
// Each underscore is either a nesting separator or part of a field name:
//
//	LOGGING_LEVEL       -> [logging_level logging.level]
//	METRICS_MAX_BUCKETS -> [metrics_max_buckets metrics.max_buckets metrics_max.buckets metrics.max.buckets]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}
	if len(parts) > maxNestedParts {
		return []string{lower, strings.Join(parts, ".")}
	}

	gaps := len(parts) - 1
	variants := make([]string, 0, 1<<gaps)
	var b strings.Builder
	for mask := 0; mask < 1<<gaps; mask++ {
		b.Reset()
		b.WriteString(parts[0])
		for i := 1; i < len(parts); i++ {
			if mask&(1<<(i-1)) != 0 {
				b.WriteByte('.')
			} else {
				b.WriteByte('_')
			}
			b.WriteString(parts[i])
		}
		variants = append(variants, b.String())
	}
	return variants
}
