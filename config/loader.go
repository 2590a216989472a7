// =============================================================================
// 📦 suitekit configuration loader
// =============================================================================
// Loads configuration from a YAML file with environment variable overrides.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("suitekit.yaml").
//	    WithEnvPrefix("SUITEKIT").
//	    Load()
//
// Precedence: defaults → YAML file → environment variables
// =============================================================================
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/suitekit/suite/dsl"
	"github.com/BaSui01/suitekit/types"
)

// =============================================================================
// 🎯 Configuration structure
// =============================================================================

// Config is the complete suitekit configuration.
type Config struct {
	// Log configures the zap logger
	Log LogConfig `yaml:"log" env:"LOG"`

	// Parser controls how definition text is read
	Parser ParserConfig `yaml:"parser" env:"PARSER"`

	// Output controls text and JSON rendering
	Output OutputConfig `yaml:"output" env:"OUTPUT"`

	// Loader controls batch loading
	Loader LoaderConfig `yaml:"loader" env:"LOADER"`

	// Metrics configures the Prometheus collector
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`

	// Telemetry configures OpenTelemetry export
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console
	Format string `yaml:"format" env:"FORMAT"`
	// OutputPaths are zap sink URLs
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	// EnableCaller adds the call site to each entry
	EnableCaller bool `yaml:"enable_caller" env:"ENABLE_CALLER"`
	// EnableStacktrace adds stack traces to error entries
	EnableStacktrace bool `yaml:"enable_stacktrace" env:"ENABLE_STACKTRACE"`
}

// ParserConfig configures the definition parser.
type ParserConfig struct {
	// Dialect: legacy parses triggers at link time, structured at parse time
	Dialect string `yaml:"dialect" env:"DIALECT"`
	// StrictMeters rejects meter marks outside [MIN, MAX]; when false the
	// mark falls back to MIN
	StrictMeters bool `yaml:"strict_meters" env:"STRICT_METERS"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	// Indent is repeated once per nesting level in definition text
	Indent string `yaml:"indent" env:"INDENT"`
	// JSONIndent indents JSON output; empty means compact
	JSONIndent string `yaml:"json_indent" env:"JSON_INDENT"`
}

// LoaderConfig configures batch loading.
type LoaderConfig struct {
	// Concurrency bounds how many definitions LoadAll builds at once
	Concurrency int `yaml:"concurrency" env:"CONCURRENCY"`
	// Timeout bounds a whole LoadAll call; zero means no limit
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled registers the collector
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Namespace prefixes every metric name
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// TelemetryConfig configures OpenTelemetry.
type TelemetryConfig struct {
	// Enabled turns on OTLP export
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// OTLPEndpoint is the collector address
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	// ServiceName is reported as service.name
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	// SampleRate is the trace sampling ratio
	SampleRate float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// =============================================================================
// 🔧 Loader
// =============================================================================

// Loader loads configuration (builder style).
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a loader with the SUITEKIT env prefix.
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "SUITEKIT",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath sets the YAML file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator adds a validator run after loading.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load loads the configuration.
// Precedence: defaults → YAML file → environment variables
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

// loadFromFile reads the YAML file. A missing file keeps the defaults.
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv walks struct fields recursively using their env tags.
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue, ok := os.LookupEnv(envKey)
		if !ok {
			continue
		}
		// Empty values only make sense for strings, e.g. compact JSON.
		if envValue == "" && field.Kind() != reflect.String {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// comma separated string slices
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// =============================================================================
// 🔍 Helpers
// =============================================================================

// MustLoad loads configuration from path and panics on failure.
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// LoadFromEnv loads defaults overridden by environment variables only.
func LoadFromEnv() (*Config, error) {
	return NewLoader().Load()
}

// Validate checks the configuration. All problems are reported together
// as one INVALID_CONFIG error.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}

	if _, err := c.Parser.ParseDialect(); err != nil {
		errs = append(errs, fmt.Sprintf("unknown parser dialect %q", c.Parser.Dialect))
	}

	if strings.TrimSpace(c.Output.Indent) != "" {
		errs = append(errs, "indent must contain only whitespace")
	}
	if strings.TrimSpace(c.Output.JSONIndent) != "" {
		errs = append(errs, "json_indent must contain only whitespace")
	}

	if c.Loader.Concurrency <= 0 {
		errs = append(errs, "loader concurrency must be positive")
	}
	if c.Loader.Timeout < 0 {
		errs = append(errs, "loader timeout must not be negative")
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		errs = append(errs, "metrics namespace is required when metrics are enabled")
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, "telemetry sample_rate must be between 0 and 1")
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		errs = append(errs, "telemetry otlp_endpoint is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return types.NewError(types.ErrInvalidConfig, "config validation errors: "+strings.Join(errs, "; "))
	}

	return nil
}

// ParseDialect returns the configured trigger dialect.
func (p ParserConfig) ParseDialect() (dsl.Dialect, error) {
	return dsl.ParseDialect(p.Dialect)
}
