// =============================================================================
// 📦 suitekit default configuration
// =============================================================================
// Sensible defaults for every configuration section
// =============================================================================
package config

import "time"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log:       DefaultLogConfig(),
		Parser:    DefaultParserConfig(),
		Output:    DefaultOutputConfig(),
		Loader:    DefaultLoaderConfig(),
		Metrics:   DefaultMetricsConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultParserConfig returns the default parser configuration.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		Dialect:      "legacy",
		StrictMeters: true,
	}
}

// DefaultOutputConfig returns the default rendering configuration.
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Indent:     "\t",
		JSONIndent: "  ",
	}
}

// DefaultLoaderConfig returns the default batch loading configuration.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// DefaultMetricsConfig returns the default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Namespace: "suitekit",
	}
}

// DefaultTelemetryConfig returns the default telemetry configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "suitekit",
		SampleRate:   0.1,
	}
}
