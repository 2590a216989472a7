package telemetry

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/suitekit/config"
)

// InstrumentationName names the tracer and meter suitekit creates. It is
// also the module path looked up for the reported version.
const InstrumentationName = "github.com/BaSui01/suitekit"

// Providers holds the SDK providers created by Init. Both are nil when
// export is disabled, in which case the global providers are used.
type Providers struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// Init creates OTLP gRPC exporting providers for cfg and installs them
// globally. The resource carries the service name, the suitekit version and
// the parser settings every load runs with. With export disabled nothing
// is created.
func Init(cfg *config.Config, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tc := cfg.Telemetry
	if !tc.Enabled {
		logger.Debug("telemetry export disabled")
		return &Providers{}, nil
	}

	ctx := context.Background()
	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(tc.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(tc.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(tc.SampleRate))),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("telemetry export enabled",
		zap.String("endpoint", tc.OTLPEndpoint),
		zap.String("service_name", tc.ServiceName),
		zap.String("dialect", cfg.Parser.Dialect),
		zap.Float64("sample_rate", tc.SampleRate),
	)
	return &Providers{tp: tp, mp: mp}, nil
}

func resourceAttributes(cfg *config.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.ServiceNameKey.String(cfg.Telemetry.ServiceName),
		semconv.ServiceVersionKey.String(moduleVersion()),
		attribute.String("suitekit.parser.dialect", cfg.Parser.Dialect),
		attribute.Bool("suitekit.parser.strict_meters", cfg.Parser.StrictMeters),
	}
}

// Shutdown flushes pending spans and metrics. Safe on a nil or disabled
// Providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.tp != nil {
		if err := p.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if p.mp != nil {
		if err := p.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// TracerProvider returns the exporting provider, or the global one.
func (p *Providers) TracerProvider() trace.TracerProvider {
	if p != nil && p.tp != nil {
		return p.tp
	}
	return otel.GetTracerProvider()
}

// MeterProvider returns the exporting provider, or the global one.
func (p *Providers) MeterProvider() metric.MeterProvider {
	if p != nil && p.mp != nil {
		return p.mp
	}
	return otel.GetMeterProvider()
}

// moduleVersion reports the suitekit version from build info: the main
// module version when suitekit is the binary, the dependency version when
// it is imported, "dev" otherwise.
func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if info.Main.Path == InstrumentationName {
		return versionOf(&info.Main)
	}
	for _, dep := range info.Deps {
		if dep.Path == InstrumentationName {
			if dep.Replace != nil {
				return versionOf(dep.Replace)
			}
			return versionOf(dep)
		}
	}
	return "dev"
}

func versionOf(m *debug.Module) string {
	if m.Version == "" || m.Version == "(devel)" {
		return "dev"
	}
	return m.Version
}
