// Package suitekit is the top-level entry point for loading workflow suite
// definitions with configuration, logging, metrics and tracing wired in.
//
// Usage:
//
//	kit, err := suitekit.Open("suitekit.yaml")
//	s, err := kit.Load(ctx, text)
//	out, err := kit.Text(s)
//
// The suite package can be used directly when none of that is needed.
package suitekit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/suitekit/config"
	"github.com/BaSui01/suitekit/internal/ctxkeys"
	"github.com/BaSui01/suitekit/internal/logging"
	"github.com/BaSui01/suitekit/internal/metrics"
	"github.com/BaSui01/suitekit/internal/telemetry"
	"github.com/BaSui01/suitekit/suite"
	"github.com/BaSui01/suitekit/types"
)

// Option configures a Kit.
type Option func(*options)

type options struct {
	config         *config.Config
	logger         *zap.Logger
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithConfig sets the configuration. Defaults to config.DefaultConfig().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithLogger sets a custom zap logger. Defaults to zap.NewNop() for New and
// to a logger built from the log section for Open.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer sets where Prometheus metrics are registered when metrics
// are enabled. Defaults to prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithTracerProvider overrides the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider overrides the OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Kit loads and renders suites according to one configuration.
type Kit struct {
	cfg       *config.Config
	builder   *suite.Builder
	logger    *zap.Logger
	metrics   *metrics.Collector
	telemetry *telemetry.Instruments
	providers *telemetry.Providers
}

// Open loads configuration from path (a missing file keeps the defaults),
// applies SUITEKIT_* environment overrides and builds a Kit whose logger
// follows the log section.
func Open(path string, opts ...Option) (*Kit, error) {
	cfg, err := config.NewLoader().
		WithConfigPath(path).
		WithValidator((*config.Config).Validate).
		Load()
	if err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		opts = append(opts, WithLogger(logger))
	}

	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}

// New creates a Kit. The configuration is validated first.
func New(opts ...Option) (*Kit, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.config == nil {
		o.config = config.DefaultConfig()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	dialect, err := o.config.Parser.ParseDialect()
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(zap.String("component", "suitekit"))

	providers, err := telemetry.Init(o.config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	k := &Kit{
		cfg: o.config,
		builder: suite.NewBuilder().
			WithLogger(o.logger).
			WithDialect(dialect).
			WithStrictMeters(o.config.Parser.StrictMeters),
		logger:    logger,
		providers: providers,
	}

	if o.config.Metrics.Enabled {
		reg := o.registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		k.metrics = metrics.NewCollectorWithRegisterer(o.config.Metrics.Namespace, reg, o.logger)
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = providers.TracerProvider()
	}
	mp := o.meterProvider
	if mp == nil {
		mp = providers.MeterProvider()
	}
	k.telemetry, err = telemetry.NewInstruments(tp, mp)
	if err != nil {
		return nil, fmt.Errorf("failed to create load instruments: %w", err)
	}

	return k, nil
}

// Config returns the configuration the Kit was built with.
func (k *Kit) Config() *config.Config { return k.cfg }

// Builder returns the suite builder configured from the parser section.
func (k *Kit) Builder() *suite.Builder { return k.builder }

// Close flushes and shuts down telemetry exporters.
func (k *Kit) Close(ctx context.Context) error {
	return k.providers.Shutdown(ctx)
}

// =============================================================================
// 📥 Loading
// =============================================================================

// ContextWithLoadID makes Load use loadID instead of generating one.
func ContextWithLoadID(ctx context.Context, loadID string) context.Context {
	return ctxkeys.WithLoadID(ctx, loadID)
}

// Load builds and links one suite definition.
func (k *Kit) Load(ctx context.Context, src string) (*suite.Suite, error) {
	loadID, ok := ctxkeys.LoadID(ctx)
	if !ok {
		loadID = uuid.New().String()
	}
	info := telemetry.LoadInfo{LoadID: loadID, SourceBytes: len(src)}
	fields := []zap.Field{zap.String("load_id", loadID)}
	if batchID, ok := ctxkeys.BatchID(ctx); ok {
		info.BatchID = batchID
		fields = append(fields, zap.String("batch_id", batchID))
	}
	logger := k.logger.With(fields...)

	ctx, load := k.telemetry.StartLoad(ctx, info)
	if err := ctx.Err(); err != nil {
		load.Abandoned(err)
		return nil, err
	}

	start := time.Now()
	s, err := k.builder.Build(src)
	duration := time.Since(start)

	if err != nil {
		result := metrics.BuildResult(err)
		linkErrors := countLinkErrors(err)
		if k.metrics != nil {
			k.metrics.RecordBuild(err, duration, 0)
			k.metrics.RecordLinkErrors(linkErrors)
		}
		load.Failed(result, err)
		logger.Warn("suite load failed",
			zap.String("result", result),
			zap.Int("link_errors", linkErrors),
			zap.Error(err),
		)
		return nil, err
	}

	nodes := s.NodeCount()
	if k.metrics != nil {
		k.metrics.RecordBuild(nil, duration, nodes)
	}
	load.Loaded(s.Name(), nodes)
	logger.Debug("suite loaded",
		zap.String("suite", s.Name()),
		zap.Int("nodes", nodes),
		zap.Duration("duration", duration),
	)
	return s, nil
}

// LoadAll builds independent definitions concurrently, at most
// Loader.Concurrency at a time. The result keeps the order of srcs with nil
// entries for definitions that failed; every failure is reported in the
// joined error.
func (k *Kit) LoadAll(ctx context.Context, srcs []string) ([]*suite.Suite, error) {
	if k.cfg.Loader.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.cfg.Loader.Timeout)
		defer cancel()
	}

	batchID := uuid.New().String()
	ctx = ctxkeys.WithBatchID(ctx, batchID)
	k.logger.Debug("loading batch", zap.String("batch_id", batchID), zap.Int("definitions", len(srcs)))

	suites := make([]*suite.Suite, len(srcs))
	errs := make([]error, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(k.cfg.Loader.Concurrency)
	for i, src := range srcs {
		g.Go(func() error {
			s, err := k.Load(gctx, src)
			if err != nil {
				errs[i] = fmt.Errorf("definition %d: %w", i, err)
				return nil
			}
			suites[i] = s
			return nil
		})
	}
	_ = g.Wait()

	return suites, errors.Join(errs...)
}

// =============================================================================
// 📤 Rendering
// =============================================================================

// Text renders a suite, family or task as definition text using the
// configured indent.
func (k *Kit) Text(v any) (string, error) {
	switch n := v.(type) {
	case *suite.Suite:
		return n.DefinitionIndent(k.cfg.Output.Indent), nil
	case *suite.Family:
		return n.DefinitionIndent(k.cfg.Output.Indent), nil
	case *suite.Task:
		return n.DefinitionIndent(k.cfg.Output.Indent), nil
	}
	return "", types.NewError(types.ErrUnsupportedType, fmt.Sprintf("cannot render %T as definition text", v))
}

// JSON renders a suite, family, task, label or meter as JSON using the
// configured indent.
func (k *Kit) JSON(v any) ([]byte, error) {
	return suite.MarshalNodeIndent(v, k.cfg.Output.JSONIndent)
}

// YAML renders a suite, family, task, label or meter as YAML.
func (k *Kit) YAML(v any) (string, error) {
	return suite.ToYAML(v)
}

// Eligible evaluates the trigger of n and records the outcome.
func (k *Kit) Eligible(n suite.Gated) (bool, error) {
	ok, err := n.Eligible()
	if k.metrics != nil {
		k.metrics.RecordTriggerEvaluation(ok, err)
	}
	if err != nil {
		k.logger.Debug("trigger evaluation failed", zap.String("node", n.Path()), zap.Error(err))
	}
	return ok, err
}

// countLinkErrors counts LINK_ERROR leaves in a joined error tree.
func countLinkErrors(err error) int {
	switch e := err.(type) {
	case nil:
		return 0
	case interface{ Unwrap() []error }:
		n := 0
		for _, inner := range e.Unwrap() {
			n += countLinkErrors(inner)
		}
		return n
	}
	if types.GetErrorCode(err) == types.ErrLinkError {
		return 1
	}
	return 0
}
