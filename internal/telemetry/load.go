package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on load spans and metrics.
const (
	AttrLoadID      = attribute.Key("suitekit.load_id")
	AttrBatchID     = attribute.Key("suitekit.batch_id")
	AttrSourceBytes = attribute.Key("suitekit.source_bytes")
	AttrSuite       = attribute.Key("suitekit.suite")
	AttrNodes       = attribute.Key("suitekit.nodes")
	AttrResult      = attribute.Key("result")
)

// LoadInfo identifies one definition load.
type LoadInfo struct {
	LoadID      string
	BatchID     string // empty outside a batch
	SourceBytes int
}

// Instruments records definition loads: one span per load plus a load
// counter and a duration histogram keyed by result.
type Instruments struct {
	tracer   trace.Tracer
	loads    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewInstruments creates the load instruments from tp and mp.
func NewInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (*Instruments, error) {
	meter := mp.Meter(InstrumentationName)
	loads, err := meter.Int64Counter("suitekit.loads",
		metric.WithDescription("Number of definitions loaded"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("suitekit.load.duration",
		metric.WithDescription("Time to build and link one definition"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &Instruments{
		tracer:   tp.Tracer(InstrumentationName),
		loads:    loads,
		duration: duration,
	}, nil
}

// Load is a load in progress. Exactly one of Loaded or Failed ends it.
type Load struct {
	inst  *Instruments
	ctx   context.Context
	span  trace.Span
	start time.Time
}

// StartLoad opens the suitekit.load span for info.
func (in *Instruments) StartLoad(ctx context.Context, info LoadInfo) (context.Context, *Load) {
	attrs := []attribute.KeyValue{
		AttrLoadID.String(info.LoadID),
		AttrSourceBytes.Int(info.SourceBytes),
	}
	if info.BatchID != "" {
		attrs = append(attrs, AttrBatchID.String(info.BatchID))
	}
	ctx, span := in.tracer.Start(ctx, "suitekit.load", trace.WithAttributes(attrs...))
	return ctx, &Load{inst: in, ctx: ctx, span: span, start: time.Now()}
}

// Loaded ends the load as a success for the named suite.
func (l *Load) Loaded(suiteName string, nodes int) {
	l.span.SetAttributes(AttrSuite.String(suiteName), AttrNodes.Int(nodes))
	l.record("success")
	l.span.End()
}

// Failed ends the load with err. result classifies the failure.
func (l *Load) Failed(result string, err error) {
	l.span.RecordError(err)
	l.span.SetStatus(codes.Error, result)
	l.record(result)
	l.span.End()
}

// Abandoned ends a load that never started building. Nothing is counted.
func (l *Load) Abandoned(err error) {
	l.span.SetStatus(codes.Error, err.Error())
	l.span.End()
}

func (l *Load) record(result string) {
	opt := metric.WithAttributes(AttrResult.String(result))
	l.inst.loads.Add(l.ctx, 1, opt)
	l.inst.duration.Record(l.ctx, time.Since(l.start).Seconds(), opt)
}
