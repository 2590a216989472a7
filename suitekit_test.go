package suitekit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BaSui01/suitekit/config"
	"github.com/BaSui01/suitekit/suite"
	"github.com/BaSui01/suitekit/testutil"
	"github.com/BaSui01/suitekit/testutil/fixtures"
	"github.com/BaSui01/suitekit/types"
)

func newTestKit(t *testing.T, opts ...Option) *Kit {
	t.Helper()
	k, err := New(append([]Option{WithLogger(testutil.Logger(t))}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close(context.Background()) })
	return k
}

func metricsConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "suitekit_test"
	return cfg
}

// --- New / Open ---

func TestNew_Defaults(t *testing.T) {
	k, err := New()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), k.Config())
	assert.NotNil(t, k.Builder())
	assert.NoError(t, k.Close(context.Background()))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Parser.Dialect = "modern"

	_, err := New(WithConfig(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfig)
	assert.Equal(t, types.ErrInvalidConfig, types.GetErrorCode(err))
}

func TestOpen_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suitekit.yaml")
	content := "parser:\n  dialect: structured\noutput:\n  indent: \"  \"\nlog:\n  output_paths: [\"" +
		filepath.Join(t.TempDir(), "suitekit.log") + "\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("SUITEKIT_LOADER_CONCURRENCY", "2")

	k, err := Open(path)
	require.NoError(t, err)
	defer k.Close(context.Background())

	assert.Equal(t, "structured", k.Config().Parser.Dialect)
	assert.Equal(t, "  ", k.Config().Output.Indent)
	assert.Equal(t, 2, k.Config().Loader.Concurrency)
}

func TestOpen_ValidationFails(t *testing.T) {
	t.Setenv("SUITEKIT_LOG_FORMAT", "xml")

	_, err := Open("")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfig)
}

// --- Load ---

func TestKit_Load(t *testing.T) {
	k := newTestKit(t)

	s, err := k.Load(context.Background(), fixtures.Nightly)
	require.NoError(t, err)
	assert.Equal(t, "nightly", s.Name())
	assert.Equal(t, 8, s.NodeCount())
}

func TestKit_LoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code types.ErrorCode
	}{
		{name: "syntax", src: "suite s\n\tfamily\nendsuite\n", code: types.ErrParseError},
		{name: "unresolved trigger", src: fixtures.UnresolvedTrigger, code: types.ErrLinkError},
		{name: "malformed trigger", src: fixtures.MalformedTrigger, code: types.ErrLinkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := newTestKit(t)
			s, err := k.Load(context.Background(), tt.src)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Equal(t, tt.code, types.GetErrorCode(err))
		})
	}
}

func TestKit_LoadCancelled(t *testing.T) {
	k := newTestKit(t)

	_, err := k.Load(testutil.CancelledContext(), fixtures.Nightly)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKit_LoadStructuredDialect(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Parser.Dialect = "structured"
	k := newTestKit(t, WithConfig(cfg))

	src := "suite s\n\tfamily f\n\t\ttask a\n\t\ttask b\n\t\t\ttrigger a == complete\n\t\t\ttrigger a != aborted\n\tendfamily\nendsuite\n"
	s, err := k.Load(context.Background(), src)
	require.NoError(t, err)

	n, ok := s.Find("/f/b")
	require.True(t, ok)
	assert.Equal(t, "/f/a == complete AND /f/a != aborted", n.(*suite.Task).TriggerText())
}

// --- LoadAll ---

func TestKit_LoadAll(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Loader.Concurrency = 2
	k := newTestKit(t, WithConfig(cfg))

	srcs := []string{fixtures.Nightly, fixtures.UnresolvedTrigger, fixtures.MissingLimit, fixtures.MalformedTrigger}
	suites, err := k.LoadAll(context.Background(), srcs)
	require.Error(t, err)
	require.Len(t, suites, len(srcs))

	assert.NotNil(t, suites[0])
	assert.Nil(t, suites[1])
	assert.NotNil(t, suites[2])
	assert.Nil(t, suites[3])

	assert.Contains(t, err.Error(), "definition 1:")
	assert.Contains(t, err.Error(), "definition 3:")
	assert.NotContains(t, err.Error(), "definition 0:")
	assert.ErrorIs(t, err, types.ErrLink)
}

func TestKit_LoadAllSuccess(t *testing.T) {
	k := newTestKit(t)

	srcs := make([]string, 10)
	for i := range srcs {
		srcs[i] = fixtures.Nightly
	}
	suites, err := k.LoadAll(context.Background(), srcs)
	require.NoError(t, err)
	for i, s := range suites {
		require.NotNil(t, s, "suite %d", i)
		assert.Equal(t, "nightly", s.Name())
	}
	assert.NotSame(t, suites[0], suites[1])
}

func TestKit_LoadAllCancelled(t *testing.T) {
	k := newTestKit(t)

	suites, err := k.LoadAll(testutil.CancelledContext(), []string{fixtures.Nightly, fixtures.Nightly})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []*suite.Suite{nil, nil}, suites)
}

// --- Rendering ---

func TestKit_Text(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Indent = "  "
	k := newTestKit(t, WithConfig(cfg))

	s, err := k.Load(context.Background(), fixtures.Nightly)
	require.NoError(t, err)

	out, err := k.Text(s)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "suite nightly\n  edit OWNER \"ops team\"\n  family s\n"), out)
	assert.True(t, strings.HasSuffix(out, "endsuite\n"))

	f, ok := s.Find("/s/f2")
	require.True(t, ok)
	out, err = k.Text(f)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "family f2\n  trigger /s/f1 == complete\n"), out)

	task, ok := s.Find("/s/f2/t4")
	require.True(t, ok)
	out, err = k.Text(task)
	require.NoError(t, err)
	assert.Equal(t, "task t4\n  meter done 0 5 5\nendtask\n", out)

	_, err = k.Text(42)
	require.Error(t, err)
	assert.Equal(t, types.ErrUnsupportedType, types.GetErrorCode(err))
}

func TestKit_JSONAndYAML(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.JSONIndent = ""
	k := newTestKit(t, WithConfig(cfg))

	s, err := k.Load(context.Background(), fixtures.Nightly)
	require.NoError(t, err)

	data, err := k.JSON(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")
	expected, err := suite.MarshalNodeIndent(s, "  ")
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(data))

	out, err := k.YAML(s)
	require.NoError(t, err)
	assert.Contains(t, out, "name: nightly")

	_, err = k.JSON("nope")
	assert.Equal(t, types.ErrUnsupportedType, types.GetErrorCode(err))
}

// --- Observability ---

func TestKit_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	k := newTestKit(t, WithConfig(metricsConfig()), WithRegisterer(reg))

	_, err := k.Load(context.Background(), fixtures.Nightly)
	require.NoError(t, err)
	_, err = k.Load(context.Background(), fixtures.UnresolvedTrigger)
	require.Error(t, err)

	count, err := promtestutil.GatherAndCount(reg, "suitekit_test_builds_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result")

	count, err = promtestutil.GatherAndCount(reg, "suitekit_test_link_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestKit_MetricsDisabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	k := newTestKit(t, WithRegisterer(reg))

	_, err := k.Load(context.Background(), fixtures.Nightly)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestKit_Eligible(t *testing.T) {
	reg := prometheus.NewRegistry()
	k := newTestKit(t, WithConfig(metricsConfig()), WithRegisterer(reg))

	s, err := k.Load(context.Background(), fixtures.Nightly)
	require.NoError(t, err)

	t1 := s.Family("s").Family("f1").Task("t1")
	t2 := s.Family("s").Family("f1").Task("t2")

	ok, err := k.Eligible(t2)
	require.NoError(t, err)
	assert.False(t, ok)

	t1.SetStatus(types.StatusComplete)
	ok, err = k.Eligible(t2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = k.Eligible(t1)
	require.NoError(t, err)
	assert.True(t, ok, "no trigger means eligible")

	count, err := promtestutil.GatherAndCount(reg, "suitekit_test_trigger_evaluations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "eligible and blocked series")
}

func TestKit_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	k := newTestKit(t, WithTracerProvider(tp))

	_, err := k.Load(context.Background(), fixtures.Nightly)
	require.NoError(t, err)
	_, err = k.Load(context.Background(), fixtures.MalformedTrigger)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ids := make(map[string]bool)
	for _, span := range spans {
		assert.Equal(t, "suitekit.load", span.Name())
		for _, attr := range span.Attributes() {
			if attr.Key == "suitekit.load_id" {
				_, err := uuid.Parse(attr.Value.AsString())
				assert.NoError(t, err)
				ids[attr.Value.AsString()] = true
			}
		}
	}
	assert.Len(t, ids, 2, "each load gets its own id")

	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "link_error", spans[1].Status().Description)
	assert.NotEmpty(t, spans[1].Events(), "error recorded on the span")
}

func TestKit_LoadIDs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	k := newTestKit(t, WithLogger(zap.New(core)), WithTracerProvider(tp))

	_, err := k.Load(ContextWithLoadID(context.Background(), "nightly-42"), fixtures.UnresolvedTrigger)
	require.Error(t, err)

	failed := logs.FilterMessage("suite load failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "nightly-42", failed[0].ContextMap()["load_id"])

	_, err = k.LoadAll(context.Background(), []string{fixtures.Nightly, fixtures.Nightly})
	require.NoError(t, err)

	loaded := logs.FilterMessage("suite loaded").All()
	require.Len(t, loaded, 2)
	batch := loaded[0].ContextMap()["batch_id"]
	assert.NotEmpty(t, batch)
	assert.Equal(t, batch, loaded[1].ContextMap()["batch_id"])
	assert.NotEqual(t, loaded[0].ContextMap()["load_id"], loaded[1].ContextMap()["load_id"])

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "suitekit.load_id" {
			assert.Equal(t, "nightly-42", attr.Value.AsString())
		}
	}
}

func TestKit_LoadCounter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	k := newTestKit(t, WithMeterProvider(mp))

	for _, src := range []string{fixtures.Nightly, fixtures.Nightly, fixtures.UnresolvedTrigger} {
		_, _ = k.Load(context.Background(), src)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	sum, ok := byName["suitekit.loads"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byResult := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value("result")
		byResult[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"success": 2, "link_error": 1}, byResult)

	hist, ok := byName["suitekit.load.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	counts := make(map[string]uint64)
	for _, dp := range hist.DataPoints {
		v, _ := dp.Attributes.Value("result")
		counts[v.AsString()] = dp.Count
	}
	assert.Equal(t, map[string]uint64{"success": 2, "link_error": 1}, counts)
}

func TestCountLinkErrors(t *testing.T) {
	k := newTestKit(t)

	_, err := k.Load(context.Background(), fixtures.UnresolvedTrigger)
	require.Error(t, err)
	assert.Equal(t, 1, countLinkErrors(err))

	assert.Equal(t, 0, countLinkErrors(nil))
	assert.Equal(t, 0, countLinkErrors(types.NewError(types.ErrParseError, "x")))
}
