// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/BaSui01/suitekit/types"
)

// Build results used as the result label.
const (
	ResultSuccess     = "success"
	ResultParseError  = "parse_error"
	ResultLinkError   = "link_error"
	ResultConfigError = "config_error"
	ResultError       = "error"
)

// =============================================================================
// 📊 Collector
// =============================================================================

// Collector records suite build and trigger metrics.
type Collector struct {
	buildsTotal        *prometheus.CounterVec
	buildDuration      *prometheus.HistogramVec
	nodesBuilt         prometheus.Histogram
	linkErrorsTotal    prometheus.Counter
	triggerEvaluations *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a collector registered with the default Prometheus
// registerer.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	return NewCollectorWithRegisterer(namespace, prometheus.DefaultRegisterer, logger)
}

// NewCollectorWithRegisterer creates a collector registered with reg. A nil
// reg leaves the metrics unregistered.
func NewCollectorWithRegisterer(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.buildsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Total number of suite builds by result",
		},
		[]string{"result"},
	)

	c.buildDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Suite build duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"result"},
	)

	c.nodesBuilt = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nodes_built",
			Help:      "Number of suites, families and tasks per successful build",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	c.linkErrorsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_errors_total",
			Help:      "Total number of unresolved trigger operands",
		},
	)

	c.triggerEvaluations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trigger_evaluations_total",
			Help:      "Total number of trigger evaluations by outcome",
		},
		[]string{"result"},
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🏗️ Build metrics
// =============================================================================

// RecordBuild records one build. err is classified into the result label;
// nodes is only observed for successful builds.
func (c *Collector) RecordBuild(err error, duration time.Duration, nodes int) {
	result := BuildResult(err)
	c.buildsTotal.WithLabelValues(result).Inc()
	c.buildDuration.WithLabelValues(result).Observe(duration.Seconds())
	if err == nil {
		c.nodesBuilt.Observe(float64(nodes))
	}
}

// RecordLinkErrors adds n unresolved operands.
func (c *Collector) RecordLinkErrors(n int) {
	if n > 0 {
		c.linkErrorsTotal.Add(float64(n))
	}
}

// =============================================================================
// 🎯 Trigger metrics
// =============================================================================

// RecordTriggerEvaluation records the outcome of one Eligible call.
func (c *Collector) RecordTriggerEvaluation(eligible bool, err error) {
	c.triggerEvaluations.WithLabelValues(evaluationResult(eligible, err)).Inc()
}

// =============================================================================
// 🔧 Helpers
// =============================================================================

// BuildResult maps a build error onto a result label.
func BuildResult(err error) string {
	if err == nil {
		return ResultSuccess
	}
	switch types.GetErrorCode(err) {
	case types.ErrParseError:
		return ResultParseError
	case types.ErrLinkError:
		return ResultLinkError
	case types.ErrInvalidConfig:
		return ResultConfigError
	default:
		return ResultError
	}
}

func evaluationResult(eligible bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case eligible:
		return "eligible"
	default:
		return "blocked"
	}
}
