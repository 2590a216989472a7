/*
Package metrics provides Prometheus metrics for suite loading.

# Overview

Collector registers its metrics through promauto, either with the default
registerer or a caller-supplied one, under a configurable namespace.

# Metrics

  - builds_total{result}: builds by outcome (success, parse_error,
    link_error, config_error, error).
  - build_duration_seconds{result}: build latency.
  - nodes_built: node count of each successful build.
  - link_errors_total: unresolved trigger operands.
  - trigger_evaluations_total{result}: Eligible outcomes (eligible,
    blocked, error).
*/
package metrics
