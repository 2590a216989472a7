// =============================================================================
// 🧪 Test helpers
// =============================================================================
// Shared helpers for contexts, logging and text assertions.
//
// Usage:
//
//	ctx := testutil.TestContext(t)
//	logger := testutil.Logger(t)
// =============================================================================
package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// =============================================================================
// 🎯 Contexts
// =============================================================================

// TestContext returns a context with a 30 second timeout.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestContextWithTimeout returns a context with a custom timeout.
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext returns a context that is already cancelled.
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 📝 Logging
// =============================================================================

// Logger returns a development logger that writes through t.Log.
func Logger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
}

// =============================================================================
// 🔍 Assertions
// =============================================================================

// AssertLines compares two texts line by line and reports the first
// difference with its line number.
func AssertLines(t *testing.T, expected, actual string) {
	t.Helper()

	want := strings.Split(expected, "\n")
	got := strings.Split(actual, "\n")
	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] != got[i] {
			t.Errorf("line %d mismatch:\nexpected: %q\nactual:   %q", i+1, want[i], got[i])
			return
		}
	}
	if len(want) != len(got) {
		t.Errorf("line count mismatch: expected %d, got %d", len(want), len(got))
	}
}
