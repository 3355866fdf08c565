package testutil

import (
	"context"
	"testing"
	"time"
)

// TestContext returns a context canceled when the test ends, so
// goroutines started under it do not outlive the test.
func TestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}

// TestContextWithTimeout is TestContext with a deadline, for tests
// that exercise cancellation paths.
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}
