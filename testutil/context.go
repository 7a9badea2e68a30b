package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds contexts from TestContext.
const DefaultTimeout = 30 * time.Second

// TestContext returns a context that is canceled when the test ends or
// after DefaultTimeout.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	return TestContextWithTimeout(t, DefaultTimeout)
}

// TestContextWithTimeout returns a context with a timeout.
// The context is also canceled when the test ends.
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}
