// Package leaktest checks that code under test stops every goroutine it starts.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	// DefaultSettleTimeout bounds how long Check waits for goroutines to exit
	DefaultSettleTimeout = 2 * time.Second

	pollInterval = 10 * time.Millisecond
)

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
}

// NewGoroutineChecker records the baseline. Create it after any long-lived
// goroutines the test does not own (caches with janitors, shared servers).
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	return &GoroutineChecker{
		t:       t,
		before:  settledCount(),
		timeout: DefaultSettleTimeout,
	}
}

// WithTimeout changes how long Check waits
func (g *GoroutineChecker) WithTimeout(d time.Duration) *GoroutineChecker {
	g.timeout = d
	return g
}

// Check fails the test if more than tolerance goroutines outlive the baseline
// once the timeout has passed
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	limit := g.before + tolerance
	if after, ok := waitFor(limit, g.timeout); !ok {
		g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
			g.before, after, after-g.before, tolerance)
	}
}

// Verify runs fn and checks that it left no goroutines behind
func Verify(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// waitFor polls until at most limit goroutines run. It returns the last count seen.
func waitFor(limit int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		n := runtime.NumGoroutine()
		if n <= limit {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		runtime.Gosched()
		time.Sleep(pollInterval)
	}
}

// settledCount waits for the count to stop changing between two polls
func settledCount() int {
	prev := runtime.NumGoroutine()
	for range 5 {
		runtime.Gosched()
		time.Sleep(pollInterval)
		n := runtime.NumGoroutine()
		if n == prev {
			return n
		}
		prev = n
	}
	return prev
}
