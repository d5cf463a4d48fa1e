package leaktest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recorder captures failures so a failing check can be asserted on
type recorder struct {
	testing.TB
	mu     sync.Mutex
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = true
}

func TestCheck_Clean(t *testing.T) {
	Verify(t, func() {
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(5 * time.Millisecond)
			}()
		}
		wg.Wait()
	})
}

func TestCheck_WaitsForExitingGoroutines(t *testing.T) {
	checker := NewGoroutineChecker(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
	}()

	checker.Check(0)
}

func TestCheck_ReportsLeak(t *testing.T) {
	rec := &recorder{TB: t}
	checker := NewGoroutineChecker(rec).WithTimeout(50 * time.Millisecond)

	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()

	checker.Check(0)
	assert.True(t, rec.failed)
}

func TestCheck_Tolerance(t *testing.T) {
	rec := &recorder{TB: t}
	checker := NewGoroutineChecker(rec).WithTimeout(50 * time.Millisecond)

	done := make(chan struct{})
	defer close(done)
	go func() { <-done }()

	checker.Check(1)
	assert.False(t, rec.failed)
}
