package event

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

var errBusDown = errors.New("bus down")

// flakyBus fails the first failures publishes, or every publish when failures < 0
type flakyBus struct {
	mu        sync.Mutex
	failures  int
	published []Event
	attempts  int
}

func (b *flakyBus) Publish(_ context.Context, evt Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	if b.failures < 0 || b.attempts <= b.failures {
		return errBusDown
	}
	b.published = append(b.published, evt)
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) counts() (attempts, published int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts, len(b.published)
}

func newPublisher(t *testing.T, bus Bus, maxRetries int, delay time.Duration) (*ResilientPublisher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	p, err := NewResilientPublisher(bus, maxRetries, delay, path)
	require.NoError(t, err)
	return p, path
}

func deadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	entries, err := ReadDeadLetters(path)
	require.NoError(t, err)
	return entries
}

func TestResilientPublisher_DeliversFirstTime(t *testing.T) {
	bus := &flakyBus{}
	p, path := newPublisher(t, bus, 3, time.Millisecond)

	p.PublishWithRetry(context.Background(), NewDepositEvent("g-1", 5, 5, 20))
	require.NoError(t, p.Shutdown(context.Background()))

	attempts, published := bus.counts()
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, published)
	assert.Empty(t, deadLetters(t, path))
}

func TestResilientPublisher_RetriesTransientFailure(t *testing.T) {
	bus := &flakyBus{failures: 2}
	p, path := newPublisher(t, bus, 3, 5*time.Millisecond)
	defer p.Shutdown(context.Background())

	p.PublishWithRetry(context.Background(), NewSpinResolvedEvent("g-1", domain.SpinOutcome{Gain: 4}, 54))

	require.Eventually(t, func() bool {
		_, published := bus.counts()
		return published == 1
	}, time.Second, 5*time.Millisecond)

	attempts, _ := bus.counts()
	assert.Equal(t, 3, attempts)
	assert.Empty(t, deadLetters(t, path))
}

func TestResilientPublisher_DeadLettersAfterRetries(t *testing.T) {
	bus := &flakyBus{failures: -1}
	p, path := newPublisher(t, bus, 2, 5*time.Millisecond)

	p.PublishWithRetry(context.Background(), NewGameOverEvent("g-7", domain.GameOver{
		Cause:          domain.CauseQuotaFailed,
		RoundsSurvived: 3,
	}))

	require.Eventually(t, func() bool {
		attempts, _ := bus.counts()
		return attempts == 3
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Shutdown(context.Background()))

	entries := deadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, errBusDown.Error(), entries[0].LastError)

	payload, err := DecodePayload[GameOverPayloadV1](entries[0].Event.Payload)
	require.NoError(t, err)
	assert.Equal(t, "g-7", payload.GameID)
}

func TestResilientPublisher_NoRetriesGoesStraightToDeadLetter(t *testing.T) {
	bus := &flakyBus{failures: -1}
	p, path := newPublisher(t, bus, 0, time.Millisecond)

	p.PublishWithRetry(context.Background(), NewInterestWithdrawnEvent("g-2", 1, 31))
	require.NoError(t, p.Shutdown(context.Background()))

	attempts, _ := bus.counts()
	assert.Equal(t, 1, attempts)
	entries := deadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Attempts)
}

func TestResilientPublisher_ShutdownMakesFinalAttempt(t *testing.T) {
	bus := &flakyBus{failures: 1}
	p, path := newPublisher(t, bus, 5, time.Hour)

	p.PublishWithRetry(context.Background(), NewRoundSettledEvent("g-3", domain.RoundSettlement{Round: 1, Success: true}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))

	attempts, published := bus.counts()
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, published)
	assert.Empty(t, deadLetters(t, path))
}

func TestResilientPublisher_ShutdownIsIdempotent(t *testing.T) {
	p, _ := newPublisher(t, &flakyBus{}, 1, time.Millisecond)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.NotPanics(t, func() { _ = p.Shutdown(context.Background()) })
}

func TestResilientPublisher_ConcurrentGames(t *testing.T) {
	bus := &flakyBus{}
	p, _ := newPublisher(t, bus, 1, time.Millisecond)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				p.PublishWithRetry(context.Background(), NewDepositEvent("g", i, i, 20))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, p.Shutdown(context.Background()))

	_, published := bus.counts()
	assert.Equal(t, 100, published)
}

func TestResilientPublisher_PublishNeverFails(t *testing.T) {
	p, _ := newPublisher(t, &flakyBus{failures: -1}, 0, time.Millisecond)
	defer p.Shutdown(context.Background())

	assert.NoError(t, p.Publish(context.Background(), NewGameCreatedEvent("g-4", domain.EconomyState{Coins: 50})))
}
