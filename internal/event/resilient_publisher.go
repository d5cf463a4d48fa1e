package event

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// retryEntry is a failed event waiting for its next attempt
type retryEntry struct {
	event     Event
	attempt   int // Retry number the entry is waiting for, starting at 1
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher publishes through a Bus without ever blocking or failing
// the caller. Failed events are retried with exponential backoff on a single
// background worker; events that exhaust their retries, or do not fit in the
// retry queue, are appended to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// PublishWithRetry makes one synchronous attempt and hands failures to the retry worker
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := p.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	if p.isShutdown() {
		slog.Warn(LogMsgEventDroppedShutdown, "event_type", evt.Type, "error", err)
		p.writeDeadLetter(evt, 1, err)
		return
	}

	if p.maxRetries <= 0 {
		p.writeDeadLetter(evt, 1, err)
		return
	}

	slog.Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	p.enqueue(retryEntry{
		event:     evt,
		attempt:   1,
		nextRetry: time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
		lastErr:   err,
	})
}

// Publish satisfies Bus; it never returns an error
func (p *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	p.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the wrapped bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

// Shutdown stops the worker, makes one last attempt for every queued event and
// closes the dead-letter file. It returns ctx.Err() if the drain does not finish in time.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn(LogMsgShutdownTimeout, "error", ctx.Err())
		return ctx.Err()
	}

	if p.deadLetter != nil {
		return p.deadLetter.Close()
	}
	return nil
}

func (p *ResilientPublisher) isShutdown() bool {
	select {
	case <-p.shutdown:
		return true
	default:
		return false
	}
}

func (p *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case p.retryQueue <- entry:
	default:
		slog.Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		p.writeDeadLetter(entry.event, entry.attempt, entry.lastErr)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drain()
			return
		case entry := <-p.retryQueue:
			if !p.waitFor(entry.nextRetry) {
				p.finalAttempt(entry)
				p.drain()
				return
			}
			p.retry(entry)
		}
	}
}

// waitFor sleeps until t; it returns false if shutdown interrupted the wait
func (p *ResilientPublisher) waitFor(t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-p.shutdown:
		return false
	}
}

func (p *ResilientPublisher) retry(entry retryEntry) {
	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		slog.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}

	entry.lastErr = err
	if entry.attempt >= p.maxRetries {
		slog.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempt+1, "error", err)
		p.writeDeadLetter(entry.event, entry.attempt+1, err)
		return
	}

	entry.attempt++
	delay := CalculateRetryDelay(p.retryDelay, entry.attempt)
	entry.nextRetry = time.Now().Add(delay)
	slog.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempt-1, "next_delay", delay, "error", err)
	p.enqueue(entry)
}

// finalAttempt publishes once more without rescheduling
func (p *ResilientPublisher) finalAttempt(entry retryEntry) {
	if err := p.bus.Publish(context.Background(), entry.event); err != nil {
		p.writeDeadLetter(entry.event, entry.attempt+1, err)
	}
}

func (p *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			p.finalAttempt(entry)
			drained++
		default:
			if drained > 0 {
				slog.Info(LogMsgQueueDrainedShutdown, "events", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(evt Event, attempts int, err error) {
	if p.deadLetter == nil {
		return
	}
	if werr := p.deadLetter.Write(evt, attempts, err); werr != nil {
		slog.Error(LogMsgDeadLetterWriteFailed, "event_type", evt.Type, "error", werr)
	}
}
