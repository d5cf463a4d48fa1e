package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/event"
)

// InitializeEventSystem creates the in-memory event bus and the resilient
// publisher the session service publishes through
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	maxRetries := orDefault(cfg.EventMaxRetries, EventDefaultMaxRetries)
	retryDelay := orDefault(cfg.EventRetryDelay, EventDefaultRetryDelay)
	deadLetterPath := orDefault(cfg.EventDeadLetterPath, EventDefaultDeadLetterPath)

	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, maxRetries, retryDelay, deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", maxRetries,
		"retry_delay", retryDelay,
		"deadletter_path", deadLetterPath)

	return bus, publisher, nil
}

// orDefault returns fallback for an unset setting
func orDefault[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
