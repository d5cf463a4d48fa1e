package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/QuotaPit_Go/internal/event"
	"github.com/osse101/QuotaPit_Go/internal/metrics"
	"github.com/osse101/QuotaPit_Go/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	SSEHub   *sse.Hub
}

// RegisterEventHandlers subscribes the game metrics collector and the SSE
// bridge to every game event
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.SSEHub != nil {
		sse.NewSubscriber(deps.SSEHub, deps.EventBus).Subscribe()
		slog.Info(LogMsgSSESubscriberRegistered)
	}

	return nil
}
