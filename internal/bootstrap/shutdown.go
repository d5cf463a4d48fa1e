package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/QuotaPit_Go/internal/event"
	"github.com/osse101/QuotaPit_Go/internal/server"
	"github.com/osse101/QuotaPit_Go/internal/session"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	SessionService     session.Service
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops the components in order:
// 1. HTTP server and SSE streams (stop accepting new requests)
// 2. Session service (drop in-memory games)
// 3. Event publisher (flush pending retries to the bus or the dead-letter file)
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.SessionService != nil {
		shutdownService(ctx, ServiceNameSession, components.SessionService)
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
