package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/osse101/QuotaPit_Go/internal/bootstrap"
	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/server"
	"github.com/osse101/QuotaPit_Go/internal/session"
	"github.com/osse101/QuotaPit_Go/internal/sse"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quota-pit: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	for _, w := range config.ValidateEnvWithWarnings(cfg) {
		slog.Warn(w)
	}

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	hub.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: eventBus,
		SSEHub:   hub,
	}); err != nil {
		return err
	}

	sessionService, err := session.NewService(rules, cfg.SessionCacheSize, cfg.SessionTTL, publisher)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg, rules, sessionService, hub)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var startErr error
	select {
	case sig := <-stop:
		slog.Info("Received signal", "signal", sig.String())
	case startErr = <-serverErr:
		slog.Error("Server failed", "error", startErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		SessionService:     sessionService,
		ResilientPublisher: publisher,
	})

	return startErr
}
