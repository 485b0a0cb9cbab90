package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"kasbah/internal/guard/eventlog"
	"kasbah/internal/guard/handler"
	"kasbah/internal/guard/metrics"
	"kasbah/internal/guard/service"
	"kasbah/internal/guard/stats"
	ticketstore "kasbah/internal/guard/store/ticket"
	"kasbah/internal/guard/workers/cleanup"
	"kasbah/internal/platform/config"
	"kasbah/internal/platform/httpserver"
	"kasbah/internal/platform/logger"
	httptransport "kasbah/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the guard packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing kasbah guard",
		"addr", cfg.Addr(),
		"ticket_ttl", cfg.TicketTTL,
		"event_capacity", cfg.EventCapacity,
	)

	store := ticketstore.NewInMemoryTicketStore(cfg.TicketTTL)
	events := eventlog.New(cfg.EventCapacity)
	counters := stats.New()

	guard := service.New(store, events, counters, config.ServiceName, cfg.Port,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	)
	guard.Start()

	sweeper, err := cleanup.New(store,
		cleanup.WithInterval(cfg.CleanupInterval),
		cleanup.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to build cleanup worker", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(handler.New(guard, log), log)
	srv := httpserver.New(cfg.Addr(), router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
