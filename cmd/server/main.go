package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Simplici0/doorquote/internal/catalog"
	"github.com/Simplici0/doorquote/internal/config"
	"github.com/Simplici0/doorquote/internal/db"
	"github.com/Simplici0/doorquote/internal/logger"
	"github.com/Simplici0/doorquote/internal/metrics"
	"github.com/Simplici0/doorquote/internal/migrations"
	"github.com/Simplici0/doorquote/internal/quotes"
	"github.com/Simplici0/doorquote/internal/quoting"
	"github.com/Simplici0/doorquote/internal/seed"
)

const (
	serviceName     = "doorquote"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "server.stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(ctx, database, cfg.MigrationsDir); err != nil {
			return err
		}
		if cfg.SeedOnStart {
			stats, err := seed.Run(ctx, database)
			if err != nil {
				return err
			}
			logg.Info(logg.WithField(ctx, "inserts", stats.Inserts), "seed.complete")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &server{
		svc: quoting.New(quoting.Options{
			Catalog:  catalog.NewSource(database),
			Store:    quotes.NewStore(database),
			Logger:   logg,
			Metrics:  metrics.NewPricingMetrics(registry),
			MaxDepth: cfg.PricingMaxDepth,
		}),
		log: logg,
		db:  database,
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(srv, registry),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", httpServer.Addr), "server.listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logg.Info(shutdownCtx, "server.shutdown")
	return httpServer.Shutdown(shutdownCtx)
}
