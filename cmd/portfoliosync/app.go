package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/portfoliosync/internal/api"
	"github.com/mtlprog/portfoliosync/internal/benchmark"
	"github.com/mtlprog/portfoliosync/internal/config"
	"github.com/mtlprog/portfoliosync/internal/database"
	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/export"
	"github.com/mtlprog/portfoliosync/internal/holdings"
	"github.com/mtlprog/portfoliosync/internal/quote"
	"github.com/mtlprog/portfoliosync/internal/report"
	"github.com/mtlprog/portfoliosync/internal/snapshot"
	"github.com/mtlprog/portfoliosync/internal/tag"
	"github.com/mtlprog/portfoliosync/internal/worker"
)

// application holds the services wired for one data mode.
type application struct {
	cfg        config.Config
	pool       *pgxpool.Pool
	loader     *holdings.Loader
	tags       *tag.Service
	source     benchmark.ReturnSource
	feed       *benchmark.FeedSource
	levels     benchmark.LevelSource
	comparator *benchmark.Comparator
	reports    *report.Service
	snapshots  *snapshot.Service
	quotes     *quote.Service
}

func newApplication(ctx context.Context, cfg config.Config) (*application, error) {
	a := &application{cfg: cfg}
	registry := benchmark.DefaultRegistry()

	if cfg.Live() {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required in live mode")
		}
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.pool = pool

		sub, err := migrations()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, sub); err != nil {
			a.Close()
			return nil, err
		}

		tagRepo := tag.NewPgRepository(pool)
		if err := tagRepo.EnsureDefaults(ctx, time.Now()); err != nil {
			a.Close()
			return nil, fmt.Errorf("seeding default tags: %w", err)
		}
		a.tags = tag.NewService(tagRepo)
		a.loader = holdings.NewLoader(
			holdings.NewPgStore[domain.Stock](pool, domain.AssetTypeStock),
			holdings.NewPgStore[domain.ETF](pool, domain.AssetTypeETF),
			holdings.NewPgStore[domain.Property](pool, domain.AssetTypeProperty),
		)

		eod := benchmark.NewEODClient(cfg.EODURL, cfg.EODAPIKey, cfg.EODRequestsPerSecond, cfg.EODDelay, cfg.EODRetryMax)
		a.feed = benchmark.NewFeedSource(eod, registry.Symbols())
		a.source = a.feed
		a.levels = a.feed
		a.quotes = quote.NewService(eod, quote.NewPgRepository(pool), a.loader.Stocks(), a.loader.ETFs(), cfg.QuoteStaleThreshold)
	} else {
		loader, err := holdings.NewMockLoader(cfg.Scenario)
		if err != nil {
			return nil, err
		}
		a.loader = loader
		a.tags = tag.NewService(tag.NewMemoryRepository(time.Now()))
		a.source = benchmark.DefaultStaticSource()
		a.levels = benchmark.NewSeriesSource(benchmark.MockSeries(), time.Time{})
	}

	a.comparator = benchmark.NewComparator(registry, a.source)
	a.reports = report.NewService(a.loader, a.tags, a.comparator)
	if a.pool != nil {
		a.snapshots = snapshot.NewService(a.reports, snapshot.NewPgRepository(a.pool))
	}

	slog.Info("application ready", "mode", cfg.DataMode, "portfolio", cfg.PortfolioID, "scenario", cfg.Scenario)
	return a, nil
}

// Close releases the database pool, if any.
func (a *application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func serve(ctx context.Context, cfg config.Config, stop context.CancelFunc) error {
	a, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Start workers; the first snapshot waits for the first feed and quote refresh
	var ready []<-chan struct{}
	if a.feed != nil {
		bw := worker.NewBenchmarkWorker(a.feed, cfg.BenchmarkWorkerInterval)
		ready = append(ready, bw.Ready())
		go bw.Run(ctx)
	}
	if a.quotes != nil {
		qw := worker.NewQuoteWorker(a.quotes, cfg.QuoteWorkerInterval)
		ready = append(ready, qw.Ready())
		go qw.Run(ctx)
	}
	if a.snapshots != nil {
		hooks := []worker.AfterSnapshotHook{worker.NewUsageHook(a.tags)}
		if cfg.SheetsEnabled() {
			writer, err := export.NewSheetsWriter(ctx, cfg.GoogleSheetsID, cfg.GoogleCredentialsJSON)
			if err != nil {
				return fmt.Errorf("creating sheets writer: %w", err)
			}
			hooks = append(hooks, export.NewService(writer))
		}
		go worker.NewReportWorker(a.snapshots, cfg.PortfolioID, cfg.ReportWorkerInterval, hooks...).After(ready...).Run(ctx)
	}

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, mutation endpoints are unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, api.Services{
		Reports:   a.reports,
		Tags:      a.tags,
		Holdings:  a.loader,
		Snapshots: a.snapshots,
		Quotes:    a.quotes,
		Registry:  a.comparator.Registry(),
		Levels:    a.levels,
	}, cfg.AdminAPIKey)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
