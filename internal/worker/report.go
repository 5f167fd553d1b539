package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// SnapshotGenerator defines the interface for generating snapshots.
type SnapshotGenerator interface {
	Generate(ctx context.Context, portfolioID string, date time.Time) (domain.PortfolioReport, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, report domain.PortfolioReport) error
}

// ReportWorker periodically generates portfolio snapshots.
type ReportWorker struct {
	generator   SnapshotGenerator
	portfolioID string
	interval    time.Duration
	hooks       []AfterSnapshotHook
	waitFor     []<-chan struct{}
	now         func() time.Time
}

// NewReportWorker creates a new ReportWorker with optional post-generation hooks.
// Nil hooks are ignored.
func NewReportWorker(generator SnapshotGenerator, portfolioID string, interval time.Duration, hooks ...AfterSnapshotHook) *ReportWorker {
	if generator == nil {
		panic("worker.NewReportWorker: generator is nil")
	}
	w := &ReportWorker{
		generator:   generator,
		portfolioID: portfolioID,
		interval:    interval,
		now:         time.Now,
	}
	for _, h := range hooks {
		if h != nil {
			w.hooks = append(w.hooks, h)
		}
	}
	return w
}

// After delays the startup snapshot until every ready channel is closed, so the first
// report of a run sees refreshed benchmark data and prices.
func (w *ReportWorker) After(ready ...<-chan struct{}) *ReportWorker {
	w.waitFor = append(w.waitFor, ready...)
	return w
}

// runHooks calls every post-generation hook. A failing hook does not stop the others.
func (w *ReportWorker) runHooks(ctx context.Context, report domain.PortfolioReport) {
	for _, h := range w.hooks {
		if err := h.Export(ctx, report); err != nil {
			slog.Error("ReportWorker: snapshot hook failed", "portfolio", w.portfolioID, "error", err)
		}
	}
}

// utcDate returns the current date normalized to midnight UTC.
func (w *ReportWorker) utcDate() time.Time {
	now := w.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (w *ReportWorker) generate(ctx context.Context) {
	report, err := w.generator.Generate(ctx, w.portfolioID, w.utcDate())
	if err != nil {
		slog.Error("ReportWorker: generation failed", "portfolio", w.portfolioID, "error", err)
		return
	}
	slog.Info("ReportWorker: generation completed",
		"portfolio", w.portfolioID,
		"holdings", report.Summary.HoldingCount,
		"total_value", report.Summary.TotalValue.StringFixed(2),
	)
	w.runHooks(ctx, report)
}

// Run starts the report worker loop. It blocks until the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context) {
	slog.Info("ReportWorker: starting", "portfolio", w.portfolioID, "interval", w.interval)

	for _, ready := range w.waitFor {
		select {
		case <-ctx.Done():
			slog.Info("ReportWorker: shutting down")
			return
		case <-ready:
		}
	}

	// Generate immediately on startup
	w.generate(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ReportWorker: shutting down")
			return
		case <-ticker.C:
			w.generate(ctx)
		}
	}
}

// UsageSyncer recomputes tag usage counts from holdings.
type UsageSyncer interface {
	SyncUsage(ctx context.Context, h domain.Holdings) (int, error)
}

// UsageHook keeps tag usage counts in step with each generated snapshot.
type UsageHook struct {
	syncer UsageSyncer
}

// NewUsageHook creates an AfterSnapshotHook that syncs tag usage.
func NewUsageHook(syncer UsageSyncer) *UsageHook {
	if syncer == nil {
		panic("worker.NewUsageHook: syncer is nil")
	}
	return &UsageHook{syncer: syncer}
}

// Export implements AfterSnapshotHook.
func (h *UsageHook) Export(ctx context.Context, report domain.PortfolioReport) error {
	changed, err := h.syncer.SyncUsage(ctx, report.Holdings)
	if err != nil {
		return err
	}
	if changed > 0 {
		slog.Info("UsageHook: tag usage updated", "changed", changed)
	}
	return nil
}
