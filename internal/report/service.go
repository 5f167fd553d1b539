package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/benchmark"
	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/portfolio"
	"github.com/mtlprog/portfoliosync/internal/tag"
)

// HoldingsLoader loads the holdings of a portfolio, reporting partial failures as warnings.
type HoldingsLoader interface {
	Load(ctx context.Context, portfolioID string) (domain.Holdings, []string, error)
}

// TagLister lists the active tags.
type TagLister interface {
	List(ctx context.Context) ([]domain.Tag, error)
}

// Comparator compares portfolio returns with benchmark indices.
type Comparator interface {
	Compare(value, costBasis decimal.Decimal, symbol string, period benchmark.Period) *domain.BenchmarkPerformance
	MultiPeriodCompare(value, costBasis decimal.Decimal, symbol string) []domain.BenchmarkPerformance
}

// Service builds dashboard reports: load, value, aggregate, compare, summarize tags.
type Service struct {
	holdings   HoldingsLoader
	tags       TagLister
	comparator Comparator
	now        func() time.Time
}

// NewService creates a report Service. All dependencies are required.
func NewService(holdings HoldingsLoader, tags TagLister, comparator Comparator) *Service {
	if holdings == nil {
		panic("report.NewService: holdings is nil")
	}
	if tags == nil {
		panic("report.NewService: tags is nil")
	}
	if comparator == nil {
		panic("report.NewService: comparator is nil")
	}
	return &Service{holdings: holdings, tags: tags, comparator: comparator, now: time.Now}
}

// Holdings loads the holdings of a portfolio.
func (s *Service) Holdings(ctx context.Context, portfolioID string) (domain.Holdings, []string, error) {
	h, warnings, err := s.holdings.Load(ctx, portfolioID)
	if err != nil {
		return domain.Holdings{}, nil, fmt.Errorf("loading holdings for %s: %w", portfolioID, err)
	}
	return h, warnings, nil
}

// Build generates the report of a portfolio against benchmarkSymbol over the key periods.
// An empty benchmarkSymbol selects the suggested benchmark for the portfolio composition.
func (s *Service) Build(ctx context.Context, portfolioID, benchmarkSymbol string) (domain.PortfolioReport, error) {
	h, warnings, err := s.Holdings(ctx, portfolioID)
	if err != nil {
		return domain.PortfolioReport{}, err
	}

	summary := portfolio.Aggregate(h)
	composition := portfolio.Compose(h)
	suggested := benchmark.BestMatch(composition)
	if benchmarkSymbol == "" {
		benchmarkSymbol = suggested
	}

	comparisons := s.comparator.MultiPeriodCompare(summary.TotalValue, summary.TotalCostBasis, benchmarkSymbol)
	if s.comparator.Compare(summary.TotalValue, summary.TotalCostBasis, benchmarkSymbol, benchmark.Period1Y) == nil {
		w := fmt.Sprintf("unknown benchmark %s", benchmarkSymbol)
		slog.Warn(w, "portfolio", portfolioID)
		warnings = append(warnings, w)
	} else if len(comparisons) == 0 {
		w := fmt.Sprintf("benchmark data unavailable for %s", benchmarkSymbol)
		slog.Warn(w, "portfolio", portfolioID)
		warnings = append(warnings, w)
	}

	summaries := []domain.TaggedAssetSummary{}
	tags, err := s.tags.List(ctx)
	if err != nil {
		w := fmt.Sprintf("tags unavailable: %v", err)
		slog.Warn(w, "portfolio", portfolioID)
		warnings = append(warnings, w)
	} else {
		summaries = tag.Summarize(h, tags)
	}

	return domain.PortfolioReport{
		PortfolioID:        portfolioID,
		GeneratedAt:        s.now().UTC(),
		Summary:            summary,
		Composition:        composition,
		Benchmark:          benchmarkSymbol,
		SuggestedBenchmark: suggested,
		Comparisons:        comparisons,
		TagSummaries:       summaries,
		Holdings:           h,
		Warnings:           warnings,
	}, nil
}

// Compare compares the portfolio with one benchmark over one period.
// It returns nil when the benchmark is unknown.
func (s *Service) Compare(ctx context.Context, portfolioID, symbol string, period benchmark.Period) (*domain.BenchmarkPerformance, error) {
	h, _, err := s.Holdings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	summary := portfolio.Aggregate(h)
	return s.comparator.Compare(summary.TotalValue, summary.TotalCostBasis, symbol, period), nil
}
