package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mtlprog/portfoliosync/internal/benchmark"
	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/holdings"
)

type mockLoader struct {
	h        domain.Holdings
	warnings []string
	err      error
}

func (m *mockLoader) Load(_ context.Context, _ string) (domain.Holdings, []string, error) {
	return m.h, m.warnings, m.err
}

type mockTags struct {
	tags []domain.Tag
	err  error
}

func (m *mockTags) List(_ context.Context) ([]domain.Tag, error) {
	return m.tags, m.err
}

var reportNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestService(loader HoldingsLoader, tags TagLister) *Service {
	svc := NewService(loader, tags, benchmark.NewComparator(benchmark.DefaultRegistry(), benchmark.DefaultStaticSource()))
	svc.now = func() time.Time { return reportNow }
	return svc
}

func balanced(t *testing.T) domain.Holdings {
	t.Helper()
	h, err := holdings.MockHoldings(holdings.ScenarioBalanced)
	if err != nil {
		t.Fatalf("mock holdings: %v", err)
	}
	return h
}

func TestBuildBalancedReport(t *testing.T) {
	svc := newTestService(&mockLoader{h: balanced(t)}, &mockTags{tags: domain.DefaultTags(reportNow)})

	r, err := svc.Build(context.Background(), "demo", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.PortfolioID != "demo" || !r.GeneratedAt.Equal(reportNow) {
		t.Errorf("header = %s/%v", r.PortfolioID, r.GeneratedAt)
	}
	if r.Summary.HoldingCount != 7 {
		t.Errorf("HoldingCount = %d, want 7", r.Summary.HoldingCount)
	}
	// property-heavy AU portfolio
	if r.SuggestedBenchmark != benchmark.SymbolASX200 || r.Benchmark != benchmark.SymbolASX200 {
		t.Errorf("benchmark = %s (suggested %s), want ^AXJO", r.Benchmark, r.SuggestedBenchmark)
	}
	if len(r.Comparisons) != 4 {
		t.Errorf("comparisons = %d, want 4", len(r.Comparisons))
	}
	if len(r.TagSummaries) == 0 {
		t.Fatal("no tag summaries")
	}
	if r.TagSummaries[0].TagName != "Long-term (5yr+)" {
		t.Errorf("top tag = %s, want Long-term (5yr+)", r.TagSummaries[0].TagName)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", r.Warnings)
	}
}

func TestBuildExplicitBenchmarkWithoutData(t *testing.T) {
	svc := newTestService(&mockLoader{h: balanced(t)}, &mockTags{})

	r, err := svc.Build(context.Background(), "demo", "^FTSE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Comparisons) != 0 {
		t.Errorf("comparisons = %d, want 0", len(r.Comparisons))
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "unavailable") {
		t.Errorf("warnings = %v", r.Warnings)
	}
}

func TestBuildUnknownBenchmark(t *testing.T) {
	svc := newTestService(&mockLoader{h: balanced(t)}, &mockTags{})

	r, _ := svc.Build(context.Background(), "demo", "NOPE")
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "unknown benchmark") {
		t.Errorf("warnings = %v", r.Warnings)
	}
}

func TestBuildToleratesTagFailure(t *testing.T) {
	loader := &mockLoader{h: balanced(t), warnings: []string{"etfs unavailable: boom"}}
	svc := newTestService(loader, &mockTags{err: errors.New("db down")})

	r, err := svc.Build(context.Background(), "demo", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TagSummaries == nil || len(r.TagSummaries) != 0 {
		t.Errorf("TagSummaries = %v, want empty", r.TagSummaries)
	}
	if len(r.Warnings) != 2 {
		t.Errorf("warnings = %v, want loader and tag warnings", r.Warnings)
	}
}

func TestBuildLoaderError(t *testing.T) {
	svc := newTestService(&mockLoader{err: context.Canceled}, &mockTags{})

	if _, err := svc.Build(context.Background(), "demo", ""); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCompare(t *testing.T) {
	h := domain.Holdings{Stocks: []domain.Stock{{Lot: domain.Lot{
		ID: "1", Symbol: "X", Quantity: decimalFrom("100"), PurchasePrice: decimalFrom("80"),
		CurrentPrice: nullFrom("100"),
	}}}}
	svc := newTestService(&mockLoader{h: h}, &mockTags{})

	perf, err := svc.Compare(context.Background(), "demo", benchmark.SymbolASX200, benchmark.Period1Y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !perf.PortfolioReturn.Equal(decimalFrom("25")) || !perf.Outperformance.Equal(decimalFrom("12.5")) {
		t.Errorf("perf = %+v", perf)
	}

	if perf, _ := svc.Compare(context.Background(), "demo", "UNKNOWN_SYMBOL", benchmark.Period1Y); perf != nil {
		t.Errorf("unknown symbol = %+v, want nil", perf)
	}
}
