package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/risk"
)

// ReportBuilder generates portfolio reports.
type ReportBuilder interface {
	Build(ctx context.Context, portfolioID, benchmarkSymbol string) (domain.PortfolioReport, error)
}

// Service manages snapshot generation and retrieval.
type Service struct {
	reports ReportBuilder
	repo    Repository
}

// NewService creates a new snapshot Service.
func NewService(reports ReportBuilder, repo Repository) *Service {
	if reports == nil {
		panic("snapshot.NewService: reports is nil")
	}
	if repo == nil {
		panic("snapshot.NewService: repo is nil")
	}
	return &Service{reports: reports, repo: repo}
}

// Generate builds the report of a portfolio and stores it for the given date.
// A snapshot already stored for that date is replaced.
func (s *Service) Generate(ctx context.Context, portfolioID string, date time.Time) (domain.PortfolioReport, error) {
	report, err := s.reports.Build(ctx, portfolioID, "")
	if err != nil {
		return domain.PortfolioReport{}, fmt.Errorf("building report: %w", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return domain.PortfolioReport{}, fmt.Errorf("marshaling report: %w", err)
	}

	if err := s.repo.Save(ctx, portfolioID, date, data); err != nil {
		return domain.PortfolioReport{}, fmt.Errorf("saving snapshot: %w", err)
	}

	return report, nil
}

// GetLatest retrieves the most recent snapshot of the portfolio.
func (s *Service) GetLatest(ctx context.Context, portfolioID string) (*Snapshot, error) {
	return s.repo.GetLatest(ctx, portfolioID)
}

// GetByDate retrieves a snapshot for a specific date.
func (s *Service) GetByDate(ctx context.Context, portfolioID string, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, portfolioID, date)
}

// List retrieves recent snapshots, newest first.
func (s *Service) List(ctx context.Context, portfolioID string, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, portfolioID, limit)
}

// TimelinePoint is the portfolio totals on one snapshot date.
type TimelinePoint struct {
	Date             time.Time       `json:"date"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	TotalCostBasis   decimal.Decimal `json:"totalCostBasis"`
	TotalReturn      decimal.Decimal `json:"totalReturn"`
	ReturnPercentage decimal.Decimal `json:"returnPercentage"`
}

// Timeline returns the totals of the last limit snapshots, oldest first.
func (s *Service) Timeline(ctx context.Context, portfolioID string, limit int) ([]TimelinePoint, error) {
	snapshots, err := s.repo.List(ctx, portfolioID, limit)
	if err != nil {
		return nil, err
	}

	points := make([]TimelinePoint, 0, len(snapshots))
	for _, snap := range snapshots {
		p, err := toPoint(snap)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	slices.SortFunc(points, func(a, b TimelinePoint) int { return a.Date.Compare(b.Date) })
	return points, nil
}

// Growth is the change of portfolio value between two snapshots.
type Growth struct {
	From        TimelinePoint   `json:"from"`
	To          TimelinePoint   `json:"to"`
	ValueChange decimal.Decimal `json:"valueChange"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// GrowthSince compares the latest snapshot with the nearest one on or before since.
func (s *Service) GrowthSince(ctx context.Context, portfolioID string, since time.Time) (Growth, error) {
	latest, err := s.repo.GetLatest(ctx, portfolioID)
	if err != nil {
		return Growth{}, err
	}
	base, err := s.repo.GetNearestBefore(ctx, portfolioID, since)
	if err != nil {
		return Growth{}, err
	}

	to, err := toPoint(*latest)
	if err != nil {
		return Growth{}, err
	}
	from, err := toPoint(*base)
	if err != nil {
		return Growth{}, err
	}

	change := to.TotalValue.Sub(from.TotalValue)
	return Growth{
		From:        from,
		To:          to,
		ValueChange: change,
		Percentage:  domain.Percent(change, from.TotalValue),
	}, nil
}

// Risk computes risk metrics over the total values of the last limit snapshots.
func (s *Service) Risk(ctx context.Context, portfolioID string, limit int) (risk.Metrics, error) {
	points, err := s.Timeline(ctx, portfolioID, limit)
	if err != nil {
		return risk.Metrics{}, err
	}
	values := make([]decimal.Decimal, len(points))
	for i, p := range points {
		values[i] = p.TotalValue
	}
	return risk.Compute(values), nil
}

func toPoint(snap Snapshot) (TimelinePoint, error) {
	var report domain.PortfolioReport
	if err := json.Unmarshal(snap.Data, &report); err != nil {
		return TimelinePoint{}, fmt.Errorf("decoding snapshot %s: %w", snap.SnapshotDate.Format(time.DateOnly), err)
	}
	return TimelinePoint{
		Date:             snap.SnapshotDate,
		TotalValue:       report.Summary.TotalValue,
		TotalCostBasis:   report.Summary.TotalCostBasis,
		TotalReturn:      report.Summary.TotalReturn,
		ReturnPercentage: report.Summary.TotalReturnPercentage,
	}, nil
}
