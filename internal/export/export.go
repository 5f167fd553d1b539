package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// SheetWriter writes export tables and report history to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, tables []Table) error
	AppendHistory(ctx context.Context, report domain.PortfolioReport) error
}

// Service pushes portfolio reports to a SheetWriter.
type Service struct {
	writer SheetWriter
	now    func() time.Time
}

// NewService creates a new export Service.
func NewService(writer SheetWriter) *Service {
	if writer == nil {
		panic("export.NewService: writer is nil")
	}
	return &Service{writer: writer, now: time.Now}
}

// Export writes the holding tables of the report and appends its totals to the history.
// Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, report domain.PortfolioReport) error {
	if err := s.writer.Write(ctx, SheetTables(report.Holdings, s.now())); err != nil {
		return fmt.Errorf("writing holdings: %w", err)
	}
	if err := s.writer.AppendHistory(ctx, report); err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
