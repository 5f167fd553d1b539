package export

import (
	"context"

	"github.com/samber/lo"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/mtlprog/portfoliosync/internal/benchmark"
	"github.com/mtlprog/portfoliosync/internal/domain"
)

const (
	historySheet      = "HISTORY"
	historyLastColumn = "L"
)

var historyHeaders = []any{
	"Date", "Total Value", "Cost Basis", "Total Return", "Return %",
	"Stocks", "ETFs", "Properties", "Holdings",
	"Benchmark", "Benchmark 1y %", "Outperformance 1y",
}

// buildHistoryRow builds the HISTORY header and one data row for a report.
// Benchmark columns are empty when no 1y comparison is available.
func buildHistoryRow(r domain.PortfolioReport) (header, row []any) {
	s := r.Summary
	row = []any{
		r.GeneratedAt.UTC().Format("02.01.2006"),
		toFloat(s.TotalValue), toFloat(s.TotalCostBasis), toFloat(s.TotalReturn),
		toFloat(domain.RoundDisplay(s.TotalReturnPercentage)),
		toFloat(s.Stocks.Value), toFloat(s.ETFs.Value), toFloat(s.Properties.Value),
		s.HoldingCount,
		r.Benchmark, nil, nil,
	}

	if perf, ok := lo.Find(r.Comparisons, func(p domain.BenchmarkPerformance) bool {
		return p.Period == string(benchmark.Period1Y)
	}); ok {
		row[10] = toFloat(perf.BenchmarkReturn)
		row[11] = toFloat(domain.RoundDisplay(perf.Outperformance))
	}
	return historyHeaders, row
}

// historyMoneyCols lists 0-based columns formatted as currency.
var historyMoneyCols = []int64{1, 2, 3, 5, 6, 7}

// formatHistory styles the header row, freezes it and applies number formats.
func (w *SheetsWriter) formatHistory(ctx context.Context, m sheetMeta) error {
	headerBg := &sheets.Color{Red: 0.851, Green: 0.918, Blue: 0.827}
	total := int64(len(historyHeaders))

	reqs := []*sheets.Request{
		cellFormatReq(m.id, 0, 1, 0, total,
			&sheets.CellFormat{
				BackgroundColor:     headerBg,
				TextFormat:          &sheets.TextFormat{Bold: true},
				HorizontalAlignment: "CENTER",
			},
			"userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)"),
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        m.id,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1, FrozenColumnCount: 1},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		},
		cellFormatReq(m.id, 1, 10000, 0, 1,
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "DATE", Pattern: "d.m.yyyy"}},
			"userEnteredFormat.numberFormat"),
	}
	for _, col := range historyMoneyCols {
		reqs = append(reqs, cellFormatReq(m.id, 1, 10000, col, col+1,
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: "$#,##0.00"}},
			"userEnteredFormat.numberFormat"))
	}

	_, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: reqs},
	).Context(ctx).Do()
	return err
}

func cellFormatReq(sheetID, startRow, endRow, startCol, endCol int64, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: startCol,
				EndColumnIndex:   endCol,
			},
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}
}
