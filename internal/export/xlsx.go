package export

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// textColumns are written as strings; all other string cells holding a number are
// written as numeric cells.
var textColumns = []string{"symbol", "name", "address", "propertyType", "purchaseDate", "currency", "exchange", "sector"}

// WriteXLSX writes one worksheet per table with a bold, frozen header row.
func WriteXLSX(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, t := range tables {
		idx, err := f.NewSheet(t.Name)
		if err != nil {
			return fmt.Errorf("creating sheet %s: %w", t.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, t, headerStyle); err != nil {
			return err
		}
	}

	if len(tables) > 0 && !lo.ContainsBy(tables, func(t Table) bool { return t.Name == defaultSheet }) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("removing default sheet: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table, headerStyle int) error {
	header := lo.Map(t.Headers, func(h string, _ int) any { return h })
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", t.Name, err)
	}
	if err := f.SetRowStyle(t.Name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", t.Name, err)
	}

	for i, row := range t.Rows {
		cells := lo.Map(row, func(v any, col int) any {
			if col < len(t.Headers) && lo.Contains(textColumns, t.Headers[col]) {
				return v
			}
			return numericCell(v)
		})
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &cells); err != nil {
			return fmt.Errorf("writing %s row %d: %w", t.Name, i+1, err)
		}
	}

	if err := f.SetPanes(t.Name, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing %s header: %w", t.Name, err)
	}
	return nil
}

func numericCell(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return v
	}
	f, _ := d.Float64()
	return f
}
