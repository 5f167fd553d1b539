package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/portfolio"
)

// Kind selects the exported collection.
type Kind string

const (
	KindStocks     Kind = "stocks"
	KindETFs       Kind = "etfs"
	KindProperties Kind = "properties"
	KindAll        Kind = "all"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

// ErrUnsupported is returned for a kind and format combination that cannot be rendered.
var ErrUnsupported = errors.New("unsupported export")

var contentTypes = map[Format]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatJSON: "application/json",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatText: "text/plain; charset=utf-8",
}

// ParseKind validates an export kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !lo.Contains([]Kind{KindStocks, KindETFs, KindProperties, KindAll}, k) {
		return "", fmt.Errorf("%w: kind %q", ErrUnsupported, s)
	}
	return k, nil
}

// ParseFormat validates an export format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: format %q", ErrUnsupported, s)
	}
	return f, nil
}

// ContentType returns the MIME type of a format.
func ContentType(f Format) string { return contentTypes[f] }

// Filename returns "portfoliosync-<kind>-<YYYY-MM-DD>.<ext>".
func Filename(kind Kind, f Format, now time.Time) string {
	return fmt.Sprintf("portfoliosync-%s-%s.%s", kind, now.Format(time.DateOnly), f)
}

// Options tune rendering.
type Options struct {
	// BOM prefixes CSV output with a UTF-8 byte order mark.
	BOM bool
}

// Check reports whether kind can be rendered in format f. CSV holds one collection, so
// KindAll is rejected for it.
func Check(f Format, kind Kind) error {
	if _, ok := contentTypes[f]; !ok {
		return fmt.Errorf("%w: format %q", ErrUnsupported, f)
	}
	if f == FormatCSV && kind == KindAll {
		return fmt.Errorf("%w: csv export needs a single collection", ErrUnsupported)
	}
	return nil
}

// Render writes the holdings of kind in format f.
func Render(w io.Writer, f Format, kind Kind, h domain.Holdings, now time.Time, opts Options) error {
	if err := Check(f, kind); err != nil {
		return err
	}
	switch f {
	case FormatCSV:
		return WriteCSV(w, Tables(kind, h, now)[0], opts.BOM)
	case FormatJSON:
		return WriteJSON(w, filterKind(kind, h), now)
	case FormatXLSX:
		return WriteXLSX(w, Tables(kind, h, now))
	case FormatText:
		_, err := io.WriteString(w, Summary(h, now))
		return err
	}
	return fmt.Errorf("%w: format %q", ErrUnsupported, f)
}

func filterKind(kind Kind, h domain.Holdings) domain.Holdings {
	out := domain.Holdings{Stocks: []domain.Stock{}, ETFs: []domain.ETF{}, Properties: []domain.Property{}}
	if kind == KindAll || kind == KindStocks {
		out.Stocks = append(out.Stocks, h.Stocks...)
	}
	if kind == KindAll || kind == KindETFs {
		out.ETFs = append(out.ETFs, h.ETFs...)
	}
	if kind == KindAll || kind == KindProperties {
		out.Properties = append(out.Properties, h.Properties...)
	}
	return out
}

// utf8BOM makes spreadsheet applications detect the encoding of CSV files.
const utf8BOM = "\ufeff"

// WriteCSV writes a table as CSV, optionally prefixed with a UTF-8 byte order mark.
func WriteCSV(w io.Writer, t Table, withBOM bool) error {
	if withBOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range t.Rows {
		record := lo.Map(row, func(v any, _ int) string { return fmt.Sprint(v) })
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Document is the JSON export of a portfolio.
type Document struct {
	Stocks     []domain.Stock    `json:"stocks"`
	ETFs       []domain.ETF      `json:"etfs"`
	Properties []domain.Property `json:"properties"`
	Metadata   Metadata          `json:"metadata"`
}

// Metadata describes a JSON export.
type Metadata struct {
	ExportDate     time.Time       `json:"exportDate"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	TotalReturn    decimal.Decimal `json:"totalReturn"`
	PortfolioCount Counts          `json:"portfolioCount"`
}

// Counts holds the number of holdings per asset class.
type Counts struct {
	Stocks     int `json:"stocks"`
	ETFs       int `json:"etfs"`
	Properties int `json:"properties"`
}

// NewDocument builds the JSON export document.
func NewDocument(h domain.Holdings, now time.Time) Document {
	summary := portfolio.Aggregate(h)
	return Document{
		Stocks:     h.Stocks,
		ETFs:       h.ETFs,
		Properties: h.Properties,
		Metadata: Metadata{
			ExportDate:  now.UTC(),
			TotalValue:  summary.TotalValue,
			TotalReturn: summary.TotalReturn,
			PortfolioCount: Counts{
				Stocks:     len(h.Stocks),
				ETFs:       len(h.ETFs),
				Properties: len(h.Properties),
			},
		},
	}
}

// WriteJSON writes the indented JSON export document.
func WriteJSON(w io.Writer, h domain.Holdings, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(h, now)); err != nil {
		return fmt.Errorf("encoding json export: %w", err)
	}
	return nil
}
