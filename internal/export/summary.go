package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/portfolio"
	"github.com/mtlprog/portfoliosync/internal/valuation"
)

// Summary renders a plain text investment summary.
func Summary(h domain.Holdings, now time.Time) string {
	s := portfolio.Aggregate(h)

	var b strings.Builder
	fmt.Fprintf(&b, "PORTFOLIOSYNC INVESTMENT SUMMARY\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.UTC().Format(time.RFC1123))

	fmt.Fprintf(&b, "PORTFOLIO OVERVIEW\n")
	fmt.Fprintf(&b, "Total Portfolio Value: %s\n", domain.FormatAmount(s.TotalValue, "AUD"))
	fmt.Fprintf(&b, "Total Return: %s\n", domain.FormatAmount(s.TotalReturn, "AUD"))
	fmt.Fprintf(&b, "Total Return %%: %s%%\n\n", s.TotalReturnPercentage.StringFixed(2))

	fmt.Fprintf(&b, "ASSET BREAKDOWN\n")
	fmt.Fprintf(&b, "Stocks: %d holdings, %s\n", s.Stocks.Count, domain.FormatAmount(s.Stocks.Value, "AUD"))
	fmt.Fprintf(&b, "ETFs: %d holdings, %s\n", s.ETFs.Count, domain.FormatAmount(s.ETFs.Value, "AUD"))
	fmt.Fprintf(&b, "Properties: %d holdings, %s\n\n", s.Properties.Count, domain.FormatAmount(s.Properties.Value, "AUD"))

	fmt.Fprintf(&b, "TOP PERFORMERS\n")
	b.WriteString(bestLine("Stock", "No stocks", h.Stocks) + "\n")
	b.WriteString(bestLine("ETF", "No ETFs", h.ETFs) + "\n")
	b.WriteString(bestLine("Property", "No properties", h.Properties) + "\n")
	return b.String()
}

func bestLine[H domain.Holding](label, none string, items []H) string {
	if len(items) == 0 {
		return none
	}
	best := lo.MaxBy(items, func(a, b H) bool {
		return valuation.Compute(a).ReturnPercentage.GreaterThan(valuation.Compute(b).ReturnPercentage)
	})
	return fmt.Sprintf("Best %s: %s (%s%%)", label, best.DisplayName(), valuation.Compute(best).ReturnPercentage.StringFixed(1))
}
