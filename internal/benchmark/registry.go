package benchmark

import (
	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// Index symbols with special meaning for the best-match heuristic.
const (
	SymbolASX200 = "^AXJO"
	SymbolSP500  = "^GSPC"
)

var defaultIndices = []domain.BenchmarkIndex{
	{Symbol: SymbolASX200, Name: "ASX 200", Country: "AU", Description: "Top 200 companies listed on the Australian Securities Exchange"},
	{Symbol: "^AORD", Name: "All Ordinaries", Country: "AU", Description: "500 largest companies listed on the ASX"},
	{Symbol: SymbolSP500, Name: "S&P 500", Country: "US", Description: "500 large companies listed on US stock exchanges"},
	{Symbol: "^IXIC", Name: "NASDAQ Composite", Country: "US", Description: "All stocks listed on the NASDAQ stock exchange"},
	{Symbol: "^DJI", Name: "Dow Jones Industrial Average", Country: "US", Description: "30 prominent companies listed on US stock exchanges"},
	{Symbol: "^FTSE", Name: "FTSE 100", Country: "UK", Description: "100 largest companies listed on the London Stock Exchange"},
}

// Registry is the set of benchmark indices a Comparator accepts.
type Registry struct {
	indices []domain.BenchmarkIndex
}

// NewRegistry creates a registry from the given indices.
func NewRegistry(indices ...domain.BenchmarkIndex) *Registry {
	return &Registry{indices: append([]domain.BenchmarkIndex(nil), indices...)}
}

// DefaultRegistry returns the built-in AU, US and UK indices.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultIndices...)
}

// Lookup finds an index by symbol.
func (r *Registry) Lookup(symbol string) (domain.BenchmarkIndex, bool) {
	return lo.Find(r.indices, func(i domain.BenchmarkIndex) bool { return i.Symbol == symbol })
}

// Indices returns a copy of all registered indices.
func (r *Registry) Indices() []domain.BenchmarkIndex {
	return append([]domain.BenchmarkIndex(nil), r.indices...)
}

// Symbols returns the registered symbols in registry order.
func (r *Registry) Symbols() []string {
	return lo.Map(r.indices, func(i domain.BenchmarkIndex, _ int) string { return i.Symbol })
}
