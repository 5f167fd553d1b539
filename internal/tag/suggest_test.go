package tag

import (
	"testing"

	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

func names(tags []domain.Tag) []string {
	return lo.Map(tags, func(t domain.Tag, _ int) string { return t.Name })
}

func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSuggest(t *testing.T) {
	tags := domain.DefaultTags(testNow)

	tests := []struct {
		name  string
		draft Draft
		want  []string
	}{
		{
			name:  "old domestic tech stock",
			draft: Draft{Type: domain.AssetTypeStock, Symbol: "XRO.AX", Sector: "Technology", PurchaseDate: domain.NewDate(testNow.AddDate(-2, 0, 0))},
			want:  []string{"CGT Discount Eligible", "Growth", "Aggressive", "ASX 200", "Franking Credits"},
		},
		{
			name:  "international stock",
			draft: Draft{Type: domain.AssetTypeStock, Symbol: "AAPL.US"},
			want:  []string{"International"},
		},
		{
			name:  "bare ASX code",
			draft: Draft{Type: domain.AssetTypeStock, Symbol: "CBA"},
			want:  []string{"ASX 200", "Franking Credits"},
		},
		{
			name:  "property",
			draft: Draft{Type: domain.AssetTypeProperty, PurchaseDate: domain.NewDate(testNow.AddDate(0, -1, 0))},
			want:  []string{"Long-term (5yr+)", "Conservative", "Negative Gearing"},
		},
		{
			name:  "reit etf deduplicates conservative",
			draft: Draft{Type: domain.AssetTypeProperty, Category: "REIT"},
			want:  []string{"Long-term (5yr+)", "Conservative", "Negative Gearing", "Income"},
		},
		{
			name:  "capped at five",
			draft: Draft{Type: domain.AssetTypeProperty, Sector: "utilities", Symbol: "AGL.AX", PurchaseDate: domain.NewDate(testNow.AddDate(-3, 0, 0))},
			want:  []string{"CGT Discount Eligible", "Long-term (5yr+)", "Conservative", "Negative Gearing", "Income"},
		},
		{
			name:  "nothing",
			draft: Draft{Type: domain.AssetTypeETF},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Suggest(tt.draft, tags, testNow))
			if !equalNames(got, tt.want) {
				t.Errorf("Suggest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggestSkipsArchived(t *testing.T) {
	tags := domain.DefaultTags(testNow)
	for i := range tags {
		if tags[i].Name == "International" {
			tags[i].IsArchived = true
		}
	}

	if got := Suggest(Draft{Symbol: "MSFT.US"}, tags, testNow); len(got) != 0 {
		t.Errorf("Suggest() = %v, want none", names(got))
	}
}
