package tag

import (
	"testing"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

func TestFilterByTags(t *testing.T) {
	items := []domain.Stock{
		stock("a", "1", "1", "1", "x"),
		stock("b", "1", "1", "1", "x", "y"),
		stock("c", "1", "1", "1"),
		stock("d", "1", "1", "1", "y"),
	}

	ids := func(s []domain.Stock) []string {
		out := make([]string, len(s))
		for i := range s {
			out[i] = s[i].ID
		}
		return out
	}

	tests := []struct {
		name     string
		tagIDs   []string
		matchAll bool
		want     []string
	}{
		{"any", []string{"x", "y"}, false, []string{"a", "b", "d"}},
		{"all", []string{"x", "y"}, true, []string{"b"}},
		{"empty filter", nil, false, []string{"a", "b", "c", "d"}},
		{"no match", []string{"z"}, false, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterByTags(items, tt.tagIDs, tt.matchAll))
			if !equalNames(got, tt.want) {
				t.Errorf("FilterByTags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterByTagsHoldingInterface(t *testing.T) {
	all := growthHoldings().All()
	got := FilterByTags(all, []string{domain.DefaultTagID(2)}, false)
	if len(got) != 1 || got[0].HoldingID() != "B" {
		t.Errorf("FilterByTags(all) = %v, want [B]", got)
	}
}
