package tag

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/valuation"
)

type matchedHolding struct {
	asset domain.TaggedAsset
	value domain.Valuation
}

// Summarize groups holdings by tag and computes per-tag rollups.
// Archived tags and tags with no matching holdings are skipped. The result is ordered
// by total value descending, ties by tag id.
func Summarize(h domain.Holdings, tags []domain.Tag) []domain.TaggedAssetSummary {
	all := h.All()

	summaries := lo.FilterMap(tags, func(tag domain.Tag, _ int) (domain.TaggedAssetSummary, bool) {
		if tag.IsArchived {
			return domain.TaggedAssetSummary{}, false
		}
		matched := lo.FilterMap(all, func(holding domain.Holding, _ int) (matchedHolding, bool) {
			if !lo.Contains(holding.TagIDs(), tag.ID) {
				return matchedHolding{}, false
			}
			v := valuation.Compute(holding)
			return matchedHolding{
				asset: domain.TaggedAsset{
					ID:               holding.HoldingID(),
					Name:             holding.DisplayName(),
					Type:             holding.AssetType(),
					ReturnPercentage: v.ReturnPercentage,
				},
				value: v,
			}, true
		})
		if len(matched) == 0 {
			return domain.TaggedAssetSummary{}, false
		}
		return summarizeTag(tag, matched), true
	})

	slices.SortStableFunc(summaries, func(a, b domain.TaggedAssetSummary) int {
		if c := b.TotalValue.Cmp(a.TotalValue); c != 0 {
			return c
		}
		return cmp.Compare(a.TagID, b.TagID)
	})
	return summaries
}

func summarizeTag(tag domain.Tag, matched []matchedHolding) domain.TaggedAssetSummary {
	counts := lo.CountValuesBy(matched, func(m matchedHolding) domain.AssetType { return m.asset.Type })

	totalValue := lo.Reduce(matched, func(acc decimal.Decimal, m matchedHolding, _ int) decimal.Decimal {
		return acc.Add(m.value.TotalValue)
	}, decimal.Zero)
	totalReturn := lo.Reduce(matched, func(acc decimal.Decimal, m matchedHolding, _ int) decimal.Decimal {
		return acc.Add(m.value.TotalReturn)
	}, decimal.Zero)

	ranked := lo.Map(matched, func(m matchedHolding, _ int) domain.TaggedAsset { return m.asset })
	slices.SortStableFunc(ranked, compareByReturn)
	best, worst := ranked[0], ranked[len(ranked)-1]

	return domain.TaggedAssetSummary{
		TagID:            tag.ID,
		TagName:          tag.Name,
		TagColor:         tag.Color,
		StocksCount:      counts[domain.AssetTypeStock],
		ETFsCount:        counts[domain.AssetTypeETF],
		PropertiesCount:  counts[domain.AssetTypeProperty],
		TotalAssetsCount: len(matched),
		TotalValue:       totalValue,
		TotalReturn:      totalReturn,
		ReturnPercentage: domain.Percent(totalReturn, totalValue.Sub(totalReturn)),
		BestPerformer:    &best,
		WorstPerformer:   &worst,
	}
}

// compareByReturn ranks by return percentage descending, then id, then asset type.
func compareByReturn(a, b domain.TaggedAsset) int {
	if c := b.ReturnPercentage.Cmp(a.ReturnPercentage); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Type, b.Type)
}

// UsageStats counts holdings per tag id.
func UsageStats(h domain.Holdings) map[string]int {
	stats := make(map[string]int)
	for _, holding := range h.All() {
		for _, id := range lo.Uniq(holding.TagIDs()) {
			stats[id]++
		}
	}
	return stats
}
