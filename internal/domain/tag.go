package domain

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TagCategory groups tags for filtering.
type TagCategory string

const (
	TagCategoryStrategy TagCategory = "strategy"
	TagCategoryHorizon  TagCategory = "horizon"
	TagCategoryGoal     TagCategory = "goal"
	TagCategoryRisk     TagCategory = "risk"
	TagCategoryMarket   TagCategory = "market"
	TagCategoryTax      TagCategory = "tax"
	TagCategoryCustom   TagCategory = "custom"
)

// TagCategories lists every category in display order.
var TagCategories = []TagCategory{
	TagCategoryStrategy, TagCategoryHorizon, TagCategoryGoal, TagCategoryRisk,
	TagCategoryMarket, TagCategoryTax, TagCategoryCustom,
}

// IsValid reports whether c is a known category.
func (c TagCategory) IsValid() bool {
	return lo.Contains(TagCategories, c)
}

// Tag is a user or system label attached to holdings.
type Tag struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Color       string      `json:"color"`
	Category    TagCategory `json:"category"`
	IsDefault   bool        `json:"isDefault"`
	IsArchived  bool        `json:"isArchived"`
	UsageCount  int         `json:"usageCount"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type defaultTag struct {
	name        string
	description string
	color       string
	category    TagCategory
}

// defaultTagCatalogue is unexported to prevent external mutation; ids are assigned by position.
var defaultTagCatalogue = []defaultTag{
	{"Growth", "Assets held for capital appreciation", "#10B981", TagCategoryStrategy},
	{"Income", "Assets held for dividends, distributions or rent", "#3B82F6", TagCategoryStrategy},
	{"Value", "Assets bought below intrinsic value", "#6366F1", TagCategoryStrategy},
	{"Dividend Growth", "Companies with a rising dividend record", "#0EA5E9", TagCategoryStrategy},
	{"Speculative", "High risk positions with uncertain outcomes", "#F97316", TagCategoryStrategy},
	{"Short-term", "Holding period under one year", "#F59E0B", TagCategoryHorizon},
	{"Medium-term", "Holding period of one to five years", "#EAB308", TagCategoryHorizon},
	{"Long-term (5yr+)", "Holding period beyond five years", "#84CC16", TagCategoryHorizon},
	{"Emergency Fund", "Liquid reserve for emergencies", "#14B8A6", TagCategoryGoal},
	{"Retirement", "Savings for retirement", "#8B5CF6", TagCategoryGoal},
	{"House Deposit", "Saving towards a home deposit", "#A855F7", TagCategoryGoal},
	{"Education", "Funding education costs", "#D946EF", TagCategoryGoal},
	{"Wealth Building", "General long-run wealth accumulation", "#EC4899", TagCategoryGoal},
	{"Passive Income", "Income that needs no active management", "#06B6D4", TagCategoryGoal},
	{"Capital Preservation", "Protecting principal above all", "#64748B", TagCategoryRisk},
	{"Low Volatility", "Assets with stable prices", "#22C55E", TagCategoryRisk},
	{"Conservative", "Low risk tolerance", "#16A34A", TagCategoryRisk},
	{"Moderate", "Balanced risk tolerance", "#CA8A04", TagCategoryRisk},
	{"Aggressive", "High risk tolerance", "#DC2626", TagCategoryRisk},
	{"Blue Chip", "Large, established companies", "#1D4ED8", TagCategoryMarket},
	{"International", "Listed outside Australia", "#7C3AED", TagCategoryMarket},
	{"ASX 200", "Constituent of the S&P/ASX 200", "#0284C7", TagCategoryMarket},
	{"Australian Small Caps", "Smaller ASX-listed companies", "#0891B2", TagCategoryMarket},
	{"Emerging Markets", "Exposure to developing economies", "#B45309", TagCategoryMarket},
	{"US Markets", "Listed on US exchanges", "#4F46E5", TagCategoryMarket},
	{"Tax Loss Harvesting", "Candidate for realising losses", "#BE123C", TagCategoryTax},
	{"CGT Discount Eligible", "Held over 12 months for the CGT discount", "#047857", TagCategoryTax},
	{"Franking Credits", "Pays franked dividends", "#0369A1", TagCategoryTax},
	{"Negative Gearing", "Deductible investment property losses", "#9F1239", TagCategoryTax},
	{"Superannuation", "Held inside a super fund", "#4338CA", TagCategoryTax},
}

// DefaultTagID returns the system id for the n-th catalogue entry (1-based).
func DefaultTagID(n int) string {
	return fmt.Sprintf("tag_%d", n)
}

// DefaultTags returns a fresh copy of the system tag catalogue stamped with the given time.
func DefaultTags(at time.Time) []Tag {
	return lo.Map(defaultTagCatalogue, func(d defaultTag, i int) Tag {
		return Tag{
			ID:          DefaultTagID(i + 1),
			Name:        d.name,
			Description: d.description,
			Color:       d.color,
			Category:    d.category,
			IsDefault:   true,
			CreatedAt:   at,
			UpdatedAt:   at,
		}
	})
}

// TaggedAsset identifies a holding within a tag summary.
type TaggedAsset struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             AssetType       `json:"type"`
	ReturnPercentage decimal.Decimal `json:"returnPercentage"`
}

// TaggedAssetSummary is the per-tag rollup of matching holdings.
type TaggedAssetSummary struct {
	TagID            string          `json:"tagId"`
	TagName          string          `json:"tagName"`
	TagColor         string          `json:"tagColor"`
	StocksCount      int             `json:"stocksCount"`
	ETFsCount        int             `json:"etfsCount"`
	PropertiesCount  int             `json:"propertiesCount"`
	TotalAssetsCount int             `json:"totalAssetsCount"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	TotalReturn      decimal.Decimal `json:"totalReturn"`
	ReturnPercentage decimal.Decimal `json:"returnPercentage"`
	BestPerformer    *TaggedAsset    `json:"bestPerformer"`
	WorstPerformer   *TaggedAsset    `json:"worstPerformer"`
}
