package tag

import (
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

const maxSuggestions = 5

// Names of the system tags the suggestion rules refer to.
const (
	nameCGTDiscount     = "CGT Discount Eligible"
	nameNegativeGearing = "Negative Gearing"
	nameLongTerm        = "Long-term (5yr+)"
	nameConservative    = "Conservative"
	nameGrowth          = "Growth"
	nameAggressive      = "Aggressive"
	nameIncome          = "Income"
	nameASX200          = "ASX 200"
	nameFranking        = "Franking Credits"
	nameInternational   = "International"
)

var asxCodePattern = regexp.MustCompile(`^[A-Z]{3,4}$`)

// Draft describes a holding being created, as input for tag suggestions.
type Draft struct {
	Type         domain.AssetType `json:"type"`
	Symbol       string           `json:"symbol,omitempty"`
	Sector       string           `json:"sector,omitempty"`
	Category     string           `json:"category,omitempty"`
	PurchaseDate domain.Date      `json:"purchaseDate,omitempty"`
}

// Suggest returns up to five tags for a draft holding. Rules run in order: holding period,
// asset type, sector keywords, symbol locale. Duplicates are dropped and archived tags
// are never suggested.
func Suggest(d Draft, tags []domain.Tag, now time.Time) []domain.Tag {
	active := lo.Reject(tags, func(t domain.Tag, _ int) bool { return t.IsArchived })
	byName := func(names ...string) []domain.Tag {
		return lo.FilterMap(names, func(name string, _ int) (domain.Tag, bool) {
			return lo.Find(active, func(t domain.Tag) bool { return t.Name == name })
		})
	}

	var suggestions []domain.Tag

	if !d.PurchaseDate.IsZero() && int(now.Sub(d.PurchaseDate.Time).Hours()/24) > 365 {
		suggestions = append(suggestions, byName(nameCGTDiscount)...)
	}

	if d.Type == domain.AssetTypeProperty {
		propertyNames := []string{nameNegativeGearing, nameLongTerm, nameConservative}
		suggestions = append(suggestions, lo.Filter(active, func(t domain.Tag, _ int) bool {
			return lo.Contains(propertyNames, t.Name)
		})...)
	}

	for _, keyword := range lo.Compact([]string{d.Sector, d.Category}) {
		k := strings.ToLower(keyword)
		if strings.Contains(k, "tech") {
			suggestions = append(suggestions, byName(nameGrowth, nameAggressive)...)
		}
		if strings.Contains(k, "utilities") || strings.Contains(k, "reit") {
			suggestions = append(suggestions, byName(nameIncome, nameConservative)...)
		}
	}

	if d.Symbol != "" {
		if strings.Contains(d.Symbol, ".AX") || asxCodePattern.MatchString(d.Symbol) {
			suggestions = append(suggestions, byName(nameASX200, nameFranking)...)
		} else {
			suggestions = append(suggestions, byName(nameInternational)...)
		}
	}

	unique := lo.UniqBy(suggestions, func(t domain.Tag) string { return t.ID })
	if len(unique) > maxSuggestions {
		unique = unique[:maxSuggestions]
	}
	return unique
}
