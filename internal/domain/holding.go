package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType classifies holdings.
type AssetType string

const (
	AssetTypeStock    AssetType = "stock"
	AssetTypeETF      AssetType = "etf"
	AssetTypeProperty AssetType = "property"
)

// PropertyType is the kind of real estate held.
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeUnit       PropertyType = "unit"
	PropertyTypeTownhouse  PropertyType = "townhouse"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeLand       PropertyType = "land"
)

// Holding is implemented by Stock, ETF and Property only.
type Holding interface {
	HoldingID() string
	AssetType() AssetType
	DisplayName() string
	TagIDs() []string
	Purchased() time.Time
	isHolding()
}

// Lot holds the fields shared by exchange-traded holdings.
type Lot struct {
	ID            string              `json:"id"`
	PortfolioID   string              `json:"portfolioId"`
	Symbol        string              `json:"symbol"`
	Name          string              `json:"name"`
	Quantity      decimal.Decimal     `json:"quantity"`
	PurchasePrice decimal.Decimal     `json:"purchasePrice"`
	PurchaseFees  decimal.Decimal     `json:"purchaseFees"`
	CurrentPrice  decimal.NullDecimal `json:"currentPrice"`
	PurchaseDate  Date                `json:"purchaseDate"`
	Currency      string              `json:"currency,omitempty"`
	Exchange      string              `json:"exchange,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (l Lot) HoldingID() string    { return l.ID }
func (l Lot) DisplayName() string  { return l.Symbol }
func (l Lot) TagIDs() []string     { return l.Tags }
func (l Lot) Purchased() time.Time { return l.PurchaseDate.Time }
func (l Lot) isHolding()           {}

// EffectivePrice returns the current price, falling back to the purchase price when unset.
func (l Lot) EffectivePrice() decimal.Decimal {
	if l.CurrentPrice.Valid {
		return l.CurrentPrice.Decimal
	}
	return l.PurchasePrice
}

// IsDomestic reports whether the lot trades on the Australian exchange.
func (l Lot) IsDomestic() bool {
	return strings.EqualFold(l.Exchange, "ASX") || strings.HasSuffix(strings.ToUpper(l.Symbol), ".AX")
}

// Stock is a single listed equity position.
type Stock struct {
	Lot
	Sector string `json:"sector,omitempty"`
}

func (Stock) AssetType() AssetType { return AssetTypeStock }

// ETF is an exchange-traded fund position.
type ETF struct {
	Lot
	Category     string          `json:"category,omitempty"`
	ExpenseRatio decimal.Decimal `json:"expenseRatio"`
}

func (ETF) AssetType() AssetType { return AssetTypeETF }

// Property is a directly held real estate asset.
type Property struct {
	ID                 string          `json:"id"`
	PortfolioID        string          `json:"portfolioId"`
	Address            string          `json:"address"`
	PropertyType       PropertyType    `json:"propertyType"`
	PurchasePrice      decimal.Decimal `json:"purchasePrice"`
	StampDuty          decimal.Decimal `json:"stampDuty"`
	LegalFees          decimal.Decimal `json:"legalFees"`
	OtherPurchaseCosts decimal.Decimal `json:"otherPurchaseCosts"`
	CurrentValue       decimal.Decimal `json:"currentValue"`
	PurchaseDate       Date            `json:"purchaseDate"`
	Currency           string          `json:"currency,omitempty"`
	WeeklyRent         decimal.Decimal `json:"weeklyRent"`
	AnnualExpenses     decimal.Decimal `json:"annualExpenses"`
	Tags               []string        `json:"tags,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (p Property) HoldingID() string    { return p.ID }
func (p Property) AssetType() AssetType { return AssetTypeProperty }
func (p Property) TagIDs() []string     { return p.Tags }
func (p Property) Purchased() time.Time { return p.PurchaseDate.Time }
func (p Property) isHolding()           {}

// DisplayName returns the first segment of the address ("15 Collins Street").
func (p Property) DisplayName() string {
	name, _, _ := strings.Cut(p.Address, ",")
	return strings.TrimSpace(name)
}

// IsDomestic reports whether the property is priced in AUD. Unspecified currency counts as domestic.
func (p Property) IsDomestic() bool {
	return p.Currency == "" || strings.EqualFold(p.Currency, "AUD")
}

// Holdings groups the three holding collections of one portfolio.
type Holdings struct {
	Stocks     []Stock    `json:"stocks"`
	ETFs       []ETF      `json:"etfs"`
	Properties []Property `json:"properties"`
}

// Count returns the total number of holdings.
func (h Holdings) Count() int {
	return len(h.Stocks) + len(h.ETFs) + len(h.Properties)
}

// All returns every holding as the Holding interface, stocks first, then ETFs, then properties.
func (h Holdings) All() []Holding {
	all := make([]Holding, 0, h.Count())
	for _, s := range h.Stocks {
		all = append(all, s)
	}
	for _, e := range h.ETFs {
		all = append(all, e)
	}
	for _, p := range h.Properties {
		all = append(all, p)
	}
	return all
}

// Valuation is the derived cost, value and return of one holding.
type Valuation struct {
	TotalCostBasis   decimal.Decimal `json:"totalCostBasis"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	TotalReturn      decimal.Decimal `json:"totalReturn"`
	ReturnPercentage decimal.Decimal `json:"returnPercentage"`
}

// PropertyIncome holds rental metrics for a property.
type PropertyIncome struct {
	AnnualRentalIncome decimal.Decimal `json:"annualRentalIncome"`
	GrossRentalYield   decimal.Decimal `json:"grossRentalYield"`
	NetRentalYield     decimal.Decimal `json:"netRentalYield"`
	AnnualCashFlow     decimal.Decimal `json:"annualCashFlow"`
}
