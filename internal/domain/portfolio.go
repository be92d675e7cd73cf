package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetValue pairs a gift with its live value. Priced is false when no quote was available.
type AssetValue struct {
	AssetID      uuid.UUID       `json:"assetId"`
	Type         AssetType       `json:"type"`
	InitialValue decimal.Decimal `json:"initialValue"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	Priced       bool            `json:"priced"`
}

// TypeBreakdown aggregates the gifts of one asset type.
type TypeBreakdown struct {
	Type         AssetType       `json:"type"`
	Name         string          `json:"name"`
	Count        int             `json:"count"`
	Quantity     decimal.Decimal `json:"quantity"`
	Grams        decimal.Decimal `json:"grams"`
	InitialValue decimal.Decimal `json:"initialValue"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

// SideTotals aggregates the gifts given by one side of the family.
type SideTotals struct {
	Side         Side            `json:"side"`
	DonorCount   int             `json:"donorCount"`
	AssetCount   int             `json:"assetCount"`
	InitialValue decimal.Decimal `json:"initialValue"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

// PortfolioSummary is the valued state of a wedding's gifts at one date.
type PortfolioSummary struct {
	WeddingID        uuid.UUID       `json:"weddingId"`
	AsOf             time.Time       `json:"asOf"`
	InitialValue     decimal.Decimal `json:"initialValue"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	ChangeAmount     decimal.Decimal `json:"changeAmount"`
	ChangePercentage decimal.Decimal `json:"changePercentage"`
	IsProfit         bool            `json:"isProfit"`
	AssetCount       int             `json:"assetCount"`
	UnpricedAssets   int             `json:"unpricedAssets"`
	ByType           []TypeBreakdown `json:"byType"`
	BySide           []SideTotals    `json:"bySide"`
	Assets           []AssetValue    `json:"assets"`
}
