package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationInput carries everything needed to price one gift.
// Nil pointers mean the field was not supplied.
type ValuationInput struct {
	Type     AssetType        `json:"type"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Grams    *decimal.Decimal `json:"grams,omitempty"`
	Carat    *int             `json:"carat,omitempty"`
	Date     time.Time        `json:"dateReceived"`
}

// QuantityOrDefault returns the supplied quantity, or 1 when absent.
func (in ValuationInput) QuantityOrDefault() decimal.Decimal {
	if in.Quantity == nil {
		return decimal.NewFromInt(1)
	}
	return *in.Quantity
}

// HasWeight reports whether both a positive weight and a carat were supplied.
func (in ValuationInput) HasWeight() bool {
	return in.Grams != nil && in.Grams.IsPositive() && in.Carat != nil && *in.Carat != 0
}

// AtDate returns a copy of the input priced at another date.
func (in ValuationInput) AtDate(date time.Time) ValuationInput {
	in.Date = date
	return in
}
