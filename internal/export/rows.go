package export

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
)

// Ledger is everything exported for one wedding.
type Ledger struct {
	Wedding domain.Wedding
	Donors  []domain.Donor
	Assets  []domain.Asset
	Summary domain.PortfolioSummary
}

var ledgerHeader = []any{
	"Donor", "Side", "Type", "Quantity", "Grams", "Carat",
	"Date Received", "Initial Value", "Current Value", "Priced",
}

var summaryHeader = []any{"Type", "Count", "Quantity", "Grams", "Initial Value", "Current Value"}

// BuildLedgerRows builds the GIFTS sheet: one header row, then one row per gift.
// Columns: Donor | Side | Type | Quantity | Grams | Carat | Date Received | Initial Value | Current Value | Priced
func BuildLedgerRows(l Ledger) [][]any {
	donors := lo.KeyBy(l.Donors, func(d domain.Donor) uuid.UUID { return d.ID })
	values := lo.KeyBy(l.Summary.Assets, func(v domain.AssetValue) uuid.UUID { return v.AssetID })

	data := make([][]any, 0, len(l.Assets)+1)
	data = append(data, ledgerHeader)

	for _, a := range l.Assets {
		donor := donors[a.DonorID]
		current, priced := a.InitialValue, false
		if v, ok := values[a.ID]; ok {
			current, priced = v.CurrentValue, v.Priced
		}

		data = append(data, []any{
			donor.Name,
			string(donor.Side()),
			a.Type.DisplayName(),
			optFloat(a.Quantity),
			optFloat(a.Grams),
			optInt(a.Carat),
			a.DateReceived.Format(domain.DateLayout),
			domain.MoneyFloat(a.InitialValue),
			domain.MoneyFloat(current),
			priced,
		})
	}

	return data
}

// BuildSummaryRows builds the SUMMARY sheet: per-type totals followed by a grand total.
func BuildSummaryRows(s domain.PortfolioSummary) [][]any {
	data := [][]any{summaryHeader}

	for _, t := range s.ByType {
		data = append(data, []any{
			t.Name,
			t.Count,
			toFloat(t.Quantity),
			toFloat(t.Grams),
			domain.MoneyFloat(t.InitialValue),
			domain.MoneyFloat(t.CurrentValue),
		})
	}

	data = append(data,
		[]any{"Total", s.AssetCount, "", "", domain.MoneyFloat(s.InitialValue), domain.MoneyFloat(s.CurrentValue)},
		[]any{"Change", "", "", "", "", domain.MoneyFloat(s.ChangeAmount)},
		[]any{"Change %", "", "", "", "", domain.MoneyFloat(s.ChangePercentage)},
		[]any{"As of", s.AsOf.Format(domain.DateLayout)},
	)
	return data
}

// historyRow is one line of the HISTORY sheet.
// Columns: Date | Wedding | Initial Value | Current Value | Change | Change %
func historyRow(l Ledger) []any {
	s := l.Summary
	return []any{
		s.AsOf.Format(domain.DateLayout),
		l.Wedding.Name,
		domain.MoneyFloat(s.InitialValue),
		domain.MoneyFloat(s.CurrentValue),
		domain.MoneyFloat(s.ChangeAmount),
		domain.MoneyFloat(s.ChangePercentage),
	}
}

var historyHeader = []any{"Date", "Wedding", "Initial Value", "Current Value", "Change", "Change %"}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func optFloat(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return toFloat(*d)
}

func optInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
