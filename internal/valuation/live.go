package valuation

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/price"
)

// ValueAt re-prices a stored gift at asOf through the same formulas used at creation.
func (e *Engine) ValueAt(ctx context.Context, asset domain.Asset, asOf time.Time) (decimal.Decimal, error) {
	return e.Compute(ctx, asset.ValuationInput().AtDate(asOf))
}

// LiveValue re-prices a gift at asOf. When no quote exists, it falls back to the
// frozen initial value and reports Priced=false; other errors are returned.
func (e *Engine) LiveValue(ctx context.Context, asset domain.Asset, asOf time.Time) (domain.AssetValue, error) {
	v := domain.AssetValue{
		AssetID:      asset.ID,
		Type:         asset.Type,
		InitialValue: asset.InitialValue,
		CurrentValue: asset.InitialValue,
	}

	current, err := e.ValueAt(ctx, asset, asOf)
	if err != nil {
		if errors.Is(err, price.ErrPriceNotFound) {
			return v, nil
		}
		return domain.AssetValue{}, err
	}

	v.CurrentValue = current
	v.Priced = true
	return v, nil
}
