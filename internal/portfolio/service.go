package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
)

// LedgerReader defines the subset of the ledger used to build summaries.
type LedgerReader interface {
	GetWedding(ctx context.Context, id uuid.UUID) (domain.Wedding, error)
	ListDonors(ctx context.Context, weddingID uuid.UUID) ([]domain.Donor, error)
	ListAssets(ctx context.Context, weddingID uuid.UUID, donorID *uuid.UUID) ([]domain.Asset, error)
}

// LiveValuer re-prices a stored gift at another date.
type LiveValuer interface {
	LiveValue(ctx context.Context, asset domain.Asset, asOf time.Time) (domain.AssetValue, error)
}

// Service computes the current value of a wedding's gifts.
type Service struct {
	ledger LedgerReader
	valuer LiveValuer
}

// NewService creates a new PortfolioService.
func NewService(ledger LedgerReader, valuer LiveValuer) *Service {
	return &Service{ledger: ledger, valuer: valuer}
}

var sideOrder = []domain.Side{domain.SideGroom, domain.SideBride, domain.SideBoth, domain.SideUnspecified}

// Summarize values every gift of a wedding at asOf and aggregates by type and by side.
// Gifts without a live quote keep their initial value and are counted in UnpricedAssets.
func (s *Service) Summarize(ctx context.Context, weddingID uuid.UUID, asOf time.Time) (domain.PortfolioSummary, error) {
	if _, err := s.ledger.GetWedding(ctx, weddingID); err != nil {
		return domain.PortfolioSummary{}, err
	}
	donors, err := s.ledger.ListDonors(ctx, weddingID)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("listing donors: %w", err)
	}
	assets, err := s.ledger.ListAssets(ctx, weddingID, nil)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("listing assets: %w", err)
	}

	asOf = domain.CalendarDay(asOf)
	values := make([]domain.AssetValue, 0, len(assets))
	for _, a := range assets {
		v, err := s.valuer.LiveValue(ctx, a, asOf)
		if err != nil {
			return domain.PortfolioSummary{}, fmt.Errorf("valuing asset %s: %w", a.ID, err)
		}
		values = append(values, v)
	}

	initial := lo.Reduce(values, func(acc decimal.Decimal, v domain.AssetValue, _ int) decimal.Decimal {
		return acc.Add(v.InitialValue)
	}, decimal.Zero)
	current := lo.Reduce(values, func(acc decimal.Decimal, v domain.AssetValue, _ int) decimal.Decimal {
		return acc.Add(v.CurrentValue)
	}, decimal.Zero)
	change := current.Sub(initial)

	return domain.PortfolioSummary{
		WeddingID:        weddingID,
		AsOf:             asOf,
		InitialValue:     initial,
		CurrentValue:     current,
		ChangeAmount:     change,
		ChangePercentage: domain.PercentChange(initial, current),
		IsProfit:         !change.IsNegative(),
		AssetCount:       len(values),
		UnpricedAssets:   lo.CountBy(values, func(v domain.AssetValue) bool { return !v.Priced }),
		ByType:           byType(assets, values),
		BySide:           bySide(donors, assets, values),
		Assets:           values,
	}, nil
}

func byType(assets []domain.Asset, values []domain.AssetValue) []domain.TypeBreakdown {
	groups := make(map[domain.AssetType]*domain.TypeBreakdown)
	for i, a := range assets {
		g, ok := groups[a.Type]
		if !ok {
			g = &domain.TypeBreakdown{Type: a.Type, Name: a.Type.DisplayName()}
			groups[a.Type] = g
		}
		g.Count++
		if a.Quantity != nil {
			g.Quantity = g.Quantity.Add(*a.Quantity)
		} else if a.Type.Family() == domain.FamilyGoldCoin {
			g.Quantity = g.Quantity.Add(decimal.NewFromInt(1))
		}
		if a.Grams != nil {
			g.Grams = g.Grams.Add(*a.Grams)
		}
		g.InitialValue = g.InitialValue.Add(values[i].InitialValue)
		g.CurrentValue = g.CurrentValue.Add(values[i].CurrentValue)
	}

	known := lo.FilterMap(domain.AssetTypes(), func(t domain.AssetType, _ int) (domain.TypeBreakdown, bool) {
		g, ok := groups[t]
		if !ok {
			return domain.TypeBreakdown{}, false
		}
		delete(groups, t)
		return *g, true
	})
	// Types outside the enumeration go last, in a stable order.
	for _, t := range lo.Uniq(lo.Map(assets, func(a domain.Asset, _ int) domain.AssetType { return a.Type })) {
		if g, ok := groups[t]; ok {
			known = append(known, *g)
		}
	}
	return known
}

func bySide(donors []domain.Donor, assets []domain.Asset, values []domain.AssetValue) []domain.SideTotals {
	sideOf := lo.SliceToMap(donors, func(d domain.Donor) (uuid.UUID, domain.Side) {
		return d.ID, d.Side()
	})
	totals := make(map[domain.Side]*domain.SideTotals, len(sideOrder))
	for _, side := range sideOrder {
		totals[side] = &domain.SideTotals{Side: side}
	}

	for _, d := range donors {
		totals[d.Side()].DonorCount++
	}
	for i, a := range assets {
		side, ok := sideOf[a.DonorID]
		if !ok {
			side = domain.SideUnspecified
		}
		t := totals[side]
		t.AssetCount++
		t.InitialValue = t.InitialValue.Add(values[i].InitialValue)
		t.CurrentValue = t.CurrentValue.Add(values[i].CurrentValue)
	}

	return lo.FilterMap(sideOrder, func(side domain.Side, _ int) (domain.SideTotals, bool) {
		t := totals[side]
		return *t, t.DonorCount > 0 || t.AssetCount > 0
	})
}
