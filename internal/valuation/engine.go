package valuation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/price"
)

// ErrMissingDate indicates a date-sensitive asset type was valued without a date.
var ErrMissingDate = errors.New("date received is required")

// PriceFinder looks up the quote for a date or the most recent earlier one.
type PriceFinder interface {
	FindPrice(ctx context.Context, series domain.Series, date time.Time) (domain.PriceQuote, error)
}

// Coin multipliers against the quarter-gold quote.
var (
	oneCoin           = decimal.NewFromInt(1)
	halfGoldCoins     = decimal.NewFromInt(2)
	fullGoldCoins     = decimal.NewFromInt(4)
	besiBirYerdeCoins = decimal.NewFromInt(20)
)

// Gram-based coins: gold content in grams times the workmanship premium.
var (
	resatGrams        = decimal.RequireFromString("6.60")
	resatPremium      = decimal.RequireFromString("1.025")
	cumhuriyetGrams   = decimal.RequireFromString("6.614")
	cumhuriyetPremium = decimal.RequireFromString("1.045")
)

const gramGold22KCarat = 22

var purityFactors = map[int]decimal.Decimal{
	24: decimal.NewFromInt(1),
	22: decimal.RequireFromString("0.92"),
	18: decimal.RequireFromString("0.75"),
	14: decimal.RequireFromString("0.58"),
}

var defaultPurity = purityFactors[18]

// AdjustForPurity scales a 24K per-gram value to the given carat.
// Unrecognized carats are treated as 18K.
func AdjustForPurity(carat int, base24K decimal.Decimal) decimal.Decimal {
	factor, ok := purityFactors[carat]
	if !ok {
		factor = defaultPurity
	}
	return base24K.Mul(factor)
}

// Options configures an Engine.
type Options struct {
	// Fallback holds per-series prices used when a lookup finds no quote.
	// Empty means every missing quote fails the valuation.
	Fallback map[domain.Series]decimal.Decimal
}

// Engine computes the lira value of a gift from historical price series.
type Engine struct {
	prices   PriceFinder
	fallback map[domain.Series]decimal.Decimal
}

// NewEngine creates a new valuation Engine.
func NewEngine(prices PriceFinder, opts Options) *Engine {
	fallback := make(map[domain.Series]decimal.Decimal, len(opts.Fallback))
	for series, p := range opts.Fallback {
		fallback[series] = p
	}
	return &Engine{prices: prices, fallback: fallback}
}

// Compute returns the value of in at in.Date. A coin gift is one coin whatever its
// quantity; only currency values scale by quantity. Weight-based gold without grams
// or carat is worth zero; unknown types are worth zero.
func (e *Engine) Compute(ctx context.Context, in domain.ValuationInput) (decimal.Decimal, error) {
	if in.Type.DateSensitive() && in.Date.IsZero() {
		return decimal.Zero, fmt.Errorf("valuing %s: %w", in.Type, ErrMissingDate)
	}

	switch in.Type {
	case domain.AssetTypeQuarterGold:
		return e.coin(ctx, in, domain.SeriesQuarterGold, oneCoin)
	case domain.AssetTypeHalfGold:
		return e.coin(ctx, in, domain.SeriesQuarterGold, halfGoldCoins)
	case domain.AssetTypeFullGold:
		return e.coin(ctx, in, domain.SeriesQuarterGold, fullGoldCoins)
	case domain.AssetTypeBesiBirYerde:
		return e.coin(ctx, in, domain.SeriesQuarterGold, besiBirYerdeCoins)
	case domain.AssetTypeResat:
		return e.coin(ctx, in, domain.SeriesGramGold, resatGrams.Mul(resatPremium))
	case domain.AssetTypeCumhuriyet:
		return e.coin(ctx, in, domain.SeriesGramGold, cumhuriyetGrams.Mul(cumhuriyetPremium))

	case domain.AssetTypeGramGold22K:
		if in.Grams == nil || !in.Grams.IsPositive() {
			return decimal.Zero, nil
		}
		return e.weight(ctx, in, *in.Grams, gramGold22KCarat)
	case domain.AssetTypeBracelet, domain.AssetTypeGramGold:
		if !in.HasWeight() {
			return decimal.Zero, nil
		}
		return e.weight(ctx, in, *in.Grams, *in.Carat)

	case domain.AssetTypeTurkishLira:
		return in.QuantityOrDefault(), nil
	case domain.AssetTypeDollar:
		return e.coin(ctx, in, domain.SeriesUSD, in.QuantityOrDefault())
	case domain.AssetTypeEuro:
		return e.coin(ctx, in, domain.SeriesEUR, in.QuantityOrDefault())
	}

	slog.Warn("valuing unknown asset type", "type", in.Type)
	return decimal.Zero, nil
}

// coin prices units × series bid price.
func (e *Engine) coin(ctx context.Context, in domain.ValuationInput, series domain.Series, units decimal.Decimal) (decimal.Decimal, error) {
	p, err := e.seriesPrice(ctx, series, in.Date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valuing %s: %w", in.Type, err)
	}
	return units.Mul(p), nil
}

func (e *Engine) weight(ctx context.Context, in domain.ValuationInput, grams decimal.Decimal, carat int) (decimal.Decimal, error) {
	p, err := e.seriesPrice(ctx, domain.SeriesGramGold, in.Date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valuing %s: %w", in.Type, err)
	}
	return grams.Mul(AdjustForPurity(carat, p)), nil
}

// seriesPrice is the only place a missing quote is resolved.
func (e *Engine) seriesPrice(ctx context.Context, series domain.Series, date time.Time) (decimal.Decimal, error) {
	quote, err := e.prices.FindPrice(ctx, series, domain.CalendarDay(date))
	if err == nil {
		return quote.BidPrice, nil
	}
	if !errors.Is(err, price.ErrPriceNotFound) {
		return decimal.Zero, err
	}
	if p, ok := e.fallback[series]; ok {
		slog.Warn("using configured fallback price",
			"series", series, "date", date.Format(domain.DateLayout), "price", p.String())
		return p, nil
	}
	return decimal.Zero, err
}
