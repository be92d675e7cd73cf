package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dugun/hediye/internal/domain"
)

// rateCodes maps each price series to the Truncgil code that feeds it.
var rateCodes = map[domain.Series]string{
	domain.SeriesQuarterGold: RateQuarterGold,
	domain.SeriesGramGold:    RateGramGold,
	domain.SeriesUSD:         RateUSD,
	domain.SeriesEUR:         RateEUR,
}

// RateFetcher returns current rates keyed by Truncgil code.
type RateFetcher interface {
	FetchRates(ctx context.Context) (map[string]Rate, error)
}

// QuoteSaver persists one day's quote of a series.
type QuoteSaver interface {
	SaveQuote(ctx context.Context, quote domain.PriceQuote) error
}

// Service ingests daily quotes into the price series.
type Service struct {
	fetcher RateFetcher
	saver   QuoteSaver
	now     func() time.Time
}

// NewService creates a new ingestion Service.
func NewService(fetcher RateFetcher, saver QuoteSaver) *Service {
	return &Service{
		fetcher: fetcher,
		saver:   saver,
		now:     time.Now,
	}
}

// FetchAndStoreQuotes fetches current rates and upserts today's quote for every series.
// A series missing from the response is skipped and reported after the others are stored.
func (s *Service) FetchAndStoreQuotes(ctx context.Context) error {
	rates, err := s.fetcher.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("fetching rates: %w", err)
	}

	day := domain.CalendarDay(s.now())
	var errs []error
	for _, series := range domain.AllSeries() {
		code := rateCodes[series]
		rate, ok := rates[code]
		if !ok || !rate.Buying.IsPositive() {
			slog.Warn("rate missing from response", "code", code, "series", series)
			errs = append(errs, fmt.Errorf("no %s rate for %s", code, series))
			continue
		}

		quote := domain.PriceQuote{
			Series:   series,
			Date:     day,
			BidPrice: rate.Buying,
			AskPrice: rate.Selling,
		}
		if err := s.saver.SaveQuote(ctx, quote); err != nil {
			return fmt.Errorf("storing %s quote: %w", series, err)
		}
		slog.Info("stored quote", "series", series, "date", day.Format(domain.DateLayout), "bid", rate.Buying.String())
	}

	return errors.Join(errs...)
}
