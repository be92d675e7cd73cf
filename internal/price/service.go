package price

import (
	"context"
	"fmt"
	"time"

	"github.com/dugun/hediye/internal/domain"
)

const defaultCacheTTL = 30 * time.Second

// Service answers price lookups through a read-through cache.
// Only hits are cached, so a quote ingested after a NotFound is seen immediately.
type Service struct {
	repo  Repository
	cache *quoteCache
}

// NewService creates a new price Service. A non-positive ttl selects the default.
func NewService(repo Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		repo:  repo,
		cache: newQuoteCache(ttl),
	}
}

// FindPrice returns the quote for date or the most recent earlier one.
func (s *Service) FindPrice(ctx context.Context, series domain.Series, date time.Time) (domain.PriceQuote, error) {
	key := cacheKey(series, date)
	if cached, ok := s.cache.get(key); ok {
		return cached, nil
	}

	quote, err := s.repo.FindPrice(ctx, series, date)
	if err != nil {
		return domain.PriceQuote{}, err
	}

	s.cache.set(key, quote)
	return quote, nil
}

// Latest returns the most recent quote of a series as of today.
func (s *Service) Latest(ctx context.Context, series domain.Series) (domain.PriceQuote, error) {
	return s.FindPrice(ctx, series, domain.Today())
}

// SaveQuote stores a quote and drops cached lookups of its series.
func (s *Service) SaveQuote(ctx context.Context, quote domain.PriceQuote) error {
	if err := s.repo.SaveQuote(ctx, quote); err != nil {
		return err
	}
	s.cache.invalidate(quote.Series)
	return nil
}

// History returns a series between two dates, oldest first.
func (s *Service) History(ctx context.Context, series domain.Series, from, to time.Time) ([]domain.PriceQuote, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range: %s is before %s", to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	}
	return s.repo.ListQuotes(ctx, series, from, to)
}
