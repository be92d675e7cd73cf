package price

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dugun/hediye/internal/domain"
)

// MemoryRepository keeps price series in memory, sorted by date.
type MemoryRepository struct {
	mu     sync.RWMutex
	series map[domain.Series][]domain.PriceQuote
}

// NewMemoryRepository creates an empty in-memory repository seeded with quotes.
func NewMemoryRepository(quotes ...domain.PriceQuote) *MemoryRepository {
	r := &MemoryRepository{series: make(map[domain.Series][]domain.PriceQuote)}
	for _, q := range quotes {
		r.put(q)
	}
	return r
}

func (r *MemoryRepository) FindPrice(_ context.Context, series domain.Series, date time.Time) (domain.PriceQuote, error) {
	day := domain.CalendarDay(date)

	r.mu.RLock()
	defer r.mu.RUnlock()

	quotes := r.series[series]
	// index of the first quote strictly after day
	i := sort.Search(len(quotes), func(i int) bool {
		return quotes[i].Date.After(day)
	})
	if i == 0 {
		return domain.PriceQuote{}, notFound(series, day)
	}
	return quotes[i-1], nil
}

func (r *MemoryRepository) SaveQuote(_ context.Context, quote domain.PriceQuote) error {
	r.put(quote)
	return nil
}

func (r *MemoryRepository) ListQuotes(_ context.Context, series domain.Series, from, to time.Time) ([]domain.PriceQuote, error) {
	from, to = domain.CalendarDay(from), domain.CalendarDay(to)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.PriceQuote
	for _, q := range r.series[series] {
		if !q.Date.Before(from) && !q.Date.After(to) {
			result = append(result, q)
		}
	}
	return result, nil
}

func (r *MemoryRepository) put(quote domain.PriceQuote) {
	quote.Date = domain.CalendarDay(quote.Date)

	r.mu.Lock()
	defer r.mu.Unlock()

	quotes := r.series[quote.Series]
	i, found := slices.BinarySearchFunc(quotes, quote.Date, func(q domain.PriceQuote, d time.Time) int {
		return q.Date.Compare(d)
	})
	if found {
		quotes[i] = quote
		return
	}
	r.series[quote.Series] = slices.Insert(quotes, i, quote)
}
