package price

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dugun/hediye/internal/domain"
)

type cacheEntry struct {
	quote     domain.PriceQuote
	expiresAt time.Time
}

type quoteCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	return &quoteCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// cacheKey formats: "{series}@{YYYY-MM-DD}" e.g. "gram_gold@2024-01-10"
func cacheKey(series domain.Series, date time.Time) string {
	return fmt.Sprintf("%s@%s", series, domain.CalendarDay(date).Format(domain.DateLayout))
}

func (c *quoteCache) get(key string) (domain.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return domain.PriceQuote{}, false
	}
	return entry.quote, true
}

func (c *quoteCache) set(key string, quote domain.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		quote:     quote,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// invalidate drops every cached lookup of one series so a fresh quote becomes visible.
func (c *quoteCache) invalidate(series domain.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := string(series) + "@"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
