package worker

import (
	"context"
	"time"
)

// QuoteFetcher ingests today's quotes into the price series.
type QuoteFetcher interface {
	FetchAndStoreQuotes(ctx context.Context) error
}

// QuoteWorker periodically ingests gold and currency quotes.
type QuoteWorker struct {
	fetcher  QuoteFetcher
	interval time.Duration
}

// NewQuoteWorker creates a new QuoteWorker.
func NewQuoteWorker(fetcher QuoteFetcher, interval time.Duration) *QuoteWorker {
	return &QuoteWorker{
		fetcher:  fetcher,
		interval: interval,
	}
}

// Run fetches immediately, then on every interval. It blocks until the context is cancelled.
func (w *QuoteWorker) Run(ctx context.Context) {
	runEvery(ctx, "QuoteWorker", w.interval, w.fetcher.FetchAndStoreQuotes)
}
