package external

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/price"
)

type stubFetcher struct {
	rates map[string]Rate
	err   error
}

func (f stubFetcher) FetchRates(context.Context) (map[string]Rate, error) {
	return f.rates, f.err
}

func rate(buying, selling string) Rate {
	return Rate{Buying: decimal.RequireFromString(buying), Selling: decimal.RequireFromString(selling)}
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
}

func TestFetchAndStoreQuotes(t *testing.T) {
	repo := price.NewMemoryRepository()
	svc := NewService(stubFetcher{rates: map[string]Rate{
		RateGramGold:    rate("2195.5", "2201.25"),
		RateQuarterGold: rate("3590", "3650"),
		RateUSD:         rate("30.05", "30.12"),
		RateEUR:         rate("32.9", "33.05"),
		"GBP":           rate("38", "38.5"),
	}}, repo)
	svc.now = fixedNow

	if err := svc.FetchAndStoreQuotes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[domain.Series]string{
		domain.SeriesGramGold:    "2195.5",
		domain.SeriesQuarterGold: "3590",
		domain.SeriesUSD:         "30.05",
		domain.SeriesEUR:         "32.9",
	}
	for series, bid := range want {
		q, err := repo.FindPrice(context.Background(), series, fixedNow())
		if err != nil {
			t.Fatalf("%s: %v", series, err)
		}
		if !q.BidPrice.Equal(decimal.RequireFromString(bid)) {
			t.Errorf("%s bid = %s, want %s (Buying)", series, q.BidPrice, bid)
		}
		if !q.Date.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("%s date = %s, want 2024-01-10", series, q.Date)
		}
	}
}

func TestFetchAndStoreQuotesSameDayOverwrites(t *testing.T) {
	repo := price.NewMemoryRepository()
	svc := NewService(stubFetcher{rates: map[string]Rate{
		RateGramGold: rate("2000", "2010"), RateQuarterGold: rate("3000", "3050"),
		RateUSD: rate("30", "30.1"), RateEUR: rate("33", "33.1"),
	}}, repo)
	svc.now = fixedNow
	_ = svc.FetchAndStoreQuotes(context.Background())

	svc.fetcher = stubFetcher{rates: map[string]Rate{
		RateGramGold: rate("2100", "2110"), RateQuarterGold: rate("3000", "3050"),
		RateUSD: rate("30", "30.1"), RateEUR: rate("33", "33.1"),
	}}
	if err := svc.FetchAndStoreQuotes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	quotes, _ := repo.ListQuotes(context.Background(), domain.SeriesGramGold, fixedNow(), fixedNow())
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes for the day, want 1", len(quotes))
	}
	if !quotes[0].BidPrice.Equal(decimal.NewFromInt(2100)) {
		t.Errorf("bid = %s, want 2100", quotes[0].BidPrice)
	}
}

func TestFetchAndStoreQuotesPartialResponse(t *testing.T) {
	repo := price.NewMemoryRepository()
	svc := NewService(stubFetcher{rates: map[string]Rate{
		RateGramGold: rate("2195.5", "2201.25"),
	}}, repo)
	svc.now = fixedNow

	err := svc.FetchAndStoreQuotes(context.Background())
	if err == nil {
		t.Fatal("expected error for missing series")
	}

	if _, err := repo.FindPrice(context.Background(), domain.SeriesGramGold, fixedNow()); err != nil {
		t.Errorf("gram gold should still be stored: %v", err)
	}
	if _, err := repo.FindPrice(context.Background(), domain.SeriesUSD, fixedNow()); !errors.Is(err, price.ErrPriceNotFound) {
		t.Errorf("usd err = %v, want ErrPriceNotFound", err)
	}
}

func TestFetchAndStoreQuotesFetchError(t *testing.T) {
	repo := price.NewMemoryRepository()
	svc := NewService(stubFetcher{err: errors.New("timeout")}, repo)

	if err := svc.FetchAndStoreQuotes(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
