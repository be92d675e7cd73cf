package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const goldRatesJSON = `{
	"Update_Date": "2024-01-10 10:00:00",
	"Rates": {
		"GRA": {"Type": "Gold", "Buying": 2195.5, "Selling": 2201.25},
		"CEYREKALTIN": {"Type": "Gold", "Buying": 3590, "Selling": 3650}
	}
}`

const currencyRatesJSON = `{
	"Update_Date": "2024-01-10 10:00:00",
	"Rates": {
		"USD": {"Type": "Currency", "Buying": "30.0512", "Selling": "30.1234"},
		"EUR": {"Type": "Currency", "Buying": 32.9, "Selling": 33.05}
	}
}`

func newRatesServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/gold-rates":
			w.Write([]byte(goldRatesJSON))
		case "/currency-rates":
			w.Write([]byte(currencyRatesJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchRatesMergesGoldAndCurrency(t *testing.T) {
	server := newRatesServer(t)

	client := NewTruncgilClient(server.URL, 0, 1)
	rates, err := client.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		code    string
		buying  string
		selling string
	}{
		{RateGramGold, "2195.5", "2201.25"},
		{RateQuarterGold, "3590", "3650"},
		{RateUSD, "30.0512", "30.1234"},
		{RateEUR, "32.9", "33.05"},
	}
	for _, tt := range tests {
		r, ok := rates[tt.code]
		if !ok {
			t.Errorf("missing rate %s", tt.code)
			continue
		}
		if !r.Buying.Equal(decimal.RequireFromString(tt.buying)) {
			t.Errorf("%s Buying = %s, want %s", tt.code, r.Buying, tt.buying)
		}
		if !r.Selling.Equal(decimal.RequireFromString(tt.selling)) {
			t.Errorf("%s Selling = %s, want %s", tt.code, r.Selling, tt.selling)
		}
	}
}

func TestFetchRatesRetryOn429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if r.URL.Path == "/gold-rates" {
			w.Write([]byte(goldRatesJSON))
			return
		}
		w.Write([]byte(currencyRatesJSON))
	}))
	defer server.Close()

	client := NewTruncgilClient(server.URL, 10*time.Millisecond, 2)
	rates, err := client.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 4 {
		t.Errorf("got %d rates, want 4", len(rates))
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchRatesExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTruncgilClient(server.URL, 10*time.Millisecond, 1)
	if _, err := client.FetchRates(context.Background()); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
}

func TestFetchRatesClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("forbidden"))
	}))
	defer server.Close()

	client := NewTruncgilClient(server.URL, 10*time.Millisecond, 3)
	if _, err := client.FetchRates(context.Background()); err == nil {
		t.Fatal("expected error for 403")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchRatesMissingRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Meta": {}}`))
	}))
	defer server.Close()

	client := NewTruncgilClient(server.URL, 0, 0)
	if _, err := client.FetchRates(context.Background()); err == nil {
		t.Fatal("expected error for response without Rates")
	}
}

func TestFetchRatesContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewTruncgilClient(server.URL, time.Second, 3)
	if _, err := client.FetchRates(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFetchRatesNegativeRetriesStillRequestsOnce(t *testing.T) {
	server := newRatesServer(t)

	client := NewTruncgilClient(server.URL, 0, -3)
	rates, err := client.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rates[RateGramGold]; !ok {
		t.Errorf("rates = %v, want %s present", rates, RateGramGold)
	}
}
