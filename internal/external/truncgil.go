package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTruncgilURL is the public Truncgil finance API.
const DefaultTruncgilURL = "https://finance.truncgil.com/api"

// Rate codes published by Truncgil.
const (
	RateGramGold    = "GRA"
	RateQuarterGold = "CEYREKALTIN"
	RateUSD         = "USD"
	RateEUR         = "EUR"
)

// Rate is one instrument's lira quote.
type Rate struct {
	Buying  decimal.Decimal `json:"Buying"`
	Selling decimal.Decimal `json:"Selling"`
}

type ratesResponse struct {
	UpdateDate string          `json:"Update_Date"`
	Rates      map[string]Rate `json:"Rates"`
}

// TruncgilClient fetches gold and currency rates from the Truncgil API.
type TruncgilClient struct {
	baseURL    string
	httpClient *http.Client
	delay      time.Duration
	maxRetries int
}

// NewTruncgilClient creates a new Truncgil API client. A negative maxRetries means no retries.
func NewTruncgilClient(baseURL string, delay time.Duration, maxRetries int) *TruncgilClient {
	return &TruncgilClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		delay:      delay,
		maxRetries: max(maxRetries, 0),
	}
}

// FetchRates returns the merged gold and currency rates keyed by Truncgil code.
func (c *TruncgilClient) FetchRates(ctx context.Context) (map[string]Rate, error) {
	rates := make(map[string]Rate)
	for _, path := range []string{"gold-rates", "currency-rates"} {
		body, err := c.fetchWithRetry(ctx, fmt.Sprintf("%s/%s", c.baseURL, path))
		if err != nil {
			return nil, err
		}

		var resp ratesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing Truncgil %s response: %w", path, err)
		}
		if resp.Rates == nil {
			return nil, fmt.Errorf("Truncgil %s response has no Rates", path)
		}
		for code, r := range resp.Rates {
			rates[code] = r
		}
	}
	return rates, nil
}

func (c *TruncgilClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.delay
			if baseDelay == 0 {
				baseDelay = 5 * time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating Truncgil request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("Truncgil request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading Truncgil response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("Truncgil HTTP %d (attempt %d/%d)", resp.StatusCode, attempt+1, c.maxRetries+1)
			continue
		}

		return nil, fmt.Errorf("Truncgil HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}
