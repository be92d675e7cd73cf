package price

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
)

func TestLoadQuotesCSV(t *testing.T) {
	input := `series,date,bid,ask
# quarter gold
quarter_gold,2024-01-01,3500,3550
gram_gold, 2024-01-01, 2000
usd,2024-01-02,30.12,
`
	quotes, err := LoadQuotesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("len = %d, want 3", len(quotes))
	}
	if !quotes[0].AskPrice.Equal(decimal.NewFromInt(3550)) {
		t.Errorf("ask = %s, want 3550", quotes[0].AskPrice)
	}
	if !quotes[1].AskPrice.Equal(quotes[1].BidPrice) {
		t.Errorf("blank ask should copy bid, got %s", quotes[1].AskPrice)
	}
	if quotes[2].Series != domain.SeriesUSD || !quotes[2].Date.Equal(day("2024-01-02")) {
		t.Errorf("third quote = %+v", quotes[2])
	}

	repo := NewMemoryRepository(quotes...)
	got, err := repo.FindPrice(context.Background(), domain.SeriesQuarterGold, day("2024-03-01"))
	if err != nil || !got.BidPrice.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("FindPrice = %+v, %v", got, err)
	}
}

func TestLoadQuotesCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown series", "silver,2024-01-01,30\n"},
		{"bad date", "usd,01/02/2024,30\n"},
		{"bad bid", "usd,2024-01-01,abc\n"},
		{"bad ask", "usd,2024-01-01,30,x\n"},
		{"too few fields", "usd,2024-01-01\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadQuotesCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
