package price

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
)

// LoadQuotesCSV reads "series,date,bid,ask" rows. A header row and blank ask
// columns are allowed; a blank ask copies the bid.
func LoadQuotesCSV(r io.Reader) ([]domain.PriceQuote, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var quotes []domain.PriceQuote
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading quotes: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "series") {
			continue
		}
		q, err := parseQuoteRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func parseQuoteRecord(rec []string) (domain.PriceQuote, error) {
	if len(rec) < 3 || len(rec) > 4 {
		return domain.PriceQuote{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(rec))
	}
	series, err := domain.ParseSeries(strings.TrimSpace(rec[0]))
	if err != nil {
		return domain.PriceQuote{}, err
	}
	date, err := domain.ParseDate(strings.TrimSpace(rec[1]))
	if err != nil {
		return domain.PriceQuote{}, err
	}
	bid, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("invalid bid %q: %w", rec[2], err)
	}
	ask := bid
	if len(rec) == 4 && strings.TrimSpace(rec[3]) != "" {
		if ask, err = decimal.NewFromString(strings.TrimSpace(rec[3])); err != nil {
			return domain.PriceQuote{}, fmt.Errorf("invalid ask %q: %w", rec[3], err)
		}
	}
	return domain.PriceQuote{Series: series, Date: date, BidPrice: bid, AskPrice: ask}, nil
}
