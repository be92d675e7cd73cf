package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Series identifies one historical price table.
type Series string

const (
	SeriesQuarterGold Series = "quarter_gold"
	SeriesGramGold    Series = "gram_gold"
	SeriesUSD         Series = "usd"
	SeriesEUR         Series = "eur"
)

var allSeries = []Series{SeriesQuarterGold, SeriesGramGold, SeriesUSD, SeriesEUR}

// AllSeries returns the known price series.
func AllSeries() []Series {
	return append([]Series(nil), allSeries...)
}

// ParseSeries validates a series identifier.
func ParseSeries(s string) (Series, error) {
	for _, known := range allSeries {
		if string(known) == s {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown price series %q", s)
}

// PriceQuote is one day's quote in a price series. Prices are in Turkish lira.
type PriceQuote struct {
	Series   Series          `json:"series"`
	Date     time.Time       `json:"date"`
	BidPrice decimal.Decimal `json:"bidPrice"`
	AskPrice decimal.Decimal `json:"askPrice"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// CalendarDay strips the time of day, keeping the date as seen in t's own location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date or an RFC 3339 timestamp into a calendar day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return CalendarDay(t), nil
}

// Today returns the current date normalized to midnight UTC.
func Today() time.Time {
	return CalendarDay(time.Now().UTC())
}
