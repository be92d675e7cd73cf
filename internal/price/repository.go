package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dugun/hediye/internal/domain"
)

// ErrPriceNotFound indicates that a series has no quote at or before the requested date.
var ErrPriceNotFound = errors.New("price not found")

// Repository stores append-only, date-keyed price series.
type Repository interface {
	// FindPrice returns the quote for date, or the most recent earlier quote.
	// It returns an error wrapping ErrPriceNotFound when neither exists.
	FindPrice(ctx context.Context, series domain.Series, date time.Time) (domain.PriceQuote, error)
	// SaveQuote inserts or replaces the quote for (series, date).
	SaveQuote(ctx context.Context, quote domain.PriceQuote) error
	// ListQuotes returns quotes with from <= date <= to, oldest first.
	ListQuotes(ctx context.Context, series domain.Series, from, to time.Time) ([]domain.PriceQuote, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL price repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// FindPrice runs a single indexed query: the exact day, if present, is the
// greatest price_date not after the requested day.
func (r *PgRepository) FindPrice(ctx context.Context, series domain.Series, date time.Time) (domain.PriceQuote, error) {
	day := domain.CalendarDay(date)

	var q domain.PriceQuote
	err := r.pool.QueryRow(ctx,
		`SELECT series, price_date, bid_price, ask_price
		 FROM price_quotes
		 WHERE series = $1 AND price_date <= $2
		 ORDER BY price_date DESC
		 LIMIT 1`, series, day).Scan(&q.Series, &q.Date, &q.BidPrice, &q.AskPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PriceQuote{}, notFound(series, day)
		}
		return domain.PriceQuote{}, fmt.Errorf("finding %s price for %s: %w", series, day.Format(domain.DateLayout), err)
	}
	return q, nil
}

func (r *PgRepository) SaveQuote(ctx context.Context, quote domain.PriceQuote) error {
	day := domain.CalendarDay(quote.Date)
	_, err := r.pool.Exec(ctx,
		`INSERT INTO price_quotes (series, price_date, bid_price, ask_price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (series, price_date)
		 DO UPDATE SET bid_price = $3, ask_price = $4, updated_at = NOW()`,
		quote.Series, day, quote.BidPrice, quote.AskPrice)
	if err != nil {
		return fmt.Errorf("saving %s quote for %s: %w", quote.Series, day.Format(domain.DateLayout), err)
	}
	return nil
}

func (r *PgRepository) ListQuotes(ctx context.Context, series domain.Series, from, to time.Time) ([]domain.PriceQuote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT series, price_date, bid_price, ask_price
		 FROM price_quotes
		 WHERE series = $1 AND price_date BETWEEN $2 AND $3
		 ORDER BY price_date`, series, domain.CalendarDay(from), domain.CalendarDay(to))
	if err != nil {
		return nil, fmt.Errorf("listing %s quotes: %w", series, err)
	}
	defer rows.Close()

	var quotes []domain.PriceQuote
	for rows.Next() {
		var q domain.PriceQuote
		if err := rows.Scan(&q.Series, &q.Date, &q.BidPrice, &q.AskPrice); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotes: %w", err)
	}
	return quotes, nil
}

func notFound(series domain.Series, day time.Time) error {
	return fmt.Errorf("%s on or before %s: %w", series, day.Format(domain.DateLayout), ErrPriceNotFound)
}
