package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/dugun/hediye/internal/config"
	"github.com/dugun/hediye/internal/database"
	"github.com/dugun/hediye/internal/export"
	"github.com/dugun/hediye/internal/external"
	"github.com/dugun/hediye/internal/ledger"
	"github.com/dugun/hediye/internal/portfolio"
	"github.com/dugun/hediye/internal/price"
	"github.com/dugun/hediye/internal/snapshot"
	"github.com/dugun/hediye/internal/valuation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	app := &cli.App{
		Name:   "hediye",
		Usage:  "wedding gift ledger with historical gold and currency valuation",
		Action: func(c *cli.Context) error { return serve(c.Context, cfg, stop) },
		Commands: []*cli.Command{
			serveCommand(cfg, stop),
			fetchQuotesCommand(cfg),
			valueCommand(cfg),
			exportCommand(cfg),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

// services is the wired application graph shared by every command.
type services struct {
	pool      *pgxpool.Pool
	prices    *price.Service
	engine    *valuation.Engine
	ledger    *ledger.Service
	portfolio *portfolio.Service
	snapshots *snapshot.Service
	exports   *export.Service
	quotes    *external.Service
	sheets    export.SheetWriter // nil unless Google Sheets is configured
}

// connect opens the database, applies migrations and wires the services.
func connect(ctx context.Context, cfg config.Config) (*services, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, database.Migrations()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &services{pool: pool}
	s.prices = price.NewService(price.NewPgRepository(pool), cfg.PriceCacheTTL)
	s.engine = valuation.NewEngine(s.prices, valuation.Options{Fallback: cfg.FallbackPrices})
	s.ledger = ledger.NewService(ledger.NewPgRepository(pool), s.engine)
	s.portfolio = portfolio.NewService(s.ledger, s.engine)
	s.snapshots = snapshot.NewService(s.portfolio, snapshot.NewPgRepository(pool))

	truncgil := external.NewTruncgilClient(cfg.TruncgilURL, cfg.TruncgilDelay, cfg.TruncgilRetryMax)
	s.quotes = external.NewService(truncgil, s.prices)

	if cfg.GoogleSheetsID != "" && cfg.GoogleCredentialsJSON != "" {
		sw, err := export.NewSheetsWriter(ctx, cfg.GoogleSheetsID, cfg.GoogleCredentialsJSON)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create Google Sheets writer: %w", err)
		}
		s.sheets = sw
	}
	s.exports = export.NewService(s.ledger, s.portfolio, s.sheets)

	return s, nil
}

func (s *services) close() {
	s.pool.Close()
}
