package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/dugun/hediye/internal/api"
	"github.com/dugun/hediye/internal/config"
	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/ledger"
	"github.com/dugun/hediye/internal/price"
	"github.com/dugun/hediye/internal/valuation"
	"github.com/dugun/hediye/internal/worker"
)

func serveCommand(cfg config.Config, stop context.CancelFunc) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and background workers (default)",
		Action: func(c *cli.Context) error {
			return serve(c.Context, cfg, stop)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, stop context.CancelFunc) error {
	s, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	// Start workers
	quoteWorker := worker.NewQuoteWorker(s.quotes, cfg.QuoteWorkerInterval)
	go quoteWorker.Run(ctx)

	var hook worker.AfterSnapshotHook
	if s.sheets != nil {
		hook = s.exports
	} else {
		slog.Info("Google Sheets not configured, snapshot export disabled")
	}
	snapshotWorker := worker.NewSnapshotWorker(s.ledger, s.snapshots, cfg.SnapshotWorkerInterval, hook)
	go snapshotWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, mutating endpoints are unprotected")
	}

	// Start HTTP server
	handler := api.NewHandler(api.Services{
		Ledger:    s.ledger,
		Portfolio: s.portfolio,
		Snapshots: s.snapshots,
		Exports:   s.exports,
		Engine:    s.engine,
		Prices:    s.prices,
	})
	srv := api.NewServer(cfg.HTTPPort, handler, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func fetchQuotesCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "fetch-quotes",
		Usage: "fetch today's gold and currency quotes once and store them",
		Action: func(c *cli.Context) error {
			s, err := connect(c.Context, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			return s.quotes.FetchAndStoreQuotes(c.Context)
		},
	}
}

func valueCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "value",
		Usage: "value a single gift at a date using stored quotes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "asset type, e.g. CEYREK_ALTIN", Required: true},
			&cli.StringFlag{Name: "date", Usage: "date received (YYYY-MM-DD), default today"},
			&cli.StringFlag{Name: "quantity", Usage: "count of coins or currency amount"},
			&cli.StringFlag{Name: "grams", Usage: "weight in grams"},
			&cli.IntFlag{Name: "carat", Usage: "purity in karats (24, 22, 18, 14)"},
			&cli.StringFlag{Name: "offline", Usage: "value against a series,date,bid,ask CSV instead of the database"},
		},
		Action: func(c *cli.Context) error {
			in, err := valuationInput(c)
			if err != nil {
				return err
			}
			if err := ledger.Validate(in); err != nil {
				return err
			}

			engine, closeFn, err := valueEngine(c, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			value, err := engine.Compute(c.Context, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s\t%s\t%s TRY\n",
				in.Type.DisplayName(), in.Date.Format(domain.DateLayout), domain.RoundMoney(value).StringFixed(2))
			return nil
		},
	}
}

// valueEngine builds an engine over the database, or over a quotes CSV with --offline.
func valueEngine(c *cli.Context, cfg config.Config) (*valuation.Engine, func(), error) {
	opts := valuation.Options{Fallback: cfg.FallbackPrices}
	if path := c.String("offline"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening quotes file: %w", err)
		}
		defer f.Close()

		quotes, err := price.LoadQuotesCSV(f)
		if err != nil {
			return nil, nil, err
		}
		return valuation.NewEngine(price.NewMemoryRepository(quotes...), opts), func() {}, nil
	}

	s, err := connect(c.Context, cfg)
	if err != nil {
		return nil, nil, err
	}
	return s.engine, s.close, nil
}

func valuationInput(c *cli.Context) (domain.ValuationInput, error) {
	t, err := domain.ParseAssetType(c.String("type"))
	if err != nil {
		return domain.ValuationInput{}, err
	}
	in := domain.ValuationInput{Type: t, Date: domain.Today()}

	if s := c.String("date"); s != "" {
		if in.Date, err = domain.ParseDate(s); err != nil {
			return domain.ValuationInput{}, err
		}
	}
	if in.Quantity, err = decimalFlag(c, "quantity"); err != nil {
		return domain.ValuationInput{}, err
	}
	if in.Grams, err = decimalFlag(c, "grams"); err != nil {
		return domain.ValuationInput{}, err
	}
	if c.IsSet("carat") {
		carat := c.Int("carat")
		in.Carat = &carat
	}
	return in, nil
}

func decimalFlag(c *cli.Context, name string) (*decimal.Decimal, error) {
	if !c.IsSet(name) {
		return nil, nil
	}
	d, err := decimal.NewFromString(c.String(name))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &d, nil
}

func exportCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a wedding's gift ledger to an .xlsx file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "wedding", Usage: "wedding ID", Required: true},
			&cli.StringFlag{Name: "date", Usage: "valuation date (YYYY-MM-DD), default today"},
			&cli.StringFlag{Name: "out", Usage: "output file", Value: "hediye.xlsx"},
			&cli.BoolFlag{Name: "sheets", Usage: "also push the ledger to the configured Google Sheet"},
		},
		Action: func(c *cli.Context) error {
			weddingID, err := uuid.Parse(c.String("wedding"))
			if err != nil {
				return fmt.Errorf("invalid --wedding: %w", err)
			}
			asOf := domain.Today()
			if s := c.String("date"); s != "" {
				if asOf, err = domain.ParseDate(s); err != nil {
					return err
				}
			}

			s, err := connect(c.Context, cfg)
			if err != nil {
				return err
			}
			defer s.close()

			err = writeFile(c.String("out"), func(w io.Writer) error {
				return s.exports.WriteXLSX(c.Context, w, weddingID, asOf)
			})
			if err != nil {
				return err
			}
			slog.Info("ledger exported", "wedding", weddingID, "file", c.String("out"))

			if !c.Bool("sheets") {
				return nil
			}
			if s.sheets == nil {
				return errors.New("GOOGLE_SHEETS_ID and GOOGLE_CREDENTIALS_JSON must be set for --sheets")
			}
			wedding, err := s.ledger.GetWedding(c.Context, weddingID)
			if err != nil {
				return err
			}
			summary, err := s.portfolio.Summarize(c.Context, weddingID, asOf)
			if err != nil {
				return err
			}
			return s.exports.Export(c.Context, wedding, summary)
		},
	}
}

// writeFile creates path and fills it with write. A failed write or close removes the file.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
