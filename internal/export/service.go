package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dugun/hediye/internal/domain"
)

// LedgerReader defines the subset of the ledger used by exports.
type LedgerReader interface {
	GetWedding(ctx context.Context, id uuid.UUID) (domain.Wedding, error)
	ListDonors(ctx context.Context, weddingID uuid.UUID) ([]domain.Donor, error)
	ListAssets(ctx context.Context, weddingID uuid.UUID, donorID *uuid.UUID) ([]domain.Asset, error)
}

// Summarizer values a wedding's gifts at a date.
type Summarizer interface {
	Summarize(ctx context.Context, weddingID uuid.UUID, asOf time.Time) (domain.PortfolioSummary, error)
}

// SheetWriter writes ledgers to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, l Ledger) error
	AppendHistory(ctx context.Context, l Ledger) error
}

// Service assembles ledgers and hands them to writers.
type Service struct {
	ledger    LedgerReader
	portfolio Summarizer
	writer    SheetWriter // optional
}

// NewService creates a new export Service. writer may be nil when only file exports are used.
func NewService(ledger LedgerReader, portfolio Summarizer, writer SheetWriter) *Service {
	return &Service{ledger: ledger, portfolio: portfolio, writer: writer}
}

// Load collects a wedding's donors and gifts valued at asOf.
func (s *Service) Load(ctx context.Context, weddingID uuid.UUID, asOf time.Time) (Ledger, error) {
	wedding, err := s.ledger.GetWedding(ctx, weddingID)
	if err != nil {
		return Ledger{}, err
	}
	summary, err := s.portfolio.Summarize(ctx, weddingID, asOf)
	if err != nil {
		return Ledger{}, fmt.Errorf("summarizing wedding: %w", err)
	}
	return s.withDetails(ctx, wedding, summary)
}

func (s *Service) withDetails(ctx context.Context, wedding domain.Wedding, summary domain.PortfolioSummary) (Ledger, error) {
	donors, err := s.ledger.ListDonors(ctx, wedding.ID)
	if err != nil {
		return Ledger{}, fmt.Errorf("listing donors: %w", err)
	}
	assets, err := s.ledger.ListAssets(ctx, wedding.ID, nil)
	if err != nil {
		return Ledger{}, fmt.Errorf("listing assets: %w", err)
	}
	return Ledger{Wedding: wedding, Donors: donors, Assets: assets, Summary: summary}, nil
}

// WriteXLSX writes a wedding's workbook valued at asOf.
func (s *Service) WriteXLSX(ctx context.Context, w io.Writer, weddingID uuid.UUID, asOf time.Time) error {
	l, err := s.Load(ctx, weddingID, asOf)
	if err != nil {
		return err
	}
	return WriteXLSX(w, l)
}

// Export writes a freshly generated snapshot to the spreadsheet.
// Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, wedding domain.Wedding, summary domain.PortfolioSummary) error {
	if s.writer == nil {
		return nil
	}

	l, err := s.withDetails(ctx, wedding, summary)
	if err != nil {
		return err
	}
	if err := s.writer.Write(ctx, l); err != nil {
		return fmt.Errorf("writing ledger sheet: %w", err)
	}
	if err := s.writer.AppendHistory(ctx, l); err != nil {
		slog.Warn("export: history row not appended", "wedding", wedding.ID, "error", err)
	}
	return nil
}
