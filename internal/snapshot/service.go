package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
)

// Summarizer values a wedding's gifts at a date.
type Summarizer interface {
	Summarize(ctx context.Context, weddingID uuid.UUID, asOf time.Time) (domain.PortfolioSummary, error)
}

// Point is one day of a wedding's value history.
type Point struct {
	Date         time.Time       `json:"date"`
	InitialValue decimal.Decimal `json:"initialValue"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

// Service manages snapshot generation and retrieval.
type Service struct {
	portfolio Summarizer
	repo      Repository
}

// NewService creates a new SnapshotService.
func NewService(portfolio Summarizer, repo Repository) *Service {
	return &Service{portfolio: portfolio, repo: repo}
}

// Generate values the wedding at date and stores the summary, replacing that day's snapshot.
func (s *Service) Generate(ctx context.Context, weddingID uuid.UUID, date time.Time) (domain.PortfolioSummary, error) {
	date = domain.CalendarDay(date)

	summary, err := s.portfolio.Summarize(ctx, weddingID, date)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("summarizing wedding %s: %w", weddingID, err)
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("marshaling summary: %w", err)
	}

	if err := s.repo.Save(ctx, weddingID, date, data); err != nil {
		return domain.PortfolioSummary{}, fmt.Errorf("saving snapshot: %w", err)
	}

	return summary, nil
}

// GetLatest retrieves the most recent snapshot for the wedding.
func (s *Service) GetLatest(ctx context.Context, weddingID uuid.UUID) (*Snapshot, error) {
	return s.repo.GetLatest(ctx, weddingID)
}

// GetByDate retrieves a snapshot for a specific date.
func (s *Service) GetByDate(ctx context.Context, weddingID uuid.UUID, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, weddingID, domain.CalendarDay(date))
}

// List retrieves recent snapshots.
func (s *Service) List(ctx context.Context, weddingID uuid.UUID, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, weddingID, limit)
}

// History returns the stored totals of recent snapshots, oldest first, for charting.
func (s *Service) History(ctx context.Context, weddingID uuid.UUID, limit int) ([]Point, error) {
	snapshots, err := s.repo.List(ctx, weddingID, limit)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(snapshots))
	for _, snap := range snapshots {
		var summary domain.PortfolioSummary
		if err := json.Unmarshal(snap.Data, &summary); err != nil {
			return nil, fmt.Errorf("decoding snapshot %d: %w", snap.ID, err)
		}
		points = append(points, Point{
			Date:         snap.SnapshotDate,
			InitialValue: summary.InitialValue,
			CurrentValue: summary.CurrentValue,
		})
	}
	slices.Reverse(points)
	return lo.UniqBy(points, func(p Point) time.Time { return p.Date }), nil
}
