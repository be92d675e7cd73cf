package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dugun/hediye/internal/domain"
)

// WeddingLister lists every wedding to snapshot.
type WeddingLister interface {
	ListWeddings(ctx context.Context) ([]domain.Wedding, error)
}

// SnapshotGenerator stores a wedding's portfolio summary for a day.
type SnapshotGenerator interface {
	Generate(ctx context.Context, weddingID uuid.UUID, date time.Time) (domain.PortfolioSummary, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, wedding domain.Wedding, summary domain.PortfolioSummary) error
}

// SnapshotWorker periodically snapshots the value of every wedding.
type SnapshotWorker struct {
	weddings  WeddingLister
	generator SnapshotGenerator
	interval  time.Duration
	hook      AfterSnapshotHook // optional
	today     func() time.Time
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional post-generation hook.
func NewSnapshotWorker(weddings WeddingLister, generator SnapshotGenerator, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		weddings:  weddings,
		generator: generator,
		interval:  interval,
		hook:      hook,
		today:     domain.Today,
	}
}

// Run snapshots immediately, then on every interval. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	runEvery(ctx, "SnapshotWorker", w.interval, w.SnapshotAll)
}

// SnapshotAll generates today's snapshot for every wedding. One wedding failing
// does not stop the others; the failures are returned joined.
func (w *SnapshotWorker) SnapshotAll(ctx context.Context) error {
	weddings, err := w.weddings.ListWeddings(ctx)
	if err != nil {
		return fmt.Errorf("listing weddings: %w", err)
	}

	date := w.today()
	var errs []error
	for _, wedding := range weddings {
		summary, err := w.generator.Generate(ctx, wedding.ID, date)
		if err != nil {
			errs = append(errs, fmt.Errorf("wedding %s: %w", wedding.ID, err))
			continue
		}
		w.runHook(ctx, wedding, summary)
	}
	return errors.Join(errs...)
}

// runHook calls the post-generation hook if one is configured.
func (w *SnapshotWorker) runHook(ctx context.Context, wedding domain.Wedding, summary domain.PortfolioSummary) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, wedding, summary); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "wedding", wedding.ID, "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed", "wedding", wedding.ID)
	}
}
