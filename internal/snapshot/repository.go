package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested snapshot was not found.
var ErrNotFound = errors.New("snapshot not found")

const defaultListLimit = 30

// Snapshot is a stored portfolio summary of one wedding on one day.
type Snapshot struct {
	ID           int             `json:"id"`
	WeddingID    uuid.UUID       `json:"weddingId"`
	SnapshotDate time.Time       `json:"snapshotDate"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for snapshots.
type Repository interface {
	// Save stores data for (weddingID, date), replacing an existing snapshot of that day.
	Save(ctx context.Context, weddingID uuid.UUID, date time.Time, data json.RawMessage) error
	GetLatest(ctx context.Context, weddingID uuid.UUID) (*Snapshot, error)
	GetByDate(ctx context.Context, weddingID uuid.UUID, date time.Time) (*Snapshot, error)
	// List returns up to limit snapshots, newest first.
	List(ctx context.Context, weddingID uuid.UUID, limit int) ([]Snapshot, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, weddingID uuid.UUID, date time.Time, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wedding_snapshots (wedding_id, snapshot_date, data)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (wedding_id, snapshot_date)
		 DO UPDATE SET data = $3::jsonb, created_at = NOW()`,
		weddingID, date, data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

const snapshotColumns = `id, wedding_id, snapshot_date, data, created_at`

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var s Snapshot
	err := row.Scan(&s.ID, &s.WeddingID, &s.SnapshotDate, &s.Data, &s.CreatedAt)
	return s, err
}

func (r *PgRepository) GetLatest(ctx context.Context, weddingID uuid.UUID) (*Snapshot, error) {
	s, err := scanSnapshot(r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+`
		 FROM wedding_snapshots
		 WHERE wedding_id = $1
		 ORDER BY snapshot_date DESC
		 LIMIT 1`, weddingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest snapshot: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) GetByDate(ctx context.Context, weddingID uuid.UUID, date time.Time) (*Snapshot, error) {
	s, err := scanSnapshot(r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+`
		 FROM wedding_snapshots
		 WHERE wedding_id = $1 AND snapshot_date = $2`, weddingID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting snapshot by date: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) List(ctx context.Context, weddingID uuid.UUID, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+`
		 FROM wedding_snapshots
		 WHERE wedding_id = $1
		 ORDER BY snapshot_date DESC
		 LIMIT $2`, weddingID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	snapshots, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Snapshot, error) {
		return scanSnapshot(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning snapshots: %w", err)
	}
	return snapshots, nil
}
