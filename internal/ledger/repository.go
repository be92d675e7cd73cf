package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dugun/hediye/internal/domain"
)

// ErrNotFound indicates the requested wedding, donor or asset does not exist.
var ErrNotFound = errors.New("not found")

// Repository stores weddings, donors and gifts.
type Repository interface {
	CreateWedding(ctx context.Context, w domain.Wedding) error
	ListWeddings(ctx context.Context) ([]domain.Wedding, error)
	GetWedding(ctx context.Context, id uuid.UUID) (domain.Wedding, error)

	CreateDonor(ctx context.Context, d domain.Donor) error
	ListDonors(ctx context.Context, weddingID uuid.UUID) ([]domain.Donor, error)
	GetDonor(ctx context.Context, id uuid.UUID) (domain.Donor, error)
	DeleteDonor(ctx context.Context, id uuid.UUID) error

	CreateAsset(ctx context.Context, a domain.Asset) error
	// ListAssets returns a wedding's gifts newest first, optionally for one donor.
	ListAssets(ctx context.Context, weddingID uuid.UUID, donorID *uuid.UUID) ([]domain.Asset, error)
	GetAsset(ctx context.Context, id uuid.UUID) (domain.Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL ledger repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) CreateWedding(ctx context.Context, w domain.Wedding) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO weddings (id, name, created_at) VALUES ($1, $2, $3)`,
		w.ID, w.Name, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting wedding: %w", err)
	}
	return nil
}

func (r *PgRepository) ListWeddings(ctx context.Context) ([]domain.Wedding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM weddings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing weddings: %w", err)
	}
	weddings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Wedding, error) {
		var w domain.Wedding
		err := row.Scan(&w.ID, &w.Name, &w.CreatedAt)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning weddings: %w", err)
	}
	return weddings, nil
}

func (r *PgRepository) GetWedding(ctx context.Context, id uuid.UUID) (domain.Wedding, error) {
	var w domain.Wedding
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM weddings WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.CreatedAt)
	if err != nil {
		return domain.Wedding{}, wrapNotFound(err, "wedding", id)
	}
	return w, nil
}

func (r *PgRepository) CreateDonor(ctx context.Context, d domain.Donor) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO donors (id, wedding_id, name, is_groom_side, is_bride_side, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.WeddingID, d.Name, d.IsGroomSide, d.IsBrideSide, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting donor: %w", err)
	}
	return nil
}

const donorColumns = `id, wedding_id, name, is_groom_side, is_bride_side, created_at`

func scanDonor(row pgx.Row) (domain.Donor, error) {
	var d domain.Donor
	err := row.Scan(&d.ID, &d.WeddingID, &d.Name, &d.IsGroomSide, &d.IsBrideSide, &d.CreatedAt)
	return d, err
}

func (r *PgRepository) ListDonors(ctx context.Context, weddingID uuid.UUID) ([]domain.Donor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE wedding_id = $1 ORDER BY name`, weddingID)
	if err != nil {
		return nil, fmt.Errorf("listing donors: %w", err)
	}
	donors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Donor, error) {
		return scanDonor(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning donors: %w", err)
	}
	return donors, nil
}

func (r *PgRepository) GetDonor(ctx context.Context, id uuid.UUID) (domain.Donor, error) {
	d, err := scanDonor(r.pool.QueryRow(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE id = $1`, id))
	if err != nil {
		return domain.Donor{}, wrapNotFound(err, "donor", id)
	}
	return d, nil
}

func (r *PgRepository) DeleteDonor(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM donors WHERE id = $1`, "donor", id)
}

func (r *PgRepository) CreateAsset(ctx context.Context, a domain.Asset) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO assets (id, wedding_id, donor_id, type, quantity, grams, carat,
		                     initial_value, date_received, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.WeddingID, a.DonorID, a.Type, a.Quantity, a.Grams, a.Carat,
		a.InitialValue, domain.CalendarDay(a.DateReceived), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting asset: %w", err)
	}
	return nil
}

const assetColumns = `id, wedding_id, donor_id, type, quantity, grams, carat,
	initial_value, date_received, created_at`

func scanAsset(row pgx.Row) (domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(&a.ID, &a.WeddingID, &a.DonorID, &a.Type, &a.Quantity, &a.Grams, &a.Carat,
		&a.InitialValue, &a.DateReceived, &a.CreatedAt)
	return a, err
}

func (r *PgRepository) ListAssets(ctx context.Context, weddingID uuid.UUID, donorID *uuid.UUID) ([]domain.Asset, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assetColumns+` FROM assets
		 WHERE wedding_id = $1 AND ($2::uuid IS NULL OR donor_id = $2)
		 ORDER BY created_at DESC, id`, weddingID, donorID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	assets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Asset, error) {
		return scanAsset(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning assets: %w", err)
	}
	return assets, nil
}

func (r *PgRepository) GetAsset(ctx context.Context, id uuid.UUID) (domain.Asset, error) {
	a, err := scanAsset(r.pool.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err != nil {
		return domain.Asset{}, wrapNotFound(err, "asset", id)
	}
	return a, nil
}

func (r *PgRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, `DELETE FROM assets WHERE id = $1`, "asset", id)
}

func (r *PgRepository) delete(ctx context.Context, sql, kind string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func wrapNotFound(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("getting %s %s: %w", kind, id, err)
}
