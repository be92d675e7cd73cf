package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
)

// ErrInvalidInput indicates a request failed validation.
var ErrInvalidInput = errors.New("invalid input")

// Valuer prices a gift.
type Valuer interface {
	Compute(ctx context.Context, in domain.ValuationInput) (decimal.Decimal, error)
}

// CreateDonorInput is the payload for adding a donor to a wedding.
type CreateDonorInput struct {
	Name        string `json:"name"`
	IsGroomSide bool   `json:"isGroomSide"`
	IsBrideSide bool   `json:"isBrideSide"`
}

// CreateAssetInput is the payload for recording a gift. DateReceived defaults to today.
type CreateAssetInput struct {
	DonorID      uuid.UUID        `json:"donorId"`
	Type         domain.AssetType `json:"type"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Grams        *decimal.Decimal `json:"grams,omitempty"`
	Carat        *int             `json:"carat,omitempty"`
	DateReceived *time.Time       `json:"dateReceived,omitempty"`
}

// Service manages weddings, donors and gifts.
type Service struct {
	repo   Repository
	valuer Valuer
	now    func() time.Time
}

// NewService creates a new ledger Service.
func NewService(repo Repository, valuer Valuer) *Service {
	return &Service{repo: repo, valuer: valuer, now: time.Now}
}

func (s *Service) CreateWedding(ctx context.Context, name string) (domain.Wedding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Wedding{}, fmt.Errorf("wedding name is required: %w", ErrInvalidInput)
	}

	w := domain.Wedding{ID: uuid.New(), Name: name, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateWedding(ctx, w); err != nil {
		return domain.Wedding{}, err
	}
	slog.Info("created wedding", "id", w.ID, "name", w.Name)
	return w, nil
}

func (s *Service) ListWeddings(ctx context.Context) ([]domain.Wedding, error) {
	return s.repo.ListWeddings(ctx)
}

func (s *Service) GetWedding(ctx context.Context, id uuid.UUID) (domain.Wedding, error) {
	return s.repo.GetWedding(ctx, id)
}

func (s *Service) CreateDonor(ctx context.Context, weddingID uuid.UUID, in CreateDonorInput) (domain.Donor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Donor{}, fmt.Errorf("donor name is required: %w", ErrInvalidInput)
	}
	if _, err := s.repo.GetWedding(ctx, weddingID); err != nil {
		return domain.Donor{}, err
	}

	d := domain.Donor{
		ID:          uuid.New(),
		WeddingID:   weddingID,
		Name:        name,
		IsGroomSide: in.IsGroomSide,
		IsBrideSide: in.IsBrideSide,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateDonor(ctx, d); err != nil {
		return domain.Donor{}, err
	}
	return d, nil
}

// ListDonors returns a wedding's donors ordered by name.
func (s *Service) ListDonors(ctx context.Context, weddingID uuid.UUID) ([]domain.Donor, error) {
	if _, err := s.repo.GetWedding(ctx, weddingID); err != nil {
		return nil, err
	}
	return s.repo.ListDonors(ctx, weddingID)
}

func (s *Service) GetDonor(ctx context.Context, id uuid.UUID) (domain.Donor, error) {
	return s.repo.GetDonor(ctx, id)
}

// DeleteDonor removes a donor together with their gifts.
func (s *Service) DeleteDonor(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDonor(ctx, id)
}

// CreateAsset validates a gift, values it once at its received date and stores it.
// The stored InitialValue is never recomputed.
func (s *Service) CreateAsset(ctx context.Context, weddingID uuid.UUID, in CreateAssetInput) (domain.Asset, error) {
	date := domain.CalendarDay(s.now())
	if in.DateReceived != nil && !in.DateReceived.IsZero() {
		date = domain.CalendarDay(*in.DateReceived)
	}

	vin := domain.ValuationInput{
		Type:     in.Type,
		Quantity: in.Quantity,
		Grams:    in.Grams,
		Carat:    in.Carat,
		Date:     date,
	}
	if err := Validate(vin); err != nil {
		return domain.Asset{}, err
	}

	donor, err := s.repo.GetDonor(ctx, in.DonorID)
	if err != nil {
		return domain.Asset{}, err
	}
	if donor.WeddingID != weddingID {
		return domain.Asset{}, fmt.Errorf("donor %s does not belong to wedding %s: %w", donor.ID, weddingID, ErrInvalidInput)
	}

	value, err := s.valuer.Compute(ctx, vin)
	if err != nil {
		return domain.Asset{}, err
	}

	a := domain.Asset{
		ID:           uuid.New(),
		WeddingID:    weddingID,
		DonorID:      donor.ID,
		Type:         in.Type,
		Quantity:     in.Quantity,
		Grams:        in.Grams,
		Carat:        in.Carat,
		InitialValue: value,
		DateReceived: date,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateAsset(ctx, a); err != nil {
		return domain.Asset{}, err
	}
	slog.Info("recorded gift",
		"asset", a.ID, "wedding", weddingID, "type", a.Type, "value", a.InitialValue.String())
	return a, nil
}

// ListAssets returns a wedding's gifts newest first. A non-nil donorID limits them to one donor.
func (s *Service) ListAssets(ctx context.Context, weddingID uuid.UUID, donorID *uuid.UUID) ([]domain.Asset, error) {
	if _, err := s.repo.GetWedding(ctx, weddingID); err != nil {
		return nil, err
	}
	return s.repo.ListAssets(ctx, weddingID, donorID)
}

func (s *Service) GetAsset(ctx context.Context, id uuid.UUID) (domain.Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAsset(ctx, id)
}
