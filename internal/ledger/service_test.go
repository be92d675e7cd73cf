package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/price"
)

// MockRepository is a mock implementation of Repository for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWedding(ctx context.Context, w domain.Wedding) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockRepository) ListWeddings(ctx context.Context) ([]domain.Wedding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wedding), args.Error(1)
}

func (m *MockRepository) GetWedding(ctx context.Context, id uuid.UUID) (domain.Wedding, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Wedding), args.Error(1)
}

func (m *MockRepository) CreateDonor(ctx context.Context, d domain.Donor) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockRepository) ListDonors(ctx context.Context, weddingID uuid.UUID) ([]domain.Donor, error) {
	args := m.Called(ctx, weddingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donor), args.Error(1)
}

func (m *MockRepository) GetDonor(ctx context.Context, id uuid.UUID) (domain.Donor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Donor), args.Error(1)
}

func (m *MockRepository) DeleteDonor(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CreateAsset(ctx context.Context, a domain.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockRepository) ListAssets(ctx context.Context, weddingID uuid.UUID, donorID *uuid.UUID) ([]domain.Asset, error) {
	args := m.Called(ctx, weddingID, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockRepository) GetAsset(ctx context.Context, id uuid.UUID) (domain.Asset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Asset), args.Error(1)
}

func (m *MockRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockValuer is a mock implementation of Valuer for testing
type MockValuer struct {
	mock.Mock
}

func (m *MockValuer) Compute(ctx context.Context, in domain.ValuationInput) (decimal.Decimal, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var fixedNow = time.Date(2024, 1, 11, 18, 45, 0, 0, time.UTC)

func newTestService(repo *MockRepository, valuer *MockValuer) *Service {
	svc := NewService(repo, valuer)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateWedding(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockValuer))

	repo.On("CreateWedding", ctx, mock.MatchedBy(func(w domain.Wedding) bool {
		return w.Name == "Ayşe & Mehmet" && w.ID != uuid.Nil
	})).Return(nil)

	w, err := svc.CreateWedding(ctx, "  Ayşe & Mehmet ")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe & Mehmet", w.Name)
	assert.Equal(t, fixedNow, w.CreatedAt)
	repo.AssertExpectations(t)
}

func TestCreateWedding_EmptyName(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockValuer))

	_, err := svc.CreateWedding(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "CreateWedding", mock.Anything, mock.Anything)
}

func TestCreateDonor_UnknownWedding(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockValuer))
	weddingID := uuid.New()

	repo.On("GetWedding", ctx, weddingID).Return(domain.Wedding{}, ErrNotFound)

	_, err := svc.CreateDonor(ctx, weddingID, CreateDonorInput{Name: "Fatma Teyze"})
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertNotCalled(t, "CreateDonor", mock.Anything, mock.Anything)
}

func TestCreateDonor(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockValuer))
	weddingID := uuid.New()

	repo.On("GetWedding", ctx, weddingID).Return(domain.Wedding{ID: weddingID}, nil)
	repo.On("CreateDonor", ctx, mock.AnythingOfType("domain.Donor")).Return(nil)

	d, err := svc.CreateDonor(ctx, weddingID, CreateDonorInput{Name: "Fatma Teyze", IsBrideSide: true})
	require.NoError(t, err)
	assert.Equal(t, weddingID, d.WeddingID)
	assert.Equal(t, domain.SideBride, d.Side())
	repo.AssertExpectations(t)
}

func TestCreateAsset_FreezesEngineValue(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	valuer := new(MockValuer)
	svc := newTestService(repo, valuer)

	weddingID := uuid.New()
	donorID := uuid.New()
	received := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	repo.On("GetDonor", ctx, donorID).Return(domain.Donor{ID: donorID, WeddingID: weddingID}, nil)
	valuer.On("Compute", ctx, domain.ValuationInput{
		Type: domain.AssetTypeFullGold, Date: received,
	}).Return(decimal.NewFromInt(12000), nil)
	repo.On("CreateAsset", ctx, mock.MatchedBy(func(a domain.Asset) bool {
		return a.InitialValue.Equal(decimal.NewFromInt(12000)) && a.DonorID == donorID && a.WeddingID == weddingID
	})).Return(nil)

	a, err := svc.CreateAsset(ctx, weddingID, CreateAssetInput{
		DonorID:      donorID,
		Type:         domain.AssetTypeFullGold,
		DateReceived: &received,
	})
	require.NoError(t, err)
	assert.True(t, a.InitialValue.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, received, a.DateReceived)
	repo.AssertExpectations(t)
	valuer.AssertExpectations(t)
}

func TestCreateAsset_DefaultsDateToToday(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	valuer := new(MockValuer)
	svc := newTestService(repo, valuer)

	weddingID := uuid.New()
	donorID := uuid.New()
	today := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	repo.On("GetDonor", ctx, donorID).Return(domain.Donor{ID: donorID, WeddingID: weddingID}, nil)
	valuer.On("Compute", ctx, mock.MatchedBy(func(in domain.ValuationInput) bool {
		return in.Date.Equal(today)
	})).Return(decimal.NewFromInt(3000), nil)
	repo.On("CreateAsset", ctx, mock.Anything).Return(nil)

	a, err := svc.CreateAsset(ctx, weddingID, CreateAssetInput{DonorID: donorID, Type: domain.AssetTypeQuarterGold})
	require.NoError(t, err)
	assert.Equal(t, today, a.DateReceived)
}

func TestCreateAsset_PriceNotFoundPropagates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	valuer := new(MockValuer)
	svc := newTestService(repo, valuer)

	weddingID := uuid.New()
	donorID := uuid.New()

	repo.On("GetDonor", ctx, donorID).Return(domain.Donor{ID: donorID, WeddingID: weddingID}, nil)
	valuer.On("Compute", ctx, mock.Anything).
		Return(decimal.Zero, errors.Join(errors.New("valuing DOLLAR"), price.ErrPriceNotFound))

	_, err := svc.CreateAsset(ctx, weddingID, CreateAssetInput{
		DonorID: donorID, Type: domain.AssetTypeDollar, Quantity: dec("100"),
	})
	assert.ErrorIs(t, err, price.ErrPriceNotFound)
	repo.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestCreateAsset_DonorFromOtherWedding(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	valuer := new(MockValuer)
	svc := newTestService(repo, valuer)

	donorID := uuid.New()
	repo.On("GetDonor", ctx, donorID).Return(domain.Donor{ID: donorID, WeddingID: uuid.New()}, nil)

	_, err := svc.CreateAsset(ctx, uuid.New(), CreateAssetInput{DonorID: donorID, Type: domain.AssetTypeTurkishLira, Quantity: dec("500")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	valuer.AssertNotCalled(t, "Compute", mock.Anything, mock.Anything)
}

func TestCreateAsset_ValidationRunsBeforeLookup(t *testing.T) {
	repo := new(MockRepository)
	valuer := new(MockValuer)
	svc := newTestService(repo, valuer)

	_, err := svc.CreateAsset(context.Background(), uuid.New(), CreateAssetInput{
		DonorID: uuid.New(), Type: domain.AssetTypeBracelet, Grams: dec("10"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "GetDonor", mock.Anything, mock.Anything)
}

func TestListAssets_DonorFilter(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockValuer))

	weddingID := uuid.New()
	donorID := uuid.New()
	want := []domain.Asset{{ID: uuid.New(), WeddingID: weddingID, DonorID: donorID}}

	repo.On("GetWedding", ctx, weddingID).Return(domain.Wedding{ID: weddingID}, nil)
	repo.On("ListAssets", ctx, weddingID, &donorID).Return(want, nil)

	got, err := svc.ListAssets(ctx, weddingID, &donorID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeleteAsset_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, new(MockValuer))
	id := uuid.New()

	repo.On("DeleteAsset", ctx, id).Return(ErrNotFound)

	assert.ErrorIs(t, svc.DeleteAsset(ctx, id), ErrNotFound)
}
