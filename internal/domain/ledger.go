package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wedding groups the donors and gifts of one celebration.
type Wedding struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Side labels which family a donor belongs to.
type Side string

const (
	SideGroom       Side = "groom"
	SideBride       Side = "bride"
	SideBoth        Side = "both"
	SideUnspecified Side = "unspecified"
)

// Donor is a guest who gave one or more gifts.
type Donor struct {
	ID          uuid.UUID `json:"id"`
	WeddingID   uuid.UUID `json:"weddingId"`
	Name        string    `json:"name"`
	IsGroomSide bool      `json:"isGroomSide"`
	IsBrideSide bool      `json:"isBrideSide"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Side folds the two side flags into a single label.
func (d Donor) Side() Side {
	switch {
	case d.IsGroomSide && d.IsBrideSide:
		return SideBoth
	case d.IsGroomSide:
		return SideGroom
	case d.IsBrideSide:
		return SideBride
	default:
		return SideUnspecified
	}
}

// Asset is a recorded gift. InitialValue is computed once at creation and never recomputed.
type Asset struct {
	ID           uuid.UUID        `json:"id"`
	WeddingID    uuid.UUID        `json:"weddingId"`
	DonorID      uuid.UUID        `json:"donorId"`
	Type         AssetType        `json:"type"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Grams        *decimal.Decimal `json:"grams,omitempty"`
	Carat        *int             `json:"carat,omitempty"`
	InitialValue decimal.Decimal  `json:"initialValue"`
	DateReceived time.Time        `json:"dateReceived"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ValuationInput rebuilds the engine input the asset was created from.
func (a Asset) ValuationInput() ValuationInput {
	return ValuationInput{
		Type:     a.Type,
		Quantity: a.Quantity,
		Grams:    a.Grams,
		Carat:    a.Carat,
		Date:     a.DateReceived,
	}
}
