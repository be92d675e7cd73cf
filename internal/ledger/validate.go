package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
)

var one = decimal.NewFromInt(1)

// Validate checks a gift against the required-field table of its type.
// Supplied optional fields must still be well-formed.
func Validate(in domain.ValuationInput) error {
	if !in.Type.Valid() {
		return fmt.Errorf("unknown asset type %q: %w", in.Type, ErrInvalidInput)
	}
	req := in.Type.Requirements()

	var errs []error
	if req.Date && in.Date.IsZero() {
		errs = append(errs, errors.New("dateReceived is required"))
	}
	switch {
	case in.Quantity == nil && req.Quantity:
		errs = append(errs, errors.New("quantity is required"))
	case in.Quantity != nil && !in.Quantity.IsPositive():
		errs = append(errs, errors.New("quantity must be positive"))
	case in.Quantity != nil && in.Type.Family() == domain.FamilyGoldCoin && !in.Quantity.Equal(one):
		errs = append(errs, errors.New("coin gifts are recorded one coin per entry"))
	}
	switch {
	case in.Grams == nil && req.Grams:
		errs = append(errs, errors.New("grams is required"))
	case in.Grams != nil && !in.Grams.IsPositive():
		errs = append(errs, errors.New("grams must be positive"))
	}
	switch {
	case in.Carat == nil && req.Carat:
		errs = append(errs, errors.New("carat is required"))
	case in.Carat != nil && *in.Carat <= 0:
		errs = append(errs, errors.New("carat must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s: %w: %w", in.Type, ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
