package application

import (
	"errors"
	"fmt"

	"github.com/masayahak/go-order-app/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidCustomerID) ||
		errors.Is(err, domain.ErrEmptyCustomerName) ||
		errors.Is(err, domain.ErrEmptyProductCode) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativeUnitPrice) ||
		errors.Is(err, domain.ErrAmountMismatch) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
