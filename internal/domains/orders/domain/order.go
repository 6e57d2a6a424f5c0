package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/masayahak/go-order-app/internal/shared/optional"
)

var (
	ErrInvalidCustomerID = errors.New("customer id must be greater than zero")
	ErrEmptyCustomerName = errors.New("customer name is required")
	ErrEmptyProductCode  = errors.New("product code is required")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNegativeUnitPrice = errors.New("unit price must be zero or greater")
	ErrAmountMismatch    = errors.New("amount must equal quantity times unit price")
)

// Order is the aggregate root. CustomerName is a point-in-time snapshot taken
// at order entry; renaming the customer later does not rewrite history.
// Version starts at 1 and increments by exactly 1 on every successful update.
type Order struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	OrderDate    time.Time
	TotalAmount  int64
	Version      int64
	CreatedBy    *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Details      []Detail
}

// Detail is a line item owned exclusively by one order. ProductName is a
// snapshot, like Order.CustomerName. Detail sets are always replaced whole.
type Detail struct {
	ID          int64
	OrderID     int64
	ProductCode string
	ProductName string
	Quantity    int64
	UnitPrice   int64
	Amount      int64
}

// Amount is the single derivation rule for a line amount. The repository
// never recomputes TotalAmount from it; callers supply the total and tests
// check the round trip as an external invariant.
func Amount(quantity, unitPrice int64) int64 {
	return quantity * unitPrice
}

// Validate enforces the line-item invariants.
func (d *Detail) Validate() error {
	if strings.TrimSpace(d.ProductCode) == "" {
		return ErrEmptyProductCode
	}
	if d.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if d.UnitPrice < 0 {
		return ErrNegativeUnitPrice
	}
	if d.Amount != Amount(d.Quantity, d.UnitPrice) {
		return ErrAmountMismatch
	}
	return nil
}

// Validate enforces invariants on the aggregate, details included.
func (o *Order) Validate() error {
	if o.CustomerID <= 0 {
		return ErrInvalidCustomerID
	}
	if strings.TrimSpace(o.CustomerName) == "" {
		return ErrEmptyCustomerName
	}
	for i := range o.Details {
		if err := o.Details[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDetails checks a replacement detail set before it is written.
func ValidateDetails(details []Detail) error {
	for i := range details {
		if err := details[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Changes is a partial-update payload for the order row. Version, when
// present, is the version the caller last read; the repository rejects the
// write with a conflict when it no longer matches.
type Changes struct {
	CustomerID   optional.Value[int64]
	CustomerName optional.Value[string]
	OrderDate    optional.Value[time.Time]
	TotalAmount  optional.Value[int64]
	Version      optional.Value[int64]
}

// Empty reports whether no order field was supplied. Version is a guard,
// not a field change.
func (ch Changes) Empty() bool {
	return !ch.CustomerID.Present() &&
		!ch.CustomerName.Present() &&
		!ch.OrderDate.Present() &&
		!ch.TotalAmount.Present()
}

// Validate checks supplied fields without touching absent ones.
func (ch Changes) Validate() error {
	if id, ok := ch.CustomerID.Get(); ok && id <= 0 {
		return ErrInvalidCustomerID
	}
	if name, ok := ch.CustomerName.Get(); ok && strings.TrimSpace(name) == "" {
		return ErrEmptyCustomerName
	}
	return nil
}
