package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/masayahak/go-order-app/internal/shared/optional"
)

var ErrEmptyName = errors.New("customer name is required")

// Customer is a master-data entity. It carries no version column: concurrent
// edits are last-write-wins, a documented policy for master data.
type Customer struct {
	ID        int64
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New validates and constructs a customer.
func New(name string, phone *string) (*Customer, error) {
	customer := &Customer{Phone: phone}
	if err := customer.SetName(name); err != nil {
		return nil, err
	}
	return customer, nil
}

// SetName trims and validates the customer name.
func (c *Customer) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

// Validate re-applies invariants for persistence.
func (c *Customer) Validate() error {
	return c.SetName(c.Name)
}

// Changes is a partial-update payload. Absent fields are left untouched;
// Phone present with a nil pointer clears the stored number.
type Changes struct {
	Name  optional.Value[string]
	Phone optional.Value[*string]
}

// Empty reports whether no field was supplied.
func (ch Changes) Empty() bool {
	return !ch.Name.Present() && !ch.Phone.Present()
}

// Validate checks supplied fields without touching absent ones.
func (ch Changes) Validate() error {
	if name, ok := ch.Name.Get(); ok && strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}
