package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/masayahak/go-order-app/internal/shared/optional"
)

var (
	ErrEmptyCode     = errors.New("product code is required")
	ErrEmptyName     = errors.New("product name is required")
	ErrNegativePrice = errors.New("unit price must be zero or greater")
)

// Product is master data keyed by a caller-supplied code. The code is
// immutable after creation. Like Customer, it carries no version column.
type Product struct {
	Code      string
	Name      string
	UnitPrice int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New validates and constructs a product.
func New(code, name string, unitPrice int64) (*Product, error) {
	product := &Product{}
	if err := product.SetCode(code); err != nil {
		return nil, err
	}
	if err := product.SetName(name); err != nil {
		return nil, err
	}
	if err := product.SetUnitPrice(unitPrice); err != nil {
		return nil, err
	}
	return product, nil
}

func (p *Product) SetCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}
	p.Code = code
	return nil
}

func (p *Product) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

func (p *Product) SetUnitPrice(price int64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	p.UnitPrice = price
	return nil
}

// Validate re-applies invariants for persistence.
func (p *Product) Validate() error {
	if err := p.SetCode(p.Code); err != nil {
		return err
	}
	if err := p.SetName(p.Name); err != nil {
		return err
	}
	return p.SetUnitPrice(p.UnitPrice)
}

// Changes is a partial-update payload; the code itself cannot change.
type Changes struct {
	Name      optional.Value[string]
	UnitPrice optional.Value[int64]
}

// Empty reports whether no field was supplied.
func (ch Changes) Empty() bool {
	return !ch.Name.Present() && !ch.UnitPrice.Present()
}

// Validate checks supplied fields without touching absent ones.
func (ch Changes) Validate() error {
	if name, ok := ch.Name.Get(); ok && strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if price, ok := ch.UnitPrice.Get(); ok && price < 0 {
		return ErrNegativePrice
	}
	return nil
}
