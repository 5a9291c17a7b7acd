package stockbook

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a per share price, with no currency attached.
type Price struct {
	value decimal.Decimal
}

func P[T float64 | int | int64 | decimal.Decimal](value T) Price {
	return Price{value: newDecimal(value)}
}

// ParsePrice parses a strictly positive decimal price.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}, fmt.Errorf("price is required")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("price %q is not a number", s)
	}
	if err := checkMagnitude(v); err != nil {
		return Price{}, fmt.Errorf("price %q %w", s, err)
	}
	if !v.IsPositive() {
		return Price{}, fmt.Errorf("price %q must be greater than 0", s)
	}
	return Price{value: v}, nil
}

func (p Price) Equal(q Price) bool          { return p.value.Equal(q.value) }
func (p Price) IsPositive() bool            { return p.value.IsPositive() }
func (p Price) IsZero() bool                { return p.value.IsZero() }
func (p Price) Add(q Price) Price           { return Price{value: p.value.Add(q.value)} }
func (p Price) Mul(q Quantity) Price        { return Price{value: p.value.Mul(q.value)} }
func (p Price) String() string              { return p.value.String() }
func (p Price) Decimal() decimal.Decimal    { return p.value }
func (p Price) In(currency string) Money    { return M(p.value, currency) }
func (p Price) MarshalJSON() ([]byte, error) { return []byte(p.value.String()), nil }

// UnmarshalJSON accepts a JSON number or a quoted number.
func (p *Price) UnmarshalJSON(data []byte) error {
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if err := checkMagnitude(v); err != nil {
		return fmt.Errorf("price %w", err)
	}
	p.value = v
	return nil
}
