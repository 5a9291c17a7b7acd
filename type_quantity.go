package stockbook

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Prices and quantities are below 1e15 with at most 12 decimals.
const (
	maxDigits   = 15
	maxDecimals = 12
)

// checkMagnitude rejects numbers out of the range of prices and quantities.
// It only reads the coefficient and the exponent: comparing a decimal with a huge
// exponent to a bound would first expand it.
func checkMagnitude(v decimal.Decimal) error {
	if v.Exponent() < -maxDecimals {
		return fmt.Errorf("has more than %d decimals", maxDecimals)
	}
	if v.NumDigits()+int(v.Exponent()) > maxDigits {
		return fmt.Errorf("must be less than 1e%d", maxDigits)
	}
	return nil
}

// Quantity is a number of shares. Order quantities are whole numbers.
type Quantity struct {
	value decimal.Decimal
}

func Q[T float64 | int | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a positive whole number of shares.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("quantity is required")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("quantity %q is not a number", s)
	}
	if err := checkMagnitude(v); err != nil {
		return Quantity{}, fmt.Errorf("quantity %q %w", s, err)
	}
	if !v.IsInteger() {
		return Quantity{}, fmt.Errorf("quantity %q is not a whole number", s)
	}
	if v.LessThan(decimal.NewFromInt(1)) {
		return Quantity{}, fmt.Errorf("quantity %q must be at least 1", s)
	}
	return Quantity{value: v}, nil
}

func (q Quantity) Equal(p Quantity) bool    { return q.value.Equal(p.value) }
func (q Quantity) IsPositive() bool         { return q.value.IsPositive() }
func (q Quantity) IsZero() bool             { return q.value.IsZero() }
func (q Quantity) Add(p Quantity) Quantity  { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) String() string           { return q.value.String() }
func (q Quantity) Decimal() decimal.Decimal { return q.value }

// MarshalJSON writes the quantity as a bare JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.value.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted number.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if err := checkMagnitude(v); err != nil {
		return fmt.Errorf("quantity %w", err)
	}
	q.value = v
	return nil
}
