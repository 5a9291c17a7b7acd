package stockbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Side is the direction of a limit order.
type Side string

const (
	Buy  Side = "Buy"
	Sell Side = "Sell"
)

// ParseSide parses a side case-insensitively. An empty string is a Buy, as in the order form.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return "", fmt.Errorf("side %q must be %q or %q", s, Buy, Sell)
}

// LimitOrder is a pending request to buy or sell a ticker at a limit price.
// It is only a record, nothing is ever executed.
type LimitOrder struct {
	ID         string
	Ticker     string
	Side       Side
	LimitPrice Price
	Quantity   Quantity
}

// Amount returns the order's limit price times its quantity.
func (o LimitOrder) Amount() Price { return o.LimitPrice.Mul(o.Quantity) }

func (o LimitOrder) key() string { return o.ID }

// MarshalJSON writes the order in the persisted shape, where the side is named "type".
func (o LimitOrder) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", o.ID).
		Append("ticker", o.Ticker).
		Append("type", o.Side).
		Append("limitPrice", o.LimitPrice).
		Append("quantity", o.Quantity)
	return w.MarshalJSON()
}

func (o *LimitOrder) UnmarshalJSON(data []byte) error {
	var jorder struct {
		ID         string   `json:"id"`
		Ticker     string   `json:"ticker"`
		Type       Side     `json:"type"`
		LimitPrice Price    `json:"limitPrice"`
		Quantity   Quantity `json:"quantity"`
	}
	if err := json.Unmarshal(data, &jorder); err != nil {
		return err
	}
	*o = LimitOrder{
		ID:         jorder.ID,
		Ticker:     jorder.Ticker,
		Side:       jorder.Type,
		LimitPrice: jorder.LimitPrice,
		Quantity:   jorder.Quantity,
	}
	return nil
}

// OrderForm holds the raw user input of the order form.
type OrderForm struct {
	Ticker     string
	Side       string
	LimitPrice string
	Quantity   string
}

// Merge returns a copy of f where every non empty field of 'over' replaces the field in f.
func (f OrderForm) Merge(over OrderForm) OrderForm {
	if over.Ticker != "" {
		f.Ticker = over.Ticker
	}
	if over.Side != "" {
		f.Side = over.Side
	}
	if over.LimitPrice != "" {
		f.LimitPrice = over.LimitPrice
	}
	if over.Quantity != "" {
		f.Quantity = over.Quantity
	}
	return f
}

// orderForm returns the form pre-populated with the values of 'o'.
func orderForm(o LimitOrder) OrderForm {
	return OrderForm{
		Ticker:     o.Ticker,
		Side:       string(o.Side),
		LimitPrice: o.LimitPrice.String(),
		Quantity:   o.Quantity.String(),
	}
}

// Validate parses every field of the form and returns an order with the given id.
// All field errors are reported at once, wrapped in ErrValidation.
func (f OrderForm) Validate(id string) (LimitOrder, error) {
	var errs []error
	ticker, err := parseTicker(f.Ticker, MaxTickerLength)
	if err != nil {
		errs = append(errs, err)
	}
	side, err := ParseSide(f.Side)
	if err != nil {
		errs = append(errs, err)
	}
	price, err := ParsePrice(f.LimitPrice)
	if err != nil {
		errs = append(errs, fmt.Errorf("limit %w", err))
	}
	qty, err := ParseQuantity(f.Quantity)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return LimitOrder{}, fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return LimitOrder{
		ID:         id,
		Ticker:     ticker,
		Side:       side,
		LimitPrice: price,
		Quantity:   qty,
	}, nil
}
