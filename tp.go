package stockbook

import (
	"errors"
	"fmt"
)

// TPEntry is a take-profit target: the price at which the user intends to exit a position.
type TPEntry struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	Target Price  `json:"target"`
}

func (e TPEntry) key() string { return e.ID }

// TPForm holds the raw user input of the take-profit form.
type TPForm struct {
	Ticker string
	Target string
}

// Merge returns a copy of f where every non empty field of 'over' replaces the field in f.
func (f TPForm) Merge(over TPForm) TPForm {
	if over.Ticker != "" {
		f.Ticker = over.Ticker
	}
	if over.Target != "" {
		f.Target = over.Target
	}
	return f
}

func tpForm(e TPEntry) TPForm {
	return TPForm{Ticker: e.Ticker, Target: e.Target.String()}
}

// Validate parses every field of the form and returns an entry with the given id.
func (f TPForm) Validate(id string) (TPEntry, error) {
	var errs []error
	ticker, err := parseTicker(f.Ticker, 0)
	if err != nil {
		errs = append(errs, err)
	}
	target, err := ParsePrice(f.Target)
	if err != nil {
		errs = append(errs, fmt.Errorf("target %w", err))
	}
	if len(errs) > 0 {
		return TPEntry{}, fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return TPEntry{ID: id, Ticker: ticker, Target: target}, nil
}
