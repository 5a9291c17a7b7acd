package stockbook

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxTickerLength is the maximum number of characters in a limit order ticker.
const MaxTickerLength = 8

// Normalize returns the canonical form of a ticker: trimmed and upper case.
//
// Every comparison between tickers and every stored ticker goes through Normalize.
func Normalize(ticker string) string {
	// a Caser is stateful, it cannot be shared.
	return cases.Upper(language.Und).String(strings.TrimSpace(ticker))
}

// SameTicker reports whether a and b designate the same ticker.
func SameTicker(a, b string) bool { return Normalize(a) == Normalize(b) }

// parseTicker normalizes 'ticker' and checks it is not empty and no longer than max characters.
// A max of 0 means no upper bound.
func parseTicker(ticker string, max int) (string, error) {
	t := Normalize(ticker)
	if t == "" {
		return "", fmt.Errorf("ticker is required")
	}
	if max > 0 && utf8.RuneCountInString(t) > max {
		return "", fmt.Errorf("ticker %q is longer than %d characters", t, max)
	}
	return t, nil
}
