package stockbook

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// openMem opens a Book on a fresh in-memory store.
func openMem(t *testing.T) (*Book, *MemStore) {
	t.Helper()
	s := NewMemStore()
	b, err := Open(s)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return b, s
}

// mustCreateOrder creates an order or fails the test.
func mustCreateOrder(t *testing.T, o *Orders, ticker, side, price, qty string) LimitOrder {
	t.Helper()
	order, err := o.Create(OrderForm{Ticker: ticker, Side: side, LimitPrice: price, Quantity: qty})
	if err != nil {
		t.Fatalf("Create(%s %s %s x %s) error = %v", side, ticker, price, qty, err)
	}
	return order
}

// failingStore is a Store whose writes fail after 'budget' successful Puts.
type failingStore struct {
	*MemStore
	budget int
	puts   int
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Put(key string, value []byte) error {
	if f.puts >= f.budget {
		return fmt.Errorf("put %q: %w", key, errDiskFull)
	}
	f.puts++
	return f.MemStore.Put(key, value)
}

// tickers returns the tickers of a list of orders, joined with a comma.
func tickers(orders []LimitOrder) string {
	var t []string
	for _, o := range orders {
		t = append(t, o.Ticker)
	}
	return strings.Join(t, ",")
}
