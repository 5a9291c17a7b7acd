package stockbook

import (
	"fmt"
	"io"
)

// Book is a session on a store: the three list controllers loaded from it.
//
// A Book is not safe for concurrent use.
type Book struct {
	store     Store
	Orders    *Orders
	Watchlist *Watchlist
	TPList    *TPList
}

// Open completes any interrupted import found in 's', then loads the three lists.
func Open(s Store) (*Book, error) {
	if _, err := Recover(s); err != nil {
		return nil, fmt.Errorf("cannot recover interrupted import: %w", err)
	}
	return &Book{
		store:     s,
		Orders:    NewOrders(s),
		Watchlist: NewWatchlist(s),
		TPList:    NewTPList(s),
	}, nil
}

// Store returns the book's store.
func (b *Book) Store() Store { return b.store }

// Reload reads the three lists again from the store. Edits in progress are discarded.
func (b *Book) Reload() {
	b.Orders.Reload()
	b.Watchlist.Reload()
	b.TPList.Reload()
}

// Backup returns the persisted content of the three lists.
func (b *Book) Backup() Backup { return Export(b.store) }

// Export writes the backup document to 'w'.
func (b *Book) Export(w io.Writer) error { return EncodeBackup(w, b.Backup()) }

// Import replaces the three lists with the backup document read from 'r' and reloads them.
// On error nothing is replaced.
func (b *Book) Import(r io.Reader) error {
	if err := Import(b.store, r); err != nil {
		return err
	}
	b.Reload()
	return nil
}
