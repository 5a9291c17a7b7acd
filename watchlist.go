package stockbook

import (
	"fmt"
	"slices"
)

// ticker is a watchlist entry: the ticker is its own id.
type ticker string

func (t ticker) key() string { return string(t) }

// Watchlist is the controller of the watchlist: a duplicate-free list of tickers,
// most recently added first.
type Watchlist struct {
	list list[ticker]
	form string
}

// NewWatchlist loads the watchlist from 's'.
func NewWatchlist(s Store) *Watchlist {
	return &Watchlist{list: newList[ticker](s, WatchlistKey)}
}

// Reload reads the list again from the store, and returns to idle.
func (w *Watchlist) Reload() {
	w.list.load()
	w.form = ""
}

// Items returns a copy of the tickers.
func (w *Watchlist) Items() []string {
	res := make([]string, len(w.list.items))
	for i, t := range w.list.items {
		res[i] = string(t)
	}
	return res
}

// indexOf returns the position of ticker 't', compared in canonical form,
// since imported entries are stored as is.
func (w *Watchlist) indexOf(t string) int {
	t = Normalize(t)
	return slices.IndexFunc(w.list.items, func(v ticker) bool { return Normalize(string(v)) == t })
}

// Has reports whether 't' is in the watchlist.
func (w *Watchlist) Has(t string) bool { return w.indexOf(t) >= 0 }

func (w *Watchlist) Form() string            { return w.form }
func (w *Watchlist) SetForm(t string)        { w.form = t }
func (w *Watchlist) Editing() (string, bool) { return w.list.editing, w.list.editing != "" }

// Create prepends 't' to the watchlist. It fails with ErrDuplicate if the ticker is already there.
func (w *Watchlist) Create(t string) (string, error) {
	if w.list.editing != "" {
		return "", fmt.Errorf("cannot watch a ticker: %w", ErrEditing)
	}
	w.form = t
	norm, err := parseTicker(t, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if w.Has(norm) {
		return "", fmt.Errorf("cannot watch %q: %w", norm, ErrDuplicate)
	}
	if err := w.list.prepend(ticker(norm)); err != nil {
		return "", err
	}
	w.form = ""
	return norm, nil
}

// BeginEdit starts editing ticker 't'. It reports false if 't' is not in the watchlist.
func (w *Watchlist) BeginEdit(t string) bool {
	i := w.indexOf(t)
	if i < 0 {
		return false
	}
	w.list.editing = string(w.list.items[i])
	w.form = w.list.editing
	return true
}

func (w *Watchlist) CancelEdit() {
	w.list.editing = ""
	w.form = ""
}

// Update renames the ticker being edited to 't', keeping its position.
// The watchlist stays duplicate free: renaming onto another entry fails with ErrDuplicate.
func (w *Watchlist) Update(old, t string) (string, error) {
	editing, ok := w.Editing()
	if !ok || !SameTicker(editing, old) {
		return "", fmt.Errorf("cannot update %q: %w", old, ErrNotEditing)
	}
	w.form = t
	norm, err := parseTicker(t, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if !SameTicker(norm, editing) && w.Has(norm) {
		return "", fmt.Errorf("cannot rename %q to %q: %w", editing, norm, ErrDuplicate)
	}
	i := w.list.index(editing)
	if i < 0 {
		return "", fmt.Errorf("cannot update %q: %w", editing, ErrNotFound)
	}
	if err := w.list.replace(i, ticker(norm)); err != nil {
		return "", err
	}
	w.CancelEdit()
	return norm, nil
}

// Submit submits the current form.
func (w *Watchlist) Submit() (string, error) {
	if old, ok := w.Editing(); ok {
		return w.Update(old, w.form)
	}
	return w.Create(w.form)
}

// Delete removes ticker 't'. It reports false if 't' is not in the watchlist.
func (w *Watchlist) Delete(t string) (bool, error) {
	i := w.indexOf(t)
	if i < 0 {
		return false, nil
	}
	stored := string(w.list.items[i])
	wasEditing := w.list.isEditing(stored)
	ok, err := w.list.remove(stored)
	if ok && wasEditing {
		w.form = ""
	}
	return ok, err
}

// Sorted returns the tickers in alphabetical order.
func (w *Watchlist) Sorted() []string {
	res := w.Items()
	slices.Sort(res)
	return res
}
