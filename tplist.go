package stockbook

import (
	"fmt"
	"slices"
)

// TPList is the controller of the take-profit list.
//
// At most one entry per ticker is accepted on Create. Update does not check it:
// renaming an entry onto a ticker held by another entry is accepted, logged, and
// reported by Duplicates.
type TPList struct {
	list list[TPEntry]
	form TPForm
}

// NewTPList loads the take-profit list from 's'.
func NewTPList(s Store) *TPList {
	return &TPList{list: newList[TPEntry](s, TPListKey)}
}

// Reload reads the list again from the store, and returns to idle.
func (l *TPList) Reload() {
	l.list.load()
	l.form = TPForm{}
}

func (l *TPList) Items() []TPEntry              { return l.list.all() }
func (l *TPList) Get(id string) (TPEntry, bool) { return l.list.find(id) }
func (l *TPList) Form() TPForm                  { return l.form }
func (l *TPList) SetForm(f TPForm)              { l.form = f }
func (l *TPList) Editing() (string, bool)       { return l.list.editing, l.list.editing != "" }

// hasTicker reports whether an entry other than 'except' targets ticker 't'.
func (l *TPList) hasTicker(t string, except string) bool {
	return slices.ContainsFunc(l.list.items, func(e TPEntry) bool {
		return e.ID != except && SameTicker(e.Ticker, t)
	})
}

// Create validates 'f' and prepends a new entry. It fails with ErrDuplicate if the
// ticker already has an entry.
func (l *TPList) Create(f TPForm) (TPEntry, error) {
	if l.list.editing != "" {
		return TPEntry{}, fmt.Errorf("cannot create a target: %w", ErrEditing)
	}
	l.form = f
	e, err := f.Validate(newID())
	if err != nil {
		return TPEntry{}, err
	}
	if l.hasTicker(e.Ticker, "") {
		return TPEntry{}, fmt.Errorf("cannot add a target for %q: %w", e.Ticker, ErrDuplicate)
	}
	if err := l.list.prepend(e); err != nil {
		return TPEntry{}, err
	}
	l.form = TPForm{}
	return e, nil
}

// BeginEdit starts editing entry 'id'. It reports false if there is no such entry.
func (l *TPList) BeginEdit(id string) bool {
	e, ok := l.list.find(id)
	if !ok {
		return false
	}
	l.list.editing = id
	l.form = tpForm(e)
	return true
}

func (l *TPList) CancelEdit() {
	l.list.editing = ""
	l.form = TPForm{}
}

// Update replaces the fields of the entry being edited. An empty ticker keeps the current one.
func (l *TPList) Update(id string, f TPForm) (TPEntry, error) {
	if !l.list.isEditing(id) {
		return TPEntry{}, fmt.Errorf("cannot update target %q: %w", id, ErrNotEditing)
	}
	l.form = f
	i := l.list.index(id)
	if i < 0 {
		return TPEntry{}, fmt.Errorf("cannot update target %q: %w", id, ErrNotFound)
	}
	if f.Ticker == "" {
		f.Ticker = l.list.items[i].Ticker
	}
	e, err := f.Validate(id)
	if err != nil {
		return TPEntry{}, err
	}
	if l.hasTicker(e.Ticker, id) {
		logf("tplist-duplicate-ticker id=%q ticker=%q", id, e.Ticker)
	}
	if err := l.list.replace(i, e); err != nil {
		return TPEntry{}, err
	}
	l.CancelEdit()
	return e, nil
}

// Submit submits the current form.
func (l *TPList) Submit() (TPEntry, error) {
	if id, ok := l.Editing(); ok {
		return l.Update(id, l.form)
	}
	return l.Create(l.form)
}

// Delete removes entry 'id'. It reports false if there is no such entry.
func (l *TPList) Delete(id string) (bool, error) {
	wasEditing := l.list.isEditing(id)
	ok, err := l.list.remove(id)
	if ok && wasEditing {
		l.form = TPForm{}
	}
	return ok, err
}

// Duplicates returns the tickers held by more than one entry, in list order.
func (l *TPList) Duplicates() []string {
	count := make(map[string]int)
	for _, e := range l.list.items {
		count[Normalize(e.Ticker)]++
	}
	var res []string
	for _, e := range l.list.items {
		t := Normalize(e.Ticker)
		if count[t] > 1 && !slices.Contains(res, t) {
			res = append(res, t)
		}
	}
	return res
}
