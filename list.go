package stockbook

import (
	"slices"

	"github.com/google/uuid"
)

// keyed is implemented by list entries.
type keyed interface {
	key() string
}

// newID returns a fresh opaque entry id.
var newID = uuid.NewString

// list is the state shared by the three list controllers: the entries of one
// persisted key, and the id of the entry being edited, if any.
//
// Mutations build a new slice, persist it and only then replace the entries,
// so that a failed write leaves the list unchanged.
type list[T keyed] struct {
	store   Store
	key     string
	items   []T
	editing string // "" when idle
}

func newList[T keyed](s Store, key string) list[T] {
	l := list[T]{store: s, key: key}
	l.load()
	return l
}

func (l *list[T]) load() {
	l.items = Load[T](l.store, l.key)
	l.editing = ""
}

func (l *list[T]) all() []T { return slices.Clone(l.items) }

func (l *list[T]) index(id string) int {
	return slices.IndexFunc(l.items, func(v T) bool { return v.key() == id })
}

func (l *list[T]) find(id string) (T, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

func (l *list[T]) commit(items []T) error {
	if err := Save(l.store, l.key, items); err != nil {
		return err
	}
	l.items = items
	return nil
}

// prepend adds 'v' in front of the list.
func (l *list[T]) prepend(v T) error {
	items := make([]T, 0, len(l.items)+1)
	items = append(items, v)
	items = append(items, l.items...)
	return l.commit(items)
}

// replace replaces the entry at 'i' with 'v', keeping its position.
func (l *list[T]) replace(i int, v T) error {
	items := slices.Clone(l.items)
	items[i] = v
	return l.commit(items)
}

// remove deletes the entry 'id'. It reports false, and persists nothing, if there is none.
func (l *list[T]) remove(id string) (bool, error) {
	i := l.index(id)
	if i < 0 {
		return false, nil
	}
	items := slices.Delete(slices.Clone(l.items), i, i+1)
	if err := l.commit(items); err != nil {
		return false, err
	}
	if l.editing == id {
		l.editing = ""
	}
	return true, nil
}

func (l *list[T]) isEditing(id string) bool { return l.editing != "" && l.editing == id }
