package stockbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
)

// Keys of the three persisted lists.
const (
	LimitOrdersKey = "limitOrders"
	WatchlistKey   = "watchlist"
	TPListKey      = "tplist"
)

// PendingImportKey holds a staged import envelope until it has been split into the list keys.
const PendingImportKey = "pendingImport"

// Keys lists the persisted list keys, in the backup document order.
var Keys = []string{LimitOrdersKey, WatchlistKey, TPListKey}

// Verbose turns on the store's event log.
var Verbose bool

func logf(format string, args ...any) {
	if Verbose {
		log.Printf(format, args...)
	}
}

// Store is the storage medium: a durable key-value store scoped to one user.
//
// Get returns an error wrapping ErrNotFound if the key is absent.
// Put fully replaces the previous value.
// Delete of an absent key is not an error.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Batcher is implemented by stores that can write several keys atomically.
type Batcher interface {
	PutBatch(entries map[string][]byte) error
}

// decodeRaw reads the JSON array stored under 'key', without decoding its entries.
func decodeRaw(s Store, key string) ([]json.RawMessage, error) {
	if s == nil {
		return nil, ErrStorageUnavailable
	}
	data, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: key %q: %v", ErrCorruptStoredValue, key, err)
	}
	return raw, nil
}

// loadRaw is the degraded-to-empty version of decodeRaw.
func loadRaw(s Store, key string) []json.RawMessage {
	raw, err := decodeRaw(s, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logf("load-key-failed key=%q err=%q", key, err)
		}
		return []json.RawMessage{}
	}
	if raw == nil {
		raw = []json.RawMessage{}
	}
	return raw
}

// Load returns the list stored under 'key'.
//
// It never fails: an absent key, a value that is not a JSON array and a missing
// storage medium all read as an empty list. Entries are decoded one by one: an entry
// that is null or not a T is skipped and logged, the others are kept. A corrupt value
// is left untouched until the next Save.
func Load[T any](s Store, key string) []T {
	raw := loadRaw(s, key)
	list := make([]T, 0, len(raw))
	for i, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			logf("skip-entry key=%q index=%d err=%q", key, i, "null entry")
			continue
		}
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			logf("skip-entry key=%q index=%d err=%q", key, i, err)
			continue
		}
		list = append(list, v)
	}
	logf("load-key key=%q len=%d skipped=%d", key, len(list), len(raw)-len(list))
	return list
}

// Save encodes 'list' and writes it under 'key', replacing any prior value.
func Save[T any](s Store, key string, list []T) error {
	if s == nil {
		return ErrStorageUnavailable
	}
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("cannot encode %q: %w", key, err)
	}
	if err := s.Put(key, data); err != nil {
		return fmt.Errorf("cannot save %q: %w", key, err)
	}
	logf("save-key key=%q len=%d bytes=%d", key, len(list), len(data))
	return nil
}

// SaveAll writes several raw values at once.
//
// Stores implementing Batcher write them atomically. Other stores first receive the
// whole set under PendingImportKey, then each key, then the envelope is deleted: an
// interrupted SaveAll is completed by the next Recover.
func SaveAll(s Store, entries map[string][]byte) error {
	if s == nil {
		return ErrStorageUnavailable
	}
	if b, ok := s.(Batcher); ok {
		if err := b.PutBatch(entries); err != nil {
			return fmt.Errorf("cannot save batch: %w", err)
		}
		logf("save-batch keys=%d", len(entries))
		return nil
	}

	envelope := make(map[string]json.RawMessage, len(entries))
	for k, v := range entries {
		envelope[k] = v
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("cannot encode staged batch: %w", err)
	}
	if err := s.Put(PendingImportKey, data); err != nil {
		return fmt.Errorf("cannot stage batch: %w", err)
	}
	logf("stage-batch key=%q keys=%d", PendingImportKey, len(entries))
	return applyEnvelope(s, envelope)
}

// applyEnvelope writes every entry of a staged envelope, in key order, then deletes it.
func applyEnvelope(s Store, envelope map[string]json.RawMessage) error {
	keys := make([]string, 0, len(envelope))
	for k := range envelope {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := s.Put(k, envelope[k]); err != nil {
			return fmt.Errorf("cannot save %q: %w", k, err)
		}
		logf("save-key key=%q bytes=%d", k, len(envelope[k]))
	}
	if err := s.Delete(PendingImportKey); err != nil {
		return fmt.Errorf("cannot delete staged batch: %w", err)
	}
	return nil
}

// Recover completes a SaveAll that was interrupted after its envelope was staged.
// It reports whether an envelope was found.
func Recover(s Store) (bool, error) {
	if s == nil {
		return false, nil
	}
	data, err := s.Get(PendingImportKey)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot read staged batch: %w", err)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		// a torn envelope means the list keys were never touched.
		logf("drop-staged-batch key=%q err=%q", PendingImportKey, err)
		return true, s.Delete(PendingImportKey)
	}
	logf("recover-staged-batch key=%q keys=%d", PendingImportKey, len(envelope))
	return true, applyEnvelope(s, envelope)
}
