package stockbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		store Store
	}{
		{"no storage medium", nil},
		{"absent key", NewMemStore()},
		{"not json", storeWith(WatchlistKey, `{not json`)},
		{"not a list", storeWith(WatchlistKey, `{"a":1}`)},
		{"null", storeWith(WatchlistKey, `null`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Load[string](tt.store, WatchlistKey)
			if got == nil || len(got) != 0 {
				t.Errorf("Load() = %#v, want an empty non nil list", got)
			}
		})
	}
}

func TestLoadSkipsUnreadableEntries(t *testing.T) {
	s := storeWith(LimitOrdersKey, `[{"id":"a","ticker":"AAPL","type":"Buy","limitPrice":1,"quantity":1},{"limitPrice":"abc"},{"id":"b","ticker":"HUGE","type":"Buy","limitPrice":1e2000000000,"quantity":1},null,7]`)
	if got := tickers(Load[LimitOrder](s, LimitOrdersKey)); got != "AAPL" {
		t.Errorf("Load() = %s, want AAPL", got)
	}
	s = storeWith(WatchlistKey, `["NVDA",5,"AMD",{}]`)
	if diff := cmp.Diff([]string{"NVDA", "AMD"}, Load[string](s, WatchlistKey)); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsCorruptValue(t *testing.T) {
	s := storeWith(WatchlistKey, `{not json`)
	Load[string](s, WatchlistKey)
	if data, _ := s.Get(WatchlistKey); string(data) != `{not json` {
		t.Errorf("Load() changed the corrupt value to %q", data)
	}
	if _, err := decodeRaw(s, WatchlistKey); !errors.Is(err, ErrCorruptStoredValue) {
		t.Errorf("decodeRaw() error = %v, want ErrCorruptStoredValue", err)
	}
}

func TestSave(t *testing.T) {
	s := NewMemStore()
	if err := Save[string](s, WatchlistKey, nil); err != nil {
		t.Fatal(err)
	}
	if data, _ := s.Get(WatchlistKey); string(data) != "[]" {
		t.Errorf("Save(nil) wrote %q, want []", data)
	}
	if err := Save(nil, WatchlistKey, []string{"A"}); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("Save() on a nil store error = %v, want ErrStorageUnavailable", err)
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := NewFileStore(dir)

	if _, err := s.Get(TPListKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
	}
	if err := Save(s, WatchlistKey, []string{"AAPL", "MSFT"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "watchlist.json"))
	if err != nil {
		t.Fatalf("cannot read the key's file: %v", err)
	}
	if got, want := string(data), "[\"AAPL\",\"MSFT\"]\n"; got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"AAPL", "MSFT"}, Load[string](s, WatchlistKey)); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(WatchlistKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(WatchlistKey); err != nil {
		t.Errorf("Delete(absent) error = %v", err)
	}
	if err := s.Put("../escape", nil); err == nil {
		t.Errorf("Put(../escape) succeeded")
	}

	// no temporary file is left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("folder is not empty: %v", entries)
	}
}

func TestSaveAllStagesEnvelope(t *testing.T) {
	s := NewFileStore(t.TempDir())
	entries := map[string][]byte{
		LimitOrdersKey: []byte(`[]`),
		WatchlistKey:   []byte(`["AAPL"]`),
		TPListKey:      []byte(`[]`),
	}
	if err := SaveAll(s, entries); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if _, err := s.Get(PendingImportKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveAll() left the envelope behind: %v", err)
	}
	if diff := cmp.Diff([]string{"AAPL"}, Load[string](s, WatchlistKey)); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecoverCompletesInterruptedSaveAll(t *testing.T) {
	// the envelope and the limitOrders key are written, then the disk fills up.
	s := &failingStore{MemStore: NewMemStore(), budget: 2}
	s.MemStore.Put(WatchlistKey, []byte(`["OLD"]`))
	entries := map[string][]byte{
		LimitOrdersKey: []byte(`[]`),
		WatchlistKey:   []byte(`["NEW"]`),
		TPListKey:      []byte(`[]`),
	}
	if err := SaveAll(s, entries); !errors.Is(err, errDiskFull) {
		t.Fatalf("SaveAll() error = %v, want %v", err, errDiskFull)
	}
	if diff := cmp.Diff([]string{"OLD"}, Load[string](s, WatchlistKey)); diff != "" {
		t.Fatalf("watchlist should still be the old one (-want +got):\n%s", diff)
	}

	// Opening a book on the repaired store completes the split.
	b, err := Open(s.MemStore)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if diff := cmp.Diff([]string{"NEW"}, b.Watchlist.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Get(PendingImportKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recover() left the envelope behind: %v", err)
	}
	if found, err := Recover(s.MemStore); found || err != nil {
		t.Errorf("second Recover() = %v, %v, want false, nil", found, err)
	}
}

func TestRecoverDropsTornEnvelope(t *testing.T) {
	s := storeWith(PendingImportKey, `{"watchlist":[`)
	s.Put(WatchlistKey, []byte(`["OLD"]`))
	found, err := Recover(s)
	if !found || err != nil {
		t.Fatalf("Recover() = %v, %v, want true, nil", found, err)
	}
	if diff := cmp.Diff([]string{"OLD"}, Load[string](s, WatchlistKey)); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Get(PendingImportKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recover() left the torn envelope behind")
	}
}

func storeWith(key, value string) *MemStore {
	s := NewMemStore()
	s.Put(key, []byte(value))
	return s
}
