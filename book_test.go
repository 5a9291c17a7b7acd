package stockbook

import (
	"strings"
	"testing"
)

func TestImportDiscardsEdits(t *testing.T) {
	b, _ := openMem(t)
	o := mustCreateOrder(t, b.Orders, "AAPL", "Buy", "100", "2")
	if !b.Orders.BeginEdit(o.ID) {
		t.Fatalf("BeginEdit(%q) = false", o.ID)
	}

	if err := b.Import(strings.NewReader(sampleBackup)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if id, editing := b.Orders.Editing(); editing {
		t.Errorf("Orders.Editing() = %q, want no edit after import", id)
	}
	if _, ok := b.Orders.Get(o.ID); ok {
		t.Errorf("Orders.Get(%q) found an order that is not in the backup", o.ID)
	}
}

func TestOpenRecovers(t *testing.T) {
	s := NewMemStore()
	s.Put(PendingImportKey, []byte(`{"watchlist":["AMD"],"limitOrders":[],"tplist":[]}`))

	b, err := Open(s)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := b.Watchlist.Items(); len(got) != 1 || got[0] != "AMD" {
		t.Errorf("Watchlist.Items() = %v, want [AMD]", got)
	}
	if _, err := s.Get(PendingImportKey); err == nil {
		t.Errorf("the staged import is still present after Open()")
	}
}
