package stockbook

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleBackup = `{
  "limitOrders": [
    {
      "id": "k2j3h4",
      "ticker": "AAPL",
      "type": "Buy",
      "limitPrice": 100,
      "quantity": 2
    },
    {
      "id": "a9x8c7",
      "ticker": "TSLA",
      "type": "Sell",
      "limitPrice": 420.5,
      "quantity": 1
    }
  ],
  "watchlist": [
    "NVDA",
    "AMD"
  ],
  "tplist": [
    {
      "id": "p0o9i8",
      "ticker": "AAPL",
      "target": 250
    }
  ]
}
`

func TestImportExportIsStable(t *testing.T) {
	b, _ := openMem(t)
	if err := b.Import(strings.NewReader(sampleBackup)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	var out bytes.Buffer
	if err := b.Export(&out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if diff := cmp.Diff(sampleBackup, out.String()); diff != "" {
		t.Errorf("import/export is not stable (-want +got):\n%s", diff)
	}

	// the controllers have been reloaded.
	if got := tickers(b.Orders.Items()); got != "AAPL,TSLA" {
		t.Errorf("Orders.Items() = %s, want AAPL,TSLA", got)
	}
	if diff := cmp.Diff([]string{"NVDA", "AMD"}, b.Watchlist.Items()); diff != "" {
		t.Errorf("Watchlist.Items() mismatch (-want +got):\n%s", diff)
	}
	if got := b.TPList.Items(); len(got) != 1 || got[0].ID != "p0o9i8" {
		t.Errorf("TPList.Items() = %+v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	b, _ := openMem(t)
	mustCreateOrder(t, b.Orders, "AAPL", "Buy", "100.10", "2")
	mustCreateOrder(t, b.Orders, "MSFT", "Sell", "0.000001", "7")
	if _, err := b.Watchlist.Create("goog"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.TPList.Create(TPForm{Ticker: "amzn", Target: "199.99"}); err != nil {
		t.Fatal(err)
	}
	before := b.Backup()

	var file bytes.Buffer
	if err := b.Export(&file); err != nil {
		t.Fatal(err)
	}

	other, _ := openMem(t)
	if err := other.Import(&file); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	after := other.Backup()

	// compare the documents as parsed structures.
	var x, y bytes.Buffer
	EncodeBackup(&x, before)
	EncodeBackup(&y, after)
	if diff := cmp.Diff(x.String(), y.String()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportErrorsLeaveStoreUntouched(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr error
	}{
		{"not json", `{"limitOrders": [`, ErrImportParse},
		{"trailing garbage", `{"limitOrders":[],"watchlist":[],"tplist":[]} {}`, ErrImportParse},
		{"missing watchlist", `{"limitOrders":[],"tplist":[]}`, ErrImportSchema},
		{"null tplist", `{"limitOrders":[],"watchlist":[],"tplist":null}`, ErrImportSchema},
		{"object instead of list", `{"limitOrders":{},"watchlist":[],"tplist":[]}`, ErrImportSchema},
		{"not an object", `[1,2,3]`, ErrImportSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, s := openMem(t)
			mustCreateOrder(t, b.Orders, "AAPL", "Buy", "100", "2")
			b.Watchlist.Create("NVDA")
			before := snapshot(s)

			err := b.Import(strings.NewReader(tt.file))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Import() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(before, snapshot(s)); diff != "" {
				t.Errorf("Import() changed the store (-want +got):\n%s", diff)
			}
			if got := tickers(b.Orders.Items()); got != "AAPL" {
				t.Errorf("Orders.Items() = %s, want AAPL", got)
			}
		})
	}
}

func TestImportDoesNotValidateEntries(t *testing.T) {
	b, s := openMem(t)
	doc := `{"limitOrders":[{"whatever":true}],"watchlist":["lower"],"tplist":[]}`
	if err := b.Import(strings.NewReader(doc)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	data, _ := s.Get(LimitOrdersKey)
	if got, want := string(data), `[{"whatever":true}]`; got != want {
		t.Errorf("stored limitOrders = %s, want %s", got, want)
	}
	if diff := cmp.Diff([]string{"lower"}, b.Watchlist.Items()); diff != "" {
		t.Errorf("Watchlist.Items() mismatch (-want +got):\n%s", diff)
	}
}

const mixedBackup = `{
  "limitOrders": [
    {
      "id": "k2j3h4",
      "ticker": "AAPL",
      "type": "Buy",
      "limitPrice": 100,
      "quantity": 2
    },
    {
      "id": "zz",
      "ticker": "BAD",
      "type": "Buy",
      "limitPrice": "abc",
      "quantity": 1
    },
    null
  ],
  "watchlist": [
    "NVDA",
    5
  ],
  "tplist": []
}
`

func TestImportKeepsUnreadableEntries(t *testing.T) {
	b, s := openMem(t)
	if err := b.Import(strings.NewReader(mixedBackup)); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	var out bytes.Buffer
	if err := b.Export(&out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(mixedBackup, out.String()); diff != "" {
		t.Errorf("Export() after import mismatch (-want +got):\n%s", diff)
	}

	// readable entries are loaded, the others are skipped.
	if got := tickers(b.Orders.Items()); got != "AAPL" {
		t.Errorf("Orders.Items() = %s, want AAPL", got)
	}
	if diff := cmp.Diff([]string{"NVDA"}, b.Watchlist.Items()); diff != "" {
		t.Errorf("Watchlist.Items() mismatch (-want +got):\n%s", diff)
	}

	// the next write keeps the readable entries.
	mustCreateOrder(t, b.Orders, "MSFT", "Buy", "10", "1")
	if got := tickers(Load[LimitOrder](s, LimitOrdersKey)); got != "MSFT,AAPL" {
		t.Errorf("stored orders = %s, want MSFT,AAPL", got)
	}
}

func TestQuery(t *testing.T) {
	b, _ := openMem(t)
	if err := b.Import(strings.NewReader(sampleBackup)); err != nil {
		t.Fatal(err)
	}
	got, err := Query(b.Backup(), `$.limitOrders[?(@.type=="Buy")].ticker`)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if diff := cmp.Diff([]any{"AAPL"}, got); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
	if _, err := Query(b.Backup(), `$.nothing`); err == nil {
		t.Errorf("Query($.nothing) expected an error")
	}
}

// snapshot returns the raw content of every list key.
func snapshot(s Store) map[string]string {
	res := make(map[string]string)
	for _, k := range append(Keys, PendingImportKey) {
		if data, err := s.Get(k); err == nil {
			res[k] = string(data)
		}
	}
	return res
}

func TestImportMessage(t *testing.T) {
	b, _ := openMem(t)
	tests := []struct {
		file string
		want string
	}{
		{sampleBackup, "Imported successfully!"},
		{`{"limitOrders":[]}`, "Invalid backup file."},
		{`not json`, "Failed to import, invalid JSON file."},
	}
	for _, tt := range tests {
		if got := ImportMessage(b.Import(strings.NewReader(tt.file))); got != tt.want {
			t.Errorf("ImportMessage(Import(%.20q)) = %q, want %q", tt.file, got, tt.want)
		}
	}
}
