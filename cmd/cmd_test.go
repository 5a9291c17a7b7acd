package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

// run executes stk with 'args' on the data directory 'dir' and returns its output.
func run(t *testing.T, dir string, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()
	fs := flag.NewFlagSet("stk", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "stk")
	SetFlags(fs)
	Register(c)
	if err := fs.Parse(append([]string{"-data-dir", dir, "-store", "file", "-currency", "USD"}, args...)); err != nil {
		t.Fatalf("invalid args %q: %v", args, err)
	}

	var out bytes.Buffer
	stdout = &out
	defer func() { stdout = os.Stdout }()
	status := c.Execute(context.Background())
	return out.String(), status
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, status := run(t, dir, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("stk %s = %v, want success. Output:\n%s", strings.Join(args, " "), status, out)
	}
	return out
}

var addedOrder = regexp.MustCompile(`Added order (\S+):`)

func TestOrderCommands(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "add-order", "-ticker", "aapl", "-price", "100", "-qty", "2")
	m := addedOrder.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("add-order output = %q", out)
	}
	id := m[1]
	if !strings.Contains(out, "Buy 2 AAPL @ 100") {
		t.Errorf("add-order output = %q, want Buy 2 AAPL @ 100", out)
	}

	mustRun(t, dir, "add-order", "-ticker", "tsla", "-side", "sell", "-price", "25", "-qty", "2")
	if _, status := run(t, dir, "add-order", "-ticker", "toolongticker", "-price", "1", "-qty", "1"); status != subcommands.ExitFailure {
		t.Errorf("add-order with an invalid ticker = %v, want failure", status)
	}

	out = mustRun(t, dir, "edit-order", "-id", id, "-qty", "3")
	if !strings.Contains(out, "Buy 3 AAPL @ 100") {
		t.Errorf("edit-order output = %q, want Buy 3 AAPL @ 100", out)
	}

	out = mustRun(t, dir, "orders")
	if !strings.Contains(out, "Total investment: **$300.00**") {
		t.Errorf("orders output = %q, want a total investment of $300.00", out)
	}
	out = mustRun(t, dir, "orders", "-side", "sell")
	if strings.Contains(out, "Buy") || strings.Contains(out, "Total investment") || !strings.Contains(out, "TSLA") {
		t.Errorf("orders -side sell output = %q, want the Sell orders only", out)
	}

	mustRun(t, dir, "rm-order", id)
	if _, status := run(t, dir, "rm-order", id); status != subcommands.ExitFailure {
		t.Errorf("rm-order of a deleted order = %v, want failure", status)
	}

	// the store is a plain directory of JSON files.
	data, err := os.ReadFile(filepath.Join(dir, "limitOrders.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"Sell"`) || strings.Contains(string(data), "AAPL") {
		t.Errorf("limitOrders.json = %s", data)
	}
}

func TestWatchlistCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "watch", "nvda", "amd")
	if _, status := run(t, dir, "watch", "NVDA"); status != subcommands.ExitFailure {
		t.Errorf("watch of a duplicate = %v, want failure", status)
	}
	mustRun(t, dir, "watch", "-replace", "amd", "intc")

	if got, want := mustRun(t, dir, "watchlist"), "# Watchlist\n\n- INTC\n- NVDA\n"; got != want {
		t.Errorf("watchlist = %q, want %q", got, want)
	}
	mustRun(t, dir, "unwatch", "intc")
	if got, want := mustRun(t, dir, "watchlist", "-sorted"), "# Watchlist\n\n- NVDA\n"; got != want {
		t.Errorf("watchlist -sorted = %q, want %q", got, want)
	}
}

func TestTPCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "add-tp", "-ticker", "aapl", "-target", "250")
	out := mustRun(t, dir, "add-tp", "-ticker", "msft", "-target", "400")
	id := strings.TrimSuffix(strings.Fields(out)[2], ":")

	if _, status := run(t, dir, "add-tp", "-ticker", "AAPL", "-target", "1"); status != subcommands.ExitFailure {
		t.Errorf("add-tp of a duplicate ticker = %v, want failure", status)
	}
	mustRun(t, dir, "edit-tp", "-id", id, "-ticker", "aapl")

	out = mustRun(t, dir, "tplist")
	if !strings.Contains(out, "several targets for AAPL") {
		t.Errorf("tplist output = %q, want a duplicate warning", out)
	}
	mustRun(t, dir, "rm-tp", id)
	if out := mustRun(t, dir, "tplist"); strings.Contains(out, "Warning") {
		t.Errorf("tplist output = %q, want no warning", out)
	}
}

func TestBackupCommands(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "watch", "nvda")
	mustRun(t, dir, "add-order", "-ticker", "aapl", "-side", "sell", "-price", "180", "-qty", "1")

	file := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, dir, "export", "-o", file)

	other := t.TempDir()
	if out := mustRun(t, other, "import", file); out != "Imported successfully!\n" {
		t.Errorf("import output = %q", out)
	}
	if got := mustRun(t, other, "watchlist"); !strings.Contains(got, "- NVDA") {
		t.Errorf("imported watchlist = %q", got)
	}

	out := mustRun(t, other, "query", `$.limitOrders[*].ticker`)
	if got, want := out, "[\n  \"AAPL\"\n]\n"; got != want {
		t.Errorf("query output = %q, want %q", got, want)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte(`{"limitOrders":[]}`), 0644)
	if _, status := run(t, other, "import", bad); status != subcommands.ExitFailure {
		t.Errorf("import of an invalid backup = %v, want failure", status)
	}
	if got := mustRun(t, other, "watchlist"); !strings.Contains(got, "- NVDA") {
		t.Errorf("a failed import changed the watchlist to %q", got)
	}

	out = mustRun(t, other, "export", "-o", "-")
	if !strings.HasPrefix(out, "{\n  \"limitOrders\": [") {
		t.Errorf("export -o - output = %q", out)
	}
}

func TestTopicCommand(t *testing.T) {
	out := mustRun(t, t.TempDir(), "topic", "-l")
	for _, topic := range []string{"backup", "orders", "storage", "tplist", "watchlist"} {
		if !strings.Contains(out, topic) {
			t.Errorf("topic -l = %q, want %q listed", out, topic)
		}
	}
	if _, status := run(t, t.TempDir(), "topic", "nope"); status != subcommands.ExitFailure {
		t.Errorf("topic nope = %v, want failure", status)
	}
}

func TestUnknownStore(t *testing.T) {
	fs := flag.NewFlagSet("stk", flag.ContinueOnError)
	SetFlags(fs)
	fs.Parse([]string{"-store", "mysql://nope"})
	if _, _, err := OpenBook(context.Background()); err == nil {
		t.Errorf("OpenBook() with an unknown store succeeded")
	}
}

func TestCompletionCoversCommands(t *testing.T) {
	fs := flag.NewFlagSet("stk", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "stk")
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	Register(c)
	SetFlags(fs)

	tree := completion()
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if _, ok := tree.Sub[cmd.Name()]; !ok {
			t.Errorf("command %q has no completion", cmd.Name())
		}
	})
	fs.VisitAll(func(f *flag.Flag) {
		if _, ok := tree.Flags[f.Name]; !ok {
			t.Errorf("global flag -%s has no completion", f.Name)
		}
	})
}
