package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stockbook/renderer"
	"github.com/google/subcommands"
)

type watchCmd struct {
	replace string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "add tickers to the watchlist" }
func (*watchCmd) Usage() string {
	return `stk watch <ticker>...
stk watch -replace <old> <new>

  Adds tickers at the top of the watchlist, or replaces a ticker in place.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.replace, "replace", "", "Ticker to replace with the new one")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 || (c.replace != "" && f.NArg() != 1) {
		fmt.Fprintln(os.Stderr, "Error: expected tickers, or a single ticker with -replace")
		return subcommands.ExitUsageError
	}
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()
	w := book.Watchlist

	if c.replace != "" {
		if !w.BeginEdit(c.replace) {
			fmt.Fprintf(os.Stderr, "Error: ticker %q not found\n", c.replace)
			return subcommands.ExitFailure
		}
		t, err := w.Update(c.replace, f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error replacing ticker: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Replaced %s with %s\n", c.replace, t)
		return subcommands.ExitSuccess
	}

	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		t, err := w.Create(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %q: %v\n", arg, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(stdout, "%s added to the watchlist\n", t)
	}
	return status
}

type unwatchCmd struct{}

func (*unwatchCmd) Name() string     { return "unwatch" }
func (*unwatchCmd) Synopsis() string { return "remove tickers from the watchlist" }
func (*unwatchCmd) Usage() string {
	return `stk unwatch <ticker>...

  Removes tickers from the watchlist.
`
}
func (*unwatchCmd) SetFlags(f *flag.FlagSet) {}

func (c *unwatchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker is required")
		return subcommands.ExitUsageError
	}
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()
	return removeAll(f.Args(), "ticker", book.Watchlist.Delete)
}

type watchlistCmd struct {
	sorted bool
}

func (*watchlistCmd) Name() string     { return "watchlist" }
func (*watchlistCmd) Synopsis() string { return "show the watchlist" }
func (*watchlistCmd) Usage() string {
	return `stk watchlist [-sorted]

  Shows the watched tickers, most recent first.
`
}

func (c *watchlistCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.sorted, "sorted", false, "Sort tickers alphabetically")
}

func (c *watchlistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	tickers := book.Watchlist.Items()
	if c.sorted {
		tickers = book.Watchlist.Sorted()
	}
	printMarkdown(renderer.RenderWatchlist(renderer.NewWatchlist(tickers)))
	return subcommands.ExitSuccess
}
