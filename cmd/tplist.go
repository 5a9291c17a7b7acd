package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stockbook"
	"github.com/etnz/stockbook/renderer"
	"github.com/google/subcommands"
)

type tpFlags struct {
	form stockbook.TPForm
}

func (t *tpFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.form.Ticker, "ticker", "", "Ticker of the stock")
	f.StringVar(&t.form.Target, "target", "", "Target price, greater than 0")
}

// warnDuplicates reports the tickers that have several targets.
func warnDuplicates(l *stockbook.TPList) {
	if d := l.Duplicates(); len(d) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: several targets for %v\n", d)
	}
}

type addTPCmd struct {
	tpFlags
}

func (*addTPCmd) Name() string     { return "add-tp" }
func (*addTPCmd) Synopsis() string { return "add a take profit target" }
func (*addTPCmd) Usage() string {
	return `stk add-tp -ticker <ticker> -target <price>

  Adds a take profit target. A ticker can only have one target.
`
}

func (c *addTPCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	e, err := book.TPList.Create(c.form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding target: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added target %s: %s @ %s\n", e.ID, e.Ticker, e.Target)
	return subcommands.ExitSuccess
}

type editTPCmd struct {
	tpFlags
	id string
}

func (*editTPCmd) Name() string     { return "edit-tp" }
func (*editTPCmd) Synopsis() string { return "edit a take profit target" }
func (*editTPCmd) Usage() string {
	return `stk edit-tp -id <id> [-ticker <ticker>] [-target <price>]

  Changes the given fields of a take profit target.
`
}

func (c *editTPCmd) SetFlags(f *flag.FlagSet) {
	c.tpFlags.SetFlags(f)
	f.StringVar(&c.id, "id", "", "Id of the target to edit")
}

func (c *editTPCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	l := book.TPList
	if !l.BeginEdit(c.id) {
		fmt.Fprintf(os.Stderr, "Error: target %q not found\n", c.id)
		return subcommands.ExitFailure
	}
	e, err := l.Update(c.id, l.Form().Merge(c.form))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error editing target: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Updated target %s: %s @ %s\n", e.ID, e.Ticker, e.Target)
	warnDuplicates(l)
	return subcommands.ExitSuccess
}

type rmTPCmd struct{}

func (*rmTPCmd) Name() string     { return "rm-tp" }
func (*rmTPCmd) Synopsis() string { return "delete take profit targets" }
func (*rmTPCmd) Usage() string {
	return `stk rm-tp <id>...

  Deletes the take profit targets with the given ids.
`
}
func (*rmTPCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmTPCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one target id is required")
		return subcommands.ExitUsageError
	}
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()
	return removeAll(f.Args(), "target", book.TPList.Delete)
}

type tplistCmd struct{}

func (*tplistCmd) Name() string     { return "tplist" }
func (*tplistCmd) Synopsis() string { return "list take profit targets" }
func (*tplistCmd) Usage() string {
	return `stk tplist

  Lists the take profit targets, and warns about tickers with several targets.
`
}
func (*tplistCmd) SetFlags(f *flag.FlagSet) {}

func (c *tplistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	l := book.TPList
	printMarkdown(renderer.RenderTPList(renderer.NewTPList(l.Items(), l.Duplicates())))
	return subcommands.ExitSuccess
}
