package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/stockbook"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the book to a backup file" }
func (*exportCmd) Usage() string {
	return `stk export [-o <file>]

  Writes the limit orders, the watchlist and the take profit targets in a single JSON file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", stockbook.BackupFilename, `Output file, "-" for stdout`)
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	if c.output == "-" {
		if err := book.Export(stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	if err := book.Export(out); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Exported to %s\n", c.output)
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a backup file" }
func (*importCmd) Usage() string {
	return `stk import <file>

  Replaces the limit orders, the watchlist and the take profit targets with the content
  of a backup file ("-" for stdin). Nothing is replaced if the file is invalid.
`
}
func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import takes exactly one file")
		return subcommands.ExitUsageError
	}
	var in io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		in = file
	}

	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	err := book.Import(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, stockbook.ImportMessage(err))
		if Verbose {
			fmt.Fprintln(os.Stderr, err)
		}
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, stockbook.ImportMessage(nil))
	return subcommands.ExitSuccess
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "query the book with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `stk query <jsonpath>

  Evaluates a JSONPath expression on the backup document, for instance:

    stk query '$.limitOrders[?(@.type=="Sell")].ticker'
`
}
func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: query takes exactly one expression")
		return subcommands.ExitUsageError
	}
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	v, err := stockbook.Query(book.Backup(), f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, string(data))
	return subcommands.ExitSuccess
}
