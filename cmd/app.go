// Package cmd implements the stk command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stockbook"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addOrderCmd{}, "orders")
	c.Register(&editOrderCmd{}, "orders")
	c.Register(&rmOrderCmd{}, "orders")
	c.Register(&ordersCmd{}, "orders")

	c.Register(&watchCmd{}, "watchlist")
	c.Register(&unwatchCmd{}, "watchlist")
	c.Register(&watchlistCmd{}, "watchlist")

	c.Register(&addTPCmd{}, "take profit")
	c.Register(&editTPCmd{}, "take profit")
	c.Register(&rmTPCmd{}, "take profit")
	c.Register(&tplistCmd{}, "take profit")

	c.Register(&exportCmd{}, "backup")
	c.Register(&importCmd{}, "backup")
	c.Register(&queryCmd{}, "backup")

	c.Register(&serveCmd{}, "services")
	c.Register(&botCmd{}, "services")
	c.Register(&AssistCmd{}, "services")

	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var (
	dataDir   string
	storeName string
	currency  string
	plain     bool
	Verbose   bool
)

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// SetFlags declares the global flags on 'f'. Defaults are read from the environment.
func SetFlags(f *flag.FlagSet) {
	f.StringVar(&dataDir, "data-dir", getenv(EnvDataDir, ".stockbook"), "Directory of the file store")
	f.StringVar(&storeName, "store", getenv(EnvStore, "file"), `Storage medium: "file" or a "postgres://" connection URL`)
	f.StringVar(&currency, "currency", getenv(EnvCurrency, "USD"), "Currency used to display amounts")
	f.BoolVar(&plain, "plain", false, "Print markdown without terminal formatting")
	f.BoolVar(&Verbose, "v", getenvBool(EnvVerbose), "Log storage events")
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getenvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// LoadEnv loads the variables of the .env file of the current directory, if any.
// Variables already set are not overridden.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, cannot load .env file: %v", err)
	}
}

// openStore opens the configured storage medium. The returned func releases it.
func openStore(ctx context.Context) (stockbook.Store, func(), error) {
	switch {
	case storeName == "" || storeName == "file":
		return stockbook.NewFileStore(dataDir), func() {}, nil
	case strings.HasPrefix(storeName, "postgres://"), strings.HasPrefix(storeName, "postgresql://"):
		s, err := stockbook.OpenPostgres(ctx, storeName)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q, want \"file\" or a postgres:// URL", storeName)
}

// OpenBook is the central function to open the book on the configured store.
// The returned func must be called when done.
func OpenBook(ctx context.Context) (*stockbook.Book, func(), error) {
	stockbook.Verbose = Verbose
	s, release, err := openStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open store: %w", err)
	}
	b, err := stockbook.Open(s)
	if err != nil {
		release()
		return nil, nil, err
	}
	return b, release, nil
}

// openBook opens the book for a command, reporting errors on stderr.
func openBook(ctx context.Context) (*stockbook.Book, func(), bool) {
	b, release, err := OpenBook(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the book: %v\n", err)
		return nil, nil, false
	}
	return b, release, true
}

// printMarkdown prints 'md', formatted for the terminal when stdout is one.
func printMarkdown(md string) {
	if render := markdownRenderer(); render != nil {
		md = render(md)
	}
	fmt.Fprint(stdout, md)
}

// markdownRenderer returns the glamour renderer for stdout, or nil when stdout is
// not a terminal or -plain is set.
func markdownRenderer() func(string) string {
	f, ok := stdout.(*os.File)
	if plain || !ok || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	return func(md string) string {
		out, err := glamour.Render(md, "auto")
		if err != nil {
			return md
		}
		return out
	}
}
