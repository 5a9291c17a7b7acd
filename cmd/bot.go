package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/etnz/stockbook/telegram"
	"github.com/google/subcommands"
)

type botCmd struct {
	token string
	chat  string
}

func (*botCmd) Name() string     { return "bot" }
func (*botCmd) Synopsis() string { return "answer commands on Telegram" }
func (*botCmd) Usage() string {
	return `stk bot [-token <token>] [-chat <chat id>]

  Runs a Telegram bot managing the book, until interrupted. Only the messages of the
  given chat are answered. Send /help to the bot for the list of commands.
`
}

func (c *botCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.token, "token", os.Getenv(EnvTelegramToken), "Telegram bot token")
	f.StringVar(&c.chat, "chat", os.Getenv(EnvTelegramChatID), "Id of the only chat the bot answers")
}

func (c *botCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.token == "" {
		fmt.Fprintf(os.Stderr, "Error: -token or %s is required\n", EnvTelegramToken)
		return subcommands.ExitUsageError
	}
	chatID, err := strconv.ParseInt(c.chat, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid chat id %q, set -chat or %s\n", c.chat, EnvTelegramChatID)
		return subcommands.ExitUsageError
	}

	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	bot, err := telegram.New(c.token, chatID, book, currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
