// Command stk keeps a personal book of limit orders, a watchlist and take profit targets.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/stockbook/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.LoadEnv()
	cmd.Complete()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.SetFlags(flag.CommandLine)
	cmd.Register(commander)

	flag.Parse()

	// unknown subcommands are delegated to stk-<name> extensions.
	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
