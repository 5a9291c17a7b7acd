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

// orderFlags declares the fields of the order form as flags.
type orderFlags struct {
	form stockbook.OrderForm
}

func (o *orderFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&o.form.Ticker, "ticker", "", "Ticker of the stock, at most 8 characters")
	f.StringVar(&o.form.Side, "side", "", "Buy or Sell (default Buy)")
	f.StringVar(&o.form.LimitPrice, "price", "", "Limit price, greater than 0")
	f.StringVar(&o.form.Quantity, "qty", "", "Quantity, a whole number of shares")
}

func describe(o stockbook.LimitOrder) string {
	return fmt.Sprintf("%s %s %s @ %s", o.Side, o.Quantity, o.Ticker, o.LimitPrice)
}

type addOrderCmd struct {
	orderFlags
}

func (*addOrderCmd) Name() string     { return "add-order" }
func (*addOrderCmd) Synopsis() string { return "add a limit order" }
func (*addOrderCmd) Usage() string {
	return `stk add-order -ticker <ticker> [-side Buy|Sell] -price <price> -qty <quantity>

  Adds a limit order at the top of the list.
`
}

func (c *addOrderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	o, err := book.Orders.Create(c.form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding order: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Added order %s: %s\n", o.ID, describe(o))
	return subcommands.ExitSuccess
}

type editOrderCmd struct {
	orderFlags
	id string
}

func (*editOrderCmd) Name() string     { return "edit-order" }
func (*editOrderCmd) Synopsis() string { return "edit a limit order" }
func (*editOrderCmd) Usage() string {
	return `stk edit-order -id <id> [-ticker <ticker>] [-side Buy|Sell] [-price <price>] [-qty <quantity>]

  Changes the given fields of an order. The order keeps its id and position.
`
}

func (c *editOrderCmd) SetFlags(f *flag.FlagSet) {
	c.orderFlags.SetFlags(f)
	f.StringVar(&c.id, "id", "", "Id of the order to edit")
}

func (c *editOrderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		return subcommands.ExitUsageError
	}
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	orders := book.Orders
	if !orders.BeginEdit(c.id) {
		fmt.Fprintf(os.Stderr, "Error: order %q not found\n", c.id)
		return subcommands.ExitFailure
	}
	o, err := orders.Update(c.id, orders.Form().Merge(c.form))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error editing order: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Updated order %s: %s\n", o.ID, describe(o))
	return subcommands.ExitSuccess
}

type rmOrderCmd struct{}

func (*rmOrderCmd) Name() string     { return "rm-order" }
func (*rmOrderCmd) Synopsis() string { return "delete limit orders" }
func (*rmOrderCmd) Usage() string {
	return `stk rm-order <id>...

  Deletes the orders with the given ids.
`
}
func (*rmOrderCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmOrderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one order id is required")
		return subcommands.ExitUsageError
	}
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()
	return removeAll(f.Args(), "order", book.Orders.Delete)
}

// removeAll deletes every key, reporting the unknown ones.
func removeAll(keys []string, kind string, del func(string) (bool, error)) subcommands.ExitStatus {
	status := subcommands.ExitSuccess
	for _, k := range keys {
		found, err := del(k)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error deleting %s %q: %v\n", kind, k, err)
			return subcommands.ExitFailure
		case !found:
			fmt.Fprintf(os.Stderr, "Error: %s %q not found\n", kind, k)
			status = subcommands.ExitFailure
		default:
			fmt.Fprintf(stdout, "Deleted %s %s\n", kind, k)
		}
	}
	return status
}

type ordersCmd struct {
	side string
}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "list limit orders" }
func (*ordersCmd) Usage() string {
	return `stk orders [-side Buy|Sell]

  Lists the Buy and Sell orders, and the total investment.
  With -side, only the orders of that side are listed; the total
  investment is only shown with the Buy orders.
`
}

func (c *ordersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.side, "side", "", "Only list the orders of this side")
}

func (c *ordersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, release, ok := openBook(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer release()

	view := renderer.NewOrders(book.Orders.Items(), currency)
	if c.side != "" {
		side, err := stockbook.ParseSide(c.side)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		view = view.Only(side)
	}
	printMarkdown(renderer.RenderOrders(view))
	return subcommands.ExitSuccess
}
