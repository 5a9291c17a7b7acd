package telegram

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/stockbook"
	"github.com/etnz/stockbook/renderer"
)

// Reply is the answer to a message: a text, and optionally a file.
type Reply struct {
	Text     string
	Document []byte
}

const help = `Commands:
/orders - list limit orders
/buy TICKER PRICE QTY - add a Buy order
/sell TICKER PRICE QTY - add a Sell order
/rmorder ID - delete an order
/watch TICKER - add to the watchlist
/unwatch TICKER - remove from the watchlist
/watchlist - show the watchlist
/tp TICKER PRICE - add a take profit target
/rmtp ID - delete a take profit target
/tplist - show the take profit targets
/export - download the backup file
Send a backup file to import it.`

// Handle executes the command in 'text' on 'book' and returns the reply.
func Handle(book *stockbook.Book, currency, text string) Reply {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Reply{Text: help}
	}
	// commands in groups are suffixed by the bot name.
	cmd, _, _ := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	args := fields[1:]

	switch cmd {
	case "start", "help":
		return Reply{Text: help}

	case "orders":
		return Reply{Text: renderer.RenderOrders(renderer.NewOrders(book.Orders.Items(), currency))}

	case "buy", "sell":
		if len(args) != 3 {
			return Reply{Text: fmt.Sprintf("usage: /%s TICKER PRICE QTY", cmd)}
		}
		o, err := book.Orders.Create(stockbook.OrderForm{Ticker: args[0], Side: cmd, LimitPrice: args[1], Quantity: args[2]})
		if err != nil {
			book.Orders.SetForm(stockbook.OrderForm{})
			return Reply{Text: err.Error()}
		}
		return Reply{Text: fmt.Sprintf("%s %s %s @ %s added (%s)", o.Side, o.Quantity, o.Ticker, o.LimitPrice, o.ID)}

	case "rmorder":
		return remove(args, "order", book.Orders.Delete)

	case "watch":
		if len(args) != 1 {
			return Reply{Text: "usage: /watch TICKER"}
		}
		t, err := book.Watchlist.Create(args[0])
		if err != nil {
			book.Watchlist.SetForm("")
			return Reply{Text: err.Error()}
		}
		return Reply{Text: fmt.Sprintf("%s added to the watchlist", t)}

	case "unwatch":
		return remove(args, "ticker", book.Watchlist.Delete)

	case "watchlist":
		return Reply{Text: renderer.RenderWatchlist(renderer.NewWatchlist(book.Watchlist.Items()))}

	case "tp":
		if len(args) != 2 {
			return Reply{Text: "usage: /tp TICKER PRICE"}
		}
		e, err := book.TPList.Create(stockbook.TPForm{Ticker: args[0], Target: args[1]})
		if err != nil {
			book.TPList.SetForm(stockbook.TPForm{})
			return Reply{Text: err.Error()}
		}
		return Reply{Text: fmt.Sprintf("take profit %s @ %s added (%s)", e.Ticker, e.Target, e.ID)}

	case "rmtp":
		return remove(args, "target", book.TPList.Delete)

	case "tplist":
		l := book.TPList
		return Reply{Text: renderer.RenderTPList(renderer.NewTPList(l.Items(), l.Duplicates()))}

	case "export":
		var buf bytes.Buffer
		if err := book.Export(&buf); err != nil {
			return Reply{Text: err.Error()}
		}
		return Reply{Text: "Backup exported.", Document: buf.Bytes()}
	}
	return Reply{Text: fmt.Sprintf("unknown command /%s\n\n%s", cmd, help)}
}

// remove deletes one entry by key.
func remove(args []string, kind string, del func(string) (bool, error)) Reply {
	if len(args) != 1 {
		return Reply{Text: fmt.Sprintf("usage: give exactly one %s", kind)}
	}
	found, err := del(args[0])
	switch {
	case err != nil:
		return Reply{Text: err.Error()}
	case !found:
		return Reply{Text: fmt.Sprintf("%s %q not found", kind, args[0])}
	}
	return Reply{Text: fmt.Sprintf("%s %s deleted", kind, args[0])}
}

// HandleImport imports the backup file read from 'r'.
func HandleImport(book *stockbook.Book, r io.Reader) Reply {
	return Reply{Text: stockbook.ImportMessage(book.Import(r))}
}
