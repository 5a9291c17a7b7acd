package agent

import (
	"context"

	"github.com/etnz/stockbook"
	"github.com/etnz/stockbook/docs"
	"github.com/etnz/stockbook/renderer"
	"google.golang.org/genai"
)

// view declares a function without parameters returning a markdown view.
func view(name, description string, render func() string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown document.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return &genai.FunctionResponse{
				ID:       id,
				Name:     name,
				Response: map[string]any{"output": render()},
			}
		},
	}
}

// Tools returns the functions reading the lists of 'book'. Amounts are displayed in 'currency'.
func Tools(book *stockbook.Book, currency string) []Function {
	topics := must(docs.GetAllTopics())
	return []Function{
		view("orders", `Lists the user's limit orders: the Buy orders, the Sell orders, and the total investment
		(the sum of limit price times quantity of the Buy orders).`, func() string {
			book.Reload()
			return renderer.RenderOrders(renderer.NewOrders(book.Orders.Items(), currency))
		}),
		view("watchlist", `Lists the tickers the user is watching, most recent first.`, func() string {
			book.Reload()
			return renderer.RenderWatchlist(renderer.NewWatchlist(book.Watchlist.Items()))
		}),
		view("tplist", `Lists the user's take profit targets: the price at which they intend to exit a position.
		Tickers with several targets are reported.`, func() string {
			book.Reload()
			l := book.TPList
			return renderer.RenderTPList(renderer.NewTPList(l.Items(), l.Duplicates()))
		}),
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "topic",
				Description: "Returns the documentation of the stk tool on a given topic.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {
							Type:        genai.TypeString,
							Description: "The name of the topic.",
							Enum:        topics,
						},
					},
					Required: []string{"name"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown document.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				resp := &genai.FunctionResponse{ID: id, Name: "topic"}
				name, err := stringArg(args, "name")
				if err != nil {
					resp.Response = errorResponse(err)
					return resp
				}
				doc, err := docs.GetTopic(name)
				if err != nil {
					resp.Response = errorResponse(err)
					return resp
				}
				resp.Response = map[string]any{"output": doc}
				return resp
			},
		},
	}
}
