package cmd

import (
	"github.com/etnz/stockbook/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion returns the completion tree of stk.
func completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	sides := predict.Set{"Buy", "Sell"}

	order := map[string]complete.Predictor{
		"ticker": predict.Something,
		"side":   sides,
		"price":  predict.Something,
		"qty":    predict.Something,
	}
	editOrder := map[string]complete.Predictor{"id": predict.Something}
	for k, v := range order {
		editOrder[k] = v
	}
	tp := map[string]complete.Predictor{
		"ticker": predict.Something,
		"target": predict.Something,
	}
	editTP := map[string]complete.Predictor{"id": predict.Something}
	for k, v := range tp {
		editTP[k] = v
	}

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"add-order":  {Flags: order},
			"edit-order": {Flags: editOrder},
			"rm-order":   {Args: predict.Something},
			"orders":     {Flags: map[string]complete.Predictor{"side": sides}},
			"watch":      {Flags: map[string]complete.Predictor{"replace": predict.Something}, Args: predict.Something},
			"unwatch":    {Args: predict.Something},
			"watchlist":  {Flags: map[string]complete.Predictor{"sorted": predict.Nothing}},
			"add-tp":     {Flags: tp},
			"edit-tp":    {Flags: editTP},
			"rm-tp":      {Args: predict.Something},
			"tplist":     {},
			"export":     {Flags: map[string]complete.Predictor{"o": predict.Files("*.json")}},
			"import":     {Args: predict.Files("*.json")},
			"query":      {Args: predict.Something},
			"serve":      {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"bot":        {Flags: map[string]complete.Predictor{"token": predict.Something, "chat": predict.Something}},
			"assist":     {Args: predict.Something},
			"topic":      {Flags: map[string]complete.Predictor{"l": predict.Nothing}, Args: predict.Set(topics)},
			"help":       {},
			"flags":      {},
			"commands":   {},
		},
		Flags: map[string]complete.Predictor{
			"data-dir": predict.Dirs("*"),
			"store":    predict.Set{"file", "postgres://"},
			"currency": predict.Set{"USD", "EUR", "GBP", "JPY", "CHF"},
			"plain":    predict.Nothing,
			"v":        predict.Nothing,
		},
	}
}

// Complete answers the shell completion request in COMP_LINE, if any, and exits.
// It returns otherwise.
func Complete() {
	completion().Complete("stk")
}
