package renderer

import (
	"strings"

	"github.com/etnz/stockbook"
)

// OrderRow is one limit order, ready to print.
type OrderRow struct {
	ID       string
	Ticker   string
	Price    string
	Quantity string
	Amount   string
}

// OrderTable is the table of the orders of one side.
type OrderTable struct {
	Title string
	Rows  []OrderRow
	Total string
}

// Orders is the limit orders view. A nil table is not displayed, nor is an empty
// TotalInvestment.
type Orders struct {
	Buy             *OrderTable
	Sell            *OrderTable
	TotalInvestment string
}

// NewOrders builds the orders view, amounts are displayed in 'currency'.
func NewOrders(orders []stockbook.LimitOrder, currency string) *Orders {
	table := func(side stockbook.Side) *OrderTable {
		list := stockbook.FilterSide(orders, side)
		t := &OrderTable{
			Title: string(side),
			Total: stockbook.Total(list).In(currency).String(),
		}
		for _, o := range list {
			t.Rows = append(t.Rows, OrderRow{
				ID:       cell(o.ID),
				Ticker:   cell(o.Ticker),
				Price:    o.LimitPrice.String(),
				Quantity: o.Quantity.String(),
				Amount:   o.Amount().In(currency).String(),
			})
		}
		return t
	}
	return &Orders{
		Buy:             table(stockbook.Buy),
		Sell:            table(stockbook.Sell),
		TotalInvestment: stockbook.TotalInvestment(orders).In(currency).String(),
	}
}

// Only keeps the table of 'side'. The total investment is made of Buy orders, it
// goes away with them.
func (o *Orders) Only(side stockbook.Side) *Orders {
	only := *o
	switch side {
	case stockbook.Buy:
		only.Sell = nil
	case stockbook.Sell:
		only.Buy = nil
		only.TotalInvestment = ""
	}
	return &only
}

// cell escapes a value for a markdown table cell.
var cell = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ").Replace

// Watchlist is the watchlist view.
type Watchlist struct {
	Tickers []string
}

// NewWatchlist builds the watchlist view.
func NewWatchlist(tickers []string) *Watchlist {
	return &Watchlist{Tickers: tickers}
}

// TPRow is one take profit target, ready to print.
type TPRow struct {
	ID     string
	Ticker string
	Target string
}

// TPList is the take profit view.
type TPList struct {
	Rows []TPRow
	// Duplicates lists the tickers that have more than one target, comma separated.
	Duplicates string
}

// NewTPList builds the take profit view.
func NewTPList(entries []stockbook.TPEntry, duplicates []string) *TPList {
	l := &TPList{Duplicates: strings.Join(duplicates, ", ")}
	for _, e := range entries {
		l.Rows = append(l.Rows, TPRow{ID: cell(e.ID), Ticker: cell(e.Ticker), Target: e.Target.String()})
	}
	return l
}
