// Package stockbook keeps a personal record of pending limit orders, a watchlist
// of tickers and take-profit targets. It is local-first: the three lists live in
// a key-value Store the user owns (a folder of JSON files, or a PostgreSQL table).
//
// The core functionalities include:
//   - Record Store: Load and Save of one list per namespaced key
//     ('limitOrders', 'watchlist', 'tplist') on top of any Store.
//   - List controllers: Orders, Watchlist and TPList share the same idle/editing
//     state machine, and persist the whole list on every change.
//   - Backup: Export and Import of the three lists as one human-readable JSON
//     document.
//
// Orders are only records: nothing is ever sent to a market. The only
// computation is the total investment of Buy orders.
//
// This package serves as the foundational logic for the `stk` command-line tool
// and its HTTP, Telegram and assistant frontends.
package stockbook
