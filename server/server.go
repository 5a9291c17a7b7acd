// Package server exposes a stockbook over a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/etnz/stockbook"
	"github.com/gin-gonic/gin"
)

// Server serves one Book. Requests are handled one at a time.
type Server struct {
	mu       sync.Mutex
	book     *stockbook.Book
	currency string
}

// New returns a server on 'book', displaying totals in 'currency'.
func New(book *stockbook.Book, currency string) *Server {
	return &Server{book: book, currency: currency}
}

// Handler returns the http.Handler of the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.serialize)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/orders", s.listOrders)
	api.POST("/orders", s.createOrder)
	api.PUT("/orders/:id", s.updateOrder)
	api.DELETE("/orders/:id", s.deleteOrder)

	api.GET("/watchlist", s.listWatchlist)
	api.POST("/watchlist", s.createWatch)
	api.DELETE("/watchlist/:ticker", s.deleteWatch)

	api.GET("/tplist", s.listTP)
	api.POST("/tplist", s.createTP)
	api.PUT("/tplist/:id", s.updateTP)
	api.DELETE("/tplist/:id", s.deleteTP)

	api.GET("/export", s.export)
	api.POST("/import", s.importBackup)
	return r
}

// serialize runs one request at a time, on lists freshly read from the store.
func (s *Server) serialize(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book.Reload()
	c.Next()
}

// status maps an error to its HTTP status code.
func status(err error) int {
	switch {
	case errors.Is(err, stockbook.ErrValidation), errors.Is(err, stockbook.ErrImportParse):
		return http.StatusBadRequest
	case errors.Is(err, stockbook.ErrDuplicate), errors.Is(err, stockbook.ErrEditing), errors.Is(err, stockbook.ErrNotEditing):
		return http.StatusConflict
	case errors.Is(err, stockbook.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, stockbook.ErrImportSchema):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		log.Printf("api-error path=%q err=%q", c.Request.URL.Path, err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, stockbook.ErrNotFound)
}

// orderRequest is the body of order creation and update. Absent fields are left unchanged on update.
type orderRequest struct {
	Ticker     string      `json:"ticker"`
	Side       string      `json:"type"`
	LimitPrice json.Number `json:"limitPrice"`
	Quantity   json.Number `json:"quantity"`
}

func (r orderRequest) form() stockbook.OrderForm {
	return stockbook.OrderForm{
		Ticker:     r.Ticker,
		Side:       r.Side,
		LimitPrice: r.LimitPrice.String(),
		Quantity:   r.Quantity.String(),
	}
}

func (s *Server) listOrders(c *gin.Context) {
	o := s.book.Orders
	c.JSON(http.StatusOK, gin.H{
		"orders":          o.Items(),
		"buys":            o.Buys(),
		"sells":           o.Sells(),
		"totalInvestment": o.TotalInvestment().In(s.currency),
	})
}

func (s *Server) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", stockbook.ErrValidation, err))
		return
	}
	o, err := s.book.Orders.Create(req.form())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (s *Server) updateOrder(c *gin.Context) {
	id := c.Param("id")
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", stockbook.ErrValidation, err))
		return
	}
	orders := s.book.Orders
	if !orders.BeginEdit(id) {
		fail(c, notFound("order", id))
		return
	}
	o, err := orders.Update(id, orders.Form().Merge(req.form()))
	if err != nil {
		orders.CancelEdit()
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) deleteOrder(c *gin.Context) {
	id := c.Param("id")
	found, err := s.book.Orders.Delete(id)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		fail(c, notFound("order", id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"watchlist": s.book.Watchlist.Items()})
}

func (s *Server) createWatch(c *gin.Context) {
	var req struct {
		Ticker string `json:"ticker"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", stockbook.ErrValidation, err))
		return
	}
	t, err := s.book.Watchlist.Create(req.Ticker)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticker": t})
}

func (s *Server) deleteWatch(c *gin.Context) {
	t := c.Param("ticker")
	found, err := s.book.Watchlist.Delete(t)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		fail(c, notFound("ticker", t))
		return
	}
	c.Status(http.StatusNoContent)
}

type tpRequest struct {
	Ticker string      `json:"ticker"`
	Target json.Number `json:"target"`
}

func (r tpRequest) form() stockbook.TPForm {
	return stockbook.TPForm{Ticker: r.Ticker, Target: r.Target.String()}
}

func (s *Server) listTP(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tplist":     s.book.TPList.Items(),
		"duplicates": s.book.TPList.Duplicates(),
	})
}

func (s *Server) createTP(c *gin.Context) {
	var req tpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", stockbook.ErrValidation, err))
		return
	}
	e, err := s.book.TPList.Create(req.form())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) updateTP(c *gin.Context) {
	id := c.Param("id")
	var req tpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", stockbook.ErrValidation, err))
		return
	}
	tp := s.book.TPList
	if !tp.BeginEdit(id) {
		fail(c, notFound("target", id))
		return
	}
	e, err := tp.Update(id, tp.Form().Merge(req.form()))
	if err != nil {
		tp.CancelEdit()
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) deleteTP(c *gin.Context) {
	id := c.Param("id")
	found, err := s.book.TPList.Delete(id)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		fail(c, notFound("target", id))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) export(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.book.Export(&buf); err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stockbook.BackupFilename))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

func (s *Server) importBackup(c *gin.Context) {
	err := s.book.Import(c.Request.Body)
	if err != nil {
		c.JSON(status(err), gin.H{"error": stockbook.ImportMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": stockbook.ImportMessage(nil)})
}
