package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jspittman/stockledger/internal/ledger"
	"github.com/jspittman/stockledger/internal/models"
)

// BuyStock handles POST /api/trades/buy
func (h *Handler) BuyStock(c *gin.Context) {
	h.trade(c, ledger.Buy)
}

// SellStock handles POST /api/trades/sell
func (h *Handler) SellStock(c *gin.Context) {
	h.trade(c, ledger.Sell)
}

func (h *Handler) trade(c *gin.Context, dir ledger.Direction) {
	var req models.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conf, err := h.Processor.SubmitTrade(c.Request.Context(), req.UserID, req.Symbol, req.Shares, dir)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Trade executed successfully",
		"confirmation": conf,
	})
}

// GetPortfolio handles GET /api/portfolio/:userId
func (h *Handler) GetPortfolio(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.Store.UserByID(c.Request.Context(), userID)
	if err != nil {
		h.abort(c, err)
		return
	}

	positions, err := h.Aggregator.Summary(c.Request.Context(), userID)
	if err != nil {
		h.abort(c, err)
		return
	}

	total := user.Cash
	for _, p := range positions {
		total = total.Add(p.Value)
	}

	c.JSON(http.StatusOK, models.PortfolioResponse{
		Positions: positions,
		Cash:      user.Cash,
		Total:     total,
		CashUSD:   models.USD(user.Cash),
		TotalUSD:  models.USD(total),
	})
}

// GetTradeHistory handles GET /api/trades/:userId
func (h *Handler) GetTradeHistory(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	txs, err := h.Aggregator.History(c.Request.Context(), userID)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"count":        len(txs),
	})
}

// GetQuote handles GET /api/quote/:symbol
func (h *Handler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")

	quote, err := h.Quotes.Lookup(c.Request.Context(), symbol)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":    quote.Symbol,
		"name":      quote.Name,
		"price":     quote.Price,
		"price_usd": models.USD(quote.Price),
	})
}

func userIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("userId"), 10, 64)
}
