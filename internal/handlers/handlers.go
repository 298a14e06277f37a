package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jspittman/stockledger/internal/accounts"
	"github.com/jspittman/stockledger/internal/ledger"
	"github.com/jspittman/stockledger/internal/quotes"
)

// Handler holds the wired-up components behind the HTTP surface.
// User ids are explicit request parameters; there is no session state.
type Handler struct {
	Processor  *ledger.Processor
	Aggregator *ledger.Aggregator
	Accounts   *accounts.Manager
	Store      ledger.Store
	Quotes     quotes.Provider
	Simulator  *quotes.Simulator
	Log        zerolog.Logger
}

// Routes registers the API on the router
func (h *Handler) Routes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.GET("/quote/:symbol", h.GetQuote)

		api.POST("/trades/buy", h.BuyStock)
		api.POST("/trades/sell", h.SellStock)
		api.GET("/trades/:userId", h.GetTradeHistory)
		api.GET("/portfolio/:userId", h.GetPortfolio)
	}

	if h.Simulator != nil {
		router.GET("/ws/prices", h.HandleWebSocket)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

// abort maps domain errors to HTTP status codes and ends the request
func (h *Handler) abort(c *gin.Context, err error) {
	var vErr *ledger.ValidationError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientShares):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, quotes.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid symbol, please try again"})
	case errors.Is(err, ledger.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, ledger.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "sorry, username already exists"})
	case errors.Is(err, accounts.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
