package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account
type User struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Hash     string          `json:"-"` // bcrypt hash, never serialized
	Cash     decimal.Decimal `json:"cash"`
}

// Transaction is one immutable ledger row. Shares is signed:
// positive for buys, negative for sells. Subtotal is always
// Shares x Price at the time the row was written.
type Transaction struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Shares    int64           `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Position is a per-symbol aggregate derived from the ledger.
// It is never stored.
type Position struct {
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name"`
	Shares  int64           `json:"shares"`
	AvgCost decimal.Decimal `json:"avg_cost"`
	Price   decimal.Decimal `json:"price"` // current live price
	Value   decimal.Decimal `json:"value"` // Shares x Price
}

// Quote is the quote provider's answer for one symbol
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// TradeRequest - what the client sends to buy or sell
type TradeRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	Shares int64  `json:"shares" binding:"required,min=1"`
}

// RegisterRequest - what the client sends to create an account
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

// LoginRequest - what the client sends to authenticate
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PortfolioResponse - what we send back for a portfolio view
type PortfolioResponse struct {
	Positions []Position      `json:"positions"`
	Cash      decimal.Decimal `json:"cash"`
	Total     decimal.Decimal `json:"total"`
	CashUSD   string          `json:"cash_usd"`
	TotalUSD  string          `json:"total_usd"`
}
