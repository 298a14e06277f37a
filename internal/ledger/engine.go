package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/models"
	"github.com/jspittman/stockledger/internal/quotes"
)

// Direction of a trade
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Confirmation describes one executed trade
type Confirmation struct {
	TradeID  int64           `json:"trade_id"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Shares   int64           `json:"shares"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Cash     decimal.Decimal `json:"cash"` // balance after the trade
}

// Engine validates and applies buys and sells. Every successful call
// appends exactly one ledger row and updates cash once, atomically;
// every failure leaves no state behind.
type Engine struct {
	store  Store
	quotes quotes.Provider
	log    zerolog.Logger
	now    func() time.Time
}

func NewEngine(store Store, provider quotes.Provider, log zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		quotes: provider,
		log:    log.With().Str("component", "engine").Logger(),
		now:    time.Now,
	}
}

// ExecuteTrade buys or sells shares at the current live quote.
//
// Both directions record the live price: a sell row's price is the
// realized sale price, not the original purchase price. That is what
// keeps cash reconcilable against the sum of subtotals.
func (e *Engine) ExecuteTrade(ctx context.Context, userID int64, symbol string, shares int64, dir Direction) (*Confirmation, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, validationf("symbol must not be blank")
	}
	if shares <= 0 {
		return nil, validationf("shares must be a positive whole number")
	}
	if dir != Buy && dir != Sell {
		return nil, validationf("direction must be BUY or SELL")
	}

	quote, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var conf *Confirmation
	err = e.store.Trade(ctx, userID, func(tx TradeTx) error {
		switch dir {
		case Buy:
			conf, err = e.buy(tx, userID, quote, shares)
		case Sell:
			conf, err = e.sell(tx, userID, quote, shares)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Int64("user_id", userID).
		Str("symbol", symbol).
		Str("direction", string(dir)).
		Int64("shares", shares).
		Str("price", quote.Price.String()).
		Int64("trade_id", conf.TradeID).
		Msg("trade executed")

	return conf, nil
}

func (e *Engine) buy(tx TradeTx, userID int64, quote *models.Quote, shares int64) (*Confirmation, error) {
	cost := quote.Price.Mul(decimal.NewFromInt(shares))
	cash := tx.Cash()

	if cost.GreaterThan(cash) {
		return nil, ErrInsufficientFunds
	}

	id, err := tx.Append(models.Transaction{
		UserID:    userID,
		Symbol:    quote.Symbol,
		Name:      quote.Name,
		Shares:    shares,
		Price:     quote.Price,
		Timestamp: e.now(),
		Subtotal:  cost,
	})
	if err != nil {
		return nil, err
	}

	newCash := cash.Sub(cost)
	if err := tx.SetCash(newCash); err != nil {
		return nil, err
	}

	return &Confirmation{
		TradeID:  id,
		Symbol:   quote.Symbol,
		Name:     quote.Name,
		Shares:   shares,
		Price:    quote.Price,
		Subtotal: cost,
		Cash:     newCash,
	}, nil
}

func (e *Engine) sell(tx TradeTx, userID int64, quote *models.Quote, shares int64) (*Confirmation, error) {
	held, err := tx.NetShares(quote.Symbol)
	if err != nil {
		return nil, err
	}
	if shares > held {
		return nil, ErrInsufficientShares
	}

	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))
	subtotal := proceeds.Neg()

	id, err := tx.Append(models.Transaction{
		UserID:    userID,
		Symbol:    quote.Symbol,
		Name:      quote.Name,
		Shares:    -shares,
		Price:     quote.Price,
		Timestamp: e.now(),
		Subtotal:  subtotal,
	})
	if err != nil {
		return nil, err
	}

	newCash := tx.Cash().Add(proceeds)
	if err := tx.SetCash(newCash); err != nil {
		return nil, err
	}

	return &Confirmation{
		TradeID:  id,
		Symbol:   quote.Symbol,
		Name:     quote.Name,
		Shares:   -shares,
		Price:    quote.Price,
		Subtotal: subtotal,
		Cash:     newCash,
	}, nil
}
