package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/models"
	"github.com/jspittman/stockledger/internal/quotes"
)

// Aggregator derives positions and portfolio value from the ledger.
// Nothing here is persisted; every read recomputes from the rows.
type Aggregator struct {
	store  Store
	quotes quotes.Provider
}

func NewAggregator(store Store, provider quotes.Provider) *Aggregator {
	return &Aggregator{store: store, quotes: provider}
}

// Summary groups the user's ledger rows by symbol and returns one
// Position per symbol with a nonzero net share count, priced at the
// current live quote. Fully exited positions are dropped.
//
// If a held symbol can no longer be quoted (delisted, provider gap),
// Summary fails rather than silently omitting the position.
func (a *Aggregator) Summary(ctx context.Context, userID int64) ([]models.Position, error) {
	txs, err := a.store.Transactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	type acc struct {
		name   string
		shares int64
		cost   decimal.Decimal
	}
	bySymbol := make(map[string]*acc)
	order := make([]string, 0)

	for _, t := range txs {
		s, ok := bySymbol[t.Symbol]
		if !ok {
			s = &acc{}
			bySymbol[t.Symbol] = s
			order = append(order, t.Symbol)
		}
		s.name = t.Name
		s.shares += t.Shares
		s.cost = s.cost.Add(t.Subtotal)
	}
	sort.Strings(order)

	positions := make([]models.Position, 0, len(bySymbol))
	for _, symbol := range order {
		s := bySymbol[symbol]
		if s.shares == 0 {
			continue
		}

		quote, err := a.quotes.Lookup(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("pricing held position %s: %w", symbol, err)
		}

		shares := decimal.NewFromInt(s.shares)
		positions = append(positions, models.Position{
			Symbol:  symbol,
			Name:    s.name,
			Shares:  s.shares,
			AvgCost: s.cost.Div(shares).Round(2),
			Price:   quote.Price,
			Value:   quote.Price.Mul(shares),
		})
	}
	return positions, nil
}

// History returns every ledger row for the user in insertion order,
// with the historical transaction prices. It is an audit trail and is
// never aggregated or repriced.
func (a *Aggregator) History(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return a.store.Transactions(ctx, userID)
}

// PortfolioValue is cash plus the current value of every open
// position. Purely derived; callers wanting the breakdown use Summary.
func (a *Aggregator) PortfolioValue(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := a.store.UserByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	positions, err := a.Summary(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	total := user.Cash
	for _, p := range positions {
		total = total.Add(p.Value)
	}
	return total, nil
}
