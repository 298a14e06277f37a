package quotes

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/models"
)

// Simulator is an in-process quote provider over a fixed universe of
// symbols. Each Tick nudges one price by a random walk of up to ±2%,
// which also drives the WebSocket price stream.
type Simulator struct {
	mu     sync.RWMutex
	names  map[string]string
	prices map[string]decimal.Decimal
	order  []string
	rng    *rand.Rand
}

// PriceUpdate is one simulated tick
type PriceUpdate struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	ChangePct float64         `json:"change_pct"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSimulator seeds the default universe
func NewSimulator() *Simulator {
	s := &Simulator{
		names:  make(map[string]string),
		prices: make(map[string]decimal.Decimal),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.Add("AAPL", "Apple Inc.", decimal.NewFromInt(150))
	s.Add("GOOGL", "Alphabet Inc.", decimal.NewFromInt(140))
	s.Add("MSFT", "Microsoft Corporation", decimal.NewFromInt(380))
	s.Add("TSLA", "Tesla Inc.", decimal.NewFromInt(250))
	s.Add("AMZN", "Amazon.com Inc.", decimal.NewFromInt(180))
	return s
}

// Add registers (or overwrites) a symbol in the universe
func (s *Simulator) Add(symbol, name string, price decimal.Decimal) {
	symbol = strings.ToUpper(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[symbol]; !ok {
		s.order = append(s.order, symbol)
	}
	s.names[symbol] = name
	s.prices[symbol] = price
}

func (s *Simulator) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.names[symbol]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return &models.Quote{Symbol: symbol, Name: name, Price: s.prices[symbol]}, nil
}

// Tick picks a random symbol, moves its price by -2%..+2%, and
// returns the update.
func (s *Simulator) Tick() PriceUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := s.order[s.rng.Intn(len(s.order))]
	changePct := (s.rng.Float64() - 0.5) * 4

	factor := decimal.NewFromFloat(1 + changePct/100)
	newPrice := s.prices[symbol].Mul(factor).Round(2)
	if !newPrice.IsPositive() {
		newPrice = decimal.NewFromFloat(0.01)
	}
	s.prices[symbol] = newPrice

	return PriceUpdate{
		Symbol:    symbol,
		Price:     newPrice,
		ChangePct: changePct,
		Timestamp: time.Now(),
	}
}
