// Package quotes resolves stock symbols to a current name and price.
package quotes

import (
	"context"
	"errors"

	"github.com/jspittman/stockledger/internal/models"
)

// ErrSymbolNotFound means the provider does not know the symbol.
// It is distinct from a transient provider failure, which surfaces
// as any other error.
var ErrSymbolNotFound = errors.New("symbol not found")

// Provider looks up the current quote for a symbol.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*models.Quote, error)
}
