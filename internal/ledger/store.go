package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/models"
)

// Store is the persistence contract for the users table and the
// append-only holdings ledger. Positions are never stored; they are
// derived from the ledger rows.
type Store interface {
	// CreateUser inserts a new user with the given starting cash.
	// Returns ErrUsernameTaken if the username exists.
	CreateUser(ctx context.Context, username, hash string, cash decimal.Decimal) (int64, error)

	// UserByName fetches a user by username, ErrUserNotFound if absent.
	UserByName(ctx context.Context, username string) (*models.User, error)

	// UserByID fetches a user by id, ErrUserNotFound if absent.
	UserByID(ctx context.Context, id int64) (*models.User, error)

	// Transactions returns every ledger row for the user in
	// insertion order. The ledger is append-only, so two calls
	// without an intervening trade return identical results.
	Transactions(ctx context.Context, userID int64) ([]models.Transaction, error)

	// Trade runs fn inside a single atomic unit with the user's row
	// locked, serializing concurrent trades for the same user. The
	// ledger append and cash update fn performs are committed
	// together or not at all.
	Trade(ctx context.Context, userID int64, fn func(TradeTx) error) error
}

// TradeTx is the view a trade sees inside Store.Trade. All reads are
// consistent with the lock held on the user row.
type TradeTx interface {
	// Cash is the user's balance as of the start of the trade.
	Cash() decimal.Decimal

	// NetShares sums the signed share counts of every ledger row the
	// user has for symbol.
	NetShares(symbol string) (int64, error)

	// Append writes one ledger row and returns its id.
	Append(t models.Transaction) (int64, error)

	// SetCash replaces the user's cash balance.
	SetCash(cash decimal.Decimal) error
}
