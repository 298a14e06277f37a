// Package accounts handles registration and authentication against
// the users table. Passwords are stored as bcrypt hashes only.
package accounts

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jspittman/stockledger/internal/ledger"
	"github.com/jspittman/stockledger/internal/models"
)

// ErrBadCredentials is deliberately uniform: it does not say whether
// the username or the password was wrong.
var ErrBadCredentials = errors.New("incorrect username or password")

type Manager struct {
	store        ledger.Store
	startingCash decimal.Decimal
	log          zerolog.Logger
}

func NewManager(store ledger.Store, startingCash decimal.Decimal, log zerolog.Logger) *Manager {
	return &Manager{
		store:        store,
		startingCash: startingCash,
		log:          log.With().Str("component", "accounts").Logger(),
	}
}

// Register creates a user with the fixed starting cash balance.
func (m *Manager) Register(ctx context.Context, username, password, confirmation string) (*models.User, error) {
	if username == "" {
		return nil, &ledger.ValidationError{Message: "username was blank, please try again"}
	}
	if password == "" {
		return nil, &ledger.ValidationError{Message: "password was blank, please try again"}
	}
	if confirmation == "" {
		return nil, &ledger.ValidationError{Message: "confirmation was blank, please try again"}
	}
	if password != confirmation {
		return nil, &ledger.ValidationError{Message: "password did not match confirmation, please try again"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := m.store.CreateUser(ctx, username, string(hash), m.startingCash)
	if err != nil {
		return nil, err
	}

	m.log.Info().Int64("user_id", id).Str("username", username).Msg("user registered")

	return &models.User{ID: id, Username: username, Cash: m.startingCash}, nil
}

// Authenticate verifies a username/password pair with a one-way
// comparison and returns the user on success.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrBadCredentials
	}

	user, err := m.store.UserByName(ctx, username)
	if errors.Is(err, ledger.ErrUserNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}
