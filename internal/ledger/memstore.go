package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/models"
)

// MemStore is an in-memory Store with the same semantics as
// PostgresStore: the ledger is append-only and Trade serializes per
// user. It backs demo mode and the engine/aggregator tests.
type MemStore struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	byName map[string]int64
	rows   []models.Transaction
	nextID int64
	nextTx int64

	locks *UserLocker
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:  make(map[int64]*models.User),
		byName: make(map[string]int64),
		locks:  NewUserLocker(),
	}
}

func (s *MemStore) CreateUser(ctx context.Context, username, hash string, cash decimal.Decimal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[username]; ok {
		return 0, ErrUsernameTaken
	}

	s.nextID++
	u := &models.User{ID: s.nextID, Username: username, Hash: hash, Cash: cash}
	s.users[u.ID] = u
	s.byName[username] = u.ID
	return u.ID, nil
}

func (s *MemStore) UserByName(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemStore) Transactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]models.Transaction, 0)
	for _, t := range s.rows {
		if t.UserID == userID {
			txs = append(txs, t)
		}
	}
	return txs, nil
}

func (s *MemStore) Trade(ctx context.Context, userID int64, fn func(TradeTx) error) error {
	// Per-user lock plays the role of the Postgres row lock.
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	s.mu.RLock()
	u, ok := s.users[userID]
	s.mu.RUnlock()
	if !ok {
		return ErrUserNotFound
	}

	tx := &memTradeTx{store: s, userID: userID, cash: u.Cash}
	if err := fn(tx); err != nil {
		return err // nothing staged is applied
	}

	// Commit: apply the staged append and cash update together.
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range tx.appended {
		s.rows = append(s.rows, tx.appended[i])
	}
	if tx.cashSet {
		s.users[userID].Cash = tx.cash
	}
	return nil
}

type memTradeTx struct {
	store    *MemStore
	userID   int64
	cash     decimal.Decimal
	cashSet  bool
	appended []models.Transaction
}

func (t *memTradeTx) Cash() decimal.Decimal {
	return t.cash
}

func (t *memTradeTx) NetShares(symbol string) (int64, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var net int64
	for _, row := range t.store.rows {
		if row.UserID == t.userID && row.Symbol == symbol {
			net += row.Shares
		}
	}
	return net, nil
}

func (t *memTradeTx) Append(tr models.Transaction) (int64, error) {
	t.store.mu.Lock()
	t.store.nextTx++
	tr.ID = t.store.nextTx
	t.store.mu.Unlock()

	if tr.Timestamp.IsZero() {
		tr.Timestamp = time.Now()
	}
	t.appended = append(t.appended, tr)
	return tr.ID, nil
}

func (t *memTradeTx) SetCash(cash decimal.Decimal) error {
	t.cash = cash
	t.cashSet = true
	return nil
}
