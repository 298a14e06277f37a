package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/models"
)

// PostgresStore implements Store on top of database/sql with the
// lib/pq driver. Trade opens a transaction and takes a row-level lock
// on the user record (SELECT ... FOR UPDATE), so concurrent trades
// for the same user serialize while different users proceed in
// parallel.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, hash string, cash decimal.Decimal) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (username, hash, cash) VALUES ($1, $2, $3) RETURNING id",
		username, hash, cash,
	).Scan(&id)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return 0, ErrUsernameTaken
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UserByName(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, hash, cash FROM users WHERE username = $1", username))
}

func (s *PostgresStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, hash, cash FROM users WHERE id = $1", id))
}

func (s *PostgresStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Hash, &u.Cash)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) Transactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, user_id, stockSymbol, stockName, numberOfSharesOwned,
               purchasePrice, transactionTimeStamp, subTotal
        FROM holdings
        WHERE user_id = $1
        ORDER BY id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	txs := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Name,
			&t.Shares, &t.Price, &t.Timestamp, &t.Subtotal); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *PostgresStore) Trade(ctx context.Context, userID int64, fn func(TradeTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback() // no-op after a successful commit

	// Lock the user row for the duration of the trade. Two concurrent
	// trades for the same user cannot both read the same stale cash or
	// net-shares figure.
	var cash decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT cash FROM users WHERE id = $1 FOR UPDATE", userID,
	).Scan(&cash)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return &PersistenceError{Op: "lock user", Err: err}
	}

	if err := fn(&pgTradeTx{ctx: ctx, tx: tx, userID: userID, cash: cash}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

type pgTradeTx struct {
	ctx    context.Context
	tx     *sql.Tx
	userID int64
	cash   decimal.Decimal
}

func (t *pgTradeTx) Cash() decimal.Decimal {
	return t.cash
}

func (t *pgTradeTx) NetShares(symbol string) (int64, error) {
	var net sql.NullInt64
	err := t.tx.QueryRowContext(t.ctx, `
        SELECT SUM(numberOfSharesOwned)
        FROM holdings
        WHERE user_id = $1 AND stockSymbol = $2
    `, t.userID, symbol).Scan(&net)
	if err != nil {
		return 0, &PersistenceError{Op: "net shares", Err: err}
	}
	return net.Int64, nil
}

func (t *pgTradeTx) Append(tr models.Transaction) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(t.ctx, `
        INSERT INTO holdings (user_id, stockSymbol, stockName,
            numberOfSharesOwned, purchasePrice, transactionTimeStamp, subTotal)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `, tr.UserID, tr.Symbol, tr.Name, tr.Shares, tr.Price, tr.Timestamp, tr.Subtotal).Scan(&id)
	if err != nil {
		return 0, &PersistenceError{Op: "ledger append", Err: err}
	}
	return id, nil
}

func (t *pgTradeTx) SetCash(cash decimal.Decimal) error {
	_, err := t.tx.ExecContext(t.ctx,
		"UPDATE users SET cash = $1 WHERE id = $2", cash, t.userID)
	if err != nil {
		return &PersistenceError{Op: "cash update", Err: err}
	}
	return nil
}
