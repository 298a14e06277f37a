package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/jspittman/stockledger/internal/config"
)

// Open connects to Postgres and configures the connection pool.
func Open(cfg config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// EnsureSchema creates the two tables if they do not exist. There is
// no migration machinery; the schema is fixed.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            hash TEXT NOT NULL,
            cash NUMERIC(18,2) NOT NULL CHECK (cash >= 0)
        );

        CREATE TABLE IF NOT EXISTS holdings (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            stockSymbol TEXT NOT NULL,
            stockName TEXT NOT NULL,
            numberOfSharesOwned BIGINT NOT NULL,
            purchasePrice NUMERIC(18,2) NOT NULL,
            transactionTimeStamp TIMESTAMPTZ NOT NULL,
            subTotal NUMERIC(18,2) NOT NULL
        );

        CREATE INDEX IF NOT EXISTS holdings_user_symbol
            ON holdings (user_id, stockSymbol);
    `)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
