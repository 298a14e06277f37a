package db

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/config"
)

// SetupTestDB connects to the database named by TEST_DB_NAME and
// ensures the schema. Integration tests that need a real Postgres
// are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := os.Getenv("TEST_DB_NAME")
	if name == "" {
		t.Skip("TEST_DB_NAME not set; skipping Postgres integration test")
	}

	cfg := config.Load()
	cfg.DBName = name

	database, err := Open(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	return database
}

// CleanupTestDB deletes all test data
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range []string{"holdings", "users"} {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("Warning: failed to clean up table %s: %v", table, err)
		}
	}
}

// CreateTestUser inserts a user and returns its id
func CreateTestUser(t *testing.T, db *sql.DB, username string, cash decimal.Decimal) int64 {
	t.Helper()

	// Unique username per run
	uniqueUsername := fmt.Sprintf("%s_%d", username, time.Now().UnixNano())

	var userID int64
	err := db.QueryRow(
		"INSERT INTO users (username, hash, cash) VALUES ($1, $2, $3) RETURNING id",
		uniqueUsername, "not-a-real-hash", cash,
	).Scan(&userID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}
