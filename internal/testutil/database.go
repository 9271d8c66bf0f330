package testutil

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"albumdex/internal/database"
)

// NewTestDatabase creates a new in-memory SQLite database with schema applied
// and the cheapest bcrypt cost. The database runs on FixedClock and is closed
// when the test completes.
func NewTestDatabase(t *testing.T) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:", FixedClock())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := db.MigrateUp(); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	db.SetHashCost(bcrypt.MinCost)
	return db
}
