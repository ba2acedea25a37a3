// Package testutil provides shared test fixtures for database-backed tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite store with automatic
// cleanup.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedExpense inserts one expense and returns it with identity filled in.
func SeedExpense(t *testing.T, store *storage.SQLiteStorage, userID string, amount model.Money, description string, category model.Category, date time.Time) *model.Expense {
	t.Helper()

	expense := &model.Expense{
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
	}
	if err := store.CreateExpense(context.Background(), expense); err != nil {
		t.Fatalf("failed to seed expense %q: %v", description, err)
	}
	return expense
}
