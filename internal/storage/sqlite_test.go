package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/model"
)

func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func createTestWallet(t *testing.T, store *SQLiteStorage, name string, balance int64) *model.Wallet {
	t.Helper()
	wallet := &model.Wallet{
		Name:    name,
		Type:    model.WalletTypeBank,
		Balance: decimal.NewFromInt(balance),
		OwnerID: "test-user",
	}
	require.NoError(t, store.CreateWallet(context.Background(), wallet))
	return wallet
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Running migrations a second time is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestMigrate_SeedsDefaultCategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cats, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 18)

	food, err := store.GetCategoryByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "expense_food", food.Key)
	require.Equal(t, "Food & Drink", food.NameEN)
	require.True(t, food.IsDefault())

	transfer, err := store.GetCategoryByID(ctx, 18)
	require.NoError(t, err)
	require.Equal(t, model.CategoryTypeSystem, transfer.Type)
}

func testTransaction(wallet *model.Wallet, id string, amount int64, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:         id,
		Type:       model.TypeExpense,
		Amount:     decimal.NewFromInt(amount),
		CategoryID: 2,
		Date:       date,
		WalletID:   wallet.ID,
		OwnerID:    "test-user",
	}
}
