package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/model"
)

func newTestApp(t *testing.T) *app {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("database.path", filepath.Join(t.TempDir(), "dompet.db"))

	a, err := newApp(context.Background())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return a
}

func TestAppLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	wallet := model.Wallet{Name: "Cash", Type: model.WalletTypeCash, OwnerID: "test"}
	require.NoError(t, a.wallets.Create(ctx, &wallet))
	require.NotZero(t, wallet.ID)

	txn := model.Transaction{
		ID:         uuid.NewString(),
		Type:       model.TypeExpense,
		Amount:     decimal.NewFromInt(25000),
		WalletID:   wallet.ID,
		Date:       time.Now(),
		OwnerID:    "test",
		CategoryID: a.resolver.Resolve("expense_food", model.TypeExpense),
	}
	require.NoError(t, a.updater.Create(ctx, &txn))

	got, ok := a.wallets.Get(wallet.ID)
	require.True(t, ok)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(-25000)), "got %s", got.Balance)

	require.NoError(t, a.updater.Delete(ctx, &txn))

	got, ok = a.wallets.Get(wallet.ID)
	require.True(t, ok)
	assert.True(t, got.Balance.IsZero(), "got %s", got.Balance)
}

func TestAppSeedsDefaultCategories(t *testing.T) {
	a := newTestApp(t)

	// A fresh database resolves legacy keys and falls back per direction.
	assert.Equal(t, 2, a.resolver.Resolve("expense_food", model.TypeExpense))
	assert.Equal(t, 12, a.resolver.Resolve("", model.TypeExpense))
	assert.Equal(t, 17, a.resolver.Resolve("", model.TypeIncome))
}
