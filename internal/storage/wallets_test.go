package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/common"
)

func TestWalletCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	wallet := createTestWallet(t, store, "BCA", 100000)
	require.NotZero(t, wallet.ID)

	t.Run("get by id", func(t *testing.T) {
		got, err := store.GetWalletByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, "BCA", got.Name)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(100000)))
		assert.EqualValues(t, 0, got.Version)
	})

	t.Run("get missing wallet", func(t *testing.T) {
		_, err := store.GetWalletByID(ctx, 9999)
		assert.ErrorIs(t, err, common.ErrWalletNotFound)
	})

	t.Run("update display fields leaves balance alone", func(t *testing.T) {
		wallet.Name = "BCA Utama"
		wallet.Color = "#0060AF"
		wallet.Balance = decimal.NewFromInt(42) // must be ignored
		require.NoError(t, store.UpdateWallet(ctx, wallet))

		got, err := store.GetWalletByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, "BCA Utama", got.Name)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("list", func(t *testing.T) {
		createTestWallet(t, store, "Cash", 5000)
		wallets, err := store.GetWallets(ctx)
		require.NoError(t, err)
		assert.Len(t, wallets, 2)
	})

	t.Run("delete", func(t *testing.T) {
		extra := createTestWallet(t, store, "Temp", 0)
		require.NoError(t, store.DeleteWallet(ctx, extra.ID))
		_, err := store.GetWalletByID(ctx, extra.ID)
		assert.ErrorIs(t, err, common.ErrWalletNotFound)
	})
}

func TestUpdateWalletBalance_VersionToken(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	wallet := createTestWallet(t, store, "BCA", 100000)

	t.Run("matched version writes and bumps", func(t *testing.T) {
		err := store.UpdateWalletBalance(ctx, wallet.ID, decimal.NewFromInt(150000), 0)
		require.NoError(t, err)

		got, err := store.GetWalletByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(150000)))
		assert.EqualValues(t, 1, got.Version)
	})

	t.Run("stale version conflicts and writes nothing", func(t *testing.T) {
		err := store.UpdateWalletBalance(ctx, wallet.ID, decimal.NewFromInt(999), 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrVersionConflict)
		assert.True(t, common.IsRetryable(err))

		got, err := store.GetWalletByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(150000)))
	})

	t.Run("missing wallet is not a conflict", func(t *testing.T) {
		err := store.UpdateWalletBalance(ctx, 9999, decimal.NewFromInt(1), 0)
		assert.ErrorIs(t, err, common.ErrWalletNotFound)
		assert.False(t, errors.Is(err, common.ErrVersionConflict))
	})
}

func TestDeleteWallet_WithTransactionsRefused(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	wallet := createTestWallet(t, store, "BCA", 100000)
	txn := testTransaction(wallet, "txn-1", 5000, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.CreateTransaction(ctx, txn))

	err := store.DeleteWallet(ctx, wallet.ID)
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))

	// Wallet survives.
	_, err = store.GetWalletByID(ctx, wallet.ID)
	assert.NoError(t, err)
}
