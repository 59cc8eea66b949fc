package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

func TestPinjamanLifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	item := &model.PinjamanItem{
		Name:    "Hutang ke Budi",
		Kind:    model.PinjamanDebt,
		Amount:  decimal.NewFromInt(250000),
		DueDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		OwnerID: "test-user",
	}
	require.NoError(t, store.CreatePinjamanItem(ctx, item))
	require.NotZero(t, item.ID)
	assert.False(t, item.Settled, "items start unsettled")

	t.Run("toggle settled", func(t *testing.T) {
		require.NoError(t, store.SetPinjamanSettled(ctx, item.ID, true))

		items, err := store.GetPinjamanItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Settled)

		require.NoError(t, store.SetPinjamanSettled(ctx, item.ID, false))
		items, err = store.GetPinjamanItems(ctx)
		require.NoError(t, err)
		assert.False(t, items[0].Settled)
	})

	t.Run("unsettled sort before settled", func(t *testing.T) {
		second := &model.PinjamanItem{
			Name:    "Piutang Sari",
			Kind:    model.PinjamanCredit,
			Amount:  decimal.NewFromInt(100000),
			DueDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			OwnerID: "test-user",
		}
		require.NoError(t, store.CreatePinjamanItem(ctx, second))
		require.NoError(t, store.SetPinjamanSettled(ctx, item.ID, true))

		items, err := store.GetPinjamanItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Piutang Sari", items[0].Name)
	})

	t.Run("delete freely", func(t *testing.T) {
		require.NoError(t, store.DeletePinjamanItem(ctx, item.ID))
		err := store.DeletePinjamanItem(ctx, item.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestWishlistLifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	item := &model.WishlistItem{
		Name:    "Mechanical keyboard",
		Price:   decimal.NewFromInt(1200000),
		Note:    "65% layout",
		OwnerID: "test-user",
	}
	require.NoError(t, store.CreateWishlistItem(ctx, item))
	require.NotZero(t, item.ID)

	t.Run("update marks purchased", func(t *testing.T) {
		item.Purchased = true
		require.NoError(t, store.UpdateWishlistItem(ctx, item))

		items, err := store.GetWishlistItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Purchased)
		assert.Equal(t, "65% layout", items[0].Note)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteWishlistItem(ctx, item.ID))
		err := store.DeleteWishlistItem(ctx, item.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
