package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

func TestBudgetCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	budget := &model.Budget{
		CategoryID: 2,
		Amount:     decimal.NewFromInt(500000),
		Period:     model.PeriodMonthly,
		OwnerID:    "test-user",
	}
	require.NoError(t, store.CreateBudget(ctx, budget))
	require.NotZero(t, budget.ID)

	t.Run("list", func(t *testing.T) {
		budgets, err := store.GetBudgets(ctx)
		require.NoError(t, err)
		require.Len(t, budgets, 1)
		assert.Equal(t, 2, budgets[0].CategoryID)
		assert.True(t, budgets[0].Amount.Equal(decimal.NewFromInt(500000)))
		assert.Equal(t, model.PeriodMonthly, budgets[0].Period)
	})

	t.Run("update", func(t *testing.T) {
		budget.Amount = decimal.NewFromInt(750000)
		budget.Period = model.PeriodWeekly
		require.NoError(t, store.UpdateBudget(ctx, budget))

		budgets, err := store.GetBudgets(ctx)
		require.NoError(t, err)
		assert.True(t, budgets[0].Amount.Equal(decimal.NewFromInt(750000)))
		assert.Equal(t, model.PeriodWeekly, budgets[0].Period)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteBudget(ctx, budget.ID))
		budgets, err := store.GetBudgets(ctx)
		require.NoError(t, err)
		assert.Empty(t, budgets)
	})

	t.Run("delete missing", func(t *testing.T) {
		err := store.DeleteBudget(ctx, budget.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestCreateBudget_UnknownCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.CreateBudget(context.Background(), &model.Budget{
		CategoryID: 999,
		Amount:     decimal.NewFromInt(1000),
		Period:     model.PeriodMonthly,
		OwnerID:    "test-user",
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateBudget_InvalidPeriod(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.CreateBudget(context.Background(), &model.Budget{
		CategoryID: 2,
		Amount:     decimal.NewFromInt(1000),
		Period:     "fortnightly",
		OwnerID:    "test-user",
	})
	assert.ErrorIs(t, err, ErrInvalidBudget)
}
