package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/model"
)

func expense(categoryID int, amount int64, date time.Time) model.Transaction {
	return model.Transaction{
		ID:         "txn",
		Type:       model.TypeExpense,
		CategoryID: categoryID,
		Amount:     decimal.NewFromInt(amount),
		Date:       date,
	}
}

func TestRecompute_MonthlyAndWeeklyWindows(t *testing.T) {
	// Wednesday, mid-month.
	now := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

	budgets := []model.Budget{
		{ID: 1, CategoryID: 1, Period: model.PeriodMonthly, Amount: decimal.NewFromInt(200000)},
		{ID: 2, CategoryID: 1, Period: model.PeriodWeekly, Amount: decimal.NewFromInt(75000)},
	}

	t.Run("transaction inside current week counts for both", func(t *testing.T) {
		txns := []model.Transaction{
			expense(1, 50000, time.Date(2025, time.March, 11, 9, 0, 0, 0, time.UTC)),
		}
		spends := Recompute(budgets, txns, now)
		assert.True(t, spends[1].Amount.Equal(decimal.NewFromInt(50000)), "monthly spend")
		assert.True(t, spends[2].Amount.Equal(decimal.NewFromInt(50000)), "weekly spend")
	})

	t.Run("transaction earlier in month counts only for monthly", func(t *testing.T) {
		// March 3 2025 is in the week starting Sunday March 2, before
		// the week containing the 12th (Sunday March 9).
		txns := []model.Transaction{
			expense(1, 50000, time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)),
		}
		spends := Recompute(budgets, txns, now)
		assert.True(t, spends[1].Amount.Equal(decimal.NewFromInt(50000)), "monthly spend")
		assert.True(t, spends[2].Amount.IsZero(), "weekly spend")
	})

	t.Run("previous month excluded from both", func(t *testing.T) {
		txns := []model.Transaction{
			expense(1, 50000, time.Date(2025, time.February, 20, 9, 0, 0, 0, time.UTC)),
		}
		spends := Recompute(budgets, txns, now)
		assert.True(t, spends[1].Amount.IsZero())
		assert.True(t, spends[2].Amount.IsZero())
	})
}

func TestRecompute_FiltersByTypeAndCategory(t *testing.T) {
	now := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	budgets := []model.Budget{
		{ID: 1, CategoryID: 1, Period: model.PeriodMonthly},
	}

	income := model.Transaction{
		Type:       model.TypeIncome,
		CategoryID: 1,
		Amount:     decimal.NewFromInt(999999),
		Date:       now,
	}
	otherCategory := expense(2, 10000, now)
	matching := expense(1, 25000, now)

	spends := Recompute(budgets, []model.Transaction{income, otherCategory, matching}, now)
	require.Contains(t, spends, int64(1))
	assert.True(t, spends[1].Amount.Equal(decimal.NewFromInt(25000)))
}

func TestRecompute_YearlyWindow(t *testing.T) {
	now := time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC)
	budgets := []model.Budget{
		{ID: 1, CategoryID: 3, Period: model.PeriodYearly},
	}
	txns := []model.Transaction{
		expense(3, 100000, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)),
		expense(3, 40000, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}

	spends := Recompute(budgets, txns, now)
	assert.True(t, spends[1].Amount.Equal(decimal.NewFromInt(100000)))
}

func TestWeekStart_SundayStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "wednesday maps to preceding sunday",
			in:   time.Date(2025, time.March, 12, 23, 0, 0, 0, time.UTC),
			want: time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday maps to itself at midnight",
			in:   time.Date(2025, time.March, 9, 8, 30, 0, 0, time.UTC),
			want: time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "saturday stays in the same week",
			in:   time.Date(2025, time.March, 15, 1, 0, 0, 0, time.UTC),
			want: time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.in))
		})
	}
}
