// Package budget computes derived budget spend figures from the
// transaction list. Spend is never stored; it is recomputed on demand.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/model"
)

// Spend is the derived spend for one budget inside its active window.
type Spend struct {
	Window model.BudgetPeriod
	Amount decimal.Decimal
}

// Recompute derives each budget's spent figure from the expense
// transactions whose date falls inside the budget's active period window
// containing now. The computation is pure; callers decide when the
// inputs changed enough to warrant calling it again.
func Recompute(budgets []model.Budget, txns []model.Transaction, now time.Time) map[int64]Spend {
	weekStart := WeekStart(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	weekEnd := weekStart.AddDate(0, 0, 7)
	monthEnd := monthStart.AddDate(0, 1, 0)
	yearEnd := yearStart.AddDate(1, 0, 0)

	weekly := make(map[int]decimal.Decimal)
	monthly := make(map[int]decimal.Decimal)
	yearly := make(map[int]decimal.Decimal)

	for _, txn := range txns {
		if txn.Type != model.TypeExpense {
			continue
		}
		if inWindow(txn.Date, weekStart, weekEnd) {
			weekly[txn.CategoryID] = weekly[txn.CategoryID].Add(txn.Amount)
		}
		if inWindow(txn.Date, monthStart, monthEnd) {
			monthly[txn.CategoryID] = monthly[txn.CategoryID].Add(txn.Amount)
		}
		if inWindow(txn.Date, yearStart, yearEnd) {
			yearly[txn.CategoryID] = yearly[txn.CategoryID].Add(txn.Amount)
		}
	}

	spends := make(map[int64]Spend, len(budgets))
	for _, b := range budgets {
		var amount decimal.Decimal
		switch b.Period {
		case model.PeriodWeekly:
			amount = weekly[b.CategoryID]
		case model.PeriodYearly:
			amount = yearly[b.CategoryID]
		default:
			amount = monthly[b.CategoryID]
		}
		spends[b.ID] = Spend{Amount: amount, Window: b.Period}
	}

	return spends
}

// WeekStart returns midnight of the Sunday beginning the calendar week
// containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
