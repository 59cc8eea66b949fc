package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the recurrence window a budget applies to.
type BudgetPeriod string

const (
	// PeriodWeekly budgets reset every calendar week (Sunday start).
	PeriodWeekly BudgetPeriod = "weekly"
	// PeriodMonthly budgets reset every calendar month.
	PeriodMonthly BudgetPeriod = "monthly"
	// PeriodYearly budgets reset every calendar year.
	PeriodYearly BudgetPeriod = "yearly"
)

// Budget caps spending for one category over a recurring period.
// The "spent" figure is never stored; it is recomputed on demand from
// matching expense transactions inside the active period window.
type Budget struct {
	CreatedAt  time.Time
	OwnerID    string
	Period     BudgetPeriod
	Amount     decimal.Decimal
	ID         int64
	CategoryID int
}

// ValidBudgetPeriod reports whether p is one of the known periods.
func ValidBudgetPeriod(p BudgetPeriod) bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}
