package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

// CreateBudget inserts a new budget and assigns its ID.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	// The referenced category must exist; budgets never point at IDs
	// outside the category table.
	if _, err := s.GetCategoryByID(ctx, budget.CategoryID); err != nil {
		return err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, amount, period, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		budget.CategoryID, budget.Amount.String(), string(budget.Period),
		budget.OwnerID, now)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get budget ID: %w", err)
	}

	budget.ID = id
	budget.CreatedAt = now
	return nil
}

// GetBudgets returns all budgets.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, amount, period, owner_id, created_at
		FROM budgets
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var (
			budget    model.Budget
			amountStr string
			period    string
		)
		if err := rows.Scan(&budget.ID, &budget.CategoryID, &amountStr,
			&period, &budget.OwnerID, &budget.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budget.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse budget amount %q: %w", amountStr, err)
		}
		budget.Period = model.BudgetPeriod(period)
		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// UpdateBudget replaces the allocation and period of a budget.
func (s *SQLiteStorage) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE budgets
		SET category_id = ?, amount = ?, period = ?
		WHERE id = ?`,
		budget.CategoryID, budget.Amount.String(), string(budget.Period), budget.ID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget %d", common.ErrNotFound, budget.ID)
	}
	return nil
}

// DeleteBudget removes a budget. Budgets are freely deletable.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget %d", common.ErrNotFound, id)
	}
	return nil
}

// CountBudgetsByCategory counts budgets referencing a category.
func (s *SQLiteStorage) CountBudgetsByCategory(ctx context.Context, categoryID int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budgets WHERE category_id = ?`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	return count, nil
}
