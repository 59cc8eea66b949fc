package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

// GetCategories returns all categories: seeded defaults plus custom ones.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, category_key, en_name, id_name, type, icon, color, owner_id, created_at
		FROM categories
		ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a category by its numeric ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT category_id, category_key, en_name, id_name, type, icon, color, owner_id, created_at
		FROM categories
		WHERE category_id = ?`, id)

	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// CreateCategory inserts a user-custom category and assigns its ID.
// Custom categories never carry a legacy key.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	if err := validateString(category.OwnerID, "ownerID"); err != nil {
		return err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (en_name, id_name, type, icon, color, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.NameEN, category.NameID, string(category.Type),
		category.Icon, category.Color, category.OwnerID, now)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}

	category.ID = int(id)
	category.Key = ""
	category.CreatedAt = now

	slog.Info("created custom category", "id", id, "name", category.NameEN)
	return nil
}

// UpdateCategory edits a custom category. Default categories are immutable.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	existing, err := s.GetCategoryByID(ctx, category.ID)
	if err != nil {
		return err
	}
	if existing.IsDefault() {
		return fmt.Errorf("%w: category %d", common.ErrCategoryReadOnly, category.ID)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE categories
		SET en_name = ?, id_name = ?, icon = ?, color = ?
		WHERE category_id = ?`,
		category.NameEN, category.NameID, category.Icon, category.Color, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a custom category that nothing references.
// Deleting a category still used by a transaction or budget fails with
// common.ErrCategoryInUse and leaves the row in place.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	existing, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsDefault() {
		return fmt.Errorf("%w: category %d", common.ErrCategoryReadOnly, id)
	}

	txnRefs, err := s.CountTransactionsByCategory(ctx, id)
	if err != nil {
		return err
	}
	budgetRefs, err := s.CountBudgetsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if txnRefs+budgetRefs > 0 {
		return fmt.Errorf("%w: category %d has %d transactions and %d budgets",
			common.ErrCategoryInUse, id, txnRefs, budgetRefs)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}

	slog.Info("deleted custom category", "id", id)
	return nil
}

func scanCategory(sc scanner) (*model.Category, error) {
	var (
		cat         model.Category
		key         sql.NullString
		catType     string
		icon, color sql.NullString
		ownerID     sql.NullString
	)
	err := sc.Scan(&cat.ID, &key, &cat.NameEN, &cat.NameID, &catType,
		&icon, &color, &ownerID, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	cat.Key = key.String
	cat.Type = model.CategoryType(catType)
	cat.Icon = icon.String
	cat.Color = color.String
	cat.OwnerID = ownerID.String
	return &cat, nil
}
