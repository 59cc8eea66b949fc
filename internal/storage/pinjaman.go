package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

// CreatePinjamanItem inserts a new loan/credit item. Items start unsettled.
func (s *SQLiteStorage) CreatePinjamanItem(ctx context.Context, item *model.PinjamanItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePinjaman(item); err != nil {
		return err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO pinjaman_items (name, kind, amount, due_date, settled, owner_id, created_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`,
		item.Name, string(item.Kind), item.Amount.String(), item.DueDate,
		item.OwnerID, now)
	if err != nil {
		return fmt.Errorf("failed to create pinjaman item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get pinjaman item ID: %w", err)
	}

	item.ID = id
	item.Settled = false
	item.CreatedAt = now
	return nil
}

// GetPinjamanItems returns all loan/credit items, due soonest first.
func (s *SQLiteStorage) GetPinjamanItems(ctx context.Context) ([]model.PinjamanItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, amount, due_date, settled, owner_id, created_at
		FROM pinjaman_items
		ORDER BY settled, due_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pinjaman items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.PinjamanItem
	for rows.Next() {
		var (
			item      model.PinjamanItem
			kind      string
			amountStr string
		)
		if err := rows.Scan(&item.ID, &item.Name, &kind, &amountStr,
			&item.DueDate, &item.Settled, &item.OwnerID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pinjaman item: %w", err)
		}
		item.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pinjaman amount %q: %w", amountStr, err)
		}
		item.Kind = model.PinjamanKind(kind)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pinjaman items: %w", err)
	}

	return items, nil
}

// SetPinjamanSettled toggles the settled flag of a loan/credit item.
func (s *SQLiteStorage) SetPinjamanSettled(ctx context.Context, id int64, settled bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE pinjaman_items SET settled = ? WHERE id = ?`, settled, id)
	if err != nil {
		return fmt.Errorf("failed to update pinjaman item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: pinjaman item %d", common.ErrNotFound, id)
	}
	return nil
}

// DeletePinjamanItem removes an item. Nothing references pinjaman items,
// so deletion has no referential guard.
func (s *SQLiteStorage) DeletePinjamanItem(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM pinjaman_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pinjaman item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: pinjaman item %d", common.ErrNotFound, id)
	}
	return nil
}
