package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

// CreateWishlistItem inserts a new want-to-buy item.
func (s *SQLiteStorage) CreateWishlistItem(ctx context.Context, item *model.WishlistItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWishlistItem(item); err != nil {
		return err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO want_to_buy_items (name, price, note, purchased, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name, item.Price.String(), item.Note, item.Purchased,
		item.OwnerID, now)
	if err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get wishlist item ID: %w", err)
	}

	item.ID = id
	item.CreatedAt = now
	return nil
}

// GetWishlistItems returns all want-to-buy items, unpurchased first.
func (s *SQLiteStorage) GetWishlistItems(ctx context.Context) ([]model.WishlistItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, note, purchased, owner_id, created_at
		FROM want_to_buy_items
		ORDER BY purchased, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.WishlistItem
	for rows.Next() {
		var (
			item     model.WishlistItem
			priceStr string
			note     sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &priceStr, &note,
			&item.Purchased, &item.OwnerID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		item.Price, err = decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse wishlist price %q: %w", priceStr, err)
		}
		item.Note = note.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}

	return items, nil
}

// UpdateWishlistItem replaces the mutable fields of a want-to-buy item.
func (s *SQLiteStorage) UpdateWishlistItem(ctx context.Context, item *model.WishlistItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWishlistItem(item); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE want_to_buy_items
		SET name = ?, price = ?, note = ?, purchased = ?
		WHERE id = ?`,
		item.Name, item.Price.String(), item.Note, item.Purchased, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update wishlist item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: wishlist item %d", common.ErrNotFound, item.ID)
	}
	return nil
}

// DeleteWishlistItem removes a want-to-buy item.
func (s *SQLiteStorage) DeleteWishlistItem(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM want_to_buy_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: wishlist item %d", common.ErrNotFound, id)
	}
	return nil
}
