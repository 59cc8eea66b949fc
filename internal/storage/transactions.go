package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

// CreateTransaction inserts a single transaction record.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.createTransactionTx(ctx, tx, txn); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) createTransactionTx(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, amount, category_id, description, date, type,
			wallet_id, destination_wallet_id, fee, owner_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Amount.String(), txn.CategoryID, txn.Description,
		txn.Date, string(txn.Type), txn.WalletID, txn.DestinationWalletID,
		feeColumn(txn), txn.OwnerID, txn.CreatedAt)
	if err == nil {
		return nil
	}

	// Databases that predate the fee column reject the full insert.
	// One fallback with the reduced field set; the original error wins
	// if the fallback fails too.
	if common.IsSchemaDrift(err) {
		slog.Warn("transaction insert hit schema drift, retrying with reduced fields",
			"id", txn.ID, "error", err)
		_, fallbackErr := tx.ExecContext(ctx, `
			INSERT INTO transactions (
				id, amount, category_id, description, date, type,
				wallet_id, destination_wallet_id, owner_id, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.Amount.String(), txn.CategoryID, txn.Description,
			txn.Date, string(txn.Type), txn.WalletID, txn.DestinationWalletID,
			txn.OwnerID, txn.CreatedAt)
		if fallbackErr == nil {
			return nil
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return fmt.Errorf("failed to insert transaction: %w", err)
}

// GetTransactions returns transactions matching the filter, ordered by
// date descending with created-at then ID as tie-breaks.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: %v before %v", ErrInvalidDateRange, filter.EndDate, filter.StartDate)
	}

	query := strings.Builder{}
	query.WriteString(`
		SELECT id, amount, category_id, description, date, type,
		       wallet_id, destination_wallet_id, fee, owner_id, created_at
		FROM transactions
		WHERE 1=1`)

	var args []any
	if filter.StartDate != nil {
		query.WriteString(" AND date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query.WriteString(" AND date < ?")
		args = append(args, *filter.EndDate)
	}
	if filter.CategoryID != 0 {
		query.WriteString(" AND category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.WalletID != 0 {
		query.WriteString(" AND (wallet_id = ? OR destination_wallet_id = ?)")
		args = append(args, filter.WalletID, filter.WalletID)
	}
	query.WriteString(" ORDER BY date DESC, created_at DESC, id DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query.WriteString(" OFFSET ?")
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		txns = append(txns, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// GetTransactionByID returns a transaction by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, amount, category_id, description, date, type,
		       wallet_id, destination_wallet_id, fee, owner_id, created_at
		FROM transactions
		WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// UpdateTransaction replaces all mutable fields of a transaction record.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.updateTransactionTx(ctx, tx, txn); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) updateTransactionTx(ctx context.Context, tx *sql.Tx, txn *model.Transaction) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, category_id = ?, description = ?, date = ?, type = ?,
		    wallet_id = ?, destination_wallet_id = ?, fee = ?
		WHERE id = ?`,
		txn.Amount.String(), txn.CategoryID, txn.Description, txn.Date,
		string(txn.Type), txn.WalletID, txn.DestinationWalletID,
		feeColumn(txn), txn.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, txn.ID)
	}
	return nil
}

// DeleteTransaction removes a transaction record.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.deleteTransactionTx(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) deleteTransactionTx(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil && isStaleReference(err) {
		// A stale optional reference (destination wallet, fee) can block
		// the delete. Null them out and retry exactly once; if that also
		// fails the original error is surfaced.
		slog.Warn("transaction delete blocked by stale reference, clearing optional fields",
			"id", id, "error", err)
		if _, clearErr := tx.ExecContext(ctx, `
			UPDATE transactions SET destination_wallet_id = NULL, fee = NULL WHERE id = ?`, id); clearErr == nil {
			if retryResult, retryErr := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); retryErr == nil {
				result, err = retryResult, nil
			}
		}
	}
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

// CountTransactionsByCategory counts transactions referencing a category.
func (s *SQLiteStorage) CountTransactionsByCategory(ctx context.Context, categoryID int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// GetCashFlow aggregates income, expenses, and transfers per category for
// a date range. Amounts are stored as decimal strings, so the sums are
// computed here rather than in SQL.
func (s *SQLiteStorage) GetCashFlow(ctx context.Context, start, end time.Time) (*service.CashFlowSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v before %v", ErrInvalidDateRange, end, start)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, category_id, amount, fee
		FROM transactions
		WHERE date >= ? AND date < ?`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flow: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := &service.CashFlowSummary{
		DateRange:          service.DateRange{Start: start, End: end},
		IncomeByCategory:   make(map[int]service.CategorySummary),
		ExpensesByCategory: make(map[int]service.CategorySummary),
	}

	for rows.Next() {
		var (
			txnType    string
			categoryID int
			amountStr  string
			feeStr     sql.NullString
		)
		if err := rows.Scan(&txnType, &categoryID, &amountStr, &feeStr); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow row: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
		}

		switch model.TransactionType(txnType) {
		case model.TypeIncome:
			cs := summary.IncomeByCategory[categoryID]
			cs.Amount = cs.Amount.Add(amount)
			cs.Count++
			summary.IncomeByCategory[categoryID] = cs
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		case model.TypeExpense:
			cs := summary.ExpensesByCategory[categoryID]
			cs.Amount = cs.Amount.Add(amount)
			cs.Count++
			summary.ExpensesByCategory[categoryID] = cs
			summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		case model.TypeTransfer:
			summary.TransferTotal = summary.TransferTotal.Add(amount)
			// Transfer fees leave the ledger like expenses do.
			if feeStr.Valid && feeStr.String != "" {
				fee, feeErr := decimal.NewFromString(feeStr.String)
				if feeErr != nil {
					return nil, fmt.Errorf("failed to parse fee %q: %w", feeStr.String, feeErr)
				}
				summary.TotalExpenses = summary.TotalExpenses.Add(fee)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}

	summary.NetCashFlow = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary, nil
}

// feeColumn renders the optional fee column value.
func feeColumn(txn *model.Transaction) any {
	if txn.Fee.IsZero() {
		return nil
	}
	return txn.Fee.String()
}

// isStaleReference reports whether a delete failed on a constraint tied
// to one of the transaction's optional reference fields.
func isStaleReference(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, "constraint")
}

func scanTransaction(sc scanner) (*model.Transaction, error) {
	var (
		txn         model.Transaction
		amountStr   string
		txnType     string
		description sql.NullString
		destination sql.NullInt64
		feeStr      sql.NullString
	)
	err := sc.Scan(&txn.ID, &amountStr, &txn.CategoryID, &description,
		&txn.Date, &txnType, &txn.WalletID, &destination, &feeStr,
		&txn.OwnerID, &txn.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}
	if feeStr.Valid && feeStr.String != "" {
		txn.Fee, err = decimal.NewFromString(feeStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fee %q: %w", feeStr.String, err)
		}
	}
	txn.Type = model.TransactionType(txnType)
	txn.Description = description.String
	if destination.Valid {
		dst := destination.Int64
		txn.DestinationWalletID = &dst
	}
	return &txn, nil
}
