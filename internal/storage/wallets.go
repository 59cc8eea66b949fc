package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

// CreateWallet inserts a new wallet and assigns its ID.
func (s *SQLiteStorage) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWallet(wallet); err != nil {
		return err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (name, balance, type, color, icon, owner_id, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		wallet.Name, wallet.Balance.String(), string(wallet.Type),
		wallet.Color, wallet.Icon, wallet.OwnerID, now, now)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get wallet ID: %w", err)
	}

	wallet.ID = id
	wallet.Version = 0
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	slog.Info("created wallet", "id", id, "name", wallet.Name, "type", wallet.Type)
	return nil
}

// GetWallets returns all wallets ordered by name.
func (s *SQLiteStorage) GetWallets(ctx context.Context) ([]model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, balance, type, color, icon, owner_id, version, created_at, updated_at
		FROM wallets
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wallets []model.Wallet
	for rows.Next() {
		wallet, scanErr := scanWallet(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		wallets = append(wallets, *wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// GetWalletByID returns a wallet by ID, or common.ErrWalletNotFound.
func (s *SQLiteStorage) GetWalletByID(ctx context.Context, id int64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getWalletByID(ctx, s.db, id)
}

func (s *SQLiteStorage) getWalletByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.Wallet, error) {
	return getWalletByID(ctx, tx, id)
}

// rowQuerier is the subset of sql.DB/sql.Tx used by single-row reads.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getWalletByID(ctx context.Context, q rowQuerier, id int64) (*model.Wallet, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, balance, type, color, icon, owner_id, version, created_at, updated_at
		FROM wallets
		WHERE id = ?`, id)

	wallet, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: wallet %d", common.ErrWalletNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// UpdateWallet updates display fields of a wallet: name, type, color,
// icon. The balance is deliberately excluded; only the ledger updater
// moves balances, through UpdateWalletBalance.
func (s *SQLiteStorage) UpdateWallet(ctx context.Context, wallet *model.Wallet) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWallet(wallet); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE wallets
		SET name = ?, type = ?, color = ?, icon = ?, updated_at = ?
		WHERE id = ?`,
		wallet.Name, string(wallet.Type), wallet.Color, wallet.Icon, time.Now(), wallet.ID)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: wallet %d", common.ErrWalletNotFound, wallet.ID)
	}

	return nil
}

// UpdateWalletBalance writes a new balance using compare-and-swap
// semantics on the version token. A stale version means another writer
// got there first; the caller should re-read the wallet, recompute its
// delta, and try again.
func (s *SQLiteStorage) UpdateWalletBalance(ctx context.Context, id int64, balance decimal.Decimal, version int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateWalletBalance(ctx, s.db, id, balance, version)
}

func (s *SQLiteStorage) updateWalletBalanceTx(ctx context.Context, tx *sql.Tx, id int64, balance decimal.Decimal, version int64) error {
	return updateWalletBalance(ctx, tx, id, balance, version)
}

type execQuerier interface {
	rowQuerier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateWalletBalance(ctx context.Context, q execQuerier, id int64, balance decimal.Decimal, version int64) error {
	result, err := q.ExecContext(ctx, `
		UPDATE wallets
		SET balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		balance.String(), time.Now(), id, version)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing matched: either the wallet is gone or its version moved.
	var exists int
	err = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM wallets WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check wallet existence: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: wallet %d", common.ErrWalletNotFound, id)
	}
	return fmt.Errorf("%w: wallet %d at version %d", common.ErrVersionConflict, id, version)
}

// DeleteWallet removes a wallet that no transaction references.
func (s *SQLiteStorage) DeleteWallet(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var refs int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE wallet_id = ? OR destination_wallet_id = ?`, id, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to count wallet references: %w", err)
	}
	if refs > 0 {
		return common.NewUserError(
			fmt.Sprintf("wallet %d still has %d transactions", id, refs), nil)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: wallet %d", common.ErrWalletNotFound, id)
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanWallet(sc scanner) (*model.Wallet, error) {
	var (
		wallet      model.Wallet
		balance     string
		walletType  string
		color, icon sql.NullString
	)
	err := sc.Scan(&wallet.ID, &wallet.Name, &balance, &walletType,
		&color, &icon, &wallet.OwnerID, &wallet.Version,
		&wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}

	wallet.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wallet balance %q: %w", balance, err)
	}
	wallet.Type = model.WalletType(walletType)
	wallet.Color = color.String
	wallet.Icon = icon.String
	return &wallet, nil
}
