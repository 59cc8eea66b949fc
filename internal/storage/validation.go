// Package storage provides the data persistence layer for dompet.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidWallet      = errors.New("invalid wallet")
	ErrInvalidBudget      = errors.New("invalid budget")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidPinjaman    = errors.New("invalid pinjaman item")
	ErrInvalidWishlist    = errors.New("invalid wishlist item")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateWallet validates a wallet record before it is written.
func validateWallet(wallet *model.Wallet) error {
	if wallet == nil {
		return fmt.Errorf("%w: wallet", ErrNilParameter)
	}
	if strings.TrimSpace(wallet.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidWallet)
	}
	if !model.ValidWalletType(wallet.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidWallet, wallet.Type)
	}
	return nil
}

// validateTransaction validates a single transaction record.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if !model.ValidTransactionType(txn.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, common.ErrNegativeAmount)
	}
	if txn.Fee.IsNegative() {
		return fmt.Errorf("%w: negative fee", ErrInvalidTransaction)
	}
	if txn.WalletID == 0 {
		return fmt.Errorf("%w: missing wallet", ErrInvalidTransaction)
	}
	return nil
}

// validateBudget validates a budget record.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.CategoryID == 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if !model.ValidBudgetPeriod(budget.Period) {
		return fmt.Errorf("%w: unknown period %q", ErrInvalidBudget, budget.Period)
	}
	if budget.Amount.IsNegative() {
		return fmt.Errorf("%w: %v", ErrInvalidBudget, common.ErrNegativeAmount)
	}
	return nil
}

// validateCategory validates a category record.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.NameEN) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	switch category.Type {
	case model.CategoryTypeIncome, model.CategoryTypeExpense, model.CategoryTypeSystem:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, category.Type)
	}
	return nil
}

// validatePinjaman validates a pinjaman item.
func validatePinjaman(item *model.PinjamanItem) error {
	if item == nil {
		return fmt.Errorf("%w: pinjaman item", ErrNilParameter)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPinjaman)
	}
	if !model.ValidPinjamanKind(item.Kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPinjaman, item.Kind)
	}
	if item.Amount.IsNegative() {
		return fmt.Errorf("%w: %v", ErrInvalidPinjaman, common.ErrNegativeAmount)
	}
	return nil
}

// validateWishlistItem validates a want-to-buy item.
func validateWishlistItem(item *model.WishlistItem) error {
	if item == nil {
		return fmt.Errorf("%w: wishlist item", ErrNilParameter)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidWishlist)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: %v", ErrInvalidWishlist, common.ErrNegativeAmount)
	}
	return nil
}
