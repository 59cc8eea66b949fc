// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID int
	WalletID   int64
	Limit      int
	Offset     int
}

// Storage defines the contract for the persistence layer. It is the
// system of record; in-memory entity stores only mirror it.
type Storage interface {
	// Wallet operations
	CreateWallet(ctx context.Context, wallet *model.Wallet) error
	GetWallets(ctx context.Context) ([]model.Wallet, error)
	GetWalletByID(ctx context.Context, id int64) (*model.Wallet, error)
	UpdateWallet(ctx context.Context, wallet *model.Wallet) error
	// UpdateWalletBalance writes a new balance guarded by the version
	// token read alongside the old balance. A stale token yields
	// common.ErrVersionConflict and writes nothing.
	UpdateWalletBalance(ctx context.Context, id int64, balance decimal.Decimal, version int64) error
	DeleteWallet(ctx context.Context, id int64) error

	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	CountTransactionsByCategory(ctx context.Context, categoryID int) (int, error)
	GetCashFlow(ctx context.Context, start, end time.Time) (*CashFlowSummary, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id int) error

	// Budget operations
	CreateBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	UpdateBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, id int64) error
	CountBudgetsByCategory(ctx context.Context, categoryID int) (int, error)

	// Pinjaman operations
	CreatePinjamanItem(ctx context.Context, item *model.PinjamanItem) error
	GetPinjamanItems(ctx context.Context) ([]model.PinjamanItem, error)
	SetPinjamanSettled(ctx context.Context, id int64, settled bool) error
	DeletePinjamanItem(ctx context.Context, id int64) error

	// Wishlist operations
	CreateWishlistItem(ctx context.Context, item *model.WishlistItem) error
	GetWishlistItems(ctx context.Context) ([]model.WishlistItem, error)
	UpdateWishlistItem(ctx context.Context, item *model.WishlistItem) error
	DeleteWishlistItem(ctx context.Context, id int64) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is a storage transaction covering the ledger write path: the
// transaction record and the wallet balances it touches commit or roll
// back together.
type Tx interface {
	Commit() error
	Rollback() error

	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	GetWalletByID(ctx context.Context, id int64) (*model.Wallet, error)
	UpdateWalletBalance(ctx context.Context, id int64, balance decimal.Decimal, version int64) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Amount decimal.Decimal
	Count  int
}

// CashFlowSummary contains income, expense, and net flow calculations.
type CashFlowSummary struct {
	IncomeByCategory   map[int]CategorySummary
	ExpensesByCategory map[int]CategorySummary
	DateRange          DateRange
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	TransferTotal      decimal.Decimal
	NetCashFlow        decimal.Decimal
}
