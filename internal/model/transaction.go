package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of money movement.
type TransactionType string

const (
	// TypeIncome represents money flowing into a wallet.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money flowing out of a wallet.
	TypeExpense TransactionType = "expense"
	// TypeTransfer represents money moving between two wallets.
	TypeTransfer TransactionType = "transfer"
)

// Transaction represents a single financial transaction.
//
// Amount is always non-negative; the sign of its effect on a wallet is
// derived from Type. Transfers carry a destination wallet distinct from
// the source, and an optional fee debited from the source alongside the
// amount.
type Transaction struct {
	Date                time.Time
	CreatedAt           time.Time
	ID                  string
	Description         string
	OwnerID             string
	Type                TransactionType
	Amount              decimal.Decimal
	Fee                 decimal.Decimal
	CategoryID          int
	WalletID            int64
	DestinationWalletID *int64 // transfers only
}

// IsTransfer reports whether the transaction moves money between wallets.
func (t *Transaction) IsTransfer() bool {
	return t.Type == TypeTransfer
}

// ValidTransactionType reports whether tt is one of the known types.
func ValidTransactionType(tt TransactionType) bool {
	switch tt {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}
