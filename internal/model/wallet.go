package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletType indicates where the money in a wallet actually lives.
type WalletType string

const (
	// WalletTypeCash represents physical cash.
	WalletTypeCash WalletType = "cash"
	// WalletTypeBank represents a bank account.
	WalletTypeBank WalletType = "bank"
	// WalletTypeEWallet represents an e-wallet (GoPay, OVO, etc).
	WalletTypeEWallet WalletType = "e-wallet"
	// WalletTypeInvestment represents an investment account.
	WalletTypeInvestment WalletType = "investment"
)

// Wallet is a container of money. Its balance is mutated only by the
// ledger updater in response to transaction lifecycle events; the
// invariant is that the balance equals the sum of signed effects of all
// non-deleted transactions applied to it since creation.
type Wallet struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Type      WalletType
	Color     string
	Icon      string
	OwnerID   string
	Balance   decimal.Decimal
	ID        int64
	Version   int64
}

// ValidWalletType reports whether t is one of the known wallet types.
func ValidWalletType(t WalletType) bool {
	switch t {
	case WalletTypeCash, WalletTypeBank, WalletTypeEWallet, WalletTypeInvestment:
		return true
	}
	return false
}
