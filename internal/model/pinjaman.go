package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PinjamanKind distinguishes money the user owes from money owed to them.
type PinjamanKind string

const (
	// PinjamanDebt is money the user owes someone else.
	PinjamanDebt PinjamanKind = "debt"
	// PinjamanCredit is money someone else owes the user.
	PinjamanCredit PinjamanKind = "credit"
)

// PinjamanItem tracks a single loan or credit. Items are created
// unsettled, can be toggled settled/unsettled, and are deleted freely;
// nothing else references them.
type PinjamanItem struct {
	DueDate   time.Time
	CreatedAt time.Time
	Name      string
	OwnerID   string
	Kind      PinjamanKind
	Amount    decimal.Decimal
	ID        int64
	Settled   bool
}

// ValidPinjamanKind reports whether k is one of the known kinds.
func ValidPinjamanKind(k PinjamanKind) bool {
	return k == PinjamanDebt || k == PinjamanCredit
}
