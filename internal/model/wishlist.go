package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistItem is a want-to-buy entry: something the user is saving for.
type WishlistItem struct {
	CreatedAt time.Time
	Name      string
	Note      string
	OwnerID   string
	Price     decimal.Decimal
	ID        int64
	Purchased bool
}
