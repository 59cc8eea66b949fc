// Package ledger keeps wallet balances consistent with the set of
// non-deleted transactions. It is the only component that moves money:
// every transaction create, update, and delete flows through the
// Updater, which derives per-wallet balance deltas and applies them to
// the remote store and the in-memory mirrors together.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/store"
)

// Direction selects whether a transaction's effect is applied or undone.
type Direction int

const (
	// Apply adds the transaction's effect to wallet balances.
	Apply Direction = iota
	// Reverse removes a previously applied effect.
	Reverse
)

// Deltas computes the signed per-wallet balance changes of a transaction.
//
//	income:   +amount to the source wallet
//	expense:  -amount from the source wallet
//	transfer: -(amount+fee) from the source, +amount to the destination
//
// Reverse negates every delta.
func Deltas(txn *model.Transaction, dir Direction) []store.WalletDelta {
	var deltas []store.WalletDelta

	switch txn.Type {
	case model.TypeIncome:
		deltas = append(deltas, store.WalletDelta{
			WalletID: txn.WalletID,
			Delta:    txn.Amount,
		})
	case model.TypeExpense:
		deltas = append(deltas, store.WalletDelta{
			WalletID: txn.WalletID,
			Delta:    txn.Amount.Neg(),
		})
	case model.TypeTransfer:
		deltas = append(deltas, store.WalletDelta{
			WalletID: txn.WalletID,
			Delta:    txn.Amount.Add(txn.Fee).Neg(),
		})
		if txn.DestinationWalletID != nil {
			deltas = append(deltas, store.WalletDelta{
				WalletID: *txn.DestinationWalletID,
				Delta:    txn.Amount,
			})
		}
	}

	if dir == Reverse {
		for i := range deltas {
			deltas[i].Delta = deltas[i].Delta.Neg()
		}
	}

	return deltas
}

// NetDeltas merges reverse(old) with apply(new) by wallet ID. Wallets
// whose net change is zero are dropped, so an update that leaves a
// wallet's balance alone never writes that wallet.
func NetDeltas(oldTxn, newTxn *model.Transaction) []store.WalletDelta {
	return mergeDeltas(append(Deltas(oldTxn, Reverse), Deltas(newTxn, Apply)...))
}

func mergeDeltas(deltas []store.WalletDelta) []store.WalletDelta {
	byWallet := make(map[int64]decimal.Decimal)
	var order []int64
	for _, d := range deltas {
		if _, seen := byWallet[d.WalletID]; !seen {
			order = append(order, d.WalletID)
		}
		byWallet[d.WalletID] = byWallet[d.WalletID].Add(d.Delta)
	}

	merged := make([]store.WalletDelta, 0, len(order))
	for _, id := range order {
		if byWallet[id].IsZero() {
			continue
		}
		merged = append(merged, store.WalletDelta{WalletID: id, Delta: byWallet[id]})
	}
	return merged
}
