package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
	"github.com/dompetku/dompet/internal/store"
)

// Updater applies transaction mutations to the remote store and the
// in-memory mirrors as one logical operation. The transaction record and
// every touched wallet balance commit or roll back together; a failed
// remote write leaves no trace in the mirrors.
type Updater struct {
	storage service.Storage
	wallets *store.WalletStore
	txns    *store.TransactionStore
	runner  *store.Runner
}

// NewUpdater creates a ledger updater over the given stores.
func NewUpdater(storage service.Storage, wallets *store.WalletStore, txns *store.TransactionStore, runner *store.Runner) *Updater {
	return &Updater{
		storage: storage,
		wallets: wallets,
		txns:    txns,
		runner:  runner,
	}
}

// Create validates and records a new transaction, moving wallet balances
// by its signed effect.
func (u *Updater) Create(ctx context.Context, txn *model.Transaction) error {
	if err := u.validate(txn); err != nil {
		return err
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	deltas := Deltas(txn, Apply)
	return u.mutate(ctx, txn.ID, deltas,
		func() { u.txns.Insert(*txn) },
		func() { u.txns.Remove(txn.ID) },
		func(tctx context.Context, tx service.Tx) error {
			return tx.CreateTransaction(tctx, txn)
		})
}

// Update replaces an existing transaction, shifting wallet balances by
// the net difference between the old and new effects. Wallets whose net
// delta is zero are not written.
func (u *Updater) Update(ctx context.Context, oldTxn, newTxn *model.Transaction) error {
	if oldTxn.ID != newTxn.ID {
		return fmt.Errorf("transaction identity cannot change: %s -> %s", oldTxn.ID, newTxn.ID)
	}
	if err := u.validate(newTxn); err != nil {
		return err
	}

	prev := *oldTxn
	deltas := NetDeltas(oldTxn, newTxn)
	return u.mutate(ctx, newTxn.ID, deltas,
		func() { u.txns.Replace(*newTxn) },
		func() { u.txns.Replace(prev) },
		func(tctx context.Context, tx service.Tx) error {
			return tx.UpdateTransaction(tctx, newTxn)
		})
}

// Delete removes a transaction and restores the balances it moved.
func (u *Updater) Delete(ctx context.Context, txn *model.Transaction) error {
	prev := *txn
	deltas := Deltas(txn, Reverse)
	return u.mutate(ctx, txn.ID, deltas,
		func() { u.txns.Remove(txn.ID) },
		func() { u.txns.Insert(prev) },
		func(tctx context.Context, tx service.Tx) error {
			return tx.DeleteTransaction(tctx, txn.ID)
		})
}

// mutate runs the shared optimistic command: mirror mutation first, then
// one storage transaction carrying the record write and every non-zero
// wallet delta, then reconciliation of the mirror with the authoritative
// wallet rows.
func (u *Updater) mutate(ctx context.Context, id string, deltas []store.WalletDelta,
	applyLocal, reverseLocal func(),
	writeRecord func(context.Context, service.Tx) error) error {

	var fresh []model.Wallet

	return u.runner.Run(ctx, &store.Command{
		Entity: "transaction",
		ID:     id,
		Apply: func() {
			applyLocal()
			u.wallets.ApplyDeltas(deltas)
		},
		Reverse: func() {
			reverseLocal()
			u.wallets.ApplyDeltas(negate(deltas))
		},
		Remote: func(rctx context.Context) error {
			tx, err := u.storage.BeginTx(rctx)
			if err != nil {
				return err
			}
			defer func() { _ = tx.Rollback() }()

			if err := writeRecord(rctx, tx); err != nil {
				return err
			}

			for _, d := range deltas {
				wallet, err := u.writeDelta(rctx, tx, d)
				if err != nil {
					return err
				}
				fresh = append(fresh, *wallet)
			}

			return tx.Commit()
		},
		Commit: func() {
			u.wallets.ReplaceAll(fresh)
		},
	})
}

// writeDelta applies one balance delta with compare-and-swap semantics:
// read the wallet, write balance+delta guarded by the version token, and
// on a version conflict re-read and recompute against the fresh balance.
func (u *Updater) writeDelta(ctx context.Context, tx service.Tx, d store.WalletDelta) (*model.Wallet, error) {
	var updated *model.Wallet

	op := func() error {
		wallet, err := tx.GetWalletByID(ctx, d.WalletID)
		if err != nil {
			return err
		}
		newBalance := wallet.Balance.Add(d.Delta)
		if err := tx.UpdateWalletBalance(ctx, d.WalletID, newBalance, wallet.Version); err != nil {
			return err
		}
		wallet.Balance = newBalance
		wallet.Version++
		updated = wallet
		return nil
	}

	if err := common.WithRetry(ctx, op, service.RetryOptions{MaxAttempts: 3}); err != nil {
		return nil, err
	}
	return updated, nil
}

// validate rejects a transaction before any write happens. Referential
// problems never reach the remote store.
func (u *Updater) validate(txn *model.Transaction) error {
	if !model.ValidTransactionType(txn.Type) {
		return common.NewUserError(fmt.Sprintf("unknown transaction type %q", txn.Type), nil)
	}
	if txn.Amount.IsNegative() {
		return common.ErrNegativeAmount
	}
	if _, ok := u.wallets.Get(txn.WalletID); !ok {
		return fmt.Errorf("%w: wallet %d", common.ErrWalletNotFound, txn.WalletID)
	}

	if txn.Type != model.TypeTransfer {
		if txn.DestinationWalletID != nil {
			return common.NewUserError("only transfers can have a destination wallet", nil)
		}
		if !txn.Fee.IsZero() {
			return common.NewUserError("only transfers can carry a fee", nil)
		}
		return nil
	}

	if txn.DestinationWalletID == nil {
		return common.ErrMissingDestination
	}
	if *txn.DestinationWalletID == txn.WalletID {
		return common.ErrSameWallet
	}
	if txn.Fee.IsNegative() {
		return common.ErrNegativeAmount
	}
	if _, ok := u.wallets.Get(*txn.DestinationWalletID); !ok {
		return fmt.Errorf("%w: destination wallet %d", common.ErrWalletNotFound, *txn.DestinationWalletID)
	}
	return nil
}

func negate(deltas []store.WalletDelta) []store.WalletDelta {
	out := make([]store.WalletDelta, len(deltas))
	for i, d := range deltas {
		out[i] = store.WalletDelta{WalletID: d.WalletID, Delta: d.Delta.Neg()}
	}
	return out
}
