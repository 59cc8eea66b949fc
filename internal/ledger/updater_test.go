package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
	"github.com/dompetku/dompet/internal/storage"
	"github.com/dompetku/dompet/internal/store"
)

type fixture struct {
	updater *Updater
	wallets *store.WalletStore
	txns    *store.TransactionStore
	storage service.Storage
	src     model.Wallet
	dst     model.Wallet
}

func newFixture(t *testing.T, wrap func(service.Storage) service.Storage) *fixture {
	t.Helper()
	ctx := context.Background()

	sqlite, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	require.NoError(t, sqlite.Migrate(ctx))

	src := &model.Wallet{Name: "BCA", Type: model.WalletTypeBank, Balance: decimal.NewFromInt(1000), OwnerID: "u"}
	dst := &model.Wallet{Name: "GoPay", Type: model.WalletTypeEWallet, Balance: decimal.NewFromInt(500), OwnerID: "u"}
	require.NoError(t, sqlite.CreateWallet(ctx, src))
	require.NoError(t, sqlite.CreateWallet(ctx, dst))

	var st service.Storage = sqlite
	if wrap != nil {
		st = wrap(st)
	}

	runner := store.NewRunner()
	wallets := store.NewWalletStore(st, runner)
	txns := store.NewTransactionStore(st)
	require.NoError(t, wallets.Load(ctx))
	require.NoError(t, txns.Load(ctx, service.TransactionFilter{}))

	return &fixture{
		updater: NewUpdater(st, wallets, txns, runner),
		wallets: wallets,
		txns:    txns,
		storage: st,
		src:     *src,
		dst:     *dst,
	}
}

func (f *fixture) balance(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	w, ok := f.wallets.Get(id)
	require.True(t, ok)
	return w.Balance
}

func (f *fixture) remoteBalance(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	w, err := f.storage.GetWalletByID(context.Background(), id)
	require.NoError(t, err)
	return w.Balance
}

func expenseTxn(id string, walletID int64, amount int64) *model.Transaction {
	return &model.Transaction{
		ID:         id,
		Type:       model.TypeExpense,
		Amount:     decimal.NewFromInt(amount),
		CategoryID: 2,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WalletID:   walletID,
		OwnerID:    "u",
	}
}

func TestUpdater_CreateExpense(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.updater.Create(ctx, expenseTxn("e1", f.src.ID, 100)))

	assert.True(t, f.balance(t, f.src.ID).Equal(dec(900)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(900)))
	assert.Len(t, f.txns.List(), 1)
}

func TestUpdater_CreateIncome(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	txn := expenseTxn("i1", f.src.ID, 250)
	txn.Type = model.TypeIncome
	txn.CategoryID = 13
	require.NoError(t, f.updater.Create(ctx, txn))

	assert.True(t, f.balance(t, f.src.ID).Equal(dec(1250)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(1250)))
}

func TestUpdater_CreateTransfer(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	txn := &model.Transaction{
		ID:                  "tr1",
		Type:                model.TypeTransfer,
		Amount:              dec(200),
		Fee:                 dec(5),
		CategoryID:          18,
		Date:                time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WalletID:            f.src.ID,
		DestinationWalletID: &f.dst.ID,
		OwnerID:             "u",
	}
	require.NoError(t, f.updater.Create(ctx, txn))

	assert.True(t, f.balance(t, f.src.ID).Equal(dec(795)))
	assert.True(t, f.balance(t, f.dst.ID).Equal(dec(700)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(795)))
	assert.True(t, f.remoteBalance(t, f.dst.ID).Equal(dec(700)))
}

func TestUpdater_CreateValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		mutate  func(*model.Transaction)
		wantErr error
		name    string
	}{
		{
			name:    "transfer without destination",
			mutate:  func(txn *model.Transaction) { txn.Type = model.TypeTransfer; txn.CategoryID = 18 },
			wantErr: common.ErrMissingDestination,
		},
		{
			name: "transfer to same wallet",
			mutate: func(txn *model.Transaction) {
				txn.Type = model.TypeTransfer
				txn.DestinationWalletID = &txn.WalletID
			},
			wantErr: common.ErrSameWallet,
		},
		{
			name:    "unknown source wallet",
			mutate:  func(txn *model.Transaction) { txn.WalletID = 9999 },
			wantErr: common.ErrWalletNotFound,
		},
		{
			name: "unknown destination wallet",
			mutate: func(txn *model.Transaction) {
				txn.Type = model.TypeTransfer
				missing := int64(9999)
				txn.DestinationWalletID = &missing
			},
			wantErr: common.ErrWalletNotFound,
		},
		{
			name:    "negative amount",
			mutate:  func(txn *model.Transaction) { txn.Amount = dec(-1) },
			wantErr: common.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := expenseTxn("bad", f.src.ID, 100)
			tt.mutate(txn)

			err := f.updater.Create(ctx, txn)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			// Validation failures leave everything untouched.
			assert.True(t, f.balance(t, f.src.ID).Equal(dec(1000)))
			assert.Empty(t, f.txns.List())
		})
	}

	t.Run("fee on non-transfer rejected", func(t *testing.T) {
		txn := expenseTxn("bad-fee", f.src.ID, 100)
		txn.Fee = dec(5)
		require.Error(t, f.updater.Create(ctx, txn))
		assert.Empty(t, f.txns.List())
	})
}

func TestUpdater_UpdateNetDelta(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	oldTxn := expenseTxn("e1", f.src.ID, 100)
	require.NoError(t, f.updater.Create(ctx, oldTxn))
	require.True(t, f.balance(t, f.src.ID).Equal(dec(900)))

	newTxn := *oldTxn
	newTxn.Amount = dec(150)
	require.NoError(t, f.updater.Update(ctx, oldTxn, &newTxn))

	// Net effect is exactly -50, not -250 then +100.
	assert.True(t, f.balance(t, f.src.ID).Equal(dec(850)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(850)))

	got, ok := f.txns.Get("e1")
	require.True(t, ok)
	assert.True(t, got.Amount.Equal(dec(150)))
}

func TestUpdater_UpdateZeroNetDeltaSkipsWalletWrite(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	oldTxn := expenseTxn("e1", f.src.ID, 100)
	require.NoError(t, f.updater.Create(ctx, oldTxn))

	before, err := f.storage.GetWalletByID(ctx, f.src.ID)
	require.NoError(t, err)

	newTxn := *oldTxn
	newTxn.Description = "renamed only"
	require.NoError(t, f.updater.Update(ctx, oldTxn, &newTxn))

	after, err := f.storage.GetWalletByID(ctx, f.src.ID)
	require.NoError(t, err)
	// No wallet write happened: the version token did not move.
	assert.Equal(t, before.Version, after.Version)

	got, ok := f.txns.Get("e1")
	require.True(t, ok)
	assert.Equal(t, "renamed only", got.Description)
}

func TestUpdater_DeleteTransferRestoresBothSides(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	txn := &model.Transaction{
		ID:                  "tr1",
		Type:                model.TypeTransfer,
		Amount:              dec(200),
		Fee:                 dec(5),
		CategoryID:          18,
		Date:                time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WalletID:            f.src.ID,
		DestinationWalletID: &f.dst.ID,
		OwnerID:             "u",
	}
	require.NoError(t, f.updater.Create(ctx, txn))
	require.NoError(t, f.updater.Delete(ctx, txn))

	// +205 back to the source, -200 from the destination.
	assert.True(t, f.balance(t, f.src.ID).Equal(dec(1000)))
	assert.True(t, f.balance(t, f.dst.ID).Equal(dec(500)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(1000)))
	assert.True(t, f.remoteBalance(t, f.dst.ID).Equal(dec(500)))
	assert.Empty(t, f.txns.List())
}

func TestUpdater_BalanceConservation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// A mixed sequence of creates, updates, and deletes. Afterwards the
	// balances must equal initial plus the signed effects of whatever
	// transactions remain.
	income := expenseTxn("i1", f.src.ID, 300)
	income.Type = model.TypeIncome
	income.CategoryID = 13
	require.NoError(t, f.updater.Create(ctx, income))

	spend := expenseTxn("e1", f.src.ID, 120)
	require.NoError(t, f.updater.Create(ctx, spend))

	transfer := &model.Transaction{
		ID: "tr1", Type: model.TypeTransfer, Amount: dec(100), Fee: dec(2),
		CategoryID: 18, Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WalletID: f.src.ID, DestinationWalletID: &f.dst.ID, OwnerID: "u",
	}
	require.NoError(t, f.updater.Create(ctx, transfer))

	updated := *spend
	updated.Amount = dec(80)
	require.NoError(t, f.updater.Update(ctx, spend, &updated))

	require.NoError(t, f.updater.Delete(ctx, income))

	// Remaining: expense 80, transfer 100 fee 2.
	// src: 1000 - 80 - 102 = 818; dst: 500 + 100 = 600.
	assert.True(t, f.balance(t, f.src.ID).Equal(dec(818)))
	assert.True(t, f.balance(t, f.dst.ID).Equal(dec(600)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(818)))
	assert.True(t, f.remoteBalance(t, f.dst.ID).Equal(dec(600)))
	assert.Len(t, f.txns.List(), 2)
}

// failingStorage fails every wallet balance write inside a ledger
// transaction.
type failingStorage struct {
	service.Storage
}

func (f *failingStorage) BeginTx(ctx context.Context) (service.Tx, error) {
	tx, err := f.Storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{Tx: tx}, nil
}

type failingTx struct {
	service.Tx
}

func (t *failingTx) UpdateWalletBalance(context.Context, int64, decimal.Decimal, int64) error {
	return &common.RetryableError{Err: errors.New("remote wallet write failed"), Retryable: false}
}

func TestUpdater_RemoteFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t, func(s service.Storage) service.Storage {
		return &failingStorage{Storage: s}
	})
	ctx := context.Background()

	err := f.updater.Create(ctx, expenseTxn("e1", f.src.ID, 100))
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr), "operation errors surface as user errors")

	// No orphaned transaction, no balance movement, locally or remotely.
	assert.Empty(t, f.txns.List())
	assert.True(t, f.balance(t, f.src.ID).Equal(dec(1000)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(1000)))

	_, getErr := f.storage.GetTransactionByID(ctx, "e1")
	assert.ErrorIs(t, getErr, common.ErrNotFound)
}

// conflictTx forces a version conflict on the first balance write so the
// retry path recomputes against the freshly read wallet.
type conflictStorage struct {
	service.Storage
	conflicts int
}

func (c *conflictStorage) BeginTx(ctx context.Context) (service.Tx, error) {
	tx, err := c.Storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &conflictTx{Tx: tx, storage: c}, nil
}

type conflictTx struct {
	service.Tx
	storage *conflictStorage
}

func (t *conflictTx) UpdateWalletBalance(ctx context.Context, id int64, balance decimal.Decimal, version int64) error {
	if t.storage.conflicts > 0 {
		t.storage.conflicts--
		return common.ErrVersionConflict
	}
	return t.Tx.UpdateWalletBalance(ctx, id, balance, version)
}

func TestUpdater_VersionConflictRetries(t *testing.T) {
	f := newFixture(t, func(s service.Storage) service.Storage {
		return &conflictStorage{Storage: s, conflicts: 1}
	})
	ctx := context.Background()

	require.NoError(t, f.updater.Create(ctx, expenseTxn("e1", f.src.ID, 100)))

	assert.True(t, f.balance(t, f.src.ID).Equal(dec(900)))
	assert.True(t, f.remoteBalance(t, f.src.ID).Equal(dec(900)))
}
