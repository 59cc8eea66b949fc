package main

import (
	"context"
	"fmt"

	"github.com/dompetku/dompet/internal/category"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/ledger"
	"github.com/dompetku/dompet/internal/service"
	"github.com/dompetku/dompet/internal/storage"
	"github.com/dompetku/dompet/internal/store"
)

// initStorage opens the database with proper path expansion and brings
// the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	st, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return st, nil
}

// app bundles the storage, the in-memory entity stores mirroring it, and
// the ledger updater that keeps wallet balances consistent.
type app struct {
	storage  service.Storage
	runner   *store.Runner
	wallets  *store.WalletStore
	txns     *store.TransactionStore
	budgets  *store.BudgetStore
	updater  *ledger.Updater
	resolver *category.Resolver
}

// newApp opens storage and loads the entity stores.
func newApp(ctx context.Context) (*app, error) {
	st, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	runner := store.NewRunner()
	wallets := store.NewWalletStore(st, runner)
	txns := store.NewTransactionStore(st)
	budgets := store.NewBudgetStore(st, runner)

	if err := wallets.Load(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	if err := txns.Load(ctx, service.TransactionFilter{}); err != nil {
		_ = st.Close()
		return nil, err
	}
	if err := budgets.Load(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	categories, err := st.GetCategories(ctx)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return &app{
		storage:  st,
		runner:   runner,
		wallets:  wallets,
		txns:     txns,
		budgets:  budgets,
		updater:  ledger.NewUpdater(st, wallets, txns, runner),
		resolver: category.NewResolver(categories),
	}, nil
}

func (a *app) Close() {
	_ = a.storage.Close()
}
