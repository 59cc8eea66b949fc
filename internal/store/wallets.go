package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

// WalletDelta is a signed balance change for one wallet.
type WalletDelta struct {
	Delta    decimal.Decimal
	WalletID int64
}

// WalletStore mirrors the remote wallets collection.
type WalletStore struct {
	storage service.Storage
	runner  *Runner
	wallets []model.Wallet
	mu      sync.RWMutex
}

// NewWalletStore creates an empty wallet store.
func NewWalletStore(storage service.Storage, runner *Runner) *WalletStore {
	return &WalletStore{storage: storage, runner: runner}
}

// Load replaces the mirror with the remote wallet list.
func (s *WalletStore) Load(ctx context.Context) error {
	wallets, err := s.storage.GetWallets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wallets: %w", err)
	}

	s.mu.Lock()
	s.wallets = wallets
	s.mu.Unlock()
	return nil
}

// List returns a copy of the mirrored wallet list.
func (s *WalletStore) List() []model.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Wallet, len(s.wallets))
	copy(out, s.wallets)
	return out
}

// Get returns the mirrored wallet with the given ID.
func (s *WalletStore) Get(id int64) (model.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.wallets {
		if w.ID == id {
			return w, true
		}
	}
	return model.Wallet{}, false
}

// Create writes a new wallet remotely and mirrors it on success. The
// remote store assigns the ID, so there is nothing to apply
// optimistically; the mirror gains the wallet only once it exists.
func (s *WalletStore) Create(ctx context.Context, wallet *model.Wallet) error {
	return s.runner.Run(ctx, &Command{
		Entity: "wallet",
		ID:     "new",
		Remote: func(ctx context.Context) error {
			return s.storage.CreateWallet(ctx, wallet)
		},
		Commit: func() {
			s.mu.Lock()
			s.wallets = append(s.wallets, *wallet)
			s.sortLocked()
			s.mu.Unlock()
		},
	})
}

// Update optimistically applies display-field edits with rollback.
func (s *WalletStore) Update(ctx context.Context, wallet model.Wallet) error {
	prev, ok := s.Get(wallet.ID)
	if !ok {
		return fmt.Errorf("wallet %d not in store", wallet.ID)
	}
	// The balance is owned by the ledger updater; keep the mirrored one.
	wallet.Balance = prev.Balance
	wallet.Version = prev.Version

	return s.runner.Run(ctx, &Command{
		Entity: "wallet",
		ID:     strconv.FormatInt(wallet.ID, 10),
		Apply: func() {
			s.replace(wallet)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.UpdateWallet(ctx, &wallet)
		},
		Reverse: func() {
			s.replace(prev)
		},
	})
}

// Delete optimistically removes a wallet with rollback.
func (s *WalletStore) Delete(ctx context.Context, id int64) error {
	prev, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("wallet %d not in store", id)
	}

	return s.runner.Run(ctx, &Command{
		Entity: "wallet",
		ID:     strconv.FormatInt(id, 10),
		Apply: func() {
			s.remove(id)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.DeleteWallet(ctx, id)
		},
		Reverse: func() {
			s.mu.Lock()
			s.wallets = append(s.wallets, prev)
			s.sortLocked()
			s.mu.Unlock()
		},
	})
}

// ApplyDeltas shifts mirrored balances. Used by the ledger updater for
// both the optimistic apply and its reversal.
func (s *WalletStore) ApplyDeltas(deltas []WalletDelta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range deltas {
		for i := range s.wallets {
			if s.wallets[i].ID == d.WalletID {
				s.wallets[i].Balance = s.wallets[i].Balance.Add(d.Delta)
				break
			}
		}
	}
}

// ReplaceAll swaps mirrored rows for their authoritative remote
// counterparts after a committed ledger write.
func (s *WalletStore) ReplaceAll(wallets []model.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range wallets {
		for i := range s.wallets {
			if s.wallets[i].ID == w.ID {
				s.wallets[i] = w
				break
			}
		}
	}
}

func (s *WalletStore) replace(wallet model.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == wallet.ID {
			s.wallets[i] = wallet
			break
		}
	}
	s.sortLocked()
}

func (s *WalletStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == id {
			s.wallets = append(s.wallets[:i], s.wallets[i+1:]...)
			break
		}
	}
}

func (s *WalletStore) sortLocked() {
	sort.Slice(s.wallets, func(i, j int) bool {
		return s.wallets[i].Name < s.wallets[j].Name
	})
}
