package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

// TransactionStore mirrors the remote transactions collection, kept
// sorted by date descending. Same-date rows tie-break on creation
// timestamp and then ID, so the order is stable regardless of how the
// remote store returned them.
type TransactionStore struct {
	storage service.Storage
	txns    []model.Transaction
	mu      sync.RWMutex
}

// NewTransactionStore creates an empty transaction store.
func NewTransactionStore(storage service.Storage) *TransactionStore {
	return &TransactionStore{storage: storage}
}

// Load replaces the mirror with the remote transaction list.
func (s *TransactionStore) Load(ctx context.Context, filter service.TransactionFilter) error {
	txns, err := s.storage.GetTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	s.mu.Lock()
	s.txns = txns
	s.sortLocked()
	s.mu.Unlock()
	return nil
}

// List returns a copy of the mirrored transaction list.
func (s *TransactionStore) List() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Get returns the mirrored transaction with the given ID.
func (s *TransactionStore) Get(id string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.txns {
		if txn.ID == id {
			return txn, true
		}
	}
	return model.Transaction{}, false
}

// Insert adds a transaction and re-sorts.
func (s *TransactionStore) Insert(txn model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, txn)
	s.sortLocked()
}

// Replace swaps the transaction with the same ID and re-sorts.
func (s *TransactionStore) Replace(txn model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == txn.ID {
			s.txns[i] = txn
			break
		}
	}
	s.sortLocked()
}

// Remove deletes the transaction with the given ID.
func (s *TransactionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			break
		}
	}
}

func (s *TransactionStore) sortLocked() {
	sort.SliceStable(s.txns, func(i, j int) bool {
		a, b := s.txns[i], s.txns[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
