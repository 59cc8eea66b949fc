package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

// BudgetStore mirrors the remote budgets collection.
type BudgetStore struct {
	storage service.Storage
	runner  *Runner
	budgets []model.Budget
	mu      sync.RWMutex
}

// NewBudgetStore creates an empty budget store.
func NewBudgetStore(storage service.Storage, runner *Runner) *BudgetStore {
	return &BudgetStore{storage: storage, runner: runner}
}

// Load replaces the mirror with the remote budget list.
func (s *BudgetStore) Load(ctx context.Context) error {
	budgets, err := s.storage.GetBudgets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load budgets: %w", err)
	}

	s.mu.Lock()
	s.budgets = budgets
	s.mu.Unlock()
	return nil
}

// List returns a copy of the mirrored budget list.
func (s *BudgetStore) List() []model.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out
}

// Create writes a new budget remotely and mirrors it on success.
func (s *BudgetStore) Create(ctx context.Context, budget *model.Budget) error {
	return s.runner.Run(ctx, &Command{
		Entity: "budget",
		ID:     "new",
		Remote: func(ctx context.Context) error {
			return s.storage.CreateBudget(ctx, budget)
		},
		Commit: func() {
			s.mu.Lock()
			s.budgets = append(s.budgets, *budget)
			s.mu.Unlock()
		},
	})
}

// Update optimistically applies a budget edit with rollback.
func (s *BudgetStore) Update(ctx context.Context, budget model.Budget) error {
	prev, ok := s.get(budget.ID)
	if !ok {
		return fmt.Errorf("budget %d not in store", budget.ID)
	}

	return s.runner.Run(ctx, &Command{
		Entity: "budget",
		ID:     strconv.FormatInt(budget.ID, 10),
		Apply: func() {
			s.replace(budget)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.UpdateBudget(ctx, &budget)
		},
		Reverse: func() {
			s.replace(prev)
		},
	})
}

// Delete optimistically removes a budget with rollback.
func (s *BudgetStore) Delete(ctx context.Context, id int64) error {
	prev, ok := s.get(id)
	if !ok {
		return fmt.Errorf("budget %d not in store", id)
	}

	return s.runner.Run(ctx, &Command{
		Entity: "budget",
		ID:     strconv.FormatInt(id, 10),
		Apply: func() {
			s.remove(id)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.DeleteBudget(ctx, id)
		},
		Reverse: func() {
			s.mu.Lock()
			s.budgets = append(s.budgets, prev)
			s.mu.Unlock()
		},
	})
}

func (s *BudgetStore) get(id int64) (model.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.budgets {
		if b.ID == id {
			return b, true
		}
	}
	return model.Budget{}, false
}

func (s *BudgetStore) replace(budget model.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == budget.ID {
			s.budgets[i] = budget
			break
		}
	}
}

func (s *BudgetStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			break
		}
	}
}
