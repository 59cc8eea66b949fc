package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

// PinjamanStore mirrors the remote pinjaman_items collection.
type PinjamanStore struct {
	storage service.Storage
	runner  *Runner
	items   []model.PinjamanItem
	mu      sync.RWMutex
}

// NewPinjamanStore creates an empty pinjaman store.
func NewPinjamanStore(storage service.Storage, runner *Runner) *PinjamanStore {
	return &PinjamanStore{storage: storage, runner: runner}
}

// Load replaces the mirror with the remote item list.
func (s *PinjamanStore) Load(ctx context.Context) error {
	items, err := s.storage.GetPinjamanItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pinjaman items: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// List returns a copy of the mirrored item list.
func (s *PinjamanStore) List() []model.PinjamanItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PinjamanItem, len(s.items))
	copy(out, s.items)
	return out
}

// Create writes a new item remotely and mirrors it on success.
func (s *PinjamanStore) Create(ctx context.Context, item *model.PinjamanItem) error {
	return s.runner.Run(ctx, &Command{
		Entity: "pinjaman",
		ID:     "new",
		Remote: func(ctx context.Context) error {
			return s.storage.CreatePinjamanItem(ctx, item)
		},
		Commit: func() {
			s.mu.Lock()
			s.items = append(s.items, *item)
			s.mu.Unlock()
		},
	})
}

// SetSettled optimistically toggles the settled flag with rollback.
func (s *PinjamanStore) SetSettled(ctx context.Context, id int64, settled bool) error {
	prev, ok := s.get(id)
	if !ok {
		return fmt.Errorf("pinjaman item %d not in store", id)
	}

	next := prev
	next.Settled = settled

	return s.runner.Run(ctx, &Command{
		Entity: "pinjaman",
		ID:     strconv.FormatInt(id, 10),
		Apply: func() {
			s.replace(next)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.SetPinjamanSettled(ctx, id, settled)
		},
		Reverse: func() {
			s.replace(prev)
		},
	})
}

// Delete optimistically removes an item with rollback.
func (s *PinjamanStore) Delete(ctx context.Context, id int64) error {
	prev, ok := s.get(id)
	if !ok {
		return fmt.Errorf("pinjaman item %d not in store", id)
	}

	return s.runner.Run(ctx, &Command{
		Entity: "pinjaman",
		ID:     strconv.FormatInt(id, 10),
		Apply: func() {
			s.remove(id)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.DeletePinjamanItem(ctx, id)
		},
		Reverse: func() {
			s.mu.Lock()
			s.items = append(s.items, prev)
			s.mu.Unlock()
		},
	})
}

func (s *PinjamanStore) get(id int64) (model.PinjamanItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.PinjamanItem{}, false
}

func (s *PinjamanStore) replace(item model.PinjamanItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			break
		}
	}
}

func (s *PinjamanStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}
