package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

// WishlistStore mirrors the remote want_to_buy_items collection.
type WishlistStore struct {
	storage service.Storage
	runner  *Runner
	items   []model.WishlistItem
	mu      sync.RWMutex
}

// NewWishlistStore creates an empty wishlist store.
func NewWishlistStore(storage service.Storage, runner *Runner) *WishlistStore {
	return &WishlistStore{storage: storage, runner: runner}
}

// Load replaces the mirror with the remote item list.
func (s *WishlistStore) Load(ctx context.Context) error {
	items, err := s.storage.GetWishlistItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wishlist items: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// List returns a copy of the mirrored item list.
func (s *WishlistStore) List() []model.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Create writes a new item remotely and mirrors it on success.
func (s *WishlistStore) Create(ctx context.Context, item *model.WishlistItem) error {
	return s.runner.Run(ctx, &Command{
		Entity: "wishlist",
		ID:     "new",
		Remote: func(ctx context.Context) error {
			return s.storage.CreateWishlistItem(ctx, item)
		},
		Commit: func() {
			s.mu.Lock()
			s.items = append(s.items, *item)
			s.mu.Unlock()
		},
	})
}

// Update optimistically applies an edit with rollback.
func (s *WishlistStore) Update(ctx context.Context, item model.WishlistItem) error {
	prev, ok := s.get(item.ID)
	if !ok {
		return fmt.Errorf("wishlist item %d not in store", item.ID)
	}

	return s.runner.Run(ctx, &Command{
		Entity: "wishlist",
		ID:     strconv.FormatInt(item.ID, 10),
		Apply: func() {
			s.replace(item)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.UpdateWishlistItem(ctx, &item)
		},
		Reverse: func() {
			s.replace(prev)
		},
	})
}

// Delete optimistically removes an item with rollback.
func (s *WishlistStore) Delete(ctx context.Context, id int64) error {
	prev, ok := s.get(id)
	if !ok {
		return fmt.Errorf("wishlist item %d not in store", id)
	}

	return s.runner.Run(ctx, &Command{
		Entity: "wishlist",
		ID:     strconv.FormatInt(id, 10),
		Apply: func() {
			s.remove(id)
		},
		Remote: func(ctx context.Context) error {
			return s.storage.DeleteWishlistItem(ctx, id)
		},
		Reverse: func() {
			s.mu.Lock()
			s.items = append(s.items, prev)
			s.mu.Unlock()
		},
	})
}

func (s *WishlistStore) get(id int64) (model.WishlistItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.WishlistItem{}, false
}

func (s *WishlistStore) replace(item model.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			break
		}
	}
}

func (s *WishlistStore) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}
