package memory

import (
	"context"
	"sync"

	"github.com/its-jojoo/otterclip/internal/core"
)

// Store keeps the last saved snapshot in process memory.
type Store struct {
	mu    sync.RWMutex
	items []core.Item
	saves int
}

func New() *Store {
	return &Store{}
}

func (s *Store) Save(ctx context.Context, items []core.Item) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cloneItems(items)
	s.saves++
	return nil
}

func (s *Store) Load(ctx context.Context) ([]core.Item, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneItems(s.items), nil
}

func (s *Store) Erase(ctx context.Context) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return nil
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func (s *Store) Close() error { return nil }

func cloneItems(in []core.Item) []core.Item {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.Item, len(in))
	for i, it := range in {
		if it.Image != nil {
			it.Image = append([]byte(nil), it.Image...)
		}
		out[i] = it
	}
	return out
}
