// internal/catalog/memory.go
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryItemStore keeps items in a mutex-guarded map. Used by tests and
// the zero-infrastructure local mode. It hands out copies so callers
// cannot mutate stored state without an explicit Save.
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Item
}

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[uuid.UUID]Item)}
}

func (s *MemoryItemStore) FindByID(_ context.Context, id uuid.UUID) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *MemoryItemStore) Save(_ context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = *item
	return nil
}

func (s *MemoryItemStore) MarkBorrowed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if item.Borrowed {
		return ErrBorrowed
	}
	item.Borrowed = true
	s.items[id] = item
	return nil
}

func (s *MemoryItemStore) SearchByTitle(_ context.Context, query string) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var matches []*Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			cp := item
			matches = append(matches, &cp)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })
	return matches, nil
}
