// internal/catalog/implementation.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidCategory is returned when an item is added with an unknown
// category.
var ErrInvalidCategory = errors.New("catalog: unknown category")

const searchCacheTTL = 30 * time.Second

// service implements the Service interface.
type service struct {
	store ItemStore
	cache *redis.Client
}

// NewService creates a new catalog service instance. The cache client
// is optional; without it every search hits the store.
func NewService(store ItemStore, cache *redis.Client) Service {
	return &service{
		store: store,
		cache: cache,
	}
}

// AddItem creates a new item in the catalog.
func (s *service) AddItem(ctx context.Context, title, creator string, category Category) (*Item, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	item := &Item{
		ID:        uuid.New(),
		Title:     title,
		Creator:   creator,
		Category:  category,
		Borrowed:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

// GetItem retrieves an item by its ID.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.store.FindByID(ctx, id)
}

// Search returns all items whose title contains the query, ignoring
// case. Results may be up to searchCacheTTL stale when the cache is
// enabled; eligibility decisions never read them.
func (s *service) Search(ctx context.Context, query string) ([]*Item, error) {
	q := strings.TrimSpace(query)

	if s.cache != nil {
		val, err := s.cache.Get(ctx, searchKey(q)).Result()
		if err == nil {
			var items []*Item
			if err := json.Unmarshal([]byte(val), &items); err == nil {
				return items, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("catalog: search cache read failed: %v", err)
		}
	}

	items, err := s.store.SearchByTitle(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, searchKey(q), payload, searchCacheTTL).Err(); err != nil {
				log.Printf("catalog: search cache write failed: %v", err)
			}
		}
	}
	return items, nil
}

func searchKey(query string) string {
	return "catalog:search:" + strings.ToLower(query)
}
