// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the catalog service.
type Service interface {
	AddItem(ctx context.Context, title, creator string, category Category) (*Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	Search(ctx context.Context, query string) ([]*Item, error)
}
