// internal/circulation/service.go
package circulation

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the circulation service.
type Service interface {
	Borrow(ctx context.Context, memberID, itemID uuid.UUID) (*Receipt, error)
	Return(ctx context.Context, memberID, itemID uuid.UUID) error
	OverdueItems(ctx context.Context) ([]OverdueReport, error)
}
