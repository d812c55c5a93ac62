// internal/membership/domain.go
package membership

import (
	"time"

	"github.com/google/uuid"
)

// Member represents a library member. FineBalance never goes below
// zero; payments that exceed it clamp to exactly zero.
type Member struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	FineBalance  float64   `json:"fine_balance"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
