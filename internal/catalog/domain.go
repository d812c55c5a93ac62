// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Category identifies the kind of lendable item. Loan period and fine
// policy are fixed per category and never change after an item is
// created.
type Category string

const (
	CategoryBook  Category = "book"
	CategoryMedia Category = "media"
)

// Policy holds the per-category lending rules.
type Policy struct {
	LoanPeriodDays int
	FinePerDay     float64
}

var policies = map[Category]Policy{
	CategoryBook:  {LoanPeriodDays: 28, FinePerDay: 10.0},
	CategoryMedia: {LoanPeriodDays: 7, FinePerDay: 20.0},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := policies[c]
	return ok
}

// Policy returns the lending rules for the category.
func (c Category) Policy() Policy {
	return policies[c]
}

// Fine computes the fine for the given number of overdue days. Zero
// days is always free; negative input is clamped to zero rather than
// producing a negative amount.
func (p Policy) Fine(overdueDays int) float64 {
	if overdueDays <= 0 {
		return 0
	}
	return float64(overdueDays) * p.FinePerDay
}

// Item represents a lendable catalog entry. Creator is the author for
// books and the artist for media.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Creator   string    `json:"creator"`
	Category  Category  `json:"category"`
	Borrowed  bool      `json:"borrowed"`
	CreatedAt time.Time `json:"created_at"`
}

// Policy returns the lending rules attached to the item's category.
func (i *Item) Policy() Policy {
	return i.Category.Policy()
}
