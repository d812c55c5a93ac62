// internal/circulation/domain.go
package circulation

import (
	"time"

	"github.com/google/uuid"

	"libris/internal/catalog"
	"libris/internal/platform/clock"
)

// Loan binds one catalog item to one member for a period of time. It
// holds identifiers only; item and member state live in their own
// stores.
type Loan struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	MemberID   uuid.UUID `json:"member_id"`
	BorrowedOn time.Time `json:"borrowed_on"`
	DueOn      time.Time `json:"due_on"`
	Active     bool      `json:"active"`
}

// NewLoan creates an active loan starting on borrowedOn. The due date
// is fixed here and never recomputed, even if the item's lending
// policy changes later.
func NewLoan(item *catalog.Item, memberID uuid.UUID, borrowedOn time.Time) *Loan {
	day := clock.Midnight(borrowedOn)
	return &Loan{
		ID:         uuid.New(),
		ItemID:     item.ID,
		MemberID:   memberID,
		BorrowedOn: day,
		DueOn:      day.AddDate(0, 0, item.Policy().LoanPeriodDays),
		Active:     true,
	}
}

// IsOverdue reports whether the loan is overdue as of the given date.
// A loan due today is not overdue; a returned loan never is.
func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.Active && clock.Midnight(asOf).After(l.DueOn)
}

// DaysOverdue returns the whole days the loan is late as of the given
// date, zero when it is not overdue.
func (l *Loan) DaysOverdue(asOf time.Time) int {
	if !l.IsOverdue(asOf) {
		return 0
	}
	return clock.DaysBetween(l.DueOn, asOf)
}

// Return deactivates the loan. Calling it again has no further effect.
func (l *Loan) Return() {
	l.Active = false
}

// Receipt is the success value returned from a borrow operation.
type Receipt struct {
	LoanID    uuid.UUID `json:"loan_id"`
	ItemTitle string    `json:"item_title"`
	DueOn     time.Time `json:"due_on"`
}

// OverdueReport describes one overdue loan with its computed fine.
type OverdueReport struct {
	LoanID      uuid.UUID        `json:"loan_id"`
	ItemTitle   string           `json:"item_title"`
	Category    catalog.Category `json:"category"`
	MemberID    uuid.UUID        `json:"member_id"`
	DaysOverdue int              `json:"days_overdue"`
	Fine        float64          `json:"fine"`
}
