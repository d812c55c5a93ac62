// internal/circulation/errors.go
package circulation

import "errors"

// Borrow eligibility failures, in the order the checks run. Exactly one
// of these is reported per rejected borrow.
var (
	ErrItemUnavailable = errors.New("circulation: item is already borrowed")
	ErrUnpaidFines     = errors.New("circulation: member has unpaid fines")
	ErrOverdueItems    = errors.New("circulation: member has overdue items")
)

// ErrLoanNotFound is returned when no active loan matches a return
// request.
var ErrLoanNotFound = errors.New("circulation: no active loan found")
