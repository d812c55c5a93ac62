// internal/circulation/implementation.go
package circulation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"libris/internal/catalog"
	"libris/internal/membership"
	"libris/internal/platform/clock"
)

// service implements the Service interface.
type service struct {
	items   catalog.ItemStore
	members membership.MemberStore
	loans   LoanStore
	clock   clock.Clock
	tracer  trace.Tracer
	borrows metric.Int64Counter
}

// NewService creates a new circulation service instance.
func NewService(items catalog.ItemStore, members membership.MemberStore, loans LoanStore, clk clock.Clock) Service {
	borrows, err := otel.Meter("libris/circulation").Int64Counter(
		"circulation.borrows",
		metric.WithDescription("Successful borrow operations"),
	)
	if err != nil {
		log.Printf("circulation: borrow counter unavailable: %v", err)
	}

	return &service{
		items:   items,
		members: members,
		loans:   loans,
		clock:   clk,
		tracer:  otel.Tracer("libris/circulation"),
		borrows: borrows,
	}
}

// Borrow lends an item to a member when the member is eligible. The
// checks run in a fixed order and the first failing one determines the
// reported error: item availability, unpaid fines, then overdue items.
func (s *service) Borrow(ctx context.Context, memberID, itemID uuid.UUID) (*Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.borrow",
		trace.WithAttributes(
			attribute.String("member.id", memberID.String()),
			attribute.String("item.id", itemID.String()),
		),
	)
	defer span.End()

	// All state is read up front so a rejected borrow leaves nothing
	// half-applied.
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("load member: %w", err)
	}
	memberLoans, err := s.loans.FindActiveByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}
	today := s.clock.Today()

	if item.Borrowed {
		return nil, ErrItemUnavailable
	}
	if member.FineBalance > 0 {
		return nil, ErrUnpaidFines
	}
	for _, l := range memberLoans {
		if l.IsOverdue(today) {
			return nil, ErrOverdueItems
		}
	}

	// The flag flip is the commit point. MarkBorrowed is atomic in the
	// store, so of two concurrent borrows on the same copy only one
	// gets past this line; the loser reports the item unavailable just
	// as if it had observed the flag up front.
	if err := s.items.MarkBorrowed(ctx, itemID); err != nil {
		if errors.Is(err, catalog.ErrBorrowed) {
			return nil, ErrItemUnavailable
		}
		return nil, fmt.Errorf("mark item borrowed: %w", err)
	}

	loan := NewLoan(item, memberID, today)
	if err := s.loans.Save(ctx, loan); err != nil {
		return nil, fmt.Errorf("save loan: %w", err)
	}

	if s.borrows != nil {
		s.borrows.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", string(item.Category)),
		))
	}

	return &Receipt{LoanID: loan.ID, ItemTitle: item.Title, DueOn: loan.DueOn}, nil
}

// Return closes the member's active loan on the item and makes the
// item lendable again.
func (s *service) Return(ctx context.Context, memberID, itemID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "circulation.return",
		trace.WithAttributes(
			attribute.String("member.id", memberID.String()),
			attribute.String("item.id", itemID.String()),
		),
	)
	defer span.End()

	loan, err := s.loans.FindActiveByMemberAndItem(ctx, memberID, itemID)
	if err != nil {
		return err
	}

	loan.Return()
	if err := s.loans.Update(ctx, loan); err != nil {
		return fmt.Errorf("update loan: %w", err)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("load item: %w", err)
	}
	item.Borrowed = false
	if err := s.items.Save(ctx, item); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// OverdueItems reports every active loan past its due date as of
// today, with the fine the item's category policy yields for the days
// late. Reports come out ordered by due date, oldest first.
func (s *service) OverdueItems(ctx context.Context) ([]OverdueReport, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.overdue_items")
	defer span.End()

	today := s.clock.Today()
	active, err := s.loans.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}

	reports := make([]OverdueReport, 0)
	for _, loan := range active {
		if !loan.IsOverdue(today) {
			continue
		}

		item, err := s.items.FindByID(ctx, loan.ItemID)
		if err != nil {
			return nil, fmt.Errorf("load item %s: %w", loan.ItemID, err)
		}

		days := loan.DaysOverdue(today)
		reports = append(reports, OverdueReport{
			LoanID:      loan.ID,
			ItemTitle:   item.Title,
			Category:    item.Category,
			MemberID:    loan.MemberID,
			DaysOverdue: days,
			Fine:        item.Policy().Fine(days),
		})
	}
	return reports, nil
}
