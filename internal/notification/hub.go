// internal/notification/hub.go
package notification

import (
	"context"
	"fmt"
	"log"
	"sync"

	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/membership"
	"libris/internal/platform/clock"
)

// Sink receives overdue notifications for a member. Implementations
// live at the edges (mail adapters, message brokers).
type Sink interface {
	Notify(ctx context.Context, member *membership.Member, message string) error
}

// Hub decouples overdue detection from the act of notifying interested
// parties. It scans active loans and fans each overdue notice out to
// every registered sink.
type Hub struct {
	mu    sync.Mutex
	sinks []Sink

	loans   circulation.LoanStore
	items   catalog.ItemStore
	members membership.MemberStore
	clock   clock.Clock
}

func NewHub(loans circulation.LoanStore, items catalog.ItemStore, members membership.MemberStore, clk clock.Clock) *Hub {
	return &Hub{
		loans:   loans,
		items:   items,
		members: members,
		clock:   clk,
	}
}

// Subscribe registers a sink. The same sink may be registered more than
// once and is then notified once per registration.
func (h *Hub) Subscribe(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sinks = append(h.sinks, s)
}

// Unsubscribe removes one registration of s. It is a no-op when s is
// not registered.
func (h *Hub) Unsubscribe(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, registered := range h.sinks {
		if registered == s {
			h.sinks = append(h.sinks[:i], h.sinks[i+1:]...)
			return
		}
	}
}

// Publish delivers the message to every registered sink in
// registration order. Delivery is best-effort and independent per
// sink: a failing sink is logged and never blocks the ones after it.
func (h *Hub) Publish(ctx context.Context, member *membership.Member, message string) {
	h.mu.Lock()
	sinks := make([]Sink, len(h.sinks))
	copy(sinks, h.sinks)
	h.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Notify(ctx, member, message); err != nil {
			log.Printf("notification: sink failed for member %s: %v", member.ID, err)
		}
	}
}

// DispatchOverdueNotices publishes one notice per overdue loan. A
// member with two overdue loans receives two separate notices.
func (h *Hub) DispatchOverdueNotices(ctx context.Context) error {
	today := h.clock.Today()

	active, err := h.loans.FindAllActive(ctx)
	if err != nil {
		return fmt.Errorf("load active loans: %w", err)
	}

	for _, loan := range active {
		if !loan.IsOverdue(today) {
			continue
		}

		item, err := h.items.FindByID(ctx, loan.ItemID)
		if err != nil {
			return fmt.Errorf("load item %s: %w", loan.ItemID, err)
		}
		member, err := h.members.FindByID(ctx, loan.MemberID)
		if err != nil {
			return fmt.Errorf("load member %s: %w", loan.MemberID, err)
		}

		message := fmt.Sprintf("Item '%s' is overdue by %d days. Please return it.",
			item.Title, loan.DaysOverdue(today))
		h.Publish(ctx, member, message)
	}
	return nil
}
