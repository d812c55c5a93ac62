// internal/notification/hub_test.go
package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/catalog"
	"libris/internal/circulation"
	"libris/internal/membership"
	"libris/internal/platform/clock"
)

type recordingSink struct {
	name     string
	failWith error
	got      []string
}

func (s *recordingSink) Notify(_ context.Context, _ *membership.Member, message string) error {
	s.got = append(s.got, message)
	return s.failWith
}

type fixture struct {
	items   *catalog.MemoryItemStore
	members *membership.MemoryMemberStore
	loans   *circulation.MemoryLoanStore
	hub     *Hub
}

func newFixture(t *testing.T, today time.Time) *fixture {
	t.Helper()
	f := &fixture{
		items:   catalog.NewMemoryItemStore(),
		members: membership.NewMemoryMemberStore(),
		loans:   circulation.NewMemoryLoanStore(),
	}
	f.hub = NewHub(f.loans, f.items, f.members, clock.Fixed{Date: today})
	return f
}

func (f *fixture) addMember(t *testing.T, email string) *membership.Member {
	t.Helper()
	member := &membership.Member{ID: uuid.New(), Email: email, Name: "Test Member"}
	require.NoError(t, f.members.Save(context.Background(), member))
	return member
}

func (f *fixture) lend(t *testing.T, title string, category catalog.Category, memberID uuid.UUID, borrowedOn time.Time) {
	t.Helper()
	ctx := context.Background()
	item := &catalog.Item{ID: uuid.New(), Title: title, Category: category, Borrowed: true}
	require.NoError(t, f.items.Save(ctx, item))
	require.NoError(t, f.loans.Save(ctx, circulation.NewLoan(item, memberID, borrowedOn)))
}

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	hub := NewHub(nil, nil, nil, clock.Fixed{Date: clock.Date(2023, time.March, 1)})
	first := &recordingSink{name: "first"}
	second := &recordingSink{name: "second"}
	hub.Subscribe(first)
	hub.Subscribe(second)

	member := &membership.Member{ID: uuid.New(), Email: "a@school.edu"}
	hub.Publish(context.Background(), member, "hello")

	assert.Equal(t, []string{"hello"}, first.got)
	assert.Equal(t, []string{"hello"}, second.got)
}

func TestUnsubscribeRemovesOneRegistration(t *testing.T) {
	hub := NewHub(nil, nil, nil, clock.Fixed{Date: clock.Date(2023, time.March, 1)})
	sink := &recordingSink{name: "dup"}
	hub.Subscribe(sink)
	hub.Subscribe(sink)
	hub.Unsubscribe(sink)

	member := &membership.Member{ID: uuid.New()}
	hub.Publish(context.Background(), member, "once")
	assert.Equal(t, []string{"once"}, sink.got)

	// Removing a sink that is not registered is a no-op.
	hub.Unsubscribe(&recordingSink{name: "stranger"})
	hub.Publish(context.Background(), member, "twice")
	assert.Equal(t, []string{"once", "twice"}, sink.got)
}

func TestPublishContinuesPastFailingSink(t *testing.T) {
	hub := NewHub(nil, nil, nil, clock.Fixed{Date: clock.Date(2023, time.March, 1)})
	broken := &recordingSink{name: "broken", failWith: errors.New("smtp down")}
	healthy := &recordingSink{name: "healthy"}
	hub.Subscribe(broken)
	hub.Subscribe(healthy)

	hub.Publish(context.Background(), &membership.Member{ID: uuid.New()}, "notice")

	assert.Equal(t, []string{"notice"}, broken.got)
	assert.Equal(t, []string{"notice"}, healthy.got)
}

func TestDispatchOverdueNoticesOnePerLoan(t *testing.T) {
	today := clock.Date(2023, time.February, 1)
	f := newFixture(t, today)
	member := f.addMember(t, "reader@school.edu")

	// Both loans are overdue: the book by 3 days, the disc by 24.
	f.lend(t, "The Go Programming Language", catalog.CategoryBook, member.ID, clock.Date(2023, time.January, 1))
	f.lend(t, "Kind of Blue", catalog.CategoryMedia, member.ID, clock.Date(2023, time.January, 1))
	// A fresh loan stays quiet.
	f.lend(t, "Clean Architecture", catalog.CategoryBook, member.ID, clock.Date(2023, time.January, 30))

	mail := &recordingSink{name: "mail"}
	broker := &recordingSink{name: "broker"}
	f.hub.Subscribe(mail)
	f.hub.Subscribe(broker)

	require.NoError(t, f.hub.DispatchOverdueNotices(context.Background()))

	// Each overdue loan produces its own notice, delivered to every sink.
	for _, sink := range []*recordingSink{mail, broker} {
		require.Len(t, sink.got, 2)
		assert.Contains(t, sink.got, "Item 'The Go Programming Language' is overdue by 3 days. Please return it.")
		assert.Contains(t, sink.got, "Item 'Kind of Blue' is overdue by 24 days. Please return it.")
	}
}

func TestDispatchSkipsReturnedLoans(t *testing.T) {
	today := clock.Date(2023, time.February, 1)
	f := newFixture(t, today)
	member := f.addMember(t, "reader@school.edu")

	ctx := context.Background()
	item := &catalog.Item{ID: uuid.New(), Title: "Dune", Category: catalog.CategoryBook}
	require.NoError(t, f.items.Save(ctx, item))
	loan := circulation.NewLoan(item, member.ID, clock.Date(2023, time.January, 1))
	require.NoError(t, f.loans.Save(ctx, loan))
	loan.Return()
	require.NoError(t, f.loans.Update(ctx, loan))

	sink := &recordingSink{name: "mail"}
	f.hub.Subscribe(sink)

	require.NoError(t, f.hub.DispatchOverdueNotices(ctx))
	assert.Empty(t, sink.got)
}

func TestEmailSinkFallsBackToSynthesizedAddress(t *testing.T) {
	sink := NewEmailSink("")
	assert.Equal(t, "school.edu", sink.Domain)

	member := &membership.Member{ID: uuid.New()}
	require.NoError(t, sink.Notify(context.Background(), member, "notice"))
}
