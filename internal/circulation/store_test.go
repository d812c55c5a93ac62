// internal/circulation/store_test.go
package circulation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris/internal/catalog"
	"libris/internal/platform/clock"
	"libris/internal/platform/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))
	return conn
}

func seedLoan(t *testing.T, store *SQLLoanStore, memberID uuid.UUID, category catalog.Category, borrowedOn time.Time) *Loan {
	t.Helper()
	item := &catalog.Item{ID: uuid.New(), Title: "t", Category: category}
	loan := NewLoan(item, memberID, borrowedOn)
	require.NoError(t, store.Save(context.Background(), loan))
	return loan
}

func TestSQLLoanStoreActiveLoansOrderedByDueDate(t *testing.T) {
	ctx := context.Background()
	store := NewSQLLoanStore(newTestDB(t))
	memberID := uuid.New()

	// Inserted out of due-date order on purpose.
	late := seedLoan(t, store, memberID, catalog.CategoryBook, clock.Date(2023, time.March, 1))
	early := seedLoan(t, store, memberID, catalog.CategoryMedia, clock.Date(2023, time.January, 1))
	middle := seedLoan(t, store, memberID, catalog.CategoryBook, clock.Date(2023, time.January, 10))

	active, err := store.FindAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, early.ID, active[0].ID)
	assert.Equal(t, middle.ID, active[1].ID)
	assert.Equal(t, late.ID, active[2].ID)
	assert.True(t, active[0].DueOn.Equal(early.DueOn))
}

func TestSQLLoanStoreUpdateDeactivates(t *testing.T) {
	ctx := context.Background()
	store := NewSQLLoanStore(newTestDB(t))
	memberID := uuid.New()

	loan := seedLoan(t, store, memberID, catalog.CategoryBook, clock.Date(2023, time.January, 1))
	keep := seedLoan(t, store, memberID, catalog.CategoryBook, clock.Date(2023, time.January, 2))

	loan.Return()
	require.NoError(t, store.Update(ctx, loan))

	active, err := store.FindAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)

	count, err := store.CountActiveByMember(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLLoanStoreMemberQueries(t *testing.T) {
	ctx := context.Background()
	store := NewSQLLoanStore(newTestDB(t))

	alice := uuid.New()
	bob := uuid.New()
	aliceLoan := seedLoan(t, store, alice, catalog.CategoryBook, clock.Date(2023, time.January, 1))
	seedLoan(t, store, bob, catalog.CategoryMedia, clock.Date(2023, time.January, 1))

	mine, err := store.FindActiveByMember(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, aliceLoan.ID, mine[0].ID)

	got, err := store.FindActiveByMemberAndItem(ctx, alice, aliceLoan.ItemID)
	require.NoError(t, err)
	assert.Equal(t, aliceLoan.ID, got.ID)
	assert.True(t, got.BorrowedOn.Equal(aliceLoan.BorrowedOn))
	assert.True(t, got.Active)

	// Bob never borrowed Alice's item.
	_, err = store.FindActiveByMemberAndItem(ctx, bob, aliceLoan.ItemID)
	assert.ErrorIs(t, err, ErrLoanNotFound)

	count, err := store.CountActiveByMember(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
