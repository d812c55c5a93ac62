// internal/catalog/store_test.go
package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestSQLItemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSQLItemStore(newTestDB(t))

	_, err := store.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	item := &Item{
		ID:        uuid.New(),
		Title:     "Dune",
		Creator:   "Frank Herbert",
		Category:  CategoryBook,
		CreatedAt: time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, item))

	got, err := store.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Creator)
	assert.Equal(t, CategoryBook, got.Category)
	assert.False(t, got.Borrowed)
	assert.True(t, got.CreatedAt.Equal(item.CreatedAt))
}

func TestSQLItemStoreSaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewSQLItemStore(newTestDB(t))

	item := &Item{ID: uuid.New(), Title: "Dune", Creator: "Frank Herbert", Category: CategoryBook}
	require.NoError(t, store.Save(ctx, item))

	item.Borrowed = true
	require.NoError(t, store.Save(ctx, item))

	got, err := store.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Borrowed)

	// Still one row, not two.
	matches, err := store.SearchByTitle(ctx, "dune")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSQLItemStoreSearchByTitle(t *testing.T) {
	ctx := context.Background()
	store := NewSQLItemStore(newTestDB(t))

	for _, title := range []string{"The Go Programming Language", "Gone with the Wind", "Dune"} {
		item := &Item{ID: uuid.New(), Title: title, Creator: "x", Category: CategoryBook}
		require.NoError(t, store.Save(ctx, item))
	}

	matches, err := store.SearchByTitle(ctx, "GO")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Gone with the Wind", matches[0].Title)
	assert.Equal(t, "The Go Programming Language", matches[1].Title)

	matches, err = store.SearchByTitle(ctx, "hobbit")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSQLItemStoreMarkBorrowed(t *testing.T) {
	ctx := context.Background()
	store := NewSQLItemStore(newTestDB(t))

	assert.ErrorIs(t, store.MarkBorrowed(ctx, uuid.New()), ErrNotFound)

	item := &Item{ID: uuid.New(), Title: "Dune", Creator: "Frank Herbert", Category: CategoryBook}
	require.NoError(t, store.Save(ctx, item))

	require.NoError(t, store.MarkBorrowed(ctx, item.ID))
	got, err := store.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Borrowed)

	// The flag only flips once.
	assert.ErrorIs(t, store.MarkBorrowed(ctx, item.ID), ErrBorrowed)
}
