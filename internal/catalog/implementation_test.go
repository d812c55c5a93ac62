// internal/catalog/implementation_test.go
package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemRejectsUnknownCategory(t *testing.T) {
	svc := NewService(NewMemoryItemStore(), nil)

	_, err := svc.AddItem(context.Background(), "White Album", "The Beatles", Category("vinyl"))
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestAddAndGetItem(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryItemStore(), nil)

	created, err := svc.AddItem(ctx, "Kind of Blue", "Miles Davis", CategoryMedia)
	require.NoError(t, err)
	assert.False(t, created.Borrowed)
	assert.Equal(t, 7, created.Policy().LoanPeriodDays)

	got, err := svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Kind of Blue", got.Title)
}

func TestSearchWithoutCache(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryItemStore(), nil)

	_, err := svc.AddItem(ctx, "The Pragmatic Programmer", "Hunt & Thomas", CategoryBook)
	require.NoError(t, err)

	items, err := svc.Search(ctx, "  pragmatic ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "The Pragmatic Programmer", items[0].Title)
}
