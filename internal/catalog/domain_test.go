// internal/catalog/domain_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCategoryPolicies(t *testing.T) {
	testCases := []struct {
		category       Category
		loanPeriodDays int
		finePerDay     float64
	}{
		{CategoryBook, 28, 10.0},
		{CategoryMedia, 7, 20.0},
	}
	for _, tt := range testCases {
		t.Run(string(tt.category), func(t *testing.T) {
			p := tt.category.Policy()
			assert.Equal(t, tt.loanPeriodDays, p.LoanPeriodDays)
			assert.Equal(t, tt.finePerDay, p.FinePerDay)
		})
	}
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryBook.Valid())
	assert.True(t, CategoryMedia.Valid())
	assert.False(t, Category("vinyl").Valid())
	assert.False(t, Category("").Valid())
}

func TestFine(t *testing.T) {
	testCases := []struct {
		name        string
		category    Category
		overdueDays int
		want        float64
	}{
		{"book zero days", CategoryBook, 0, 0},
		{"book three days", CategoryBook, 3, 30.0},
		{"media zero days", CategoryMedia, 0, 0},
		{"media three days", CategoryMedia, 3, 60.0},
		{"negative input clamps", CategoryBook, -5, 0},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.Policy().Fine(tt.overdueDays))
		})
	}
}

func TestFineProperties(t *testing.T) {
	categories := []Category{CategoryBook, CategoryMedia}

	rapid.Check(t, func(t *rapid.T) {
		category := rapid.SampledFrom(categories).Draw(t, "category")
		days := rapid.IntRange(0, 10_000).Draw(t, "days")
		p := category.Policy()

		fine := p.Fine(days)
		if fine < 0 {
			t.Fatalf("fine for %d days is negative: %f", days, fine)
		}
		if days == 0 && fine != 0 {
			t.Fatalf("fine for zero days must be zero, got %f", fine)
		}
		// Monotonic non-decreasing in the day count.
		if next := p.Fine(days + 1); next < fine {
			t.Fatalf("fine decreased from %f to %f", fine, next)
		}
	})
}
