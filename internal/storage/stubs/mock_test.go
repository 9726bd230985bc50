package stubs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/models"
)

func TestMockStorage_BooksRoundTrip(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()

	// Fresh store starts empty
	books, err := m.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	year := 2015
	saved := []models.Book{
		{ID: "b1", Title: "Go in Action", Author: "W. Kennedy", Year: &year, CoverURL: "https://example.com/c.jpg"},
	}
	require.NoError(t, m.SaveBooks(ctx, saved))

	loaded, err := m.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	// The stored copy is independent of the caller's slice
	saved[0].Title = "mutated"
	loaded, err = m.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go in Action", loaded[0].Title)
}

func TestMockStorage_LoansRoundTrip(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()

	loans, err := m.LoadLoans(ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)

	saved := []models.Loan{
		{ID: "l1", BookID: "b1", Borrower: "Alice", Weeks: 2, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, m.SaveLoans(ctx, saved))

	loaded, err := m.LoadLoans(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestMockStorage_FailSaves(t *testing.T) {
	m := NewMockStorage()
	m.FailSaves = true
	ctx := context.Background()

	err := m.SaveBooks(ctx, []models.Book{{ID: "b1"}})
	assert.Error(t, err)
	assert.Equal(t, 1, m.SaveBookCalls)

	books, loadErr := m.LoadBooks(ctx)
	require.NoError(t, loadErr)
	assert.Empty(t, books, "failed save must not change stored state")
}
