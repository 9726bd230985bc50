package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf/internal/apperr"
	"bookshelf/internal/filter"
	"bookshelf/internal/storage/stubs"
)

func newTestStore() (*Store, *stubs.MockStorage) {
	db := stubs.NewMockStorage()
	return New(db, zap.NewNop()), db
}

func validInput() BookInput {
	return BookInput{
		Title:    "Go in Action",
		Author:   "W. Kennedy",
		CoverURL: "https://example.com/go-in-action.jpg",
	}
}

func TestStore_AddRoundTrip(t *testing.T) {
	store, db := newTestStore()
	ctx := context.Background()

	input := BookInput{
		Title:     "  The Go Programming Language  ",
		Author:    "Donovan",
		Publisher: "Addison-Wesley",
		Year:      "2015",
		Language:  "English",
		Pages:     "380",
		CoverURL:  "https://example.com/gopl.jpg",
	}

	book, err := store.Add(ctx, input)
	require.NoError(t, err)
	require.NotEmpty(t, book.ID)

	got, ok := store.Get(book.ID)
	require.True(t, ok)
	assert.Equal(t, "The Go Programming Language", got.Title)
	assert.Equal(t, "Donovan", got.Author)
	assert.Equal(t, "Addison-Wesley", got.Publisher)
	require.NotNil(t, got.Year)
	assert.Equal(t, 2015, *got.Year)
	assert.Equal(t, "English", got.Language)
	require.NotNil(t, got.Pages)
	assert.Equal(t, 380, *got.Pages)
	assert.Equal(t, "https://example.com/gopl.jpg", got.CoverURL)

	// Every successful mutation writes the whole blob back
	assert.Equal(t, 1, db.SaveBookCalls)
}

func TestStore_AddOmitsBlankNumericFields(t *testing.T) {
	store, _ := newTestStore()

	book, err := store.Add(context.Background(), validInput())
	require.NoError(t, err)
	assert.Nil(t, book.Year)
	assert.Nil(t, book.Pages)
}

func TestStore_AddValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*BookInput)
	}{
		{"empty title", func(in *BookInput) { in.Title = "" }},
		{"whitespace title", func(in *BookInput) { in.Title = "   " }},
		{"empty author", func(in *BookInput) { in.Author = "" }},
		{"whitespace author", func(in *BookInput) { in.Author = " \t " }},
		{"empty cover url", func(in *BookInput) { in.CoverURL = "" }},
		{"non-numeric year", func(in *BookInput) { in.Year = "abc" }},
		{"negative year", func(in *BookInput) { in.Year = "-3" }},
		{"non-numeric pages", func(in *BookInput) { in.Pages = "many" }},
		{"zero pages", func(in *BookInput) { in.Pages = "0" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, db := newTestStore()
			input := validInput()
			tc.mutate(&input)

			_, err := store.Add(context.Background(), input)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err), "expected a validation error, got %v", err)
			assert.Equal(t, 0, store.Len(), "catalog must stay unchanged")
			assert.Equal(t, 0, db.SaveBookCalls, "rejected input must not persist")
		})
	}
}

func TestStore_AddInsertsAtFront(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	first, err := store.Add(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.Title = "Learning Go"
	newest, err := store.Add(ctx, second)
	require.NoError(t, err)

	books := store.List()
	require.Len(t, books, 2)
	assert.Equal(t, newest.ID, books[0].ID)
	assert.Equal(t, first.ID, books[1].ID)
}

func TestStore_UpdatePreservesPosition(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	older, err := store.Add(ctx, validInput())
	require.NoError(t, err)
	_, err = store.Add(ctx, validInput())
	require.NoError(t, err)

	update := validInput()
	update.Title = "Go in Action, Second Edition"
	updated, err := store.Update(ctx, older.ID, update)
	require.NoError(t, err)
	assert.Equal(t, older.ID, updated.ID)

	books := store.List()
	require.Len(t, books, 2)
	assert.Equal(t, older.ID, books[1].ID, "updated record keeps its position")
	assert.Equal(t, "Go in Action, Second Edition", books[1].Title)
}

func TestStore_UpdateUnknownID(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.Update(context.Background(), "missing", validInput())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStore_Remove(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	book, err := store.Add(ctx, validInput())
	require.NoError(t, err)

	assert.True(t, store.Remove(ctx, book.ID))
	assert.Equal(t, 0, store.Len())

	// Removing an absent id is a silent no-op
	assert.False(t, store.Remove(ctx, book.ID))
}

func TestStore_Facets(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	add := func(publisher, language string) {
		input := validInput()
		input.Publisher = publisher
		input.Language = language
		_, err := store.Add(ctx, input)
		require.NoError(t, err)
	}

	add("O'Reilly", "English")
	add("Manning", "German")
	add("O'Reilly", "English") // duplicates collapse
	add("", "")                // blanks are skipped

	facets := store.Facets()
	assert.Equal(t, []string{filter.All, "Manning", "O'Reilly"}, facets.Publishers)
	assert.Equal(t, []string{filter.All, "English", "German"}, facets.Languages)
}

func TestStore_FacetsEmptyCatalog(t *testing.T) {
	store, _ := newTestStore()

	facets := store.Facets()
	assert.Equal(t, []string{filter.All}, facets.Publishers)
	assert.Equal(t, []string{filter.All}, facets.Languages)
}

func TestStore_Hydrate(t *testing.T) {
	db := stubs.NewMockStorage()
	seed := New(db, zap.NewNop())
	_, err := seed.Add(context.Background(), validInput())
	require.NoError(t, err)

	store := New(db, zap.NewNop())
	store.Hydrate(context.Background())
	assert.Equal(t, 1, store.Len())
}

func TestStore_SaveFailureKeepsState(t *testing.T) {
	store, db := newTestStore()
	db.FailSaves = true

	book, err := store.Add(context.Background(), validInput())
	require.NoError(t, err, "save failures are best-effort, the mutation still succeeds")

	_, ok := store.Get(book.ID)
	assert.True(t, ok)
}
