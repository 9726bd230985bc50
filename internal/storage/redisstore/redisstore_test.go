package redisstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

// setupTestStore creates a test Redis instance using testcontainers
func setupTestStore(t *testing.T) (*RedisStore, func()) {
	ctx := context.Background()

	redisContainer, err := tcredis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err, "Failed to start Redis container")

	uri, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := New(strings.TrimPrefix(uri, "redis://"), "", zap.NewNop())
	require.NoError(t, err, "Failed to connect to Redis")

	cleanup := func() {
		store.Close()
		redisContainer.Terminate(ctx)
	}

	return store, cleanup
}

func TestRedisStore_BooksRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	// Missing key yields an empty catalog, not an error
	books, err := store.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	year := 2015
	pages := 380
	saved := []models.Book{
		{ID: "b2", Title: "Learning Go", Author: "J. Bodner", CoverURL: "https://example.com/lg.jpg"},
		{ID: "b1", Title: "The Go Programming Language", Author: "Donovan", Publisher: "Addison-Wesley",
			Year: &year, Language: "English", Pages: &pages, CoverURL: "https://example.com/gopl.jpg"},
	}
	require.NoError(t, store.SaveBooks(ctx, saved))

	loaded, err := store.LoadBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded, "order and optional fields survive the round-trip")
}

func TestRedisStore_LoansRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	loans, err := store.LoadLoans(ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)

	saved := []models.Loan{
		{ID: "l1", BookID: "b1", Borrower: "Alice", Weeks: 2,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, store.SaveLoans(ctx, saved))

	loaded, err := store.LoadLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, saved[0].ID, loaded[0].ID)
	assert.True(t, saved[0].StartDate.Equal(loaded[0].StartDate))
}

func TestRedisStore_SaveOverwritesWholeBlob(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.SaveBooks(ctx, []models.Book{{ID: "b1", Title: "First"}}))
	require.NoError(t, store.SaveBooks(ctx, []models.Book{{ID: "b2", Title: "Second"}}))

	loaded, err := store.LoadBooks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b2", loaded[0].ID)
}

func TestRedisStore_MalformedBlobDegradesToEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.client.Set(ctx, booksKey, "{not json", 0).Err())

	books, err := store.LoadBooks(ctx)
	require.NoError(t, err, "malformed content must not raise")
	assert.Empty(t, books)
}
