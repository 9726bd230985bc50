package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

// Keys under which the two collections are stored. Each holds the whole
// collection as one JSON array.
const (
	booksKey = "bookshelf:books"
	loansKey = "bookshelf:loans"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisStore persists the catalog and loan collections as JSON blobs in Redis.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// New creates a Redis-backed store and verifies the connection.
func New(addr, password string, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, logger: logger}, nil
}

// NewFromURL creates a Redis-backed store from a full connection URL
// (e.g. rediss://default:<token>@host:port).
func NewFromURL(url string, logger *zap.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, logger: logger}, nil
}

// LoadBooks loads the catalog blob. A missing or malformed blob yields an
// empty catalog without an error.
func (s *RedisStore) LoadBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if !s.loadBlob(ctx, booksKey, &books) {
		return []models.Book{}, nil
	}
	return books, nil
}

// SaveBooks overwrites the catalog blob with the given collection.
func (s *RedisStore) SaveBooks(ctx context.Context, books []models.Book) error {
	return s.saveBlob(ctx, booksKey, books)
}

// LoadLoans loads the loan blob. A missing or malformed blob yields an
// empty ledger without an error.
func (s *RedisStore) LoadLoans(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	if !s.loadBlob(ctx, loansKey, &loans) {
		return []models.Loan{}, nil
	}
	return loans, nil
}

// SaveLoans overwrites the loan blob with the given collection.
func (s *RedisStore) SaveLoans(ctx context.Context, loans []models.Loan) error {
	return s.saveBlob(ctx, loansKey, loans)
}

// loadBlob reads and decodes one collection. Returns false when the value
// is absent or cannot be decoded; both degrade to an empty collection.
func (s *RedisStore) loadBlob(ctx context.Context, key string, out interface{}) bool {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.logger.Warn("Failed to load blob, starting empty",
			zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("Malformed blob, starting empty",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *RedisStore) saveBlob(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode blob %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
