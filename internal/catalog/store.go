// Package catalog owns the ordered collection of book records. Records
// are kept most-recent-first; every successful mutation is written back
// to storage as a whole blob.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookshelf/internal/apperr"
	"bookshelf/internal/filter"
	"bookshelf/internal/models"
	"bookshelf/internal/storage"
)

// Store is the owned state container for the catalog.
type Store struct {
	mu     sync.RWMutex
	books  []models.Book
	db     storage.Storage
	logger *zap.Logger
}

// Facets holds the derived distinct-value lists used to populate filter
// choices. Both lists are sorted ascending and prefixed with filter.All.
type Facets struct {
	Publishers []string
	Languages  []string
}

// New creates an empty catalog backed by the given storage.
func New(db storage.Storage, logger *zap.Logger) *Store {
	return &Store{
		books:  []models.Book{},
		db:     db,
		logger: logger,
	}
}

// Hydrate loads the catalog from storage. A load failure degrades to an
// empty catalog rather than failing startup.
func (s *Store) Hydrate(ctx context.Context) {
	books, err := s.db.LoadBooks(ctx)
	if err != nil {
		s.logger.Warn("Failed to load catalog, starting empty", zap.Error(err))
		books = []models.Book{}
	}

	s.mu.Lock()
	s.books = books
	s.mu.Unlock()

	s.logger.Info("Catalog hydrated", zap.Int("books", len(books)))
}

// Add validates the input, creates a record with a fresh id and inserts
// it at the front of the collection.
func (s *Store) Add(ctx context.Context, input BookInput) (models.Book, error) {
	book, err := input.build()
	if err != nil {
		return models.Book{}, err
	}
	book.ID = uuid.NewString()

	s.mu.Lock()
	s.books = append([]models.Book{book}, s.books...)
	s.mu.Unlock()

	s.persist(ctx)
	return book, nil
}

// Update replaces all fields of the record with the given id except the
// id itself, preserving the record's position. Returns ErrNotFound when
// no record has that id.
func (s *Store) Update(ctx context.Context, id string, input BookInput) (models.Book, error) {
	book, err := input.build()
	if err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Book{}, apperr.ErrNotFound
	}
	book.ID = id
	s.books[idx] = book
	s.mu.Unlock()

	s.persist(ctx)
	return book, nil
}

// Remove deletes the record with the given id. Returns false when the id
// is absent; absent ids are a silent no-op. Loan records referencing the
// book are left in place.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.books = append(s.books[:idx], s.books[idx+1:]...)
	s.mu.Unlock()

	s.persist(ctx)
	return true
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.books[idx], true
	}
	return models.Book{}, false
}

// List returns a copy of the catalog in most-recent-first order.
func (s *Store) List() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]models.Book, len(s.books))
	copy(books, s.books)
	return books
}

// Len returns the number of records in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Facets recomputes the distinct publisher and language lists. Empty
// values are skipped; the output is sorted and deduplicated.
func (s *Store) Facets() Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Facets{
		Publishers: distinct(s.books, func(b models.Book) string { return b.Publisher }),
		Languages:  distinct(s.books, func(b models.Book) string { return b.Language }),
	}
}

// indexOf must be called with the mutex held.
func (s *Store) indexOf(id string) int {
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole catalog back to storage. Saves are
// best-effort: a failure is logged and the in-memory state stays
// authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	if err := s.db.SaveBooks(ctx, s.List()); err != nil {
		s.logger.Error("Failed to save catalog", zap.Error(err))
	}
}

func distinct(books []models.Book, field func(models.Book) string) []string {
	seen := make(map[string]bool)
	for _, b := range books {
		if v := field(b); v != "" {
			seen[v] = true
		}
	}

	values := make([]string, 0, len(seen)+1)
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	return append([]string{filter.All}, values...)
}
