package stubs

import (
	"context"
	"errors"
	"sync"

	"bookshelf/internal/models"
)

var errSaveFailed = errors.New("save failed")

// MockStorage is an in-memory implementation of the Storage interface for
// tests and for running without a Redis instance (USE_MOCK_DB mode).
type MockStorage struct {
	mu    sync.RWMutex
	books []models.Book
	loans []models.Loan

	// FailSaves makes every save return an error, to exercise the
	// best-effort persistence path.
	FailSaves bool

	// SaveBookCalls and SaveLoanCalls count writes for assertions.
	SaveBookCalls int
	SaveLoanCalls int
}

// NewMockStorage creates an empty mock store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		books: []models.Book{},
		loans: []models.Loan{},
	}
}

// LoadBooks returns a copy of the stored catalog.
func (m *MockStorage) LoadBooks(ctx context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]models.Book, len(m.books))
	copy(books, m.books)
	return books, nil
}

// SaveBooks replaces the stored catalog.
func (m *MockStorage) SaveBooks(ctx context.Context, books []models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveBookCalls++
	if m.FailSaves {
		return errSaveFailed
	}
	m.books = make([]models.Book, len(books))
	copy(m.books, books)
	return nil
}

// LoadLoans returns a copy of the stored ledger.
func (m *MockStorage) LoadLoans(ctx context.Context) ([]models.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	loans := make([]models.Loan, len(m.loans))
	copy(loans, m.loans)
	return loans, nil
}

// SaveLoans replaces the stored ledger.
func (m *MockStorage) SaveLoans(ctx context.Context, loans []models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveLoanCalls++
	if m.FailSaves {
		return errSaveFailed
	}
	m.loans = make([]models.Loan, len(loans))
	copy(m.loans, loans)
	return nil
}

// Close does nothing for the mock store.
func (m *MockStorage) Close() error {
	return nil
}
